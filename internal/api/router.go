// Package api wires the HTTP surface: a gorilla/mux router with thin
// handlers delegating to the core services.
package api

import (
	"github.com/gorilla/mux"

	"unitime-backend/internal/api/recovery"
	"unitime-backend/internal/auth"
	"unitime-backend/internal/blob"
	"unitime-backend/internal/chat"
	"unitime-backend/internal/core/insights"
	"unitime-backend/internal/core/timetable"
	"unitime-backend/internal/store"

	aiprovider "unitime-backend/internal/ai"
)

// Deps carries everything the router needs. AI, Blob and Auth may be nil;
// the affected endpoints degrade accordingly.
type Deps struct {
	Store store.Store
	AI    aiprovider.Provider
	Blob  blob.Uploader
	Chat  *chat.Responder
	Auth  *auth.Verifier

	// IsHealthy reports aggregate service health for /api/health.
	IsHealthy func() bool
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()

	router.Use(recovery.Middleware)

	timetableService := timetable.NewService(deps.Store)
	insightsService := insights.NewService(deps.Store)

	timetableHandler := NewTimetableHandler(timetableService)
	insightsHandler := NewInsightsHandler(insightsService)
	assistHandler := NewAssistHandler(deps.AI, deps.Blob, deps.Chat)
	healthHandler := NewHealthHandler(deps.IsHealthy)

	// Liveness and health
	router.HandleFunc("/", healthHandler.Root).Methods("GET")
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Assistant endpoints
	router.HandleFunc("/api/analyze", assistHandler.Analyze).Methods("POST")
	router.HandleFunc("/api/chat", assistHandler.Chat).Methods("POST")
	router.HandleFunc("/api/upload-profile", assistHandler.UploadProfile).Methods("POST")

	// Everything under /api/users honors the optional bearer-token check.
	users := router.PathPrefix("/api/users").Subrouter()
	users.Use(deps.Auth.Middleware)

	users.HandleFunc("", timetableHandler.CreateUser).Methods("POST")
	users.HandleFunc("/{userId}", timetableHandler.GetUser).Methods("GET")

	users.HandleFunc("/{userId}/activities", timetableHandler.CreateActivity).Methods("POST")
	users.HandleFunc("/{userId}/activities", timetableHandler.ListActivities).Methods("GET")
	users.HandleFunc("/{userId}/activities/{activityId}/cancel", timetableHandler.CancelActivity).Methods("PATCH")
	users.HandleFunc("/{userId}/activities/{activityId}", timetableHandler.DeleteActivity).Methods("DELETE")

	users.HandleFunc("/{userId}/assignments", timetableHandler.CreateAssignment).Methods("POST")
	users.HandleFunc("/{userId}/assignments", timetableHandler.ListAssignments).Methods("GET")
	users.HandleFunc("/{userId}/assignments/{assignmentId}/complete", timetableHandler.CompleteAssignment).Methods("PATCH")

	users.HandleFunc("/{userId}/scores", timetableHandler.CreateScore).Methods("POST")
	users.HandleFunc("/{userId}/scores", timetableHandler.ListScores).Methods("GET")

	users.HandleFunc("/{userId}/study-requests", timetableHandler.CreateStudyRequest).Methods("POST")
	users.HandleFunc("/{userId}/study-requests", timetableHandler.ListStudyRequests).Methods("GET")

	users.HandleFunc("/{userId}/free-time", insightsHandler.FreeTime).Methods("GET")
	users.HandleFunc("/{userId}/free-time/current", insightsHandler.CurrentFreeTime).Methods("GET")
	users.HandleFunc("/{userId}/academic-gaps", insightsHandler.AcademicGaps).Methods("GET")
	users.HandleFunc("/{userId}/study-partners", insightsHandler.StudyPartners).Methods("GET")

	// Status transitions address the request directly, not a user.
	requests := router.PathPrefix("/api/study-requests").Subrouter()
	requests.Use(deps.Auth.Middleware)
	requests.HandleFunc("/{requestId}/status", timetableHandler.UpdateStudyRequestStatus).Methods("PATCH")

	return router
}
