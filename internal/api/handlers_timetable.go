package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"unitime-backend/internal/api/validate"
	"unitime-backend/internal/core/timetable"
	platformHttp "unitime-backend/internal/platform/http"
)

// TimetableHandler handles user, activity, assignment, score and
// study-request HTTP requests (thin transport layer).
type TimetableHandler struct {
	service *timetable.Service
}

func NewTimetableHandler(service *timetable.Service) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case timetable.IsValidationError(err):
		platformHttp.WriteBadRequest(w, err.Error())
	case timetable.IsNotFoundError(err):
		platformHttp.WriteNotFound(w, err.Error())
	case timetable.IsConflictError(err):
		platformHttp.WriteError(w, http.StatusConflict, err.Error())
	default:
		platformHttp.WriteInternalError(w, err.Error())
	}
}

// CreateUser handles POST /api/users
func (h *TimetableHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string  `json:"userId"`
		Email       string  `json:"email" validate:"required,email"`
		DisplayName *string `json:"displayName,omitempty"`
		Role        string  `json:"role" validate:"omitempty,oneof=student teacher"`
	}
	if err := validate.DecodeJSON(r, &req); err != nil {
		platformHttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), timetable.CreateUserRequest{
		UserID:      req.UserID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /api/users/{userId}
func (h *TimetableHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, user)
}

// CreateActivity handles POST /api/users/{userId}/activities
func (h *TimetableHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req struct {
		Subject   string `json:"subject" validate:"required"`
		Day       string `json:"day" validate:"required"`
		StartTime string `json:"startTime" validate:"required"`
		Room      string `json:"room"`
	}
	if err := validate.DecodeJSON(r, &req); err != nil {
		platformHttp.WriteBadRequest(w, err.Error())
		return
	}

	activity, err := h.service.CreateActivity(r.Context(), timetable.CreateActivityRequest{
		UserID:    userID,
		Subject:   req.Subject,
		Day:       req.Day,
		StartTime: req.StartTime,
		Room:      req.Room,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusCreated, activity)
}

// ListActivities handles GET /api/users/{userId}/activities
func (h *TimetableHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	activities, err := h.service.ListActivities(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"activities": activities,
		"count":      len(activities),
	})
}

// CancelActivity handles PATCH /api/users/{userId}/activities/{activityId}/cancel
func (h *TimetableHandler) CancelActivity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Body is optional; {"cancelled": false} reinstates the class.
	req := struct {
		Cancelled *bool `json:"cancelled"`
	}{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	cancelled := true
	if req.Cancelled != nil {
		cancelled = *req.Cancelled
	}

	activity, err := h.service.SetActivityCancelled(r.Context(), vars["userId"], vars["activityId"], cancelled)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, activity)
}

// DeleteActivity handles DELETE /api/users/{userId}/activities/{activityId}
func (h *TimetableHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.DeleteActivity(r.Context(), vars["userId"], vars["activityId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateAssignment handles POST /api/users/{userId}/assignments
func (h *TimetableHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req struct {
		Subject string     `json:"subject" validate:"required"`
		Title   string     `json:"title"`
		DueDate *time.Time `json:"dueDate"`
		Status  string     `json:"status"`
	}
	if err := validate.DecodeJSON(r, &req); err != nil {
		platformHttp.WriteBadRequest(w, err.Error())
		return
	}

	assignment, err := h.service.CreateAssignment(r.Context(), timetable.CreateAssignmentRequest{
		UserID:  userID,
		Subject: req.Subject,
		Title:   req.Title,
		DueDate: req.DueDate,
		Status:  req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusCreated, assignment)
}

// ListAssignments handles GET /api/users/{userId}/assignments
func (h *TimetableHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	assignments, err := h.service.ListAssignments(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": assignments,
		"count":       len(assignments),
	})
}

// CompleteAssignment handles PATCH /api/users/{userId}/assignments/{assignmentId}/complete
func (h *TimetableHandler) CompleteAssignment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	req := struct {
		Completed *bool `json:"completed"`
	}{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	assignment, err := h.service.SetAssignmentCompleted(r.Context(), vars["userId"], vars["assignmentId"], completed)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, assignment)
}

// CreateScore handles POST /api/users/{userId}/scores
func (h *TimetableHandler) CreateScore(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req struct {
		Subject  string    `json:"subject" validate:"required"`
		Topic    string    `json:"topic"`
		Score    float64   `json:"score" validate:"gte=0"`
		MaxScore float64   `json:"maxScore" validate:"gte=0"`
		Date     time.Time `json:"date"`
	}
	if err := validate.DecodeJSON(r, &req); err != nil {
		platformHttp.WriteBadRequest(w, err.Error())
		return
	}

	score, err := h.service.CreateScore(r.Context(), timetable.CreateScoreRequest{
		UserID:   userID,
		Subject:  req.Subject,
		Topic:    req.Topic,
		Score:    req.Score,
		MaxScore: req.MaxScore,
		Date:     req.Date,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusCreated, score)
}

// ListScores handles GET /api/users/{userId}/scores
func (h *TimetableHandler) ListScores(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	scores, err := h.service.ListScores(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"scores": scores,
		"count":  len(scores),
	})
}

// CreateStudyRequest handles POST /api/users/{userId}/study-requests
func (h *TimetableHandler) CreateStudyRequest(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req struct {
		ToUser  string `json:"toUser" validate:"required"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := validate.DecodeJSON(r, &req); err != nil {
		platformHttp.WriteBadRequest(w, err.Error())
		return
	}

	studyReq, err := h.service.CreateStudyRequest(r.Context(), timetable.CreateStudyRequestRequest{
		FromUser: userID,
		ToUser:   req.ToUser,
		Subject:  req.Subject,
		Message:  req.Message,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusCreated, studyReq)
}

// ListStudyRequests handles GET /api/users/{userId}/study-requests
func (h *TimetableHandler) ListStudyRequests(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	requests, err := h.service.ListStudyRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

// UpdateStudyRequestStatus handles PATCH /api/study-requests/{requestId}/status
func (h *TimetableHandler) UpdateStudyRequestStatus(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := validate.DecodeJSON(r, &req); err != nil {
		platformHttp.WriteBadRequest(w, err.Error())
		return
	}

	studyReq, err := h.service.UpdateStudyRequestStatus(r.Context(), requestID, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, studyReq)
}
