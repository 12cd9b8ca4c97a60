package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"unitime-backend/internal/core/insights"
	platformHttp "unitime-backend/internal/platform/http"
)

// InsightsHandler serves the derived views: free time, academic gaps and
// study partners.
type InsightsHandler struct {
	service *insights.Service
}

func NewInsightsHandler(service *insights.Service) *InsightsHandler {
	return &InsightsHandler{service: service}
}

// refTime reads the optional ?at=RFC3339 override, defaulting to now.
func refTime(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

// FreeTime handles GET /api/users/{userId}/free-time
func (h *InsightsHandler) FreeTime(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	at, err := refTime(r)
	if err != nil {
		platformHttp.WriteBadRequest(w, "invalid 'at' parameter, want RFC3339")
		return
	}

	slots, err := h.service.FreeTime(r.Context(), userID, at)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"slots": slots,
		"count": len(slots),
		"day":   at.Weekday().String(),
	})
}

// CurrentFreeTime handles GET /api/users/{userId}/free-time/current
func (h *InsightsHandler) CurrentFreeTime(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	at, err := refTime(r)
	if err != nil {
		platformHttp.WriteBadRequest(w, "invalid 'at' parameter, want RFC3339")
		return
	}

	slot, err := h.service.CurrentFreeTime(r.Context(), userID, at)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if slot == nil {
		platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{"free": false})
		return
	}
	suggestion, err := h.service.SuggestionForSlot(r.Context(), userID, *slot, at)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"free":       true,
		"slot":       slot,
		"suggestion": suggestion,
	})
}

// AcademicGaps handles GET /api/users/{userId}/academic-gaps
func (h *InsightsHandler) AcademicGaps(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	at, err := refTime(r)
	if err != nil {
		platformHttp.WriteBadRequest(w, "invalid 'at' parameter, want RFC3339")
		return
	}

	gaps, err := h.service.AcademicGaps(r.Context(), userID, at)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"gaps":  gaps,
		"count": len(gaps),
	})
}

// StudyPartners handles GET /api/users/{userId}/study-partners
func (h *InsightsHandler) StudyPartners(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	at, err := refTime(r)
	if err != nil {
		platformHttp.WriteBadRequest(w, "invalid 'at' parameter, want RFC3339")
		return
	}

	matches, err := h.service.StudyPartners(r.Context(), userID, at)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	platformHttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}
