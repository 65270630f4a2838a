package analytics

import (
	"log/slog"
	"net/http"

	"Mooring/internal/auth"
	"Mooring/internal/httputil"
	repo "Mooring/internal/repo"
)

type Handler struct {
	Repo       repo.AnalyticsRepository
	TrustProxy bool
	Log        *slog.Logger
}

type LogRequest struct {
	EventType repo.EventType     `json:"eventType"`
	Metadata  repo.EventMetadata `json:"metadata"`
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

// LogEvent stores an event reported by the client. The session ID header is
// required here, unlike for server-recorded events.
func (h *Handler) LogEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req LogRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !req.EventType.Valid() {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid event type")
		return
	}
	if d := req.Metadata.Duration; d != nil && *d < 0 {
		httputil.WriteError(w, http.StatusBadRequest, "Duration must not be negative")
		return
	}
	e := newEvent(r, userID, req.EventType, req.Metadata, h.TrustProxy)
	if e.SessionID == "" {
		httputil.WriteError(w, http.StatusBadRequest, SessionHeader+" header is required")
		return
	}
	if err := h.Repo.LogEvent(r.Context(), &e); err != nil {
		h.logger().Error("log analytics event", "user_id", userID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Error logging analytics event")
		return
	}
	httputil.WriteData(w, http.StatusCreated, e)
}

// User returns the caller's event aggregates, optionally limited to the
// startDate/endDate range.
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	from, to, err := httputil.DateRange(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid date range")
		return
	}
	stats, err := h.Repo.UserAnalytics(r.Context(), userID, from, to)
	if err != nil {
		h.logger().Error("user analytics", "user_id", userID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Error retrieving analytics")
		return
	}
	httputil.WriteData(w, http.StatusOK, stats)
}
