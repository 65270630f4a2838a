// Package analytics records per-user usage events and serves their
// aggregates. Events are written by the calculator and history handlers and
// by the browser through POST /analytics/log.
package analytics

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"Mooring/internal/auth"
	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/httputil"
	repo "Mooring/internal/repo"
)

// SessionHeader carries the browser session ID. Events recorded by the
// server for a request without one use ServerSession.
const (
	SessionHeader = "X-Session-Id"
	ServerSession = "server"
)

type Recorder struct {
	Repo       repo.AnalyticsRepository
	TrustProxy bool
	Log        *slog.Logger
}

func (rec *Recorder) logger() *slog.Logger {
	if rec.Log == nil {
		return slog.Default()
	}
	return rec.Log
}

// Record stores an event for the authenticated caller of r. A nil Recorder or
// an anonymous request records nothing. Store failures are logged and do not
// reach the caller.
func (rec *Recorder) Record(r *http.Request, t repo.EventType, md repo.EventMetadata) {
	if rec == nil || rec.Repo == nil {
		return
	}
	userID, ok := auth.UserID(r.Context())
	if !ok {
		return
	}
	e := newEvent(r, userID, t, md, rec.TrustProxy)
	if e.SessionID == "" {
		e.SessionID = ServerSession
	}
	if err := rec.Repo.LogEvent(r.Context(), &e); err != nil {
		rec.logger().Warn("record analytics event", "user_id", userID, "event_type", t, "error", err)
	}
}

// Calculation records CALCULATION_COMPLETED with the elapsed time, or
// CALCULATION_ERROR with the error message when err is set.
func (rec *Recorder) Calculation(r *http.Request, in catenary.LineInput, calculationID string, elapsed time.Duration, err error) {
	md := repo.EventMetadata{
		CalculationID: calculationID,
		ComponentType: string(in.ComponentType),
		ComponentSize: in.ComponentSize,
	}
	if err != nil {
		md.ErrorMessage = err.Error()
		rec.Record(r, repo.EventCalculationError, md)
		return
	}
	ms := float64(elapsed) / float64(time.Millisecond)
	md.Duration = &ms
	rec.Record(r, repo.EventCalculationCompleted, md)
}

func newEvent(r *http.Request, userID int, t repo.EventType, md repo.EventMetadata, trustProxy bool) repo.AnalyticsEvent {
	return repo.AnalyticsEvent{
		UserID:    userID,
		EventType: t,
		Metadata:  md,
		SessionID: strings.TrimSpace(r.Header.Get(SessionHeader)),
		IPAddress: httputil.ClientIP(r, trustProxy),
		UserAgent: r.UserAgent(),
	}
}
