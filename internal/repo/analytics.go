package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCalculationStarted   EventType = "CALCULATION_STARTED"
	EventCalculationCompleted EventType = "CALCULATION_COMPLETED"
	EventCalculationError     EventType = "CALCULATION_ERROR"
	EventCalculationViewed    EventType = "CALCULATION_VIEWED"
	EventCalculationExported  EventType = "CALCULATION_EXPORTED"
	EventUserLogin            EventType = "USER_LOGIN"
	EventUserLogout           EventType = "USER_LOGOUT"
	EventComponentSelected    EventType = "COMPONENT_SELECTED"
	EventVisualization        EventType = "VISUALIZATION_INTERACTION"
)

func (t EventType) Valid() bool {
	switch t {
	case EventCalculationStarted, EventCalculationCompleted, EventCalculationError,
		EventCalculationViewed, EventCalculationExported, EventUserLogin,
		EventUserLogout, EventComponentSelected, EventVisualization:
		return true
	}
	return false
}

// EventMetadata is stored as JSONB. Duration is in milliseconds.
type EventMetadata struct {
	CalculationID   string   `json:"calculationId,omitempty"`
	ComponentType   string   `json:"componentType,omitempty"`
	ComponentSize   string   `json:"componentSize,omitempty"`
	ExportFormat    string   `json:"exportFormat,omitempty"`
	ErrorMessage    string   `json:"errorMessage,omitempty"`
	InteractionType string   `json:"interactionType,omitempty"`
	Duration        *float64 `json:"duration,omitempty"`
	Browser         string   `json:"browser,omitempty"`
	Platform        string   `json:"platform,omitempty"`
	ScreenSize      string   `json:"screenSize,omitempty"`
}

type AnalyticsEvent struct {
	ID        uuid.UUID     `json:"id"`
	UserID    int           `json:"-"`
	EventType EventType     `json:"eventType"`
	Metadata  EventMetadata `json:"metadata"`
	SessionID string        `json:"sessionId"`
	IPAddress string        `json:"ipAddress,omitempty"`
	UserAgent string        `json:"userAgent,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type EventCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// UserAnalytics summarises one user's events. CalculationDuration is the mean
// duration of completed calculations in milliseconds.
type UserAnalytics struct {
	EventCounts         []EventCount `json:"eventCounts"`
	CalculationDuration float64      `json:"calculationDuration"`
	ComponentTypes      []EventCount `json:"componentTypes"`
	Errors              []EventCount `json:"errors"`
}

type AnalyticsRepository interface {
	LogEvent(ctx context.Context, e *AnalyticsEvent) error
	UserAnalytics(ctx context.Context, userID int, from, to time.Time) (UserAnalytics, error)
}

type PostgresAnalyticsRepository struct {
	db *sql.DB
}

func NewPostgresAnalyticsRepository(db *sql.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

// LogEvent assigns an ID when e has none and fills Timestamp.
func (r *PostgresAnalyticsRepository) LogEvent(ctx context.Context, e *AnalyticsEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	query := `INSERT INTO analytics_events (id, user_id, event_type, metadata, session_id, ip_address, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		e.ID, e.UserID, string(e.EventType), metadata, e.SessionID, e.IPAddress, e.UserAgent,
	).Scan(&e.Timestamp)
}

// UserAnalytics aggregates a user's events between from and to. Zero times
// leave that end of the range open. Component types are limited to the five
// most used.
func (r *PostgresAnalyticsRepository) UserAnalytics(ctx context.Context, userID int, from, to time.Time) (UserAnalytics, error) {
	where, args := analyticsWhere(userID, from, to)
	var out UserAnalytics
	var err error

	out.EventCounts, err = r.counts(ctx, `SELECT event_type, COUNT(*) AS n FROM analytics_events WHERE `+where+`
GROUP BY event_type ORDER BY n DESC, event_type`, args)
	if err != nil {
		return UserAnalytics{}, fmt.Errorf("event counts: %w", err)
	}

	query := `SELECT COALESCE(AVG((metadata->>'duration')::double precision), 0) FROM analytics_events WHERE ` + where + `
AND event_type = 'CALCULATION_COMPLETED' AND metadata->>'duration' IS NOT NULL`
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&out.CalculationDuration); err != nil {
		return UserAnalytics{}, fmt.Errorf("calculation duration: %w", err)
	}

	out.ComponentTypes, err = r.counts(ctx, `SELECT metadata->>'componentType' AS k, COUNT(*) AS n FROM analytics_events WHERE `+where+`
AND metadata->>'componentType' IS NOT NULL GROUP BY k ORDER BY n DESC, k LIMIT 5`, args)
	if err != nil {
		return UserAnalytics{}, fmt.Errorf("component types: %w", err)
	}

	out.Errors, err = r.counts(ctx, `SELECT COALESCE(metadata->>'errorMessage', '') AS k, COUNT(*) AS n FROM analytics_events WHERE `+where+`
AND event_type = 'CALCULATION_ERROR' GROUP BY k ORDER BY n DESC, k`, args)
	if err != nil {
		return UserAnalytics{}, fmt.Errorf("errors: %w", err)
	}
	return out, nil
}

func (r *PostgresAnalyticsRepository) counts(ctx context.Context, query string, args []any) ([]EventCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []EventCount{}
	for rows.Next() {
		var c EventCount
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func analyticsWhere(userID int, from, to time.Time) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	if !from.IsZero() {
		args = append(args, from)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}
