package repo

import (
	"context"
	"database/sql"
	"errors"
)

// Settings are per-user presentation and rule-set preferences. Units only
// label values; calculations always run in the unit system they were entered in.
type Settings struct {
	LengthUnit   string   `json:"lengthUnit"`
	ForceUnit    string   `json:"forceUnit"`
	SafetyFactor *float64 `json:"safetyFactor,omitempty"`
	Theme        string   `json:"theme"`
}

func DefaultSettings() Settings {
	return Settings{LengthUnit: "m", ForceUnit: "N", Theme: "light"}
}

type SettingsRepository interface {
	GetSettings(ctx context.Context, userID int) (Settings, error)
	UpdateSettings(ctx context.Context, userID int, s Settings) error
}

type PostgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

// GetSettings returns the stored settings, or the defaults for a user who
// never saved any.
func (r *PostgresSettingsRepository) GetSettings(ctx context.Context, userID int) (Settings, error) {
	var s Settings
	var sf sql.NullFloat64
	query := "SELECT length_unit, force_unit, safety_factor, theme FROM user_settings WHERE user_id=$1"
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.LengthUnit, &s.ForceUnit, &sf, &s.Theme)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	if sf.Valid {
		v := sf.Float64
		s.SafetyFactor = &v
	}
	return s, nil
}

func (r *PostgresSettingsRepository) UpdateSettings(ctx context.Context, userID int, s Settings) error {
	var sf sql.NullFloat64
	if s.SafetyFactor != nil {
		sf = sql.NullFloat64{Float64: *s.SafetyFactor, Valid: true}
	}
	query := `INSERT INTO user_settings (user_id, length_unit, force_unit, safety_factor, theme, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (user_id) DO UPDATE SET length_unit = EXCLUDED.length_unit, force_unit = EXCLUDED.force_unit,
safety_factor = EXCLUDED.safety_factor, theme = EXCLUDED.theme, updated_at = now()`
	_, err := r.db.ExecContext(ctx, query, userID, s.LengthUnit, s.ForceUnit, sf, s.Theme)
	return err
}
