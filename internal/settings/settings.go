// Package settings serves the per-user calculator preferences.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"slices"

	"Mooring/internal/auth"
	"Mooring/internal/httputil"
	repo "Mooring/internal/repo"
)

var (
	LengthUnits = []string{"m", "ft"}
	ForceUnits  = []string{"N", "kN", "lbf"}
	Themes      = []string{"light", "dark"}
)

type Handler struct {
	Repo repo.SettingsRepository
	Log  *slog.Logger
}

// UpdateRequest fields left empty keep their stored value. ResetSafetyFactor
// clears a stored override so the server default applies again.
type UpdateRequest struct {
	LengthUnit        string   `json:"lengthUnit"`
	ForceUnit         string   `json:"forceUnit"`
	SafetyFactor      *float64 `json:"safetyFactor"`
	ResetSafetyFactor bool     `json:"resetSafetyFactor"`
	Theme             string   `json:"theme"`
}

func (u UpdateRequest) apply(s repo.Settings) (repo.Settings, error) {
	if u.LengthUnit != "" {
		if !slices.Contains(LengthUnits, u.LengthUnit) {
			return s, fmt.Errorf("unknown length unit %q", u.LengthUnit)
		}
		s.LengthUnit = u.LengthUnit
	}
	if u.ForceUnit != "" {
		if !slices.Contains(ForceUnits, u.ForceUnit) {
			return s, fmt.Errorf("unknown force unit %q", u.ForceUnit)
		}
		s.ForceUnit = u.ForceUnit
	}
	if u.Theme != "" {
		if !slices.Contains(Themes, u.Theme) {
			return s, fmt.Errorf("unknown theme %q", u.Theme)
		}
		s.Theme = u.Theme
	}
	switch {
	case u.ResetSafetyFactor:
		s.SafetyFactor = nil
	case u.SafetyFactor != nil:
		v := *u.SafetyFactor
		if !(v > 0) || math.IsInf(v, 0) {
			return s, fmt.Errorf("safety factor must be a positive number")
		}
		s.SafetyFactor = &v
	}
	return s, nil
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s, err := h.Repo.GetSettings(r.Context(), userID)
	if err != nil {
		h.logger().Error("load settings", "user_id", userID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Could not load settings")
		return
	}
	httputil.WriteData(w, http.StatusOK, s)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req UpdateRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	current, err := h.Repo.GetSettings(r.Context(), userID)
	if err != nil {
		h.logger().Error("load settings", "user_id", userID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Could not load settings")
		return
	}
	next, err := req.apply(current)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Repo.UpdateSettings(r.Context(), userID, next); err != nil {
		h.logger().Error("save settings", "user_id", userID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Could not save settings")
		return
	}
	httputil.WriteData(w, http.StatusOK, next)
}

// Lookup returns the user's settings, falling back to the defaults when none
// can be loaded. A lookup failure is logged; the calculation still runs.
func Lookup(ctx context.Context, src repo.SettingsRepository, log *slog.Logger) repo.Settings {
	userID, ok := auth.UserID(ctx)
	if !ok || src == nil {
		return repo.DefaultSettings()
	}
	s, err := src.GetSettings(ctx, userID)
	if err != nil {
		if log == nil {
			log = slog.Default()
		}
		log.Warn("settings unavailable, using defaults", "user_id", userID, "error", err)
		return repo.DefaultSettings()
	}
	return s
}

// RequiredSafetyFactor is the user's override, or 0 to select the engine default.
func RequiredSafetyFactor(s repo.Settings) float64 {
	if s.SafetyFactor == nil {
		return 0
	}
	return *s.SafetyFactor
}
