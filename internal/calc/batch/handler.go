package batch

import (
	"errors"
	"log/slog"
	"net/http"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/httputil"
	repo "Mooring/internal/repo"
	"Mooring/internal/settings"
)

type Handler struct {
	Engine   *catenary.Engine
	Settings repo.SettingsRepository
	Log      *slog.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	s := settings.Lookup(r.Context(), h.Settings, h.Log)
	res, err := Calculate(h.Engine, input, settings.RequiredSafetyFactor(s))
	var itemErr *ItemError
	switch {
	case err == nil:
		httputil.WriteData(w, http.StatusOK, res)
	case errors.As(err, &itemErr) && catenary.KindName(err) != "":
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"message": err.Error(),
			"kind":    catenary.KindName(err),
			"index":   itemErr.Index,
		})
	default:
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	}
}
