package recommend

import (
	"errors"
	"log/slog"
	"net/http"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/calc/components"
	"Mooring/internal/httputil"
	repo "Mooring/internal/repo"
	"Mooring/internal/settings"
)

type Handler struct {
	Engine   *catenary.Engine
	Catalog  *components.Catalog
	Settings repo.SettingsRepository
	Log      *slog.Logger
}

func (h *Handler) Component(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	catalog := h.Catalog
	if catalog == nil {
		catalog = components.Default()
	}
	s := settings.Lookup(r.Context(), h.Settings, h.Log)
	res, err := Recommend(h.Engine, catalog, input, settings.RequiredSafetyFactor(s))
	if errors.Is(err, ErrNoCandidates) {
		httputil.WriteError(w, http.StatusNotFound, "No catalog component fits this site")
		return
	}
	if err != nil {
		httputil.WriteCalcError(w, h.Log, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}
