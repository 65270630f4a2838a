package importer

import (
	"errors"
	"log/slog"
	"net/http"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/httputil"
	repo "Mooring/internal/repo"
	"Mooring/internal/settings"
)

const maxUploadSize = 10 << 20

type Handler struct {
	Engine   *catenary.Engine
	Settings repo.SettingsRepository
	Log      *slog.Logger
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "File required")
		return
	}
	defer file.Close()

	s := settings.Lookup(r.Context(), h.Settings, h.Log)
	rep, err := Import(file, h.Engine, settings.RequiredSafetyFactor(s))
	if errors.Is(err, ErrEmptySheet) {
		httputil.WriteError(w, http.StatusBadRequest, "Empty sheet")
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid file")
		return
	}
	httputil.WriteData(w, http.StatusOK, rep)
}
