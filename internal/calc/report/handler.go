package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/calc/tools"
	"Mooring/internal/httputil"
	repo "Mooring/internal/repo"
	"Mooring/internal/settings"

	"github.com/gorilla/mux"
)

type Input struct {
	Project string             `json:"project"`
	Author  string             `json:"author"`
	Title   string             `json:"title"`
	Name    string             `json:"name"`
	Notes   string             `json:"notes"`
	Inputs  catenary.FormInput `json:"inputs"`
}

type Handler struct {
	Engine   *catenary.Engine
	Settings repo.SettingsRepository
	Log      *slog.Logger
}

// Generate computes the submitted line and returns the report without
// storing anything. The format comes from the {format} route variable.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var input Input
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	in, err := input.Inputs.LineInput()
	if err != nil {
		httputil.WriteCalcError(w, h.Log, err)
		return
	}
	s := settings.Lookup(r.Context(), h.Settings, h.Log)
	res, err := tools.Run(h.Engine, "report", in, settings.RequiredSafetyFactor(s))
	if err != nil {
		httputil.WriteCalcError(w, h.Log, err)
		return
	}
	Serve(w, h.Log, format, Document{
		Title:       input.Title,
		Project:     input.Project,
		Author:      input.Author,
		Name:        input.Name,
		Notes:       input.Notes,
		Inputs:      in,
		Result:      res.Result,
		Safety:      res.Safety,
		Units:       s,
		GeneratedAt: time.Now(),
	})
}

// Serve renders d into a buffer first so a rendering failure can still be
// reported with a proper status code.
func Serve(w http.ResponseWriter, log *slog.Logger, f Format, d Document) {
	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := Write(&buf, f, d); err != nil {
		if log == nil {
			log = slog.Default()
		}
		log.Error("render report", "format", f, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Report generation error")
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename(f)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
