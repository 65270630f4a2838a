package components

import (
	"net/http"

	"Mooring/internal/httputil"

	"github.com/gorilla/mux"
)

type Handler struct {
	Catalog *Catalog
}

func (h *Handler) catalog() *Catalog {
	if h.Catalog == nil {
		return Default()
	}
	return h.Catalog
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	c := h.catalog()
	httputil.WriteData(w, http.StatusOK, map[string]any{
		"categories": c.Categories,
		"defaults":   c.Defaults,
	})
}

func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.catalog().Category(mux.Vars(r)["type"])
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "Unknown component type")
		return
	}
	httputil.WriteData(w, http.StatusOK, cat)
}

func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	spec, ok := h.catalog().Lookup(vars["type"], vars["size"])
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "No defaults for this component")
		return
	}
	httputil.WriteData(w, http.StatusOK, spec)
}
