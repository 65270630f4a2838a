// Package httputil holds the small response helpers shared by the API handlers.
package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	catenary "Mooring/internal/calc/catenary"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
}

// WriteJSON encodes v before committing status, so a value that cannot be
// encoded becomes a 500 instead of an empty success.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(envelope{Message: "Internal server error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("write response", "error", err)
	}
}

// WriteData wraps v in the {"success":true,"data":...} envelope.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, envelope{Success: true, Data: v})
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, envelope{Message: msg})
}

// WriteCalcError reports an engine error as 422 with its kind and field.
// Errors that did not come from the engine are logged and hidden behind a 500.
func WriteCalcError(w http.ResponseWriter, log *slog.Logger, err error) {
	kind := catenary.KindName(err)
	if kind == "" {
		if log == nil {
			log = slog.Default()
		}
		log.Error("calculation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Calculation error")
		return
	}
	body := envelope{Message: err.Error(), Kind: kind}
	var ie *catenary.InputError
	if errors.As(err, &ie) {
		body.Field = ie.Field
	}
	WriteJSON(w, http.StatusUnprocessableEntity, body)
}

// DecodeJSON decodes a request body of at most 1 MiB into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(v)
}
