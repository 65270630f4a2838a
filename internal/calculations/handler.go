// Package calculations serves a user's stored calculation history.
package calculations

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"Mooring/internal/analytics"
	"Mooring/internal/auth"
	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/calc/report"
	"Mooring/internal/calc/tools"
	"Mooring/internal/httputil"
	repo "Mooring/internal/repo"
	"Mooring/internal/settings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	defaultName  = "Untitled Calculation"
	defaultLimit = 10
	maxLimit     = 100
	maxPage      = 1_000_000
	maxTags      = 20
)

type Handler struct {
	Repo      repo.CalculationRepository
	Settings  repo.SettingsRepository
	Engine    *catenary.Engine
	Analytics *analytics.Recorder
	Log       *slog.Logger
}

// CreateRequest is the form submission. Any results the client sends are
// ignored; the server recomputes them from the inputs.
type CreateRequest struct {
	Name   string             `json:"name"`
	Notes  string             `json:"notes"`
	Tags   []string           `json:"tags"`
	Inputs catenary.FormInput `json:"inputs"`
}

type UpdateRequest struct {
	Name  *string   `json:"name"`
	Notes *string   `json:"notes"`
	Tags  *[]string `json:"tags"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type listResponse struct {
	Success    bool               `json:"success"`
	Data       []repo.Calculation `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

type detail struct {
	repo.Calculation
	Safety catenary.SafetyCheck `json:"safety"`
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	q := r.URL.Query()
	page := positiveInt(q.Get("page"), 1)
	if page > maxPage {
		httputil.WriteError(w, http.StatusBadRequest, "Page out of range")
		return
	}
	limit := min(positiveInt(q.Get("limit"), defaultLimit), maxLimit)
	filter := repo.CalculationFilter{
		Tag:    strings.TrimSpace(q.Get("tag")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	from, to, err := httputil.DateRange(q)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid date range")
		return
	}
	filter.From, filter.To = from, to

	items, total, err := h.Repo.ListCalculations(r.Context(), userID, filter)
	if err != nil {
		h.logger().Error("list calculations", "user_id", userID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Error retrieving calculations")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{
		Success: true,
		Data:    items,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req CreateRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	s := settings.Lookup(r.Context(), h.Settings, h.Log)
	start := time.Now()
	in, err := req.Inputs.LineInput()
	var res tools.CalcResponse
	if err == nil {
		res, err = tools.Run(h.Engine, "history", in, settings.RequiredSafetyFactor(s))
	}
	if err != nil {
		h.Analytics.Calculation(r, in, "", time.Since(start), err)
		httputil.WriteCalcError(w, h.Log, err)
		return
	}
	elapsed := time.Since(start)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultName
	}
	tags := cleanTags(req.Tags)
	if len(tags) > maxTags {
		httputil.WriteError(w, http.StatusBadRequest, "Too many tags")
		return
	}
	c := repo.Calculation{
		UserID:  userID,
		Name:    name,
		Notes:   strings.TrimSpace(req.Notes),
		Tags:    tags,
		Inputs:  in,
		Results: res.Result,
	}
	if err := h.Repo.CreateCalculation(r.Context(), &c); err != nil {
		h.logger().Error("create calculation", "user_id", userID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Error creating calculation")
		return
	}
	h.logger().Info("calculation stored", "user_id", userID, "id", c.ID, "safety_factor", c.Results.SafetyFactor)
	h.Analytics.Calculation(r, in, c.ID.String(), elapsed, nil)
	httputil.WriteData(w, http.StatusCreated, detail{Calculation: c, Safety: res.Safety})
}

// load resolves the {id} route variable and the owning user. It writes the
// error response itself and returns ok=false on failure.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (int, uuid.UUID, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, uuid.Nil, false
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Calculation not found")
		return 0, uuid.Nil, false
	}
	return userID, id, true
}

func (h *Handler) repoError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "Calculation not found")
		return
	}
	h.logger().Error(op, "error", err)
	httputil.WriteError(w, http.StatusInternalServerError, "Error "+op)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.load(w, r)
	if !ok {
		return
	}
	c, err := h.Repo.GetCalculation(r.Context(), userID, id)
	if err != nil {
		h.repoError(w, "retrieving calculation", err)
		return
	}
	s := settings.Lookup(r.Context(), h.Settings, h.Log)
	safety := h.Engine.CheckSafety(c.Inputs.ComponentMBL, c.Inputs.FairleadTension, settings.RequiredSafetyFactor(s))
	h.Analytics.Record(r, repo.EventCalculationViewed, repo.EventMetadata{CalculationID: c.ID.String()})
	httputil.WriteData(w, http.StatusOK, detail{Calculation: c, Safety: safety})
}

// Update changes only name, notes and tags. Inputs and results are immutable.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.load(w, r)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	u := repo.CalculationUpdate{Notes: req.Notes}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			name = defaultName
		}
		u.Name = &name
	}
	if req.Tags != nil {
		tags := cleanTags(*req.Tags)
		if len(tags) > maxTags {
			httputil.WriteError(w, http.StatusBadRequest, "Too many tags")
			return
		}
		u.Tags = &tags
	}
	c, err := h.Repo.UpdateCalculation(r.Context(), userID, id, u)
	if err != nil {
		h.repoError(w, "updating calculation", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.Repo.DeleteCalculation(r.Context(), userID, id); err != nil {
		h.repoError(w, "deleting calculation", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, struct{}{})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	stats, err := h.Repo.CalculationStats(r.Context(), userID)
	if err != nil {
		h.logger().Error("calculation stats", "user_id", userID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Error retrieving calculation statistics")
		return
	}
	httputil.WriteData(w, http.StatusOK, stats)
}

// Export renders a stored calculation with the caller's unit labels.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.load(w, r)
	if !ok {
		return
	}
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.Repo.GetCalculation(r.Context(), userID, id)
	if err != nil {
		h.repoError(w, "retrieving calculation", err)
		return
	}
	s := settings.Lookup(r.Context(), h.Settings, h.Log)
	h.Analytics.Record(r, repo.EventCalculationExported, repo.EventMetadata{
		CalculationID: c.ID.String(),
		ComponentType: string(c.Inputs.ComponentType),
		ExportFormat:  string(format),
	})
	report.Serve(w, h.Log, format, report.Document{
		Name:        c.Name,
		Author:      auth.Login(r.Context()),
		Notes:       c.Notes,
		Inputs:      c.Inputs,
		Result:      c.Results,
		Safety:      h.Engine.CheckSafety(c.Inputs.ComponentMBL, c.Inputs.FairleadTension, settings.RequiredSafetyFactor(s)),
		Units:       s,
		GeneratedAt: time.Now(),
	})
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
