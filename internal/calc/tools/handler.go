// Package tools serves the stateless catenary calculator endpoints.
package tools

import (
	"log/slog"
	"math"
	"net/http"
	"time"

	"Mooring/internal/analytics"
	catenary "Mooring/internal/calc/catenary"
	"Mooring/internal/httputil"
	"Mooring/internal/metrics"
	repo "Mooring/internal/repo"
	"Mooring/internal/settings"
)

type Handler struct {
	Engine    *catenary.Engine
	Settings  repo.SettingsRepository
	Analytics *analytics.Recorder
	Log       *slog.Logger
}

type CalcResponse struct {
	Result     catenary.Result      `json:"result"`
	Safety     catenary.SafetyCheck `json:"safety"`
	Model      string               `json:"model"`
	CurveModel catenary.CurveModel  `json:"curveModel"`
}

type CurveRequest struct {
	AnchorDistance float64 `json:"anchorDistance"`
	WaterDepth     float64 `json:"waterDepth"`
	SampleCount    int     `json:"sampleCount"`
	Model          string  `json:"model"`
}

type SafetyRequest struct {
	MBL             float64 `json:"mbl"`
	Tension         float64 `json:"tension"`
	MinSafetyFactor float64 `json:"minSafetyFactor"`
}

// Run computes in with the handler's engine, records metrics and attaches the
// safety check for the required factor. It is shared by the batch and
// history endpoints.
func Run(e *catenary.Engine, source string, in catenary.LineInput, requiredFactor float64) (CalcResponse, error) {
	start := time.Now()
	res, err := e.Compute(in)
	if err != nil {
		metrics.ObserveCalculation(source, catenary.KindName(err), time.Since(start))
		return CalcResponse{}, err
	}
	metrics.ObserveCalculation(source, "ok", time.Since(start))
	return CalcResponse{
		Result:     res,
		Safety:     e.CheckSafety(in.ComponentMBL, in.FairleadTension, requiredFactor),
		Model:      e.ModelName(),
		CurveModel: e.CurveModel(),
	}, nil
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var form catenary.FormInput
	if err := httputil.DecodeJSON(w, r, &form); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	in, err := form.LineInput()
	if err == nil {
		err = h.Engine.Validate(in)
	}
	if err != nil {
		httputil.WriteCalcError(w, h.Log, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var form catenary.FormInput
	if err := httputil.DecodeJSON(w, r, &form); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	s := settings.Lookup(r.Context(), h.Settings, h.Log)
	start := time.Now()
	in, err := form.LineInput()
	var res CalcResponse
	if err == nil {
		res, err = Run(h.Engine, "tools", in, settings.RequiredSafetyFactor(s))
	}
	h.Analytics.Calculation(r, in, "", time.Since(start), err)
	if err != nil {
		httputil.WriteCalcError(w, h.Log, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

func (h *Handler) Curve(w http.ResponseWriter, r *http.Request) {
	var req CurveRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	var points []catenary.Point
	var err error
	if req.Model == "" {
		points, err = h.Engine.SampleCurve(req.AnchorDistance, req.WaterDepth, req.SampleCount)
	} else {
		model, perr := catenary.ParseCurveModel(req.Model)
		if perr != nil {
			httputil.WriteError(w, http.StatusBadRequest, perr.Error())
			return
		}
		n := req.SampleCount
		if n == 0 {
			n = h.Engine.SampleCount()
		}
		points, err = catenary.SampleCurveWith(model, req.AnchorDistance, req.WaterDepth, n)
	}
	if err != nil {
		httputil.WriteCalcError(w, h.Log, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, points)
}

func (h *Handler) Safety(w http.ResponseWriter, r *http.Request) {
	var req SafetyRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !positiveFinite(req.MBL) || !positiveFinite(req.Tension) {
		httputil.WriteError(w, http.StatusBadRequest, "mbl and tension must be positive numbers")
		return
	}
	required := req.MinSafetyFactor
	if required == 0 {
		required = settings.RequiredSafetyFactor(settings.Lookup(r.Context(), h.Settings, h.Log))
	}
	check := h.Engine.CheckSafety(req.MBL, req.Tension, required)
	if math.IsInf(check.SafetyFactor, 0) {
		httputil.WriteCalcError(w, h.Log, catenary.NewInputError(catenary.ErrDomain, "safetyFactor", "is not finite for the given inputs"))
		return
	}
	httputil.WriteData(w, http.StatusOK, check)
}

func positiveFinite(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
