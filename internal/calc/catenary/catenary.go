// Package catenary is the mooring-line engine: input validation, geometry
// derivation, safety-factor checks and curve sampling. It is pure and holds
// no mutable state, so an Engine may be shared between goroutines.
package catenary

import "math"

// Result is the derived geometry of one line. Angles are in degrees.
type Result struct {
	FairleadAngle  float64 `json:"fairleadAngle"`
	GroundedLength float64 `json:"groundedLength"`
	AnchorDistance float64 `json:"anchorDistance"`
	AnchorAngle    float64 `json:"anchorAngle"`
	AnchorTension  float64 `json:"anchorTension"`
	SafetyFactor   float64 `json:"safetyFactor"`
	Curve          []Point `json:"curve"`
}

// Options configure an Engine. Zero values select the defaults.
type Options struct {
	Model           Model
	Curve           CurveModel
	SampleCount     int
	MinSafetyFactor float64
}

type Engine struct {
	model           Model
	curve           CurveModel
	sampleCount     int
	minSafetyFactor float64
}

func New(opts Options) *Engine {
	e := &Engine{
		model:           opts.Model,
		curve:           opts.Curve,
		sampleCount:     opts.SampleCount,
		minSafetyFactor: opts.MinSafetyFactor,
	}
	if e.model == nil {
		e.model = SimplifiedModel{}
	}
	if e.curve == "" {
		e.curve = CurveLegacyCosine
	}
	if e.sampleCount < 1 {
		e.sampleCount = DefaultSampleCount
	}
	if !(e.minSafetyFactor > 0) {
		e.minSafetyFactor = DefaultMinSafetyFactor
	}
	return e
}

var defaultEngine = New(Options{})

func (e *Engine) ModelName() string { return e.model.Name() }

func (e *Engine) CurveModel() CurveModel { return e.curve }

func (e *Engine) SampleCount() int { return e.sampleCount }

// MinSafetyFactor is the required factor applied when a caller supplies none.
func (e *Engine) MinSafetyFactor() float64 { return e.minSafetyFactor }

func (e *Engine) Validate(in LineInput) error { return ValidateInput(in) }

// Compute validates in and derives the full result, curve included. On any
// error the zero Result is returned.
func (e *Engine) Compute(in LineInput) (Result, error) {
	if err := ValidateInput(in); err != nil {
		return Result{}, err
	}
	res, err := e.model.ComputeGeometry(in)
	if err != nil {
		return Result{}, err
	}
	if err := checkFinite(res); err != nil {
		return Result{}, err
	}
	curve, err := SampleCurveWith(e.curve, res.AnchorDistance, in.WaterDepth, e.sampleCount)
	if err != nil {
		return Result{}, err
	}
	res.Curve = curve
	return res, nil
}

// checkFinite rejects derived values that overflowed even though every input
// was finite, e.g. a near-zero tension against a large MBL. AnchorDistance is
// left to the curve sampler, which reports it as degenerate.
func checkFinite(res Result) error {
	for _, f := range []namedValue{
		{"fairleadAngle", res.FairleadAngle},
		{"groundedLength", res.GroundedLength},
		{"anchorAngle", res.AnchorAngle},
		{"anchorTension", res.AnchorTension},
		{"safetyFactor", res.SafetyFactor},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return NewInputError(ErrDomain, f.name, "is not finite for the given inputs")
		}
	}
	return nil
}

// CheckSafety uses the engine's required safety factor when minSafetyFactor
// is not positive.
func (e *Engine) CheckSafety(mbl, tension, minSafetyFactor float64) SafetyCheck {
	if !(minSafetyFactor > 0) {
		minSafetyFactor = e.minSafetyFactor
	}
	return CheckSafety(mbl, tension, minSafetyFactor)
}

// SampleCurve samples with the engine's curve model. A zero
// sampleCount selects the engine's sample count.
func (e *Engine) SampleCurve(anchorDistance, waterDepth float64, sampleCount int) ([]Point, error) {
	if sampleCount == 0 {
		sampleCount = e.sampleCount
	}
	return SampleCurveWith(e.curve, anchorDistance, waterDepth, sampleCount)
}

// Compute runs the default engine: simplified model, legacy curve, 100 segments.
func Compute(in LineInput) (Result, error) {
	return defaultEngine.Compute(in)
}
