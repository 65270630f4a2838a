package catenary

import "math"

// Model derives the line geometry for a validated input. Implementations must
// be deterministic and must not fill Result.Curve; sampling is done by the
// engine so every model shares the same curve contract.
type Model interface {
	Name() string
	ComputeGeometry(in LineInput) (Result, error)
}

// SimplifiedModel is the provisional reference model. It ignores stiffness
// and seabed interaction and is kept until a standards-based elastic
// catenary solver (API RP 2SK, DNV-OS-E301, ISO 19901-7) replaces it.
type SimplifiedModel struct{}

func (SimplifiedModel) Name() string { return "simplified" }

func (SimplifiedModel) ComputeGeometry(in LineInput) (Result, error) {
	half := in.ComponentLength / 2
	fairleadAngle := math.Atan2(in.WaterDepth, half)

	hyp := math.Hypot(in.WaterDepth, half)
	grounded := math.Max(0, in.ComponentLength-hyp)

	// sqrt(L^2-h^2) factored so long lines do not overflow
	if in.ComponentLength < in.WaterDepth {
		return Result{}, &InputError{Kind: ErrGeometry, Reason: "anchor distance radicand is negative"}
	}
	anchorDistance := math.Sqrt(in.ComponentLength-in.WaterDepth) * math.Sqrt(in.ComponentLength+in.WaterDepth)
	anchorAngle := math.Atan2(in.WaterDepth, anchorDistance)

	// Underflow toward zero for tiny tensions is a valid, if degenerate, result.
	anchorTension := in.FairleadTension * math.Exp(-in.ComponentWeight*grounded/in.FairleadTension)

	return Result{
		FairleadAngle:  degrees(fairleadAngle),
		GroundedLength: grounded,
		AnchorDistance: anchorDistance,
		AnchorAngle:    degrees(anchorAngle),
		AnchorTension:  anchorTension,
		SafetyFactor:   in.ComponentMBL / in.FairleadTension,
	}, nil
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
