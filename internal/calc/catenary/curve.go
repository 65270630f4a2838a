package catenary

import (
	"encoding/json"
	"fmt"
	"math"
)

// DefaultSampleCount is the number of curve segments; the curve has one more point.
const DefaultSampleCount = 100

// Point is one sample of the line profile. X is the horizontal distance from
// the fairlead and Y the depth below it. It encodes as a two element array.
type Point struct {
	X float64
	Y float64
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(b []byte) error {
	var xy [2]float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return fmt.Errorf("point: %w", err)
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// CurveModel selects the formula used to sample the line profile.
type CurveModel string

const (
	// CurveLegacyCosine reproduces the curves stored with historical results:
	// y = h(1 - cos(pi x / D)). It ends at 2h rather than at the anchor depth.
	CurveLegacyCosine CurveModel = "legacy"
	// CurveCatenary is a scaled catenary with its vertex at the anchor. It
	// starts at (0, 0) and ends at (D, h).
	CurveCatenary CurveModel = "catenary"
)

func ParseCurveModel(s string) (CurveModel, error) {
	switch CurveModel(s) {
	case "", CurveLegacyCosine:
		return CurveLegacyCosine, nil
	case CurveCatenary:
		return CurveCatenary, nil
	}
	return "", fmt.Errorf("unknown curve model %q", s)
}

// SampleCurve samples the legacy cosine profile at sampleCount+1 points.
func SampleCurve(anchorDistance, waterDepth float64, sampleCount int) ([]Point, error) {
	return SampleCurveWith(CurveLegacyCosine, anchorDistance, waterDepth, sampleCount)
}

// SampleCurveWith samples the profile selected by model. X runs uniformly from
// 0 to anchorDistance inclusive and is strictly increasing.
func SampleCurveWith(model CurveModel, anchorDistance, waterDepth float64, sampleCount int) ([]Point, error) {
	if !(anchorDistance > 0) || math.IsInf(anchorDistance, 0) {
		return nil, NewInputError(ErrDegenerateInput, "anchorDistance", "must be positive and finite")
	}
	if sampleCount < 1 {
		return nil, NewInputError(ErrDegenerateInput, "sampleCount", "must be at least 1")
	}
	if !(waterDepth > 0) || math.IsInf(waterDepth, 0) {
		return nil, NewInputError(ErrDomain, "waterDepth", "must be positive and finite")
	}

	var depth func(x float64) float64
	switch model {
	case "", CurveLegacyCosine:
		depth = func(x float64) float64 {
			return waterDepth * (1 - math.Cos(math.Pi*x/anchorDistance))
		}
	case CurveCatenary:
		a := catenaryParameter(anchorDistance, waterDepth)
		depth = func(x float64) float64 {
			return waterDepth - coshm1(a, (anchorDistance-x)/a)
		}
	default:
		return nil, fmt.Errorf("unknown curve model %q", model)
	}

	n := float64(sampleCount)
	points := make([]Point, sampleCount+1)
	for i := range points {
		x := anchorDistance * float64(i) / n
		if i == sampleCount {
			x = anchorDistance
		}
		if i > 0 && x <= points[i-1].X {
			return nil, NewInputError(ErrDegenerateInput, "anchorDistance", "is too small to sample")
		}
		y := depth(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, NewInputError(ErrDegenerateInput, "anchorDistance", "gives a curve that is not finite")
		}
		points[i] = Point{X: x, Y: y}
	}
	if model == CurveCatenary {
		// pin the endpoints against rounding in the solved parameter
		points[0].Y = 0
		points[sampleCount].Y = waterDepth
	}
	return points, nil
}

// catenaryParameter solves a*(cosh(d/a)-1) = h for a > 0 by bisection. The
// left side decreases monotonically in a, and a = d^2/(2h) always bounds the
// root from below.
func catenaryParameter(d, h float64) float64 {
	f := func(a float64) float64 { return coshm1(a, d/a) - h }

	lo := d * d / (2 * h)
	if lo <= 0 {
		lo = math.SmallestNonzeroFloat64
	}
	hi := lo * 2
	for i := 0; f(hi) > 0 && i < 1100; i++ {
		hi *= 2
	}
	for i := 0; i < 200; i++ {
		mid := lo + (hi-lo)/2
		if mid <= lo || mid >= hi {
			break
		}
		if f(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2
}

// coshm1 returns a*(cosh(u)-1) in the form 2a*sinh(u/2)^2, which keeps its
// precision when u is small and a is large.
func coshm1(a, u float64) float64 {
	s := math.Sinh(u / 2)
	return 2 * a * s * s
}
