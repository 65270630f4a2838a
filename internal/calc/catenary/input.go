package catenary

import "fmt"

// ComponentType identifies the kind of line segment. The values match the
// labels stored with historical calculations.
type ComponentType string

const (
	Chain         ComponentType = "Chain"
	WireRope      ComponentType = "Wire Rope"
	SyntheticRope ComponentType = "Synthetic Rope"
	PolyesterRope ComponentType = "Polyester Rope"
)

var componentTypes = []ComponentType{Chain, WireRope, SyntheticRope, PolyesterRope}

// ComponentTypes returns the recognized component types in catalog order.
func ComponentTypes() []ComponentType {
	out := make([]ComponentType, len(componentTypes))
	copy(out, componentTypes)
	return out
}

func (t ComponentType) Valid() bool {
	for _, c := range componentTypes {
		if t == c {
			return true
		}
	}
	return false
}

// LineInput is one mooring line as entered by the user. All quantities use a
// single consistent unit system chosen by the caller.
type LineInput struct {
	FairleadTension    float64       `json:"fairleadTension"`
	WaterDepth         float64       `json:"waterDepth"`
	ComponentType      ComponentType `json:"componentType"`
	ComponentSize      string        `json:"componentSize,omitempty"`
	ComponentLength    float64       `json:"componentLength"`
	ComponentWeight    float64       `json:"componentWeight"`
	ComponentStiffness float64       `json:"componentStiffness"`
	ComponentMBL       float64       `json:"componentMBL"`
}

// Form bounds applied to user-submitted input on top of engine validation.
const (
	MaxWaterDepth      = 5000.0
	MaxFairleadTension = 10_000_000.0
)

// FormInput is the JSON shape submitted by the calculator form. Pointer
// fields let an absent value be told apart from zero.
type FormInput struct {
	FairleadTension    *float64 `json:"fairleadTension"`
	WaterDepth         *float64 `json:"waterDepth"`
	ComponentType      string   `json:"componentType"`
	ComponentSize      string   `json:"componentSize"`
	ComponentLength    *float64 `json:"componentLength"`
	ComponentWeight    *float64 `json:"componentWeight"`
	ComponentStiffness *float64 `json:"componentStiffness"`
	ComponentMBL       *float64 `json:"componentMBL"`
}

// LineInput converts the form into an engine input. It reports absent fields
// and the form-level upper bounds; everything else is left to ValidateInput.
func (f FormInput) LineInput() (LineInput, error) {
	fields := []struct {
		name string
		v    *float64
	}{
		{"fairleadTension", f.FairleadTension},
		{"waterDepth", f.WaterDepth},
		{"componentLength", f.ComponentLength},
		{"componentWeight", f.ComponentWeight},
		{"componentStiffness", f.ComponentStiffness},
		{"componentMBL", f.ComponentMBL},
	}
	for _, fl := range fields {
		if fl.v == nil {
			return LineInput{}, NewInputError(ErrMissingParameter, fl.name, "is required")
		}
	}
	if f.ComponentType == "" {
		return LineInput{}, NewInputError(ErrMissingParameter, "componentType", "is required")
	}
	if *f.WaterDepth > MaxWaterDepth {
		return LineInput{}, NewInputError(ErrDomain, "waterDepth", fmt.Sprintf("must not exceed %g", MaxWaterDepth))
	}
	if *f.FairleadTension > MaxFairleadTension {
		return LineInput{}, NewInputError(ErrDomain, "fairleadTension", fmt.Sprintf("must not exceed %g", MaxFairleadTension))
	}
	return LineInput{
		FairleadTension:    *f.FairleadTension,
		WaterDepth:         *f.WaterDepth,
		ComponentType:      ComponentType(f.ComponentType),
		ComponentSize:      f.ComponentSize,
		ComponentLength:    *f.ComponentLength,
		ComponentWeight:    *f.ComponentWeight,
		ComponentStiffness: *f.ComponentStiffness,
		ComponentMBL:       *f.ComponentMBL,
	}, nil
}
