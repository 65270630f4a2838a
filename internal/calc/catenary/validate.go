package catenary

import "math"

// ValidateInput checks in against the engine's preconditions and returns the
// first violation found. Checks run in a fixed order: finiteness of every
// numeric field, then positivity, then the length/depth relation, then the
// component type.
func ValidateInput(in LineInput) error {
	fields := numericFields(in)
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return NewInputError(ErrMissingParameter, f.name, "is absent or not a finite number")
		}
	}
	for _, f := range fields {
		if f.v <= 0 {
			return NewInputError(ErrDomain, f.name, "must be positive")
		}
	}
	if in.ComponentLength <= in.WaterDepth {
		return &InputError{Kind: ErrGeometry, Reason: "component length must exceed water depth"}
	}
	if !in.ComponentType.Valid() {
		return NewInputError(ErrDomain, "componentType", "is not a recognized component type")
	}
	return nil
}

type namedValue struct {
	name string
	v    float64
}

func numericFields(in LineInput) []namedValue {
	return []namedValue{
		{"fairleadTension", in.FairleadTension},
		{"waterDepth", in.WaterDepth},
		{"componentLength", in.ComponentLength},
		{"componentWeight", in.ComponentWeight},
		{"componentStiffness", in.ComponentStiffness},
		{"componentMBL", in.ComponentMBL},
	}
}
