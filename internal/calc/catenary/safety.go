package catenary

// DefaultMinSafetyFactor follows DNV-style intact mooring guidance.
const DefaultMinSafetyFactor = 1.67

type SafetyCheck struct {
	IsValid              bool    `json:"isValid"`
	SafetyFactor         float64 `json:"safetyFactor"`
	RequiredSafetyFactor float64 `json:"requiredSafetyFactor"`
}

// CheckSafety compares mbl/tension against minSafetyFactor. A non-positive
// minSafetyFactor selects DefaultMinSafetyFactor.
func CheckSafety(mbl, tension, minSafetyFactor float64) SafetyCheck {
	if !(minSafetyFactor > 0) {
		minSafetyFactor = DefaultMinSafetyFactor
	}
	sf := mbl / tension
	return SafetyCheck{
		IsValid:              sf >= minSafetyFactor,
		SafetyFactor:         sf,
		RequiredSafetyFactor: minSafetyFactor,
	}
}
