package errors

import "math"

// ValidateFinite rejects NaN and ±Inf values for the named parameter.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %g", name, v)
	}
	return nil
}

// ValidateUnitInterval checks that v lies in [0, 1].
func ValidateUnitInterval(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in [0,1], got %g", name, v)
	}
	return nil
}

// ValidateWeight checks a single edge weight: finite and non-negative.
// Unlike the configuration checks it reports ErrCodeInvalidInput, since
// weights arrive with the edge data rather than the algorithm parameters.
func ValidateWeight(index int, w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidInput, "edge %d: weight must be finite, got %g", index, w)
	}
	if w < 0 {
		return New(ErrCodeInvalidInput, "edge %d: weight must be non-negative, got %g", index, w)
	}
	return nil
}
