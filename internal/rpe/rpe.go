package rpe

import "math"

// Estimate suggests an RPE from the load and reps of a set. The second
// return value is false when there is nothing to estimate from (no weight or
// no unassisted reps); callers must then leave any existing value alone.
func Estimate(weight float64, unassisted, assisted int) (float64, bool) {
	if weight == 0 || unassisted == 0 {
		return 0, false
	}

	var base float64
	switch {
	case unassisted >= 12:
		base = 6
	case unassisted >= 8:
		base = 7
	case unassisted >= 5:
		base = 8
	case unassisted >= 3:
		base = 9
	default:
		base = 9.5
	}

	if assisted > 0 {
		base = math.Min(10, base+0.5+float64(assisted)*0.2)
	}

	return math.Round(base*10) / 10, true
}
