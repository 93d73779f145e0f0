package scoring

import "math"

// NormalizeTiming converts a marker to milliseconds before contact. Callers
// report timings in either sign convention (contact-relative negative or
// positive), so the magnitude is what counts.
func NormalizeTiming(ms float64) float64 {
	return math.Abs(ms)
}

// SafeDiv divides num by den, reporting false instead of producing NaN or
// ±Inf.
func SafeDiv(num, den float64) (float64, bool) {
	if !finite(num) || !finite(den) || den == 0 {
		return 0, false
	}
	q := num / den
	if !finite(q) {
		return 0, false
	}
	return q, true
}

// TempoRatio returns load/fire. It returns 0 when fire is not positive, load
// is negative, or either value is not finite.
func TempoRatio(loadMs, fireMs float64) float64 {
	if !finite(loadMs) || !finite(fireMs) || fireMs <= 0 || loadMs < 0 {
		return 0
	}
	ratio, ok := SafeDiv(loadMs, fireMs)
	if !ok {
		return 0
	}
	return ratio
}
