// Package scoring maps raw swing measurements onto 0..100 component scores.
//
// Scorers never fail: a missing measurement yields status N/A with value 0,
// and degenerate inputs (NaN, ±Inf) are treated as missing.
package scoring

import (
	"math"

	"github.com/okian/swingiq/internal/domain/benchmark"
)

// Score bounds and the developing band used by the range curve.
const (
	minScore          = 0.0
	maxScore          = 100.0
	developingTop     = 89.0 // score at the optimal edge of the developing band
	developingBottom  = 60.0 // score at the outer edge of the developing band
	outsideDeveloping = 59.0 // score just past the developing band; decays to 0

	// deviationPrecision is the grid |v - target| is snapped to, so offsets
	// of equal size on either side of the target score identically.
	deviationPrecision = 1e9
)

// Status is the qualitative bucket of a single component.
type Status string

// Component statuses.
const (
	StatusOptimal    Status = "optimal"
	StatusDeveloping Status = "developing"
	StatusNeedsWork  Status = "needs-work"
	StatusNA         Status = "N/A"
)

// rank orders statuses from best to worst; N/A is handled by callers.
func (s Status) rank() int {
	switch s {
	case StatusOptimal:
		return 0
	case StatusDeveloping:
		return 1
	default:
		return 2
	}
}

// ComponentScore is the output of a single scorer.
type ComponentScore struct {
	Metric    string   `json:"metric"`
	Value     float64  `json:"value"`
	Status    Status   `json:"status"`
	Raw       *float64 `json:"raw,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Defaulted bool     `json:"defaulted,omitempty"`
}

// Assessed reports whether the component was scored from a real measurement.
func (c ComponentScore) Assessed() bool {
	return c.Status != StatusNA
}

// NotAssessed builds the N/A score for metric.
func NotAssessed(metric, unit string) ComponentScore {
	return ComponentScore{Metric: metric, Value: 0, Status: StatusNA, Unit: unit}
}

// ScoreComponent grades value against r. A nil or non-finite value is N/A.
func ScoreComponent(metric string, value *float64, r benchmark.ScoreRange) ComponentScore {
	if value == nil || !finite(*value) {
		return NotAssessed(metric, r.Unit)
	}
	v := *value
	return ComponentScore{
		Metric: metric,
		Value:  Curve(v, r),
		Status: StatusFor(v, r),
		Raw:    &v,
		Unit:   r.Unit,
	}
}

// StatusFor buckets v against the optimal and developing bands of r.
func StatusFor(v float64, r benchmark.ScoreRange) Status {
	switch {
	case !finite(v):
		return StatusNA
	case r.Optimal.Contains(v):
		return StatusOptimal
	case r.Developing.Contains(v):
		return StatusDeveloping
	default:
		return StatusNeedsWork
	}
}

// Curve evaluates the scoring curve selected by r at v.
func Curve(v float64, r benchmark.ScoreRange) float64 {
	if !finite(v) {
		return minScore
	}
	switch r.Curve {
	case benchmark.CurveOneSided:
		return OneSided(v, r.Floor, r.Elite)
	case benchmark.CurveDeviation:
		return Deviation(v, r.Target)
	default:
		return DistanceToOptimal(v, r.Optimal, r.Developing)
	}
}

// DistanceToOptimal scores 100 inside optimal, 89..60 across the developing
// band and decays linearly from 59 to 0 past it.
func DistanceToOptimal(v float64, optimal, developing benchmark.Bounds) float64 {
	if optimal.Contains(v) {
		return maxScore
	}
	below := v < optimal.Min
	var gap, edge, dist float64
	if below {
		gap = optimal.Min - developing.Min
		edge = developing.Min
		dist = edge - v
	} else {
		gap = developing.Max - optimal.Max
		edge = developing.Max
		dist = v - edge
	}

	if developing.Contains(v) {
		var frac float64
		if below {
			frac = (optimal.Min - v) / gap
		} else {
			frac = (v - optimal.Max) / gap
		}
		return clamp(developingTop - frac*(developingTop-developingBottom))
	}

	falloff := gap
	if !(falloff > 0) || math.IsInf(falloff, 0) {
		falloff = optimal.Width() / 2
	}
	if !(falloff > 0) || math.IsInf(falloff, 0) {
		falloff = 1
	}
	return clamp(outsideDeveloping * (1 - dist/falloff))
}

// OneSided rises linearly from 0 at floor to 100 at elite and stays capped.
func OneSided(v, floor, elite float64) float64 {
	span := elite - floor
	if !(span > 0) {
		return minScore
	}
	return clamp(maxScore * (v - floor) / span)
}

// Deviation scores 100 × (1 − |v − target| / target).
func Deviation(v, target float64) float64 {
	if !(target > 0) {
		return minScore
	}
	dist := math.Round(math.Abs(v-target)*deviationPrecision) / deviationPrecision
	return clamp(maxScore * (1 - dist/target))
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return minScore
	}
	return math.Max(minScore, math.Min(maxScore, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
