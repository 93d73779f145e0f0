// Package benchmark holds the reference ranges, weight tables and tier scales
// used to grade swing metrics. Every scorer reads its constants from here so
// tests can assert against the same tables the engines use.
package benchmark

import (
	"encoding/json"
	"fmt"
	"math"
)

// Curve selects how a raw value is mapped onto 0..100.
type Curve int

const (
	// CurveRange scores 100 inside the optimal band and decays with distance.
	CurveRange Curve = iota
	// CurveOneSided rises linearly from Floor to Elite and never penalizes excess.
	CurveOneSided
	// CurveDeviation scores symmetric distance from Target.
	CurveDeviation
)

func (c Curve) String() string {
	switch c {
	case CurveRange:
		return "range"
	case CurveOneSided:
		return "one_sided"
	case CurveDeviation:
		return "deviation"
	default:
		return "unknown"
	}
}

// Bounds is a closed interval. Open sides use ±Inf.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the interval.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Width returns Max-Min, or +Inf for an open interval.
func (b Bounds) Width() float64 {
	return b.Max - b.Min
}

// MarshalJSON renders open sides as null since JSON has no infinity.
func (b Bounds) MarshalJSON() ([]byte, error) {
	side := func(v float64) *float64 {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	}{Min: side(b.Min), Max: side(b.Max)})
}

// AtLeast returns the interval [minValue, +Inf).
func AtLeast(minValue float64) Bounds {
	return Bounds{Min: minValue, Max: math.Inf(1)}
}

// ScoreRange is the benchmark for one metric.
type ScoreRange struct {
	Metric     string  `json:"metric"`
	Unit       string  `json:"unit"`
	Curve      Curve   `json:"curve"`
	Optimal    Bounds  `json:"optimal"`
	Developing Bounds  `json:"developing"`
	Floor      float64 `json:"floor,omitempty"`  // one-sided: scores 0 at or below
	Elite      float64 `json:"elite,omitempty"`  // one-sided: scores 100 at or above
	Target     float64 `json:"target,omitempty"` // deviation: elite target value
}

// Validate checks the structural invariants of the range.
func (r ScoreRange) Validate() error {
	if r.Metric == "" {
		return fmt.Errorf("%w: metric name is empty", ErrInvalidRange)
	}
	if r.Optimal.Min > r.Optimal.Max {
		return fmt.Errorf("%w: %s optimal min %.3f > max %.3f", ErrInvalidRange, r.Metric, r.Optimal.Min, r.Optimal.Max)
	}
	if r.Developing.Min > r.Developing.Max {
		return fmt.Errorf("%w: %s developing min %.3f > max %.3f", ErrInvalidRange, r.Metric, r.Developing.Min, r.Developing.Max)
	}
	// Developing must surround or adjoin optimal.
	if r.Developing.Min > r.Optimal.Min || r.Developing.Max < r.Optimal.Max {
		return fmt.Errorf("%w: %s developing band does not surround optimal band", ErrInvalidRange, r.Metric)
	}
	switch r.Curve {
	case CurveRange:
		if math.IsInf(r.Optimal.Min, 0) && math.IsInf(r.Optimal.Max, 0) {
			return fmt.Errorf("%w: %s range curve needs at least one finite optimal bound", ErrInvalidRange, r.Metric)
		}
	case CurveOneSided:
		if !(r.Floor < r.Elite) {
			return fmt.Errorf("%w: %s floor %.3f must be below elite %.3f", ErrInvalidRange, r.Metric, r.Floor, r.Elite)
		}
	case CurveDeviation:
		if !(r.Target > 0) {
			return fmt.Errorf("%w: %s deviation target must be positive", ErrInvalidRange, r.Metric)
		}
	default:
		return fmt.Errorf("%w: %s unknown curve %d", ErrInvalidRange, r.Metric, r.Curve)
	}
	return nil
}

// Override replaces selected fields of a ScoreRange. Nil fields keep the
// current value.
type Override struct {
	OptimalMin    *float64 `koanf:"optimal_min" json:"optimal_min,omitempty"`
	OptimalMax    *float64 `koanf:"optimal_max" json:"optimal_max,omitempty"`
	DevelopingMin *float64 `koanf:"developing_min" json:"developing_min,omitempty"`
	DevelopingMax *float64 `koanf:"developing_max" json:"developing_max,omitempty"`
	Floor         *float64 `koanf:"floor" json:"floor,omitempty"`
	Elite         *float64 `koanf:"elite" json:"elite,omitempty"`
	Target        *float64 `koanf:"target" json:"target,omitempty"`
}

func (o Override) apply(r ScoreRange) ScoreRange {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.Optimal.Min, o.OptimalMin)
	set(&r.Optimal.Max, o.OptimalMax)
	set(&r.Developing.Min, o.DevelopingMin)
	set(&r.Developing.Max, o.DevelopingMax)
	set(&r.Floor, o.Floor)
	set(&r.Elite, o.Elite)
	set(&r.Target, o.Target)
	return r
}
