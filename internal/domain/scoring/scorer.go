package scoring

import (
	"github.com/okian/swingiq/internal/domain/benchmark"
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithTables replaces the default benchmark tables.
func WithTables(t benchmark.Tables) Option {
	return func(s *Scorer) {
		if t.Ranges != nil {
			s.tables = t
		}
	}
}

// Scorer grades named metrics against a set of benchmark tables.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	tables benchmark.Tables
}

// New creates a Scorer over the default tables unless overridden.
func New(opts ...Option) *Scorer {
	s := &Scorer{tables: benchmark.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tables returns the benchmark tables the scorer grades against.
func (s *Scorer) Tables() benchmark.Tables {
	return s.tables
}

// Metric grades value against the benchmark named metric. Unknown metrics
// are reported as N/A.
func (s *Scorer) Metric(metric string, value *float64) ComponentScore {
	r, ok := s.tables.Range(metric)
	if !ok {
		return NotAssessed(metric, "")
	}
	return ScoreComponent(metric, value, r)
}

// Score grades value for any metric key with the same input normalization
// the named scorers apply. Unlike Direction it never substitutes a default.
func (s *Scorer) Score(metric string, value *float64) ComponentScore {
	switch metric {
	case benchmark.MetricCOMTimingPeak:
		return s.COMTiming(value)
	case benchmark.MetricBackFootLift:
		return s.BackFoot(value)
	}
	return s.Metric(metric, value)
}

// Direction grades the attack angle. A missing angle falls back to
// benchmark.DefaultAttackAngle; the result keeps status N/A and is flagged
// Defaulted so consumers can tell it was not measured.
func (s *Scorer) Direction(attackAngle *float64) ComponentScore {
	if attackAngle != nil && finite(*attackAngle) {
		return s.Metric(benchmark.MetricAttackAngle, attackAngle)
	}
	fallback := benchmark.DefaultAttackAngle
	cs := s.Metric(benchmark.MetricAttackAngle, &fallback)
	cs.Status = StatusNA
	cs.Raw = nil
	cs.Defaulted = true
	return cs
}

// Timing grades the load-to-fire tempo ratio.
func (s *Scorer) Timing(tempoRatio *float64) ComponentScore {
	return s.Metric(benchmark.MetricTempoRatio, tempoRatio)
}

// Efficiency averages the pelvis and torso rotational-velocity scores that
// are available. Its status is the worst status among them.
func (s *Scorer) Efficiency(pelvisVelocity, torsoVelocity *float64) ComponentScore {
	parts := []ComponentScore{
		s.Metric(benchmark.MetricPelvisVelocity, pelvisVelocity),
		s.Metric(benchmark.MetricTorsoVelocity, torsoVelocity),
	}
	return Combine(benchmark.ComponentEfficiency, parts...)
}

// Combine averages the assessed parts into one component. It is N/A when no
// part was assessed.
func Combine(metric string, parts ...ComponentScore) ComponentScore {
	var (
		sum    float64
		n      int
		status = StatusOptimal
	)
	for _, p := range parts {
		if !p.Assessed() {
			continue
		}
		sum += p.Value
		n++
		if p.Status.rank() > status.rank() {
			status = p.Status
		}
	}
	if n == 0 {
		return NotAssessed(metric, "")
	}
	return ComponentScore{Metric: metric, Value: clamp(sum / float64(n)), Status: status}
}

// BatSpeed grades bat speed at contact.
func (s *Scorer) BatSpeed(mph *float64) ComponentScore {
	return s.Metric(benchmark.MetricBatSpeed, mph)
}

// Knee grades the front knee angle at contact.
func (s *Scorer) Knee(deg *float64) ComponentScore {
	return s.Metric(benchmark.MetricKneeAngle, deg)
}

// Ankle grades the front ankle angle at landing.
func (s *Scorer) Ankle(deg *float64) ComponentScore {
	return s.Metric(benchmark.MetricAnkleAngle, deg)
}

// Deceleration grades how sharply forward momentum stops.
func (s *Scorer) Deceleration(rate *float64) ComponentScore {
	return s.Metric(benchmark.MetricDecelerationRate, rate)
}

// Vertical grades center-of-mass vertical movement.
func (s *Scorer) Vertical(cm *float64) ComponentScore {
	return s.Metric(benchmark.MetricCOMVertical, cm)
}

// COMTiming grades when the forward shift peaks, in ms before contact.
func (s *Scorer) COMTiming(ms *float64) ComponentScore {
	if ms == nil {
		return s.Metric(benchmark.MetricCOMTimingPeak, nil)
	}
	v := NormalizeTiming(*ms)
	return s.Metric(benchmark.MetricCOMTimingPeak, &v)
}

// BackFoot grades back-foot release timing, in ms before contact.
func (s *Scorer) BackFoot(ms *float64) ComponentScore {
	if ms == nil {
		return s.Metric(benchmark.MetricBackFootLift, nil)
	}
	v := NormalizeTiming(*ms)
	return s.Metric(benchmark.MetricBackFootLift, &v)
}

// Acceleration grades peak forward center-of-mass acceleration.
func (s *Scorer) Acceleration(peak *float64) ComponentScore {
	return s.Metric(benchmark.MetricCOMAccelPeak, peak)
}

// XFactor grades peak pelvis-shoulder separation.
func (s *Scorer) XFactor(deg *float64) ComponentScore {
	return s.Metric(benchmark.MetricXFactor, deg)
}

// HipShoulderSeparation grades separation at foot plant.
func (s *Scorer) HipShoulderSeparation(deg *float64) ComponentScore {
	return s.Metric(benchmark.MetricHipShoulderSeparation, deg)
}
