package phase

import (
	"math"

	"github.com/okian/swingiq/internal/domain/scoring"
)

// Markers are the phase boundaries of one swing in milliseconds before
// contact. Either sign convention is accepted; values are normalized to
// their magnitude before use.
type Markers struct {
	LoadStart  float64  `json:"load_start_ms" yaml:"load_start_ms"`
	FireStart  float64  `json:"fire_start_ms" yaml:"fire_start_ms"`
	Contact    float64  `json:"contact_ms" yaml:"contact_ms"`
	PelvisPeak *float64 `json:"pelvis_peak_ms,omitempty" yaml:"pelvis_peak_ms,omitempty"`
}

// Derived holds the normalized markers and the durations computed from them.
// Non-finite markers leave every field zero with Finite false.
type Derived struct {
	LoadStart    float64 `json:"load_start_ms"`
	FireStart    float64 `json:"fire_start_ms"`
	Contact      float64 `json:"contact_ms"`
	LoadDuration float64 `json:"load_duration_ms"`
	FireDuration float64 `json:"fire_duration_ms"`
	TempoRatio   float64 `json:"tempo_ratio"`
	Finite       bool    `json:"finite"`
}

// Derive computes load and fire durations and the tempo ratio.
func (m Markers) Derive() Derived {
	l := scoring.NormalizeTiming(m.LoadStart)
	f := scoring.NormalizeTiming(m.FireStart)
	c := scoring.NormalizeTiming(m.Contact)
	if !finite(l) || !finite(f) || !finite(c) {
		return Derived{}
	}
	d := Derived{
		LoadStart:    l,
		FireStart:    f,
		Contact:      c,
		LoadDuration: math.Abs(l - f),
		FireDuration: math.Abs(f - c),
		Finite:       true,
	}
	d.TempoRatio = scoring.TempoRatio(d.LoadDuration, d.FireDuration)
	return d
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
