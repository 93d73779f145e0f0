// Package sequence judges the kinematic sequence of a swing: whether body
// segments reach peak rotational velocity in proximal-to-distal order.
//
// Every timing is milliseconds before contact, so a segment that peaks
// earlier has the larger value. A proper sequence satisfies
// negativeMove > pelvis > shoulder > arm.
package sequence

import (
	"fmt"
	"math"

	"github.com/okian/swingiq/internal/domain/scoring"
)

// Name identifies a body segment.
type Name string

// Segments in proximal-to-distal order.
const (
	NegativeMove Name = "negative_move"
	Pelvis       Name = "pelvis"
	Shoulder     Name = "shoulder"
	Arm          Name = "arm"
)

// Severity grades a sequence violation.
type Severity string

// Violation severities.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// SegmentTiming is the measured or estimated peak of one segment.
type SegmentTiming struct {
	PeakMs       *float64 `json:"peak_ms" yaml:"peak_ms"`
	PeakVelocity *float64 `json:"peak_velocity,omitempty" yaml:"peak_velocity,omitempty"`
	// Estimated marks a peak inferred from other segments rather than measured.
	Estimated bool `json:"estimated,omitempty" yaml:"estimated,omitempty"`
}

// Timings holds the segment peaks of one swing. Any segment may be absent.
type Timings struct {
	NegativeMove *SegmentTiming `json:"negative_move,omitempty" yaml:"negative_move,omitempty"`
	Pelvis       *SegmentTiming `json:"pelvis,omitempty" yaml:"pelvis,omitempty"`
	Shoulder     *SegmentTiming `json:"shoulder,omitempty" yaml:"shoulder,omitempty"`
	Arm          *SegmentTiming `json:"arm,omitempty" yaml:"arm,omitempty"`
}

// Segment is one reported segment peak.
type Segment struct {
	Name         Name     `json:"name"`
	PeakMs       float64  `json:"peak_ms"`
	PeakVelocity *float64 `json:"peak_velocity,omitempty"`
	IsActual     bool     `json:"is_actual"`
}

// Violation records a pair of segments that peaked out of order.
type Violation struct {
	Earlier  Name     `json:"earlier"`
	Later    Name     `json:"later"`
	GapMs    float64  `json:"gap_ms"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Analysis is the sequence verdict for one swing.
type Analysis struct {
	Segments []Segment `json:"segments"`
	// Judged is false when no pair of measured segments was available.
	Judged                bool        `json:"judged"`
	IsProperSequence      bool        `json:"is_proper_sequence"`
	NegativeMovePelvisGap *float64    `json:"negative_move_pelvis_gap_ms,omitempty"`
	PelvisShoulderGap     *float64    `json:"pelvis_shoulder_gap_ms,omitempty"`
	ShoulderArmGap        *float64    `json:"shoulder_arm_gap_ms,omitempty"`
	PelvisShoulderGain    *float64    `json:"pelvis_shoulder_speed_gain,omitempty"`
	ShoulderArmGain       *float64    `json:"shoulder_arm_speed_gain,omitempty"`
	Violations            []Violation `json:"violations"`
}

type pair struct {
	earlier, later Name
	gap            **float64
	gain           **float64
	severity       Severity
}

// Analyze reports segment peaks, signed gaps and ordering violations.
// Estimated segments appear in Segments and gaps but never produce a
// violation.
func Analyze(t Timings) Analysis {
	segs := map[Name]Segment{}
	for _, in := range []struct {
		name Name
		st   *SegmentTiming
	}{
		{NegativeMove, t.NegativeMove},
		{Pelvis, t.Pelvis},
		{Shoulder, t.Shoulder},
		{Arm, t.Arm},
	} {
		if s, ok := segment(in.name, in.st); ok {
			segs[in.name] = s
		}
	}

	a := Analysis{Segments: []Segment{}, Violations: []Violation{}}
	for _, n := range []Name{NegativeMove, Pelvis, Shoulder, Arm} {
		if s, ok := segs[n]; ok {
			a.Segments = append(a.Segments, s)
		}
	}

	pairs := []pair{
		{NegativeMove, Pelvis, &a.NegativeMovePelvisGap, nil, SeverityWarning},
		{Pelvis, Shoulder, &a.PelvisShoulderGap, &a.PelvisShoulderGain, SeverityCritical},
		{Shoulder, Arm, &a.ShoulderArmGap, &a.ShoulderArmGain, SeverityWarning},
	}
	for _, p := range pairs {
		e, okE := segs[p.earlier]
		l, okL := segs[p.later]
		if !okE || !okL {
			continue
		}
		gap := e.PeakMs - l.PeakMs
		*p.gap = &gap
		if p.gain != nil && e.PeakVelocity != nil && l.PeakVelocity != nil {
			if g, ok := scoring.SafeDiv(*l.PeakVelocity, *e.PeakVelocity); ok {
				*p.gain = &g
			}
		}
		if !e.IsActual || !l.IsActual {
			continue
		}
		a.Judged = true
		if gap > 0 {
			continue
		}
		a.Violations = append(a.Violations, violation(p, gap))
	}
	a.IsProperSequence = a.Judged && len(a.Violations) == 0
	return a
}

func segment(name Name, st *SegmentTiming) (Segment, bool) {
	if st == nil || st.PeakMs == nil {
		return Segment{}, false
	}
	ms := scoring.NormalizeTiming(*st.PeakMs)
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return Segment{}, false
	}
	return Segment{Name: name, PeakMs: ms, PeakVelocity: st.PeakVelocity, IsActual: !st.Estimated}, true
}

func violation(p pair, gap float64) Violation {
	msg := fmt.Sprintf("%s peaked %.0f ms after %s", p.earlier, -gap, p.later)
	if gap == 0 {
		msg = fmt.Sprintf("%s and %s peaked together", p.earlier, p.later)
	}
	return Violation{Earlier: p.earlier, Later: p.later, GapMs: gap, Severity: p.severity, Message: msg}
}
