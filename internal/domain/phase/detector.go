package phase

import (
	"fmt"
	"math"

	"github.com/okian/swingiq/internal/domain/benchmark"
)

// Name identifies a swing phase.
type Name string

// Swing phases in time order.
const (
	Stance        Name = "stance"
	Load          Name = "load"
	Stride        Name = "stride"
	Fire          Name = "fire"
	Contact       Name = "contact"
	FollowThrough Name = "follow_through"
)

// Detection quality levels.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// PoseFrame is one sample of a pose-estimation pipeline.
type PoseFrame struct {
	TimestampMs         float64  `json:"t_ms" yaml:"t_ms"`
	PelvisRotationDeg   float64  `json:"pelvis_rotation_deg" yaml:"pelvis_rotation_deg"`
	ShoulderRotationDeg float64  `json:"shoulder_rotation_deg" yaml:"shoulder_rotation_deg"`
	HandSpeed           float64  `json:"hand_speed" yaml:"hand_speed"`
	PelvisVelocity      *float64 `json:"pelvis_velocity,omitempty" yaml:"pelvis_velocity,omitempty"`
	FrontFootHeightCm   *float64 `json:"front_foot_height_cm,omitempty" yaml:"front_foot_height_cm,omitempty"`
}

// PoseTimeSeries is an ordered sequence of pose frames.
type PoseTimeSeries struct {
	Frames []PoseFrame `json:"frames" yaml:"frames"`
}

// SwingPhase is one detected phase.
type SwingPhase struct {
	Name       Name    `json:"name"`
	StartMs    float64 `json:"start_ms"`
	EndMs      float64 `json:"end_ms"`
	DurationMs float64 `json:"duration_ms"`
	StartFrame int     `json:"start_frame"`
	EndFrame   int     `json:"end_frame"`
}

// Quality describes how much of the swing the detector could locate.
type Quality struct {
	Score           float64  `json:"score"`
	Level           string   `json:"level"`
	DetectedMarkers int      `json:"detected_markers"`
	Notes           []string `json:"notes"`
}

// Detection is the phase breakdown of one pose series.
type Detection struct {
	Phases          []SwingPhase `json:"phases"`
	TotalDurationMs float64      `json:"total_duration_ms"`
	LoadToFireRatio float64      `json:"load_to_fire_ratio"`
	Markers         Markers      `json:"markers"`
	Derived         Derived      `json:"derived"`
	Quality         Quality      `json:"quality"`
}

// Detector buckets pose frames into swing phases.
type Detector struct {
	limits benchmark.PhaseLimits
}

// NewDetector creates a Detector over the default limits unless overridden.
func NewDetector(opts ...Option) *Detector {
	o := buildOptions(opts)
	return &Detector{limits: o.tables.Phase}
}

// Detect locates the phase boundaries of s. Contact is the frame of peak
// hand speed; load starts when the shoulders coil past the threshold; fire
// starts at maximum coil; the stride starts when the front foot lifts.
func (d *Detector) Detect(s PoseTimeSeries) (Detection, error) {
	if err := d.check(s); err != nil {
		return Detection{}, err
	}
	f := s.Frames
	last := len(f) - 1

	contact := 0
	for i := range f {
		if f[i].HandSpeed > f[contact].HandSpeed {
			contact = i
		}
	}
	if f[contact].HandSpeed <= 0 {
		return Detection{}, fmt.Errorf("%w: no hand speed signal", ErrInvalidSeries)
	}
	if contact == 0 {
		return Detection{}, fmt.Errorf("%w: hand speed peaks on the first frame", ErrInvalidSeries)
	}

	q := Quality{Notes: []string{}}

	base := f[0].ShoulderRotationDeg
	load, loadFound := 0, false
	for i := 1; i < contact; i++ {
		if math.Abs(f[i].ShoulderRotationDeg-base) > d.limits.CoilThresholdDeg {
			load, loadFound = i, true
			break
		}
	}
	if !loadFound {
		q.Notes = append(q.Notes, "no shoulder coil detected")
	}

	fire, fireFound := load, false
	if loadFound {
		dir := math.Copysign(1, f[load].ShoulderRotationDeg-base)
		peak := (f[load].ShoulderRotationDeg - base) * dir
		for i := load + 1; i < contact; i++ {
			if c := (f[i].ShoulderRotationDeg - base) * dir; c > peak {
				peak, fire = c, i
			}
		}
		fireFound = fire > load
	}
	if !fireFound {
		fire = contact - 1
		if fire < load {
			fire = load
		}
		q.Notes = append(q.Notes, "fire start not distinct from load start")
	}

	stride, strideFound := fire, false
	if h := f[0].FrontFootHeightCm; h != nil {
		for i := load; i < fire; i++ {
			if fh := f[i].FrontFootHeightCm; fh != nil && *fh > *h+d.limits.FootLiftThreshold {
				stride, strideFound = i, true
				break
			}
		}
	}
	if !strideFound {
		q.Notes = append(q.Notes, "no front-foot lift detected")
	}

	pelvis, pelvisFound := -1, false
	for i := load; i <= contact; i++ {
		pv := f[i].PelvisVelocity
		if pv == nil || !finite(*pv) {
			continue
		}
		if !pelvisFound || *pv > *f[pelvis].PelvisVelocity {
			pelvis, pelvisFound = i, true
		}
	}
	if !pelvisFound {
		q.Notes = append(q.Notes, "no pelvis velocity samples")
	}

	tc := f[contact].TimestampMs
	m := Markers{LoadStart: tc - f[load].TimestampMs, FireStart: tc - f[fire].TimestampMs}
	if pelvisFound {
		pp := tc - f[pelvis].TimestampMs
		m.PelvisPeak = &pp
	}

	det := Detection{
		TotalDurationMs: f[last].TimestampMs - f[0].TimestampMs,
		Markers:         m,
		Derived:         m.Derive(),
	}
	det.LoadToFireRatio = det.Derived.TempoRatio

	add := func(name Name, from, to int) {
		if to <= from && name != Contact {
			return
		}
		det.Phases = append(det.Phases, SwingPhase{
			Name:       name,
			StartMs:    f[from].TimestampMs,
			EndMs:      f[to].TimestampMs,
			DurationMs: f[to].TimestampMs - f[from].TimestampMs,
			StartFrame: from,
			EndFrame:   to,
		})
	}
	add(Stance, 0, load)
	add(Load, load, stride)
	add(Stride, stride, fire)
	add(Fire, fire, contact)
	add(Contact, contact, contact)
	add(FollowThrough, contact, last)

	for _, found := range []bool{loadFound, strideFound, fireFound, pelvisFound} {
		if found {
			q.DetectedMarkers++
		}
	}
	q.Score = 25 * float64(q.DetectedMarkers)
	if !d.limits.TempoPlausible.Contains(det.LoadToFireRatio) {
		q.Score = math.Max(0, q.Score-25)
		q.Notes = append(q.Notes, fmt.Sprintf("implausible load-to-fire ratio %.2f", det.LoadToFireRatio))
	}
	switch {
	case q.DetectedMarkers < d.limits.MinDetectedMarkers:
		q.Level = QualityLow
	case q.Score >= 75:
		q.Level = QualityHigh
	case q.Score >= 50:
		q.Level = QualityMedium
	default:
		q.Level = QualityLow
	}
	det.Quality = q
	return det, nil
}

func (d *Detector) check(s PoseTimeSeries) error {
	if len(s.Frames) < d.limits.MinFrames {
		return fmt.Errorf("%w: %d frames, need at least %d", ErrInvalidSeries, len(s.Frames), d.limits.MinFrames)
	}
	for i, fr := range s.Frames {
		if !finite(fr.TimestampMs) || !finite(fr.ShoulderRotationDeg) || !finite(fr.PelvisRotationDeg) || !finite(fr.HandSpeed) {
			return fmt.Errorf("%w: frame %d has a non-finite sample", ErrInvalidSeries, i)
		}
		if i > 0 && fr.TimestampMs <= s.Frames[i-1].TimestampMs {
			return fmt.Errorf("%w: timestamps not increasing at frame %d", ErrInvalidSeries, i)
		}
	}
	return nil
}

var defaultDetector = NewDetector()

// DetectSwingPhases detects phases with the default limits.
func DetectSwingPhases(s PoseTimeSeries) (Detection, error) {
	return defaultDetector.Detect(s)
}
