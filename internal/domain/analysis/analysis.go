// Package analysis runs every scoring engine over one swing record.
package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/internal/domain/phase"
	"github.com/okian/swingiq/internal/domain/quality"
	"github.com/okian/swingiq/internal/domain/scoring"
	"github.com/okian/swingiq/internal/domain/sequence"
)

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithTables replaces the default benchmark tables.
func WithTables(t benchmark.Tables) Option {
	return func(a *Analyzer) {
		if t.Ranges != nil {
			a.tables = t
		}
	}
}

// WithDefaultProfile sets the ground-truth profile used when a record
// names none. Empty disables phase validation for such records.
func WithDefaultProfile(name string) Option {
	return func(a *Analyzer) {
		a.defaultProfile = name
	}
}

// WithClock overrides the time source used for AnalyzedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// Analyzer combines the scorers, quality engines, sequence judge and phase
// tooling. It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	tables         benchmark.Tables
	defaultProfile string
	now            func() time.Time

	scorer    *scoring.Scorer
	engines   *quality.Engines
	detector  *phase.Detector
	validator *phase.Validator
}

// New creates an Analyzer over the default tables unless overridden.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{tables: benchmark.Default(), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	a.scorer = scoring.New(scoring.WithTables(a.tables))
	a.engines = quality.New(quality.WithScorer(a.scorer))
	a.detector = phase.NewDetector(phase.WithTables(a.tables))
	a.validator = phase.NewValidator(phase.WithTables(a.tables))
	return a
}

// Tables returns the benchmark tables in use.
func (a *Analyzer) Tables() benchmark.Tables { return a.tables }

// Scorer returns the component scorer.
func (a *Analyzer) Scorer() *scoring.Scorer { return a.scorer }

// Engines returns the composite quality engines.
func (a *Analyzer) Engines() *quality.Engines { return a.engines }

// Detector returns the pose-based phase detector.
func (a *Analyzer) Detector() *phase.Detector { return a.detector }

// Validator returns the phase validator.
func (a *Analyzer) Validator() *phase.Validator { return a.validator }

// Check reports the errors Analyze would return for rec without scoring it.
func (a *Analyzer) Check(rec model.SwingRecord) error { //nolint:gocritic // hugeParam: records travel by value
	if _, err := a.profile(rec.Profile); err != nil {
		return fmt.Errorf("check %s: %w", rec.AnalysisID, err)
	}
	if rec.Pose != nil {
		if _, err := a.detector.Detect(*rec.Pose); err != nil {
			return fmt.Errorf("check %s: %w", rec.AnalysisID, err)
		}
	}
	return nil
}

// profile resolves name, falling back to the default profile. A nil
// result means phase validation is skipped.
func (a *Analyzer) profile(name string) (*benchmark.GroundTruthProfile, error) {
	if name == "" {
		name = a.defaultProfile
	}
	if name == "" {
		return nil, nil
	}
	p, err := a.tables.Profile(name)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Analyze scores rec. Missing measurements are reported as not assessed;
// only a malformed pose series or an unknown profile returns an error.
//
// Markers come from the record or, failing that, from pose detection. The
// tempo ratio comes from the metrics or, failing that, from the markers.
func (a *Analyzer) Analyze(rec model.SwingRecord) (model.SwingAnalysis, error) { //nolint:gocritic // hugeParam: records travel by value
	profile, err := a.profile(rec.Profile)
	if err != nil {
		return model.SwingAnalysis{}, fmt.Errorf("analyze %s: %w", rec.AnalysisID, err)
	}

	out := model.SwingAnalysis{
		AnalysisID: rec.AnalysisID,
		AthleteID:  rec.AthleteID,
		Source:     rec.Source,
		CapturedAt: rec.CapturedAt,
		AnalyzedAt: a.now().UTC(),
	}

	if rec.Pose != nil {
		det, err := a.detector.Detect(*rec.Pose)
		if err != nil {
			return model.SwingAnalysis{}, fmt.Errorf("analyze %s: %w", rec.AnalysisID, err)
		}
		out.Detection = &det
	}

	markers := rec.Markers
	if markers == nil && out.Detection != nil {
		m := out.Detection.Markers
		markers = &m
	}

	m := rec.Metrics
	tempo := m.TempoRatio
	if tempo == nil && markers != nil {
		if r := markers.Derive().TempoRatio; r > 0 {
			tempo = &r
		}
	}
	out.TempoRatio = tempo

	s := a.scorer
	out.Mechanics = a.engines.SwingMechanics(
		s.Direction(m.AttackAngle),
		s.Timing(tempo),
		s.Efficiency(m.PelvisVelocity, m.TorsoVelocity),
		m.BatSpeed,
	)
	out.FrontLeg = a.engines.FrontLegStability(m.KneeAngle, m.AnkleAngle, m.DecelerationRate)
	out.WeightTransfer = a.engines.WeightTransfer(m.COMVertical, m.COMTimingPeak, m.BackFootLift, m.COMAccelPeak)
	out.Rotation = map[string]scoring.ComponentScore{
		benchmark.MetricXFactor:               s.XFactor(m.XFactor),
		benchmark.MetricHipShoulderSeparation: s.HipShoulderSeparation(m.HipShoulderSeparation),
	}

	if rec.Sequence != nil {
		sa := sequence.Analyze(*rec.Sequence)
		out.Sequence = &sa
	}

	if markers != nil && profile != nil {
		rep := a.validator.Validate(*markers, *profile)
		out.Validation = &rep
		out.Profile = profile.Name
	}

	out.NotAssessed = notAssessed(out)
	return out, nil
}

// notAssessed lists "<kind>.<component>" for every N/A component, sorted.
func notAssessed(out model.SwingAnalysis) []string {
	names := []string{}
	for _, as := range []quality.Assessment{out.Mechanics, out.FrontLeg, out.WeightTransfer} {
		for c, cs := range as.ComponentScores {
			if !cs.Assessed() {
				names = append(names, string(as.Kind)+"."+c)
			}
		}
	}
	for metric, cs := range out.Rotation {
		if !cs.Assessed() {
			names = append(names, "rotation."+metric)
		}
	}
	sort.Strings(names)
	return names
}
