package phase

import (
	"fmt"
	"math"

	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/scoring"
)

type edgeCase struct {
	name     string
	severity Severity
	expected string
	run      func(v *Validator, p benchmark.GroundTruthProfile) (bool, string)
}

// reportCase validates m and checks the report with want.
func reportCase(m Markers, want func(ValidationReport) bool) func(*Validator, benchmark.GroundTruthProfile) (bool, string) {
	return func(v *Validator, p benchmark.GroundTruthProfile) (bool, string) {
		r := v.Validate(m, p)
		return want(r), summary(r)
	}
}

func summary(r ValidationReport) string {
	return fmt.Sprintf("tempo=%.2f pass=%t score=%.0f critical=%d warning=%d",
		r.Derived.TempoRatio, r.OverallPass, r.Score, r.CriticalFailures, r.WarningFailures)
}

func pf(v float64) *float64 { return &v }

var edgeCases = []edgeCase{
	{
		name:     "Zero-duration load",
		severity: SeverityCritical,
		expected: "critical duration failure, overall fail",
		run: reportCase(Markers{LoadStart: 340, FireStart: 340}, func(r ValidationReport) bool {
			return !r.OverallPass && r.Failed(CheckPositiveDurations) && r.Derived.TempoRatio == 0
		}),
	},
	{
		name:     "Zero-duration load and fire",
		severity: SeverityCritical,
		expected: "tempo sentinel 0, critical duration failure",
		run: reportCase(Markers{}, func(r ValidationReport) bool {
			return !r.OverallPass && r.Failed(CheckPositiveDurations) && r.Derived.TempoRatio == 0
		}),
	},
	{
		name:     "Zero fire duration",
		severity: SeverityCritical,
		expected: "tempo sentinel 0, critical duration failure",
		run: reportCase(Markers{LoadStart: 600}, func(r ValidationReport) bool {
			return !r.OverallPass && r.Failed(CheckPositiveDurations) && r.Derived.TempoRatio == 0
		}),
	},
	{
		name:     "Negative tempo ratio",
		severity: SeverityCritical,
		expected: "ratio sentinel 0, plausibility critical failure",
		run: func(v *Validator, _ benchmark.GroundTruthProfile) (bool, string) {
			ratio := scoring.TempoRatio(-560, 340)
			res := v.tempoPlausibility(-560.0 / 340.0)
			ok := ratio == 0 && !res.Passed && res.Severity == SeverityCritical
			return ok, fmt.Sprintf("ratio=%.2f plausibility=%t", ratio, res.Passed)
		},
	},
	{
		name:     "Missing pelvis peak",
		severity: SeverityWarning,
		expected: "info failure only, overall pass",
		run: reportCase(Markers{LoadStart: 880, FireStart: 240}, func(r ValidationReport) bool {
			res, ok := r.Result(CheckPelvisInFire)
			return ok && !res.Passed && res.Severity == SeverityInfo && r.OverallPass
		}),
	},
	{
		name:     "Extreme tempo ratio above 10:1",
		severity: SeverityCritical,
		expected: "plausibility critical failure",
		run: reportCase(Markers{LoadStart: 1340, FireStart: 120, PelvisPeak: pf(80)}, func(r ValidationReport) bool {
			return !r.OverallPass && r.Failed(CheckTempoPlausible) && r.Derived.TempoRatio > 10
		}),
	},
	{
		name:     "Extreme tempo ratio below 0.1:1",
		severity: SeverityCritical,
		expected: "plausibility critical failure",
		run: reportCase(Markers{LoadStart: 420, FireStart: 400, PelvisPeak: pf(200)}, func(r ValidationReport) bool {
			return !r.OverallPass && r.Failed(CheckTempoPlausible) && r.Derived.TempoRatio < 0.1
		}),
	},
	{
		name:     "NaN marker",
		severity: SeverityCritical,
		expected: "finite check critical failure, finite score",
		run: reportCase(Markers{LoadStart: math.NaN(), FireStart: 240}, func(r ValidationReport) bool {
			return !r.OverallPass && r.Failed(CheckMarkersFinite) && r.Derived.TempoRatio == 0 && finite(r.Score)
		}),
	},
	{
		name:     "Negative reference-frame timings",
		severity: SeverityInfo,
		expected: "same report as positive timings",
		run: func(v *Validator, p benchmark.GroundTruthProfile) (bool, string) {
			neg := v.Validate(Markers{LoadStart: -880, FireStart: -240, PelvisPeak: pf(-150)}, p)
			pos := v.Validate(Markers{LoadStart: 880, FireStart: 240, PelvisPeak: pf(150)}, p)
			ok := neg.Score == pos.Score && neg.OverallPass == pos.OverallPass && neg.Derived == pos.Derived
			return ok, summary(neg)
		},
	},
}

// EdgeCases runs the degenerate-input battery against the first profile.
// Each result passes when the validator handled its case as expected.
func (v *Validator) EdgeCases() []ValidationResult {
	var p benchmark.GroundTruthProfile
	if len(v.tables.Profiles) > 0 {
		p = v.tables.Profiles[0]
	}
	out := make([]ValidationResult, 0, len(edgeCases))
	for _, ec := range edgeCases {
		passed, actual := ec.run(v, p)
		out = append(out, check("Edge case: "+ec.name, ec.severity, passed, ec.expected, actual))
	}
	return out
}

// Catalogue validates every profile's reference swing against the profile
// itself.
func (v *Validator) Catalogue() []ValidationReport {
	out := make([]ValidationReport, 0, len(v.tables.Profiles))
	for _, p := range v.tables.Profiles {
		out = append(out, v.Validate(ReferenceMarkers(p), p))
	}
	return out
}

// ReferenceMarkers returns the markers of a profile's reference swing.
func ReferenceMarkers(p benchmark.GroundTruthProfile) Markers {
	pelvis := p.Reference.PelvisPeak
	return Markers{LoadStart: p.Reference.LoadStart, FireStart: p.Reference.FireStart, PelvisPeak: &pelvis}
}

// RunEdgeCaseTests runs the edge-case battery with the default limits.
func RunEdgeCaseTests() []ValidationResult {
	return defaultValidator.EdgeCases()
}

// ValidateCatalogue validates the default ground-truth catalogue.
func ValidateCatalogue() []ValidationReport {
	return defaultValidator.Catalogue()
}
