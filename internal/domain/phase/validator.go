package phase

import (
	"fmt"
	"math"

	"github.com/okian/swingiq/internal/domain/benchmark"
)

// Severity grades a failed validation check.
type Severity string

// Check severities.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Score penalties per failed check.
const (
	criticalPenalty = 25.0
	warningPenalty  = 10.0
)

// Names of the checks run by Validate.
const (
	CheckMarkersFinite     = "Markers are finite"
	CheckMarkerOrder       = "Marker order"
	CheckPositiveDurations = "No negative/zero durations"
	CheckTempoPlausible    = "Tempo ratio plausibility"
	CheckLoadPlausible     = "Load duration plausibility"
	CheckFirePlausible     = "Fire duration plausibility"
	CheckTempoInRange      = "Tempo within profile range"
	CheckPelvisInFire      = "Pelvis peak within fire window"
	CheckTempoExpected     = "Tempo close to expected"
)

// ValidationResult is the outcome of one named check.
type ValidationResult struct {
	TestName string   `json:"test_name"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Expected string   `json:"expected"`
	Actual   string   `json:"actual"`
}

// ValidationReport aggregates every check run against one set of markers.
type ValidationReport struct {
	Profile          string             `json:"profile"`
	Derived          Derived            `json:"derived"`
	Results          []ValidationResult `json:"results"`
	OverallPass      bool               `json:"overall_pass"`
	Score            float64            `json:"score"`
	CriticalFailures int                `json:"critical_failures"`
	WarningFailures  int                `json:"warning_failures"`
	InfoFailures     int                `json:"info_failures"`
}

// Result returns the named check, if it ran.
func (r ValidationReport) Result(name string) (ValidationResult, bool) {
	for _, res := range r.Results {
		if res.TestName == name {
			return res, true
		}
	}
	return ValidationResult{}, false
}

// Failed reports whether the named check ran and failed.
func (r ValidationReport) Failed(name string) bool {
	res, ok := r.Result(name)
	return ok && !res.Passed
}

// Option applies a configuration option to a Validator or Detector.
type Option func(*options)

type options struct {
	tables benchmark.Tables
}

// WithTables replaces the default benchmark tables.
func WithTables(t benchmark.Tables) Option {
	return func(o *options) {
		if t.Ranges != nil {
			o.tables = t
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{tables: benchmark.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Validator grades detected phase markers against ground-truth profiles.
// It is stateless and safe for concurrent use.
type Validator struct {
	tables benchmark.Tables
	limits benchmark.PhaseLimits
}

// NewValidator creates a Validator over the default tables unless overridden.
func NewValidator(opts ...Option) *Validator {
	o := buildOptions(opts)
	return &Validator{tables: o.tables, limits: o.tables.Phase}
}

// Validate runs the check battery for m against profile p.
func (v *Validator) Validate(m Markers, p benchmark.GroundTruthProfile) ValidationReport {
	d := m.Derive()
	results := []ValidationResult{
		v.markersFinite(m),
		v.markerOrder(d),
		v.positiveDurations(d),
		v.tempoPlausibility(d.TempoRatio),
		check(CheckLoadPlausible, SeverityWarning, v.limits.LoadPlausible.Contains(d.LoadDuration),
			fmtBounds(v.limits.LoadPlausible, "ms"), fmt.Sprintf("%.0f ms", d.LoadDuration)),
		check(CheckFirePlausible, SeverityWarning, v.limits.FirePlausible.Contains(d.FireDuration),
			fmtBounds(v.limits.FirePlausible, "ms"), fmt.Sprintf("%.0f ms", d.FireDuration)),
		check(CheckTempoInRange, SeverityWarning, d.TempoRatio > 0 && p.TempoRange.Contains(d.TempoRatio),
			fmtBounds(p.TempoRange, ""), fmt.Sprintf("%.2f", d.TempoRatio)),
		v.pelvisInFire(m, d),
		check(CheckTempoExpected, SeverityInfo, d.TempoRatio > 0 && math.Abs(d.TempoRatio-p.ExpectedTempo) <= v.limits.ExpectedTolerance,
			fmt.Sprintf("%.2f ± %.2f", p.ExpectedTempo, v.limits.ExpectedTolerance), fmt.Sprintf("%.2f", d.TempoRatio)),
	}
	return summarize(p.Name, d, results)
}

func (v *Validator) markersFinite(m Markers) ValidationResult {
	ok := finite(m.LoadStart) && finite(m.FireStart) && finite(m.Contact)
	if m.PelvisPeak != nil {
		ok = ok && finite(*m.PelvisPeak)
	}
	actual := "all finite"
	if !ok {
		actual = fmt.Sprintf("load=%v fire=%v contact=%v", m.LoadStart, m.FireStart, m.Contact)
	}
	return check(CheckMarkersFinite, SeverityCritical, ok, "all finite", actual)
}

func (v *Validator) markerOrder(d Derived) ValidationResult {
	ok := d.Finite && d.LoadStart > d.FireStart && d.FireStart > d.Contact
	return check(CheckMarkerOrder, SeverityCritical, ok,
		"load start > fire start > contact",
		fmt.Sprintf("%.0f > %.0f > %.0f", d.LoadStart, d.FireStart, d.Contact))
}

func (v *Validator) positiveDurations(d Derived) ValidationResult {
	ok := d.Finite && d.LoadDuration > 0 && d.FireDuration > 0
	return check(CheckPositiveDurations, SeverityCritical, ok,
		"load > 0 and fire > 0",
		fmt.Sprintf("load=%.0f fire=%.0f", d.LoadDuration, d.FireDuration))
}

// tempoPlausibility fails critically for the zero sentinel and for ratios
// outside the plausible window, including negative ones.
func (v *Validator) tempoPlausibility(ratio float64) ValidationResult {
	ok := finite(ratio) && ratio > 0 && v.limits.TempoPlausible.Contains(ratio)
	return check(CheckTempoPlausible, SeverityCritical, ok,
		fmtBounds(v.limits.TempoPlausible, ""), fmt.Sprintf("%.2f", ratio))
}

func (v *Validator) pelvisInFire(m Markers, d Derived) ValidationResult {
	expected := fmt.Sprintf("%.0f-%.0f ms", d.Contact, d.FireStart)
	if m.PelvisPeak == nil {
		return check(CheckPelvisInFire, SeverityInfo, false, expected, "missing")
	}
	pelvis := math.Abs(*m.PelvisPeak)
	ok := d.Finite && finite(pelvis) && pelvis >= d.Contact && pelvis <= d.FireStart
	return check(CheckPelvisInFire, SeverityWarning, ok, expected, fmt.Sprintf("%.0f ms", pelvis))
}

func check(name string, sev Severity, passed bool, expected, actual string) ValidationResult {
	return ValidationResult{TestName: name, Passed: passed, Severity: sev, Expected: expected, Actual: actual}
}

func summarize(profile string, d Derived, results []ValidationResult) ValidationReport {
	r := ValidationReport{Profile: profile, Derived: d, Results: results}
	for _, res := range results {
		if res.Passed {
			continue
		}
		switch res.Severity {
		case SeverityCritical:
			r.CriticalFailures++
		case SeverityWarning:
			r.WarningFailures++
		default:
			r.InfoFailures++
		}
	}
	score := 100 - criticalPenalty*float64(r.CriticalFailures) - warningPenalty*float64(r.WarningFailures)
	r.Score = math.Max(0, math.Min(100, score))
	r.OverallPass = r.CriticalFailures == 0
	return r
}

func fmtBounds(b benchmark.Bounds, unit string) string {
	s := fmt.Sprintf("%.2f-%.2f", b.Min, b.Max)
	if unit == "ms" {
		s = fmt.Sprintf("%.0f-%.0f ms", b.Min, b.Max)
	}
	return s
}

var defaultValidator = NewValidator()

// ValidatePhaseDetection validates markers against profile p using the
// default limits.
func ValidatePhaseDetection(m Markers, p benchmark.GroundTruthProfile) ValidationReport {
	return defaultValidator.Validate(m, p)
}
