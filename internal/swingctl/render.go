package swingctl

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/model"
	"github.com/okian/swingiq/internal/domain/phase"
	"github.com/okian/swingiq/internal/domain/quality"
	"github.com/okian/swingiq/internal/domain/scoring"
)

// Renderer prints analyses and reports for a terminal.
type Renderer struct {
	w        io.Writer
	colorize bool

	title, good, warn, bad, dim lipgloss.Style
}

// NewRenderer creates a Renderer writing to w. Without color the output is
// plain text, which keeps it stable for pipes and tests.
func NewRenderer(w io.Writer, colorize bool) *Renderer {
	return &Renderer{
		w:        w,
		colorize: colorize,
		title:    lipgloss.NewStyle().Bold(true),
		good:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		bad:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (r *Renderer) paint(s lipgloss.Style, text string) string {
	if !r.colorize {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) tier(t benchmark.Tier) string {
	switch t {
	case benchmark.TierElite, benchmark.TierGood:
		return r.paint(r.good, string(t))
	case benchmark.TierDeveloping, benchmark.TierBeginner:
		return r.paint(r.warn, string(t))
	default:
		return r.paint(r.bad, string(t))
	}
}

func (r *Renderer) status(s scoring.Status) string {
	switch s {
	case scoring.StatusOptimal:
		return r.paint(r.good, string(s))
	case scoring.StatusDeveloping:
		return r.paint(r.warn, string(s))
	case scoring.StatusNA:
		return r.paint(r.dim, string(s))
	default:
		return r.paint(r.bad, string(s))
	}
}

func (r *Renderer) pass(ok bool) string {
	if ok {
		return r.paint(r.good, "PASS")
	}
	return r.paint(r.bad, "FAIL")
}

// Analysis prints one full swing analysis.
func (r *Renderer) Analysis(origin string, a model.SwingAnalysis) { //nolint:gocritic // hugeParam: analyses travel by value
	r.printf("%s  %s\n", r.paint(r.title, a.AthleteID), r.paint(r.dim, origin))
	if a.TempoRatio != nil {
		r.printf("  tempo ratio %.2f:1\n", *a.TempoRatio)
	}
	for _, as := range []quality.Assessment{a.Mechanics, a.FrontLeg, a.WeightTransfer} {
		r.assessment(as)
	}
	if len(a.Rotation) > 0 {
		r.printf("  rotation\n")
		r.components(a.Rotation)
	}
	if a.Sequence != nil {
		verdict := "not judged"
		if a.Sequence.Judged {
			verdict = r.pass(a.Sequence.IsProperSequence)
		}
		r.printf("  kinematic sequence %s\n", verdict)
		for _, v := range a.Sequence.Violations {
			r.printf("    %s %s\n", r.paint(r.warn, string(v.Severity)), v.Message)
		}
	}
	if a.Detection != nil {
		q := a.Detection.Quality
		r.printf("  phase detection %s (%.0f, %d markers)\n", q.Level, q.Score, q.DetectedMarkers)
	}
	if a.Validation != nil {
		r.Report(*a.Validation)
	}
	if len(a.NotAssessed) > 0 {
		r.printf("  %s %s\n", r.paint(r.dim, "not assessed:"), strings.Join(a.NotAssessed, ", "))
	}
	r.printf("\n")
}

func (r *Renderer) assessment(as quality.Assessment) {
	r.printf("  %-20s %6.1f  %s\n", as.Kind, as.OverallScore, r.tier(as.OverallStatus))
	r.components(as.ComponentScores)
	if line := as.Feedback[quality.BottomLine]; line != "" {
		r.printf("    %s\n", r.paint(r.dim, line))
	}
	if as.RecommendedDrill != "" {
		r.printf("    drill: %s\n", as.RecommendedDrill)
	}
}

func (r *Renderer) components(m map[string]scoring.ComponentScore) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		cs := m[k]
		raw := "-"
		if cs.Raw != nil {
			raw = fmt.Sprintf("%.1f%s", *cs.Raw, cs.Unit)
		}
		r.printf("    %-26s %6.1f  %-12s %s\n", k, cs.Value, r.status(cs.Status), raw)
	}
}

// Report prints a phase validation report.
func (r *Renderer) Report(rep phase.ValidationReport) {
	r.printf("  validation vs %s  %s  score %.0f (critical %d, warning %d, info %d)\n",
		rep.Profile, r.pass(rep.OverallPass), rep.Score,
		rep.CriticalFailures, rep.WarningFailures, rep.InfoFailures)
	r.Results(rep.Results)
}

// Results prints individual checks, one per line.
func (r *Renderer) Results(results []phase.ValidationResult) {
	for _, res := range results {
		r.printf("    %s %-8s %-40s expected %s, got %s\n",
			r.pass(res.Passed), res.Severity, res.TestName, res.Expected, res.Actual)
	}
}

// Profiles prints the ground-truth catalogue.
func (r *Renderer) Profiles(profiles []benchmark.GroundTruthProfile) {
	for _, p := range profiles {
		r.printf("%-12s %-24s tempo %.1f-%.1f (expected %.1f)  load %.0f fire %.0f pelvis %.0f ms\n",
			r.paint(r.title, p.Name), p.PlayerType,
			p.TempoRange.Min, p.TempoRange.Max, p.ExpectedTempo,
			p.Reference.LoadStart, p.Reference.FireStart, p.Reference.PelvisPeak)
	}
}

// Submitted prints the totals of a submit run.
func (r *Renderer) Submitted(s SubmitStats) {
	r.printf("submitted %d: %s accepted, %s duplicate, %s failed\n",
		s.Submitted,
		r.paint(r.good, fmt.Sprint(s.Accepted)),
		r.paint(r.warn, fmt.Sprint(s.Duplicate)),
		r.paint(r.bad, fmt.Sprint(s.Failed)))
	for _, e := range s.Errors {
		r.printf("  %s\n", r.paint(r.bad, e))
	}
}
