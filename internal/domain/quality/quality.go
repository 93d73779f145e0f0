// Package quality combines component scores into composite assessments:
// swing mechanics, front-leg stability and weight transfer.
package quality

import (
	"math"

	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/scoring"
)

// drillThreshold is the overall score below which a drill is recommended.
const drillThreshold = 90.0

// Kind names an assessment family.
type Kind string

// Assessment families.
const (
	KindSwingMechanics Kind = "swing_mechanics"
	KindFrontLeg       Kind = "front_leg_stability"
	KindWeightTransfer Kind = "weight_transfer"
)

// BottomLine is the feedback key holding the overall narrative.
const BottomLine = "bottomLine"

// Assessment is the composite result for one metric group.
type Assessment struct {
	Kind             Kind                              `json:"kind"`
	OverallScore     float64                           `json:"overall_score"`
	OverallStatus    benchmark.Tier                    `json:"overall_status"`
	ComponentScores  map[string]scoring.ComponentScore `json:"component_scores"`
	Weights          benchmark.Weights                 `json:"weights"`
	Feedback         map[string]string                 `json:"feedback"`
	RecommendedDrill string                            `json:"recommended_drill,omitempty"`
	PredictedOutput  string                            `json:"predicted_output"`
	Assessed         int                               `json:"assessed_components"`
}

// Engine is the fixed configuration of one composite assessment.
type Engine struct {
	Kind    Kind
	Weights benchmark.Weights
	Scale   benchmark.Scale
	Bands   benchmark.Bands
}

// Compute builds an Assessment from component scores keyed by the engine's
// weight-table components. Missing components contribute 0.
func (e Engine) Compute(components map[string]scoring.ComponentScore) Assessment {
	scores := make(map[string]scoring.ComponentScore, len(e.Weights))
	var (
		overall  float64
		assessed int
	)
	for _, w := range e.Weights {
		cs, ok := components[w.Component]
		if !ok {
			cs = scoring.NotAssessed(w.Component, "")
		}
		scores[w.Component] = cs
		overall += cs.Value * w.Weight
		if cs.Assessed() {
			assessed++
		}
	}
	overall = round2(math.Max(0, math.Min(100, overall)))
	tier := e.Scale.Classify(overall)

	a := Assessment{
		Kind:            e.Kind,
		OverallScore:    overall,
		OverallStatus:   tier,
		ComponentScores: scores,
		Weights:         e.Weights,
		Feedback:        make(map[string]string, len(scores)+1),
		PredictedOutput: e.Bands.Lookup(overall),
		Assessed:        assessed,
	}
	for component, cs := range scores {
		a.Feedback[component] = Narrative(e.Kind, component, BandOf(cs))
	}
	a.Feedback[BottomLine] = bottomLine(e.Kind, tier)
	if overall < drillThreshold {
		if weakest, ok := e.weakest(scores); ok {
			a.RecommendedDrill = Drill(e.Kind, weakest)
		}
	}
	return a
}

// weakest returns the lowest-scoring assessed component. Ties resolve to the
// first component in weight-table order.
func (e Engine) weakest(scores map[string]scoring.ComponentScore) (string, bool) {
	var (
		name  string
		low   = math.Inf(1)
		found bool
	)
	for _, w := range e.Weights {
		cs := scores[w.Component]
		if !cs.Assessed() {
			continue
		}
		if cs.Value < low {
			low = cs.Value
			name = w.Component
			found = true
		}
	}
	return name, found
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
