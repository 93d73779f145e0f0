package quality

import (
	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/scoring"
)

// Option applies a configuration option to Engines.
type Option func(*Engines)

// WithScorer sets the scorer, and therefore the benchmark tables, used by
// the engines.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engines) {
		if s != nil {
			e.scorer = s
		}
	}
}

// Engines runs the composite assessments over one set of benchmark tables.
type Engines struct {
	scorer *scoring.Scorer
}

// New creates Engines over the default tables unless overridden.
func New(opts ...Option) *Engines {
	e := &Engines{scorer: scoring.New()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer returns the component scorer backing the engines.
func (e *Engines) Scorer() *scoring.Scorer {
	return e.scorer
}

// MechanicsEngine returns the swing-mechanics engine. The bat-speed variant
// is used when a bat speed was measured.
func (e *Engines) MechanicsEngine(withBatSpeed bool) Engine {
	t := e.scorer.Tables()
	w := t.MechanicsWeights
	if withBatSpeed {
		w = t.MechanicsBatSpeedWeights
	}
	return Engine{Kind: KindSwingMechanics, Weights: w, Scale: t.MechanicsTier, Bands: t.MechanicsBands}
}

// FrontLegEngine returns the front-leg stability engine.
func (e *Engines) FrontLegEngine() Engine {
	t := e.scorer.Tables()
	return Engine{Kind: KindFrontLeg, Weights: t.FrontLegWeights, Scale: t.FiveTier, Bands: t.FrontLegBands}
}

// WeightTransferEngine returns the weight-transfer engine.
func (e *Engines) WeightTransferEngine() Engine {
	t := e.scorer.Tables()
	return Engine{Kind: KindWeightTransfer, Weights: t.WeightTransferWeights, Scale: t.FiveTier, Bands: t.WeightTransferBands}
}

// SwingMechanics combines direction, timing and efficiency scores, plus bat
// speed when measured.
func (e *Engines) SwingMechanics(direction, timing, efficiency scoring.ComponentScore, batSpeed *float64) Assessment {
	components := map[string]scoring.ComponentScore{
		benchmark.ComponentDirection:  direction,
		benchmark.ComponentTiming:     timing,
		benchmark.ComponentEfficiency: efficiency,
	}
	bat := e.scorer.BatSpeed(batSpeed)
	withBat := bat.Assessed()
	if withBat {
		components[benchmark.ComponentBatSpeed] = bat
	}
	return e.MechanicsEngine(withBat).Compute(components)
}

// FrontLegStability grades knee angle, ankle angle and deceleration rate.
func (e *Engines) FrontLegStability(kneeAngle, ankleAngle, decelRate *float64) Assessment {
	return e.FrontLegEngine().Compute(map[string]scoring.ComponentScore{
		benchmark.ComponentKnee:         e.scorer.Knee(kneeAngle),
		benchmark.ComponentAnkle:        e.scorer.Ankle(ankleAngle),
		benchmark.ComponentDeceleration: e.scorer.Deceleration(decelRate),
	})
}

// WeightTransfer grades center-of-mass vertical movement, timing of the
// forward-shift peak, back-foot release and peak forward acceleration.
func (e *Engines) WeightTransfer(verticalMovement, timingPeak, backFootLift, accelPeak *float64) Assessment {
	return e.WeightTransferEngine().Compute(map[string]scoring.ComponentScore{
		benchmark.ComponentVertical:     e.scorer.Vertical(verticalMovement),
		benchmark.ComponentTiming:       e.scorer.COMTiming(timingPeak),
		benchmark.ComponentBackFoot:     e.scorer.BackFoot(backFootLift),
		benchmark.ComponentAcceleration: e.scorer.Acceleration(accelPeak),
	})
}

var defaultEngines = New()

// ComputeSwingMechanicsQuality runs the swing-mechanics engine on the
// default tables.
func ComputeSwingMechanicsQuality(direction, timing, efficiency scoring.ComponentScore, batSpeed *float64) Assessment {
	return defaultEngines.SwingMechanics(direction, timing, efficiency, batSpeed)
}

// ComputeFrontLegStability runs the front-leg engine on the default tables.
func ComputeFrontLegStability(kneeAngle, ankleAngle, decelRate *float64) Assessment {
	return defaultEngines.FrontLegStability(kneeAngle, ankleAngle, decelRate)
}

// ComputeWeightTransfer runs the weight-transfer engine on the default tables.
func ComputeWeightTransfer(verticalMovement, timingPeak, backFootLift, accelPeak *float64) Assessment {
	return defaultEngines.WeightTransfer(verticalMovement, timingPeak, backFootLift, accelPeak)
}
