package benchmark

import (
	"fmt"
	"math"
	"sort"
)

// Metric names. They double as keys for config overrides.
const (
	// Swing mechanics family.
	MetricAttackAngle           = "attack_angle"
	MetricTempoRatio            = "tempo_ratio"
	MetricPelvisVelocity        = "pelvis_rotation_velocity"
	MetricTorsoVelocity         = "torso_rotation_velocity"
	MetricBatSpeed              = "bat_speed"
	MetricXFactor               = "x_factor"
	MetricHipShoulderSeparation = "hip_shoulder_separation"

	// Front-leg stability family.
	MetricKneeAngle        = "knee_angle"
	MetricAnkleAngle       = "ankle_angle"
	MetricDecelerationRate = "deceleration_rate"

	// Weight transfer family.
	MetricCOMVertical   = "com_vertical_movement"
	MetricCOMTimingPeak = "com_timing_peak"
	MetricBackFootLift  = "back_foot_lift"
	MetricCOMAccelPeak  = "com_acceleration_peak"

	// Phase durations.
	MetricLoadDuration = "load_duration"
	MetricFireDuration = "fire_duration"
)

// DefaultAttackAngle is substituted by the direction scorer when no attack
// angle was measured. It sits inside the optimal band, so a defaulted
// direction score is 100 with status N/A.
const DefaultAttackAngle = 10.0

// Engine component keys.
const (
	ComponentDirection    = "direction"
	ComponentTiming       = "timing"
	ComponentEfficiency   = "efficiency"
	ComponentBatSpeed     = "batSpeed"
	ComponentKnee         = "knee"
	ComponentAnkle        = "ankle"
	ComponentDeceleration = "deceleration"
	ComponentVertical     = "vertical"
	ComponentBackFoot     = "backFoot"
	ComponentAcceleration = "acceleration"
)

// PhaseLimits bounds what the phase validator accepts as plausible and the
// thresholds used by the pose-based detector.
type PhaseLimits struct {
	LoadPlausible      Bounds  // ms
	FirePlausible      Bounds  // ms
	TempoPlausible     Bounds  // ratio; outside is treated as a detection failure
	ExpectedTolerance  float64 // max |tempo - expectedTempo| before an info mismatch
	MinFrames          int
	CoilThresholdDeg   float64
	FootLiftThreshold  float64 // cm
	MinDetectedMarkers int
}

// Tables bundles every benchmark the engines consume. Treat it as read-only;
// Apply returns a modified copy.
type Tables struct {
	Ranges map[string]ScoreRange

	MechanicsWeights         Weights
	MechanicsBatSpeedWeights Weights
	FrontLegWeights          Weights
	WeightTransferWeights    Weights

	FiveTier      Scale
	MechanicsTier Scale

	MechanicsBands      Bands
	FrontLegBands       Bands
	WeightTransferBands Bands

	Phase    PhaseLimits
	Profiles []GroundTruthProfile
}

// Default returns the built-in benchmark tables. Elite thresholds come from
// published motion-capture averages and are meant to be overridden via
// configuration when a canonical source is available.
func Default() Tables {
	inf := math.Inf(1)
	ranges := []ScoreRange{
		{Metric: MetricAttackAngle, Unit: "deg", Curve: CurveRange,
			Optimal: Bounds{8, 15}, Developing: Bounds{5, 20}},
		{Metric: MetricTempoRatio, Unit: "ratio", Curve: CurveDeviation, Target: 3.0,
			Optimal: Bounds{2.5, 3.5}, Developing: Bounds{2.0, 4.0}},
		{Metric: MetricPelvisVelocity, Unit: "deg/s", Curve: CurveOneSided, Floor: 400, Elite: 900,
			Optimal: Bounds{900, inf}, Developing: Bounds{650, inf}},
		{Metric: MetricTorsoVelocity, Unit: "deg/s", Curve: CurveOneSided, Floor: 500, Elite: 1100,
			Optimal: Bounds{1100, inf}, Developing: Bounds{850, inf}},
		{Metric: MetricBatSpeed, Unit: "mph", Curve: CurveOneSided, Floor: 45, Elite: 72,
			Optimal: Bounds{72, inf}, Developing: Bounds{60, inf}},
		{Metric: MetricXFactor, Unit: "deg", Curve: CurveRange,
			Optimal: Bounds{45, 60}, Developing: Bounds{35, 70}},
		{Metric: MetricHipShoulderSeparation, Unit: "deg", Curve: CurveRange,
			Optimal: Bounds{35, 55}, Developing: Bounds{25, 65}},

		{Metric: MetricKneeAngle, Unit: "deg", Curve: CurveRange,
			Optimal: Bounds{145, 170}, Developing: Bounds{130, 180}},
		{Metric: MetricAnkleAngle, Unit: "deg", Curve: CurveRange,
			Optimal: Bounds{5, 20}, Developing: Bounds{0, 30}},
		{Metric: MetricDecelerationRate, Unit: "m/s2", Curve: CurveRange,
			Optimal: Bounds{10, 15}, Developing: Bounds{6, 20}},

		{Metric: MetricCOMVertical, Unit: "cm", Curve: CurveRange,
			Optimal: Bounds{0, 5}, Developing: Bounds{0, 10}},
		{Metric: MetricCOMTimingPeak, Unit: "ms", Curve: CurveRange,
			Optimal: Bounds{80, 150}, Developing: Bounds{50, 200}},
		{Metric: MetricBackFootLift, Unit: "ms", Curve: CurveRange,
			Optimal: Bounds{50, 120}, Developing: Bounds{20, 180}},
		{Metric: MetricCOMAccelPeak, Unit: "m/s2", Curve: CurveOneSided, Floor: 2, Elite: 6,
			Optimal: Bounds{6, inf}, Developing: Bounds{4, inf}},

		{Metric: MetricLoadDuration, Unit: "ms", Curve: CurveDeviation, Target: 600,
			Optimal: Bounds{450, 750}, Developing: Bounds{300, 1000}},
		{Metric: MetricFireDuration, Unit: "ms", Curve: CurveDeviation, Target: 200,
			Optimal: Bounds{150, 250}, Developing: Bounds{100, 350}},
	}
	byName := make(map[string]ScoreRange, len(ranges))
	for _, r := range ranges {
		byName[r.Metric] = r
	}

	return Tables{
		Ranges: byName,

		MechanicsWeights: Weights{
			{ComponentDirection, 0.35},
			{ComponentTiming, 0.35},
			{ComponentEfficiency, 0.30},
		},
		MechanicsBatSpeedWeights: Weights{
			{ComponentDirection, 0.30},
			{ComponentTiming, 0.30},
			{ComponentEfficiency, 0.25},
			{ComponentBatSpeed, 0.15},
		},
		FrontLegWeights: Weights{
			{ComponentKnee, 0.40},
			{ComponentAnkle, 0.30},
			{ComponentDeceleration, 0.30},
		},
		WeightTransferWeights: Weights{
			{ComponentVertical, 0.25},
			{ComponentTiming, 0.35},
			{ComponentBackFoot, 0.25},
			{ComponentAcceleration, 0.15},
		},

		FiveTier: Scale{
			Name: "five_tier",
			Cuts: []Cut{
				{Min: 90, Tier: TierElite},
				{Min: 80, Tier: TierGood},
				{Min: 65, Tier: TierDeveloping},
				{Min: 50, Tier: TierBeginner},
			},
			Floor: TierCritical,
		},
		MechanicsTier: Scale{
			Name: "mechanics",
			Cuts: []Cut{
				{Min: 90, Tier: TierElite},
				{Min: 75, Tier: TierGood},
				{Min: 60, Tier: TierDeveloping},
			},
			Floor: TierNeedsWork,
		},

		MechanicsBands: Bands{
			{Min: 90, Label: "70-80 mph"},
			{Min: 75, Label: "62-70 mph"},
			{Min: 60, Label: "55-62 mph"},
			{Min: 0, Label: "45-55 mph"},
		},
		FrontLegBands: Bands{
			{Min: 90, Label: "90-100% energy transfer"},
			{Min: 80, Label: "80-90% energy transfer"},
			{Min: 65, Label: "65-80% energy transfer"},
			{Min: 0, Label: "below 65% energy transfer"},
		},
		WeightTransferBands: Bands{
			{Min: 90, Label: "+4-6 mph exit velocity"},
			{Min: 80, Label: "+2-4 mph exit velocity"},
			{Min: 65, Label: "+0-2 mph exit velocity"},
			{Min: 0, Label: "no measurable gain"},
		},

		Phase: PhaseLimits{
			LoadPlausible:      Bounds{200, 1500},
			FirePlausible:      Bounds{80, 450},
			TempoPlausible:     Bounds{0.1, 10},
			ExpectedTolerance:  0.3,
			MinFrames:          5,
			CoilThresholdDeg:   5,
			FootLiftThreshold:  2,
			MinDetectedMarkers: 3,
		},
		Profiles: defaultProfiles(),
	}
}

// Range returns the benchmark for metric.
func (t Tables) Range(metric string) (ScoreRange, bool) {
	r, ok := t.Ranges[metric]
	return r, ok
}

// Metrics returns all metric names in sorted order.
func (t Tables) Metrics() []string {
	names := make([]string, 0, len(t.Ranges))
	for name := range t.Ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every range, weight table and scale.
func (t Tables) Validate() error {
	for _, name := range t.Metrics() {
		if err := t.Ranges[name].Validate(); err != nil {
			return err
		}
	}
	for _, w := range []Weights{t.MechanicsWeights, t.MechanicsBatSpeedWeights, t.FrontLegWeights, t.WeightTransferWeights} {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	for _, s := range []Scale{t.FiveTier, t.MechanicsTier} {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for _, p := range t.Profiles {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns a copy of t with overrides merged in. Unknown metrics and
// overrides that break a range invariant are rejected.
func (t Tables) Apply(overrides map[string]Override) (Tables, error) {
	out := t
	out.Ranges = make(map[string]ScoreRange, len(t.Ranges))
	for k, v := range t.Ranges {
		out.Ranges[k] = v
	}
	out.Profiles = append([]GroundTruthProfile(nil), t.Profiles...)

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r, ok := out.Ranges[name]
		if !ok {
			return Tables{}, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
		}
		r = overrides[name].apply(r)
		if err := r.Validate(); err != nil {
			return Tables{}, err
		}
		out.Ranges[name] = r
	}
	return out, nil
}
