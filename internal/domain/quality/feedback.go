package quality

import (
	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/scoring"
)

// Band selects which canned narrative a component receives.
type Band string

// Feedback bands.
const (
	BandOptimal    Band = "optimal"
	BandDeveloping Band = "developing"
	BandNeedsWork  Band = "needs-work"
	BandNA         Band = "n/a"
)

// BandOf maps a component score to its feedback band.
func BandOf(cs scoring.ComponentScore) Band {
	switch cs.Status {
	case scoring.StatusOptimal:
		return BandOptimal
	case scoring.StatusDeveloping:
		return BandDeveloping
	case scoring.StatusNeedsWork:
		return BandNeedsWork
	default:
		return BandNA
	}
}

// FeedbackKey identifies one canned narrative.
type FeedbackKey struct {
	Kind      Kind
	Component string
	Band      Band
}

var narratives = map[FeedbackKey]string{
	{KindSwingMechanics, benchmark.ComponentDirection, BandOptimal}:     "Attack angle matches the pitch plane; the barrel stays in the zone a long time.",
	{KindSwingMechanics, benchmark.ComponentDirection, BandDeveloping}:  "Attack angle is close but slightly off plane; small posture changes will lengthen the barrel's time in the zone.",
	{KindSwingMechanics, benchmark.ComponentDirection, BandNeedsWork}:   "Attack angle is far from the pitch plane, which shortens the contact window.",
	{KindSwingMechanics, benchmark.ComponentTiming, BandOptimal}:        "Load-to-fire tempo is in the elite window.",
	{KindSwingMechanics, benchmark.ComponentTiming, BandDeveloping}:     "Tempo is workable; a steadier load rhythm will sharpen the fire phase.",
	{KindSwingMechanics, benchmark.ComponentTiming, BandNeedsWork}:      "Tempo is out of balance; the load is either rushed or drawn out relative to the fire.",
	{KindSwingMechanics, benchmark.ComponentEfficiency, BandOptimal}:    "Pelvis and torso reach elite rotational speed.",
	{KindSwingMechanics, benchmark.ComponentEfficiency, BandDeveloping}: "Rotational speed is building; more hip drive will raise torso velocity.",
	{KindSwingMechanics, benchmark.ComponentEfficiency, BandNeedsWork}:  "Rotation is slow; the lower half is not generating enough speed for the upper body.",
	{KindSwingMechanics, benchmark.ComponentBatSpeed, BandOptimal}:      "Bat speed is at an elite level.",
	{KindSwingMechanics, benchmark.ComponentBatSpeed, BandDeveloping}:   "Bat speed is solid and has room to grow with better sequencing.",
	{KindSwingMechanics, benchmark.ComponentBatSpeed, BandNeedsWork}:    "Bat speed is below the competitive range.",

	{KindFrontLeg, benchmark.ComponentKnee, BandOptimal}:            "Front knee firms up at contact and blocks rotation well.",
	{KindFrontLeg, benchmark.ComponentKnee, BandDeveloping}:         "Front knee is partly braced; extend it a bit more through contact.",
	{KindFrontLeg, benchmark.ComponentKnee, BandNeedsWork}:          "Front knee collapses or locks out, leaking energy instead of redirecting it.",
	{KindFrontLeg, benchmark.ComponentAnkle, BandOptimal}:           "Front ankle holds a stable position at landing.",
	{KindFrontLeg, benchmark.ComponentAnkle, BandDeveloping}:        "Front ankle rolls slightly at landing.",
	{KindFrontLeg, benchmark.ComponentAnkle, BandNeedsWork}:         "Front ankle is unstable at landing; the base shifts during the swing.",
	{KindFrontLeg, benchmark.ComponentDeceleration, BandOptimal}:    "Forward momentum stops sharply, transferring energy up the chain.",
	{KindFrontLeg, benchmark.ComponentDeceleration, BandDeveloping}: "Deceleration is moderate; a firmer plant will stop the body faster.",
	{KindFrontLeg, benchmark.ComponentDeceleration, BandNeedsWork}:  "The body drifts through contact instead of stopping against the front side.",

	{KindWeightTransfer, benchmark.ComponentVertical, BandOptimal}:        "Center of mass stays level through the stride.",
	{KindWeightTransfer, benchmark.ComponentVertical, BandDeveloping}:     "Some vertical bounce in the stride; keep the head quiet.",
	{KindWeightTransfer, benchmark.ComponentVertical, BandNeedsWork}:      "Large vertical movement disrupts vision and timing.",
	{KindWeightTransfer, benchmark.ComponentTiming, BandOptimal}:          "Forward shift peaks at the right moment before contact.",
	{KindWeightTransfer, benchmark.ComponentTiming, BandDeveloping}:       "Forward shift peaks slightly early or late.",
	{KindWeightTransfer, benchmark.ComponentTiming, BandNeedsWork}:        "Forward shift is mistimed; weight arrives well before or after the bat.",
	{KindWeightTransfer, benchmark.ComponentBackFoot, BandOptimal}:        "Back foot releases on time as the hips fire.",
	{KindWeightTransfer, benchmark.ComponentBackFoot, BandDeveloping}:     "Back foot releases a little off the hip turn.",
	{KindWeightTransfer, benchmark.ComponentBackFoot, BandNeedsWork}:      "Back foot timing works against the hip turn.",
	{KindWeightTransfer, benchmark.ComponentAcceleration, BandOptimal}:    "Strong forward acceleration into the front side.",
	{KindWeightTransfer, benchmark.ComponentAcceleration, BandDeveloping}: "Forward acceleration is moderate.",
	{KindWeightTransfer, benchmark.ComponentAcceleration, BandNeedsWork}:  "Little forward acceleration; the swing is mostly arms.",
}

// naNarrative is shared by every component without a measurement.
const naNarrative = "Not assessed: this measurement was not available for the swing."

// Narrative returns the canned feedback for a component in a band.
func Narrative(kind Kind, component string, band Band) string {
	if band == BandNA {
		return naNarrative
	}
	if text, ok := narratives[FeedbackKey{Kind: kind, Component: component, Band: band}]; ok {
		return text
	}
	switch band {
	case BandOptimal:
		return "On target."
	case BandDeveloping:
		return "Close to target; keep refining."
	default:
		return "Needs focused work."
	}
}

var bottomLines = map[benchmark.Tier]string{
	benchmark.TierElite:      "Elite movement pattern. Maintain it with regular checks.",
	benchmark.TierGood:       "Strong foundation with one or two areas to polish.",
	benchmark.TierDeveloping: "Solid base; targeted drills will move this into the good range.",
	benchmark.TierBeginner:   "Fundamentals are forming. Focus on the recommended drill first.",
	benchmark.TierCritical:   "Major breakdowns are limiting performance. Rebuild this pattern step by step.",
	benchmark.TierNeedsWork:  "Several components need work. Start with the recommended drill.",
}

func bottomLine(kind Kind, tier benchmark.Tier) string {
	prefix := map[Kind]string{
		KindSwingMechanics: "Swing mechanics: ",
		KindFrontLeg:       "Front leg: ",
		KindWeightTransfer: "Weight transfer: ",
	}[kind]
	return prefix + bottomLines[tier]
}

var drills = map[Kind]map[string]string{
	KindSwingMechanics: {
		benchmark.ComponentDirection:  "High-tee line drives: set the tee at the top of the zone and drive the ball on a line to match the pitch plane.",
		benchmark.ComponentTiming:     "Rhythm load drill: count a slow load and a quick fire off soft toss to groove a 3:1 tempo.",
		benchmark.ComponentEfficiency: "Hip-lead med-ball throws: rotate from the ground up and release late.",
		benchmark.ComponentBatSpeed:   "Overload/underload swings: alternate heavy and light bats for short sets.",
	},
	KindFrontLeg: {
		benchmark.ComponentKnee:         "Front-leg block drill: stride to a mark and firm the front knee at launch.",
		benchmark.ComponentAnkle:        "Balance-beam strides: land on a narrow base and hold the finish.",
		benchmark.ComponentDeceleration: "Stop-and-rotate drill: stride into a wall pad and turn against it.",
	},
	KindWeightTransfer: {
		benchmark.ComponentVertical:     "Ceiling drill: stride under a taped line without raising the head.",
		benchmark.ComponentTiming:       "Step-back drill: rock back then forward so the weight shift peaks just before contact.",
		benchmark.ComponentBackFoot:     "Back-heel release drill: let the back heel rise only as the hips open.",
		benchmark.ComponentAcceleration: "Walk-through swings: take a walking start to feel forward momentum.",
	},
}

// Drill returns the drill recommended when component is the weakest.
func Drill(kind Kind, component string) string {
	return drills[kind][component]
}
