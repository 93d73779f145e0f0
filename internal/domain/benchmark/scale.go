package benchmark

import "fmt"

// Tier is a qualitative bucket for an overall score.
type Tier string

// Tiers used across the scales. Not every scale uses every tier.
const (
	TierElite      Tier = "elite"
	TierGood       Tier = "good"
	TierDeveloping Tier = "developing"
	TierBeginner   Tier = "beginner"
	TierCritical   Tier = "critical"
	TierNeedsWork  Tier = "needs-work"
)

// Cut assigns Tier to scores at or above Min.
type Cut struct {
	Min  float64
	Tier Tier
}

// Scale maps a score onto tiers. Cuts are ordered from highest to lowest.
type Scale struct {
	Name  string
	Cuts  []Cut
	Floor Tier
}

// Classify returns the tier for score.
func (s Scale) Classify(score float64) Tier {
	for _, c := range s.Cuts {
		if score >= c.Min {
			return c.Tier
		}
	}
	return s.Floor
}

// Validate requires strictly descending cuts and a floor tier.
func (s Scale) Validate() error {
	if s.Floor == "" {
		return fmt.Errorf("%w: scale %s has no floor tier", ErrInvalidRange, s.Name)
	}
	for i := 1; i < len(s.Cuts); i++ {
		if s.Cuts[i].Min >= s.Cuts[i-1].Min {
			return fmt.Errorf("%w: scale %s cuts are not descending", ErrInvalidRange, s.Name)
		}
	}
	return nil
}

// Band labels a predicted-output range for scores at or above Min.
type Band struct {
	Min   float64
	Label string
}

// Bands is ordered from highest to lowest Min.
type Bands []Band

// Lookup returns the label of the first band whose Min the score reaches.
// Scores below every band get the last label.
func (b Bands) Lookup(score float64) string {
	if len(b) == 0 {
		return ""
	}
	for _, band := range b {
		if score >= band.Min {
			return band.Label
		}
	}
	return b[len(b)-1].Label
}
