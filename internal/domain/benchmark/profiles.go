package benchmark

import (
	"fmt"
	"strings"
)

// ReferenceSwing holds a profile's reference timing markers in milliseconds
// before contact.
type ReferenceSwing struct {
	LoadStart  float64 `json:"load_start"`
	FireStart  float64 `json:"fire_start"`
	PelvisPeak float64 `json:"pelvis_peak"`
}

// GroundTruthProfile is a named reference hitter used to grade phase detection.
type GroundTruthProfile struct {
	Name          string         `json:"name"`
	PlayerType    string         `json:"player_type"`
	TempoRange    Bounds         `json:"tempo_range"`
	ExpectedTempo float64        `json:"expected_tempo"`
	Reference     ReferenceSwing `json:"reference"`
}

// Validate requires a finite tempo range that contains the expected tempo.
func (p GroundTruthProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: profile without a name", ErrInvalidRange)
	}
	if !(p.TempoRange.Min > 0) || p.TempoRange.Min > p.TempoRange.Max {
		return fmt.Errorf("%w: profile %s tempo range is invalid", ErrInvalidRange, p.Name)
	}
	if !p.TempoRange.Contains(p.ExpectedTempo) {
		return fmt.Errorf("%w: profile %s expected tempo outside its range", ErrInvalidRange, p.Name)
	}
	return nil
}

func defaultProfiles() []GroundTruthProfile {
	return []GroundTruthProfile{
		{
			Name:          "Freeman",
			PlayerType:    "elite contact hitter",
			TempoRange:    Bounds{2.2, 2.8},
			ExpectedTempo: 2.5,
			Reference:     ReferenceSwing{LoadStart: 700, FireStart: 200, PelvisPeak: 120},
		},
		{
			Name:          "Betts",
			PlayerType:    "compact contact hitter",
			TempoRange:    Bounds{2.0, 2.6},
			ExpectedTempo: 2.3,
			Reference:     ReferenceSwing{LoadStart: 594, FireStart: 180, PelvisPeak: 110},
		},
		{
			Name:          "Trout",
			PlayerType:    "power hitter",
			TempoRange:    Bounds{2.6, 3.4},
			ExpectedTempo: 3.0,
			Reference:     ReferenceSwing{LoadStart: 760, FireStart: 190, PelvisPeak: 115},
		},
		{
			Name:          "Judge",
			PlayerType:    "long-lever power hitter",
			TempoRange:    Bounds{2.8, 3.6},
			ExpectedTempo: 3.2,
			Reference:     ReferenceSwing{LoadStart: 882, FireStart: 210, PelvisPeak: 130},
		},
	}
}

// Profile finds a ground-truth profile by case-insensitive name.
func (t Tables) Profile(name string) (GroundTruthProfile, error) {
	for _, p := range t.Profiles {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return GroundTruthProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}
