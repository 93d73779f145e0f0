// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/swingiq/internal/domain/phase"
	"github.com/okian/swingiq/internal/domain/quality"
	"github.com/okian/swingiq/internal/domain/scoring"
	"github.com/okian/swingiq/internal/domain/sequence"
)

// Source names where a swing record's measurements came from.
type Source string

// Record sources.
const (
	SourcePose   Source = "pose"   // pose-estimation pipeline
	SourceReport Source = "report" // parsed motion-capture report
	SourceManual Source = "manual" // hand-entered sensor values
)

// Metrics are the per-swing measurements. Every field is optional; a nil
// value is scored as not assessed.
type Metrics struct {
	AttackAngle           *float64 `json:"attack_angle,omitempty" yaml:"attack_angle,omitempty"`
	TempoRatio            *float64 `json:"tempo_ratio,omitempty" yaml:"tempo_ratio,omitempty"`
	PelvisVelocity        *float64 `json:"pelvis_rotation_velocity,omitempty" yaml:"pelvis_rotation_velocity,omitempty"`
	TorsoVelocity         *float64 `json:"torso_rotation_velocity,omitempty" yaml:"torso_rotation_velocity,omitempty"`
	BatSpeed              *float64 `json:"bat_speed,omitempty" yaml:"bat_speed,omitempty"`
	XFactor               *float64 `json:"x_factor,omitempty" yaml:"x_factor,omitempty"`
	HipShoulderSeparation *float64 `json:"hip_shoulder_separation,omitempty" yaml:"hip_shoulder_separation,omitempty"`
	KneeAngle             *float64 `json:"knee_angle,omitempty" yaml:"knee_angle,omitempty"`
	AnkleAngle            *float64 `json:"ankle_angle,omitempty" yaml:"ankle_angle,omitempty"`
	DecelerationRate      *float64 `json:"deceleration_rate,omitempty" yaml:"deceleration_rate,omitempty"`
	COMVertical           *float64 `json:"com_vertical_movement,omitempty" yaml:"com_vertical_movement,omitempty"`
	COMTimingPeak         *float64 `json:"com_timing_peak,omitempty" yaml:"com_timing_peak,omitempty"`
	BackFootLift          *float64 `json:"back_foot_lift,omitempty" yaml:"back_foot_lift,omitempty"`
	COMAccelPeak          *float64 `json:"com_acceleration_peak,omitempty" yaml:"com_acceleration_peak,omitempty"`
}

// SwingRecord is one swing submitted for analysis.
type SwingRecord struct {
	AnalysisID string                `json:"analysis_id" yaml:"analysis_id"` // unique id for idempotency
	AthleteID  string                `json:"athlete_id" yaml:"athlete_id"`
	Source     Source                `json:"source" yaml:"source"`
	CapturedAt time.Time             `json:"captured_at" yaml:"captured_at"`
	Profile    string                `json:"profile,omitempty" yaml:"profile,omitempty"` // ground-truth profile for phase validation
	Metrics    Metrics               `json:"metrics" yaml:"metrics"`
	Markers    *phase.Markers        `json:"markers,omitempty" yaml:"markers,omitempty"`
	Sequence   *sequence.Timings     `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Pose       *phase.PoseTimeSeries `json:"pose,omitempty" yaml:"pose,omitempty"`
}

// Validate checks the fields every record needs. An empty source defaults
// to manual.
func (r *SwingRecord) Validate() error {
	r.AthleteID = strings.TrimSpace(r.AthleteID)
	if r.AthleteID == "" {
		return fmt.Errorf("%w: athlete_id is required", ErrInvalidRecord)
	}
	switch r.Source {
	case "":
		r.Source = SourceManual
	case SourcePose, SourceReport, SourceManual:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidRecord, r.Source)
	}
	return nil
}

// SwingAnalysis is the stored result of analyzing one SwingRecord.
type SwingAnalysis struct {
	AnalysisID     string                            `json:"analysis_id"`
	AthleteID      string                            `json:"athlete_id"`
	Source         Source                            `json:"source"`
	Profile        string                            `json:"profile,omitempty"`
	CapturedAt     time.Time                         `json:"captured_at"`
	AnalyzedAt     time.Time                         `json:"analyzed_at"`
	TempoRatio     *float64                          `json:"tempo_ratio,omitempty"`
	Mechanics      quality.Assessment                `json:"swing_mechanics"`
	FrontLeg       quality.Assessment                `json:"front_leg_stability"`
	WeightTransfer quality.Assessment                `json:"weight_transfer"`
	Rotation       map[string]scoring.ComponentScore `json:"rotation"`
	Sequence       *sequence.Analysis                `json:"sequence,omitempty"`
	Detection      *phase.Detection                  `json:"phase_detection,omitempty"`
	Validation     *phase.ValidationReport           `json:"phase_validation,omitempty"`
	NotAssessed    []string                          `json:"not_assessed"`
}
