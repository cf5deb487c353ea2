package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Float is a float64 that survives JSON when non-finite. +Inf, -Inf and
// NaN are written as the strings "+Inf", "-Inf" and "NaN".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q", s)
		}
		*f = Float(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Record is the exported view of a RiskAssessment for encoders and logs.
// TimeToCollision is nil when no collision is predicted. RiskScore and
// VerticalDistance are Float because neither is guaranteed finite.
type Record struct {
	VehicleID1         string    `json:"vehicle_id_1" yaml:"vehicle_id_1"`
	VehicleID2         string    `json:"vehicle_id_2" yaml:"vehicle_id_2"`
	RiskLevel          RiskLevel `json:"risk_level" yaml:"risk_level"`
	RiskScore          Float     `json:"risk_score" yaml:"risk_score"`
	TimeToCollision    *float64  `json:"time_to_collision_s,omitempty" yaml:"time_to_collision_s,omitempty"`
	CurrentDistance    float64   `json:"current_distance_m" yaml:"current_distance_m"`
	HorizontalDistance float64   `json:"horizontal_distance_m" yaml:"horizontal_distance_m"`
	VerticalDistance   Float     `json:"vertical_distance_m" yaml:"vertical_distance_m"`
	RecommendedAction  string    `json:"recommended_action" yaml:"recommended_action"`
	ActionOverridden   bool      `json:"action_overridden,omitempty" yaml:"action_overridden,omitempty"`
	DetectedAt         time.Time `json:"detected_at" yaml:"detected_at"`
}

// Record returns the exported view of a
func (a *RiskAssessment) Record() Record {
	r := Record{
		VehicleID1:         a.vehicleID1,
		VehicleID2:         a.vehicleID2,
		RiskLevel:          a.riskLevel,
		RiskScore:          Float(a.riskScore),
		CurrentDistance:    a.currentDistance,
		HorizontalDistance: a.horizontalDistance,
		VerticalDistance:   Float(a.verticalDistance),
		RecommendedAction:  a.RecommendedAction(),
		ActionOverridden:   a.actionOverride != nil,
		DetectedAt:         a.detectedAt,
	}
	if a.HasPredictedCollision() {
		ttc := a.timeToCollision
		r.TimeToCollision = &ttc
	}
	return r
}

// FromRecord rebuilds an assessment, passing every constrained value
// through its validating setter. The first rejected value is returned.
// The score is taken as stored, like NewRiskAssessment, so every record
// produced by Record can be rebuilt.
func FromRecord(r Record) (*RiskAssessment, error) {
	a := NewRiskAssessmentAt(r.VehicleID1, r.VehicleID2, r.RiskLevel, float64(r.RiskScore), r.DetectedAt)
	ttc := NoCollisionPredicted
	if r.TimeToCollision != nil {
		ttc = *r.TimeToCollision
	}
	if err := a.SetEstimatedTimeToCollision(ttc); err != nil {
		return nil, err
	}
	if err := a.SetCurrentDistance(r.CurrentDistance); err != nil {
		return nil, err
	}
	if err := a.SetHorizontalDistance(r.HorizontalDistance); err != nil {
		return nil, err
	}
	a.SetVerticalDistance(float64(r.VerticalDistance))
	if r.ActionOverridden {
		a.SetRecommendedAction(r.RecommendedAction)
	}
	return a, nil
}

// String renders the principal fields for diagnostic logs. It never
// fails, whatever values the record carries.
func (r Record) String() string {
	ttc := NoCollisionPredicted
	if r.TimeToCollision != nil {
		ttc = *r.TimeToCollision
	}
	return fmt.Sprintf(
		"RiskAssessment{vehicle1=%q vehicle2=%q level=%s score=%.2f ttc=%gs distance=%.1fm action=%q detected=%s}",
		r.VehicleID1,
		r.VehicleID2,
		r.RiskLevel,
		float64(r.RiskScore),
		ttc,
		r.CurrentDistance,
		r.RecommendedAction,
		r.DetectedAt.Format(time.RFC3339Nano),
	)
}
