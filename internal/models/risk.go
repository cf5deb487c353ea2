package models

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
)

// NoCollisionPredicted is the time-to-collision sentinel meaning no
// collision is currently predicted.
var NoCollisionPredicted = math.Inf(1)

// RiskAssessment is a point-in-time collision risk judgment between two
// vehicles. The recommended action is derived from the risk level on every
// read, so the two cannot disagree unless SetRecommendedAction was used.
//
// A RiskAssessment is not safe for concurrent mutation. Guard it with a
// single lock, or give each goroutine its own Clone.
type RiskAssessment struct {
	vehicleID1         string
	vehicleID2         string
	riskLevel          RiskLevel
	riskScore          float64
	timeToCollision    float64
	currentDistance    float64
	horizontalDistance float64
	verticalDistance   float64
	actionOverride     *string
	detectedAt         time.Time
}

// NewEmptyRiskAssessment creates an assessment detected now with no level,
// zero score and distances, and no predicted collision.
func NewEmptyRiskAssessment() *RiskAssessment {
	return &RiskAssessment{
		riskScore:       0.0,
		timeToCollision: NoCollisionPredicted,
		detectedAt:      time.Now().Round(0),
	}
}

// NewRiskAssessment creates an assessment for a vehicle pair detected now.
// The score is stored as given and is not range checked here; use
// SetRiskScore for a validated write.
func NewRiskAssessment(vehicleID1, vehicleID2 string, level RiskLevel, score float64) *RiskAssessment {
	a := NewEmptyRiskAssessment()
	a.vehicleID1 = vehicleID1
	a.vehicleID2 = vehicleID2
	a.riskLevel = level
	a.riskScore = score
	return a
}

// NewRiskAssessmentAt is NewRiskAssessment with an explicit detection time
func NewRiskAssessmentAt(vehicleID1, vehicleID2 string, level RiskLevel, score float64, detectedAt time.Time) *RiskAssessment {
	a := NewRiskAssessment(vehicleID1, vehicleID2, level, score)
	a.SetDetectedAt(detectedAt)
	return a
}

func (a *RiskAssessment) VehicleID1() string          { return a.vehicleID1 }
func (a *RiskAssessment) VehicleID2() string          { return a.vehicleID2 }
func (a *RiskAssessment) RiskLevel() RiskLevel        { return a.riskLevel }
func (a *RiskAssessment) RiskScore() float64          { return a.riskScore }
func (a *RiskAssessment) CurrentDistance() float64    { return a.currentDistance }
func (a *RiskAssessment) HorizontalDistance() float64 { return a.horizontalDistance }
func (a *RiskAssessment) VerticalDistance() float64   { return a.verticalDistance }
func (a *RiskAssessment) DetectedAt() time.Time       { return a.detectedAt }

// EstimatedTimeToCollision returns seconds until closest approach, or
// NoCollisionPredicted.
func (a *RiskAssessment) EstimatedTimeToCollision() float64 { return a.timeToCollision }

// HasPredictedCollision reports whether a finite time to collision is set
func (a *RiskAssessment) HasPredictedCollision() bool {
	return !math.IsInf(a.timeToCollision, 1)
}

// RecommendedAction returns the action for the current level, or the
// override set by SetRecommendedAction if one is active.
func (a *RiskAssessment) RecommendedAction() string {
	if a.actionOverride != nil {
		return *a.actionOverride
	}
	return ActionFor(a.riskLevel)
}

// SetRiskLevel changes the level and re-derives the recommended action,
// discarding any override.
func (a *RiskAssessment) SetRiskLevel(level RiskLevel) {
	a.riskLevel = level
	a.actionOverride = nil
}

// SetRecommendedAction overrides the derived action. The override breaks
// the level/action correspondence until the next SetRiskLevel call.
func (a *RiskAssessment) SetRecommendedAction(action string) {
	a.actionOverride = &action
}

// SetRiskScore stores score if it lies in [0, 1].
func (a *RiskAssessment) SetRiskScore(score float64) error {
	if !(score >= 0.0 && score <= 1.0) {
		return &ValidationError{Field: "risk_score", Value: score, Message: "must be between 0.0 and 1.0"}
	}
	a.riskScore = score
	return nil
}

// SetEstimatedTimeToCollision stores seconds if non-negative.
// NoCollisionPredicted is accepted.
func (a *RiskAssessment) SetEstimatedTimeToCollision(seconds float64) error {
	if !(seconds >= 0) {
		return &ValidationError{Field: "estimated_time_to_collision", Value: seconds, Message: "cannot be negative"}
	}
	a.timeToCollision = seconds
	return nil
}

// SetCurrentDistance stores meters if finite and non-negative.
func (a *RiskAssessment) SetCurrentDistance(meters float64) error {
	if !(meters >= 0) {
		return &ValidationError{Field: "current_distance", Value: meters, Message: "cannot be negative"}
	}
	if math.IsInf(meters, 1) {
		return &ValidationError{Field: "current_distance", Value: meters, Message: "must be finite"}
	}
	a.currentDistance = meters
	return nil
}

// SetHorizontalDistance stores meters if finite and non-negative.
func (a *RiskAssessment) SetHorizontalDistance(meters float64) error {
	if !(meters >= 0) {
		return &ValidationError{Field: "horizontal_distance", Value: meters, Message: "cannot be negative"}
	}
	if math.IsInf(meters, 1) {
		return &ValidationError{Field: "horizontal_distance", Value: meters, Message: "must be finite"}
	}
	a.horizontalDistance = meters
	return nil
}

// SetVerticalDistance stores the signed altitude difference
func (a *RiskAssessment) SetVerticalDistance(meters float64) {
	a.verticalDistance = meters
}

// SetVehicleIDs replaces the vehicle pair. This changes identity.
func (a *RiskAssessment) SetVehicleIDs(vehicleID1, vehicleID2 string) {
	a.vehicleID1 = vehicleID1
	a.vehicleID2 = vehicleID2
}

// SetDetectedAt replaces the detection time. This changes identity.
// The monotonic clock reading is dropped; identity compares wall instants.
func (a *RiskAssessment) SetDetectedAt(t time.Time) {
	a.detectedAt = t.Round(0)
}

// IsCritical reports whether the level is critical
func (a *RiskAssessment) IsCritical() bool {
	return a.riskLevel == RiskLevelCritical
}

// RequiresImmediateAction reports whether the level is high or critical
func (a *RiskAssessment) RequiresImmediateAction() bool {
	return a.riskLevel == RiskLevelHigh || a.riskLevel == RiskLevelCritical
}

// Clone returns an independent copy
func (a *RiskAssessment) Clone() *RiskAssessment {
	c := *a
	if a.actionOverride != nil {
		action := *a.actionOverride
		c.actionOverride = &action
	}
	return &c
}

// Identity is the comparable identity of an assessment: the ordered vehicle
// pair and the detection instant. Use it as a map key.
type Identity struct {
	VehicleID1 string
	VehicleID2 string
	Seconds    int64
	Nanos      int32
}

// Key returns the identity of a. Two assessments have the same key iff
// they are Equal.
func (a *RiskAssessment) Key() Identity {
	return Identity{
		VehicleID1: a.vehicleID1,
		VehicleID2: a.vehicleID2,
		Seconds:    a.detectedAt.Unix(),
		Nanos:      int32(a.detectedAt.Nanosecond()),
	}
}

// Equal reports whether a and other record the same vehicle pair, in the
// same order, at the same instant. Risk fields are not compared.
func (a *RiskAssessment) Equal(other *RiskAssessment) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	return a.vehicleID1 == other.vehicleID1 &&
		a.vehicleID2 == other.vehicleID2 &&
		a.detectedAt.Equal(other.detectedAt)
}

// Hash combines the identity fields; equal assessments hash identically.
func (a *RiskAssessment) Hash() uint64 {
	k := a.Key()
	d := xxhash.New()
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(len(k.VehicleID1)))
	_, _ = d.Write(buf[:4])
	_, _ = d.WriteString(k.VehicleID1)
	binary.BigEndian.PutUint32(buf[:4], uint32(len(k.VehicleID2)))
	_, _ = d.Write(buf[:4])
	_, _ = d.WriteString(k.VehicleID2)
	binary.BigEndian.PutUint64(buf[:8], uint64(k.Seconds))
	binary.BigEndian.PutUint32(buf[8:], uint32(k.Nanos))
	_, _ = d.Write(buf[:])
	return d.Sum64()
}

// String renders the principal fields for diagnostic logs
func (a *RiskAssessment) String() string {
	return a.Record().String()
}
