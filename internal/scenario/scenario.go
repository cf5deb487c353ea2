package scenario

import (
	"fmt"
	"time"

	"github.com/airtraffic/riskctl/internal/models"
)

// Scenario is a named set of assessment fixtures
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Assessments []AssessmentSpec `yaml:"assessments"`
}

// AssessmentSpec describes one assessment and the level revisions applied
// to it afterwards.
type AssessmentSpec struct {
	Vehicle1           string   `yaml:"vehicle1"`
	Vehicle2           string   `yaml:"vehicle2"`
	Level              string   `yaml:"level"`
	Score              float64  `yaml:"score"`
	TimeToCollision    *float64 `yaml:"time_to_collision,omitempty"` // seconds; omitted = none predicted
	CurrentDistance    float64  `yaml:"current_distance"`
	HorizontalDistance float64  `yaml:"horizontal_distance"`
	VerticalDistance   float64  `yaml:"vertical_distance"`
	DetectedAt         string   `yaml:"detected_at,omitempty"` // RFC3339
	Action             string   `yaml:"action,omitempty"`      // override
	Updates            []Update `yaml:"updates,omitempty"`
}

// Update revises the level of an assessment. After is the delay since the
// previous update, or since detection for the first one.
type Update struct {
	After string `yaml:"after"` // e.g. "15s"
	Level string `yaml:"level"`
}

// Pair returns a printable vehicle pair label
func (s AssessmentSpec) Pair() string {
	return s.Vehicle1 + "/" + s.Vehicle2
}

// Build constructs the assessment. Every numeric value goes through its
// validating setter, so a fixture with an out-of-range score fails here.
// base is used as the detection time when DetectedAt is empty.
func (s AssessmentSpec) Build(base time.Time) (*models.RiskAssessment, error) {
	level, err := models.ParseRiskLevel(s.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Pair(), err)
	}

	detectedAt := base
	if s.DetectedAt != "" {
		detectedAt, err = time.Parse(time.RFC3339, s.DetectedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid detected_at: %w", s.Pair(), err)
		}
	}

	a := models.NewRiskAssessmentAt(s.Vehicle1, s.Vehicle2, level, 0, detectedAt)
	if err := a.SetRiskScore(s.Score); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Pair(), err)
	}
	if s.TimeToCollision != nil {
		if err := a.SetEstimatedTimeToCollision(*s.TimeToCollision); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Pair(), err)
		}
	}
	if err := a.SetCurrentDistance(s.CurrentDistance); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Pair(), err)
	}
	if err := a.SetHorizontalDistance(s.HorizontalDistance); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Pair(), err)
	}
	a.SetVerticalDistance(s.VerticalDistance)
	if s.Action != "" {
		a.SetRecommendedAction(s.Action)
	}
	return a, nil
}

// Validate builds every assessment and parses every update, returning the
// first problem found.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	for i, spec := range s.Assessments {
		if _, err := spec.Build(time.Time{}); err != nil {
			return fmt.Errorf("assessments[%d]: %w", i, err)
		}
		for j, u := range spec.Updates {
			if _, err := u.parse(); err != nil {
				return fmt.Errorf("assessments[%d] updates[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

func (u Update) parse() (time.Duration, error) {
	if _, err := models.ParseRiskLevel(u.Level); err != nil {
		return 0, err
	}
	if u.After == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(u.After)
	if err != nil {
		return 0, fmt.Errorf("invalid after %q: %w", u.After, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("after %q cannot be negative", u.After)
	}
	return d, nil
}
