package scenario

import (
	"fmt"
	"time"

	"github.com/airtraffic/riskctl/internal/models"
)

// Step is one observable state of an assessment while a scenario runs
type Step struct {
	Index      int // position of the assessment in the scenario
	Elapsed    time.Duration
	Assessment *models.RiskAssessment
}

// Engine steps a scenario's assessments through their level updates
type Engine struct {
	scenario *Scenario
}

// NewEngine creates a new scenario engine
func NewEngine(scenario *Scenario) *Engine {
	return &Engine{scenario: scenario}
}

// Run builds every assessment with base as the default detection time and
// returns each as built followed by one snapshot per update. Updates revise
// the same event record, so identity is shared across an assessment's steps.
func (e *Engine) Run(base time.Time) ([]Step, error) {
	var steps []Step
	for i, spec := range e.scenario.Assessments {
		a, err := spec.Build(base)
		if err != nil {
			return nil, fmt.Errorf("assessments[%d]: %w", i, err)
		}
		steps = append(steps, Step{Index: i, Assessment: a})

		var elapsed time.Duration
		current := a
		for j, u := range spec.Updates {
			after, err := u.parse()
			if err != nil {
				return nil, fmt.Errorf("assessments[%d] updates[%d]: %w", i, j, err)
			}
			level, _ := models.ParseRiskLevel(u.Level)

			elapsed += after
			current = current.Clone()
			current.SetRiskLevel(level)
			steps = append(steps, Step{Index: i, Elapsed: elapsed, Assessment: current})
		}
	}
	return steps, nil
}

// Latest returns the final state of each assessment in steps, keyed by
// identity
func Latest(steps []Step) map[models.Identity]*models.RiskAssessment {
	latest := make(map[models.Identity]*models.RiskAssessment)
	for _, s := range steps {
		latest[s.Assessment.Key()] = s.Assessment
	}
	return latest
}
