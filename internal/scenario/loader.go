package scenario

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry holds all loaded scenarios
type Registry struct {
	scenarios map[string]*Scenario
}

// NewRegistry creates a new scenario registry
func NewRegistry() *Registry {
	return &Registry{
		scenarios: make(map[string]*Scenario),
	}
}

// LoadFromFile loads a scenario from a YAML file
func (r *Registry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scenario file: %w", err)
	}
	return r.LoadFromBytes(data)
}

// LoadFromBytes parses and validates one YAML scenario document
func (r *Registry) LoadFromBytes(data []byte) error {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return fmt.Errorf("invalid scenario %q: %w", scenario.Name, err)
	}

	r.scenarios[scenario.Name] = &scenario
	slog.Debug("scenario loaded", "scenario", scenario.Name, "assessments", len(scenario.Assessments))
	return nil
}

// LoadFromDir loads all scenarios from a directory
func (r *Registry) LoadFromDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".yaml") && !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := r.LoadFromFile(path); err != nil {
			return fmt.Errorf("failed to load scenario from %s: %w", path, err)
		}
	}

	return nil
}

// Get retrieves a scenario by name
func (r *Registry) Get(name string) (*Scenario, error) {
	scenario, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario '%s' not found", name)
	}
	return scenario, nil
}

// List returns all scenario names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListWithDescriptions returns all scenarios with their descriptions
func (r *Registry) ListWithDescriptions() map[string]string {
	result := make(map[string]string)
	for name, scenario := range r.scenarios {
		result[name] = scenario.Description
	}
	return result
}
