package models

import (
	"fmt"
	"strings"
)

// RiskLevel is the ordinal category of collision danger.
// The zero value is RiskLevelUnset, meaning no assessment has been made.
type RiskLevel int

const (
	RiskLevelUnset RiskLevel = iota
	RiskLevelLow
	RiskLevelMedium
	RiskLevelHigh
	RiskLevelCritical
)

var levelNames = map[RiskLevel]string{
	RiskLevelUnset:    "UNSET",
	RiskLevelLow:      "LOW",
	RiskLevelMedium:   "MEDIUM",
	RiskLevelHigh:     "HIGH",
	RiskLevelCritical: "CRITICAL",
}

// Levels returns the set levels in ascending order of danger
func Levels() []RiskLevel {
	return []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical}
}

func (l RiskLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("RiskLevel(%d)", int(l))
}

// ParseRiskLevel parses a level name case-insensitively.
// "", "none", "null" and "unset" all map to RiskLevelUnset.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE", "NULL", "UNSET":
		return RiskLevelUnset, nil
	case "LOW":
		return RiskLevelLow, nil
	case "MEDIUM":
		return RiskLevelMedium, nil
	case "HIGH":
		return RiskLevelHigh, nil
	case "CRITICAL":
		return RiskLevelCritical, nil
	}
	return RiskLevelUnset, &ValidationError{
		Field:   "risk_level",
		Message: fmt.Sprintf("unknown level %q", s),
	}
}

// MarshalText implements encoding.TextMarshaler
func (l RiskLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *RiskLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ActionFor returns the recommended action for a risk level.
// It is total: levels outside the known set get a generic fallback.
func ActionFor(level RiskLevel) string {
	switch level {
	case RiskLevelUnset:
		return "No action required"
	case RiskLevelLow:
		return "Continue monitoring"
	case RiskLevelMedium:
		return "Increase separation distance"
	case RiskLevelHigh:
		return "Immediate course correction required"
	case RiskLevelCritical:
		return "EMERGENCY: Immediate evasive action required"
	default:
		return "Monitor situation"
	}
}
