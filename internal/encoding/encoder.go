package encoding

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/airtraffic/riskctl/internal/models"
)

// SchemaVersion identifies the envelope layout
const SchemaVersion = "riskctl.assessment.v1"

// Format represents the encoding format
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatProtobuf Format = "protobuf"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatProtobuf:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or protobuf)", s)
}

// Envelope wraps an assessment record with run metadata
type Envelope struct {
	SchemaVersion string        `json:"schema_version"`
	RunID         string        `json:"run_id"`
	Sequence      int64         `json:"sequence"`
	Assessment    models.Record `json:"assessment"`
}

// NewEnvelope creates an envelope for a
func NewEnvelope(runID string, sequence int64, a *models.RiskAssessment) Envelope {
	return Envelope{
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		Sequence:      sequence,
		Assessment:    a.Record(),
	}
}

// RiskAssessment rebuilds the validated assessment carried by e
func (e Envelope) RiskAssessment() (*models.RiskAssessment, error) {
	return models.FromRecord(e.Assessment)
}

// Encoder encodes envelopes to bytes
type Encoder interface {
	Encode(env Envelope) ([]byte, error)
	ContentType() string
}

// JSONEncoder encodes envelopes as JSON
type JSONEncoder struct{}

func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

func (e *JSONEncoder) Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

func (e *JSONEncoder) ContentType() string {
	return "application/json"
}

// DecodeJSON parses a JSON envelope
func DecodeJSON(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env.SchemaVersion != SchemaVersion {
		return Envelope{}, fmt.Errorf("unsupported schema version %q", env.SchemaVersion)
	}
	return env, nil
}

// TextEncoder renders the diagnostic one-line form
type TextEncoder struct{}

func NewTextEncoder() *TextEncoder {
	return &TextEncoder{}
}

// Encode renders straight from the record and never fails
func (e *TextEncoder) Encode(env Envelope) ([]byte, error) {
	return []byte(fmt.Sprintf("#%d %s", env.Sequence, env.Assessment)), nil
}

func (e *TextEncoder) ContentType() string {
	return "text/plain"
}

// NewEncoder creates an encoder for the given format
func NewEncoder(format Format) Encoder {
	switch format {
	case FormatProtobuf:
		return NewProtobufEncoder()
	case FormatText:
		return NewTextEncoder()
	default:
		return NewJSONEncoder()
	}
}
