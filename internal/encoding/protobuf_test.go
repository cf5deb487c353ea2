package encoding

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/airtraffic/riskctl/internal/models"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var detectedAt = time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC)

func testAssessment() *models.RiskAssessment {
	a := models.NewRiskAssessmentAt("AC100", "AC200", models.RiskLevelHigh, 0.75, detectedAt)
	_ = a.SetEstimatedTimeToCollision(38.5)
	_ = a.SetCurrentDistance(1500)
	_ = a.SetHorizontalDistance(1490)
	a.SetVerticalDistance(-150)
	return a
}

func TestProtobufEncoder_Fields(t *testing.T) {
	enc := NewProtobufEncoder()

	data, err := enc.Encode(NewEnvelope("run-1", 7, testAssessment()))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var pb structpb.Struct
	if err := proto.Unmarshal(data, &pb); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got := pb.Fields["schema_version"].GetStringValue(); got != SchemaVersion {
		t.Errorf("schema version = %q, want %s", got, SchemaVersion)
	}
	if got := pb.Fields["run_id"].GetStringValue(); got != "run-1" {
		t.Errorf("run_id = %q, want run-1", got)
	}
	if got := pb.Fields["sequence"].GetNumberValue(); got != 7 {
		t.Errorf("sequence = %v, want 7", got)
	}

	assessment := pb.Fields["assessment"].GetStructValue()
	if assessment == nil {
		t.Fatal("assessment struct missing")
	}
	if got := assessment.Fields["risk_level"].GetStringValue(); got != "HIGH" {
		t.Errorf("risk_level = %q, want HIGH", got)
	}
	if got := assessment.Fields["time_to_collision_s"].GetNumberValue(); got != 38.5 {
		t.Errorf("time_to_collision_s = %v, want 38.5", got)
	}
	if got := assessment.Fields["vertical_distance_m"].GetNumberValue(); got != -150 {
		t.Errorf("vertical_distance_m = %v, want -150", got)
	}
	if got := assessment.Fields["recommended_action"].GetStringValue(); got != "Immediate course correction required" {
		t.Errorf("recommended_action = %q", got)
	}
}

func TestProtobufEncoder_NoCollisionPredicted(t *testing.T) {
	a := models.NewRiskAssessmentAt("A", "B", models.RiskLevelLow, 0.1, detectedAt)

	data, err := NewProtobufEncoder().Encode(NewEnvelope("run-2", 1, a))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var pb structpb.Struct
	if err := proto.Unmarshal(data, &pb); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := pb.Fields["assessment"].GetStructValue().Fields["time_to_collision_s"]; ok {
		t.Error("expected time_to_collision_s to be absent")
	}
}

func TestDecodeProtobuf_RoundTrip(t *testing.T) {
	original := testAssessment()
	data, err := NewProtobufEncoder().Encode(NewEnvelope("run-3", 2, original))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	env, err := DecodeProtobuf(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if env.RunID != "run-3" || env.Sequence != 2 {
		t.Errorf("metadata mismatch: %+v", env)
	}

	a, err := env.RiskAssessment()
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if !a.Equal(original) {
		t.Errorf("identity mismatch after round trip: %s vs %s", a, original)
	}
	if a.EstimatedTimeToCollision() != 38.5 || a.RiskScore() != 0.75 {
		t.Errorf("values mismatch after round trip: %s", a)
	}
}

func TestJSONEncoder_RoundTrip(t *testing.T) {
	enc := NewEncoder(FormatJSON)
	if enc.ContentType() != "application/json" {
		t.Errorf("content type = %q", enc.ContentType())
	}

	data, err := enc.Encode(NewEnvelope("run-4", 3, testAssessment()))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.Contains(string(data), `"risk_level":"HIGH"`) {
		t.Errorf("expected level name in JSON: %s", data)
	}

	env, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if env.Assessment.VehicleID1 != "AC100" {
		t.Errorf("vehicle_id_1 = %q", env.Assessment.VehicleID1)
	}
}

func TestDecodeJSON_Rejects(t *testing.T) {
	if _, err := DecodeJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := DecodeJSON([]byte(`{"schema_version":"other.v9"}`)); err == nil {
		t.Error("expected error for unknown schema version")
	}
}

func TestTextEncoder(t *testing.T) {
	data, err := NewEncoder(FormatText).Encode(NewEnvelope("run-5", 9, testAssessment()))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	s := string(data)
	if !strings.HasPrefix(s, "#9 RiskAssessment{") {
		t.Errorf("unexpected text rendering: %s", s)
	}
	if !strings.Contains(s, "level=HIGH") {
		t.Errorf("expected level in text rendering: %s", s)
	}
}

func TestEncoders_OutOfRangeScore(t *testing.T) {
	a := models.NewRiskAssessment("AC1", "AC2", models.RiskLevelHigh, 1.5)
	env := NewEnvelope("run", 1, a)

	text, err := NewTextEncoder().Encode(env)
	if err != nil {
		t.Fatalf("text encode failed: %v", err)
	}
	if !strings.Contains(string(text), "score=1.50") {
		t.Errorf("expected stored score in text rendering: %s", text)
	}

	decoders := map[Format]func([]byte) (Envelope, error){
		FormatJSON:     DecodeJSON,
		FormatProtobuf: DecodeProtobuf,
	}
	for format, decode := range decoders {
		data, err := NewEncoder(format).Encode(env)
		if err != nil {
			t.Fatalf("%s encode failed: %v", format, err)
		}
		decoded, err := decode(data)
		if err != nil {
			t.Fatalf("%s decode failed: %v", format, err)
		}
		back, err := decoded.RiskAssessment()
		if err != nil {
			t.Fatalf("%s rebuild failed: %v", format, err)
		}
		if back.RiskScore() != 1.5 {
			t.Errorf("%s: score = %v, want 1.5", format, back.RiskScore())
		}
	}
}

func TestEncoders_NonFiniteVerticalDistance(t *testing.T) {
	a := models.NewRiskAssessmentAt("A", "B", models.RiskLevelLow, 0.2, detectedAt)
	a.SetVerticalDistance(math.Inf(-1))
	env := NewEnvelope("run", 1, a)

	for _, format := range []Format{FormatText, FormatJSON, FormatProtobuf} {
		if _, err := NewEncoder(format).Encode(env); err != nil {
			t.Errorf("%s encode failed: %v", format, err)
		}
	}

	data, err := NewProtobufEncoder().Encode(env)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeProtobuf(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	back, err := decoded.RiskAssessment()
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if !math.IsInf(back.VerticalDistance(), -1) {
		t.Errorf("vertical distance = %v, want -Inf", back.VerticalDistance())
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "JSON", "protobuf"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q): %v", name, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}
