package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/airtraffic/riskctl/internal/encoding"
	"github.com/airtraffic/riskctl/internal/models"
	"github.com/airtraffic/riskctl/internal/recorder"
)

const fixtureDir = "../../scenarios"

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAssess_Text(t *testing.T) {
	out, _, err := execute(t, "assess", "--id1", "AC100", "--id2", "AC200",
		"--level", "high", "--score", "0.75", "--ttc", "38.5", "--distance", "1500")
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}

	for _, want := range []string{
		"Vehicles:     AC100 -> AC200",
		"Level:        HIGH",
		"Collision in: 38.5s",
		"Action:       Immediate course correction required",
		"Immediate:    yes",
		"Critical:     no",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAssess_NoCollisionPredicted(t *testing.T) {
	out, _, err := execute(t, "assess", "--id1", "A", "--id2", "B", "--level", "low")
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}
	if !strings.Contains(out, "Collision in: none predicted") {
		t.Errorf("expected no predicted collision:\n%s", out)
	}
}

func TestAssess_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "assess", "--id1", "AC100", "--id2", "AC200",
		"--level", "critical", "--score", "0.9", "--run-id", "run-42", "--action", "Climb now")
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}

	env, err := encoding.DecodeJSON([]byte(strings.TrimSpace(out)))
	if err != nil {
		t.Fatalf("decode failed: %v\n%s", err, out)
	}
	if env.RunID != "run-42" || env.Sequence != 1 {
		t.Errorf("unexpected envelope metadata: %+v", env)
	}
	if env.Assessment.RiskLevel != models.RiskLevelCritical {
		t.Errorf("risk_level = %s, want CRITICAL", env.Assessment.RiskLevel)
	}
	if env.Assessment.RecommendedAction != "Climb now" || !env.Assessment.ActionOverridden {
		t.Errorf("expected overridden action, got %q", env.Assessment.RecommendedAction)
	}
}

func TestAssess_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"score above one", []string{"--score=1.5"}, "invalid --score"},
		{"negative ttc", []string{"--ttc=-1"}, "invalid --ttc"},
		{"negative distance", []string{"--distance=-10"}, "invalid --distance"},
		{"negative horizontal", []string{"--horizontal=-0.5"}, "invalid --horizontal"},
		{"infinite distance", []string{"--distance=inf"}, "invalid --distance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"assess", "--id1", "A", "--id2", "B"}, tt.args...)
			out, _, err := execute(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if out != "" {
				t.Errorf("expected no output, got %q", out)
			}
		})
	}
}

func TestAssess_Record(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.ndjson")
	out, _, err := execute(t, "assess", "--id1", "A", "--id2", "B", "--level", "medium", "--out", path)
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}
	if !strings.HasPrefix(out, "#1 RiskAssessment{") {
		t.Errorf("expected text rendering on stdout, got %q", out)
	}
	n, err := recorder.NewReplayer(path).CountEntries()
	if err != nil {
		t.Fatalf("CountEntries: %v", err)
	}
	if n != 1 {
		t.Errorf("recorded %d entries, want 1", n)
	}
}

func TestAssess_UnknownLevel(t *testing.T) {
	if _, _, err := execute(t, "assess", "--id1", "A", "--id2", "B", "--level", "severe"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestAssess_RequiresIDs(t *testing.T) {
	if _, _, err := execute(t, "assess", "--id1", "A"); err == nil {
		t.Error("expected error when --id2 is missing")
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, _, err := execute(t, "--format", "xml", "table"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTable(t *testing.T) {
	out, _, err := execute(t, "table")
	if err != nil {
		t.Fatalf("table failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "  UNSET") {
		t.Errorf("first row = %q", lines[0])
	}
	if !strings.HasPrefix(lines[4], "! CRITICAL") || !strings.Contains(lines[4], "EMERGENCY") {
		t.Errorf("last row = %q", lines[4])
	}
	if strings.HasPrefix(lines[2], "!") {
		t.Errorf("MEDIUM should not require immediate action: %q", lines[2])
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, encoding.SchemaVersion) {
		t.Errorf("expected schema version in output:\n%s", out)
	}
}

func TestScenarioList(t *testing.T) {
	out, _, err := execute(t, "scenario", "list", "--dir", fixtureDir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, name := range []string{"converging", "parallel", "deescalation"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %s in list:\n%s", name, out)
		}
	}
}

func TestScenarioDescribe(t *testing.T) {
	out, _, err := execute(t, "scenario", "describe", "converging", "--dir", fixtureDir)
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	if !strings.Contains(out, "Scenario: converging") {
		t.Errorf("unexpected describe output:\n%s", out)
	}
	if !strings.Contains(out, "-> critical") {
		t.Errorf("expected updates in describe output:\n%s", out)
	}
}

func TestScenarioDescribe_NotFound(t *testing.T) {
	if _, _, err := execute(t, "scenario", "describe", "missing", "--dir", fixtureDir); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestScenarioRunAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "converging.ndjson")

	out, _, err := execute(t, "--format", "json", "scenario", "run", "converging",
		"--dir", fixtureDir, "--out", path)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	streamed := strings.Split(strings.TrimSpace(out), "\n")
	n, err := recorder.NewReplayer(path).CountEntries()
	if err != nil {
		t.Fatalf("CountEntries: %v", err)
	}
	if n == 0 || n != len(streamed) {
		t.Fatalf("recorded %d entries, streamed %d", n, len(streamed))
	}

	last, err := encoding.DecodeJSON([]byte(streamed[len(streamed)-1]))
	if err != nil {
		t.Fatalf("decode last step: %v", err)
	}
	if last.Sequence != int64(n) {
		t.Errorf("last sequence = %d, want %d", last.Sequence, n)
	}

	replayed, summary, err := execute(t, "replay", path)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(replayed), "\n")
	if len(lines) != n {
		t.Errorf("replayed %d lines, want %d", len(lines), n)
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "#") || !strings.Contains(line, "RiskAssessment{") {
			t.Errorf("line %d: unexpected text rendering %q", i+1, line)
		}
	}
	if !strings.Contains(summary, "CRITICAL") || !strings.Contains(summary, "Immediate:") {
		t.Errorf("expected level summary on stderr:\n%s", summary)
	}
}

func TestReplay_MissingFile(t *testing.T) {
	if _, _, err := execute(t, "replay", filepath.Join(t.TempDir(), "none.ndjson")); err == nil {
		t.Error("expected error for missing recording")
	}
}
