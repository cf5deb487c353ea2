package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/airtraffic/riskctl/internal/encoding"
	"github.com/airtraffic/riskctl/internal/output"
	"github.com/google/uuid"
)

func getScenarioDir() string {
	// Try current directory first
	if _, err := os.Stat("scenarios"); err == nil {
		return "scenarios"
	}

	// Try relative to executable
	exe, err := os.Executable()
	if err == nil {
		dir := filepath.Join(filepath.Dir(exe), "scenarios")
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}

	// Default to scenarios in current directory
	return "scenarios"
}

func newRunID() string {
	return uuid.New().String()
}

// openWriter returns a stream writer for format, tee'd into an NDJSON
// recording when out is set.
func openWriter(opts *GlobalOptions, stdout io.Writer, out string) (output.Writer, *output.RecordingWriter, error) {
	stream := output.NewStreamWriter(stdout, encoding.Format(opts.Format))
	if out == "" {
		return stream, nil, nil
	}
	rec, err := output.NewRecordingWriter(out)
	if err != nil {
		return nil, nil, err
	}
	return output.NewMultiWriter(stream, rec), rec, nil
}
