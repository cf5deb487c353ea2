package recorder

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/airtraffic/riskctl/internal/encoding"
	"github.com/airtraffic/riskctl/internal/models"
)

// Replayer reads assessments back from an NDJSON recording
type Replayer struct {
	filename   string
	entryCount int
	first      *encoding.Envelope
	loaded     bool
}

// NewReplayer creates a new replayer
func NewReplayer(filename string) *Replayer {
	return &Replayer{filename: filename}
}

// loadMetadata reads the file once to cache count and first entry
func (r *Replayer) loadMetadata() error {
	if r.loaded {
		return nil
	}

	file, err := os.Open(r.filename)
	if err != nil {
		return fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	r.entryCount = 0

	for scanner.Scan() {
		r.entryCount++
		if r.entryCount == 1 {
			env, err := encoding.DecodeJSON(scanner.Bytes())
			if err != nil {
				return fmt.Errorf("failed to parse first entry: %w", err)
			}
			r.first = &env
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	r.loaded = true
	return nil
}

// Replay sends every recorded assessment to output in file order. Each
// record is re-validated; an invalid line stops the replay.
func (r *Replayer) Replay(ctx context.Context, output chan<- *models.RiskAssessment) error {
	file, err := os.Open(r.filename)
	if err != nil {
		return fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		env, err := encoding.DecodeJSON(scanner.Bytes())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		a, err := env.RiskAssessment()
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case output <- a:
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	return nil
}

// CountEntries returns the number of entries in the recording
func (r *Replayer) CountEntries() (int, error) {
	if err := r.loadMetadata(); err != nil {
		return 0, err
	}
	return r.entryCount, nil
}

// First returns the first envelope in the recording
func (r *Replayer) First() (*encoding.Envelope, error) {
	if err := r.loadMetadata(); err != nil {
		return nil, err
	}
	if r.first == nil {
		return nil, fmt.Errorf("recording file is empty")
	}
	return r.first, nil
}
