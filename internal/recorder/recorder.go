package recorder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/airtraffic/riskctl/internal/encoding"
)

// Recorder writes assessment envelopes to an NDJSON file
type Recorder struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *encoding.JSONEncoder
	count   int
	mu      sync.Mutex
}

// NewRecorder creates a new recorder, truncating filename
func NewRecorder(filename string) (*Recorder, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording file: %w", err)
	}

	return &Recorder{
		file:    file,
		writer:  bufio.NewWriter(file),
		encoder: encoding.NewJSONEncoder(),
	}, nil
}

// Record writes one envelope followed by a newline
func (r *Recorder) Record(env encoding.Envelope) error {
	data, err := r.encoder.Encode(env)
	if err != nil {
		return fmt.Errorf("failed to encode assessment: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write assessment: %w", err)
	}

	if _, err := r.writer.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	r.count++
	return nil
}

// RecordFromChannel records envelopes until the channel closes or ctx is
// cancelled, then closes the recorder.
func (r *Recorder) RecordFromChannel(ctx context.Context, envelopes <-chan encoding.Envelope, onEntry func()) error {
	for {
		select {
		case <-ctx.Done():
			return r.Close()
		case env, ok := <-envelopes:
			if !ok {
				return r.Close()
			}
			if err := r.Record(env); err != nil {
				return err
			}
			if onEntry != nil {
				onEntry()
			}
		}
	}
}

// Count returns the number of envelopes recorded so far
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Flush flushes the buffer to disk
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writer.Flush()
}

// Close flushes and closes the recorder
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writer.Flush(); err != nil {
		r.file.Close()
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	if err := r.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}
