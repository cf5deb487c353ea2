package output

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/airtraffic/riskctl/internal/encoding"
	"github.com/airtraffic/riskctl/internal/recorder"
)

// Writer defines the interface for assessment output writers
type Writer interface {
	Write(env encoding.Envelope) error
	Close() error
}

// StreamWriter writes one encoded envelope per line to an io.Writer.
// Protobuf output is base64 encoded so lines stay printable.
type StreamWriter struct {
	out     io.Writer
	format  encoding.Format
	encoder encoding.Encoder
	mu      sync.Mutex
}

// NewStreamWriter creates a new stream writer
func NewStreamWriter(out io.Writer, format encoding.Format) *StreamWriter {
	return &StreamWriter{
		out:     out,
		format:  format,
		encoder: encoding.NewEncoder(format),
	}
}

// Write encodes and writes env followed by a newline
func (w *StreamWriter) Write(env encoding.Envelope) error {
	data, err := w.encoder.Encode(env)
	if err != nil {
		return fmt.Errorf("failed to encode assessment: %w", err)
	}
	if w.format == encoding.FormatProtobuf {
		data = []byte(base64.StdEncoding.EncodeToString(data))
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.out.Write(data)
	return err
}

// Close is a no-op for stream writer
func (w *StreamWriter) Close() error {
	return nil
}

// RecordingWriter appends envelopes to an NDJSON recording
type RecordingWriter struct {
	rec *recorder.Recorder
}

// NewRecordingWriter creates the recording file at path
func NewRecordingWriter(path string) (*RecordingWriter, error) {
	rec, err := recorder.NewRecorder(path)
	if err != nil {
		return nil, err
	}
	return &RecordingWriter{rec: rec}, nil
}

func (w *RecordingWriter) Write(env encoding.Envelope) error {
	return w.rec.Record(env)
}

// Count returns the number of envelopes recorded
func (w *RecordingWriter) Count() int {
	return w.rec.Count()
}

// Close flushes and closes the recording
func (w *RecordingWriter) Close() error {
	return w.rec.Close()
}

// MultiWriter writes to multiple destinations
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a writer that writes to multiple destinations
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes to all underlying writers
func (w *MultiWriter) Write(env encoding.Envelope) error {
	for _, writer := range w.writers {
		if err := writer.Write(env); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every underlying writer, even after a failure, and
// returns the joined errors
func (w *MultiWriter) Close() error {
	var errs []error
	for _, writer := range w.writers {
		if err := writer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
