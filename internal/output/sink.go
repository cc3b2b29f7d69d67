// Package output writes the final validator load records as JSON.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thep2p/validator-load/internal/model"
)

// ErrOutputWrite is returned when the destination cannot be written.
var ErrOutputWrite = errors.New("could not write output")

// Sink serializes records to a single destination.
type Sink struct {
	path string
	w    io.Writer
}

// NewFileSink returns a sink that truncates and overwrites the file at path.
func NewFileSink(path string) *Sink {
	return &Sink{path: path}
}

// NewWriterSink returns a sink that writes to w, typically standard output.
func NewWriterSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Destination describes where the sink writes.
func (s *Sink) Destination() string {
	if s.path != "" {
		return s.path
	}
	return "stdout"
}

// Emit encodes records as one JSON array and writes it in a single call.
//
// Write failures wrap ErrOutputWrite.
func (s *Sink) Emit(records []model.LoadRecord) error {
	if records == nil {
		records = []model.LoadRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	if s.path != "" {
		if err := os.WriteFile(s.path, data, 0o644); err != nil {
			return fmt.Errorf("%w: %w", ErrOutputWrite, err)
		}
		return nil
	}

	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}
