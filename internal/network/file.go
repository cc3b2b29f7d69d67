package network

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/thep2p/validator-load/internal/config"
	"github.com/thep2p/validator-load/internal/model"
)

// FileSource replays a captured validator load result from disk.
//
// The file holds the same JSON array an RPC backend returns. The window is not applied: the
// capture is assumed to already cover the period of interest.
type FileSource struct {
	logger zerolog.Logger
	path   string
}

// NewFileSource returns a source reading records from path on every call.
func NewFileSource(logger zerolog.Logger, path string) *FileSource {
	return &FileSource{
		logger: logger.With().Str("component", "file-load-source").Logger(),
		path:   path,
	}
}

func openFile(_ context.Context, logger zerolog.Logger, cfg config.NetworkConfig) (Source, error) {
	return NewFileSource(logger, cfg.File), nil
}

// ValidatorsLoad decodes the captured records.
func (s *FileSource) ValidatorsLoad(_ context.Context, window model.TimeWindow) ([]model.LoadRecord, error) {
	s.logger.Debug().
		Str("path", s.path).
		Int64("start", window.Start).
		Int64("end", window.End).
		Msg("replaying validators load from file, window not applied")

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read load file: %w", err)
	}

	var records []model.LoadRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode load file %s: %w", s.path, err)
	}
	return records, nil
}

// Close is a no-op.
func (s *FileSource) Close() error {
	return nil
}
