// Package network retrieves per-validator load statistics for a time window.
//
// The statistics themselves are computed by the network; this package only selects a backend,
// issues the query, and decodes the records keyed by validator public key.
package network

import (
	"context"
	"io"

	"github.com/thep2p/validator-load/internal/model"
)

// Source returns validator load statistics for a time window.
type Source interface {
	io.Closer

	// ValidatorsLoad returns one record per validator that produced load within window.
	// The call blocks for the duration of the network query.
	ValidatorsLoad(ctx context.Context, window model.TimeWindow) ([]model.LoadRecord, error)
}
