package network

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
	"github.com/thep2p/validator-load/internal/config"
	"github.com/thep2p/validator-load/internal/model"
)

// RPCSource queries validator load from a lite-server bridge over JSON-RPC.
//
// The method is called with the window bounds as two positional unix-second parameters and
// must return a JSON array of objects, each carrying a pubkey field.
type RPCSource struct {
	logger zerolog.Logger
	client *rpc.Client
	method string
}

// NewRPCSource wraps an established JSON-RPC client.
func NewRPCSource(logger zerolog.Logger, client *rpc.Client, method string) *RPCSource {
	return &RPCSource{
		logger: logger.With().Str("component", "rpc-load-source").Logger(),
		client: client,
		method: method,
	}
}

// DialRPC connects to endpoint, which may be an http(s), ws(s) URL or an IPC socket path.
func DialRPC(ctx context.Context, logger zerolog.Logger, endpoint, method string) (*RPCSource, error) {
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return NewRPCSource(logger, client, method), nil
}

func openRPC(ctx context.Context, logger zerolog.Logger, cfg config.NetworkConfig) (Source, error) {
	return DialRPC(ctx, logger, cfg.Endpoint, cfg.Method)
}

// ValidatorsLoad calls the configured method for window.
func (s *RPCSource) ValidatorsLoad(ctx context.Context, window model.TimeWindow) ([]model.LoadRecord, error) {
	s.logger.Debug().
		Str("method", s.method).
		Int64("start", window.Start).
		Int64("end", window.End).
		Msg("fetching validators load from blockchain")

	var records []model.LoadRecord
	if err := s.client.CallContext(ctx, &records, s.method, window.Start, window.End); err != nil {
		return nil, fmt.Errorf("call %s: %w", s.method, err)
	}

	s.logger.Debug().Int("records", len(records)).Msg("validators load received")
	return records, nil
}

// Close releases the underlying connection.
func (s *RPCSource) Close() error {
	s.client.Close()
	return nil
}
