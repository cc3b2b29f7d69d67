// Package testutils provides fixtures and helpers for validator load tests.
// It is intended for testing purposes only and should not be used in production code.
package testutils

import (
	"testing"

	"github.com/rs/zerolog"
)

// Logger returns a zerolog.Logger that writes through the test log at debug level.
func Logger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}
