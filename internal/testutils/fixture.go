package testutils

import (
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thep2p/validator-load/internal/model"
	"github.com/thep2p/validator-load/internal/utils"
)

// randomHex returns n random bytes hex-encoded.
func randomHex(t *testing.T, n int) string {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err, "failed to generate random bytes")
	return utils.ByteToHex(b)
}

// RandomPubKey returns a random 32-byte validator public key.
func RandomPubKey(t *testing.T) string {
	t.Helper()
	return randomHex(t, 32)
}

// RandomADNL returns a random 32-byte ADNL address.
func RandomADNL(t *testing.T) string {
	t.Helper()
	return randomHex(t, 32)
}

// RandomRoster generates n roster entries with random keys and addresses.
func RandomRoster(t *testing.T, n int) []model.ValidatorEntry {
	t.Helper()
	roster := make([]model.ValidatorEntry, n)
	for i := range roster {
		roster[i] = model.ValidatorEntry{PubKey: RandomPubKey(t), ADNLAddr: RandomADNL(t)}
	}
	return roster
}

// LoadFixture builds a load record with a single numeric "load" statistic.
func LoadFixture(t *testing.T, pubKey string, load int) model.LoadRecord {
	t.Helper()
	raw, err := json.Marshal(load)
	require.NoError(t, err, "failed to encode load value")
	return model.NewLoadRecord(pubKey, map[string]json.RawMessage{"load": raw})
}
