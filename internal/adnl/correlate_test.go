package adnl_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thep2p/validator-load/internal/adnl"
	"github.com/thep2p/validator-load/internal/model"
	"github.com/thep2p/validator-load/internal/testutils"
)

// TestCorrelateAttachesADNL verifies the basic join: a load record with a roster entry gets its address.
func TestCorrelateAttachesADNL(t *testing.T) {
	loads := []model.LoadRecord{testutils.LoadFixture(t, "A", 42)}
	roster := []model.ValidatorEntry{{PubKey: "A", ADNLAddr: "adnlA"}}

	out := adnl.Correlate(loads, roster)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.JSONEq(t, `[{"pubkey":"A","load":42,"adnl_addr":"adnlA"}]`, string(raw))
}

// TestCorrelateLeavesUnknownRecords verifies a validator absent from the roster keeps no adnl_addr.
func TestCorrelateLeavesUnknownRecords(t *testing.T) {
	loads := []model.LoadRecord{
		testutils.LoadFixture(t, "A", 1),
		testutils.LoadFixture(t, "Z", 2),
	}
	roster := []model.ValidatorEntry{{PubKey: "A", ADNLAddr: "adnlA"}}

	out := adnl.Correlate(loads, roster)

	_, ok := out[1].ADNL()
	require.False(t, ok, "Z is not in the roster and must not get an address")

	raw, err := json.Marshal(out[1])
	require.NoError(t, err)
	require.JSONEq(t, `{"pubkey":"Z","load":2}`, string(raw))
	require.Equal(t, 1, adnl.Matched(out))
}

// TestCorrelateCompleteness checks, over a random roster, that pubkeys are preserved, order is kept,
// and an address is present exactly when the roster holds the key.
func TestCorrelateCompleteness(t *testing.T) {
	roster := testutils.RandomRoster(t, 50)
	want := make(map[string]string, len(roster))
	for _, v := range roster {
		want[v.PubKey] = v.ADNLAddr
	}

	var loads []model.LoadRecord
	var keys []string
	for i, v := range roster {
		if i%3 == 0 {
			stranger := testutils.RandomPubKey(t)
			loads = append(loads, testutils.LoadFixture(t, stranger, i))
			keys = append(keys, stranger)
		}
		loads = append(loads, testutils.LoadFixture(t, v.PubKey, i))
		keys = append(keys, v.PubKey)
	}

	out := adnl.Correlate(loads, roster)
	require.Len(t, out, len(keys), "correlation must not add or drop records")

	for i, rec := range out {
		require.Equal(t, keys[i], rec.PubKey, "record order and pubkey must be preserved")
		addr, ok := rec.ADNL()
		expected, inRoster := want[rec.PubKey]
		require.Equal(t, inRoster, ok, "adnl presence must match roster membership")
		if inRoster {
			require.Equal(t, expected, addr)
		}
	}
	require.Equal(t, len(roster), adnl.Matched(out))
}

// TestCorrelateIdempotent verifies that running the join twice yields identical output.
func TestCorrelateIdempotent(t *testing.T) {
	roster := []model.ValidatorEntry{{PubKey: "A", ADNLAddr: "adnlA"}, {PubKey: "B", ADNLAddr: "adnlB"}}
	loads := []model.LoadRecord{
		testutils.LoadFixture(t, "B", 7),
		testutils.LoadFixture(t, "Z", 8),
		testutils.LoadFixture(t, "A", 9),
	}

	once, err := json.Marshal(adnl.Correlate(loads, roster))
	require.NoError(t, err)
	twice, err := json.Marshal(adnl.Correlate(loads, roster))
	require.NoError(t, err)
	require.JSONEq(t, string(once), string(twice), "second pass must not change the output")
}

// TestCorrelateFirstRosterEntryWins verifies that a duplicated roster key resolves to its first entry.
func TestCorrelateFirstRosterEntryWins(t *testing.T) {
	roster := []model.ValidatorEntry{
		{PubKey: "A", ADNLAddr: "first"},
		{PubKey: "A", ADNLAddr: "second"},
	}
	out := adnl.Correlate([]model.LoadRecord{testutils.LoadFixture(t, "A", 1)}, roster)

	addr, ok := out[0].ADNL()
	require.True(t, ok)
	require.Equal(t, "first", addr)
}

// TestCorrelateNoNormalization verifies keys are compared verbatim.
func TestCorrelateNoNormalization(t *testing.T) {
	roster := []model.ValidatorEntry{{PubKey: "abcd", ADNLAddr: "adnl"}}
	out := adnl.Correlate([]model.LoadRecord{testutils.LoadFixture(t, "ABCD", 1)}, roster)

	_, ok := out[0].ADNL()
	require.False(t, ok, "case differences must not match")
}

// TestCorrelateEmptyInputs verifies empty inputs are handled without error.
func TestCorrelateEmptyInputs(t *testing.T) {
	require.Empty(t, adnl.Correlate(nil, testutils.RandomRoster(t, 3)))

	out := adnl.Correlate([]model.LoadRecord{testutils.LoadFixture(t, "A", 1)}, nil)
	require.Len(t, out, 1)
	require.Equal(t, 0, adnl.Matched(out))
}
