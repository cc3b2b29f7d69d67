// Package adnl attaches ADNL addresses from a cycle roster to validator load records.
package adnl

import "github.com/thep2p/validator-load/internal/model"

// Index maps validator public keys to ADNL addresses.
type Index map[string]string

// NewIndex builds an Index from a roster. When a pubkey repeats, the first entry wins.
func NewIndex(roster []model.ValidatorEntry) Index {
	idx := make(Index, len(roster))
	for _, v := range roster {
		if _, seen := idx[v.PubKey]; seen {
			continue
		}
		idx[v.PubKey] = v.ADNLAddr
	}
	return idx
}

// Lookup returns the ADNL address for pubKey. Keys are compared verbatim.
func (i Index) Lookup(pubKey string) (string, bool) {
	addr, ok := i[pubKey]
	return addr, ok
}

// Correlate sets the ADNL address on every load record whose pubkey appears in the roster and
// returns loads. Records without a roster entry are left untouched. Order is preserved.
func Correlate(loads []model.LoadRecord, roster []model.ValidatorEntry) []model.LoadRecord {
	idx := NewIndex(roster)
	for i := range loads {
		if addr, ok := idx.Lookup(loads[i].PubKey); ok {
			loads[i].SetADNL(addr)
		}
	}
	return loads
}

// Matched returns how many records carry an ADNL address.
func Matched(loads []model.LoadRecord) int {
	n := 0
	for _, r := range loads {
		if _, ok := r.ADNL(); ok {
			n++
		}
	}
	return n
}
