package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LoadRecord holds the load statistics of one validator.
//
// Stats carries every field other than pubkey and adnl_addr as raw JSON, so statistics
// produced by the network pass through to the output unchanged.
type LoadRecord struct {
	PubKey   string
	Stats    map[string]json.RawMessage
	ADNLAddr *string
}

// NewLoadRecord builds a LoadRecord from a pubkey and already-encoded statistic fields.
func NewLoadRecord(pubKey string, stats map[string]json.RawMessage) LoadRecord {
	return LoadRecord{PubKey: pubKey, Stats: stats}
}

// SetADNL attaches an ADNL address, replacing any previous one.
func (r *LoadRecord) SetADNL(addr string) {
	r.ADNLAddr = &addr
}

// ADNL returns the attached ADNL address and whether one is present.
func (r LoadRecord) ADNL() (string, bool) {
	if r.ADNLAddr == nil {
		return "", false
	}
	return *r.ADNLAddr, true
}

// MarshalJSON emits the statistic fields plus pubkey and, only when attached, adnl_addr.
func (r LoadRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(r.Stats)+2)
	for k, v := range r.Stats {
		out[k] = v
	}

	pk, err := json.Marshal(r.PubKey)
	if err != nil {
		return nil, fmt.Errorf("encode pubkey: %w", err)
	}
	out[FieldPubKey] = pk

	if addr, ok := r.ADNL(); ok {
		enc, err := json.Marshal(addr)
		if err != nil {
			return nil, fmt.Errorf("encode adnl address: %w", err)
		}
		out[FieldADNLAddr] = enc
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a load record object. The pubkey field is required; a null adnl_addr
// counts as absent.
func (r *LoadRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode load record: %w", err)
	}

	raw, ok := fields[FieldPubKey]
	if !ok {
		return fmt.Errorf("decode load record: missing %s", FieldPubKey)
	}
	var pubKey string
	if err := json.Unmarshal(raw, &pubKey); err != nil {
		return fmt.Errorf("decode %s: %w", FieldPubKey, err)
	}
	delete(fields, FieldPubKey)

	var addr *string
	if raw, ok := fields[FieldADNLAddr]; ok && string(bytes.TrimSpace(raw)) == "null" {
		delete(fields, FieldADNLAddr)
	} else if ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("decode %s: %w", FieldADNLAddr, err)
		}
		addr = &s
		delete(fields, FieldADNLAddr)
	}

	r.PubKey = pubKey
	r.Stats = fields
	r.ADNLAddr = addr
	return nil
}
