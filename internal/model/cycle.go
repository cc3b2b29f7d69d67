package model

// ValidatorEntry is a single member of a validation cycle roster.
type ValidatorEntry struct {
	// PubKey is the validator's long-lived identity.
	PubKey string `json:"pubkey"`
	// ADNLAddr is the validator's low-level network address.
	ADNLAddr string `json:"adnl_addr"`
}

// CycleInfo holds the bounds and roster of a validation cycle as published by the elections service.
type CycleInfo struct {
	UtimeSince UnixTime         `json:"utime_since"`
	UtimeUntil UnixTime         `json:"utime_until"`
	Validators []ValidatorEntry `json:"validators"`
}

// CycleRecord is one validation cycle. Fields other than cycle_info are ignored.
type CycleRecord struct {
	CycleInfo CycleInfo `json:"cycle_info"`
}

// NewCycleRecord builds a CycleRecord from plain values.
func NewCycleRecord(start, end int64, validators ...ValidatorEntry) CycleRecord {
	return CycleRecord{
		CycleInfo: CycleInfo{
			UtimeSince: UnixTime(start),
			UtimeUntil: UnixTime(end),
			Validators: validators,
		},
	}
}

// StartTime returns the unix second the cycle began.
func (c CycleRecord) StartTime() int64 {
	return c.CycleInfo.UtimeSince.Int64()
}

// EndTime returns the unix second the cycle ends.
func (c CycleRecord) EndTime() int64 {
	return c.CycleInfo.UtimeUntil.Int64()
}

// Validators returns the cycle roster in published order.
func (c CycleRecord) Validators() []ValidatorEntry {
	return c.CycleInfo.Validators
}

// TimeWindow is a closed range of unix seconds.
type TimeWindow struct {
	Start int64
	End   int64
}
