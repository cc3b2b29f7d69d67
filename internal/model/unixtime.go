package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UnixTime is a timestamp in unix seconds.
type UnixTime int64

// UnmarshalJSON accepts a JSON number or a decimal string and stores the result in whole seconds.
// Fractional seconds are truncated.
func (u *UnixTime) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*u = UnixTime(v)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse unix time %q: %w", raw, err)
	}
	*u = UnixTime(int64(f))
	return nil
}

// Int64 returns the timestamp as unix seconds.
func (u UnixTime) Int64() int64 {
	return int64(u)
}
