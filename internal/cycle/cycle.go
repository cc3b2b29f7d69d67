// Package cycle selects the active validation cycle and bounds the lookback window to it.
package cycle

import (
	"errors"

	"github.com/thep2p/validator-load/internal/model"
)

// ErrNoActiveCycle is returned when no cycle window contains the current time.
var ErrNoActiveCycle = errors.New("could not find active validation cycle")

// Resolve returns the first cycle, in the given order, whose window contains now.
//
// A cycle matches when start < now and end >= now: it is not active at its own start second
// but is still active at its end second.
func Resolve(cycles []model.CycleRecord, now int64) (model.CycleRecord, error) {
	for _, c := range cycles {
		if c.StartTime() < now && c.EndTime() >= now {
			return c, nil
		}
	}
	return model.CycleRecord{}, ErrNoActiveCycle
}

// MaxPeriod returns the number of seconds elapsed since cycleStart.
func MaxPeriod(cycleStart, now int64) int64 {
	return now - cycleStart
}

// Clamp returns the requested period bounded by the time elapsed since the cycle began.
func Clamp(requested, cycleStart, now int64) int64 {
	return min(requested, MaxPeriod(cycleStart, now))
}

// Window returns the range [now-period, now].
func Window(period, now int64) model.TimeWindow {
	return model.TimeWindow{Start: now - period, End: now}
}
