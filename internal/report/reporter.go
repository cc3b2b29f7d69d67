// Package report runs the validator load pipeline: resolve the active cycle, clamp the lookback
// period to it, fetch load for the window, and attach ADNL addresses from the cycle roster.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/thep2p/validator-load/internal/adnl"
	"github.com/thep2p/validator-load/internal/cycle"
	"github.com/thep2p/validator-load/internal/model"
)

// ErrNoLoadData is returned when the network reports no validator load for the window.
var ErrNoLoadData = errors.New("could not retrieve information")

// CycleLister supplies validation cycles, most recent first.
type CycleLister interface {
	ValidationCycles(ctx context.Context) ([]model.CycleRecord, error)
}

// LoadSource supplies validator load for a time window.
type LoadSource interface {
	ValidatorsLoad(ctx context.Context, window model.TimeWindow) ([]model.LoadRecord, error)
}

// Emitter writes the final records.
type Emitter interface {
	Emit(records []model.LoadRecord) error
}

// Result is the outcome of a successful collection.
type Result struct {
	// Cycle is the active validation cycle.
	Cycle model.CycleRecord
	// Period is the lookback actually used, in seconds.
	Period int64
	// Window is the fetched range.
	Window model.TimeWindow
	// Records holds the load statistics with ADNL addresses attached where known.
	Records []model.LoadRecord
	// Correlated counts records that received an ADNL address.
	Correlated int
	// Elapsed is the wall-clock time from the elections fetch to the end of correlation.
	Elapsed time.Duration
	// Finished is when correlation completed.
	Finished time.Time
}

// Reporter wires the pipeline stages together. It is used for a single run.
type Reporter struct {
	logger    zerolog.Logger
	clock     clock.Clock
	elections CycleLister
	loads     LoadSource
}

// NewReporter creates a reporter reading cycles from elections and load from loads.
func NewReporter(logger zerolog.Logger, clk clock.Clock, elections CycleLister, loads LoadSource) *Reporter {
	return &Reporter{
		logger:    logger.With().Str("component", "reporter").Logger(),
		clock:     clk,
		elections: elections,
		loads:     loads,
	}
}

// Collect runs every stage up to and including ADNL correlation for a lookback of at most
// requested seconds.
//
// All errors are fatal to the run: elections failures, ErrNoActiveCycle from package cycle,
// load source failures, and ErrNoLoadData for an empty load result.
func (r *Reporter) Collect(ctx context.Context, requested int64) (*Result, error) {
	started := r.clock.Now()

	cycles, err := r.elections.ValidationCycles(ctx)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Int("cycles", len(cycles)).Msg("looking for active cycle")
	now := r.clock.Now().Unix()
	active, err := cycle.Resolve(cycles, now)
	if err != nil {
		return nil, err
	}

	maxPeriod := cycle.MaxPeriod(active.StartTime(), now)
	r.logger.Debug().
		Int64("now", now).
		Int64("utime_since", active.StartTime()).
		Int64("max_period", maxPeriod).
		Msgf("calculated maximum possible period for current cycle: %d - %d = %d seconds", now, active.StartTime(), maxPeriod)

	period := cycle.Clamp(requested, active.StartTime(), now)
	window := cycle.Window(period, now)
	r.logger.Info().
		Int64("requested", requested).
		Int64("period", period).
		Msgf("using period of %d seconds", period)

	records, err := r.loads.ValidatorsLoad(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("fetch validators load: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoLoadData
	}

	r.logger.Debug().Int("records", len(records)).Msg("mapping ADNLs to pubkeys for result")
	records = adnl.Correlate(records, active.Validators())
	correlated := adnl.Matched(records)
	if missing := len(records) - correlated; missing > 0 {
		r.logger.Debug().Int("missing", missing).Msg("some validators are absent from the active cycle roster")
	}

	finished := r.clock.Now()
	return &Result{
		Cycle:      active,
		Period:     period,
		Window:     window,
		Records:    records,
		Correlated: correlated,
		Elapsed:    finished.Sub(started),
		Finished:   finished,
	}, nil
}

// BeforeEmit inspects a collected result before it is written. A returned error aborts the run.
type BeforeEmit func(res *Result) error

// Run collects the records, calls each hook in order, and hands the records to out.
// Nothing is written when collection or any hook fails.
func (r *Reporter) Run(ctx context.Context, requested int64, out Emitter, hooks ...BeforeEmit) (*Result, error) {
	res, err := r.Collect(ctx, requested)
	if err != nil {
		return nil, err
	}
	for _, hook := range hooks {
		if err := hook(res); err != nil {
			return nil, err
		}
	}
	if err := out.Emit(res.Records); err != nil {
		return nil, err
	}
	r.logger.Info().
		Int("records", len(res.Records)).
		Int("with_adnl", res.Correlated).
		Msg("validators load written")
	return res, nil
}
