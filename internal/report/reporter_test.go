package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"github.com/thep2p/validator-load/internal/cycle"
	"github.com/thep2p/validator-load/internal/model"
	"github.com/thep2p/validator-load/internal/report"
	"github.com/thep2p/validator-load/internal/testutils"
)

type fakeElections struct {
	cycles []model.CycleRecord
	err    error
}

func (f *fakeElections) ValidationCycles(context.Context) ([]model.CycleRecord, error) {
	return f.cycles, f.err
}

// fakeLoads returns fixed records and advances the clock to simulate query latency.
type fakeLoads struct {
	clock   *clock.Mock
	latency time.Duration
	records []model.LoadRecord
	err     error
	windows []model.TimeWindow
}

func (f *fakeLoads) ValidatorsLoad(_ context.Context, w model.TimeWindow) ([]model.LoadRecord, error) {
	f.windows = append(f.windows, w)
	if f.clock != nil {
		f.clock.Add(f.latency)
	}
	return f.records, f.err
}

type recordingSink struct {
	calls   int
	written []model.LoadRecord
	err     error
}

func (s *recordingSink) Emit(records []model.LoadRecord) error {
	s.calls++
	s.written = records
	return s.err
}

func mockClock(unix int64) *clock.Mock {
	clk := clock.NewMock()
	clk.Set(time.Unix(unix, 0))
	return clk
}

// TestRunExampleScenario walks the reference scenario end to end: one cycle [1000, 2000], now 1500,
// requested period 2000.
func TestRunExampleScenario(t *testing.T) {
	clk := mockClock(1500)
	elections := &fakeElections{cycles: []model.CycleRecord{
		model.NewCycleRecord(1000, 2000, model.ValidatorEntry{PubKey: "A", ADNLAddr: "adnlA"}),
	}}
	loads := &fakeLoads{
		clock:   clk,
		latency: 250 * time.Millisecond,
		records: []model.LoadRecord{testutils.LoadFixture(t, "A", 42)},
	}
	sink := &recordingSink{}

	r := report.NewReporter(testutils.Logger(t), clk, elections, loads)
	res, err := r.Run(context.Background(), 2000, sink)
	require.NoError(t, err, "run should succeed")

	require.Equal(t, int64(500), res.Period, "period should be clamped to cycle age")
	require.Equal(t, model.TimeWindow{Start: 1000, End: 1500}, res.Window)
	require.Equal(t, []model.TimeWindow{{Start: 1000, End: 1500}}, loads.windows, "load should be fetched once for the window")
	require.Equal(t, 1, res.Correlated)
	require.Equal(t, 250*time.Millisecond, res.Elapsed)
	require.Equal(t, int64(1000), res.Cycle.StartTime())

	require.Equal(t, 1, sink.calls, "output should be written once")
	raw, err := json.Marshal(sink.written)
	require.NoError(t, err)
	require.JSONEq(t, `[{"pubkey":"A","load":42,"adnl_addr":"adnlA"}]`, string(raw))
}

// TestRunUnknownValidatorKeepsNoADNL verifies a record absent from the roster is written without an address.
func TestRunUnknownValidatorKeepsNoADNL(t *testing.T) {
	clk := mockClock(1500)
	elections := &fakeElections{cycles: []model.CycleRecord{
		model.NewCycleRecord(1000, 2000, model.ValidatorEntry{PubKey: "A", ADNLAddr: "adnlA"}),
	}}
	loads := &fakeLoads{records: []model.LoadRecord{testutils.LoadFixture(t, "Z", 5)}}
	sink := &recordingSink{}

	res, err := report.NewReporter(testutils.Logger(t), clk, elections, loads).Run(context.Background(), 60, sink)
	require.NoError(t, err, "missing correlation is not an error")
	require.Equal(t, int64(60), res.Period, "short request should not be clamped")
	require.Equal(t, model.TimeWindow{Start: 1440, End: 1500}, res.Window)
	require.Equal(t, 0, res.Correlated)

	raw, err := json.Marshal(sink.written)
	require.NoError(t, err)
	require.JSONEq(t, `[{"pubkey":"Z","load":5}]`, string(raw))
}

// TestRunEmptyLoadIsFatal verifies an empty load result fails the run and nothing is written.
func TestRunEmptyLoadIsFatal(t *testing.T) {
	clk := mockClock(1500)
	elections := &fakeElections{cycles: []model.CycleRecord{model.NewCycleRecord(1000, 2000)}}

	for _, records := range [][]model.LoadRecord{nil, {}} {
		sink := &recordingSink{}
		_, err := report.NewReporter(testutils.Logger(t), clk, elections, &fakeLoads{records: records}).
			Run(context.Background(), 600, sink)
		require.ErrorIs(t, err, report.ErrNoLoadData)
		require.Zero(t, sink.calls, "no output should be written on failure")
	}
}

// TestRunNoActiveCycle verifies the resolution failure stops the run before the load query.
func TestRunNoActiveCycle(t *testing.T) {
	clk := mockClock(5000)
	elections := &fakeElections{cycles: []model.CycleRecord{model.NewCycleRecord(1000, 2000)}}
	loads := &fakeLoads{records: []model.LoadRecord{testutils.LoadFixture(t, "A", 1)}}
	sink := &recordingSink{}

	_, err := report.NewReporter(testutils.Logger(t), clk, elections, loads).Run(context.Background(), 600, sink)
	require.ErrorIs(t, err, cycle.ErrNoActiveCycle)
	require.Empty(t, loads.windows, "load should not be queried without an active cycle")
	require.Zero(t, sink.calls)
}

// TestRunPropagatesFailures verifies upstream, load, and output failures are returned unchanged in kind.
func TestRunPropagatesFailures(t *testing.T) {
	active := []model.CycleRecord{model.NewCycleRecord(1000, 2000)}
	ok := []model.LoadRecord{testutils.LoadFixture(t, "A", 1)}

	t.Run("elections", func(t *testing.T) {
		boom := errors.New("elections down")
		sink := &recordingSink{}
		_, err := report.NewReporter(testutils.Logger(t), mockClock(1500), &fakeElections{err: boom}, &fakeLoads{records: ok}).
			Run(context.Background(), 600, sink)
		require.ErrorIs(t, err, boom)
		require.Zero(t, sink.calls)
	})

	t.Run("load source", func(t *testing.T) {
		boom := errors.New("liteserver unreachable")
		sink := &recordingSink{}
		_, err := report.NewReporter(testutils.Logger(t), mockClock(1500), &fakeElections{cycles: active}, &fakeLoads{err: boom}).
			Run(context.Background(), 600, sink)
		require.ErrorIs(t, err, boom)
		require.Contains(t, err.Error(), "fetch validators load")
		require.Zero(t, sink.calls)
	})

	t.Run("output", func(t *testing.T) {
		boom := errors.New("disk full")
		sink := &recordingSink{err: boom}
		_, err := report.NewReporter(testutils.Logger(t), mockClock(1500), &fakeElections{cycles: active}, &fakeLoads{records: ok}).
			Run(context.Background(), 600, sink)
		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, sink.calls)
	})
}

// TestCollectDoesNotWrite verifies Collect stops after correlation, as used by the timing report.
func TestCollectDoesNotWrite(t *testing.T) {
	clk := mockClock(1500)
	elections := &fakeElections{cycles: []model.CycleRecord{
		model.NewCycleRecord(1000, 2000, model.ValidatorEntry{PubKey: "A", ADNLAddr: "adnlA"}),
	}}
	loads := &fakeLoads{clock: clk, latency: 42 * time.Millisecond, records: []model.LoadRecord{testutils.LoadFixture(t, "A", 1)}}

	res, err := report.NewReporter(testutils.Logger(t), clk, elections, loads).Collect(context.Background(), 2000)
	require.NoError(t, err)
	require.Equal(t, 42*time.Millisecond, res.Elapsed)
	require.True(t, res.Finished.Equal(time.Unix(1500, 0).Add(42*time.Millisecond)), "finish time should follow the mock clock")
	addr, found := res.Records[0].ADNL()
	require.True(t, found)
	require.Equal(t, "adnlA", addr)
}

// TestRunHooksPrecedeEmit verifies hooks see the collected result before it is written, and a failing
// hook prevents the write.
func TestRunHooksPrecedeEmit(t *testing.T) {
	elections := &fakeElections{cycles: []model.CycleRecord{
		model.NewCycleRecord(1000, 2000, model.ValidatorEntry{PubKey: "A", ADNLAddr: "adnlA"}),
	}}
	loads := &fakeLoads{records: []model.LoadRecord{testutils.LoadFixture(t, "A", 1)}}

	sink := &recordingSink{}
	var seen []int64
	hook := func(res *report.Result) error {
		require.Zero(t, sink.calls, "hook should run before the output is written")
		seen = append(seen, res.Period)
		return nil
	}
	_, err := report.NewReporter(testutils.Logger(t), mockClock(1500), elections, loads).
		Run(context.Background(), 60, sink, hook, hook)
	require.NoError(t, err)
	require.Equal(t, []int64{60, 60}, seen, "every hook should run once")
	require.Equal(t, 1, sink.calls)

	boom := errors.New("metrics unavailable")
	sink = &recordingSink{}
	_, err = report.NewReporter(testutils.Logger(t), mockClock(1500), elections, loads).
		Run(context.Background(), 60, sink, func(*report.Result) error { return boom })
	require.ErrorIs(t, err, boom)
	require.Zero(t, sink.calls, "nothing should be written when a hook fails")
}
