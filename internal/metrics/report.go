// Package metrics records the outcome of a run as Prometheus gauges written to a textfile,
// for pickup by a node exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "validator_load"

// Report collects the gauges of a single run on a private registry.
type Report struct {
	registry *prometheus.Registry

	records        prometheus.Gauge
	correlated     prometheus.Gauge
	period         prometheus.Gauge
	cycleStart     prometheus.Gauge
	cycleEnd       prometheus.Gauge
	duration       prometheus.Gauge
	lastSuccessful prometheus.Gauge
}

// NewReport creates a report with all gauges registered and zeroed.
func NewReport() *Report {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}

	r := &Report{
		registry:       prometheus.NewRegistry(),
		records:        gauge("records", "Validators with load statistics in the window."),
		correlated:     gauge("records_with_adnl", "Validators whose ADNL address was found in the active cycle roster."),
		period:         gauge("period_seconds", "Length of the fetched window after clamping to the active cycle."),
		cycleStart:     gauge("cycle_start_timestamp_seconds", "Start of the active validation cycle."),
		cycleEnd:       gauge("cycle_end_timestamp_seconds", "End of the active validation cycle."),
		duration:       gauge("run_duration_seconds", "Wall-clock time from elections fetch to correlation."),
		lastSuccessful: gauge("last_success_timestamp_seconds", "Time the last successful run finished."),
	}
	r.registry.MustRegister(r.records, r.correlated, r.period, r.cycleStart, r.cycleEnd, r.duration, r.lastSuccessful)
	return r
}

// Observe sets every gauge from a completed run.
func (r *Report) Observe(records, correlated int, period, cycleStart, cycleEnd int64, took time.Duration, finished time.Time) {
	r.records.Set(float64(records))
	r.correlated.Set(float64(correlated))
	r.period.Set(float64(period))
	r.cycleStart.Set(float64(cycleStart))
	r.cycleEnd.Set(float64(cycleEnd))
	r.duration.Set(took.Seconds())
	r.lastSuccessful.Set(float64(finished.Unix()))
}

// Registry exposes the underlying registry.
func (r *Report) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the gauges in the Prometheus text format. The file is replaced atomically.
func (r *Report) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
