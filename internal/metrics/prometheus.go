package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing, which keeps metrics optional in tests.
type Metrics struct {
	// Run metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	RunsInFlight     prometheus.Gauge
	RecordsProcessed *prometheus.CounterVec

	// Scheduler metrics
	TimersActive   prometheus.Gauge
	ScheduledFires *prometheus.CounterVec

	// Run log metrics
	LogAppendFailures prometheus.Counter
}

// NewMetrics creates and registers Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncd_runs_total",
				Help: "Total number of sync runs",
			},
			[]string{"entity_type", "status"},
		),

		RunDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "syncd_run_duration_seconds",
				Help:    "Duration of sync runs",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity_type"},
		),

		RunsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "syncd_runs_in_flight",
				Help: "Number of sync runs currently executing",
			},
		),

		RecordsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncd_records_processed_total",
				Help: "Total number of records written by sync runs",
			},
			[]string{"entity_type", "action"},
		),

		TimersActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "syncd_scheduler_timers_active",
				Help: "Number of armed auto-sync timers",
			},
		),

		ScheduledFires: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncd_scheduler_fires_total",
				Help: "Total number of auto-sync timer fires",
			},
			[]string{"entity_type"},
		),

		LogAppendFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "syncd_log_append_failures_total",
				Help: "Total number of run log appends that failed",
			},
		),
	}
}

// RecordRun records the outcome of one sync run
func (m *Metrics) RecordRun(entityType, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(entityType, status).Inc()
	m.RunDuration.WithLabelValues(entityType).Observe(durationSeconds)
}

// RecordBatch records how many rows a run wrote, by action
func (m *Metrics) RecordBatch(entityType string, inserted, updated, softDeleted int) {
	if m == nil {
		return
	}
	m.RecordsProcessed.WithLabelValues(entityType, "inserted").Add(float64(inserted))
	m.RecordsProcessed.WithLabelValues(entityType, "updated").Add(float64(updated))
	m.RecordsProcessed.WithLabelValues(entityType, "soft_deleted").Add(float64(softDeleted))
}

// RunStarted marks a run as in flight
func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.RunsInFlight.Inc()
}

// RunFinished marks a run as no longer in flight
func (m *Metrics) RunFinished() {
	if m == nil {
		return
	}
	m.RunsInFlight.Dec()
}

// TimerArmed tracks a newly armed scheduler timer
func (m *Metrics) TimerArmed() {
	if m == nil {
		return
	}
	m.TimersActive.Inc()
}

// TimerCancelled tracks a cancelled scheduler timer
func (m *Metrics) TimerCancelled() {
	if m == nil {
		return
	}
	m.TimersActive.Dec()
}

// RecordFire records one auto-sync timer fire
func (m *Metrics) RecordFire(entityType string) {
	if m == nil {
		return
	}
	m.ScheduledFires.WithLabelValues(entityType).Inc()
}

// RecordLogAppendFailure records a run log append that failed
func (m *Metrics) RecordLogAppendFailure() {
	if m == nil {
		return
	}
	m.LogAppendFailures.Inc()
}
