package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
	OutcomeExists  = "exists"
)

// Metrics holds the rate acquisition counters. A nil *Metrics records nothing.
type Metrics struct {
	ProviderAttemptsTotal *prometheus.CounterVec
	BackfillTasksTotal    *prometheus.CounterVec
	BackfillRunsTotal     prometheus.Counter
	BackfillRunDuration   prometheus.Histogram
	BackfillInFlight      prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProviderAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_provider_attempts_total",
				Help: "Provider calls made by the resolver, by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		BackfillTasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_backfill_tasks_total",
				Help: "Finished backfill tasks by outcome",
			},
			[]string{"outcome"},
		),
		BackfillRunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fx_backfill_runs_total",
			Help: "Completed backfill runs",
		}),
		BackfillRunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fx_backfill_run_duration_seconds",
			Help:    "Wall time of backfill runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		}),
		BackfillInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fx_backfill_tasks_in_flight",
			Help: "Backfill tasks currently holding a permit",
		}),
	}
}

func (m *Metrics) ProviderAttempt(provider, outcome string) {
	if m == nil {
		return
	}
	m.ProviderAttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) TaskDone(outcome string) {
	if m == nil {
		return
	}
	m.BackfillTasksTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TaskStarted() {
	if m == nil {
		return
	}
	m.BackfillInFlight.Inc()
}

func (m *Metrics) TaskFinished() {
	if m == nil {
		return
	}
	m.BackfillInFlight.Dec()
}

func (m *Metrics) RunDone(seconds float64) {
	if m == nil {
		return
	}
	m.BackfillRunsTotal.Inc()
	m.BackfillRunDuration.Observe(seconds)
}
