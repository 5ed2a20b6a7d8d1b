package selector

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all prometheus metrics for the selector
type Metrics struct {
	// Selection requests
	Selections   prometheus.Counter
	PassThroughs prometheus.Counter

	// Pick outcomes
	Picks      *prometheus.CounterVec
	EarlyExits prometheus.Counter

	// Selection performance
	SelectDuration prometheus.Histogram
	PoolSize       prometheus.Gauge
	Coverage       *prometheus.GaugeVec
}

// NewMetrics creates and registers all selector metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Selections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "selector_selections_total",
				Help: "Total number of selection requests",
			},
		),

		PassThroughs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "selector_passthrough_total",
				Help: "Selections where the limit covered every candidate",
			},
		),

		// Track why each candidate was chosen
		Picks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selector_picks_total",
				Help: "Total number of picked cues by pick kind",
			},
			[]string{"kind"},
		),

		EarlyExits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "selector_early_exits_total",
				Help: "Pick rounds that stopped scanning at the minimum coverage level",
			},
		),

		SelectDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "selector_select_duration_seconds",
				Help:    "Time spent in one selection request in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),

		PoolSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "selector_candidate_pool_size",
				Help: "Number of eligible candidates in the latest selection",
			},
		),

		Coverage: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "selector_visible_coverage",
				Help: "Visible coverage of the latest selection (baseline and covered)",
			},
			[]string{"type"},
		),
	}

	reg.MustRegister(
		m.Selections,
		m.PassThroughs,
		m.Picks,
		m.EarlyExits,
		m.SelectDuration,
		m.PoolSize,
		m.Coverage,
	)

	return m
}

// TrackPick records one picked candidate
func (m *Metrics) TrackPick(kind pickKind) {
	m.Picks.WithLabelValues(string(kind)).Inc()
}

// RecordSelection records the outcome of a finished selection
func (m *Metrics) RecordSelection(stats Stats, duration float64) {
	m.Selections.Inc()
	if stats.PassThrough {
		m.PassThroughs.Inc()
	}
	m.EarlyExits.Add(float64(stats.EarlyExits))
	m.SelectDuration.Observe(duration)
	m.PoolSize.Set(float64(stats.Candidates))
	m.Coverage.WithLabelValues("baseline").Set(stats.Baseline)
	m.Coverage.WithLabelValues("covered").Set(stats.VisibleCovered)
}
