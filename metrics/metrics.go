// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jury_live"

// Outcome labels for mutation counters
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	mutations    *prometheus.CounterVec
	broadcasts   prometheus.Counter
	subscribers  prometheus.Gauge
	evictions    prometheus.Counter
	snapshotErrs prometheus.Counter
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Score and roster mutations by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		broadcasts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Score update envelopes published to subscribers.",
		}),
		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers",
			Help:      "Currently connected live subscribers.",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Subscribers dropped because their buffer was full.",
		}),
		snapshotErrs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_errors_total",
			Help:      "Snapshots that failed to build after a committed mutation.",
		}),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and status code.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "code"},
		),
	}
}

func (m *Metrics) RecordMutation(op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) RecordBroadcast() {
	if m == nil {
		return
	}
	m.broadcasts.Inc()
}

// SetSubscribers records the current subscriber count.
func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}
	m.subscribers.Set(float64(n))
}

func (m *Metrics) RecordEviction() {
	if m == nil {
		return
	}
	m.evictions.Inc()
}

func (m *Metrics) RecordSnapshotError() {
	if m == nil {
		return
	}
	m.snapshotErrs.Inc()
}

// ObserveHTTP records one request's latency.
func (m *Metrics) ObserveHTTP(route, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(route, code).Observe(d.Seconds())
}
