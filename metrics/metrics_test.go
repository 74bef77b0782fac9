// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordMutation("submit_score", OutcomeSuccess)
	m.RecordMutation("submit_score", OutcomeSuccess)
	m.RecordMutation("finalize", OutcomeRejected)
	m.RecordBroadcast()
	m.RecordEviction()
	m.SetSubscribers(3)
	m.ObserveHTTP("/scores", "200", 5*time.Millisecond)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.mutations.WithLabelValues("submit_score", OutcomeSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.mutations.WithLabelValues("finalize", OutcomeRejected)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.broadcasts))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.evictions))
	assert.Equal(t, 3.0, promtest.ToFloat64(m.subscribers))

	n, err := promtest.GatherAndCount(reg, "jury_live_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordMutation("submit_score", OutcomeError)
		m.RecordBroadcast()
		m.RecordEviction()
		m.RecordSnapshotError()
		m.SetSubscribers(1)
		m.ObserveHTTP("/", "200", time.Second)
	})
}
