package metrics_test

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveDecision("timesheet", "approve", "ok", 10*time.Millisecond)
	m.ObserveDecision("timesheet", "approve", "stage_mismatch", time.Millisecond)
	m.IncPunch("IN")
	m.ReportCache("status_breakdown", true)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["hris_approval_decisions_total"])
	assert.True(t, names["hris_approval_decision_duration_seconds"])
	assert.True(t, names["hris_punch_events_total"])
	assert.True(t, names["hris_report_cache_requests_total"])
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveDecision("leave", "reject", "ok", time.Second)
		m.IncPunch("OUT")
		m.ReportCache("monthly", false)
	})
}
