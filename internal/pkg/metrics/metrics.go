// Package metrics holds the Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	decisions       *prometheus.CounterVec
	decisionLatency *prometheus.HistogramVec
	punches         *prometheus.CounterVec
	reportCache     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hris",
			Name:      "approval_decisions_total",
			Help:      "Approval decisions by variant, decision and outcome.",
		}, []string{"variant", "decision", "outcome"}),
		decisionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hris",
			Name:      "approval_decision_duration_seconds",
			Help:      "Time spent applying one approval decision.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"variant"}),
		punches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hris",
			Name:      "punch_events_total",
			Help:      "Recorded punch events by kind.",
		}, []string{"kind"}),
		reportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hris",
			Name:      "report_cache_requests_total",
			Help:      "Report cache lookups by report and result.",
		}, []string{"report", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.decisions, m.decisionLatency, m.punches, m.reportCache)
	}
	return m
}

// ObserveDecision records one decide call. outcome is "ok" or an error class.
func (m *Metrics) ObserveDecision(variant, decision, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(variant, decision, outcome).Inc()
	m.decisionLatency.WithLabelValues(variant).Observe(elapsed.Seconds())
}

func (m *Metrics) IncPunch(kind string) {
	if m == nil {
		return
	}
	m.punches.WithLabelValues(kind).Inc()
}

func (m *Metrics) ReportCache(report string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.reportCache.WithLabelValues(report, result).Inc()
}
