// Package metrics defines the Prometheus collectors for the resolution
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	ResultsTotal            *prometheus.CounterVec
	DocumentsResolvedTotal  *prometheus.CounterVec
	EscalationCallsTotal    prometheus.Counter
	EscalationFailuresTotal prometheus.Counter
	ResolveDuration         prometheus.Histogram
}

// New creates and registers all collectors on the given registerer. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ResultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "field_results_total",
				Help: "Total resolved fields by method and origin.",
			},
			[]string{"method", "origin"},
		),
		DocumentsResolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_resolved_total",
				Help: "Total documents finished by final status.",
			},
			[]string{"status"},
		),
		EscalationCallsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "escalation_calls_total",
				Help: "Total batched calls to the external validator.",
			},
		),
		EscalationFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "escalation_failures_total",
				Help: "Total failed external validator calls.",
			},
		),
		ResolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "document_resolve_duration_seconds",
				Help:    "Wall time to resolve one document, escalation included.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
	}

	reg.MustRegister(
		m.ResultsTotal,
		m.DocumentsResolvedTotal,
		m.EscalationCallsTotal,
		m.EscalationFailuresTotal,
		m.ResolveDuration,
	)
	return m
}

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
