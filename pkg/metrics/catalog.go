package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for catalog requests.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CatalogMetrics records every call made against the catalog REST API.
type CatalogMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewCatalogMetrics registers the catalog request metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Latency of catalog API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Catalog API requests by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration, requests)
	return &CatalogMetrics{
		duration: duration,
		requests: requests,
	}
}

// Observe records one finished request.
func (c *CatalogMetrics) Observe(operation string, duration time.Duration, err error) {
	if c == nil || c.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	c.duration.WithLabelValues(op).Observe(duration.Seconds())
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.requests.WithLabelValues(op, outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
