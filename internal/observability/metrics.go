package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	portalRequestsTotal  *prometheus.CounterVec
	portalLatencySeconds *prometheus.HistogramVec
	portalErrorsTotal    *prometheus.CounterVec
	uploadOutcomesTotal  *prometheus.CounterVec
	uploadLatencySeconds prometheus.Histogram
	analyticsCacheTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the
// portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		portalRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_requests_total",
			Help: "Total number of portal API requests served.",
		}, []string{"method", "route", "status"})

		portalLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_latency_seconds",
			Help:    "Latency distribution for portal API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		portalErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_errors_total",
			Help: "Total number of error responses returned by portal endpoints.",
		}, []string{"method", "route", "status"})

		uploadOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_outcomes_total",
			Help: "Presentation uploads partitioned by acceptance outcome.",
		}, []string{"outcome"})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "upload_latency_seconds",
			Help:    "End-to-end latency of presentation uploads.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		analyticsCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_cache_total",
			Help: "Cache lookups performed by the staff analytics service.",
		}, []string{"result"})

		prometheus.MustRegister(
			portalRequestsTotal,
			portalLatencySeconds,
			portalErrorsTotal,
			uploadOutcomesTotal,
			uploadLatencySeconds,
			analyticsCacheTotal,
		)
	})
}

// PortalRequests exposes the counter for portal requests.
func PortalRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return portalRequestsTotal
}

// PortalLatency exposes the latency histogram for portal requests.
func PortalLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return portalLatencySeconds
}

// PortalErrors exposes the counter for portal error responses.
func PortalErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return portalErrorsTotal
}

// UploadOutcomes exposes the counter for upload accept/reject outcomes.
func UploadOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadOutcomesTotal
}

// UploadLatency exposes the histogram tracking upload duration.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}

// AnalyticsCache exposes the counter for analytics cache hits and misses.
func AnalyticsCache() *prometheus.CounterVec {
	RegisterMetrics()
	return analyticsCacheTotal
}
