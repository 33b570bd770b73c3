package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of every HTTP handler, labelled by route template
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "segreco_http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Total number of HTTP requests served
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segreco_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	initOnce sync.Once
)

// Init registers the HTTP collectors on the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestDuration,
			HTTPRequests,
		)
	})
}
