package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRequests counts handled requests by route pattern, method and status.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "movie_catalog_http_requests_total",
		Help: "Total number of HTTP requests handled",
	},
	[]string{"route", "method", "status"},
)

// HTTPLatency records request latency by route pattern and method.
var HTTPLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "movie_catalog_http_request_duration_seconds",
		Help:    "Latency in seconds of HTTP requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency)
}
