// Package metrics provides Prometheus instrumentation for the TrieRoute framework.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records per-request metrics into its own Prometheus registry.
// The router observes every dispatch through it when metrics are enabled.
type Collector struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	responseBytes *prometheus.CounterVec
}

// NewCollector creates a Collector with its metrics registered under the
// given namespace. An empty namespace is valid and yields unprefixed names.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of dispatched HTTP requests.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of dispatched HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		responseBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_response_bytes_total",
			Help:      "Total number of response body bytes written.",
		}, []string{"method", "path"}),
	}

	c.registry.MustRegister(c.requests, c.duration, c.responseBytes)
	return c
}

// Observe records the outcome of one dispatched request.
func (c *Collector) Observe(method, path string, status int, duration time.Duration, bytes int64) {
	code := strconv.Itoa(status)
	c.requests.WithLabelValues(method, path, code).Inc()
	c.duration.WithLabelValues(method, path).Observe(duration.Seconds())
	c.responseBytes.WithLabelValues(method, path).Add(float64(bytes))
}

// Registry exposes the underlying Prometheus registry, e.g. for registering
// additional application metrics alongside the router's.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler that serves the collector's metrics in
// Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
