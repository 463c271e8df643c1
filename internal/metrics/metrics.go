// Package metrics exposes the prometheus collectors of the service.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gator_permissions"

// Store phases observed by ObserveStore
const (
	PhaseWrite       = "write"
	PhaseWriteVerify = "write_verify"
)

// Metrics groups every collector the service records to
type Metrics struct {
	outboundRequests *prometheus.CounterVec
	outboundErrors   *prometheus.CounterVec
	outboundLatency  *prometheus.HistogramVec
	storeDuration    *prometheus.HistogramVec
	apiRequests      *prometheus.CounterVec
	apiLatency       *prometheus.HistogramVec
	revocations      *prometheus.CounterVec
	grants           *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the lazily-initialised metrics registered with the default
// prometheus registerer.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// New creates the collectors and registers them with registerer
func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		outboundRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbound",
			Name:      "requests_total",
			Help:      "Outbound data API requests segmented by path and status.",
		}, []string{"method", "path", "status"}),
		outboundErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbound",
			Name:      "errors_total",
			Help:      "Outbound data API requests that failed or returned a non-2xx status.",
		}, []string{"method", "path"}),
		outboundLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "outbound",
			Name:      "request_duration_seconds",
			Help:      "Latency of outbound data API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_duration_seconds",
			Help:      "Duration of permission store writes, with and without read-back verification.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP API requests segmented by route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP API handlers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		revocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revocations_total",
			Help:      "Revocation submissions segmented by outcome.",
		}, []string{"outcome"}),
		grants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "granted_permissions_total",
			Help:      "Granted permissions persisted, segmented by outcome.",
		}, []string{"outcome"}),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.outboundRequests,
			m.outboundErrors,
			m.outboundLatency,
			m.storeDuration,
			m.apiRequests,
			m.apiLatency,
			m.revocations,
			m.grants,
		)
	}
	return m
}

// RecordRequestDuration records outbound request latency
func (m *Metrics) RecordRequestDuration(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.outboundLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRequestCount counts an outbound response
func (m *Metrics) RecordRequestCount(method, path string, statusCode int) {
	if m == nil {
		return
	}
	m.outboundRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
}

// RecordRequestError counts a failed outbound request
func (m *Metrics) RecordRequestError(method, path string) {
	if m == nil {
		return
	}
	m.outboundErrors.WithLabelValues(method, path).Inc()
}

// ObserveStore records the duration of a store phase
func (m *Metrics) ObserveStore(phase string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// ObserveAPI records a handled API request
func (m *Metrics) ObserveAPI(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRevocation counts a revocation attempt; outcome is "revoked" or an error kind
func (m *Metrics) RecordRevocation(outcome string) {
	if m == nil {
		return
	}
	m.revocations.WithLabelValues(outcome).Inc()
}

// RecordGrants counts persisted permissions
func (m *Metrics) RecordGrants(outcome string, count int) {
	if m == nil {
		return
	}
	m.grants.WithLabelValues(outcome).Add(float64(count))
}
