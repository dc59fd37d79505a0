// Package metrics provides Prometheus metrics for the matching engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the engine.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	// Matching pipeline
	matchRequests     prometheus.Counter
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	cacheInvalidation prometheus.Counter
	candidatesScored  prometheus.Counter
	scoringLatency    prometheus.Histogram

	// Profile store health
	storeLatency      prometheus.Histogram
	storeErrors       prometheus.Counter
	filteredFallbacks prometheus.Counter
	degradedResponses prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "djelite",
		subsystem: "matching",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	factory := promauto.With(m.registry)

	m.matchRequests = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "requests_total",
		Help: "Total match requests served.",
	})
	m.cacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_hits_total",
		Help: "Match requests answered from the result cache.",
	})
	m.cacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_misses_total",
		Help: "Match requests that triggered a fresh scoring pass.",
	})
	m.cacheInvalidation = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_invalidations_total",
		Help: "Explicit cache invalidation calls.",
	})
	m.candidatesScored = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "candidates_scored_total",
		Help: "Candidate profiles scored across all requests.",
	})
	m.scoringLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "scoring_duration_seconds",
		Help:    "Wall time of one full candidate scoring pass.",
		Buckets: m.buckets,
	})

	m.storeLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "store_call_duration_seconds",
		Help:    "Latency of profile store calls.",
		Buckets: m.buckets,
	})
	m.storeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_errors_total",
		Help: "Failed profile store calls.",
	})
	m.filteredFallbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "filtered_fallbacks_total",
		Help: "Filtered candidate queries that fell back to an unfiltered fetch.",
	})
	m.degradedResponses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "degraded_responses_total",
		Help: "Requests answered with the unscored recency fallback.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by endpoint and method.",
		Buckets: m.buckets,
	}, []string{"endpoint", "method"})
}

// GetRegistry returns the registry backing the global manager, for the
// /healthz metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level record helpers on the global manager.

func RecordMatchRequest()      { globalManager.matchRequests.Inc() }
func RecordCacheHit()          { globalManager.cacheHits.Inc() }
func RecordCacheMiss()         { globalManager.cacheMisses.Inc() }
func RecordCacheInvalidation() { globalManager.cacheInvalidation.Inc() }
func RecordStoreError()        { globalManager.storeErrors.Inc() }
func RecordFilteredFallback()  { globalManager.filteredFallbacks.Inc() }
func RecordDegradedResponse()  { globalManager.degradedResponses.Inc() }

// RecordCandidatesScored adds n scored candidates.
func RecordCandidatesScored(n int) {
	globalManager.candidatesScored.Add(float64(n))
}

// RecordScoringDuration observes one scoring pass in seconds.
func RecordScoringDuration(seconds float64) {
	globalManager.scoringLatency.Observe(seconds)
}

// RecordStoreCallDuration observes one profile store call in seconds.
func RecordStoreCallDuration(seconds float64) {
	globalManager.storeLatency.Observe(seconds)
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes HTTP latency in seconds.
func RecordHTTPRequestDuration(endpoint, method string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
}
