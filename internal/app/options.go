package app

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/djelite/matchengine/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithCacheTTL sets how long ranked results stay valid.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.cacheTTL = ttl
		}
	}
}

// WithCandidateLimit bounds the filtered candidate fetch.
func WithCandidateLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.candidateLimit = limit
		}
	}
}

// WithFallbackLimit bounds the unfiltered fetch used when the filtered
// query fails.
func WithFallbackLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.fallbackLimit = limit
		}
	}
}

// WithOverfetchFactor sets how many cached entries are hydrated relative
// to the requested page size.
func WithOverfetchFactor(factor int) Option {
	return func(e *Engine) {
		if factor > 0 {
			e.overfetchFactor = factor
		}
	}
}

// WithScoreWorkers caps the scoring fan-out per request.
func WithScoreWorkers(workers int) Option {
	return func(e *Engine) {
		if workers > 0 {
			e.scoreWorkers = workers
		}
	}
}

// WithStoreTimeout bounds each profile store call.
func WithStoreTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		if timeout > 0 {
			e.storeTimeout = timeout
		}
	}
}

// WithStoreRateLimit throttles profile store calls across all requests.
func WithStoreRateLimit(perSecond float64, burst int) Option {
	return func(e *Engine) {
		if perSecond > 0 && burst > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithScorerFactory replaces how per-request scorers are built. Intended
// for tests that need deterministic clocks or fixed weights.
func WithScorerFactory(factory ScorerFactory) Option {
	return func(e *Engine) {
		if factory != nil {
			e.scorerFactory = factory
		}
	}
}
