// Package app provides the matching engine façade that orchestrates the
// profile store, the scorer, and the result cache.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/djelite/matchengine/internal/adapters/matchcache"
	"github.com/djelite/matchengine/internal/adapters/profilestore"
	"github.com/djelite/matchengine/internal/domain/model"
	"github.com/djelite/matchengine/internal/domain/scoring"
	"github.com/djelite/matchengine/pkg/logger"
	"github.com/djelite/matchengine/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultCandidateLimit  = 50
	defaultFallbackLimit   = 20
	defaultOverfetchFactor = 2
	defaultScoreWorkers    = 8
	defaultStoreTimeout    = 2 * time.Second
	defaultStoreRateLimit  = rate.Limit(200)
	defaultStoreRateBurst  = 50
	defaultMatchLimit      = 10

	breakerMaxRequests  = 3
	breakerOpenInterval = 30 * time.Second
	breakerMinFailures  = 5
)

// ScorerFactory builds a scorer for one request, bound to a per-request
// mutual counter so the social lookup happens at most once per call.
type ScorerFactory func(mutuals scoring.MutualCounter) scoring.Scorer

// Engine computes, caches, and serves ranked DJ matches. One Engine is
// constructed per process and shared across requests; the cache it holds
// is the only shared mutable state.
type Engine struct {
	store profilestore.Store
	cache matchcache.Cache

	scorerFactory ScorerFactory
	breaker       *gobreaker.CircuitBreaker[any]
	limiter       *rate.Limiter

	cacheTTL        time.Duration
	candidateLimit  int
	fallbackLimit   int
	overfetchFactor int
	scoreWorkers    int
	storeTimeout    time.Duration

	log logger.Logger
}

// New constructs an Engine over the given store and cache.
func New(store profilestore.Store, cache matchcache.Cache, opts ...Option) *Engine {
	e := &Engine{
		store:           store,
		cache:           cache,
		cacheTTL:        matchcache.DefaultTTL,
		candidateLimit:  defaultCandidateLimit,
		fallbackLimit:   defaultFallbackLimit,
		overfetchFactor: defaultOverfetchFactor,
		scoreWorkers:    defaultScoreWorkers,
		storeTimeout:    defaultStoreTimeout,
		limiter:         rate.NewLimiter(defaultStoreRateLimit, defaultStoreRateBurst),
		log:             logger.Get().Named("engine"),
	}
	e.scorerFactory = func(mutuals scoring.MutualCounter) scoring.Scorer {
		return scoring.NewMultiFactorScorer(mutuals)
	}

	for _, opt := range opts {
		opt(e)
	}

	e.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "profile-store",
		MaxRequests: breakerMaxRequests,
		Timeout:     breakerOpenInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMinFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.log.Warn(context.Background(), "circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})

	return e
}

// GetOptimalMatches returns up to limit candidates ranked by compatibility
// with the requester, hydrated with current profile data. Results are
// memoized per (requester, preferences) for the cache TTL. When the
// profile store is unavailable the engine answers with an unscored
// recency-ordered list instead of an error; only a missing requester
// profile is surfaced as ErrRequesterNotFound.
func (e *Engine) GetOptimalMatches(ctx context.Context, requesterID string, prefs model.Preferences, limit int) ([]model.Match, error) {
	if limit < 1 {
		limit = defaultMatchLimit
	}
	metrics.RecordMatchRequest()

	key := matchcache.Key(requesterID, prefs.Fingerprint())
	if scores, ok := e.cache.Get(ctx, key); ok {
		metrics.RecordCacheHit()
		return e.hydrate(ctx, scores, limit), nil
	}
	metrics.RecordCacheMiss()

	requester, err := e.getProfile(ctx, requesterID)
	if errors.Is(err, profilestore.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRequesterNotFound, requesterID)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("match computation cancelled: %w", ctx.Err())
		}
		return e.degraded(ctx, limit), nil
	}

	candidates, err := e.listCandidates(ctx, requesterID, prefs)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("match computation cancelled: %w", ctx.Err())
		}
		return e.degraded(ctx, limit), nil
	}

	scores := e.scoreAll(ctx, requester, candidates)
	if ctx.Err() != nil {
		// Cancelled mid-scoring: a partial ranking must never reach the
		// cache.
		return nil, fmt.Errorf("match computation cancelled: %w", ctx.Err())
	}

	e.cache.Put(ctx, key, scores, e.cacheTTL)
	return e.hydrate(ctx, scores, limit), nil
}

// ClearCache drops cached rankings for one requester, or the whole cache
// when requesterID is empty.
func (e *Engine) ClearCache(ctx context.Context, requesterID string) {
	e.cache.Invalidate(ctx, requesterID)
	metrics.RecordCacheInvalidation()
	e.log.Info(ctx, "match cache invalidated", logger.String("requester", requesterID))
}

// Stats returns engine configuration and breaker state for monitoring.
func (e *Engine) Stats() map[string]interface{} {
	return map[string]interface{}{
		"candidateLimit":  e.candidateLimit,
		"fallbackLimit":   e.fallbackLimit,
		"overfetchFactor": e.overfetchFactor,
		"scoreWorkers":    e.scoreWorkers,
		"cacheTTLSeconds": int(e.cacheTTL.Seconds()),
		"breakerState":    e.breaker.State().String(),
	}
}

// listCandidates fetches the filtered candidate pool, falling back to a
// smaller unfiltered fetch when the filtered query itself fails. An empty
// filtered result is a valid answer, not a failure.
func (e *Engine) listCandidates(ctx context.Context, requesterID string, prefs model.Preferences) ([]model.Profile, error) {
	filters := profilestore.Filters{
		Genres:           prefs.Genres,
		ExperienceLevels: prefs.ExperienceLevels,
	}

	candidates, err := guarded(ctx, e, func(ctx context.Context) ([]model.Profile, error) {
		return e.store.ListCandidates(ctx, requesterID, filters, e.candidateLimit)
	})
	if err == nil {
		return candidates, nil
	}

	if !filters.Empty() {
		metrics.RecordFilteredFallback()
		e.log.Warn(ctx, "filtered candidate query failed, retrying unfiltered",
			logger.String("requester", requesterID),
			logger.Error(err),
		)
		return guarded(ctx, e, func(ctx context.Context) ([]model.Profile, error) {
			return e.store.ListCandidates(ctx, requesterID, profilestore.Filters{}, e.fallbackLimit)
		})
	}
	return nil, err
}

// scoreAll scores every candidate against the requester using a bounded
// worker fan-out. Candidates have no ordering dependency, so results are
// written by index and sorted afterwards: total descending, ties broken by
// candidate id for reproducible pagination.
func (e *Engine) scoreAll(ctx context.Context, requester model.Profile, candidates []model.Profile) []model.MatchScore {
	start := time.Now()
	defer func() {
		metrics.RecordScoringDuration(time.Since(start).Seconds())
		metrics.RecordCandidatesScored(len(candidates))
	}()

	scorer := e.scorerFactory(&memoCounter{engine: e})

	results := make([]model.MatchScore, len(candidates))
	workers := e.scoreWorkers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = scorer.Score(ctx, requester, candidates[i])
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Total != results[j].Total {
			return results[i].Total > results[j].Total
		}
		return results[i].ProfileID < results[j].ProfileID
	})
	return results
}

// hydrate resolves current profile data for up to overfetch×limit cached
// entries, preserving ranking order, and returns the first limit matches.
// Profiles that vanished since scoring are skipped with a log line.
func (e *Engine) hydrate(ctx context.Context, scores []model.MatchScore, limit int) []model.Match {
	take := limit * e.overfetchFactor
	if take > len(scores) {
		take = len(scores)
	}

	matches := make([]model.Match, 0, limit)
	for _, score := range scores[:take] {
		if len(matches) >= limit {
			break
		}
		profile, err := e.getProfile(ctx, score.ProfileID)
		if err != nil {
			e.log.Warn(ctx, "cached candidate could not be hydrated",
				logger.String("profile", score.ProfileID),
				logger.Error(err),
			)
			continue
		}
		s := score
		matches = append(matches, model.Match{Profile: profile, Score: &s})
	}
	return matches
}

// degraded answers with the most recently created profiles, unscored.
// Showing something beats showing nothing in a discovery feed; if even the
// recency query fails the response is an empty list, still not an error.
func (e *Engine) degraded(ctx context.Context, limit int) []model.Match {
	metrics.RecordDegradedResponse()

	recent, err := guarded(ctx, e, func(ctx context.Context) ([]model.Profile, error) {
		return e.store.ListRecent(ctx, limit)
	})
	if err != nil {
		e.log.Error(ctx, "degraded fallback failed, returning empty feed", logger.Error(err))
		return []model.Match{}
	}

	matches := make([]model.Match, 0, len(recent))
	for _, p := range recent {
		matches = append(matches, model.Match{Profile: p})
	}
	e.log.Warn(ctx, "served degraded match feed", logger.Int("profiles", len(matches)))
	return matches
}

func (e *Engine) getProfile(ctx context.Context, id string) (model.Profile, error) {
	return guarded(ctx, e, func(ctx context.Context) (model.Profile, error) {
		return e.store.GetProfile(ctx, id)
	})
}

func (e *Engine) countMutuals(ctx context.Context, profileID string, limit int) (int, error) {
	return guarded(ctx, e, func(ctx context.Context) (int, error) {
		return e.store.CountMutualConnections(ctx, profileID, limit)
	})
}

// guarded runs one profile store call through the rate limiter, a per-call
// timeout, and the circuit breaker, recording latency and errors.
func guarded[T any](ctx context.Context, e *Engine, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if err := e.limiter.Wait(ctx); err != nil {
		return zero, fmt.Errorf("store call rate limit: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	start := time.Now()
	var notFound bool
	out, err := e.breaker.Execute(func() (any, error) {
		v, err := fn(callCtx)
		// ErrNotFound is a valid answer, not a store failure; it must not
		// trip the breaker.
		if errors.Is(err, profilestore.ErrNotFound) {
			notFound = true
			return v, nil
		}
		return v, err
	})
	metrics.RecordStoreCallDuration(time.Since(start).Seconds())

	if err != nil {
		metrics.RecordStoreError()
		return zero, err
	}
	if notFound {
		return zero, profilestore.ErrNotFound
	}
	result, _ := out.(T)
	return result, nil
}

// memoCounter memoizes the mutual-connection lookup for one request so a
// fifty-candidate scoring pass costs a single store call.
type memoCounter struct {
	engine *Engine
	once   sync.Once
	count  int
	err    error
}

func (m *memoCounter) CountMutualConnections(ctx context.Context, profileID string, limit int) (int, error) {
	m.once.Do(func() {
		m.count, m.err = m.engine.countMutuals(ctx, profileID, limit)
	})
	return m.count, m.err
}
