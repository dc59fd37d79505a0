package scoring

import "time"

// Option applies a configuration option to the MultiFactorScorer.
type Option func(*MultiFactorScorer)

// WithWeights overrides the four dimension weights. Weights are expected
// to sum to 1; callers passing anything else get proportionally scaled
// totals rather than an error.
func WithWeights(w Weights) Option {
	return func(s *MultiFactorScorer) {
		if w.Musical >= 0 && w.Geographic >= 0 && w.Social >= 0 && w.Activity >= 0 {
			s.weights = w
		}
	}
}

// WithMusicalWeights overrides the genre/skill/experience sub-weights.
func WithMusicalWeights(w MusicalWeights) Option {
	return func(s *MultiFactorScorer) {
		if w.Genre >= 0 && w.Skill >= 0 && w.Experience >= 0 {
			s.musicalWeights = w
		}
	}
}

// WithSocialLookupLimit bounds the mutual-connection lookup.
func WithSocialLookupLimit(limit int) Option {
	return func(s *MultiFactorScorer) {
		if limit > 0 {
			s.socialLookupLimit = limit
		}
	}
}

// WithClock sets the time source used by the activity sub-score. Intended
// for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MultiFactorScorer) {
		if now != nil {
			s.now = now
		}
	}
}
