// Package scoring computes multi-factor compatibility scores between DJ
// profiles. Sub-score math is pure; only the social dimension touches the
// profile store, through the narrow MutualCounter interface.
package scoring

import (
	"context"
	"math"
	"time"

	"github.com/djelite/matchengine/internal/domain/model"
)

// Default scoring configuration constants. The weights are fixed product
// constants, not tuned values.
const (
	defaultMusicalWeight    = 0.4
	defaultGeographicWeight = 0.2
	defaultSocialWeight     = 0.3
	defaultActivityWeight   = 0.1

	defaultGenreWeight      = 0.5
	defaultSkillWeight      = 0.3
	defaultExperienceWeight = 0.2

	defaultSocialLookupLimit = 10

	// Documented fallback sub-scores when a dimension cannot be computed.
	defaultSocialScore = 0.1

	maxTotal = 100
)

// Weights combines the four dimension weights into the total score.
type Weights struct {
	Musical    float64
	Geographic float64
	Social     float64
	Activity   float64
}

// MusicalWeights combines the three musical sub-factors.
type MusicalWeights struct {
	Genre      float64
	Skill      float64
	Experience float64
}

// MutualCounter reports how many mutual-match relationships involve a
// profile. Implementations may hit the network; errors are absorbed by the
// scorer and collapse to the documented default.
type MutualCounter interface {
	CountMutualConnections(ctx context.Context, profileID string, limit int) (int, error)
}

// Scorer scores one candidate against a requester. Implementations must
// not fail for valid profiles; partial sub-score failures degrade to their
// documented defaults instead.
type Scorer interface {
	Score(ctx context.Context, requester, candidate model.Profile) model.MatchScore
}

// MultiFactorScorer implements Scorer over the four compatibility
// dimensions: musical, geographic, social, activity.
type MultiFactorScorer struct {
	weights           Weights
	musicalWeights    MusicalWeights
	mutuals           MutualCounter
	socialLookupLimit int
	now               func() time.Time
}

// NewMultiFactorScorer creates a scorer with the default weights. The
// mutual counter may be nil, in which case the social sub-score always
// takes its default value.
func NewMultiFactorScorer(mutuals MutualCounter, opts ...Option) *MultiFactorScorer {
	s := &MultiFactorScorer{
		weights: Weights{
			Musical:    defaultMusicalWeight,
			Geographic: defaultGeographicWeight,
			Social:     defaultSocialWeight,
			Activity:   defaultActivityWeight,
		},
		musicalWeights: MusicalWeights{
			Genre:      defaultGenreWeight,
			Skill:      defaultSkillWeight,
			Experience: defaultExperienceWeight,
		},
		mutuals:           mutuals,
		socialLookupLimit: defaultSocialLookupLimit,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes the weighted total and reasons for a candidate. The
// social lookup is the only fallible step and falls back to its default
// score on any error, so Score itself never fails.
func (s *MultiFactorScorer) Score(ctx context.Context, requester, candidate model.Profile) model.MatchScore {
	b := model.Breakdown{
		Musical:    s.musical(requester, candidate),
		Geographic: Geographic(requester.Location, candidate.Location),
		Social:     s.social(ctx, requester),
		Activity:   Activity(candidate.LastActive, s.now()),
	}

	weighted := s.weights.Musical*b.Musical +
		s.weights.Geographic*b.Geographic +
		s.weights.Social*b.Social +
		s.weights.Activity*b.Activity

	total := int(math.Round(maxTotal * weighted))
	if total < 0 {
		total = 0
	}
	if total > maxTotal {
		total = maxTotal
	}

	return model.MatchScore{
		ProfileID: candidate.ID,
		Total:     total,
		Reasons:   buildReasons(requester, candidate, b),
		Breakdown: b,
	}
}

func (s *MultiFactorScorer) musical(requester, candidate model.Profile) float64 {
	return s.musicalWeights.Genre*GenreOverlap(requester.Genres, candidate.Genres) +
		s.musicalWeights.Skill*SkillComplement(requester.Skills, candidate.Skills) +
		s.musicalWeights.Experience*ExperienceAffinity(requester.Experience, candidate.Experience)
}

// social is the single boundary where lookup failures collapse to the
// documented default. It must never propagate an error.
func (s *MultiFactorScorer) social(ctx context.Context, requester model.Profile) float64 {
	if s.mutuals == nil {
		return defaultSocialScore
	}
	count, err := s.mutuals.CountMutualConnections(ctx, requester.ID, s.socialLookupLimit)
	if err != nil {
		return defaultSocialScore
	}
	return math.Min(0.1*float64(count), 0.5)
}
