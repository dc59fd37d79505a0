// Package model contains domain models passed between layers.
package model

import "time"

// ExperienceLevel is a DJ's self-reported experience tier.
type ExperienceLevel string

// Experience tiers, ordered from least to most experienced.
const (
	Beginner     ExperienceLevel = "beginner"
	Intermediate ExperienceLevel = "intermediate"
	Advanced     ExperienceLevel = "advanced"
	Professional ExperienceLevel = "professional"
)

// Index maps an experience level onto the 0..3 scale used by the
// experience sub-score. Unknown levels map to 0 (treated as beginner).
func (l ExperienceLevel) Index() int {
	switch l {
	case Beginner:
		return 0
	case Intermediate:
		return 1
	case Advanced:
		return 2
	case Professional:
		return 3
	default:
		return 0
	}
}

// Valid reports whether l is one of the known tiers.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case Beginner, Intermediate, Advanced, Professional:
		return true
	}
	return false
}

// Profile is a snapshot of a DJ's public matching attributes. Profiles are
// owned by the profile store; the engine only reads them.
type Profile struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"display_name,omitempty"`
	Genres      []string        `json:"genres"`
	Skills      []string        `json:"skills"`
	Experience  ExperienceLevel `json:"experience"`
	Location    string          `json:"location,omitempty"`
	LastActive  *time.Time      `json:"last_active,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Breakdown holds the four raw compatibility sub-scores, each in [0,1].
type Breakdown struct {
	Musical    float64 `json:"musical"`
	Geographic float64 `json:"geographic"`
	Social     float64 `json:"social"`
	Activity   float64 `json:"activity"`
}

// MatchScore is the result of scoring one candidate against one requester.
// It lives only inside cache entries and hydrated responses.
type MatchScore struct {
	ProfileID string    `json:"profile_id"`
	Total     int       `json:"total"`
	Reasons   []string  `json:"reasons"`
	Breakdown Breakdown `json:"breakdown"`
}

// Match is a hydrated candidate: full profile data joined with its score.
// Score is nil on the degraded (unscored) fallback path.
type Match struct {
	Profile Profile     `json:"profile"`
	Score   *MatchScore `json:"score,omitempty"`
}
