package model

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CollaborationType tags what kind of collaboration the requester is after.
// It is accepted and carried through but does not currently alter scoring
// weights or filtering.
type CollaborationType string

// Collaboration types.
const (
	CollabGigs       CollaborationType = "gigs"
	CollabProduction CollaborationType = "production"
	CollabNetworking CollaborationType = "networking"
	CollabAll        CollaborationType = "all"
)

// Preferences narrows the candidate pool for one matching request. All
// fields are optional; absent fields mean "no constraint". A Preferences
// value is immutable for the duration of a call.
type Preferences struct {
	// MaxDistanceKM is accepted for forward compatibility but does not
	// affect scoring or filtering yet.
	MaxDistanceKM *int `json:"max_distance_km,omitempty"`

	// Genres filters candidates to those sharing at least one genre.
	Genres []string `json:"genres,omitempty"`

	// ExperienceLevels filters candidates to the listed tiers.
	ExperienceLevels []ExperienceLevel `json:"experience_levels,omitempty"`

	// CollaborationType is carried through unchanged.
	CollaborationType CollaborationType `json:"collaboration_type,omitempty"`
}

// Fingerprint returns a deterministic short hash of the preference set.
// List fields are sorted before hashing so that logically equal preference
// sets produce the same fingerprint regardless of field order.
func (p Preferences) Fingerprint() string {
	genres := make([]string, len(p.Genres))
	copy(genres, p.Genres)
	sort.Strings(genres)

	levels := make([]string, len(p.ExperienceLevels))
	for i, l := range p.ExperienceLevels {
		levels[i] = string(l)
	}
	sort.Strings(levels)

	dist := ""
	if p.MaxDistanceKM != nil {
		dist = strconv.Itoa(*p.MaxDistanceKM)
	}

	canonical := strings.Join([]string{
		strings.Join(genres, ","),
		strings.Join(levels, ","),
		dist,
		string(p.CollaborationType),
	}, "|")

	h := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("%x", h[:8])
}
