// Package profilestore defines read access to DJ profiles. Profiles are
// owned by an external system; the matching engine only consumes
// snapshots through the Store interface and never writes profile data.
package profilestore

import (
	"context"

	"github.com/djelite/matchengine/internal/domain/model"
)

// Filters narrows a candidate listing at the query level.
type Filters struct {
	// Genres keeps candidates sharing at least one of these genres.
	Genres []string

	// ExperienceLevels keeps candidates in one of these tiers.
	ExperienceLevels []model.ExperienceLevel
}

// Empty reports whether the filter set places no constraint.
func (f Filters) Empty() bool {
	return len(f.Genres) == 0 && len(f.ExperienceLevels) == 0
}

// Store provides read access to profile state.
type Store interface {
	// GetProfile returns a profile by id, or ErrNotFound.
	GetProfile(ctx context.Context, id string) (model.Profile, error)

	// ListCandidates returns up to limit profiles excluding excludeID,
	// narrowed by filters where the backend supports them.
	ListCandidates(ctx context.Context, excludeID string, filters Filters, limit int) ([]model.Profile, error)

	// CountMutualConnections counts mutual-match relationships involving
	// profileID, scanning at most limit rows.
	CountMutualConnections(ctx context.Context, profileID string, limit int) (int, error)

	// ListRecent returns up to limit profiles ordered by creation time
	// descending. Used by the degraded discovery fallback.
	ListRecent(ctx context.Context, limit int) ([]model.Profile, error)
}
