package profilestore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/djelite/matchengine/internal/domain/model"
)

// MemoryStore is an in-memory Store used in tests and store-less runs.
// It applies the same filter semantics as the Postgres implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]model.Profile
	mutuals  map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]model.Profile),
		mutuals:  make(map[string]int),
	}
}

// Put inserts or replaces a profile.
func (m *MemoryStore) Put(p model.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

// SetMutualCount sets the mutual-connection count reported for a profile.
func (m *MemoryStore) SetMutualCount(profileID string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutuals[profileID] = count
}

// GetProfile returns a profile by id, or ErrNotFound.
func (m *MemoryStore) GetProfile(_ context.Context, id string) (model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return model.Profile{}, ErrNotFound
	}
	return p, nil
}

// ListCandidates returns up to limit profiles excluding excludeID, ordered
// by id for determinism, narrowed by filters.
func (m *MemoryStore) ListCandidates(_ context.Context, excludeID string, filters Filters, limit int) ([]model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		if id != excludeID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var out []model.Profile
	for _, id := range ids {
		p := m.profiles[id]
		if !matchesFilters(p, filters) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// CountMutualConnections returns the configured mutual count, capped at
// limit.
func (m *MemoryStore) CountMutualConnections(_ context.Context, profileID string, limit int) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := m.mutuals[profileID]
	if limit > 0 && count > limit {
		count = limit
	}
	return count, nil
}

// ListRecent returns up to limit profiles by creation time descending,
// ties broken by id.
func (m *MemoryStore) ListRecent(_ context.Context, limit int) ([]model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matchesFilters(p model.Profile, f Filters) bool {
	if len(f.Genres) > 0 && !sharesGenre(p.Genres, f.Genres) {
		return false
	}
	if len(f.ExperienceLevels) > 0 {
		ok := false
		for _, l := range f.ExperienceLevels {
			if p.Experience == l {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func sharesGenre(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, g := range have {
		set[strings.ToLower(g)] = true
	}
	for _, g := range want {
		if set[strings.ToLower(g)] {
			return true
		}
	}
	return false
}
