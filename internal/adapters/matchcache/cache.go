// Package matchcache memoizes ranked match results per requester and
// preference set with a fixed TTL. Entries are either absent, valid, or
// stale; stale entries are treated as absent and never served.
package matchcache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/djelite/matchengine/internal/domain/model"
)

// DefaultTTL is how long a ranked result set stays valid.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "matches:"

// Cache stores ranked MatchScore lists keyed by requester and preference
// fingerprint. Implementations must isolate keys: concurrent writes for
// different requesters never interfere, and same-key races resolve
// last-write-wins.
type Cache interface {
	// Get returns the ranked list for key, or false if absent or stale.
	Get(ctx context.Context, key string) ([]model.MatchScore, bool)

	// Put stores the ranked list with expiry now + ttl.
	Put(ctx context.Context, key string, scores []model.MatchScore, ttl time.Duration)

	// Invalidate removes all entries scoped to requesterID. An empty
	// requesterID clears the whole cache.
	Invalidate(ctx context.Context, requesterID string)
}

// Key builds the cache key for a requester and preference fingerprint.
func Key(requesterID, fingerprint string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, requesterID, fingerprint)
}

// requesterScope returns the key prefix covering every preference set of
// one requester.
func requesterScope(requesterID string) string {
	return keyPrefix + requesterID + ":"
}

// scopedTo reports whether key belongs to requesterID.
func scopedTo(key, requesterID string) bool {
	return strings.HasPrefix(key, requesterScope(requesterID))
}
