package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/djelite/matchengine/internal/domain/model"
)

// Activity bucket boundaries.
const (
	day = 24 * time.Hour
)

// GenreOverlap returns |G1 ∩ G2| / max(|G1|, |G2|, 1). Genres compare
// case-insensitively and duplicates within one profile are ignored.
func GenreOverlap(requester, candidate []string) float64 {
	r := foldSet(requester)
	c := foldSet(candidate)

	shared := 0
	for g := range r {
		if c[g] {
			shared++
		}
	}

	denom := len(r)
	if len(c) > denom {
		denom = len(c)
	}
	if denom < 1 {
		denom = 1
	}
	return float64(shared) / float64(denom)
}

// SkillComplement returns |S1 \ S2| / max(|S1| + |S2|, 1), where S1 is the
// requester's skill set. Non-overlapping skills score higher: a pairing
// where each side can teach the other something is preferred over a
// mirror-image one.
func SkillComplement(requester, candidate []string) float64 {
	r := foldSet(requester)
	c := foldSet(candidate)

	distinct := 0
	for s := range r {
		if !c[s] {
			distinct++
		}
	}

	denom := len(r) + len(c)
	if denom < 1 {
		denom = 1
	}
	return float64(distinct) / float64(denom)
}

// ExperienceAffinity returns max(0, 1 − 0.25·|idx(r) − idx(c)|): adjacent
// tiers still pair well, opposite ends of the scale do not.
func ExperienceAffinity(requester, candidate model.ExperienceLevel) float64 {
	diff := requester.Index() - candidate.Index()
	if diff < 0 {
		diff = -diff
	}
	return math.Max(0, 1-0.25*float64(diff))
}

// Geographic scores two free-text locations on a coarse textual scale:
// exact match 1.0, substring containment 0.8, otherwise 0.3 per shared
// token (length > 2) capped at 0.6. A missing location on either side is
// neutral (0.5), not a penalty.
func Geographic(requester, candidate string) float64 {
	r := strings.ToLower(strings.TrimSpace(requester))
	c := strings.ToLower(strings.TrimSpace(candidate))

	if r == "" || c == "" {
		return 0.5
	}
	if r == c {
		return 1.0
	}
	if strings.Contains(r, c) || strings.Contains(c, r) {
		return 0.8
	}

	shared := sharedTokens(r, c)
	return math.Min(0.3*float64(shared), 0.6)
}

// Activity scores a candidate by recency of their last activity. A profile
// with no last-active timestamp scores 0.1.
func Activity(lastActive *time.Time, now time.Time) float64 {
	if lastActive == nil {
		return 0.1
	}
	age := now.Sub(*lastActive)
	switch {
	case age < day:
		return 1.0
	case age < 3*day:
		return 0.8
	case age < 7*day:
		return 0.6
	case age < 30*day:
		return 0.4
	default:
		return 0.2
	}
}

// sharedTokens counts distinct whitespace-delimited tokens longer than two
// runes that appear in both strings. Token separators beyond whitespace
// (commas) are stripped first.
func sharedTokens(a, b string) int {
	tokens := func(s string) map[string]bool {
		set := make(map[string]bool)
		for _, tok := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
			if len([]rune(tok)) > 2 {
				set[tok] = true
			}
		}
		return set
	}

	ta := tokens(a)
	tb := tokens(b)
	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}
	return shared
}

// foldSet lower-cases and deduplicates a string slice into set form.
func foldSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		it = strings.ToLower(strings.TrimSpace(it))
		if it != "" {
			set[it] = true
		}
	}
	return set
}
