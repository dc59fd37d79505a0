package scoring

import (
	"fmt"
	"strings"

	"github.com/djelite/matchengine/internal/domain/model"
)

// Reason thresholds and cap. Rules are evaluated in a fixed order and the
// first maxReasons that fire win.
const (
	maxReasons = 3

	musicalReasonThreshold    = 0.7
	geographicReasonThreshold = 0.8
	socialReasonThreshold     = 0.5
	activityReasonThreshold   = 0.8

	maxSharedGenresShown = 2
)

// buildReasons produces up to three human-readable match reasons from the
// breakdown, in a fixed rule order so output is stable for a given pair.
func buildReasons(requester, candidate model.Profile, b model.Breakdown) []string {
	reasons := make([]string, 0, maxReasons)

	if b.Musical > musicalReasonThreshold {
		if shared := sharedGenres(requester.Genres, candidate.Genres); len(shared) > 0 {
			if len(shared) > maxSharedGenresShown {
				shared = shared[:maxSharedGenresShown]
			}
			reasons = append(reasons, fmt.Sprintf("Both love %s", strings.Join(shared, " & ")))
		}
	}

	// The location rule fires at the containment tier (0.8) and above, so
	// "Berlin, Germany" vs "Berlin" still reads as the same scene.
	if len(reasons) < maxReasons && b.Geographic >= geographicReasonThreshold && candidate.Location != "" {
		reasons = append(reasons, fmt.Sprintf("Both based in %s", candidate.Location))
	}

	// The social sub-score is capped at exactly 0.5, so the rule fires at
	// the cap (five or more mutual connections).
	if len(reasons) < maxReasons && b.Social >= socialReasonThreshold {
		reasons = append(reasons, "You have mutual connections")
	}

	if len(reasons) < maxReasons && b.Activity > activityReasonThreshold {
		reasons = append(reasons, "Very active on the platform")
	}

	if len(reasons) < maxReasons {
		if skill := firstTeachableSkill(requester.Skills, candidate.Skills); skill != "" {
			reasons = append(reasons, fmt.Sprintf("Can teach you %s", skill))
		}
	}

	return reasons
}

// sharedGenres returns genres present on both sides, in the requester's
// declaration order, with the requester's original casing.
func sharedGenres(requester, candidate []string) []string {
	cset := foldSet(candidate)
	seen := make(map[string]bool, len(requester))
	var shared []string
	for _, g := range requester {
		key := strings.ToLower(strings.TrimSpace(g))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if cset[key] {
			shared = append(shared, g)
		}
	}
	return shared
}

// firstTeachableSkill returns the first candidate skill the requester
// lacks, in the candidate's declaration order.
func firstTeachableSkill(requesterSkills, candidateSkills []string) string {
	rset := foldSet(requesterSkills)
	for _, s := range candidateSkills {
		key := strings.ToLower(strings.TrimSpace(s))
		if key != "" && !rset[key] {
			return s
		}
	}
	return ""
}
