package scoring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/djelite/matchengine/internal/domain/model"
	"github.com/djelite/matchengine/internal/domain/scoring"
)

type stubMutuals struct {
	count int
	err   error
	calls int
}

func (s *stubMutuals) CountMutualConnections(_ context.Context, _ string, limit int) (int, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	if s.count > limit {
		return limit, nil
	}
	return s.count, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSubScores(t *testing.T) {
	Convey("Given the pure sub-score functions", t, func() {
		Convey("Genre overlap divides shared genres by the larger set", func() {
			So(scoring.GenreOverlap([]string{"House", "Techno"}, []string{"Techno", "Trance"}), ShouldEqual, 0.5)
			So(scoring.GenreOverlap([]string{"House"}, []string{"House"}), ShouldEqual, 1.0)
			So(scoring.GenreOverlap(nil, nil), ShouldEqual, 0)
			So(scoring.GenreOverlap([]string{"House"}, nil), ShouldEqual, 0)
		})

		Convey("Genre overlap is case-insensitive and ignores duplicates", func() {
			So(scoring.GenreOverlap([]string{"house", "HOUSE"}, []string{"House"}), ShouldEqual, 1.0)
		})

		Convey("More shared genres never lowers the overlap", func() {
			base := scoring.GenreOverlap([]string{"a", "b", "c"}, []string{"a", "x", "y"})
			more := scoring.GenreOverlap([]string{"a", "b", "c"}, []string{"a", "b", "y"})
			So(more, ShouldBeGreaterThanOrEqualTo, base)
		})

		Convey("Skill complement rewards non-overlapping skills", func() {
			// Requester knows two things the candidate does not.
			So(scoring.SkillComplement([]string{"mixing", "scratching"}, []string{"production"}), ShouldAlmostEqual, 2.0/3.0)
			// Identical skill sets are not complementary at all.
			So(scoring.SkillComplement([]string{"mixing"}, []string{"mixing"}), ShouldEqual, 0)
			So(scoring.SkillComplement(nil, nil), ShouldEqual, 0)
		})

		Convey("Experience affinity decays by 0.25 per tier of distance", func() {
			So(scoring.ExperienceAffinity(model.Advanced, model.Advanced), ShouldEqual, 1.0)
			So(scoring.ExperienceAffinity(model.Beginner, model.Intermediate), ShouldEqual, 0.75)
			So(scoring.ExperienceAffinity(model.Beginner, model.Professional), ShouldEqual, 0.25)
			So(scoring.ExperienceAffinity(model.Professional, model.Beginner), ShouldEqual, 0.25)
		})

		Convey("Geographic compares locations textually", func() {
			Convey("exact match scores 1.0", func() {
				So(scoring.Geographic("Berlin", "berlin"), ShouldEqual, 1.0)
			})
			Convey("containment scores 0.8", func() {
				So(scoring.Geographic("Berlin, Germany", "Berlin"), ShouldEqual, 0.8)
				So(scoring.Geographic("Berlin", "Berlin, Germany"), ShouldEqual, 0.8)
			})
			Convey("shared tokens score 0.3 each, capped at 0.6", func() {
				So(scoring.Geographic("Friedrichshain Berlin area", "Kreuzberg Berlin area"), ShouldEqual, 0.6)
				So(scoring.Geographic("somewhere near Hamburg", "Hamburg east"), ShouldAlmostEqual, 0.3)
			})
			Convey("short tokens do not count", func() {
				So(scoring.Geographic("NY US zone9", "LA US zone7"), ShouldEqual, 0)
			})
			Convey("a missing location is neutral, not penalized", func() {
				So(scoring.Geographic("", "Berlin"), ShouldEqual, 0.5)
				So(scoring.Geographic("Berlin", ""), ShouldEqual, 0.5)
				So(scoring.Geographic("", ""), ShouldEqual, 0.5)
			})
		})

		Convey("Activity buckets by recency", func() {
			now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			at := func(age time.Duration) *time.Time {
				t := now.Add(-age)
				return &t
			}
			So(scoring.Activity(at(time.Hour), now), ShouldEqual, 1.0)
			So(scoring.Activity(at(2*24*time.Hour), now), ShouldEqual, 0.8)
			So(scoring.Activity(at(5*24*time.Hour), now), ShouldEqual, 0.6)
			So(scoring.Activity(at(20*24*time.Hour), now), ShouldEqual, 0.4)
			So(scoring.Activity(at(90*24*time.Hour), now), ShouldEqual, 0.2)
			So(scoring.Activity(nil, now), ShouldEqual, 0.1)
		})
	})
}

func TestMultiFactorScorer(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a scorer with default weights", t, func() {
		mutuals := &stubMutuals{}
		scorer := scoring.NewMultiFactorScorer(mutuals, scoring.WithClock(fixedClock(now)))

		Convey("The Berlin pairing scores 44 with exactly two reasons", func() {
			requester := model.Profile{
				ID:         "req",
				Genres:     []string{"House", "Techno"},
				Location:   "Berlin, Germany",
				Experience: model.Advanced,
			}
			candidate := model.Profile{
				ID:         "cand",
				Genres:     []string{"Techno", "Trance"},
				Location:   "Berlin",
				Experience: model.Advanced,
				LastActive: &now,
			}

			score := scorer.Score(context.Background(), requester, candidate)

			So(score.ProfileID, ShouldEqual, "cand")
			So(score.Breakdown.Musical, ShouldAlmostEqual, 0.45)
			So(score.Breakdown.Geographic, ShouldEqual, 0.8)
			So(score.Breakdown.Social, ShouldEqual, 0)
			So(score.Breakdown.Activity, ShouldEqual, 1.0)
			So(score.Total, ShouldEqual, 44)
			So(score.Reasons, ShouldResemble, []string{
				"Both based in Berlin",
				"Very active on the platform",
			})
		})

		Convey("Sub-scores and totals stay within bounds for odd profiles", func() {
			profiles := []model.Profile{
				{ID: "empty"},
				{ID: "full", Genres: []string{"a", "b", "c", "d"}, Skills: []string{"x", "y", "z"}, Experience: model.Professional, Location: "Berlin Kreuzberg underground scene", LastActive: &now},
				{ID: "odd", Genres: []string{""}, Skills: []string{" "}, Experience: model.ExperienceLevel("unknown")},
			}
			for _, requester := range profiles {
				for _, candidate := range profiles {
					score := scorer.Score(context.Background(), requester, candidate)
					So(score.Total, ShouldBeBetweenOrEqual, 0, 100)
					for _, sub := range []float64{
						score.Breakdown.Musical,
						score.Breakdown.Geographic,
						score.Breakdown.Social,
						score.Breakdown.Activity,
					} {
						So(sub, ShouldBeBetweenOrEqual, 0, 1)
					}
					So(len(score.Reasons), ShouldBeLessThanOrEqualTo, 3)
				}
			}
		})

		Convey("Mutual connections raise the social score with a 0.5 cap", func() {
			mutuals.count = 3
			score := scorer.Score(context.Background(), model.Profile{ID: "req"}, model.Profile{ID: "cand"})
			So(score.Breakdown.Social, ShouldAlmostEqual, 0.3)

			mutuals.count = 9
			score = scorer.Score(context.Background(), model.Profile{ID: "req"}, model.Profile{ID: "cand"})
			So(score.Breakdown.Social, ShouldAlmostEqual, 0.5)
		})

		Convey("A failing mutual lookup degrades to the default, never errors", func() {
			mutuals.err = errors.New("socket closed")
			score := scorer.Score(context.Background(), model.Profile{ID: "req"}, model.Profile{ID: "cand"})
			So(score.Breakdown.Social, ShouldEqual, 0.1)
		})

		Convey("A nil mutual counter also degrades to the default", func() {
			detached := scoring.NewMultiFactorScorer(nil, scoring.WithClock(fixedClock(now)))
			score := detached.Score(context.Background(), model.Profile{ID: "req"}, model.Profile{ID: "cand"})
			So(score.Breakdown.Social, ShouldEqual, 0.1)
		})
	})

	Convey("Given a scorer with overridden weights", t, func() {
		scorer := scoring.NewMultiFactorScorer(nil,
			scoring.WithClock(fixedClock(now)),
			scoring.WithWeights(scoring.Weights{Musical: 1}),
		)

		Convey("Only the musical dimension contributes to the total", func() {
			requester := model.Profile{ID: "req", Genres: []string{"House"}, Experience: model.Advanced}
			candidate := model.Profile{ID: "cand", Genres: []string{"House"}, Experience: model.Advanced, LastActive: &now}
			score := scorer.Score(context.Background(), requester, candidate)
			// musical = 0.5*1.0 + 0.3*0 + 0.2*1.0 = 0.7
			So(score.Total, ShouldEqual, 70)
		})
	})
}
