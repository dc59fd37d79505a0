package profilestore_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/djelite/matchengine/internal/adapters/profilestore"
	"github.com/djelite/matchengine/internal/domain/model"
)

func TestMemoryStore(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given a seeded in-memory profile store", t, func() {
		store := profilestore.NewMemoryStore()
		store.Put(model.Profile{ID: "a", Genres: []string{"House"}, Experience: model.Beginner, CreatedAt: base})
		store.Put(model.Profile{ID: "b", Genres: []string{"Techno"}, Experience: model.Advanced, CreatedAt: base.Add(time.Hour)})
		store.Put(model.Profile{ID: "c", Genres: []string{"House", "Techno"}, Experience: model.Professional, CreatedAt: base.Add(2 * time.Hour)})
		ctx := context.Background()

		Convey("GetProfile returns the profile or ErrNotFound", func() {
			p, err := store.GetProfile(ctx, "a")
			So(err, ShouldBeNil)
			So(p.ID, ShouldEqual, "a")

			_, err = store.GetProfile(ctx, "ghost")
			So(err, ShouldEqual, profilestore.ErrNotFound)
		})

		Convey("ListCandidates excludes the requester and honors the limit", func() {
			got, err := store.ListCandidates(ctx, "a", profilestore.Filters{}, 10)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 2)
			for _, p := range got {
				So(p.ID, ShouldNotEqual, "a")
			}

			got, err = store.ListCandidates(ctx, "a", profilestore.Filters{}, 1)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)
		})

		Convey("Genre filters keep candidates with any overlap, case-insensitively", func() {
			got, err := store.ListCandidates(ctx, "x", profilestore.Filters{Genres: []string{"house"}}, 10)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 2) // a and c
		})

		Convey("Experience filters keep only the listed tiers", func() {
			got, err := store.ListCandidates(ctx, "x", profilestore.Filters{
				ExperienceLevels: []model.ExperienceLevel{model.Advanced, model.Professional},
			}, 10)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 2) // b and c
		})

		Convey("An over-narrow filter returns an empty list, not an error", func() {
			got, err := store.ListCandidates(ctx, "x", profilestore.Filters{Genres: []string{"Polka"}}, 10)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("ListRecent orders by creation time descending", func() {
			got, err := store.ListRecent(ctx, 2)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 2)
			So(got[0].ID, ShouldEqual, "c")
			So(got[1].ID, ShouldEqual, "b")
		})

		Convey("Mutual counts are capped by the lookup limit", func() {
			store.SetMutualCount("a", 25)
			count, err := store.CountMutualConnections(ctx, "a", 10)
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 10)
		})
	})
}
