package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/eventwise/internal/adapters/repository"
	"github.com/okian/eventwise/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const catalogYAML = `
events:
  - id: "e1"
    title: "Advanced Calculus Workshop"
    description: "Limits and series"
    category: "Mathematics"
    tags: ["Mathematics", "Calculus"]
    capacity: 30
    has_livestream: true
  - id: "e2"
    title: "Poetry Night"
    category: "Literature"
    tags: ["Literature"]
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestStaticCatalog(t *testing.T) {
	Convey("Given the sample catalog", t, func() {
		ctx := context.Background()
		c, err := repository.NewStaticCatalog(repository.SampleEvents())
		So(err, ShouldBeNil)

		Convey("Then it holds six events in order", func() {
			So(c.Len(), ShouldEqual, 6)
			events, err := c.Events(ctx)
			So(err, ShouldBeNil)
			So(events[0].ID, ShouldEqual, "1")
			So(events[5].ID, ShouldEqual, "6")
		})

		Convey("When a caller mutates a returned snapshot", func() {
			events, _ := c.Events(ctx)
			events[0].Tags[0] = "mutated"
			events[0].Title = "mutated"

			Convey("Then the catalog is unchanged", func() {
				ev, err := c.Event(ctx, "1")
				So(err, ShouldBeNil)
				So(ev.Tags[0], ShouldEqual, "AI")
				So(ev.Title, ShouldEqual, "Introduction to Artificial Intelligence")
			})
		})

		Convey("When looking up an unknown id", func() {
			_, err := c.Event(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := c.Events(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Given invalid event lists", t, func() {
		_, err := repository.NewStaticCatalog([]model.Event{{Title: "no id"}})
		So(errors.Is(err, repository.ErrInvalidCatalog), ShouldBeTrue)

		_, err = repository.NewStaticCatalog([]model.Event{{ID: "a"}, {ID: "a"}})
		So(errors.Is(err, repository.ErrInvalidCatalog), ShouldBeTrue)
	})
}

func TestLoadCatalog(t *testing.T) {
	Convey("Given a YAML catalog file", t, func() {
		path := writeFile(t, catalogYAML)

		Convey("When loading it", func() {
			c, err := repository.LoadCatalog(path)
			So(err, ShouldBeNil)

			Convey("Then every field is decoded", func() {
				ev, err := c.Event(context.Background(), "e1")
				So(err, ShouldBeNil)
				So(ev.Title, ShouldEqual, "Advanced Calculus Workshop")
				So(ev.Category, ShouldEqual, "Mathematics")
				So(ev.Tags, ShouldResemble, []string{"Mathematics", "Calculus"})
				So(ev.Capacity, ShouldEqual, 30)
				So(ev.HasLivestream, ShouldBeTrue)
				So(c.Len(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given broken catalog files", t, func() {
		_, err := repository.LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
		So(err, ShouldNotBeNil)

		_, err = repository.LoadCatalog(writeFile(t, "events: []\n"))
		So(errors.Is(err, repository.ErrInvalidCatalog), ShouldBeTrue)

		_, err = repository.LoadCatalog(writeFile(t, "events:\n  - title: nameless\n"))
		So(errors.Is(err, repository.ErrInvalidCatalog), ShouldBeTrue)
	})
}

func TestReviewStore(t *testing.T) {
	Convey("Given a review store with a fixed clock", t, func() {
		ctx := context.Background()
		fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		n := 0
		s := repository.NewInMemoryReviewStore(
			repository.WithClock(func() time.Time { return fixed }),
			repository.WithIDGenerator(func() string { n++; return fmt.Sprintf("r%d", n) }),
		)

		Convey("When adding a valid review", func() {
			r, err := s.Add(ctx, model.Review{EventID: "1", Rating: 4, Comment: "good", ID: "ignored"})

			Convey("Then id and timestamp are assigned", func() {
				So(err, ShouldBeNil)
				So(r.ID, ShouldEqual, "r1")
				So(r.CreatedAt, ShouldEqual, fixed)
				So(s.Count(ctx), ShouldEqual, 1)

				got, err := s.ForEvent(ctx, "1")
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []model.Review{r})
			})
		})

		Convey("When adding invalid reviews", func() {
			_, err := s.Add(ctx, model.Review{EventID: "1", Rating: 0})
			So(errors.Is(err, model.ErrInvalidReview), ShouldBeTrue)

			_, err = s.Add(ctx, model.Review{EventID: "1", Rating: 6})
			So(errors.Is(err, model.ErrInvalidReview), ShouldBeTrue)

			_, err = s.Add(ctx, model.Review{Rating: 3})
			So(errors.Is(err, model.ErrInvalidReview), ShouldBeTrue)

			So(s.Count(ctx), ShouldEqual, 0)
		})

		Convey("When an event has no reviews", func() {
			got, err := s.ForEvent(ctx, "none")
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})

	Convey("Given a store seeded with sample reviews", t, func() {
		ctx := context.Background()
		s := repository.NewInMemoryReviewStore(repository.WithReviews(repository.SampleReviews()))

		So(s.Count(ctx), ShouldEqual, 4)
		got, _ := s.ForEvent(ctx, "1")
		So(got, ShouldHaveLength, 2)
		So(got[0].UserName, ShouldEqual, "Emma Johnson")

		Convey("When reviews are added concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = s.Add(ctx, model.Review{EventID: "2", Rating: 5})
				}()
			}
			wg.Wait()

			So(s.Count(ctx), ShouldEqual, 54)
			reviews, _ := s.ForEvent(ctx, "2")
			So(reviews, ShouldHaveLength, 51)
		})
	})
}
