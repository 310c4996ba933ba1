package recommend_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/internal/domain/prompt"
	"github.com/okian/eventwise/internal/domain/recommend"
	"github.com/okian/eventwise/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func events() []model.Event {
	return []model.Event{
		{ID: "ai", Title: "Introduction to Artificial Intelligence", Category: "Technology", Tags: []string{"AI", "Computer Science", "Workshop"}},
		{ID: "poetry", Title: "Poetry Slam", Category: "Arts", Tags: []string{"Literature"}},
		{ID: "research", Title: "Research Symposium", Category: "Academic", Tags: []string{"Research", "Science"}},
		{ID: "pitch", Title: "Pitch Night", Category: "Business", Tags: []string{"Entrepreneurship"}},
	}
}

func csTranscript() *model.Transcript {
	return &model.Transcript{Courses: []model.Course{
		{Code: "CS101", Name: "Introduction to Computer Science", Grade: "A"},
	}}
}

func TestRecommend(t *testing.T) {
	Convey("Given a fresh orchestrator", t, func() {
		fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		o := recommend.New(recommend.WithClock(func() time.Time { return fixed }))
		ctx := context.Background()

		Convey("Then it starts with an empty list at version 0", func() {
			cur := o.Current()
			So(cur.Version, ShouldEqual, 0)
			So(cur.Recommendations, ShouldBeEmpty)
			So(cur.Source, ShouldEqual, recommend.SourceNone)
		})

		Convey("When recommending without a transcript", func() {
			_, err := o.Recommend(ctx, nil, events())

			Convey("Then it fails with a precondition error and keeps state", func() {
				So(errors.Is(err, model.ErrPrecondition), ShouldBeTrue)
				So(o.Current().Version, ShouldEqual, 0)
			})
		})

		Convey("When both transcript and catalog are missing", func() {
			_, err := o.Recommend(ctx, nil, nil)
			So(errors.Is(err, model.ErrPrecondition), ShouldBeTrue)
		})

		Convey("When recommending against an empty catalog", func() {
			_, err := o.Recommend(ctx, csTranscript(), nil)
			So(errors.Is(err, model.ErrProcessing), ShouldBeTrue)
			So(o.Current().Version, ShouldEqual, 0)
		})

		Convey("When recommending successfully", func() {
			snap, err := o.Recommend(ctx, csTranscript(), events())
			So(err, ShouldBeNil)

			Convey("Then the engine output is published", func() {
				want, _ := scoring.NewEngine().Score(csTranscript(), events())
				So(snap.Recommendations, ShouldResemble, want)
				So(snap.Version, ShouldEqual, 1)
				So(snap.Source, ShouldEqual, recommend.SourceRecommend)
				So(snap.UpdatedAt, ShouldEqual, fixed)
				So(o.Current(), ShouldResemble, snap)
			})

			Convey("Then callers cannot modify the published list", func() {
				snap.Recommendations[0].Score = -1
				So(o.Current().Recommendations[0].Score, ShouldEqual, 100)
			})

			Convey("And a failing call leaves it intact", func() {
				_, err := o.Refine(ctx, "advanced", csTranscript(), []model.Event{})
				So(errors.Is(err, model.ErrProcessing), ShouldBeTrue)
				So(o.Current(), ShouldResemble, snap)
			})

			Convey("And invalidation publishes an empty list", func() {
				inv := o.Invalidate()
				So(inv.Version, ShouldEqual, 2)
				So(inv.Recommendations, ShouldBeEmpty)
				So(o.Current().Source, ShouldEqual, recommend.SourceNone)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := o.Recommend(cctx, csTranscript(), events())

			Convey("Then cancellation is reported, not a data error", func() {
				So(errors.Is(err, model.ErrCancelled), ShouldBeTrue)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(errors.Is(err, model.ErrProcessing), ShouldBeFalse)
				So(o.Current().Version, ShouldEqual, 0)
			})
		})
	})
}

func TestRefine(t *testing.T) {
	Convey("Given an orchestrator with the lexical refine policy", t, func() {
		o := recommend.New()
		ctx := context.Background()

		Convey("When refining with a technical prompt and a transcript", func() {
			snap, err := o.Refine(ctx, "something more advanced", csTranscript(), events())
			So(err, ShouldBeNil)

			Convey("Then only technical events remain, re-scored lexically", func() {
				So(snap.Intent, ShouldEqual, prompt.IntentTechnical)
				So(snap.Source, ShouldEqual, recommend.SourceRefine)
				So(snap.Prompt, ShouldEqual, "something more advanced")
				So(snap.Recommendations, ShouldHaveLength, 2)
				So(snap.Recommendations[0].EventID, ShouldEqual, "ai")
				So(snap.Recommendations[0].Score, ShouldEqual, 100)
				So(snap.Recommendations[1].EventID, ShouldEqual, "research")
				So(snap.Recommendations[0].Reason, ShouldEqual, `Selected based on your request: "something more advanced"`)
			})
		})

		Convey("When refining without a transcript", func() {
			snap, err := o.Refine(ctx, "show me everything", nil, events())
			So(err, ShouldBeNil)

			Convey("Then every event gets the neutral score in catalog order", func() {
				So(snap.Intent, ShouldEqual, prompt.IntentNone)
				So(snap.Recommendations, ShouldHaveLength, 4)
				for i, r := range snap.Recommendations {
					So(r.EventID, ShouldEqual, events()[i].ID)
					So(r.Score, ShouldEqual, scoring.NeutralScore)
				}
			})
		})

		Convey("When no event survives the filter", func() {
			snap, err := o.Refine(ctx, "business", nil, events()[:3])
			So(err, ShouldBeNil)
			So(snap.Recommendations, ShouldNotBeNil)
			So(snap.Recommendations, ShouldBeEmpty)
			So(snap.Version, ShouldEqual, 1)
		})

		Convey("When the same prompt is applied twice", func() {
			a, _ := o.Refine(ctx, "advanced", csTranscript(), events())
			b, _ := o.Refine(ctx, "advanced", csTranscript(), events())
			So(b.Recommendations, ShouldResemble, a.Recommendations)
			So(b.Version, ShouldEqual, a.Version+1)
		})
	})

	Convey("Given an orchestrator with the random refine policy", t, func() {
		o := recommend.New(recommend.WithRefinePolicy(scoring.NewRandomPolicy(1)))
		snap, err := o.Refine(context.Background(), "", nil, events())
		So(err, ShouldBeNil)

		Convey("Then scores fall in the placeholder band and stay sorted", func() {
			for i, r := range snap.Recommendations {
				So(r.Score, ShouldBeBetweenOrEqual, 50, 100)
				if i > 0 {
					So(snap.Recommendations[i-1].Score, ShouldBeGreaterThanOrEqualTo, r.Score)
				}
			}
		})
	})
}

func TestConcurrentPublish(t *testing.T) {
	Convey("Given concurrent publishers and readers", t, func() {
		o := recommend.New()
		ctx := context.Background()
		full, _ := scoring.NewEngine().Score(csTranscript(), events())

		const rounds = 50
		var wg sync.WaitGroup
		var mu sync.Mutex
		var torn []recommend.Snapshot

		for i := 0; i < rounds; i++ {
			wg.Add(3)
			go func() {
				defer wg.Done()
				_, _ = o.Recommend(ctx, csTranscript(), events())
			}()
			go func() {
				defer wg.Done()
				_, _ = o.Refine(ctx, "hello", nil, events())
			}()
			go func() {
				defer wg.Done()
				snap := o.Current()
				ok := true
				switch snap.Source {
				case recommend.SourceRecommend:
					ok = len(snap.Recommendations) == len(full)
				case recommend.SourceRefine:
					ok = len(snap.Recommendations) == len(events())
				}
				if !ok {
					mu.Lock()
					torn = append(torn, snap)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then readers only ever see complete lists", func() {
			So(torn, ShouldBeEmpty)
		})

		Convey("Then every publish got its own version", func() {
			So(o.Current().Version, ShouldEqual, 2*rounds)
		})
	})
}
