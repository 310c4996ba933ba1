package scoring_test

import (
	"errors"
	"testing"

	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func transcript(courses ...model.Course) *model.Transcript {
	return &model.Transcript{Courses: courses}
}

func aiWorkshop() model.Event {
	return model.Event{
		ID:       "ai-101",
		Title:    "Introduction to Artificial Intelligence",
		Category: "Technology",
		Tags:     []string{"AI", "Computer Science", "Workshop"},
	}
}

func poetryReading(id string) model.Event {
	return model.Event{ID: id, Title: "Readings", Category: "Literature", Tags: []string{"poetry"}}
}

func TestEngineScore(t *testing.T) {
	Convey("Given a default scoring engine", t, func() {
		engine := scoring.NewEngine()

		Convey("When there is no transcript", func() {
			recs, err := engine.Score(nil, []model.Event{aiWorkshop()})

			Convey("Then it fails with a precondition error and no recommendations", func() {
				So(errors.Is(err, model.ErrPrecondition), ShouldBeTrue)
				So(recs, ShouldBeNil)
			})
		})

		Convey("When an A-grade CS course meets an AI workshop", func() {
			tr := transcript(model.Course{Code: "CS101", Name: "Introduction to Computer Science", Grade: "A"})
			recs, err := engine.Score(tr, []model.Event{aiWorkshop()})

			Convey("Then four weighted name terms saturate the score", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 1)
				So(recs[0].EventID, ShouldEqual, "ai-101")
				So(recs[0].Score, ShouldEqual, 100)
				So(recs[0].Reason, ShouldEqual,
					"Highly recommended based on your strong performance in Introduction to Computer Science.")
			})
		})

		Convey("When the weighted match score is exactly 2.5", func() {
			tr := transcript(
				model.Course{Code: "X1", Name: "Computer", Grade: "B"},
				model.Course{Code: "X2", Name: "Science", Grade: "A"},
			)
			ev := model.Event{ID: "cs-talk", Title: "Seminar", Category: "Talks", Tags: []string{"Computer Science"}}
			recs, err := engine.Score(tr, []model.Event{ev})

			Convey("Then the score is 50 with the exploratory reason", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Score, ShouldEqual, 50)
				So(recs[0].Reason, ShouldEqual, scoring.ReasonExploratory)
			})
		})

		Convey("When three terms of a B-grade course match", func() {
			tr := transcript(model.Course{Code: "M1", Name: "Applied Data Analysis", Grade: "B"})
			ev := model.Event{ID: "data", Title: "Applied Workshop", Category: "Tech", Tags: []string{"data", "analysis"}}
			recs, err := engine.Score(tr, []model.Event{ev})

			Convey("Then the medium reason is used", func() {
				So(err, ShouldBeNil)
				So(recs[0].Score, ShouldEqual, 60)
				So(recs[0].Reason, ShouldEqual, scoring.ReasonMedium)
			})
		})

		Convey("When a high score has no course overlapping the tags", func() {
			tr := transcript(model.Course{Code: "C1", Name: "Linear Algebra Methods", Grade: "A+"})
			ev := model.Event{ID: "la", Title: "Linear Algebra Methods", Category: "Seminar", Tags: []string{"math"}}
			recs, err := engine.Score(tr, []model.Event{ev})

			Convey("Then the generic high reason is used", func() {
				So(err, ShouldBeNil)
				So(recs[0].Score, ShouldEqual, 90)
				So(recs[0].Reason, ShouldEqual, scoring.ReasonHigh)
			})
		})

		Convey("When an event scores exactly the relevance floor", func() {
			tr := transcript(model.Course{Code: "P1", Name: "Poetry", Grade: "B"})
			recs, err := engine.Score(tr, []model.Event{poetryReading("p")})

			Convey("Then it is discarded", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})

			Convey("And Relevance still reports the unfloored score", func() {
				So(engine.Relevance(tr, poetryReading("p")), ShouldEqual, 20)
			})
		})

		Convey("When nothing overlaps", func() {
			tr := transcript(model.Course{Code: "H1", Name: "History", Grade: "A"})
			ev := model.Event{ID: "jazz", Title: "Jazz Night", Category: "Arts", Tags: []string{"music"}}
			recs, err := engine.Score(tr, []model.Event{ev})

			Convey("Then the result is empty but not an error", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})
		})
	})
}

func TestEngineOptions(t *testing.T) {
	Convey("Given engines with custom calibration", t, func() {
		tr := transcript(model.Course{Code: "CS101", Name: "Introduction to Computer Science", Grade: "A"})

		Convey("When the divisor is doubled", func() {
			engine := scoring.NewEngine(scoring.WithDivisor(10))
			So(engine.Relevance(tr, aiWorkshop()), ShouldEqual, 60)
		})

		Convey("When the floor is lowered", func() {
			engine := scoring.NewEngine(scoring.WithMinRelevance(10))
			poet := transcript(model.Course{Code: "P1", Name: "Poetry", Grade: "B"})
			recs, err := engine.Score(poet, []model.Event{poetryReading("p")})
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 1)
			So(recs[0].Score, ShouldEqual, 20)
		})

		Convey("When invalid options are given", func() {
			engine := scoring.NewEngine(scoring.WithDivisor(-1), scoring.WithMinRelevance(100))
			So(engine.MinRelevance(), ShouldEqual, scoring.DefaultMinRelevance)
			So(engine.Relevance(tr, aiWorkshop()), ShouldEqual, 100)
		})
	})
}

func TestEngineProperties(t *testing.T) {
	Convey("Given a mixed catalog and transcript", t, func() {
		engine := scoring.NewEngine()
		tr := transcript(
			model.Course{Code: "P1", Name: "Poetry", Grade: "A"},
			model.Course{Code: "CS101", Name: "Introduction to Computer Science", Grade: "A"},
			model.Course{Code: "M1", Name: "Applied Data Analysis", Grade: "B"},
		)
		catalog := []model.Event{
			poetryReading("poetry-1"),
			aiWorkshop(),
			poetryReading("poetry-2"),
			{ID: "data", Title: "Applied Workshop", Category: "Tech", Tags: []string{"data", "analysis"}},
			{ID: "jazz", Title: "Jazz Night", Category: "Arts", Tags: []string{"music"}},
		}

		recs, err := engine.Score(tr, catalog)
		So(err, ShouldBeNil)

		Convey("Then every score lies in (20, 100]", func() {
			So(recs, ShouldNotBeEmpty)
			for _, r := range recs {
				So(r.Score, ShouldBeGreaterThan, scoring.DefaultMinRelevance)
				So(r.Score, ShouldBeLessThanOrEqualTo, scoring.MaxScore)
			}
		})

		Convey("Then the output is sorted descending", func() {
			for i := 1; i < len(recs); i++ {
				So(recs[i-1].Score, ShouldBeGreaterThanOrEqualTo, recs[i].Score)
			}
		})

		Convey("Then identical events keep catalog order", func() {
			var ids []string
			for _, r := range recs {
				if r.EventID == "poetry-1" || r.EventID == "poetry-2" {
					ids = append(ids, r.EventID)
				}
			}
			So(ids, ShouldResemble, []string{"poetry-1", "poetry-2"})
		})

		Convey("Then a second call yields identical output", func() {
			again, err := engine.Score(tr, catalog)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, recs)
		})

		Convey("Then the catalog is not mutated", func() {
			So(catalog[1].Tags, ShouldResemble, []string{"AI", "Computer Science", "Workshop"})
		})
	})
}
