package prompt_test

import (
	"sync"
	"testing"

	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/internal/domain/prompt"
	. "github.com/smartystreets/goconvey/convey"
)

func catalog() []model.Event {
	return []model.Event{
		{ID: "ai", Title: "Introduction to Artificial Intelligence", Category: "Technology", Tags: []string{"AI", "Computer Science", "Workshop"}},
		{ID: "startup", Title: "Startup Pitch Night", Category: "Business", Tags: []string{"Networking"}},
		{ID: "poetry", Title: "Poetry Slam", Category: "Arts & Culture", Tags: []string{"Literature"}},
		{ID: "python", Title: "Python Basics", Category: "Technology", Description: "A beginner friendly session", Tags: []string{"Programming"}},
		{ID: "research", Title: "Research Symposium", Category: "Academic", Tags: []string{"RESEARCH", "Marketing"}},
	}
}

func ids(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}

func TestClassify(t *testing.T) {
	Convey("Given a prompt interpreter", t, func() {
		in := prompt.NewInterpreter()

		Convey("When prompts name a single group", func() {
			So(in.Classify("Make it MORE TECHNICAL please"), ShouldEqual, prompt.IntentTechnical)
			So(in.Classify("something introductory"), ShouldEqual, prompt.IntentBeginner)
			So(in.Classify("entrepreneurship events"), ShouldEqual, prompt.IntentBusiness)
			So(in.Classify("I feel creative"), ShouldEqual, prompt.IntentCreative)
		})

		Convey("When a prompt names several groups", func() {
			Convey("Then the earlier group wins regardless of position", func() {
				So(in.Classify("creative business for beginners, advanced"), ShouldEqual, prompt.IntentTechnical)
				So(in.Classify("art and business"), ShouldEqual, prompt.IntentBusiness)
				So(in.Classify("business for a beginner"), ShouldEqual, prompt.IntentBeginner)
			})
		})

		Convey("When a prompt contains advanced anywhere", func() {
			for _, p := range []string{"advanced", "show me advanced art", "Beginner? no, ADVANCED business", "xadvancedx"} {
				So(in.Classify(p), ShouldEqual, prompt.IntentTechnical)
			}
		})

		Convey("When a keyword only occurs inside another word", func() {
			So(in.Classify("get me started"), ShouldEqual, prompt.IntentCreative)
		})

		Convey("When no keyword is present", func() {
			So(in.Classify("anything on friday"), ShouldEqual, prompt.IntentNone)
			So(in.Classify(""), ShouldEqual, prompt.IntentNone)
			So(in.Classify("technical"), ShouldEqual, prompt.IntentNone)
		})
	})
}

func TestPredicates(t *testing.T) {
	Convey("Given the sample catalog", t, func() {
		events := catalog()
		in := prompt.NewInterpreter()

		Convey("When filtering for technical events", func() {
			intent, pred := in.Interpret("more advanced stuff")
			So(intent, ShouldEqual, prompt.IntentTechnical)
			So(ids(prompt.Filter(events, pred)), ShouldResemble, []string{"ai", "research"})
		})

		Convey("When filtering for beginner events", func() {
			_, pred := in.Interpret("beginner")
			So(ids(prompt.Filter(events, pred)), ShouldResemble, []string{"ai", "python"})
		})

		Convey("When filtering for business events", func() {
			_, pred := in.Interpret("business")
			So(ids(prompt.Filter(events, pred)), ShouldResemble, []string{"startup", "research"})
		})

		Convey("When filtering for creative events", func() {
			_, pred := in.Interpret("creative")
			So(ids(prompt.Filter(events, pred)), ShouldResemble, []string{"poetry"})
		})

		Convey("When the prompt has no intent", func() {
			intent, pred := in.Interpret("surprise me")
			So(intent, ShouldEqual, prompt.IntentNone)
			So(ids(prompt.Filter(events, pred)), ShouldResemble, ids(events))
		})

		Convey("When a tag only partially matches", func() {
			pred := prompt.PredicateFor(prompt.IntentTechnical)
			So(pred(model.Event{Tags: []string{"Workshops"}}), ShouldBeFalse)
			So(pred(model.Event{Tags: []string{"WORKSHOP"}}), ShouldBeTrue)
		})
	})
}

func TestInterpreterConcurrency(t *testing.T) {
	Convey("Given a shared interpreter", t, func() {
		in := prompt.NewInterpreter()

		Convey("When many goroutines classify at once", func() {
			var wg sync.WaitGroup
			results := make([]prompt.Intent, 64)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = in.Classify("introductory business")
				}(i)
			}
			wg.Wait()

			for _, r := range results {
				So(r, ShouldEqual, prompt.IntentBeginner)
			}
		})
	})
}
