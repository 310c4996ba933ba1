package lexical_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/okian/eventwise/internal/domain/lexical"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatches(t *testing.T) {
	Convey("Given two terms", t, func() {
		Convey("When they are equal ignoring case", func() {
			So(lexical.Matches("Calculus", "calculus"), ShouldBeTrue)
		})

		Convey("When the query is contained in the target", func() {
			So(lexical.Matches("calculus", "Calculus Workshop"), ShouldBeTrue)
		})

		Convey("When the target is contained in the query", func() {
			So(lexical.Matches("Computer Science", "science"), ShouldBeTrue)
		})

		Convey("When neither contains the other", func() {
			So(lexical.Matches("cs101", "computer science"), ShouldBeFalse)
		})

		Convey("When either side is empty", func() {
			So(lexical.Matches("", "anything"), ShouldBeFalse)
			So(lexical.Matches("anything", ""), ShouldBeFalse)
		})
	})
}

func TestSet(t *testing.T) {
	Convey("Given a term set", t, func() {
		s := lexical.NewSet("AI", "Computer Science", " ", "ai").AddWords("Introduction  to\tAI")

		Convey("Then terms are folded, deduplicated and blanks dropped", func() {
			So(s.Terms(), ShouldResemble, []string{"ai", "computer science", "introduction", "to"})
			So(s.Len(), ShouldEqual, 4)
		})

		Convey("And Terms returns a copy", func() {
			terms := s.Terms()
			terms[0] = "mutated"
			So(s.Terms()[0], ShouldEqual, "ai")
		})
	})
}

func TestOverlap(t *testing.T) {
	Convey("Given query and target sets", t, func() {
		target := lexical.NewSet("AI", "Computer Science", "Workshop").
			AddWords("Introduction to Artificial Intelligence").
			AddWords("Technology")

		Convey("When course words overlap the event terms", func() {
			query := lexical.NewSet("CS101").AddWords("Computer Science")
			So(lexical.Overlap(query, target), ShouldEqual, 2)
		})

		Convey("When nothing overlaps", func() {
			query := lexical.NewSet("HIST200").AddWords("Medieval History")
			So(lexical.Overlap(query, target), ShouldEqual, 0)
		})

		Convey("When a set is empty", func() {
			So(lexical.Overlap(lexical.NewSet(), target), ShouldEqual, 0)
			So(lexical.Overlap(target, lexical.NewSet()), ShouldEqual, 0)
		})

		Convey("When MatchesAny is asked about a single term", func() {
			So(lexical.MatchesAny("SCIENCE", target), ShouldBeTrue)
			So(lexical.MatchesAny("poetry", target), ShouldBeFalse)
		})
	})
}

func TestOverlapConcurrency(t *testing.T) {
	Convey("Given shared read-only sets", t, func() {
		target := lexical.NewSet("Mathematics", "Calculus", "Workshop")
		query := lexical.NewSet("MATH201").AddWords("Calculus II")

		Convey("When many goroutines compute the overlap", func() {
			const workers = 32
			results := make([]int, workers)
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = lexical.Overlap(query, target)
				}(i)
			}
			wg.Wait()

			Convey("Then every result is identical", func() {
				for i, r := range results {
					So(fmt.Sprintf("%d:%d", i, r), ShouldEqual, fmt.Sprintf("%d:%d", i, 2))
				}
			})
		})
	})
}
