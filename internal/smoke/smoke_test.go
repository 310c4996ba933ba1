package smoke

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/eventwise/internal/adapters/http/api"
	service "github.com/okian/eventwise/internal/app"
	"github.com/okian/eventwise/internal/domain/model"
)

func TestRun(t *testing.T) {
	Convey("Given a running eventwise server", t, func() {
		svc := service.New(service.WithWorkerCount(2), service.WithSeedReviews(true))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer func() { _ = svc.Stop(context.Background()) }()
		srv := httptest.NewServer(api.NewServer(svc).Handler(context.Background()))
		defer srv.Close()

		cfg := &Config{BaseURL: srv.URL, Timeout: 5 * time.Second, Prompt: DefaultPrompt}

		Convey("A full run passes every check", func() {
			report, err := Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			So(report.Failed(), ShouldBeEmpty)
			So(report.Recommendations, ShouldNotBeEmpty)
			So(report.Recommendations[0].EventID, ShouldEqual, "1")
			So(report.Summary, ShouldNotBeNil)
			So(report.Summary.Sentiment, ShouldEqual, model.SentimentPositive)
			So(report.Duration, ShouldBeGreaterThan, 0)
		})

		Convey("The session is deleted afterwards", func() {
			report, err := Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			_, err = svc.Transcript(context.Background(), report.SessionID)
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
		})
	})

	Convey("Given an unhealthy server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"code":"unavailable","message":"down"}`))
		}))
		defer srv.Close()

		report, err := Run(context.Background(), &Config{BaseURL: srv.URL, Timeout: time.Second})
		So(err, ShouldNotBeNil)
		var statusErr *StatusError
		So(errors.As(err, &statusErr), ShouldBeTrue)
		So(statusErr.Status, ShouldEqual, http.StatusServiceUnavailable)
		So(statusErr.Code, ShouldEqual, "unavailable")
		So(report.Failed(), ShouldHaveLength, 1)
	})
}

func TestVerification(t *testing.T) {
	Convey("Recommendation checks", t, func() {
		Convey("Out of order scores fail", func() {
			r := &Report{}
			verifyRecommendations(r, []model.Recommendation{
				{EventID: "a", Score: 40, Reason: "x"},
				{EventID: "b", Score: 60, Reason: "x"},
			})
			So(r.Failed(), ShouldHaveLength, 1)
			So(r.Failed()[0].Name, ShouldEqual, "recommend ordering")
		})

		Convey("Scores at the relevance floor fail", func() {
			r := &Report{}
			verifyRecommendations(r, []model.Recommendation{{EventID: "a", Score: 20, Reason: "x"}})
			So(r.Failed(), ShouldHaveLength, 1)
			So(r.Failed()[0].Name, ShouldEqual, "recommend bounds")
		})
	})

	Convey("Refine checks compare the reason to the prompt", t, func() {
		r := &Report{}
		verifyRefined(r, "art", snapshot{Recommendations: []model.Recommendation{
			{EventID: "a", Score: 50, Reason: `Selected based on your request: "music"`},
		}})
		So(r.Failed(), ShouldHaveLength, 1)
		So(r.Failed()[0].Name, ShouldEqual, "refine reason")
	})

	Convey("Sentiment labels near thresholds", t, func() {
		So(sentimentConsistent(model.SentimentNeutral, 4.0), ShouldBeTrue)
		So(sentimentConsistent(model.SentimentPositive, 4.0), ShouldBeTrue)
		So(sentimentConsistent(model.SentimentPositive, 3.5), ShouldBeFalse)
		So(sentimentConsistent(model.SentimentNegative, 3.0), ShouldBeTrue)
		So(sentimentConsistent("mixed", 3.5), ShouldBeFalse)
	})
}
