package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/okian/eventwise/internal/adapters/repository"
	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/pkg/logger"
)

// ErrChecksFailed reports a run in which at least one check failed.
var ErrChecksFailed = errors.New("smoke checks failed")

// Run executes the smoke scenario. A non-nil report is returned even when
// a step fails so callers can print what was checked.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	log := logger.Named("smoke")
	report := &Report{SessionID: uuid.NewString(), StartTime: time.Now()}
	client := newHTTPClient(cfg)
	session := "/sessions/" + url.PathEscape(report.SessionID)

	log.Info(ctx, "starting eventwise smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("session", report.SessionID),
		logger.String("prompt", cfg.Prompt),
	)

	// Step 1: Check service health
	if err := client.do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		report.record("health", false, err.Error())
		return finish(report), fmt.Errorf("service health check failed: %w", err)
	}
	report.record("health", true, "")

	// Step 2: Upload the sample transcript
	var cleared snapshot
	if err := client.do(ctx, http.MethodPut, session+"/transcript", repository.SampleTranscript(), &cleared); err != nil {
		report.record("upload transcript", false, err.Error())
		return finish(report), fmt.Errorf("transcript upload failed: %w", err)
	}
	report.record("upload transcript", len(cleared.Recommendations) == 0, "list cleared on upload")
	defer func() {
		if err := client.do(context.WithoutCancel(ctx), http.MethodDelete, session, nil, nil); err != nil {
			log.Warn(ctx, "failed to delete smoke session", logger.Error(err))
		}
	}()

	// Step 3: Recommend against the catalog
	var recs snapshot
	if err := client.do(ctx, http.MethodPost, session+"/recommendations", nil, &recs); err != nil {
		report.record("recommend", false, err.Error())
		return finish(report), fmt.Errorf("recommend failed: %w", err)
	}
	report.Recommendations = recs.Recommendations
	verifyRecommendations(report, recs.Recommendations)
	if cfg.Verbose {
		logRecommendations(ctx, log, "recommendations", recs.Recommendations)
	}

	// Step 4: Refine by prompt
	var refined snapshot
	body := map[string]string{"prompt": cfg.Prompt}
	if err := client.do(ctx, http.MethodPost, session+"/recommendations/refine", body, &refined); err != nil {
		report.record("refine", false, err.Error())
		return finish(report), fmt.Errorf("refine failed: %w", err)
	}
	report.Refined = refined.Recommendations
	verifyRefined(report, cfg.Prompt, refined)
	if cfg.Verbose {
		logRecommendations(ctx, log, "refined", refined.Recommendations)
	}

	// Step 5: Summarize the top recommended event
	if len(recs.Recommendations) > 0 {
		top := recs.Recommendations[0].EventID
		var sum model.ReviewSummary
		err := client.do(ctx, http.MethodPost, "/events/"+url.PathEscape(top)+"/summary", nil, &sum)
		var statusErr *StatusError
		switch {
		case err == nil:
			report.Summary = &sum
			verifySummary(report, &sum)
		case errors.As(err, &statusErr) && statusErr.Code == "no_data":
			report.record("summary", true, "no reviews for "+top)
		default:
			report.record("summary", false, err.Error())
		}
	}

	finish(report)
	displayReport(ctx, log, report)
	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrChecksFailed, len(failed), len(report.Checks))
	}
	log.Info(ctx, "smoke run completed successfully")
	return report, nil
}

func finish(r *Report) *Report {
	r.Duration = time.Since(r.StartTime)
	return r
}

func logRecommendations(ctx context.Context, log logger.Logger, label string, recs []model.Recommendation) {
	for i, r := range recs {
		log.Info(ctx, label,
			logger.Int("rank", i+1),
			logger.String("event", r.EventID),
			logger.Int("score", r.Score),
			logger.String("reason", r.Reason),
		)
	}
}

// displayReport logs every check and the totals.
func displayReport(ctx context.Context, log logger.Logger, r *Report) {
	for _, c := range r.Checks {
		fields := []logger.Field{logger.String("check", c.Name), logger.Bool("passed", c.Passed)}
		if c.Detail != "" {
			fields = append(fields, logger.String("detail", c.Detail))
		}
		if c.Passed {
			log.Info(ctx, "check", fields...)
		} else {
			log.Error(ctx, "check", fields...)
		}
	}
	log.Info(ctx, "final statistics",
		logger.Int("checks", len(r.Checks)),
		logger.Int("failed", len(r.Failed())),
		logger.Int("recommendations", len(r.Recommendations)),
		logger.Int("refined", len(r.Refined)),
		logger.String("duration", r.Duration.String()),
	)
}
