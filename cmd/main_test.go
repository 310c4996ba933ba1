package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/eventwise/internal/config"
	"github.com/okian/eventwise/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const catalogYAML = `
events:
  - id: "ml-1"
    title: "Machine Learning Bootcamp"
    description: "Hands-on models"
    category: "Technology"
    tags: ["Machine Learning", "Workshop"]
`

func TestNewService(t *testing.T) {
	convey.Convey("Given a default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.WorkerCount = 2

		convey.Convey("When no catalog path is set", func() {
			svc, err := newService(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			convey.Convey("Then the sample catalog is served", func() {
				events, err := svc.Events(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(events), convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When a catalog file is configured", func() {
			path := filepath.Join(t.TempDir(), "events.yaml")
			convey.So(os.WriteFile(path, []byte(catalogYAML), 0o600), convey.ShouldBeNil)
			cfg.CatalogPath = path

			svc, err := newService(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			convey.Convey("Then the file catalog replaces the sample", func() {
				events, err := svc.Events(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(events), convey.ShouldEqual, 1)
				convey.So(events[0].ID, convey.ShouldEqual, "ml-1")
			})
		})

		convey.Convey("When the catalog file is missing", func() {
			cfg.CatalogPath = "/non/existent/events.yaml"
			_, err := newService(ctx, cfg)

			convey.Convey("Then an error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled HTTP handler", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.WorkerCount = 2
		svc, err := newService(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()
		h := newHandler(ctx, cfg, svc)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then docs, metrics and API routes are reachable", func() {
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/stats").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/events").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/missing").Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServiceMetricsUpdater(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.WorkerCount = 1
		svc, err := newService(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		convey.Convey("Then the updater returns when its context ends", func() {
			tctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
			defer cancel()
			convey.So(func() { startServiceMetricsUpdater(tctx, svc) }, convey.ShouldNotPanic)
		})
	})
}
