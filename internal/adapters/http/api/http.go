// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/okian/eventwise/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	CatalogDependencies
	StatsProvider
}

// Default server limits.
const (
	defaultMaxPromptLength = 500
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
	catalogHandler  *CatalogHandler

	rateLimitRequests int
	rateLimitWindow   time.Duration
	maxPromptLength   int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit limits each client IP to requests per window. Zero disables it.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		s.rateLimitRequests = requests
		s.rateLimitWindow = window
	}
}

// WithMaxPromptLength caps refinement prompts in bytes.
func WithMaxPromptLength(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxPromptLength = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{maxPromptLength: defaultMaxPromptLength}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.sessionsHandler = NewSessionsHandler(deps, s.maxPromptLength)
	s.catalogHandler = NewCatalogHandler(deps)
	return s
}

// Handler returns a chi router with middleware and all routes attached.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(RateLimit(s.rateLimitRequests, s.rateLimitWindow))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, NewKind("api.route", ErrNotFound))
	})
	s.Register(ctx, r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/events", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.catalogHandler.HandleGetEvents, "events"))
		r.Route("/{eventID}", func(r chi.Router) {
			r.Post("/reviews", MetricsMiddleware(s.catalogHandler.HandlePostReview, "reviews"))
			r.Get("/reviews", MetricsMiddleware(s.catalogHandler.HandleGetReviews, "reviews"))
			r.Post("/summary", MetricsMiddleware(s.catalogHandler.HandleSummarize, "summary"))
			r.Get("/summary", MetricsMiddleware(s.catalogHandler.HandleGetSummary, "summary"))
		})
	})

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Delete("/", MetricsMiddleware(s.sessionsHandler.HandleDeleteSession, "session"))
		r.Put("/transcript", MetricsMiddleware(s.sessionsHandler.HandlePutTranscript, "transcript"))
		r.Get("/transcript", MetricsMiddleware(s.sessionsHandler.HandleGetTranscript, "transcript"))
		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/", MetricsMiddleware(s.sessionsHandler.HandleRecommend, "recommendations"))
			r.Get("/", MetricsMiddleware(s.sessionsHandler.HandleGetRecommendations, "recommendations"))
			r.Post("/refine", MetricsMiddleware(s.sessionsHandler.HandleRefine, "refine"))
		})
	})
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: w.Header().Get(RequestIDHeader)})
}

// respondError maps err to a status and logs server-side failures.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Named("api").Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}
