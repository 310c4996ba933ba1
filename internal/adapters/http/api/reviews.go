package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/eventwise/internal/domain/model"
)

// CatalogDependencies defines the catalog, review and summary operations.
type CatalogDependencies interface {
	Events(ctx context.Context) ([]model.Event, error)
	AddReview(ctx context.Context, r model.Review) (model.Review, error)
	Reviews(ctx context.Context, eventID string) ([]model.Review, error)
	Summarize(ctx context.Context, eventID string, reviews []model.Review) (model.ReviewSummary, error)
	Summary(ctx context.Context, eventID string) (model.ReviewSummary, bool)
}

type reviewRequest struct {
	ID       string `json:"id" validate:"omitempty,max=64"`
	UserID   string `json:"user_id" validate:"max=128"`
	UserName string `json:"user_name" validate:"max=256"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment" validate:"max=4000"`
}

func (rr reviewRequest) toModel(eventID string) model.Review {
	return model.Review{
		ID:       rr.ID,
		EventID:  eventID,
		UserID:   rr.UserID,
		UserName: rr.UserName,
		Rating:   rr.Rating,
		Comment:  rr.Comment,
	}
}

type summarizeRequest struct {
	Reviews []reviewRequest `json:"reviews" validate:"omitempty,max=10000,dive"`
}

// CatalogHandler handles catalog, review and summary requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleGetEvents handles GET /events.
func (h *CatalogHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"
	events, err := h.deps.Events(r.Context())
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandlePostReview handles POST /events/{eventID}/reviews.
func (h *CatalogHandler) HandlePostReview(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_review"
	var req reviewRequest
	if err := decodeAndValidate(w, r, &req, false); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	stored, err := h.deps.AddReview(r.Context(), req.toModel(chi.URLParam(r, "eventID")))
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// HandleGetReviews handles GET /events/{eventID}/reviews.
func (h *CatalogHandler) HandleGetReviews(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_reviews"
	reviews, err := h.deps.Reviews(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

// HandleSummarize handles POST /events/{eventID}/summary. Without a
// reviews list in the body the stored reviews are summarized.
func (h *CatalogHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	const op = "api.summarize"
	var req summarizeRequest
	if err := decodeAndValidate(w, r, &req, true); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	eventID := chi.URLParam(r, "eventID")
	var reviews []model.Review
	if req.Reviews != nil {
		reviews = make([]model.Review, len(req.Reviews))
		for i, rr := range req.Reviews {
			reviews[i] = rr.toModel(eventID)
		}
	}
	sum, err := h.deps.Summarize(r.Context(), eventID, reviews)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// HandleGetSummary handles GET /events/{eventID}/summary.
func (h *CatalogHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	sum, ok := h.deps.Summary(r.Context(), chi.URLParam(r, "eventID"))
	if !ok {
		respondError(w, r, NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
