package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/internal/domain/recommend"
)

// SessionDependencies defines the session and recommendation operations.
type SessionDependencies interface {
	UploadTranscript(ctx context.Context, sessionID string, t model.Transcript) (recommend.Snapshot, error)
	Transcript(ctx context.Context, sessionID string) (model.Transcript, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Recommend(ctx context.Context, sessionID string, events []model.Event) (recommend.Snapshot, error)
	Refine(ctx context.Context, sessionID, prompt string, events []model.Event) (recommend.Snapshot, error)
	Recommendations(ctx context.Context, sessionID string) (recommend.Snapshot, error)
}

type courseRequest struct {
	Code  string `json:"code" validate:"max=64"`
	Name  string `json:"name" validate:"required,max=256"`
	Grade string `json:"grade" validate:"max=8"`
}

type transcriptRequest struct {
	Courses []courseRequest `json:"courses" validate:"required,min=1,max=200,dive"`
}

func (t transcriptRequest) toModel() model.Transcript {
	out := model.Transcript{Courses: make([]model.Course, len(t.Courses))}
	for i, c := range t.Courses {
		out.Courses[i] = model.Course{Code: c.Code, Name: c.Name, Grade: c.Grade}
	}
	return out
}

type recommendRequest struct {
	Events []model.Event `json:"events"`
}

type refineRequest struct {
	Prompt string        `json:"prompt" validate:"required"`
	Events []model.Event `json:"events"`
}

type snapshotResponse struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	Version         uint64                 `json:"version"`
	Source          string                 `json:"source"`
	Prompt          string                 `json:"prompt,omitempty"`
	Intent          string                 `json:"intent,omitempty"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func newSnapshotResponse(s *recommend.Snapshot) snapshotResponse {
	recs := s.Recommendations
	if recs == nil {
		recs = []model.Recommendation{}
	}
	return snapshotResponse{
		Recommendations: recs,
		Version:         s.Version,
		Source:          string(s.Source),
		Prompt:          s.Prompt,
		Intent:          string(s.Intent),
		UpdatedAt:       s.UpdatedAt,
	}
}

// SessionsHandler handles transcript and recommendation requests.
type SessionsHandler struct {
	deps            SessionDependencies
	maxPromptLength int
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies, maxPromptLength int) *SessionsHandler {
	return &SessionsHandler{deps: deps, maxPromptLength: maxPromptLength}
}

// HandlePutTranscript handles PUT /sessions/{sessionID}/transcript.
func (h *SessionsHandler) HandlePutTranscript(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_transcript"
	var req transcriptRequest
	if err := decodeAndValidate(w, r, &req, false); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	snap, err := h.deps.UploadTranscript(r.Context(), chi.URLParam(r, "sessionID"), req.toModel())
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(&snap))
}

// HandleGetTranscript handles GET /sessions/{sessionID}/transcript.
func (h *SessionsHandler) HandleGetTranscript(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_transcript"
	t, err := h.deps.Transcript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleDeleteSession handles DELETE /sessions/{sessionID}.
func (h *SessionsHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_session"
	if err := h.deps.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRecommend handles POST /sessions/{sessionID}/recommendations.
func (h *SessionsHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend"
	var req recommendRequest
	if err := decodeAndValidate(w, r, &req, true); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	snap, err := h.deps.Recommend(r.Context(), chi.URLParam(r, "sessionID"), req.Events)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(&snap))
}

// HandleRefine handles POST /sessions/{sessionID}/recommendations/refine.
func (h *SessionsHandler) HandleRefine(w http.ResponseWriter, r *http.Request) {
	const op = "api.refine"
	var req refineRequest
	if err := decodeAndValidate(w, r, &req, false); err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	if h.maxPromptLength > 0 && len(req.Prompt) > h.maxPromptLength {
		respondError(w, r, NewKind(op, ErrPromptLength))
		return
	}
	snap, err := h.deps.Refine(r.Context(), chi.URLParam(r, "sessionID"), req.Prompt, req.Events)
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(&snap))
}

// HandleGetRecommendations handles GET /sessions/{sessionID}/recommendations.
func (h *SessionsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	snap, err := h.deps.Recommendations(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(&snap))
}
