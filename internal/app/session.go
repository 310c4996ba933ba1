package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/internal/domain/recommend"
	"github.com/okian/eventwise/pkg/metrics"
)

// session owns one learner's transcript and recommendation list. Scoring
// holds the read lock for its whole run so a transcript replacement waits
// for in-flight work and nothing computed from the old transcript is
// published after it.
type session struct {
	mu         sync.RWMutex
	transcript *model.Transcript
	orch       *recommend.Orchestrator
}

// sessions is the registry of live sessions.
type sessions struct {
	mu    sync.RWMutex
	byID  map[string]*session
	newFn func() *recommend.Orchestrator
}

func newSessions(newFn func() *recommend.Orchestrator) *sessions {
	return &sessions{byID: make(map[string]*session), newFn: newFn}
}

func (r *sessions) get(id string) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	return s, ok
}

func (r *sessions) getOrCreate(id string) *session {
	if s, ok := r.get(id); ok {
		return s
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		return s
	}
	s := &session{orch: r.newFn()}
	r.byID[id] = s
	metrics.UpdateActiveSessions(len(r.byID))
	return s
}

func (r *sessions) delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	metrics.UpdateActiveSessions(len(r.byID))
	return true
}

func (r *sessions) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func validateSessionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptySessionID
	}
	return nil
}

func validateTranscript(t *model.Transcript) error {
	if t == nil || len(t.Courses) == 0 {
		return fmt.Errorf("%w: at least one course is required", ErrInvalidTranscript)
	}
	for i, c := range t.Courses {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: course %d has no name", ErrInvalidTranscript, i)
		}
	}
	return nil
}
