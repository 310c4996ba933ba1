// Package dedupe tracks submission keys so retried writes are applied at
// most once.
package dedupe

import (
	"context"
	"sync"
)

const defaultCapacity = 50000

// Deduper records submission keys.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it
	// if not. The check and the record happen atomically.
	SeenAndRecord(ctx context.Context, key string) bool

	// Forget removes key so a failed write can be retried.
	Forget(ctx context.Context, key string)

	Len() int
}

// window remembers the most recent keys in a ring. Once full, recording a
// new key evicts the oldest one.
type window struct {
	mu   sync.Mutex
	keys map[string]int // key -> slot in ring
	ring []string
	next int
}

// NewWindow creates an in-memory Deduper.
func NewWindow(opts ...Option) Deduper {
	w := &window{}
	capacity := defaultCapacity
	for _, opt := range opts {
		opt(&capacity)
	}
	if capacity > 0 {
		w.ring = make([]string, capacity)
	}
	w.keys = make(map[string]int, min(capacity, 1024))
	return w
}

func (w *window) SeenAndRecord(_ context.Context, key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.keys[key]; ok {
		return true
	}
	if w.ring == nil {
		// unbounded
		w.keys[key] = -1
		return false
	}
	if old := w.ring[w.next]; old != "" {
		delete(w.keys, old)
	}
	w.ring[w.next] = key
	w.keys[key] = w.next
	w.next = (w.next + 1) % len(w.ring)
	return false
}

func (w *window) Forget(_ context.Context, key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	slot, ok := w.keys[key]
	if !ok {
		return
	}
	delete(w.keys, key)
	if slot >= 0 {
		w.ring[slot] = ""
	}
}

func (w *window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.keys)
}
