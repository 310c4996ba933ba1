// Package repository holds the read-only event catalog and the review store
// the engine reads from.
package repository

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/eventwise/internal/domain/model"
	"github.com/okian/eventwise/pkg/metrics"
)

// catalogKey is the top-level YAML key holding the event list.
const catalogKey = "events"

// Catalog provides read-only access to the events.
type Catalog interface {
	// Events returns a snapshot of the catalog in catalog order.
	Events(ctx context.Context) ([]model.Event, error)
	// Event returns one event or ErrNotFound.
	Event(ctx context.Context, id string) (model.Event, error)
	// Len returns the number of events.
	Len() int
}

// StaticCatalog is an immutable in-memory catalog. Every read returns a
// copy so callers cannot alter the catalog through shared slices.
type StaticCatalog struct {
	events []model.Event
	byID   map[string]int
}

// NewStaticCatalog validates events and builds a catalog. IDs must be
// non-empty and unique.
func NewStaticCatalog(events []model.Event) (*StaticCatalog, error) {
	c := &StaticCatalog{
		events: make([]model.Event, 0, len(events)),
		byID:   make(map[string]int, len(events)),
	}
	for i := range events {
		ev := copyEvent(&events[i])
		if ev.ID == "" {
			return nil, fmt.Errorf("%w: event %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.byID[ev.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate event id %q", ErrInvalidCatalog, ev.ID)
		}
		c.byID[ev.ID] = len(c.events)
		c.events = append(c.events, ev)
	}
	metrics.UpdateCatalogEvents(len(c.events))
	return c, nil
}

// LoadCatalog reads a YAML file with an "events" list.
func LoadCatalog(path string) (*StaticCatalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	var events []model.Event
	if err := k.UnmarshalWithConf(catalogKey, &events, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %s has no events", ErrInvalidCatalog, path)
	}
	return NewStaticCatalog(events)
}

// Events implements Catalog.
func (c *StaticCatalog) Events(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Event, len(c.events))
	for i := range c.events {
		out[i] = copyEvent(&c.events[i])
	}
	return out, nil
}

// Event implements Catalog.
func (c *StaticCatalog) Event(ctx context.Context, id string) (model.Event, error) {
	if err := ctx.Err(); err != nil {
		return model.Event{}, err
	}
	i, ok := c.byID[id]
	if !ok {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return copyEvent(&c.events[i]), nil
}

// Len implements Catalog.
func (c *StaticCatalog) Len() int {
	return len(c.events)
}

func copyEvent(ev *model.Event) model.Event {
	out := *ev
	if ev.Tags != nil {
		out.Tags = make([]string, len(ev.Tags))
		copy(out.Tags, ev.Tags)
	}
	return out
}
