package mocks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/amize/amize-backend/internal/domain/event"
)

// EventRepo stands in for the outbox: it keeps every event a mock repository
// would have published in the same transaction as the aggregate.
type EventRepo struct {
	mu     sync.Mutex
	events []event.Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{}
}

func (r *EventRepo) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]event.Event(nil), r.events...)
}

// EventsOf returns the published events of stream in publish order.
func (r *EventRepo) EventsOf(stream string) []event.Event {
	var out []event.Event
	for _, e := range r.Events() {
		if e.GetStreamName() == stream {
			out = append(out, e)
		}
	}
	return out
}

func (r *EventRepo) AssertEventCount(t *testing.T, expected int) *EventRepo {
	t.Helper()
	assert.Len(t, r.Events(), expected, "unexpected number of published events")
	return r
}

func (r *EventRepo) appendEvents(events ...event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, events...)
}

// RequireEventExists returns the first published event of type T. The sample
// argument only pins T.
func RequireEventExists[T event.Event](t *testing.T, r *EventRepo, _ T) T {
	t.Helper()

	for _, e := range r.Events() {
		if typed, ok := e.(T); ok {
			assert.NotEqual(t, [16]byte{}, [16]byte(typed.GetEventHeader().ID), "event header should carry an id")
			return typed
		}
	}

	t.Fatalf("event %T was not published", *new(T))
	var zero T
	return zero
}
