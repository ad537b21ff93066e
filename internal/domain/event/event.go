package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a domain fact raised by an aggregate and published to its stream
// through the outbox in the same transaction that persists the aggregate.
type Event interface {
	GetEventHeader() Header
	GetStreamName() string
}

type Header struct {
	ID         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (h *Header) GetEventHeader() Header {
	return *h
}

func NewEventHeader() Header {
	return NewEventHeaderAt(time.Now())
}

// NewEventHeaderAt stamps the header with the aggregate's clock so an event
// and the state change it describes carry the same instant.
func NewEventHeaderAt(at time.Time) Header {
	return Header{
		ID:         uuid.New(),
		OccurredAt: at.UTC(),
	}
}

// Recorder collects the events an aggregate raised until the repository publishes them.
type Recorder struct {
	pending []Event
}

func (r *Recorder) AddEvent(e Event) {
	if r == nil {
		return
	}
	r.pending = append(r.pending, e)
}

func (r *Recorder) GetUncommittedEvents() []Event {
	if r == nil {
		return nil
	}
	return r.pending
}

func (r *Recorder) MarkEventsAsCommitted() {
	if r == nil {
		return
	}
	r.pending = nil
}
