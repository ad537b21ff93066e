package event_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/event"
)

type testEvent struct {
	event.Header
	event.Otel
}

func (e *testEvent) GetStreamName() string { return "events_test" }

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r event.Recorder
	r.AddEvent(&testEvent{Header: event.NewEventHeader()})
	r.AddEvent(&testEvent{Header: event.NewEventHeader()})
	require.Len(t, r.GetUncommittedEvents(), 2)

	r.MarkEventsAsCommitted()
	assert.Empty(t, r.GetUncommittedEvents())

	var nilRecorder *event.Recorder
	nilRecorder.AddEvent(&testEvent{})
	assert.Nil(t, nilRecorder.GetUncommittedEvents())
}

func TestNewEventHeaderAt(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, time.June, 15, 14, 0, 0, 0, time.FixedZone("ALMT", 5*60*60))
	h := event.NewEventHeaderAt(at)
	assert.Equal(t, time.UTC, h.OccurredAt.Location())
	assert.True(t, h.OccurredAt.Equal(at))
	assert.NotEqual(t, event.NewEventHeaderAt(at).ID, h.ID)
}

func TestOtel_PropagateExtract(t *testing.T) {
	t.Parallel()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(t.Context(), sc)

	e := &testEvent{Header: event.NewEventHeader()}
	e.Propagate(ctx)
	assert.NotEmpty(t, e.Carrier)

	extracted := trace.SpanContextFromContext(e.Extract())
	assert.Equal(t, traceID, extracted.TraceID())
	assert.True(t, extracted.IsRemote())
}
