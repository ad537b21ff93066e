package otelx_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"gitlab.com/amize/amize-backend/pkg/otelx"
)

func TestToAttribute(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ts := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	name := "alice"
	var nilName *string

	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "string", value: "x", want: attribute.StringValue("x")},
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "int", value: 42, want: attribute.IntValue(42)},
		{name: "pointer", value: &name, want: attribute.StringValue("alice")},
		{name: "nil pointer", value: nilName, want: attribute.StringValue("<nil>")},
		{name: "uuid", value: id, want: attribute.StringValue(id.String())},
		{name: "time", value: ts, want: attribute.StringValue("2024-06-15T10:00:00Z")},
		{name: "duration", value: time.Minute, want: attribute.StringValue("1m0s")},
		{name: "strings", value: []string{"a", "b"}, want: attribute.StringSliceValue([]string{"a", "b"})},
		{name: "fallback", value: struct{ A int }{A: 1}, want: attribute.StringValue("{1}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kv := otelx.ToAttribute("k", tt.value)
			assert.Equal(t, attribute.Key("k"), kv.Key)
			assert.Equal(t, tt.want, kv.Value)
		})
	}
}

func TestRecordSpanError(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(t.Context(), "op")
	otelx.RecordSpanError(span, errors.New("boom"), "failed op")
	otelx.SetSpanAttrs(span, map[string]any{"request.email": "al****@x.com"})
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "failed op", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("request.email", "al****@x.com"))
}
