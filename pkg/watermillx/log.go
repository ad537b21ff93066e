package watermillx

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/ThreeDotsLabs/watermill"
)

// LevelTrace sits below slog.LevelDebug; watermill logs every message hop at it.
const LevelTrace = slog.LevelDebug - 4

// SlogLogger adapts slog to watermill, dropping records below minLevel before
// the field map is converted. Router and subscriber chatter is mostly Trace
// and Debug, so production runs pay nothing for it.
type SlogLogger struct {
	logger   *slog.Logger
	minLevel slog.Level
}

func NewSlogLogger(logger *slog.Logger, minLevel slog.Level) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{
		logger:   logger.With(slog.String("component", "watermill")),
		minLevel: minLevel,
	}
}

func (l *SlogLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.log(slog.LevelError, msg, fields, slog.Any("error", err))
}

func (l *SlogLogger) Info(msg string, fields watermill.LogFields) {
	l.log(slog.LevelInfo, msg, fields)
}

func (l *SlogLogger) Debug(msg string, fields watermill.LogFields) {
	l.log(slog.LevelDebug, msg, fields)
}

func (l *SlogLogger) Trace(msg string, fields watermill.LogFields) {
	l.log(LevelTrace, msg, fields)
}

func (l *SlogLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &SlogLogger{
		logger:   l.logger.With(toAttrs(fields)...),
		minLevel: l.minLevel,
	}
}

func (l *SlogLogger) log(level slog.Level, msg string, fields watermill.LogFields, extra ...any) {
	ctx := context.Background()
	if level < l.minLevel || !l.logger.Enabled(ctx, level) {
		return
	}
	l.logger.Log(ctx, level, msg, append(toAttrs(fields), extra...)...)
}

// toAttrs converts fields in key order so repeated records render identically.
func toAttrs(fields watermill.LogFields) []any {
	attrs := make([]any, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}
