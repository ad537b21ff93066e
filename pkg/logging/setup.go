package logging

import (
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"gitlab.com/amize/amize-backend/pkg/env"
)

// Setup builds the process logger for mode and installs it as the slog default.
// Local and test modes get human readable text output, everything else JSON.
func Setup(mode env.Mode) *slog.Logger {
	logger := New(os.Stdout, mode)
	slog.SetDefault(logger)
	return logger
}

func New(w io.Writer, mode env.Mode) *slog.Logger {
	opts := &slog.HandlerOptions{Level: mode.SlogLevel()}

	var handler slog.Handler
	switch mode {
	case env.Local, env.Test:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// Component returns the OpenTelemetry bridged logger used by a component
// unless one is injected, e.g. Component("auth").
func Component(name string) *slog.Logger {
	return otelslog.NewLogger("amize/" + name)
}
