package middlewares

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/pkg/httpx"
)

var (
	tracer = otel.Tracer("amize/internal/ports/http/middlewares")
	logger = otelslog.NewLogger("amize/internal/ports/http/middlewares")
)

type Middleware struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	Errhandler *httpx.ErrorHandler
}

// NewMiddleware creates the request scoped middlewares.
//
// WARNING: panics if Errhandler is nil
func NewMiddleware(args Args) *Middleware {
	if args.Errhandler == nil {
		panic("error handler is required for middlewares")
	}
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &Middleware{
		tracer:     args.Tracer,
		logger:     args.Logger,
		errhandler: args.Errhandler,
	}
}
