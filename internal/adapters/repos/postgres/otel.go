package postgres

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

var (
	tracer = otel.Tracer("amize/internal/adapters/repos/postgres")
	logger = otelslog.NewLogger("amize/internal/adapters/repos/postgres")
)
