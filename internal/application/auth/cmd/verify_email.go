package cmd

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/logging"
	"gitlab.com/amize/amize-backend/pkg/otelx"
	"gitlab.com/amize/amize-backend/pkg/sanitizex"
)

type VerifyEmail struct {
	Email string
	Code  string
}

type VerifyEmailHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	repo   Repo
}

type VerifyEmailHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Repo   Repo
}

func NewVerifyEmailHandler(args VerifyEmailHandlerArgs) *VerifyEmailHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &VerifyEmailHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		repo:   args.Repo,
	}
}

func (h *VerifyEmailHandler) Handle(ctx context.Context, cmd VerifyEmail) error {
	const op = "cmd.VerifyEmailHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "VerifyEmailHandler.Handle")
	defer span.End()

	email := sanitizex.CleanIdentifier(cmd.Email)
	span.SetAttributes(attribute.String("account.email", logging.RedactEmail(email)))

	err := h.repo.UpdateAccountByEmail(ctx, email, func(ctx context.Context, a *account.Account) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("account.id", a.ID().String()))
		return a.VerifyEmail(cmd.Code)
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to verify email")
		if errorx.IsNotFound(err) {
			return errorx.Wrap(account.ErrNotFound.WithCause(err), op)
		}
		return errorx.Wrap(err, op)
	}

	h.logger.InfoContext(ctx, "email verified", slog.String("account.email", logging.RedactEmail(email)))

	return nil
}
