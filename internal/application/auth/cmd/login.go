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

type Login struct {
	Email    string
	Password string
}

type LoginResponse struct {
	ID         account.ID
	Username   string
	Email      string
	IsVerified bool
}

type LoginHandler struct {
	tracer            trace.Tracer
	logger            *slog.Logger
	credentialsGetter CredentialsGetter
}

type LoginHandlerArgs struct {
	Tracer            trace.Tracer
	Logger            *slog.Logger
	CredentialsGetter CredentialsGetter
}

func NewLoginHandler(args LoginHandlerArgs) *LoginHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &LoginHandler{
		tracer:            args.Tracer,
		logger:            args.Logger,
		credentialsGetter: args.CredentialsGetter,
	}
}

// Handle checks the credentials and echoes the account. Unverified accounts may log in.
func (h *LoginHandler) Handle(ctx context.Context, cmd Login) (LoginResponse, error) {
	const op = "cmd.LoginHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "LoginHandler.Handle")
	defer span.End()

	email := sanitizex.CleanIdentifier(cmd.Email)
	span.SetAttributes(attribute.String("account.email", logging.RedactEmail(email)))

	a, err := h.credentialsGetter.GetAccountCredentialsByEmail(ctx, email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get account credentials")
		if errorx.IsNotFound(err) {
			account.BurnPasswordCheck(cmd.Password)
			return LoginResponse{}, errorx.Wrap(account.ErrInvalidCredentials.WithCause(err), op)
		}
		return LoginResponse{}, errorx.Wrap(err, op)
	}

	if err := a.ComparePassword(cmd.Password); err != nil {
		otelx.RecordSpanError(span, err, "password mismatch")
		return LoginResponse{}, errorx.Wrap(err, op)
	}

	span.SetAttributes(
		attribute.String("account.id", a.ID().String()),
		attribute.Bool("account.is_verified", a.IsVerified()),
	)

	return LoginResponse{
		ID:         a.ID(),
		Username:   a.Username(),
		Email:      a.Email(),
		IsVerified: a.IsVerified(),
	}, nil
}
