package cmd

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/logging"
	"gitlab.com/amize/amize-backend/pkg/otelx"
	"gitlab.com/amize/amize-backend/pkg/sanitizex"
)

var (
	tracer = otel.Tracer("amize/application/auth/cmd")
	logger = otelslog.NewLogger("amize/application/auth/cmd")
)

type Register struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Bio         string
	Gender      account.Gender
}

type RegisterHandler struct {
	tracer           trace.Tracer
	logger           *slog.Logger
	repo             Repo
	defaultAvatarURL string
}

type RegisterHandlerArgs struct {
	Tracer           trace.Tracer
	Logger           *slog.Logger
	Repo             Repo
	DefaultAvatarURL string
}

func NewRegisterHandler(args RegisterHandlerArgs) *RegisterHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &RegisterHandler{
		tracer:           args.Tracer,
		logger:           args.Logger,
		repo:             args.Repo,
		defaultAvatarURL: args.DefaultAvatarURL,
	}
}

// Handle creates an unverified account and returns its normalized email.
// The verification code mail goes out through the outbox once the account is committed.
func (h *RegisterHandler) Handle(ctx context.Context, cmd Register) (string, error) {
	const op = "cmd.RegisterHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "RegisterHandler.Handle")
	defer span.End()

	email := sanitizex.CleanIdentifier(cmd.Email)
	username := sanitizex.CleanIdentifier(cmd.Username)
	span.SetAttributes(
		attribute.String("account.email", logging.RedactEmail(email)),
		attribute.String("account.username", username),
	)

	emailTaken, usernameTaken, err := h.repo.IsAccountExists(ctx, email, username)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to check account existence")
		return "", errorx.Wrap(err, op)
	}
	if emailTaken {
		otelx.RecordSpanError(span, account.ErrEmailTaken, "email is taken")
		return "", errorx.Wrap(account.ErrEmailTaken, op)
	}
	if usernameTaken {
		otelx.RecordSpanError(span, account.ErrUsernameTaken, "username is taken")
		return "", errorx.Wrap(account.ErrUsernameTaken, op)
	}

	passhash, err := account.NewPasswordHash(cmd.Password)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to hash password")
		return "", errorx.Wrap(err, op)
	}

	a, err := account.NewAccount(account.NewAccountArgs{
		Username:        username,
		Email:           email,
		PassHash:        passhash,
		FirstName:       cmd.FirstName,
		LastName:        cmd.LastName,
		DateOfBirth:     cmd.DateOfBirth,
		Bio:             cmd.Bio,
		Gender:          cmd.Gender,
		ProfilePhotoURL: h.defaultAvatarURL,
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to create account")
		return "", errorx.Wrap(err, op)
	}
	span.SetAttributes(attribute.String("account.id", a.ID().String()))

	if err := h.repo.SaveAccount(ctx, a); err != nil {
		otelx.RecordSpanError(span, err, "failed to save account")
		return "", errorx.Wrap(err, op)
	}

	h.logger.InfoContext(ctx, "account registered",
		slog.String("account.id", a.ID().String()),
		slog.String("account.email", logging.RedactEmail(a.Email())),
	)

	return a.Email(), nil
}
