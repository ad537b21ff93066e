package mailevent

import (
	"context"
	"log/slog"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/valueobject/mail"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/logging"
	"gitlab.com/amize/amize-backend/pkg/otelx"
)

const WelcomeSubject = "Welcome to Amize - Let's Create Something Amazing!"

func (h *MailEventHandler) HandleEmailVerified(ctx context.Context, e *account.EmailVerified) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandleEmailVerified"

	l := h.logger.With(
		slog.String("event", "EmailVerified"),
		slog.String("account.id", e.AccountID.String()),
	)
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleEmailVerified",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.account.id", e.AccountID.String()),
			attribute.String("event.account.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	if err := validation.Validate(e.Email, validation.Required, is.EmailFormat); err != nil {
		otelx.RecordSpanError(span, err, "invalid event payload")
		l.ErrorContext(ctx, "dropping malformed EmailVerified event", slog.Any("error", err))
		return nil
	}

	text, html, err := h.templates.Render(TemplateWelcome, map[string]any{
		"FirstName":   e.FirstName,
		"FrontendURL": h.frontendURL,
		"Year":        time.Now().Year(),
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to render mail")
		return errorx.Wrap(err, op)
	}

	receipt, err := h.send(ctx, mail.Payload{
		To:      e.Email,
		Subject: WelcomeSubject,
		Text:    text,
		HTML:    html,
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to send welcome mail")
		l.ErrorContext(ctx, "failed to send welcome mail", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	l.InfoContext(ctx, "welcome mail sent", slog.String("mail.message_id", receipt.MessageID))

	return nil
}
