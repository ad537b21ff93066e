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

const VerificationCodeSubject = "Your Amize verification code"

func (h *MailEventHandler) HandleVerificationCodeIssued(ctx context.Context, e *account.VerificationCodeIssued) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandleVerificationCodeIssued"

	l := h.logger.With(
		slog.String("event", "VerificationCodeIssued"),
		slog.String("account.id", e.AccountID.String()),
		slog.String("account.email", logging.RedactEmail(e.Email)),
	)
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleVerificationCodeIssued",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(e.Extract())),
		trace.WithAttributes(
			attribute.String("event.account.id", e.AccountID.String()),
			attribute.String("event.account.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	err := validation.ValidateStruct(e,
		validation.Field(&e.Email, validation.Required, is.EmailFormat),
		validation.Field(&e.Code, validation.Required, validation.Length(account.VerificationCodeLength, account.VerificationCodeLength)),
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "invalid event payload")
		l.ErrorContext(ctx, "dropping malformed VerificationCodeIssued event", slog.Any("error", err))
		return nil
	}

	if !e.ExpiresAt.IsZero() && !time.Now().Before(e.ExpiresAt) {
		span.AddEvent("code already expired, skipping mail")
		l.InfoContext(ctx, "verification code expired before delivery, skipping mail")
		return nil
	}

	text, html, err := h.templates.Render(TemplateVerificationCode, map[string]any{
		"FirstName": e.FirstName,
		"Code":      e.Code,
		"ValidFor":  "10 minutes",
		"Year":      time.Now().Year(),
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to render mail")
		return errorx.Wrap(err, op)
	}

	receipt, err := h.send(ctx, mail.Payload{
		To:      e.Email,
		Subject: VerificationCodeSubject,
		Text:    text,
		HTML:    html,
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to send verification code")
		l.ErrorContext(ctx, "failed to send verification code", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	l.InfoContext(ctx, "verification code mail sent", slog.String("mail.message_id", receipt.MessageID))

	return nil
}
