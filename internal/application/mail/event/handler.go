package mailevent

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/valueobject/mail"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/i18nx"
)

const (
	DefaultSendTimeout = 10 * time.Second
	DefaultFrontendURL = "https://amize.com"
)

var (
	tracer = otel.Tracer("amize/application/mail/event")
	logger = otelslog.NewLogger("amize/application/mail/event")
)

var ErrDeliveryFailed = errorx.NewUpstreamServiceError().WithKey(i18nx.KeyMailDeliveryFailed)

type MailSender interface {
	SendMail(ctx context.Context, payload mail.Payload) (mail.Receipt, error)
}

type MailEventHandler struct {
	tracer      trace.Tracer
	logger      *slog.Logger
	mailsender  MailSender
	templates   *Templates
	frontendURL string
	sendTimeout time.Duration
}

type MailEventHandlerArgs struct {
	Tracer      trace.Tracer
	Logger      *slog.Logger
	Mailsender  MailSender
	Templates   *Templates
	FrontendURL string
	SendTimeout time.Duration
}

func NewMailEventHandler(args MailEventHandlerArgs) *MailEventHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}
	if args.Templates == nil {
		args.Templates = MustParseTemplates()
	}
	if args.FrontendURL == "" {
		args.FrontendURL = DefaultFrontendURL
	}
	if args.SendTimeout <= 0 {
		args.SendTimeout = DefaultSendTimeout
	}

	return &MailEventHandler{
		tracer:      args.Tracer,
		logger:      args.Logger,
		mailsender:  args.Mailsender,
		templates:   args.Templates,
		frontendURL: args.FrontendURL,
		sendTimeout: args.SendTimeout,
	}
}

// send delivers p within the configured timeout.
func (h *MailEventHandler) send(ctx context.Context, p mail.Payload) (mail.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	defer cancel()

	receipt, err := h.mailsender.SendMail(ctx, p)
	if err != nil {
		return mail.Receipt{}, ErrDeliveryFailed.WithCause(err)
	}

	return receipt, nil
}
