package mailer

import (
	"context"
	"errors"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/valueobject/mail"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/logging"
	"gitlab.com/amize/amize-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("amize/internal/adapters/services/mailer")
	logger = otelslog.NewLogger("amize/internal/adapters/services/mailer")
)

var ErrNotConfigured = errors.New("smtp host and sender address are required")

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// SMTP delivers mail through a single SMTP relay. A connection is dialed per
// mail; transactional volume does not justify pooling.
type SMTP struct {
	tracer trace.Tracer
	logger *slog.Logger
	client *gomail.Client
	from   string
}

func NewSMTP(cfg SMTPConfig, t trace.Tracer, l *slog.Logger) (*SMTP, error) {
	const op = "mailer.NewSMTP"
	if !cfg.Configured() {
		return nil, errorx.Wrap(ErrNotConfigured, op)
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	opts := []gomail.Option{
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	return &SMTP{tracer: t, logger: l, client: client, from: cfg.From}, nil
}

func (s *SMTP) SendMail(ctx context.Context, payload mail.Payload) (mail.Receipt, error) {
	const op = "mailer.SMTP.SendMail"
	ctx, span := s.tracer.Start(ctx, "SMTP.SendMail")
	defer span.End()
	span.SetAttributes(
		attribute.String("mail.to", logging.RedactEmail(payload.To)),
		attribute.String("mail.subject", payload.Subject),
	)

	if err := payload.Validate(); err != nil {
		otelx.RecordSpanError(span, err, "invalid mail payload")
		return mail.Receipt{}, errorx.Wrap(err, op)
	}

	msg, err := s.message(payload)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to build message")
		return mail.Receipt{}, errorx.Wrap(err, op)
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		otelx.RecordSpanError(span, err, "failed to send mail")
		return mail.Receipt{}, errorx.Wrap(err, op)
	}

	receipt := mail.Receipt{MessageID: msg.GetMessageID()}
	s.logger.InfoContext(ctx, "mail sent",
		slog.String("to", logging.RedactEmail(payload.To)),
		slog.String("message_id", receipt.MessageID),
	)

	return receipt, nil
}

func (s *SMTP) message(payload mail.Payload) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, err
	}
	if err := msg.To(payload.To); err != nil {
		return nil, err
	}
	msg.Subject(payload.Subject)
	msg.SetMessageID()
	msg.SetDate()
	msg.SetBodyString(gomail.TypeTextPlain, payload.Text)
	if payload.HTML != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, payload.HTML)
	}

	return msg, nil
}

// LogOnly stands in for SMTP when no relay is configured. It accepts every
// valid mail and only logs the recipient and subject.
type LogOnly struct {
	logger *slog.Logger
}

func NewLogOnly(l *slog.Logger) *LogOnly {
	if l == nil {
		l = logger
	}
	return &LogOnly{logger: l}
}

func (s *LogOnly) SendMail(ctx context.Context, payload mail.Payload) (mail.Receipt, error) {
	const op = "mailer.LogOnly.SendMail"
	if err := payload.Validate(); err != nil {
		return mail.Receipt{}, errorx.Wrap(err, op)
	}

	s.logger.WarnContext(ctx, "smtp not configured, mail skipped",
		slog.String("to", logging.RedactEmail(payload.To)),
		slog.String("subject", payload.Subject),
	)

	return mail.Receipt{Skipped: true}, nil
}

// Sender is implemented by SMTP and LogOnly.
type Sender interface {
	SendMail(ctx context.Context, payload mail.Payload) (mail.Receipt, error)
}

// New returns an SMTP sender when cfg is complete and a LogOnly sender otherwise.
func New(cfg SMTPConfig, l *slog.Logger) (Sender, error) {
	if l == nil {
		l = logger
	}
	if !cfg.Configured() {
		l.Warn("smtp is not configured, email sending will be disabled")
		return NewLogOnly(l), nil
	}

	return NewSMTP(cfg, nil, l)
}
