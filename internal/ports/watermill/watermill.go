package watermill

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"gitlab.com/amize/amize-backend/internal/application/mail"
	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/watermillx"
)

const DefaultMaxRetries = 3

const (
	HandlerMailOnVerificationCodeIssued = "MailOnVerificationCodeIssued"
	HandlerMailOnEmailVerified          = "MailOnEmailVerified"
)

type Port struct {
	eventProcessor *cqrs.EventProcessor
	conn           *pgxpool.Pool
	logger         watermill.LoggerAdapter
}

type AppEventHandlers struct {
	Mail *mail.App
}

// NewPort registers retry and panic recovery on router and creates the
// outbox event processor. A message that still fails after the retries is
// logged by the router and acked, so one undeliverable email does not block
// the stream.
func NewPort(router *message.Router, conn *pgxpool.Pool, wmlogger watermill.LoggerAdapter, maxRetries int) (*Port, error) {
	addMiddlewares(router, wmlogger, maxRetries, time.Second)

	eventProcessor, err := watermillx.NewEventProcessor(router, conn, wmlogger)
	if err != nil {
		return nil, err
	}

	return &Port{eventProcessor: eventProcessor, conn: conn, logger: wmlogger}, nil
}

func NewPortForTest(router *message.Router, conn *pgxpool.Pool, wmlogger watermill.LoggerAdapter) (*Port, error) {
	addMiddlewares(router, wmlogger, DefaultMaxRetries, time.Millisecond)

	eventProcessor, err := watermillx.NewEventProcessorForTests(router, conn, wmlogger)
	if err != nil {
		return nil, err
	}

	return &Port{eventProcessor: eventProcessor, conn: conn, logger: wmlogger}, nil
}

func addMiddlewares(router *message.Router, wmlogger watermill.LoggerAdapter, maxRetries int, initialInterval time.Duration) {
	retry := middleware.Retry{
		MaxRetries:      maxRetries,
		InitialInterval: initialInterval,
		Multiplier:      2,
		Logger:          wmlogger,
	}

	router.AddMiddleware(
		ackAfterFailure(wmlogger),
		retry.Middleware,
		middleware.Recoverer,
	)
}

// ackAfterFailure drops a message whose handler failed every retry.
func ackAfterFailure(wmlogger watermill.LoggerAdapter) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			msgs, err := h(msg)
			if err != nil {
				wmlogger.Error("dropping message after retries", err, watermill.LogFields{
					"message_uuid": msg.UUID,
					"handler":      message.HandlerNameFromCtx(msg.Context()),
				})
				return nil, nil
			}
			return msgs, nil
		}
	}
}

func (p *Port) Run(ctx context.Context, handlers AppEventHandlers) error {
	err := p.eventProcessor.AddHandlers(
		cqrs.NewEventHandler(HandlerMailOnVerificationCodeIssued, handlers.Mail.Event.HandleVerificationCodeIssued),
		cqrs.NewEventHandler(HandlerMailOnEmailVerified, handlers.Mail.Event.HandleEmailVerified),
	)
	if err != nil {
		return fmt.Errorf("failed to add event handlers: %w", err)
	}

	return nil
}

// PurgeOutbox deletes account events, verification codes included, once they
// are older than retention and every handler has acked them. It runs every
// interval until ctx is done.
func (p *Port) PurgeOutbox(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := watermillx.PurgeAcked(ctx, p.conn, account.EventStreamName, retention)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.Error("failed to purge outbox", err, nil)
				}
				continue
			}
			if n > 0 {
				p.logger.Debug("purged outbox", watermill.LogFields{"deleted": n, "topic": account.EventStreamName})
			}
		}
	}
}
