package account

import (
	"time"

	"gitlab.com/amize/amize-backend/internal/domain/event"
)

const EventStreamName = "events_account"

type VerificationCodeIssued struct {
	event.Header
	event.Otel
	AccountID ID        `json:"account_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e VerificationCodeIssued) GetStreamName() string {
	return EventStreamName
}

type EmailVerified struct {
	event.Header
	event.Otel
	AccountID ID     `json:"account_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

func (e EmailVerified) GetStreamName() string {
	return EventStreamName
}
