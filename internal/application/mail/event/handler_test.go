package mailevent

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/event"
	"gitlab.com/amize/amize-backend/tests/mocks"
)

func newTestHandler(t *testing.T, sender *mocks.MockMailSender) *MailEventHandler {
	t.Helper()
	return NewMailEventHandler(MailEventHandlerArgs{
		Mailsender:  sender,
		FrontendURL: "https://app.amize.test",
		SendTimeout: 50 * time.Millisecond,
	})
}

func codeIssued() *account.VerificationCodeIssued {
	return &account.VerificationCodeIssued{
		Header:    event.NewEventHeader(),
		AccountID: account.NewID(),
		Email:     "a@x.com",
		Username:  "alice",
		FirstName: "Alice",
		Code:      "042917",
		ExpiresAt: time.Now().UTC().Add(account.VerificationCodeTTL),
	}
}

func TestParseTemplates(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseTemplates()
	require.NoError(t, err)

	text, html, err := tmpl.Render(TemplateWelcome, map[string]any{
		"FirstName":   "<b>Alice</b>",
		"FrontendURL": "https://app.amize.test",
		"Year":        2024,
	})
	require.NoError(t, err)
	assert.Contains(t, text, "<b>Alice</b>")
	assert.Contains(t, html, "&lt;b&gt;Alice&lt;/b&gt;")
	assert.Contains(t, html, "https://app.amize.test")
	assert.Contains(t, html, "2024 Amize")

	_, _, err = tmpl.Render("missing", nil)
	assert.Error(t, err)
}

func TestHandleVerificationCodeIssued(t *testing.T) {
	t.Parallel()

	sender := mocks.NewMockMailSender()
	h := newTestHandler(t, sender)

	require.NoError(t, h.HandleVerificationCodeIssued(t.Context(), codeIssued()))

	p := sender.AssertMailSent(t, "a@x.com", VerificationCodeSubject)
	assert.Contains(t, p.Text, "042917")
	assert.Contains(t, p.Text, "10 minutes")
	assert.Contains(t, p.HTML, "042917")
	assert.Contains(t, p.HTML, "Hello Alice")
}

func TestHandleVerificationCodeIssued_Skips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*account.VerificationCodeIssued)
	}{
		{name: "expired code", mutate: func(e *account.VerificationCodeIssued) { e.ExpiresAt = time.Now().Add(-time.Second) }},
		{name: "invalid email", mutate: func(e *account.VerificationCodeIssued) { e.Email = "nope" }},
		{name: "missing code", mutate: func(e *account.VerificationCodeIssued) { e.Code = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := mocks.NewMockMailSender()
			h := newTestHandler(t, sender)
			e := codeIssued()
			tt.mutate(e)

			require.NoError(t, h.HandleVerificationCodeIssued(t.Context(), e))
			sender.AssertNoMailSent(t)
		})
	}
}

func TestHandleVerificationCodeIssued_DeliveryFailure(t *testing.T) {
	t.Parallel()

	smtpErr := errors.New("554 transaction failed")
	sender := mocks.NewMockMailSender().FailWith(smtpErr)
	h := newTestHandler(t, sender)

	err := h.HandleVerificationCodeIssued(t.Context(), codeIssued())
	require.ErrorIs(t, err, ErrDeliveryFailed)
	require.ErrorIs(t, err, smtpErr)
}

func TestHandleVerificationCodeIssued_SendTimeout(t *testing.T) {
	t.Parallel()

	sender := mocks.NewMockMailSender().Block()
	h := newTestHandler(t, sender)

	start := time.Now()
	err := h.HandleVerificationCodeIssued(t.Context(), codeIssued())
	require.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHandleEmailVerified(t *testing.T) {
	t.Parallel()

	sender := mocks.NewMockMailSender()
	h := newTestHandler(t, sender)

	err := h.HandleEmailVerified(t.Context(), &account.EmailVerified{
		Header:    event.NewEventHeader(),
		AccountID: account.NewID(),
		Email:     "a@x.com",
		FirstName: "Alice",
	})
	require.NoError(t, err)

	p := sender.AssertMailSent(t, "a@x.com", WelcomeSubject)
	assert.Equal(t, "Welcome to Amize - Let's Create Something Amazing!", p.Subject)
	assert.Contains(t, p.Text, "Hello Alice, welcome to Amize!")
	assert.Contains(t, p.HTML, `href="https://app.amize.test"`)
}

func TestHandle_NilEvent(t *testing.T) {
	t.Parallel()

	sender := mocks.NewMockMailSender()
	h := newTestHandler(t, sender)

	assert.NoError(t, h.HandleVerificationCodeIssued(t.Context(), nil))
	assert.NoError(t, h.HandleEmailVerified(t.Context(), nil))
	sender.AssertNoMailSent(t)
}
