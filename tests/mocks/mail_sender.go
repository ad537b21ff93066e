package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/amize/amize-backend/internal/domain/valueobject/mail"
)

type MockMailSender struct {
	mu        sync.Mutex
	sentMails []mail.Payload
	err       error
	block     bool
}

func NewMockMailSender() *MockMailSender {
	return &MockMailSender{
		sentMails: make([]mail.Payload, 0),
	}
}

// FailWith makes SendMail return err without recording the mail.
func (m *MockMailSender) FailWith(err error) *MockMailSender {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Block makes SendMail wait until its context is done, like an unresponsive SMTP server.
func (m *MockMailSender) Block() *MockMailSender {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.block = true
	return m
}

func (m *MockMailSender) SendMail(ctx context.Context, payload mail.Payload) (mail.Receipt, error) {
	m.mu.Lock()
	block, err := m.block, m.err
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return mail.Receipt{}, ctx.Err()
	}
	if err != nil {
		return mail.Receipt{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentMails = append(m.sentMails, payload)

	return mail.Receipt{MessageID: fmt.Sprintf("<mock-%d@amize.test>", len(m.sentMails))}, nil
}

func (m *MockMailSender) GetSentMails() []mail.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mail.Payload{}, m.sentMails...)
}

func (m *MockMailSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentMails = make([]mail.Payload, 0)
}

func (m *MockMailSender) AssertMailSent(t *testing.T, email, subject string) mail.Payload {
	t.Helper()

	for _, p := range m.GetSentMails() {
		if p.To == email && strings.Contains(p.Subject, subject) {
			return p
		}
	}
	t.Errorf("expected mail to %s with subject containing %q", email, subject)

	return mail.Payload{}
}

func (m *MockMailSender) AssertNoMailSent(t *testing.T) {
	t.Helper()
	assert.Empty(t, m.GetSentMails())
}
