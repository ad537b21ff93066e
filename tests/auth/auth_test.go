package auth

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	mailevent "gitlab.com/amize/amize-backend/internal/application/mail/event"
	"gitlab.com/amize/amize-backend/tests/builders"
	"gitlab.com/amize/amize-backend/tests/integration/framework"
	"gitlab.com/amize/amize-backend/tests/integration/framework/event"
	httpframework "gitlab.com/amize/amize-backend/tests/integration/framework/http"
)

type AuthIntegrationSuite struct {
	framework.IntegrationTestSuite
}

func TestAuthIntegrationSuite(t *testing.T) {
	suite.Run(t, new(AuthIntegrationSuite))
}

func registerBody(username, email string) map[string]any {
	return map[string]any{
		"username":        username,
		"email":           email,
		"password":        "password1",
		"confirmPassword": "password1",
		"firstName":       "Alice",
		"lastName":        "Lee",
		"dateOfBirth":     "2000-01-01",
		"gender":          "Female",
	}
}

func (s *AuthIntegrationSuite) waitForMail(to, subject string) {
	s.Require().Eventually(func() bool {
		for _, m := range s.Mail.GetSentMails() {
			if m.To == to && m.Subject == subject {
				return true
			}
		}
		return false
	}, 10*time.Second, 50*time.Millisecond, "no %q mail to %s", subject, to)
}

func (s *AuthIntegrationSuite) TestOutboxPurgeDropsDeliveredCodes() {
	t := s.T()
	const retention = 10 * time.Minute

	s.HTTP.Do(t, httpframework.Post("/api/auth/register").WithJSON(registerBody("bob", "bob@x.com")).Build()).
		AssertSuccess(http.StatusCreated)
	s.waitForMail("bob@x.com", mailevent.VerificationCodeSubject)

	n, err := s.Event.Purge(retention)
	s.Require().NoError(err)
	s.Zero(n, "events younger than the retention stay")
	s.Event.AssertEventCount(t, event.NameVerificationCodeIssued, 1)

	s.Event.Backdate(t, retention+time.Minute)
	s.Require().Eventually(func() bool {
		n, err := s.Event.Purge(retention)
		return err == nil && n > 0
	}, 10*time.Second, 50*time.Millisecond, "acked events should be purged")
	s.Event.AssertNoEvent(t, event.NameVerificationCodeIssued)
}

func (s *AuthIntegrationSuite) TestRegisterVerifyLogin() {
	t := s.T()

	s.HTTP.Do(t, httpframework.Post("/api/auth/register").WithJSON(registerBody("Alice", "Alice@X.com")).Build()).
		AssertSuccess(http.StatusCreated).
		AssertMessage("Registration successful! Please check your email for a verification code.")

	a := s.DB.RequireAccountByEmail(t, "alice@x.com")
	s.Equal("alice", a.Username())
	s.Equal("Alice Lee", a.FullName())
	s.False(a.IsVerified())
	s.Equal(framework.DefaultAvatarURL, a.ProfilePhotoURL())
	s.Event.AssertEventCount(t, event.NameVerificationCodeIssued, 1)

	issued := s.Event.LatestVerificationCodeIssued(t)
	s.Equal(a.ID(), issued.AccountID)
	s.Len(issued.Code, 6)

	s.waitForMail("alice@x.com", mailevent.VerificationCodeSubject)
	for _, m := range s.Mail.GetSentMails() {
		if m.Subject == mailevent.VerificationCodeSubject {
			s.True(strings.Contains(m.Text, issued.Code), "mail should carry the code")
		}
	}

	res := s.HTTP.Do(t, httpframework.Post("/api/auth/login").
		WithJSON(map[string]any{"email": "alice@x.com", "password": "password1"}).Build()).
		AssertSuccess(http.StatusOK)
	user := res.JSON()["user"].(map[string]any)
	s.Equal(false, user["isVerified"])

	s.HTTP.Do(t, httpframework.Post("/api/auth/verify-email").
		WithJSON(map[string]any{"email": "alice@x.com", "code": issued.Code}).Build()).
		AssertSuccess(http.StatusOK).
		AssertMessage("Email verified successfully! Welcome to Amize.")

	verified := s.DB.RequireAccountByEmail(t, "alice@x.com")
	s.True(verified.IsVerified())
	s.Empty(verified.VerificationCode())
	s.Event.Eventually(t, event.NameEmailVerified, 5*time.Second)
	s.waitForMail("alice@x.com", mailevent.WelcomeSubject)

	res = s.HTTP.Do(t, httpframework.Post("/api/auth/login").
		WithJSON(map[string]any{"email": "alice@x.com", "password": "password1"}).Build()).
		AssertSuccess(http.StatusOK)
	user = res.JSON()["user"].(map[string]any)
	s.Equal(true, user["isVerified"])
	s.Equal(a.ID().String(), user["id"])

	res = s.HTTP.Do(t, httpframework.Get("/api/auth/me").AsViewer(a.ID().String()).Build()).
		AssertSuccess(http.StatusOK)
	me := res.JSON()["user"].(map[string]any)
	s.Equal("alice", me["username"])
	s.NotContains(me, "passHash")
}

func (s *AuthIntegrationSuite) TestRegister_Conflicts() {
	t := s.T()
	s.DB.SeedAccount(t, builders.NewAccountBuilder().WithEmail("taken@x.com").WithUsername("taken").Build())

	s.HTTP.Do(t, httpframework.Post("/api/auth/register").WithJSON(registerBody("fresh", "TAKEN@x.com")).Build()).
		AssertError(http.StatusConflict, "CONFLICT").
		AssertMessage("An account with this email already exists.")

	s.HTTP.Do(t, httpframework.Post("/api/auth/register").WithJSON(registerBody("Taken", "fresh@x.com")).Build()).
		AssertError(http.StatusConflict, "CONFLICT").
		AssertMessage("This username is already taken.")

	s.DB.AssertAccountCount(t, 1)
}

func (s *AuthIntegrationSuite) TestRegister_Validation() {
	t := s.T()

	body := registerBody("al", "not-an-email")
	body["confirmPassword"] = "password2"
	body["dateOfBirth"] = "2999-01-01"

	s.HTTP.Do(t, httpframework.Post("/api/auth/register").WithJSON(body).Build()).
		AssertError(http.StatusBadRequest, "VALIDATION_FAILED").
		AssertFieldErrors("username", "email", "confirmPassword", "dateOfBirth")

	s.DB.AssertAccountCount(t, 0)
	s.Event.AssertNoEvent(t, event.NameVerificationCodeIssued)
}

func (s *AuthIntegrationSuite) TestVerifyEmail_Failures() {
	t := s.T()
	s.DB.SeedAccount(t, builders.NewAccountBuilder().WithEmail("code@x.com").WithUsername("code").Build())
	s.DB.SeedAccount(t, builders.NewAccountBuilder().WithEmail("old@x.com").WithUsername("old").WithExpiredCode().Build())

	s.HTTP.Do(t, httpframework.Post("/api/auth/verify-email").
		WithJSON(map[string]any{"email": "code@x.com", "code": "999999"}).Build()).
		AssertError(http.StatusBadRequest, "INVALID_OR_EXPIRED")

	s.HTTP.Do(t, httpframework.Post("/api/auth/verify-email").
		WithJSON(map[string]any{"email": "old@x.com", "code": "123456"}).Build()).
		AssertError(http.StatusBadRequest, "INVALID_OR_EXPIRED")

	s.HTTP.Do(t, httpframework.Post("/api/auth/verify-email").
		WithJSON(map[string]any{"email": "nobody@x.com", "code": "123456"}).Build()).
		AssertStatus(http.StatusNotFound)

	s.HTTP.Do(t, httpframework.Post("/api/auth/verify-email").
		WithJSON(map[string]any{"email": "code@x.com", "code": "12a456"}).Build()).
		AssertError(http.StatusBadRequest, "VALIDATION_FAILED").
		AssertFieldErrors("code")

	s.False(s.DB.RequireAccountByEmail(t, "code@x.com").IsVerified())
	s.Event.AssertNoEvent(t, event.NameEmailVerified)
}

func (s *AuthIntegrationSuite) TestLogin_InvalidCredentials() {
	t := s.T()
	s.DB.SeedAccount(t, builders.NewAccountBuilder().Build())

	s.HTTP.Do(t, httpframework.Post("/api/auth/login").
		WithJSON(map[string]any{"email": "a@x.com", "password": "wrong"}).Build()).
		AssertError(http.StatusUnauthorized, "INVALID_CREDENTIALS")

	s.HTTP.Do(t, httpframework.Post("/api/auth/login").
		WithJSON(map[string]any{"email": "ghost@x.com", "password": builders.DefaultPassword}).Build()).
		AssertError(http.StatusUnauthorized, "INVALID_CREDENTIALS")
}
