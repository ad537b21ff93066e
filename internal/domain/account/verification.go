package account

import (
	"crypto/subtle"
	"time"

	"gitlab.com/amize/amize-backend/internal/domain/event"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/randcode"
)

const (
	VerificationCodeLength = 6
	VerificationCodeTTL    = 10 * time.Minute
)

type VerificationState string

const (
	StateUnverifiedNoCode      VerificationState = "unverified_no_code"
	StateUnverifiedCodePending VerificationState = "unverified_code_pending"
	StateVerified              VerificationState = "verified"
)

func (a *Account) VerificationState() VerificationState {
	switch {
	case a.IsVerified():
		return StateVerified
	case a.VerificationCode() != "":
		return StateUnverifiedCodePending
	default:
		return StateUnverifiedNoCode
	}
}

// IssueVerificationCodeAt attaches a fresh code valid for VerificationCodeTTL
// from now and records VerificationCodeIssued so the code gets mailed.
func (a *Account) IssueVerificationCodeAt(now time.Time) error {
	const op = "account.Account.IssueVerificationCode"
	if a.isVerified {
		return errorx.Wrap(ErrAlreadyVerified, op)
	}

	code, err := GenerateCode(VerificationCodeLength)
	if err != nil {
		return errorx.Wrap(err, op)
	}

	a.verificationCode = code
	a.verificationCodeExpiry = now.UTC().Add(VerificationCodeTTL)
	a.updatedAt = now.UTC()

	a.AddEvent(&VerificationCodeIssued{
		Header:    event.NewEventHeaderAt(now),
		AccountID: a.id,
		Email:     a.email,
		Username:  a.username,
		FirstName: a.firstName,
		Code:      code,
		ExpiresAt: a.verificationCodeExpiry,
	})

	return nil
}

// VerifyEmail checks code against the outstanding verification code using the current time.
func (a *Account) VerifyEmail(code string) error {
	return a.VerifyEmailAt(code, time.Now().UTC())
}

// VerifyEmailAt accepts code iff it equals the stored code and now is strictly
// before the stored expiry. A rejected code leaves the account untouched.
func (a *Account) VerifyEmailAt(code string, now time.Time) error {
	const op = "account.Account.VerifyEmail"
	if a == nil {
		return errorx.Wrap(ErrNotFound, op)
	}
	if a.isVerified {
		return errorx.Wrap(ErrAlreadyVerified, op)
	}
	if a.verificationCode == "" || a.verificationCodeExpiry.IsZero() {
		return errorx.Wrap(ErrInvalidOrExpiredCode, op)
	}
	if subtle.ConstantTimeCompare([]byte(a.verificationCode), []byte(code)) != 1 {
		return errorx.Wrap(ErrInvalidOrExpiredCode, op)
	}
	if !now.Before(a.verificationCodeExpiry) {
		return errorx.Wrap(ErrInvalidOrExpiredCode, op)
	}

	a.isVerified = true
	a.verificationCode = ""
	a.verificationCodeExpiry = time.Time{}
	a.updatedAt = now.UTC()

	a.AddEvent(&EmailVerified{
		Header:    event.NewEventHeaderAt(now),
		AccountID: a.id,
		Email:     a.email,
		Username:  a.username,
		FirstName: a.firstName,
	})

	return nil
}

// GenerateCode returns a numeric code of exactly length digits drawn from crypto/rand.
func GenerateCode(length int) (string, error) {
	const op = "account.GenerateCode"
	code, err := randcode.GenerateNumericCode(length)
	if err != nil {
		return "", errorx.Wrap(err, op)
	}
	return code, nil
}
