package account

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const PasswordCostFactor = bcrypt.DefaultCost

// dummyHash is compared against when no account matches a login, so unknown
// emails cost the same bcrypt work as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("amize-dummy-password"), PasswordCostFactor)

func NewPasswordHash(password string) ([]byte, error) {
	passhash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCostFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password hash from password: %w", err)
	}
	return passhash, nil
}

// VerifyPassword reports whether password matches hash using bcrypt's own comparison.
func VerifyPassword(password string, hash []byte) bool {
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// ComparePassword returns ErrInvalidCredentials unless password matches the
// account's hash. The account must have been loaded with its credentials.
func (a *Account) ComparePassword(password string) error {
	if a == nil || len(a.passHash) == 0 {
		return ErrInvalidCredentials
	}
	if !VerifyPassword(password, a.passHash) {
		return ErrInvalidCredentials
	}
	return nil
}

// BurnPasswordCheck performs a throwaway bcrypt comparison.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
