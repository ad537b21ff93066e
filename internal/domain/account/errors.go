package account

import (
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/i18nx"
)

var (
	ErrEmailTaken = errorx.NewConflict().
			WithKey(i18nx.KeyEmailNotAvailable).
			WithArgs(map[string]any{"Field": "email"})
	ErrUsernameTaken = errorx.NewConflict().
				WithKey(i18nx.KeyUsernameNotAvailable).
				WithArgs(map[string]any{"Field": "username"})
	ErrNotFound             = errorx.NewNotFound().WithKey(i18nx.KeyAccountNotFound)
	ErrAlreadyVerified      = errorx.NewAlreadyVerified()
	ErrInvalidOrExpiredCode = errorx.NewInvalidOrExpired()
	ErrInvalidCredentials   = errorx.NewInvalidCredentials()
)
