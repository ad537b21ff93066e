package cmd

import (
	"context"

	"gitlab.com/amize/amize-backend/internal/domain/account"
)

type Repo interface {
	// IsAccountExists reports which of email and username are already used,
	// compared case-insensitively.
	IsAccountExists(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error)
	SaveAccount(ctx context.Context, a *account.Account) error
	UpdateAccountByEmail(ctx context.Context, email string, fn func(ctx context.Context, a *account.Account) error) error
}

type CredentialsGetter interface {
	GetAccountCredentialsByEmail(ctx context.Context, email string) (*account.Account, error)
}
