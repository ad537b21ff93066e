package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
	"gitlab.com/amize/amize-backend/pkg/errorx"
)

var (
	ErrNoRowsAffected = errors.New("no rows affected")
	ErrNilFunc        = errors.New("update function cannot be nil")
)

const (
	constraintAccountEmail    = "accounts_email_lower_key"
	constraintAccountUsername = "accounts_username_lower_key"
	constraintProfileUserID   = "profiles_user_id_key"
	constraintProfileAccount  = "profiles_user_id_fkey"
)

// mapConstraintError turns unique and foreign key violations into domain errors.
// The violated constraint decides which one, so concurrent writers that both
// passed a pre-check still get the right message.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintAccountEmail:
			return account.ErrEmailTaken.WithCause(err)
		case constraintAccountUsername:
			return account.ErrUsernameTaken.WithCause(err)
		case constraintProfileUserID:
			return profile.ErrAlreadyExists.WithCause(err)
		default:
			return errorx.NewConflict().WithCause(err)
		}
	case pgerrcode.ForeignKeyViolation:
		if pgErr.ConstraintName == constraintProfileAccount {
			return account.ErrNotFound.WithCause(err)
		}
	}

	return err
}
