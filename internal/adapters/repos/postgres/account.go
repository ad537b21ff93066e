package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/otelx"
	"gitlab.com/amize/amize-backend/pkg/postgres"
	"gitlab.com/amize/amize-backend/pkg/watermillx"
)

const (
	accountColumns = `id, username, email, first_name, last_name, full_name, date_of_birth, age,
		bio, gender, profile_photo_url, is_verified, verification_code, verification_code_expiry,
		created_at, updated_at`

	insertAccountQuery = `
	INSERT INTO accounts (id, username, email, pass_hash, first_name, last_name, full_name, date_of_birth, age,
		bio, gender, profile_photo_url, is_verified, verification_code, verification_code_expiry,
		created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`

	updateAccountQuery = `
	UPDATE accounts
	SET first_name = $2, last_name = $3, full_name = $4, date_of_birth = $5, age = $6,
		bio = $7, gender = $8, profile_photo_url = $9, is_verified = $10,
		verification_code = $11, verification_code_expiry = $12, updated_at = $13
	WHERE id = $1;`
)

type AccountRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewAccountRepo creates a new instance of AccountRepo.
//
// WARNING: panics if pool is nil
func NewAccountRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *AccountRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &AccountRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

// IsAccountExists reports case-insensitively whether email and username are already taken.
func (r *AccountRepo) IsAccountExists(ctx context.Context, email, username string) (bool, bool, error) {
	const op = "postgres.AccountRepo.IsAccountExists"
	ctx, span := r.tracer.Start(ctx, "AccountRepo.IsAccountExists")
	defer span.End()

	query := `
	SELECT
		EXISTS (SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1)),
		EXISTS (SELECT 1 FROM accounts WHERE LOWER(username) = LOWER($2));`

	var emailTaken, usernameTaken bool
	if err := r.pool.QueryRow(ctx, query, email, username).Scan(&emailTaken, &usernameTaken); err != nil {
		otelx.RecordSpanError(span, err, "failed to check account existence")
		return false, false, errorx.Wrap(err, op)
	}

	return emailTaken, usernameTaken, nil
}

func (r *AccountRepo) SaveAccount(ctx context.Context, a *account.Account) error {
	const op = "postgres.AccountRepo.SaveAccount"
	ctx, span := r.tracer.Start(ctx, "AccountRepo.SaveAccount")
	defer span.End()

	a.RecomputeDerived()
	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		dto := DomainToAccountDTO(a)
		res, err := tx.Exec(ctx, insertAccountQuery,
			dto.ID,
			dto.Username,
			dto.Email,
			dto.PassHash,
			dto.FirstName,
			dto.LastName,
			dto.FullName,
			dto.DateOfBirth,
			dto.Age,
			dto.Bio,
			dto.Gender,
			dto.ProfilePhotoURL,
			dto.IsVerified,
			dto.VerificationCode,
			dto.VerificationCodeExpiry,
			dto.CreatedAt,
			dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert account")
			return errorx.Wrap(mapConstraintError(err), op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected while inserting account")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}

		events := a.GetUncommittedEvents()
		if len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return errorx.Wrap(err, op)
			}
		}
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to execute transaction")
		return err
	}

	a.MarkEventsAsCommitted()
	return nil
}

// UpdateAccountByEmail loads the account under a row lock, applies fn and
// persists the result together with any events fn raised. Nothing is written
// when fn fails.
func (r *AccountRepo) UpdateAccountByEmail(
	ctx context.Context,
	email string,
	fn func(ctx context.Context, a *account.Account) error,
) error {
	const op = "postgres.AccountRepo.UpdateAccountByEmail"
	ctx, span := r.tracer.Start(ctx, "AccountRepo.UpdateAccountByEmail")
	defer span.End()
	if fn == nil {
		otelx.RecordSpanError(span, ErrNilFunc, "update function cannot be nil")
		return ErrNilFunc
	}

	var updated *account.Account
	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1) FOR UPDATE;`

		dto, err := scanAccount(tx.QueryRow(ctx, query, email), false)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to get account by email")
			if errors.Is(err, pgx.ErrNoRows) {
				return errorx.NewNotFound().WithCause(err)
			}
			return errorx.Wrap(err, op)
		}

		a := AccountToDomain(dto)
		if err := fn(ctx, a); err != nil {
			otelx.RecordSpanError(span, err, "update function returned an error")
			return errorx.Wrap(err, op)
		}
		a.RecomputeDerived()

		dto = DomainToAccountDTO(a)
		res, err := tx.Exec(ctx, updateAccountQuery,
			dto.ID,
			dto.FirstName,
			dto.LastName,
			dto.FullName,
			dto.DateOfBirth,
			dto.Age,
			dto.Bio,
			dto.Gender,
			dto.ProfilePhotoURL,
			dto.IsVerified,
			dto.VerificationCode,
			dto.VerificationCodeExpiry,
			dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update account")
			return errorx.Wrap(mapConstraintError(err), op)
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected while updating account")
			return errorx.Wrap(ErrNoRowsAffected, op)
		}

		events := a.GetUncommittedEvents()
		if len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return errorx.Wrap(err, op)
			}
		}

		updated = a
		return nil
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "transaction to update account failed")
		return err
	}

	updated.MarkEventsAsCommitted()
	return nil
}

// GetAccountByID returns the account without its password hash.
func (r *AccountRepo) GetAccountByID(ctx context.Context, id account.ID) (*account.Account, error) {
	const op = "postgres.AccountRepo.GetAccountByID"
	ctx, span := r.tracer.Start(ctx, "AccountRepo.GetAccountByID")
	defer span.End()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`

	dto, err := scanAccount(r.pool.QueryRow(ctx, query, id.String()), false)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get account by id")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, errorx.Wrap(err, op)
	}

	return AccountToDomain(dto), nil
}

// GetAccountByEmail returns the account without its password hash.
func (r *AccountRepo) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	const op = "postgres.AccountRepo.GetAccountByEmail"
	ctx, span := r.tracer.Start(ctx, "AccountRepo.GetAccountByEmail")
	defer span.End()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1);`

	dto, err := scanAccount(r.pool.QueryRow(ctx, query, email), false)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get account by email")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, errorx.Wrap(err, op)
	}

	return AccountToDomain(dto), nil
}

// GetAccountCredentialsByEmail is the only read that loads the password hash.
func (r *AccountRepo) GetAccountCredentialsByEmail(ctx context.Context, email string) (*account.Account, error) {
	const op = "postgres.AccountRepo.GetAccountCredentialsByEmail"
	ctx, span := r.tracer.Start(ctx, "AccountRepo.GetAccountCredentialsByEmail")
	defer span.End()

	query := `SELECT ` + accountColumns + `, pass_hash FROM accounts WHERE LOWER(email) = LOWER($1);`

	dto, err := scanAccount(r.pool.QueryRow(ctx, query, email), true)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get account credentials")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, errorx.Wrap(err, op)
	}

	return AccountToDomain(dto), nil
}

func scanAccount(row pgx.Row, withPassHash bool) (AccountDTO, error) {
	var dto AccountDTO
	dest := []any{
		&dto.ID, &dto.Username, &dto.Email, &dto.FirstName, &dto.LastName, &dto.FullName,
		&dto.DateOfBirth, &dto.Age, &dto.Bio, &dto.Gender, &dto.ProfilePhotoURL, &dto.IsVerified,
		&dto.VerificationCode, &dto.VerificationCodeExpiry, &dto.CreatedAt, &dto.UpdatedAt,
	}
	if withPassHash {
		dest = append(dest, &dto.PassHash)
	}

	err := row.Scan(dest...)
	return dto, err
}
