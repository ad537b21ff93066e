package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/internal/adapters/repos/postgres"
	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
)

type Helper struct {
	pool     *pgxpool.Pool
	accounts *postgres.AccountRepo
	profiles *postgres.ProfileRepo
}

type Args struct {
	Pool     *pgxpool.Pool
	Accounts *postgres.AccountRepo
	Profiles *postgres.ProfileRepo
}

func NewHelper(args Args) *Helper {
	if args.Pool == nil {
		panic("pgxpool.Pool is required")
	}
	if args.Accounts == nil {
		args.Accounts = postgres.NewAccountRepo(args.Pool, nil, nil)
	}
	if args.Profiles == nil {
		args.Profiles = postgres.NewProfileRepo(args.Pool, nil, nil)
	}

	return &Helper{
		pool:     args.Pool,
		accounts: args.Accounts,
		profiles: args.Profiles,
	}
}

func (h *Helper) QueryOne(t *testing.T, query string, args ...any) pgx.Row {
	t.Helper()
	return h.pool.QueryRow(context.Background(), query, args...)
}

func (h *Helper) Exec(t *testing.T, query string, args ...any) pgconn.CommandTag {
	t.Helper()

	tag, err := h.pool.Exec(context.Background(), query, args...)
	require.NoError(t, err)

	return tag
}

func (h *Helper) TruncateAll(t *testing.T) {
	t.Helper()

	tables := []string{
		"follows",
		"profiles",
		"accounts",
		"watermill_" + account.EventStreamName,
	}

	ctx := context.Background()
	for _, table := range tables {
		_, err := h.pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}
}

// SeedAccount saves a through the repository, so its pending events reach the outbox.
func (h *Helper) SeedAccount(t *testing.T, a *account.Account) *Helper {
	t.Helper()
	require.NoError(t, h.accounts.SaveAccount(t.Context(), a))
	return h
}

func (h *Helper) SeedProfile(t *testing.T, p *profile.Profile) *Helper {
	t.Helper()
	require.NoError(t, h.profiles.SaveProfile(t.Context(), p))
	return h
}

func (h *Helper) SeedFollow(t *testing.T, followerID, followingID account.ID) *Helper {
	t.Helper()
	h.Exec(t, `INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)`, followerID.String(), followingID.String())
	return h
}

func (h *Helper) RequireAccountByEmail(t *testing.T, email string) *account.Account {
	t.Helper()

	a, err := h.accounts.GetAccountByEmail(t.Context(), email)
	require.NoError(t, err, "expected account with email %s to exist", email)
	return a
}

func (h *Helper) AssertAccountNotExists(t *testing.T, email string) *Helper {
	t.Helper()

	var exists bool
	err := h.QueryOne(t, `SELECT EXISTS (SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	require.NoError(t, err)
	assert.False(t, exists, "expected no account with email %s", email)
	return h
}

func (h *Helper) AssertAccountCount(t *testing.T, expected int) *Helper {
	t.Helper()

	var count int
	require.NoError(t, h.QueryOne(t, `SELECT COUNT(*) FROM accounts`).Scan(&count))
	assert.Equal(t, expected, count)
	return h
}

func (h *Helper) RequireProfile(t *testing.T, userID account.ID) *profile.Profile {
	t.Helper()

	p, err := h.profiles.GetProfileByUserID(t.Context(), userID)
	require.NoError(t, err, "expected profile for %s to exist", userID)
	return p
}

func (h *Helper) AssertProfileCount(t *testing.T, expected int) *Helper {
	t.Helper()

	var count int
	require.NoError(t, h.QueryOne(t, `SELECT COUNT(*) FROM profiles`).Scan(&count))
	assert.Equal(t, expected, count)
	return h
}
