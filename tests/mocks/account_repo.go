package mocks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/errorx"
)

type AccountRepo struct {
	*EventRepo
	mu         sync.Mutex
	byID       map[account.ID]*account.Account
	byEmail    map[string]*account.Account
	byUsername map[string]*account.Account
	err        error
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		EventRepo:  NewEventRepo(),
		byID:       make(map[account.ID]*account.Account),
		byEmail:    make(map[string]*account.Account),
		byUsername: make(map[string]*account.Account),
	}
}

// FailWith makes every following call return err.
func (r *AccountRepo) FailWith(err error) *AccountRepo {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	return r
}

func (r *AccountRepo) IsAccountExists(ctx context.Context, email, username string) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, false, r.err
	}

	_, emailTaken := r.byEmail[strings.ToLower(email)]
	_, usernameTaken := r.byUsername[strings.ToLower(username)]
	return emailTaken, usernameTaken, nil
}

func (r *AccountRepo) SaveAccount(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if a == nil {
		return errors.New("account cannot be nil")
	}

	if _, exists := r.byEmail[strings.ToLower(a.Email())]; exists {
		return account.ErrEmailTaken
	}
	if _, exists := r.byUsername[strings.ToLower(a.Username())]; exists {
		return account.ErrUsernameTaken
	}

	a.RecomputeDerived()
	r.put(a)
	r.appendEvents(a.GetUncommittedEvents()...)
	a.MarkEventsAsCommitted()

	return nil
}

func (r *AccountRepo) GetAccountByID(ctx context.Context, id account.ID) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	if a, ok := r.byID[id]; ok {
		return a, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *AccountRepo) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	if a, ok := r.byEmail[strings.ToLower(email)]; ok {
		return a, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *AccountRepo) GetAccountCredentialsByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.GetAccountByEmail(ctx, email)
}

func (r *AccountRepo) UpdateAccountByEmail(
	ctx context.Context,
	email string,
	fn func(ctx context.Context, a *account.Account) error,
) error {
	if fn == nil {
		return errors.New("update function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}

	a, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return errorx.NewNotFound()
	}

	if err := fn(ctx, a); err != nil {
		return err
	}

	a.RecomputeDerived()
	r.put(a)
	r.appendEvents(a.GetUncommittedEvents()...)
	a.MarkEventsAsCommitted()

	return nil
}

func (r *AccountRepo) put(a *account.Account) {
	r.byID[a.ID()] = a
	r.byEmail[strings.ToLower(a.Email())] = a
	r.byUsername[strings.ToLower(a.Username())] = a
}

func (r *AccountRepo) SeedAccount(t *testing.T, a *account.Account) *AccountRepo {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.byID[a.ID()]
	require.False(t, exists, "account %s already seeded", a.ID())
	r.put(a)
	a.MarkEventsAsCommitted()

	return r
}

func (r *AccountRepo) RequireAccountByEmail(t *testing.T, email string) *account.Account {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byEmail[strings.ToLower(email)]
	require.True(t, ok, "expected account with email %s to exist", email)
	return a
}

func (r *AccountRepo) AssertAccountNotExistsByEmail(t *testing.T, email string) *AccountRepo {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.byEmail[strings.ToLower(email)]
	assert.False(t, ok, "expected account with email %s to not exist", email)
	return r
}

func (r *AccountRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
