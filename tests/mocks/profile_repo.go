package mocks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
	"gitlab.com/amize/amize-backend/pkg/errorx"
)

type ProfileRepo struct {
	mu       sync.Mutex
	byUserID map[account.ID]*profile.Profile
	saveErr  error
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{
		byUserID: make(map[account.ID]*profile.Profile),
	}
}

// FailSaveWith makes SaveProfile return err.
func (r *ProfileRepo) FailSaveWith(err error) *ProfileRepo {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
	return r
}

func (r *ProfileRepo) IsProfileExists(ctx context.Context, userID account.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.byUserID[userID]
	return ok, nil
}

func (r *ProfileRepo) SaveProfile(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	if p == nil {
		return errors.New("profile cannot be nil")
	}
	if _, ok := r.byUserID[p.UserID()]; ok {
		return profile.ErrAlreadyExists
	}

	r.byUserID[p.UserID()] = p
	return nil
}

func (r *ProfileRepo) GetProfileByUserID(ctx context.Context, userID account.ID) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.byUserID[userID]; ok {
		return p, nil
	}
	return nil, errorx.NewNotFound()
}

func (r *ProfileRepo) SeedProfile(t *testing.T, p *profile.Profile) *ProfileRepo {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.byUserID[p.UserID()]
	require.False(t, exists, "profile for %s already seeded", p.UserID())
	r.byUserID[p.UserID()] = p

	return r
}

func (r *ProfileRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUserID)
}
