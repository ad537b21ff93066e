package cmd

import (
	"context"
	"io"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
)

type Repo interface {
	IsProfileExists(ctx context.Context, userID account.ID) (bool, error)
	SaveProfile(ctx context.Context, p *profile.Profile) error
}

type AccountGetter interface {
	GetAccountByID(ctx context.Context, id account.ID) (*account.Account, error)
}

type FollowChecker interface {
	IsFollowing(ctx context.Context, followerID, followingID account.ID) (bool, error)
}

type BlobStore interface {
	// Upload stores r under folder and returns the object key and its public URL.
	Upload(ctx context.Context, folder string, r io.Reader, size int64, contentType string) (key string, url string, err error)
	Delete(ctx context.Context, key string) error
}
