package mocks

import (
	"context"
	"sync"

	"gitlab.com/amize/amize-backend/internal/domain/account"
)

type followEdge struct {
	follower  account.ID
	following account.ID
}

type FollowRepo struct {
	mu    sync.Mutex
	edges map[followEdge]struct{}
}

func NewFollowRepo() *FollowRepo {
	return &FollowRepo{edges: make(map[followEdge]struct{})}
}

func (r *FollowRepo) Follow(followerID, followingID account.ID) *FollowRepo {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges[followEdge{followerID, followingID}] = struct{}{}
	return r
}

func (r *FollowRepo) IsFollowing(ctx context.Context, followerID, followingID account.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.edges[followEdge{followerID, followingID}]
	return ok, nil
}
