package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/otelx"
)

// FollowRepo answers read-only questions about the follow graph.
type FollowRepo struct {
	tracer trace.Tracer
	logger *slog.Logger
	pool   *pgxpool.Pool
}

// NewFollowRepo creates a new instance of FollowRepo.
//
// WARNING: panics if pool is nil
func NewFollowRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *FollowRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &FollowRepo{tracer: t, logger: l, pool: pool}
}

func (r *FollowRepo) IsFollowing(ctx context.Context, followerID, followingID account.ID) (bool, error) {
	const op = "postgres.FollowRepo.IsFollowing"
	ctx, span := r.tracer.Start(ctx, "FollowRepo.IsFollowing")
	defer span.End()

	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2);`

	var following bool
	if err := r.pool.QueryRow(ctx, query, followerID.String(), followingID.String()).Scan(&following); err != nil {
		otelx.RecordSpanError(span, err, "failed to check follow relation")
		return false, errorx.Wrap(err, op)
	}

	return following, nil
}
