package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/otelx"
)

const insertProfileQuery = `
	INSERT INTO profiles (id, user_id, role, creator_verified, creator_category, monetization_enabled,
		admin_permissions, profile_image, banner_image, interests,
		followers_count, following_count, videos_count, is_online, last_seen_at,
		is_eligible_for_creator, last_login_at, deactivated_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);`

type ProfileRepo struct {
	tracer trace.Tracer
	logger *slog.Logger
	pool   *pgxpool.Pool
}

// NewProfileRepo creates a new instance of ProfileRepo.
//
// WARNING: panics if pool is nil
func NewProfileRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *ProfileRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &ProfileRepo{
		tracer: t,
		logger: l,
		pool:   pool,
	}
}

func (r *ProfileRepo) IsProfileExists(ctx context.Context, userID account.ID) (bool, error) {
	const op = "postgres.ProfileRepo.IsProfileExists"
	ctx, span := r.tracer.Start(ctx, "ProfileRepo.IsProfileExists")
	defer span.End()

	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1);`, userID.String()).Scan(&exists)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to check profile existence")
		return false, errorx.Wrap(err, op)
	}

	return exists, nil
}

func (r *ProfileRepo) SaveProfile(ctx context.Context, p *profile.Profile) error {
	const op = "postgres.ProfileRepo.SaveProfile"
	ctx, span := r.tracer.Start(ctx, "ProfileRepo.SaveProfile")
	defer span.End()

	dto := DomainToProfileDTO(p)
	res, err := r.pool.Exec(ctx, insertProfileQuery,
		dto.ID,
		dto.UserID,
		dto.Role,
		dto.CreatorVerified,
		dto.CreatorCategory,
		dto.MonetizationEnabled,
		dto.AdminPermissions,
		dto.ProfileImage,
		dto.BannerImage,
		dto.Interests,
		dto.FollowersCount,
		dto.FollowingCount,
		dto.VideosCount,
		dto.IsOnline,
		dto.LastSeenAt,
		dto.IsEligibleForCreator,
		dto.LastLoginAt,
		dto.DeactivatedAt,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to insert profile")
		return errorx.Wrap(mapConstraintError(err), op)
	}
	if res.RowsAffected() == 0 {
		otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected while inserting profile")
		return errorx.Wrap(ErrNoRowsAffected, op)
	}

	return nil
}

func (r *ProfileRepo) GetProfileByUserID(ctx context.Context, userID account.ID) (*profile.Profile, error) {
	const op = "postgres.ProfileRepo.GetProfileByUserID"
	ctx, span := r.tracer.Start(ctx, "ProfileRepo.GetProfileByUserID")
	defer span.End()

	query := `
	SELECT id, user_id, role, creator_verified, creator_category, monetization_enabled,
		admin_permissions, profile_image, banner_image, interests,
		followers_count, following_count, videos_count, is_online, last_seen_at,
		is_eligible_for_creator, last_login_at, deactivated_at, created_at, updated_at
	FROM profiles WHERE user_id = $1;`

	var dto ProfileDTO
	err := r.pool.QueryRow(ctx, query, userID.String()).Scan(
		&dto.ID, &dto.UserID, &dto.Role, &dto.CreatorVerified, &dto.CreatorCategory, &dto.MonetizationEnabled,
		&dto.AdminPermissions, &dto.ProfileImage, &dto.BannerImage, &dto.Interests,
		&dto.FollowersCount, &dto.FollowingCount, &dto.VideosCount, &dto.IsOnline, &dto.LastSeenAt,
		&dto.IsEligibleForCreator, &dto.LastLoginAt, &dto.DeactivatedAt, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get profile by user id")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, errorx.Wrap(err, op)
	}

	return ProfileToDomain(dto), nil
}
