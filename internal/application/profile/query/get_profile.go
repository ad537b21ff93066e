package query

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("amize/application/profile/query")
	logger = otelslog.NewLogger("amize/application/profile/query")
)

type ProfileGetter interface {
	GetProfileByUserID(ctx context.Context, userID account.ID) (*profile.Profile, error)
}

type AccountGetter interface {
	GetAccountByID(ctx context.Context, id account.ID) (*account.Account, error)
}

type FollowChecker interface {
	IsFollowing(ctx context.Context, followerID, followingID account.ID) (bool, error)
}

type GetProfile struct {
	UserID account.ID
	Viewer *account.ID
}

type Owner struct {
	ID       account.ID
	Username string
	Email    string
}

type GetProfileResponse struct {
	Profile      *profile.Profile
	Owner        Owner
	IsOwnProfile bool
	IsFollowing  bool
}

type GetProfileHandler struct {
	tracer        trace.Tracer
	logger        *slog.Logger
	profileGetter ProfileGetter
	accountGetter AccountGetter
	followChecker FollowChecker
}

type GetProfileHandlerArgs struct {
	Tracer        trace.Tracer
	Logger        *slog.Logger
	ProfileGetter ProfileGetter
	AccountGetter AccountGetter
	FollowChecker FollowChecker
}

func NewGetProfileHandler(args GetProfileHandlerArgs) *GetProfileHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &GetProfileHandler{
		tracer:        args.Tracer,
		logger:        args.Logger,
		profileGetter: args.ProfileGetter,
		accountGetter: args.AccountGetter,
		followChecker: args.FollowChecker,
	}
}

func (h *GetProfileHandler) Handle(ctx context.Context, query GetProfile) (*GetProfileResponse, error) {
	const op = "query.GetProfileHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "GetProfileHandler.Handle",
		trace.WithAttributes(attribute.String("profile.user_id", query.UserID.String())),
	)
	defer span.End()

	p, err := h.profileGetter.GetProfileByUserID(ctx, query.UserID)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get profile")
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(profile.ErrNotFound.WithCause(err), op)
		}
		return nil, errorx.Wrap(err, op)
	}

	a, err := h.accountGetter.GetAccountByID(ctx, query.UserID)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get profile owner")
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(profile.ErrNotFound.WithCause(err), op)
		}
		return nil, errorx.Wrap(err, op)
	}

	res := &GetProfileResponse{
		Profile: p,
		Owner: Owner{
			ID:       a.ID(),
			Username: a.Username(),
			Email:    a.Email(),
		},
	}

	if query.Viewer != nil {
		res.IsOwnProfile = *query.Viewer == query.UserID
		if !res.IsOwnProfile {
			res.IsFollowing, err = h.followChecker.IsFollowing(ctx, *query.Viewer, query.UserID)
			if err != nil {
				otelx.RecordSpanError(span, err, "failed to check follow")
				return nil, errorx.Wrap(err, op)
			}
		}
	}
	span.SetAttributes(
		attribute.Bool("profile.is_own", res.IsOwnProfile),
		attribute.Bool("profile.is_following", res.IsFollowing),
	)

	return res, nil
}
