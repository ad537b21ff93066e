package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ARUMANDESU/validation"
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
	tracer = otel.Tracer("amize/application/profile/cmd")
	logger = otelslog.NewLogger("amize/application/profile/cmd")
)

const DefaultUploadTimeout = 30 * time.Second

type Media struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

type CreateProfile struct {
	UserID          account.ID
	Role            profile.Role
	CreatorCategory string
	Interests       []string
	ProfileImage    *Media
	BannerImage     *Media
	// Viewer is the requesting account, nil for anonymous requests.
	Viewer *account.ID
}

type CreateProfileResponse struct {
	Profile      *profile.Profile
	IsOwnProfile bool
	IsFollowing  bool
}

type CreateProfileHandler struct {
	tracer        trace.Tracer
	logger        *slog.Logger
	repo          Repo
	accountGetter AccountGetter
	followChecker FollowChecker
	blobStore     BlobStore
	uploadTimeout time.Duration
}

type CreateProfileHandlerArgs struct {
	Tracer        trace.Tracer
	Logger        *slog.Logger
	Repo          Repo
	AccountGetter AccountGetter
	FollowChecker FollowChecker
	BlobStore     BlobStore
	// UploadTimeout bounds each media upload, DefaultUploadTimeout when zero.
	UploadTimeout time.Duration
}

func NewCreateProfileHandler(args CreateProfileHandlerArgs) *CreateProfileHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}
	if args.UploadTimeout <= 0 {
		args.UploadTimeout = DefaultUploadTimeout
	}

	return &CreateProfileHandler{
		tracer:        args.Tracer,
		logger:        args.Logger,
		repo:          args.Repo,
		accountGetter: args.AccountGetter,
		followChecker: args.FollowChecker,
		blobStore:     args.BlobStore,
		uploadTimeout: args.UploadTimeout,
	}
}

func (h *CreateProfileHandler) Handle(ctx context.Context, cmd CreateProfile) (*CreateProfileResponse, error) {
	const op = "cmd.CreateProfileHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "CreateProfileHandler.Handle",
		trace.WithAttributes(
			attribute.String("profile.user_id", cmd.UserID.String()),
			attribute.Bool("profile.has_profile_image", cmd.ProfileImage != nil),
			attribute.Bool("profile.has_banner_image", cmd.BannerImage != nil),
		),
	)
	defer span.End()

	if err := validateMedia(cmd); err != nil {
		otelx.RecordSpanError(span, err, "invalid media")
		return nil, errorx.Wrap(err, op)
	}

	if _, err := h.accountGetter.GetAccountByID(ctx, cmd.UserID); err != nil {
		otelx.RecordSpanError(span, err, "failed to get profile owner")
		if errorx.IsNotFound(err) {
			return nil, errorx.Wrap(account.ErrNotFound.WithCause(err), op)
		}
		return nil, errorx.Wrap(err, op)
	}

	exists, err := h.repo.IsProfileExists(ctx, cmd.UserID)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to check profile existence")
		return nil, errorx.Wrap(err, op)
	}
	if exists {
		otelx.RecordSpanError(span, profile.ErrAlreadyExists, "profile already exists")
		return nil, errorx.Wrap(profile.ErrAlreadyExists, op)
	}

	var uploaded []string
	cleanup := func() {
		for _, key := range uploaded {
			if err := h.blobStore.Delete(context.WithoutCancel(ctx), key); err != nil {
				h.logger.WarnContext(ctx, "failed to delete orphaned media", slog.String("key", key), slog.Any("error", err))
			}
		}
	}

	profileImage, err := h.upload(ctx, cmd.ProfileImage, &uploaded)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to upload profile image")
		cleanup()
		return nil, errorx.Wrap(err, op)
	}
	bannerImage, err := h.upload(ctx, cmd.BannerImage, &uploaded)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to upload banner image")
		cleanup()
		return nil, errorx.Wrap(err, op)
	}

	p, err := profile.NewProfile(profile.NewProfileArgs{
		UserID:          cmd.UserID,
		Role:            cmd.Role,
		CreatorCategory: cmd.CreatorCategory,
		Interests:       cmd.Interests,
		ProfileImage:    profileImage,
		BannerImage:     bannerImage,
	})
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to create profile")
		cleanup()
		return nil, errorx.Wrap(err, op)
	}

	if err := h.repo.SaveProfile(ctx, p); err != nil {
		otelx.RecordSpanError(span, err, "failed to save profile")
		cleanup()
		return nil, errorx.Wrap(err, op)
	}
	span.SetAttributes(attribute.String("profile.id", p.ID().String()))

	res := &CreateProfileResponse{Profile: p}
	if cmd.Viewer != nil {
		res.IsOwnProfile = *cmd.Viewer == cmd.UserID
		if !res.IsOwnProfile {
			res.IsFollowing, err = h.followChecker.IsFollowing(ctx, *cmd.Viewer, cmd.UserID)
			if err != nil {
				otelx.RecordSpanError(span, err, "failed to check follow")
				return nil, errorx.Wrap(err, op)
			}
		}
	}

	return res, nil
}

func (h *CreateProfileHandler) upload(ctx context.Context, m *Media, uploaded *[]string) (string, error) {
	if m == nil {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.uploadTimeout)
	defer cancel()

	key, url, err := h.blobStore.Upload(ctx, profile.MediaFolder, m.Reader, m.Size, m.ContentType)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", profile.ErrMediaUploadTimeout.WithCause(err)
		}
		return "", profile.ErrMediaUploadFailed.WithCause(err)
	}
	*uploaded = append(*uploaded, key)

	return url, nil
}

func validateMedia(cmd CreateProfile) error {
	errs := validation.Errors{}
	if m := cmd.ProfileImage; m != nil {
		if err := profile.ValidateMedia(m.ContentType, m.Size); err != nil {
			errs["profileImage"] = err
		}
	}
	if m := cmd.BannerImage; m != nil {
		if err := profile.ValidateMedia(m.ContentType, m.Size); err != nil {
			errs["bannerImage"] = err
		}
	}

	return errs.Filter()
}
