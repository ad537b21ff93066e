package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/tests/builders"
	"gitlab.com/amize/amize-backend/tests/mocks"
)

type CreateProfileTestSuite struct {
	Handler  *CreateProfileHandler
	Accounts *mocks.AccountRepo
	Profiles *mocks.ProfileRepo
	Follows  *mocks.FollowRepo
	Blobs    *mocks.BlobStore
	Owner    *account.Account
}

func NewCreateProfileTestSuite(t *testing.T) *CreateProfileTestSuite {
	t.Helper()

	s := &CreateProfileTestSuite{
		Accounts: mocks.NewAccountRepo(),
		Profiles: mocks.NewProfileRepo(),
		Follows:  mocks.NewFollowRepo(),
		Blobs:    mocks.NewBlobStore(),
		Owner:    builders.NewAccountBuilder().Build(),
	}
	s.Accounts.SeedAccount(t, s.Owner)
	s.Handler = NewCreateProfileHandler(CreateProfileHandlerArgs{
		Repo:          s.Profiles,
		AccountGetter: s.Accounts,
		FollowChecker: s.Follows,
		BlobStore:     s.Blobs,
	})

	return s
}

func image(contentType string, size int) *Media {
	return &Media{
		Reader:      bytes.NewReader(bytes.Repeat([]byte{0xff}, size)),
		Size:        int64(size),
		ContentType: contentType,
	}
}

func TestCreateProfileHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewCreateProfileTestSuite(t)
	viewer := s.Owner.ID()

	res, err := s.Handler.Handle(t.Context(), CreateProfile{
		UserID:       s.Owner.ID(),
		Role:         profile.RoleCreator,
		Interests:    []string{"Dance", "dance", "Comedy"},
		ProfileImage: image("image/png", 2048),
		BannerImage:  image("image/jpeg", 4096),
		Viewer:       &viewer,
	})
	require.NoError(t, err)

	p := res.Profile
	assert.Equal(t, s.Owner.ID(), p.UserID())
	assert.Equal(t, profile.RoleCreator, p.Role())
	assert.Equal(t, []string{"dance", "comedy"}, p.Interests())
	assert.Equal(t, profile.Counts{}, p.Counts())
	require.NotNil(t, p.ProfileImage())
	require.NotNil(t, p.BannerImage())
	assert.True(t, strings.HasPrefix(*p.ProfileImage(), "https://cdn.amize.test/profiles/"))
	assert.True(t, strings.HasSuffix(*p.ProfileImage(), ".png"))
	assert.True(t, strings.HasSuffix(*p.BannerImage(), ".jpg"))
	assert.True(t, res.IsOwnProfile)
	assert.False(t, res.IsFollowing)

	assert.Len(t, s.Blobs.Objects(), 2)
	assert.Equal(t, 1, s.Profiles.Count())
}

func TestCreateProfileHandler_ViewerFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		withViewer    bool
		follows       bool
		wantFollowing bool
	}{
		{name: "anonymous"},
		{name: "stranger", withViewer: true},
		{name: "follower", withViewer: true, follows: true, wantFollowing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewCreateProfileTestSuite(t)
			cmd := CreateProfile{UserID: s.Owner.ID()}
			if tt.withViewer {
				viewer := account.NewID()
				cmd.Viewer = &viewer
				if tt.follows {
					s.Follows.Follow(viewer, s.Owner.ID())
				}
			}

			res, err := s.Handler.Handle(t.Context(), cmd)
			require.NoError(t, err)
			assert.False(t, res.IsOwnProfile)
			assert.Equal(t, tt.wantFollowing, res.IsFollowing)
			assert.Nil(t, res.Profile.ProfileImage())
			assert.Equal(t, profile.RoleUser, res.Profile.Role())
		})
	}
}

func TestCreateProfileHandler_Failures(t *testing.T) {
	t.Parallel()

	uploadErr := errors.New("bucket unavailable")

	tests := []struct {
		name    string
		prepare func(t *testing.T, s *CreateProfileTestSuite, cmd *CreateProfile)
		wantErr error
	}{
		{
			name: "unknown account",
			prepare: func(t *testing.T, s *CreateProfileTestSuite, cmd *CreateProfile) {
				cmd.UserID = account.NewID()
			},
			wantErr: account.ErrNotFound,
		},
		{
			name: "profile exists",
			prepare: func(t *testing.T, s *CreateProfileTestSuite, cmd *CreateProfile) {
				s.Profiles.SeedProfile(t, builders.NewProfileBuilder().WithUserID(s.Owner.ID()).Build())
			},
			wantErr: profile.ErrAlreadyExists,
		},
		{
			name: "upload fails",
			prepare: func(t *testing.T, s *CreateProfileTestSuite, cmd *CreateProfile) {
				s.Blobs.FailWith(uploadErr)
			},
			wantErr: profile.ErrMediaUploadFailed,
		},
		{
			name: "banner upload fails after profile image",
			prepare: func(t *testing.T, s *CreateProfileTestSuite, cmd *CreateProfile) {
				s.Blobs.FailAfter(1, uploadErr)
			},
			wantErr: profile.ErrMediaUploadFailed,
		},
		{
			name: "upload deadline exceeded",
			prepare: func(t *testing.T, s *CreateProfileTestSuite, cmd *CreateProfile) {
				s.Blobs.FailAfter(1, fmt.Errorf("put object: %w", context.DeadlineExceeded))
			},
			wantErr: profile.ErrMediaUploadTimeout,
		},
		{
			name: "save fails",
			prepare: func(t *testing.T, s *CreateProfileTestSuite, cmd *CreateProfile) {
				s.Profiles.FailSaveWith(profile.ErrAlreadyExists)
			},
			wantErr: profile.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewCreateProfileTestSuite(t)
			cmd := CreateProfile{
				UserID:       s.Owner.ID(),
				ProfileImage: image("image/png", 2048),
				BannerImage:  image("image/webp", 2048),
			}
			tt.prepare(t, s, &cmd)

			res, err := s.Handler.Handle(t.Context(), cmd)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			assert.Empty(t, s.Blobs.Objects(), "uploaded media must be cleaned up")
		})
	}
}

func TestCreateProfileHandler_UploadTimeout(t *testing.T) {
	t.Parallel()

	s := NewCreateProfileTestSuite(t)
	s.Blobs.Stall()
	s.Handler = NewCreateProfileHandler(CreateProfileHandlerArgs{
		Repo:          s.Profiles,
		AccountGetter: s.Accounts,
		FollowChecker: s.Follows,
		BlobStore:     s.Blobs,
		UploadTimeout: 20 * time.Millisecond,
	})

	res, err := s.Handler.Handle(t.Context(), CreateProfile{
		UserID:       s.Owner.ID(),
		ProfileImage: image("image/png", 2048),
	})
	require.ErrorIs(t, err, profile.ErrMediaUploadTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, res)
	assert.True(t, errorx.IsCode(err, errorx.CodeUpstreamTimeout))
	assert.Equal(t, 0, s.Profiles.Count())
}

func TestCreateProfileHandler_InvalidMedia(t *testing.T) {
	t.Parallel()

	s := NewCreateProfileTestSuite(t)

	_, err := s.Handler.Handle(t.Context(), CreateProfile{
		UserID:       s.Owner.ID(),
		ProfileImage: image("application/pdf", 2048),
		BannerImage:  image("image/png", 10),
	})
	require.Error(t, err)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	errorx.AssertValidationError(t, verrs["profileImage"], profile.ErrInvalidMediaType)
	errorx.AssertValidationError(t, verrs["bannerImage"], profile.ErrMediaTooSmall)
	assert.Empty(t, s.Blobs.Objects())
	assert.Equal(t, 0, s.Profiles.Count())
}
