package profile_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
	"gitlab.com/amize/amize-backend/pkg/errorx"
)

func TestNewProfile(t *testing.T) {
	t.Parallel()

	userID := account.NewID()
	p, err := profile.NewProfile(profile.NewProfileArgs{
		UserID:       userID,
		Interests:    []string{" Music ", "music", "Travel", ""},
		ProfileImage: "https://cdn.example.com/profiles/a.png",
	})
	require.NoError(t, err)

	assert.Equal(t, userID, p.UserID())
	assert.Equal(t, profile.RoleUser, p.Role())
	assert.Equal(t, []string{"music", "travel"}, p.Interests())
	assert.Equal(t, profile.Counts{}, p.Counts())
	require.NotNil(t, p.ProfileImage())
	assert.Equal(t, "https://cdn.example.com/profiles/a.png", *p.ProfileImage())
	assert.Nil(t, p.BannerImage())
	assert.Nil(t, p.CreatorCategory())
	assert.Empty(t, p.AdminPermissions())
	assert.False(t, p.IsOnline())
	assert.Nil(t, p.LastSeenAt())
}

func TestNewProfile_Invalid(t *testing.T) {
	t.Parallel()

	tooMany := make([]string, profile.MaxInterests+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("tag%d", i)
	}

	tests := []struct {
		name  string
		args  profile.NewProfileArgs
		field string
	}{
		{name: "missing user", args: profile.NewProfileArgs{}, field: "UserID"},
		{name: "unknown role", args: profile.NewProfileArgs{UserID: account.NewID(), Role: "GOD"}, field: "Role"},
		{name: "too many interests", args: profile.NewProfileArgs{UserID: account.NewID(), Interests: tooMany}, field: "Interests"},
		{
			name:  "long interest",
			args:  profile.NewProfileArgs{UserID: account.NewID(), Interests: []string{strings.Repeat("x", profile.MaxInterestLen+1)}},
			field: "Interests",
		},
		{
			name:  "long category",
			args:  profile.NewProfileArgs{UserID: account.NewID(), CreatorCategory: strings.Repeat("c", profile.MaxCreatorCategoryLen+1)},
			field: "CreatorCategory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := profile.NewProfile(tt.args)
			require.Error(t, err)
			assert.Nil(t, p)
			errorx.AssertValidationFields(t, err, tt.field)
		})
	}
}

func TestValidateMedia(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     error
	}{
		{name: "png", contentType: "image/png", size: 2048},
		{name: "jpeg with params", contentType: "image/JPEG; charset=binary", size: 2048},
		{name: "pdf", contentType: "application/pdf", size: 2048, wantErr: profile.ErrInvalidMediaType},
		{name: "too large", contentType: "image/webp", size: profile.MaxMediaSize + 1, wantErr: profile.ErrMediaTooLarge},
		{name: "too small", contentType: "image/gif", size: profile.MinMediaSize - 1, wantErr: profile.ErrMediaTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := profile.ValidateMedia(tt.contentType, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			errorx.AssertValidationError(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, ".jpg", profile.MediaExtension("image/jpeg"))
	assert.Equal(t, "", profile.MediaExtension("text/plain"))
}
