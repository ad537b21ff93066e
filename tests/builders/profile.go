package builders

import (
	"time"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
)

type ProfileBuilder struct {
	args profile.RehydrateArgs
}

func NewProfileBuilder() *ProfileBuilder {
	now := time.Now().UTC()

	return &ProfileBuilder{
		args: profile.RehydrateArgs{
			ID:               profile.NewID(),
			UserID:           account.NewID(),
			Role:             profile.RoleUser,
			AdminPermissions: []string{},
			Interests:        []string{"music"},
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}
}

func (b *ProfileBuilder) WithUserID(id account.ID) *ProfileBuilder {
	b.args.UserID = id
	return b
}

func (b *ProfileBuilder) WithRole(role profile.Role) *ProfileBuilder {
	b.args.Role = role
	return b
}

func (b *ProfileBuilder) WithCounts(followers, following, videos int) *ProfileBuilder {
	b.args.Counts = profile.Counts{Followers: followers, Following: following, Videos: videos}
	return b
}

func (b *ProfileBuilder) WithProfileImage(url string) *ProfileBuilder {
	b.args.ProfileImage = &url
	return b
}

func (b *ProfileBuilder) WithInterests(interests ...string) *ProfileBuilder {
	b.args.Interests = interests
	return b
}

func (b *ProfileBuilder) Build() *profile.Profile {
	return profile.Rehydrate(b.args)
}
