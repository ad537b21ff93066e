package profile

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/google/uuid"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/sanitizex"
	"gitlab.com/amize/amize-backend/pkg/validationx"
)

const (
	MaxInterests          = 20
	MaxInterestLen        = 50
	MaxCreatorCategoryLen = 50
)

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

type Role string

const (
	RoleUser    Role = "USER"
	RoleCreator Role = "CREATOR"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) String() string {
	return string(r)
}

var Roles = []any{RoleUser, RoleCreator, RoleAdmin}

// Counts are maintained by the follow and video subsystems; this service only reads them.
type Counts struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
	Videos    int `json:"videos"`
}

// Profile is the social and display record of an account.
type Profile struct {
	id                   ID
	userID               account.ID
	role                 Role
	creatorVerified      bool
	creatorCategory      *string
	monetizationEnabled  bool
	adminPermissions     []string
	profileImage         *string
	bannerImage          *string
	interests            []string
	counts               Counts
	isOnline             bool
	lastSeenAt           *time.Time
	isEligibleForCreator bool
	lastLoginAt          *time.Time
	deactivatedAt        *time.Time
	createdAt            time.Time
	updatedAt            time.Time
}

type NewProfileArgs struct {
	UserID          account.ID
	Role            Role
	CreatorCategory string
	Interests       []string
	ProfileImage    string
	BannerImage     string
}

func NewProfile(args NewProfileArgs) (*Profile, error) {
	const op = "profile.NewProfile"

	if args.Role == "" {
		args.Role = RoleUser
	}
	args.CreatorCategory = sanitizex.CleanSingleLine(args.CreatorCategory)
	args.Interests = NormalizeInterests(args.Interests)

	err := validation.ValidateStruct(&args,
		validation.Field(&args.UserID, validationx.Required),
		validation.Field(&args.Role, validation.Required, validation.In(Roles...)),
		validation.Field(&args.CreatorCategory, validation.RuneLength(0, MaxCreatorCategoryLen)),
		validation.Field(&args.Interests,
			validation.Length(0, MaxInterests),
			validation.Each(validation.RuneLength(1, MaxInterestLen)),
		),
	)
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	now := time.Now().UTC()
	return &Profile{
		id:               NewID(),
		userID:           args.UserID,
		role:             args.Role,
		creatorCategory:  optional(args.CreatorCategory),
		adminPermissions: []string{},
		profileImage:     optional(args.ProfileImage),
		bannerImage:      optional(args.BannerImage),
		interests:        args.Interests,
		counts:           Counts{},
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// NormalizeInterests cleans, lowercases and de-duplicates interest tags,
// keeping their first-seen order.
func NormalizeInterests(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tag := range in {
		tag = strings.ToLower(sanitizex.CleanSingleLine(tag))
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type RehydrateArgs struct {
	ID                   ID
	UserID               account.ID
	Role                 Role
	CreatorVerified      bool
	CreatorCategory      *string
	MonetizationEnabled  bool
	AdminPermissions     []string
	ProfileImage         *string
	BannerImage          *string
	Interests            []string
	Counts               Counts
	IsOnline             bool
	LastSeenAt           *time.Time
	IsEligibleForCreator bool
	LastLoginAt          *time.Time
	DeactivatedAt        *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func Rehydrate(args RehydrateArgs) *Profile {
	return &Profile{
		id:                   args.ID,
		userID:               args.UserID,
		role:                 args.Role,
		creatorVerified:      args.CreatorVerified,
		creatorCategory:      args.CreatorCategory,
		monetizationEnabled:  args.MonetizationEnabled,
		adminPermissions:     args.AdminPermissions,
		profileImage:         args.ProfileImage,
		bannerImage:          args.BannerImage,
		interests:            args.Interests,
		counts:               args.Counts,
		isOnline:             args.IsOnline,
		lastSeenAt:           args.LastSeenAt,
		isEligibleForCreator: args.IsEligibleForCreator,
		lastLoginAt:          args.LastLoginAt,
		deactivatedAt:        args.DeactivatedAt,
		createdAt:            args.CreatedAt,
		updatedAt:            args.UpdatedAt,
	}
}

func (p *Profile) ID() ID                     { return p.id }
func (p *Profile) UserID() account.ID         { return p.userID }
func (p *Profile) Role() Role                 { return p.role }
func (p *Profile) CreatorVerified() bool      { return p.creatorVerified }
func (p *Profile) CreatorCategory() *string   { return p.creatorCategory }
func (p *Profile) MonetizationEnabled() bool  { return p.monetizationEnabled }
func (p *Profile) AdminPermissions() []string { return p.adminPermissions }
func (p *Profile) ProfileImage() *string      { return p.profileImage }
func (p *Profile) BannerImage() *string       { return p.bannerImage }
func (p *Profile) Interests() []string        { return p.interests }
func (p *Profile) Counts() Counts             { return p.counts }
func (p *Profile) IsOnline() bool             { return p.isOnline }
func (p *Profile) LastSeenAt() *time.Time     { return p.lastSeenAt }
func (p *Profile) IsEligibleForCreator() bool { return p.isEligibleForCreator }
func (p *Profile) LastLoginAt() *time.Time    { return p.lastLoginAt }
func (p *Profile) DeactivatedAt() *time.Time  { return p.deactivatedAt }
func (p *Profile) CreatedAt() time.Time       { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time       { return p.updatedAt }
