package postgres

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/internal/domain/profile"
)

type AccountDTO struct {
	ID                     uuid.UUID
	Username               string
	Email                  string
	PassHash               []byte
	FirstName              string
	LastName               string
	FullName               string
	DateOfBirth            time.Time
	Age                    int
	Bio                    string
	Gender                 *string
	ProfilePhotoURL        string
	IsVerified             bool
	VerificationCode       *string
	VerificationCodeExpiry *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func DomainToAccountDTO(a *account.Account) AccountDTO {
	dto := AccountDTO{
		ID:              uuid.UUID(a.ID()),
		Username:        a.Username(),
		Email:           a.Email(),
		PassHash:        a.PassHash(),
		FirstName:       a.FirstName(),
		LastName:        a.LastName(),
		FullName:        a.FullName(),
		DateOfBirth:     a.DateOfBirth(),
		Age:             a.Age(),
		Bio:             a.Bio(),
		ProfilePhotoURL: a.ProfilePhotoURL(),
		IsVerified:      a.IsVerified(),
		CreatedAt:       a.CreatedAt(),
		UpdatedAt:       a.UpdatedAt(),
	}
	if g := a.Gender(); g != "" {
		s := g.String()
		dto.Gender = &s
	}
	if code := a.VerificationCode(); code != "" {
		expiry := a.VerificationCodeExpiry()
		dto.VerificationCode = &code
		dto.VerificationCodeExpiry = &expiry
	}

	return dto
}

func AccountToDomain(dto AccountDTO) *account.Account {
	args := account.RehydrateArgs{
		ID:              account.ID(dto.ID),
		Username:        dto.Username,
		Email:           dto.Email,
		PassHash:        dto.PassHash,
		FirstName:       dto.FirstName,
		LastName:        dto.LastName,
		FullName:        dto.FullName,
		DateOfBirth:     dto.DateOfBirth.UTC(),
		Age:             dto.Age,
		Bio:             dto.Bio,
		ProfilePhotoURL: dto.ProfilePhotoURL,
		IsVerified:      dto.IsVerified,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	}
	if dto.Gender != nil {
		args.Gender = account.Gender(*dto.Gender)
	}
	if dto.VerificationCode != nil && dto.VerificationCodeExpiry != nil {
		args.VerificationCode = *dto.VerificationCode
		args.VerificationCodeExpiry = dto.VerificationCodeExpiry.UTC()
	}

	return account.Rehydrate(args)
}

type ProfileDTO struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Role                 string
	CreatorVerified      bool
	CreatorCategory      *string
	MonetizationEnabled  bool
	AdminPermissions     []string
	ProfileImage         *string
	BannerImage          *string
	Interests            []string
	FollowersCount       int
	FollowingCount       int
	VideosCount          int
	IsOnline             bool
	LastSeenAt           *time.Time
	IsEligibleForCreator bool
	LastLoginAt          *time.Time
	DeactivatedAt        *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func DomainToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:                   uuid.UUID(p.ID()),
		UserID:               uuid.UUID(p.UserID()),
		Role:                 p.Role().String(),
		CreatorVerified:      p.CreatorVerified(),
		CreatorCategory:      p.CreatorCategory(),
		MonetizationEnabled:  p.MonetizationEnabled(),
		AdminPermissions:     p.AdminPermissions(),
		ProfileImage:         p.ProfileImage(),
		BannerImage:          p.BannerImage(),
		Interests:            p.Interests(),
		FollowersCount:       p.Counts().Followers,
		FollowingCount:       p.Counts().Following,
		VideosCount:          p.Counts().Videos,
		IsOnline:             p.IsOnline(),
		LastSeenAt:           p.LastSeenAt(),
		IsEligibleForCreator: p.IsEligibleForCreator(),
		LastLoginAt:          p.LastLoginAt(),
		DeactivatedAt:        p.DeactivatedAt(),
		CreatedAt:            p.CreatedAt(),
		UpdatedAt:            p.UpdatedAt(),
	}
	if dto.AdminPermissions == nil {
		dto.AdminPermissions = []string{}
	}
	if dto.Interests == nil {
		dto.Interests = []string{}
	}

	return dto
}

func ProfileToDomain(dto ProfileDTO) *profile.Profile {
	return profile.Rehydrate(profile.RehydrateArgs{
		ID:                  profile.ID(dto.ID),
		UserID:              account.ID(dto.UserID),
		Role:                profile.Role(dto.Role),
		CreatorVerified:     dto.CreatorVerified,
		CreatorCategory:     dto.CreatorCategory,
		MonetizationEnabled: dto.MonetizationEnabled,
		AdminPermissions:    dto.AdminPermissions,
		ProfileImage:        dto.ProfileImage,
		BannerImage:         dto.BannerImage,
		Interests:           dto.Interests,
		Counts: profile.Counts{
			Followers: dto.FollowersCount,
			Following: dto.FollowingCount,
			Videos:    dto.VideosCount,
		},
		IsOnline:             dto.IsOnline,
		LastSeenAt:           dto.LastSeenAt,
		IsEligibleForCreator: dto.IsEligibleForCreator,
		LastLoginAt:          dto.LastLoginAt,
		DeactivatedAt:        dto.DeactivatedAt,
		CreatedAt:            dto.CreatedAt,
		UpdatedAt:            dto.UpdatedAt,
	})
}
