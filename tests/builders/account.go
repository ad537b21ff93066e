package builders

import (
	"sync"
	"time"

	"gitlab.com/amize/amize-backend/internal/domain/account"
)

const DefaultPassword = "password1"

var defaultPassHash = sync.OnceValue(func() []byte {
	hash, err := account.NewPasswordHash(DefaultPassword)
	if err != nil {
		panic(err)
	}
	return hash
})

type AccountBuilder struct {
	id                     account.ID
	username               string
	email                  string
	passHash               []byte
	firstName              string
	lastName               string
	dateOfBirth            time.Time
	bio                    string
	gender                 account.Gender
	profilePhotoURL        string
	isVerified             bool
	verificationCode       string
	verificationCodeExpiry time.Time
	createdAt              time.Time
	updatedAt              time.Time
}

// NewAccountBuilder returns an unverified account with a pending code "123456"
// valid for the full TTL.
func NewAccountBuilder() *AccountBuilder {
	now := time.Now().UTC()

	return &AccountBuilder{
		id:                     account.NewID(),
		username:               "alice",
		email:                  "a@x.com",
		passHash:               defaultPassHash(),
		firstName:              "Alice",
		lastName:               "Lee",
		dateOfBirth:            time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		profilePhotoURL:        "https://cdn.example.com/default-avatar.png",
		verificationCode:       "123456",
		verificationCodeExpiry: now.Add(account.VerificationCodeTTL),
		createdAt:              now,
		updatedAt:              now,
	}
}

func (b *AccountBuilder) WithID(id account.ID) *AccountBuilder {
	b.id = id
	return b
}

func (b *AccountBuilder) WithUsername(username string) *AccountBuilder {
	b.username = username
	return b
}

func (b *AccountBuilder) WithEmail(email string) *AccountBuilder {
	b.email = email
	return b
}

func (b *AccountBuilder) WithPassword(password string) *AccountBuilder {
	hash, err := account.NewPasswordHash(password)
	if err != nil {
		panic(err)
	}
	b.passHash = hash
	return b
}

func (b *AccountBuilder) WithoutPassHash() *AccountBuilder {
	b.passHash = nil
	return b
}

func (b *AccountBuilder) WithName(firstName, lastName string) *AccountBuilder {
	b.firstName = firstName
	b.lastName = lastName
	return b
}

func (b *AccountBuilder) WithDateOfBirth(dob time.Time) *AccountBuilder {
	b.dateOfBirth = dob
	return b
}

func (b *AccountBuilder) WithBio(bio string) *AccountBuilder {
	b.bio = bio
	return b
}

func (b *AccountBuilder) WithGender(gender account.Gender) *AccountBuilder {
	b.gender = gender
	return b
}

func (b *AccountBuilder) WithVerificationCode(code string) *AccountBuilder {
	b.verificationCode = code
	return b
}

func (b *AccountBuilder) WithVerificationCodeExpiry(expiry time.Time) *AccountBuilder {
	b.verificationCodeExpiry = expiry
	return b
}

func (b *AccountBuilder) WithExpiredCode() *AccountBuilder {
	b.verificationCodeExpiry = time.Now().UTC().Add(-time.Second)
	return b
}

func (b *AccountBuilder) WithoutCode() *AccountBuilder {
	b.verificationCode = ""
	b.verificationCodeExpiry = time.Time{}
	return b
}

func (b *AccountBuilder) Verified() *AccountBuilder {
	b.isVerified = true
	return b.WithoutCode()
}

func (b *AccountBuilder) Build() *account.Account {
	return account.Rehydrate(account.RehydrateArgs{
		ID:                     b.id,
		Username:               b.username,
		Email:                  b.email,
		PassHash:               b.passHash,
		FirstName:              b.firstName,
		LastName:               b.lastName,
		FullName:               account.FullName(b.firstName, b.lastName),
		DateOfBirth:            b.dateOfBirth,
		Age:                    account.CalculateAge(b.dateOfBirth, time.Now().UTC()),
		Bio:                    b.bio,
		Gender:                 b.gender,
		ProfilePhotoURL:        b.profilePhotoURL,
		IsVerified:             b.isVerified,
		VerificationCode:       b.verificationCode,
		VerificationCodeExpiry: b.verificationCodeExpiry,
		CreatedAt:              b.createdAt,
		UpdatedAt:              b.updatedAt,
	})
}
