package account

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
	"github.com/google/uuid"

	"gitlab.com/amize/amize-backend/internal/domain/event"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/sanitizex"
	"gitlab.com/amize/amize-backend/pkg/validationx"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 30
	MinNameLen     = 2
	MaxNameLen     = 100
	MaxBioLen      = 80
)

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func ParseID(s string) (ID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID(id), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	uid, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	*id = ID(uid)
	return nil
}

type Gender string

const (
	GenderMale           Gender = "Male"
	GenderFemale         Gender = "Female"
	GenderOther          Gender = "Other"
	GenderPreferNotToSay Gender = "Prefer not to say"
)

func (g Gender) String() string {
	return string(g)
}

var Genders = []any{GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay}

// Account is the authentication identity of a user: credentials, contact
// email and the email verification state.
type Account struct {
	event.Recorder
	id                     ID
	username               string
	email                  string
	passHash               []byte
	firstName              string
	lastName               string
	fullName               string
	dateOfBirth            time.Time
	age                    int
	bio                    string
	gender                 Gender
	profilePhotoURL        string
	isVerified             bool
	verificationCode       string
	verificationCodeExpiry time.Time
	createdAt              time.Time
	updatedAt              time.Time

	// derivedStale is set when a name or the date of birth changed since the
	// last RecomputeDerived call.
	derivedStale bool
}

type NewAccountArgs struct {
	Username        string
	Email           string
	PassHash        []byte
	FirstName       string
	LastName        string
	DateOfBirth     time.Time
	Bio             string
	Gender          Gender
	ProfilePhotoURL string
}

// NewAccount creates an unverified account and issues its first verification code.
func NewAccount(args NewAccountArgs) (*Account, error) {
	const op = "account.NewAccount"

	args.Username = sanitizex.CleanIdentifier(args.Username)
	args.Email = sanitizex.CleanIdentifier(args.Email)
	args.FirstName = sanitizex.CleanSingleLine(args.FirstName)
	args.LastName = sanitizex.CleanSingleLine(args.LastName)
	args.Bio = sanitizex.CleanMultiline(args.Bio)

	err := validation.ValidateStruct(&args,
		validation.Field(&args.Username, validationx.UsernameRules...),
		validation.Field(&args.Email, validation.Required, is.EmailFormat),
		validation.Field(&args.PassHash, validation.Required),
		validation.Field(&args.FirstName, validation.Required, validation.RuneLength(MinNameLen, MaxNameLen)),
		validation.Field(&args.LastName, validation.Required, validation.RuneLength(MinNameLen, MaxNameLen)),
		validation.Field(&args.DateOfBirth, validationx.Required),
		validation.Field(&args.Bio, validation.RuneLength(0, MaxBioLen)),
		validation.Field(&args.Gender, validation.In(Genders...)),
	)
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	now := time.Now().UTC()
	a := &Account{
		id:              NewID(),
		username:        args.Username,
		email:           args.Email,
		passHash:        args.PassHash,
		firstName:       args.FirstName,
		lastName:        args.LastName,
		dateOfBirth:     truncateToDate(args.DateOfBirth),
		bio:             args.Bio,
		gender:          args.Gender,
		profilePhotoURL: args.ProfilePhotoURL,
		isVerified:      false,
		createdAt:       now,
		updatedAt:       now,
		derivedStale:    true,
	}
	a.RecomputeDerivedAt(now)

	if err := a.IssueVerificationCodeAt(now); err != nil {
		return nil, errorx.Wrap(err, op)
	}

	return a, nil
}

type RehydrateArgs struct {
	ID                     ID
	Username               string
	Email                  string
	PassHash               []byte
	FirstName              string
	LastName               string
	FullName               string
	DateOfBirth            time.Time
	Age                    int
	Bio                    string
	Gender                 Gender
	ProfilePhotoURL        string
	IsVerified             bool
	VerificationCode       string
	VerificationCodeExpiry time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func Rehydrate(args RehydrateArgs) *Account {
	return &Account{
		id:                     args.ID,
		username:               args.Username,
		email:                  args.Email,
		passHash:               args.PassHash,
		firstName:              args.FirstName,
		lastName:               args.LastName,
		fullName:               args.FullName,
		dateOfBirth:            args.DateOfBirth,
		age:                    args.Age,
		bio:                    args.Bio,
		gender:                 args.Gender,
		profilePhotoURL:        args.ProfilePhotoURL,
		isVerified:             args.IsVerified,
		verificationCode:       args.VerificationCode,
		verificationCodeExpiry: args.VerificationCodeExpiry,
		createdAt:              args.CreatedAt,
		updatedAt:              args.UpdatedAt,
	}
}

func (a *Account) SetFirstName(firstName string) error {
	if a == nil {
		return errors.New("account is nil")
	}
	firstName = sanitizex.CleanSingleLine(firstName)
	err := validation.Validate(firstName, validation.Required, validation.RuneLength(MinNameLen, MaxNameLen))
	if err != nil {
		return err
	}

	a.firstName = firstName
	a.touch()
	return nil
}

func (a *Account) SetLastName(lastName string) error {
	if a == nil {
		return errors.New("account is nil")
	}
	lastName = sanitizex.CleanSingleLine(lastName)
	err := validation.Validate(lastName, validation.Required, validation.RuneLength(MinNameLen, MaxNameLen))
	if err != nil {
		return err
	}

	a.lastName = lastName
	a.touch()
	return nil
}

func (a *Account) SetDateOfBirth(dob time.Time) error {
	if a == nil {
		return errors.New("account is nil")
	}
	if dob.IsZero() {
		return validation.ErrRequired
	}

	a.dateOfBirth = truncateToDate(dob)
	a.touch()
	return nil
}

func (a *Account) touch() {
	a.derivedStale = true
	a.updatedAt = time.Now().UTC()
}

// RecomputeDerived refreshes fullName and age if a name or the date of birth
// changed. The store calls it before persisting.
func (a *Account) RecomputeDerived() {
	a.RecomputeDerivedAt(time.Now().UTC())
}

func (a *Account) RecomputeDerivedAt(now time.Time) {
	if a == nil || !a.derivedStale {
		return
	}

	a.fullName = FullName(a.firstName, a.lastName)
	a.age = CalculateAge(a.dateOfBirth, now)
	a.derivedStale = false
}

// HasStaleDerived reports whether fullName or age is pending recomputation.
func (a *Account) HasStaleDerived() bool {
	return a != nil && a.derivedStale
}

func FullName(firstName, lastName string) string {
	return firstName + " " + lastName
}

// CalculateAge returns the number of full years between dob and now.
func CalculateAge(dob, now time.Time) int {
	if dob.IsZero() {
		return 0
	}

	dob = dob.UTC()
	now = now.UTC()

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}

	return age
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (a *Account) ID() ID {
	if a == nil {
		return ID{}
	}
	return a.id
}

func (a *Account) Username() string {
	if a == nil {
		return ""
	}
	return a.username
}

func (a *Account) Email() string {
	if a == nil {
		return ""
	}
	return a.email
}

func (a *Account) PassHash() []byte {
	if a == nil {
		return nil
	}
	return a.passHash
}

func (a *Account) FirstName() string {
	if a == nil {
		return ""
	}
	return a.firstName
}

func (a *Account) LastName() string {
	if a == nil {
		return ""
	}
	return a.lastName
}

func (a *Account) FullName() string {
	if a == nil {
		return ""
	}
	return a.fullName
}

func (a *Account) DateOfBirth() time.Time {
	if a == nil {
		return time.Time{}
	}
	return a.dateOfBirth
}

func (a *Account) Age() int {
	if a == nil {
		return 0
	}
	return a.age
}

func (a *Account) Bio() string {
	if a == nil {
		return ""
	}
	return a.bio
}

func (a *Account) Gender() Gender {
	if a == nil {
		return ""
	}
	return a.gender
}

func (a *Account) ProfilePhotoURL() string {
	if a == nil {
		return ""
	}
	return a.profilePhotoURL
}

func (a *Account) IsVerified() bool {
	if a == nil {
		return false
	}
	return a.isVerified
}

func (a *Account) VerificationCode() string {
	if a == nil {
		return ""
	}
	return a.verificationCode
}

func (a *Account) VerificationCodeExpiry() time.Time {
	if a == nil {
		return time.Time{}
	}
	return a.verificationCodeExpiry
}

func (a *Account) CreatedAt() time.Time {
	if a == nil {
		return time.Time{}
	}
	return a.createdAt
}

func (a *Account) UpdatedAt() time.Time {
	if a == nil {
		return time.Time{}
	}
	return a.updatedAt
}
