package account_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/internal/domain/account"
	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/tests/builders"
)

func validArgs(t *testing.T) account.NewAccountArgs {
	t.Helper()
	hash, err := account.NewPasswordHash("password1")
	require.NoError(t, err)

	return account.NewAccountArgs{
		Username:    "alice",
		Email:       "a@x.com",
		PassHash:    hash,
		FirstName:   "Alice",
		LastName:    "Lee",
		DateOfBirth: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewAccount(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC()
	a, err := account.NewAccount(validArgs(t))
	require.NoError(t, err)

	assert.False(t, a.ID().IsZero())
	assert.Equal(t, "alice", a.Username())
	assert.Equal(t, "a@x.com", a.Email())
	assert.Equal(t, "Alice Lee", a.FullName())
	assert.False(t, a.IsVerified())
	assert.NotEmpty(t, a.PassHash())
	assert.Equal(t, account.StateUnverifiedCodePending, a.VerificationState())

	assert.Len(t, a.VerificationCode(), account.VerificationCodeLength)
	assert.Regexp(t, `^[0-9]{6}$`, a.VerificationCode())
	assert.WithinDuration(t, before.Add(10*time.Minute), a.VerificationCodeExpiry(), 2*time.Second)

	events := a.GetUncommittedEvents()
	require.Len(t, events, 1)
	issued, ok := events[0].(*account.VerificationCodeIssued)
	require.True(t, ok)
	assert.Equal(t, a.ID(), issued.AccountID)
	assert.Equal(t, a.Email(), issued.Email)
	assert.Equal(t, a.VerificationCode(), issued.Code)
	assert.Equal(t, account.EventStreamName, issued.GetStreamName())
}

func TestNewAccount_NormalizesIdentifiers(t *testing.T) {
	t.Parallel()

	args := validArgs(t)
	args.Username = "  Alice_01 "
	args.Email = " A@X.COM"

	a, err := account.NewAccount(args)
	require.NoError(t, err)
	assert.Equal(t, "alice_01", a.Username())
	assert.Equal(t, "a@x.com", a.Email())
}

func TestNewAccount_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*account.NewAccountArgs)
		field  string
	}{
		{name: "short username", mutate: func(a *account.NewAccountArgs) { a.Username = "al" }, field: "Username"},
		{name: "bad username chars", mutate: func(a *account.NewAccountArgs) { a.Username = "al-ice" }, field: "Username"},
		{name: "bad email", mutate: func(a *account.NewAccountArgs) { a.Email = "not-an-email" }, field: "Email"},
		{name: "missing hash", mutate: func(a *account.NewAccountArgs) { a.PassHash = nil }, field: "PassHash"},
		{name: "short first name", mutate: func(a *account.NewAccountArgs) { a.FirstName = "A" }, field: "FirstName"},
		{name: "short last name", mutate: func(a *account.NewAccountArgs) { a.LastName = "L" }, field: "LastName"},
		{name: "missing date of birth", mutate: func(a *account.NewAccountArgs) { a.DateOfBirth = time.Time{} }, field: "DateOfBirth"},
		{name: "unknown gender", mutate: func(a *account.NewAccountArgs) { a.Gender = "robot" }, field: "Gender"},
		{name: "bio too long", mutate: func(a *account.NewAccountArgs) { a.Bio = strings.Repeat("b", account.MaxBioLen+1) }, field: "Bio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := validArgs(t)
			tt.mutate(&args)

			a, err := account.NewAccount(args)
			require.Error(t, err)
			assert.Nil(t, a)
			errorx.AssertValidationFields(t, err, tt.field)
		})
	}
}

func TestCalculateAge(t *testing.T) {
	t.Parallel()

	dob := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "day before birthday", now: time.Date(2024, time.June, 14, 23, 59, 0, 0, time.UTC), want: 23},
		{name: "on birthday", now: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), want: 24},
		{name: "earlier month", now: time.Date(2024, time.May, 30, 0, 0, 0, 0, time.UTC), want: 23},
		{name: "later month", now: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), want: 24},
		{name: "before birth", now: time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, account.CalculateAge(dob, tt.now))
		})
	}
}

func TestCalculateAge_LeapDay(t *testing.T) {
	t.Parallel()

	dob := time.Date(2004, time.February, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 18, account.CalculateAge(dob, time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 19, account.CalculateAge(dob, time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestAccount_RecomputeDerived(t *testing.T) {
	t.Parallel()

	a := builders.NewAccountBuilder().
		WithName("Alice", "Lee").
		WithDateOfBirth(time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)).
		Build()
	assert.False(t, a.HasStaleDerived())

	require.NoError(t, a.SetFirstName("  Alicia "))
	require.NoError(t, a.SetLastName("Chen"))
	assert.True(t, a.HasStaleDerived())
	assert.Equal(t, "Alice Lee", a.FullName(), "derived fields only change on recompute")

	a.RecomputeDerivedAt(time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Alicia Chen", a.FullName())
	assert.Equal(t, 23, a.Age())
	assert.False(t, a.HasStaleDerived())

	require.NoError(t, a.SetDateOfBirth(time.Date(1990, time.June, 15, 12, 0, 0, 0, time.UTC)))
	a.RecomputeDerivedAt(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 34, a.Age())
	assert.Equal(t, time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC), a.DateOfBirth())
}

func TestAccount_SettersRejectInvalid(t *testing.T) {
	t.Parallel()

	a := builders.NewAccountBuilder().Build()

	assert.Error(t, a.SetFirstName("A"))
	assert.Error(t, a.SetLastName(""))
	assert.Error(t, a.SetDateOfBirth(time.Time{}))
	assert.Equal(t, "Alice", a.FirstName())
	assert.False(t, a.HasStaleDerived())
}

func TestPassword(t *testing.T) {
	t.Parallel()

	hash, err := account.NewPasswordHash("password1")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("password1"), hash)

	assert.True(t, account.VerifyPassword("password1", hash))
	assert.False(t, account.VerifyPassword("password2", hash))
	assert.False(t, account.VerifyPassword("password1", nil))
}

func TestAccount_ComparePassword(t *testing.T) {
	t.Parallel()

	a := builders.NewAccountBuilder().Build()
	assert.NoError(t, a.ComparePassword(builders.DefaultPassword))
	assert.ErrorIs(t, a.ComparePassword("wrong-password"), account.ErrInvalidCredentials)

	withoutHash := builders.NewAccountBuilder().WithoutPassHash().Build()
	assert.ErrorIs(t, withoutHash.ComparePassword(builders.DefaultPassword), account.ErrInvalidCredentials)
}

func TestID_JSON(t *testing.T) {
	t.Parallel()

	id := account.NewID()
	data, err := id.MarshalJSON()
	require.NoError(t, err)

	var decoded account.ID
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, id, decoded)

	parsed, err := account.ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = account.ParseID("nope")
	assert.Error(t, err)
}
