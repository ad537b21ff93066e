package validationx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/amize/amize-backend/pkg/errorx"
	"gitlab.com/amize/amize-backend/pkg/validationx"
)

func TestUsernameRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{name: "valid", username: "alice_01", wantErr: nil},
		{name: "dots and at", username: "a.l@ce", wantErr: nil},
		{name: "empty", username: "", wantErr: validation.ErrRequired},
		{name: "too short", username: "al", wantErr: validation.ErrLengthOutOfRange},
		{name: "too long", username: strings.Repeat("a", 31), wantErr: validation.ErrLengthOutOfRange},
		{name: "bad characters", username: "alice lee", wantErr: validationx.ErrInvalidUsername},
		{name: "dash not allowed", username: "alice-lee", wantErr: validationx.ErrInvalidUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validation.Validate(tt.username, validationx.UsernameRules...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			errorx.AssertValidationError(t, err, tt.wantErr)
		})
	}
}

func TestPasswordRules(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validation.Validate("password1", validationx.PasswordRules...))
	errorx.AssertValidationError(t, validation.Validate("short", validationx.PasswordRules...), validation.ErrLengthTooShort)
	errorx.AssertValidationError(t, validation.Validate(strings.Repeat("x", 73), validationx.PasswordRules...), validation.ErrLengthTooLong)
}

func TestNameRules(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validation.Validate("Lee", validationx.NameRules...))
	assert.NoError(t, validation.Validate("Anne-Marie O'Neil", validationx.NameRules...))
	errorx.AssertValidationError(t, validation.Validate("L", validationx.NameRules...), validation.ErrLengthOutOfRange)
	assert.NoError(t, validation.Validate("R2D2", validationx.NameRules...), "only length is checked")
	errorx.AssertValidationError(t, validation.Validate("", validationx.NameRules...), validation.ErrRequired)
	errorx.AssertValidationError(t, validation.Validate(strings.Repeat("n", 101), validationx.NameRules...), validation.ErrLengthOutOfRange)
}

func TestDateOfBirthRules(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validation.Validate("2000-01-01", validationx.DateOfBirthRules...))
	assert.NoError(t, validation.Validate("2000-01-01T10:00:00Z", validationx.DateOfBirthRules...))
	errorx.AssertValidationError(t, validation.Validate("01/01/2000", validationx.DateOfBirthRules...), validation.ErrDateInvalid)

	tomorrow := time.Now().UTC().AddDate(0, 0, 2).Format(validationx.DateLayout)
	errorx.AssertValidationError(t, validation.Validate(tomorrow, validationx.DateOfBirthRules...), validationx.ErrDateInFuture)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := validationx.ParseDate("2000-06-15T23:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = validationx.ParseDate("yesterday")
	assert.Error(t, err)
}

func TestPasswordsMatch(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validation.Validate("secret123", validationx.PasswordsMatch("secret123")))
	errorx.AssertValidationError(t, validation.Validate("secret124", validationx.PasswordsMatch("secret123")), validationx.ErrPasswordMismatch)
}

func TestRequiredRule(t *testing.T) {
	t.Parallel()

	assert.Error(t, validationx.Required.Validate("00000000-0000-0000-0000-000000000000"))
	assert.Error(t, validationx.Required.Validate(""))
	assert.Error(t, validationx.Required.Validate(time.Time{}))
	assert.NoError(t, validationx.Required.Validate("x"))
}
