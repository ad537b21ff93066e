package validationx

import (
	"errors"
	"reflect"
	"regexp"
	"time"

	"github.com/ARUMANDESU/validation"
	"github.com/google/uuid"

	"gitlab.com/amize/amize-backend/pkg/i18nx"
)

// DateLayout is the calendar date format accepted for dates of birth.
const DateLayout = time.DateOnly

// bcrypt ignores everything after 72 bytes.
const maxPasswordBytes = 72

var (
	ErrInvalidUsername = validation.NewError(i18nx.ValidationIsUsername,
		"may contain only letters, digits, underscores, dots and @")
	ErrPasswordMismatch = validation.NewError(i18nx.ValidationPasswordMismatch, "passwords do not match")
	ErrDateInFuture     = validation.NewError(i18nx.ValidationDateInFuture, "must not be in the future")
	ErrInvalidUUID      = validation.NewError(i18nx.ValidationIsUUID, "must be a valid UUID")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_@.]+$`)
)

var (
	// Required is a validation rule that checks if a value is not empty.
	// Use it for uuid values, otherwise use validation.Required.
	Required = RequiredRule{}

	IsUsername = validation.NewStringRuleWithError(usernameRegex.MatchString, ErrInvalidUsername)

	IsUUID = validation.NewStringRuleWithError(func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	}, ErrInvalidUUID)

	PasswordBytes = validation.By(func(value any) error {
		s, _ := value.(string)
		if len(s) > maxPasswordBytes {
			return validation.ErrLengthTooLong.SetParams(map[string]any{"max": maxPasswordBytes})
		}
		return nil
	})

	// IsDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
	// that is not later than today.
	IsDate = validation.By(func(value any) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		t, err := ParseDate(s)
		if err != nil {
			return validation.ErrDateInvalid
		}
		if t.After(time.Now().UTC()) {
			return ErrDateInFuture
		}
		return nil
	})
)

// ParseDate parses a calendar date or RFC 3339 timestamp and returns the date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return time.Time{}, errors.Join(err, tsErr)
		}
		t = ts
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// PasswordsMatch attaches a mismatch error to the confirmation field.
func PasswordsMatch(password string) validation.Rule {
	return validation.By(func(value any) error {
		confirm, _ := value.(string)
		if confirm == "" {
			return nil
		}
		if confirm != password {
			return ErrPasswordMismatch
		}
		return nil
	})
}

type RequiredRule struct{}

func (r RequiredRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil || isEmpty(value) {
		return validation.ErrRequired
	}

	return nil
}

func isEmpty(value any) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Array:
		return v.IsZero() || v.Len() == 0
	case reflect.String:
		return v.Len() == 0 || v.String() == uuid.Nil.String()
	case reflect.Map, reflect.Slice:
		return v.IsNil() || v.Len() == 0
	case reflect.Invalid:
		return true
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return true
		}
		return isEmpty(v.Elem().Interface())
	case reflect.Struct:
		if t, ok := value.(time.Time); ok {
			return t.IsZero()
		}
	}

	return v.IsZero()
}
