package errorx

import (
	"errors"
	"testing"

	"github.com/ARUMANDESU/validation"
)

// AssertValidationErrors fails the test unless err is a validation.Errors
// carrying the same fields and error codes as expected.
func AssertValidationErrors(t *testing.T, err error, expected validation.Errors) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %v, got nil", expected)
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected error to be of type validation.Errors, got %T: %v", err, err)
	}

	if len(verrs) != len(expected) {
		t.Fatalf("expected number of validation errors to match, got %v and %v", verrs, expected)
	}

	for field, expectedErr := range expected {
		actualErr, found := verrs[field]
		if !found {
			t.Errorf("field %s: expected error %v, got none", field, expectedErr)
			continue
		}
		AssertValidationError(t, actualErr, expectedErr)
	}
}

// AssertValidationFields fails the test unless err is a validation.Errors with
// an entry for every listed field.
func AssertValidationFields(t *testing.T, err error, fields ...string) {
	t.Helper()

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected error to be of type validation.Errors, got %T: %v", err, err)
	}

	for _, field := range fields {
		if _, ok := verrs[field]; !ok {
			t.Errorf("expected validation error for field %q, got %v", field, verrs)
		}
	}
}

func AssertValidationError(t *testing.T, err error, expected error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %v, got nil", expected)
	}

	var verr validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected error to be of type validation.Error, got %T: %v", err, err)
	}
	var expectedVerr validation.Error
	if !errors.As(expected, &expectedVerr) {
		t.Fatalf("expected expected error to be of type validation.Error, got %T: %v", expected, expected)
	}

	if verr.Code() != expectedVerr.Code() {
		t.Errorf("expected validation error code %q, got %q", expectedVerr.Code(), verr.Code())
	}
}
