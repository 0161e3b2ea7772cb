package testutil

import (
	"errors"
	"testing"

	apperrors "stockfolio/internal/errors"

	"github.com/shopspring/decimal"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimalEqual checks that got equals the decimal parsed from want.
func AssertDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()

	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("invalid expected decimal %q: %v", want, err)
	}
	if !got.Equal(expected) {
		t.Errorf("expected %s, got %s", expected, got)
	}
}
