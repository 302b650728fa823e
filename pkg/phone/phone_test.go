package phone

import (
	"errors"
	"testing"
)

func TestNormalizeAddsCountryCodeOnce(t *testing.T) {
	got, err := Normalize("11912345678")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "+55 11 91234-5678" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestNormalizeDoesNotDoublePrefix(t *testing.T) {
	got, err := Normalize("5511912345678")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "+55 11 91234-5678" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestNormalizeAcceptsFormattedInput(t *testing.T) {
	got, err := Normalize("+55 11 91234-5678")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "+55 11 91234-5678" {
		t.Fatalf("expected idempotent normalization, got %q", got)
	}
}

func TestNormalizeSplitsAfterFifthDigit(t *testing.T) {
	// eleven-digit numbers always break before the last four digits
	got, err := Normalize("11991234567")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "+55 11 99123-4567" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestNormalizeTenDigitNumber(t *testing.T) {
	got, err := Normalize("1133224455")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "+55 11 3322-4455" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestNormalizeRejectsBadLength(t *testing.T) {
	if _, err := Normalize("119912"); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}
