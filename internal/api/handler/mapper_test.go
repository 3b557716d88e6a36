package handler

import (
	"errors"
	"testing"

	"github.com/docsewa/marketplace-api/internal/core/domain"
)

func TestParseMoney(t *testing.T) {
	d, err := parseMoney("amount", "4999.50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "4999.5" {
		t.Fatalf("unexpected value: %s", d)
	}

	if _, err := parseMoney("amount", "12,50"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for malformed input, got %v", err)
	}
	if _, err := parseMoney("amount", "-1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative input, got %v", err)
	}
}
