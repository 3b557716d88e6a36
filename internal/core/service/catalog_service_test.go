package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

func TestCatalogService_CreateAndGet(t *testing.T) {
	svc := NewCatalogService(newStubServiceRepo(), zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, adminPrincipal, ports.UpsertServiceInput{
		DocumentType: "income_certificate",
		State:        "MH",
		BasePrice:    decimal.NewFromInt(1500),
		Requirements: []domain.Requirement{
			{Name: "Address proof", SortOrder: 2},
			{Name: "Aadhaar", IsRequired: true, SortOrder: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created.IsActive {
		t.Fatalf("new entry must start active")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	// Requirements come back in display order.
	if got.Requirements[0].Name != "Aadhaar" {
		t.Fatalf("expected requirements sorted, got %q first", got.Requirements[0].Name)
	}
	if got.Requirements[0].ID == "" {
		t.Fatalf("expected requirement ids assigned")
	}
}

func TestCatalogService_Create_AdminOnly(t *testing.T) {
	svc := NewCatalogService(newStubServiceRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), requesterPrincipal, ports.UpsertServiceInput{
		DocumentType: "x", State: "y", BasePrice: decimal.NewFromInt(1),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCatalogService_Create_Validation(t *testing.T) {
	svc := NewCatalogService(newStubServiceRepo(), zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, adminPrincipal, ports.UpsertServiceInput{State: "KA"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing type, got %v", err)
	}
	if _, err := svc.Create(ctx, adminPrincipal, ports.UpsertServiceInput{
		DocumentType: "x", State: "y", BasePrice: decimal.NewFromInt(-5),
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative price, got %v", err)
	}
}

func TestCatalogService_List_ActiveOnly(t *testing.T) {
	repo := newStubServiceRepo()
	svc := NewCatalogService(repo, zerolog.Nop())
	ctx := context.Background()

	a, _ := svc.Create(ctx, adminPrincipal, ports.UpsertServiceInput{DocumentType: "a", State: "KA", BasePrice: decimal.NewFromInt(1)})
	b, _ := svc.Create(ctx, adminPrincipal, ports.UpsertServiceInput{DocumentType: "b", State: "KA", BasePrice: decimal.NewFromInt(2)})

	if err := svc.SetActive(ctx, adminPrincipal, b.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("expected only active entry %s, got %d entries", a.ID, len(list))
	}

	if err := svc.SetActive(ctx, requesterPrincipal, a.ID, false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
