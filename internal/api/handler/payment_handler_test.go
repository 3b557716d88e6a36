package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

type stubPaymentService struct {
	createIntentFn func(ctx context.Context, p domain.Principal, amount decimal.Decimal) (*ports.GatewayIntent, error)
	verifyFn       func(ctx context.Context, p domain.Principal, in ports.VerifyPaymentInput) error
}

func (s *stubPaymentService) CreateIntent(ctx context.Context, p domain.Principal, amount decimal.Decimal) (*ports.GatewayIntent, error) {
	return s.createIntentFn(ctx, p, amount)
}

func (s *stubPaymentService) Verify(ctx context.Context, p domain.Principal, in ports.VerifyPaymentInput) error {
	return s.verifyFn(ctx, p, in)
}

func TestPaymentHandler_CreateIntent_Success(t *testing.T) {
	requester := domain.Principal{UserID: "user-1", Role: domain.RoleRequester, ProfileID: "req-1"}
	stub := &stubPaymentService{
		createIntentFn: func(ctx context.Context, p domain.Principal, amount decimal.Decimal) (*ports.GatewayIntent, error) {
			if !amount.Equal(decimal.NewFromInt(4000)) {
				t.Fatalf("unexpected amount: %s", amount)
			}
			return &ports.GatewayIntent{ID: "order_gw1", Amount: 400000, Currency: "INR", Receipt: "rcpt_x"}, nil
		},
	}
	h := NewPaymentHandler(stub)

	c, rec := orderContext(t, http.MethodPost, "/v1/payments/intent", `{"amount":"4000"}`, requester)

	if err := h.CreateIntent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp intentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Amount != 400000 || resp.Currency != "INR" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPaymentHandler_CreateIntent_MalformedAmount(t *testing.T) {
	stub := &stubPaymentService{
		createIntentFn: func(ctx context.Context, p domain.Principal, amount decimal.Decimal) (*ports.GatewayIntent, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewPaymentHandler(stub)

	c, _ := orderContext(t, http.MethodPost, "/v1/payments/intent", `{"amount":"40,00"}`,
		domain.Principal{UserID: "user-1", Role: domain.RoleRequester, ProfileID: "req-1"})

	err := h.CreateIntent(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPaymentHandler_Verify_Success(t *testing.T) {
	requester := domain.Principal{UserID: "user-1", Role: domain.RoleRequester, ProfileID: "req-1"}
	stub := &stubPaymentService{
		verifyFn: func(ctx context.Context, p domain.Principal, in ports.VerifyPaymentInput) error {
			if in.OrderID != "ord-1" || in.GatewayOrderID != "order_gw1" || in.Signature == "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	h := NewPaymentHandler(stub)

	c, rec := orderContext(t, http.MethodPost, "/v1/payments/verify",
		`{"order_id":"ord-1","gateway_order_id":"order_gw1","payment_id":"pay_1","signature":"deadbeef"}`, requester)

	if err := h.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp verifyPaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Verified || resp.OrderID != "ord-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPaymentHandler_Verify_FreeOrder(t *testing.T) {
	requester := domain.Principal{UserID: "user-1", Role: domain.RoleRequester, ProfileID: "req-1"}
	stub := &stubPaymentService{
		verifyFn: func(ctx context.Context, p domain.Principal, in ports.VerifyPaymentInput) error {
			if !in.FreeOrder {
				t.Fatalf("free order flag not forwarded: %+v", in)
			}
			return nil
		},
	}
	h := NewPaymentHandler(stub)

	c, rec := orderContext(t, http.MethodPost, "/v1/payments/verify",
		`{"order_id":"ord-1","free_order":true}`, requester)

	if err := h.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPaymentHandler_Verify_TamperedSignature(t *testing.T) {
	stub := &stubPaymentService{
		verifyFn: func(ctx context.Context, p domain.Principal, in ports.VerifyPaymentInput) error {
			return domain.ErrInvalidSignature
		},
	}
	h := NewPaymentHandler(stub)

	c, _ := orderContext(t, http.MethodPost, "/v1/payments/verify",
		`{"order_id":"ord-1","gateway_order_id":"order_gw1","payment_id":"pay_1","signature":"bogus"}`,
		domain.Principal{UserID: "user-1", Role: domain.RoleRequester, ProfileID: "req-1"})

	err := h.Verify(c)
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}
