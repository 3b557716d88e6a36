package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/api/metrics"
	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

const intentCurrency = "INR"

// PaymentService reconciles gateway confirmations into the order state
// machine. It never trusts amounts from the client: intents are sized by the
// caller-supplied amount only for the remote record, and the order's locked
// finalPrice is what reconciliation acts on.
type PaymentService struct {
	gateway  ports.PaymentGateway
	orders   ports.OrderRepository
	vouchers ports.VoucherService
	log      zerolog.Logger
}

func NewPaymentService(gateway ports.PaymentGateway, orders ports.OrderRepository, vouchers ports.VoucherService, log zerolog.Logger) *PaymentService {
	return &PaymentService{gateway: gateway, orders: orders, vouchers: vouchers, log: log}
}

// CreateIntent requests a payment intent from the gateway for the given
// amount in whole currency units. The gateway works in minor units.
func (s *PaymentService) CreateIntent(ctx context.Context, p domain.Principal, amount decimal.Decimal) (*ports.GatewayIntent, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if s.gateway == nil {
		return nil, domain.ErrGatewayNotConfigured
	}

	minorUnits := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	receipt := "rcpt_" + uuid.NewString()

	timer := prometheus.NewTimer(metrics.PaymentIntentDuration)
	intent, err := s.gateway.CreateIntent(ctx, minorUnits, intentCurrency, receipt)
	timer.ObserveDuration()
	if err != nil {
		s.log.Error().Err(err).Int64("amount_minor", minorUnits).Msg("gateway intent creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	s.log.Info().Str("intent_id", intent.ID).Int64("amount_minor", minorUnits).Msg("payment intent created")
	return intent, nil
}

// Verify reconciles a payment into the order. Two paths exist: the signed
// gateway confirmation, and the free-order path for fully discounted orders.
// Both are idempotent under replay, and the attached voucher is redeemed
// exactly once, on the replay that first marks the order paid.
func (s *PaymentService) Verify(ctx context.Context, p domain.Principal, in ports.VerifyPaymentInput) error {
	order, err := s.orders.FindByID(ctx, in.OrderID)
	if err != nil {
		return err
	}

	if in.FreeOrder {
		return s.verifyFree(ctx, p, order)
	}
	return s.verifySigned(ctx, order, in)
}

// verifyFree completes a zero-priced order without a gateway record. Only the
// order's owner (or an admin) may trigger it, and the locked price must
// actually be zero.
func (s *PaymentService) verifyFree(ctx context.Context, p domain.Principal, order *domain.Order) error {
	if !p.IsAdmin() && order.CustomerID != p.ProfileID {
		return domain.ErrForbidden
	}
	if order.FinalPrice == nil || !order.FinalPrice.IsZero() {
		return fmt.Errorf("%w: order is not free", domain.ErrValidation)
	}

	applied, err := s.orders.MarkPaid(ctx, order.ID, nil)
	if err != nil {
		return err
	}
	if !applied {
		metrics.PaymentsVerifiedTotal.WithLabelValues("replay").Inc()
		return nil
	}

	s.redeemVoucher(ctx, order)
	metrics.PaymentsVerifiedTotal.WithLabelValues("free").Inc()
	s.log.Info().Str("order_id", order.ID).Msg("free order completed")
	return nil
}

// verifySigned checks the gateway's HMAC before touching the order. A bad
// signature leaves the order exactly as it was.
func (s *PaymentService) verifySigned(ctx context.Context, order *domain.Order, in ports.VerifyPaymentInput) error {
	if s.gateway == nil {
		return domain.ErrGatewayNotConfigured
	}
	if in.GatewayOrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return fmt.Errorf("%w: gateway order id, payment id and signature are required", domain.ErrValidation)
	}

	if !s.gateway.VerifySignature(in.GatewayOrderID, in.PaymentID, in.Signature) {
		metrics.PaymentsVerifiedTotal.WithLabelValues("invalid_signature").Inc()
		s.log.Warn().
			Str("order_id", order.ID).
			Str("payment_id", in.PaymentID).
			Msg("payment signature verification failed")
		return domain.ErrInvalidSignature
	}

	applied, err := s.orders.MarkPaid(ctx, order.ID, nil)
	if err != nil {
		return err
	}
	if !applied {
		metrics.PaymentsVerifiedTotal.WithLabelValues("replay").Inc()
		return nil
	}

	s.redeemVoucher(ctx, order)
	metrics.PaymentsVerifiedTotal.WithLabelValues("success").Inc()
	s.log.Info().
		Str("order_id", order.ID).
		Str("payment_id", in.PaymentID).
		Msg("payment verified")
	return nil
}

// redeemVoucher consumes one use of the order's voucher. The payment already
// landed; a redemption failure is logged, not surfaced.
func (s *PaymentService) redeemVoucher(ctx context.Context, order *domain.Order) {
	if order.VoucherCode == "" {
		return
	}
	if err := s.vouchers.Redeem(ctx, order.VoucherCode); err != nil {
		s.log.Error().Err(err).
			Str("order_id", order.ID).
			Str("voucher_code", order.VoucherCode).
			Msg("voucher redemption failed after payment")
		return
	}
	metrics.VoucherRedemptionsTotal.WithLabelValues(order.VoucherCode).Inc()
}
