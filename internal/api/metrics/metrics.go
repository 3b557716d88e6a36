// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts newly placed orders.
// Label:
//   - service: the catalog document type ordered (e.g. "birth_certificate")
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by service document type.",
	},
	[]string{"service"},
)

// OrderTransitionsTotal counts lifecycle transitions applied through PATCH.
// Labels:
//   - status: the status the order moved into (e.g. "COMPLETED")
//   - role: the role that requested the transition
var OrderTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Total number of order status transitions, by target status and actor role.",
	},
	[]string{"status", "role"},
)

// ClaimConflictsTotal counts accept attempts that lost the claim race.
var ClaimConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claim_conflicts_total",
		Help:      "Total number of order claim attempts rejected because the order was already assigned.",
	},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsVerifiedTotal counts payment reconciliation outcomes.
// Label:
//   - result: "success", "invalid_signature", "free", or "replay"
var PaymentsVerifiedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_verified_total",
		Help:      "Total number of payment verification attempts, by outcome.",
	},
	[]string{"result"},
)

// PaymentIntentDuration measures gateway round trips when creating an intent.
var PaymentIntentDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_intent_duration_seconds",
		Help:      "Duration of payment gateway order creation calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Voucher metrics ───────────────────────────────────────────────────────────

// VoucherRedemptionsTotal counts successful atomic redemptions.
// Label:
//   - code: the normalized voucher code
var VoucherRedemptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "voucher_redemptions_total",
		Help:      "Total number of voucher redemptions applied during reconciliation.",
	},
	[]string{"code"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsIssuedTotal counts successful logins, by role.
var SessionsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of sessions issued at login, by role.",
	},
	[]string{"role"},
)
