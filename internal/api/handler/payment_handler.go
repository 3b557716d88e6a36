package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// PaymentHandler exposes gateway intent creation and payment reconciliation.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreateIntent requests a payment intent from the gateway.
//
// @Summary      Create a payment intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      createIntentRequest  true  "Amount in whole currency units"
// @Success      200   {object}  intentResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /v1/payments/intent [post]
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	amount, err := parseMoney("amount", req.Amount)
	if err != nil {
		return err
	}

	intent, err := h.service.CreateIntent(c.Request().Context(), p, amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, intentResponse{
		ID:       intent.ID,
		Amount:   intent.Amount,
		Currency: intent.Currency,
		Receipt:  intent.Receipt,
	})
}

// Verify reconciles a gateway confirmation into the order.
//
// @Summary      Verify a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      verifyPaymentRequest  true  "Gateway confirmation or free-order marker"
// @Success      200   {object}  verifyPaymentResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/payments/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var req verifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.service.Verify(c.Request().Context(), p, ports.VerifyPaymentInput{
		OrderID:        req.OrderID,
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
		FreeOrder:      req.FreeOrder,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyPaymentResponse{Verified: true, OrderID: req.OrderID})
}
