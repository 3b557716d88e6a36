package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// VoucherHandler exposes public voucher validation and admin management.
type VoucherHandler struct {
	service ports.VoucherService
}

func NewVoucherHandler(service ports.VoucherService) *VoucherHandler {
	return &VoucherHandler{service: service}
}

// Validate checks a code against an order amount without consuming it.
//
// @Summary      Validate a voucher code
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Param        body  body      validateVoucherRequest  true  "Code and order amount"
// @Success      200   {object}  voucherResultResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/vouchers/validate [post]
func (h *VoucherHandler) Validate(c echo.Context) error {
	var req validateVoucherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	amount, err := parseMoney("order_amount", req.OrderAmount)
	if err != nil {
		return err
	}

	result, err := h.service.Validate(c.Request().Context(), req.Code, amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, voucherResultResponse{
		Valid:       result.Valid,
		Discount:    result.Discount.String(),
		FinalAmount: result.FinalAmount.String(),
		Reason:      result.Reason,
	})
}

// List returns all vouchers.
//
// @Summary      List vouchers
// @Tags         vouchers
// @Produce      json
// @Security     SessionAuth
// @Success      200  {array}  voucherResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/vouchers [get]
func (h *VoucherHandler) List(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	vouchers, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}

	out := make([]voucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, toVoucherResponse(v))
	}
	return c.JSON(http.StatusOK, out)
}

// Create registers a new voucher.
//
// @Summary      Create a voucher
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      createVoucherRequest  true  "Voucher definition"
// @Success      201   {object}  voucherResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/admin/vouchers [post]
func (h *VoucherHandler) Create(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var req createVoucherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in, err := toCreateVoucherInput(req)
	if err != nil {
		return err
	}

	voucher, err := h.service.Create(c.Request().Context(), p, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toVoucherResponse(voucher))
}

// SetActive toggles a voucher on or off.
//
// @Summary      Activate or deactivate a voucher
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        id    path      string            true  "Voucher id"
// @Param        body  body      setActiveRequest  true  "Target state"
// @Success      204   "No Content"
// @Failure      404   {object}  map[string]string
// @Router       /v1/admin/vouchers/{id} [patch]
func (h *VoucherHandler) SetActive(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.SetActive(c.Request().Context(), p, c.Param("id"), *req.IsActive); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a voucher.
//
// @Summary      Delete a voucher
// @Tags         vouchers
// @Security     SessionAuth
// @Param        id   path  string  true  "Voucher id"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /v1/admin/vouchers/{id} [delete]
func (h *VoucherHandler) Delete(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toCreateVoucherInput(req createVoucherRequest) (ports.CreateVoucherInput, error) {
	in := ports.CreateVoucherInput{
		Code:         req.Code,
		DiscountType: domain.DiscountType(req.DiscountType),
		MaxUses:      req.MaxUses,
	}

	value, err := parseMoney("discount_value", req.DiscountValue)
	if err != nil {
		return in, err
	}
	in.DiscountValue = value

	if req.MinOrderAmount != nil {
		min, err := parseMoney("min_order_amount", *req.MinOrderAmount)
		if err != nil {
			return in, err
		}
		in.MinOrderAmount = &min
	}
	if req.MaxDiscount != nil {
		max, err := parseMoney("max_discount", *req.MaxDiscount)
		if err != nil {
			return in, err
		}
		in.MaxDiscount = &max
	}
	if req.ValidUntil != nil {
		until, err := time.Parse(time.RFC3339, *req.ValidUntil)
		if err != nil {
			return in, fmt.Errorf("%w: valid_until must be RFC3339", domain.ErrValidation)
		}
		in.ValidUntil = &until
	}
	return in, nil
}
