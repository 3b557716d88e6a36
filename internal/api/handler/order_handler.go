package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for the order lifecycle.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create places an order.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  createOrderResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), p, ports.CreateOrderInput{
		ServiceID:   req.ServiceID,
		VoucherCode: req.VoucherCode,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createOrderResponse{
		OrderID:     result.OrderID,
		Status:      string(result.Status),
		BasePrice:   result.BasePrice.String(),
		Discount:    result.Discount.String(),
		FinalPrice:  result.FinalPrice.String(),
		VoucherCode: result.VoucherCode,
		CreatedAt:   result.CreatedAt,
	})
}

// List returns the orders visible to the caller.
//
// @Summary      List orders in the caller's scope
// @Tags         orders
// @Produce      json
// @Security     SessionAuth
// @Success      200  {array}  orderResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	orders, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one order with resolved references.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     SessionAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderDetailResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderDetailResponse(detail))
}

// Update applies the role-scoped partial update.
//
// @Summary      Update an order (role-scoped)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        id    path      string              true  "Order id"
// @Param        body  body      updateOrderRequest  true  "Fields to update"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/orders/{id} [patch]
func (h *OrderHandler) Update(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in := ports.UpdateOrderInput{Rating: req.Rating, Remarks: req.Remarks}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		in.Status = &status
	}

	order, err := h.service.Update(c.Request().Context(), p, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Accept claims an unassigned order for the calling partner.
//
// @Summary      Claim an order
// @Tags         orders
// @Produce      json
// @Security     SessionAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /v1/orders/{id}/accept [post]
func (h *OrderHandler) Accept(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	order, err := h.service.Accept(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Assign attaches a partner to an order (admin override).
//
// @Summary      Assign an order to a partner
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        id    path      string              true  "Order id"
// @Param        body  body      assignOrderRequest  true  "Target partner"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/orders/{id}/assign [post]
func (h *OrderHandler) Assign(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var req assignOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.service.Assign(c.Request().Context(), p, c.Param("id"), req.ProviderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// StatusFeed returns recent order mutations in the caller's scope.
//
// @Summary      Poll recent order status changes
// @Tags         orders
// @Produce      json
// @Security     SessionAuth
// @Param        since  query     string  false  "RFC3339 cursor from the previous poll"
// @Success      200    {object}  statusFeedResponse
// @Router       /v1/orders/status [get]
func (h *OrderHandler) StatusFeed(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var since time.Time
	if raw := c.QueryParam("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "since must be RFC3339")
		}
		since = parsed
	}

	feed, err := h.service.StatusFeed(c.Request().Context(), p, since)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatusFeedResponse(feed))
}
