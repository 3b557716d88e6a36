package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// AdminHandler covers partner vetting and the stats dashboard.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListPartners returns every partner profile.
//
// @Summary      List partners
// @Tags         admin
// @Produce      json
// @Security     SessionAuth
// @Success      200  {array}  partnerResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/partners [get]
func (h *AdminHandler) ListPartners(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	partners, err := h.service.ListPartners(c.Request().Context(), p)
	if err != nil {
		return err
	}

	out := make([]partnerResponse, 0, len(partners))
	for _, partner := range partners {
		out = append(out, toPartnerResponse(partner))
	}
	return c.JSON(http.StatusOK, out)
}

// VerifyPartner transitions a partner's verification status.
//
// @Summary      Set a partner's verification status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        id    path      string                true  "Partner id"
// @Param        body  body      verifyPartnerRequest  true  "Target status"
// @Success      200   {object}  partnerResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/admin/partners/{id}/verify [patch]
func (h *AdminHandler) VerifyPartner(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var req verifyPartnerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	partner, err := h.service.VerifyPartner(c.Request().Context(), p, c.Param("id"), domain.VerificationStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPartnerResponse(partner))
}

// Stats returns platform totals.
//
// @Summary      Platform stats
// @Tags         admin
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  statsResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), p)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statsResponse{
		Orders:     stats.Orders,
		Partners:   stats.Partners,
		Requesters: stats.Requesters,
		Revenue:    stats.Revenue.String(),
	})
}
