package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// CatalogHandler serves the service catalog.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List returns active catalog entries.
//
// @Summary      List available services
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  serviceResponse
// @Router       /v1/services [get]
func (h *CatalogHandler) List(c echo.Context) error {
	services, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, *toServiceResponse(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one service with its requirements.
//
// @Summary      Get a service
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Service id"
// @Success      200  {object}  serviceResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/services/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	svc, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServiceResponse(svc))
}

// Create adds a catalog entry.
//
// @Summary      Create a service
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     SessionAuth
// @Param        body  body      createServiceRequest  true  "Service definition"
// @Success      201   {object}  serviceResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/admin/services [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	p, err := Principal(c)
	if err != nil {
		return err
	}

	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	price, err := parseMoney("base_price", req.BasePrice)
	if err != nil {
		return err
	}

	reqs := make([]domain.Requirement, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		reqs = append(reqs, domain.Requirement{
			Name:        r.Name,
			Description: r.Description,
			IsRequired:  r.IsRequired,
			SortOrder:   r.SortOrder,
		})
	}

	svc, err := h.service.Create(c.Request().Context(), p, ports.UpsertServiceInput{
		DocumentType: req.DocumentType,
		State:        req.State,
		BasePrice:    price,
		Requirements: reqs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toServiceResponse(svc))
}

// SetActive toggles a catalog entry on or off.
//
// @Summary      Activate or deactivate a service
// @Tags         catalog
// @Accept       json
// @Security     SessionAuth
// @Param        id    path      string            true  "Service id"
// @Param        body  body      setActiveRequest  true  "Target state"
// @Success      204   "No Content"
// @Failure      404   {object}  map[string]string
// @Router       /v1/admin/services/{id} [patch]
func (h *CatalogHandler) SetActive(c echo.Context) error {
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
