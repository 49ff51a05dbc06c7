package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/parkspot/parking-service/internal/dto"
	"github.com/parkspot/parking-service/internal/middleware"
	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/service"
)

type StructureHandler struct {
	svc service.InventoryService
}

func NewStructureHandler(svc service.InventoryService) *StructureHandler {
	return &StructureHandler{svc: svc}
}

func (h *StructureHandler) RegisterRoutes(g *echo.Group, jwtSecret string) {
	g.GET("", h.ListStructures)
	g.GET("/:id", h.GetStructure)
	g.POST("/:id/refresh", h.RefreshOccupancy)

	owner := g.Group("", middleware.Authenticate(jwtSecret), middleware.RequireRole(models.RoleOwner))
	owner.POST("", h.ProvisionStructure)
	owner.PUT("/:id", h.UpdateStructure)
	owner.DELETE("/:id", h.DeleteStructure)
}

func (h *StructureHandler) ProvisionStructure(c echo.Context) error {
	var req dto.ProvisionStructureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	structure, err := h.svc.ProvisionStructure(c.Request().Context(), service.ProvisionParams{
		Name:          req.Name,
		Address:       req.Address,
		DistanceLabel: req.Distance,
		Rating:        req.Rating,
		PricePerHour:  req.PricePerHour,
		Categories:    req.Categories,
		Lat:           req.Lat,
		Lng:           req.Lng,
		FloorCount:    req.FloorCount,
		SlotsPerFloor: req.SlotsPerFloor,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToStructureResponse(structure))
}

func (h *StructureHandler) UpdateStructure(c echo.Context) error {
	var req dto.UpdateStructureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	structure, err := h.svc.UpdateMetadata(c.Request().Context(), c.Param("id"), service.MetadataParams{
		Name:          req.Name,
		Address:       req.Address,
		DistanceLabel: req.Distance,
		Rating:        req.Rating,
		PricePerHour:  req.PricePerHour,
		Categories:    req.Categories,
		Lat:           req.Lat,
		Lng:           req.Lng,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStructureNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToStructureResponse(structure))
}

func (h *StructureHandler) DeleteStructure(c echo.Context) error {
	err := h.svc.DeleteStructure(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStructureNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrStructureInUse):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *StructureHandler) GetStructure(c echo.Context) error {
	structure, err := h.svc.GetStructure(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrStructureNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToStructureResponse(structure))
}

func (h *StructureHandler) ListStructures(c echo.Context) error {
	filter := service.StructureFilter{
		Query:      c.QueryParam("q"),
		PriceRange: c.QueryParam("price_range"),
		Category:   models.SlotCategory(c.QueryParam("category")),
	}
	if raw := c.QueryParam("max_distance"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_distance")
		}
		filter.MaxDistance = d
	}

	structures, err := h.svc.ListStructures(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.StructureResponse, len(structures))
	for i := range structures {
		resp[i] = dto.ToStructureResponse(&structures[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *StructureHandler) RefreshOccupancy(c echo.Context) error {
	structure, err := h.svc.RefreshOccupancy(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrStructureNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToStructureResponse(structure))
}
