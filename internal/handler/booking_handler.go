package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/parkspot/parking-service/internal/dto"
	"github.com/parkspot/parking-service/internal/service"
)

type BookingHandler struct {
	svc service.InventoryService
}

func NewBookingHandler(svc service.InventoryService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/structures/:id/bookings", h.CreateBooking)
	api.GET("/bookings/:id", h.GetBooking)
	api.POST("/bookings/:id/complete", h.CompleteBooking)
	api.POST("/bookings/:id/cancel", h.CancelBooking)
	api.GET("/users/:id/bookings", h.ListUserBookings)
	api.GET("/users/:id/stats", h.GetUserStats)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	booking, err := h.svc.BookSlot(c.Request().Context(), service.BookingParams{
		UserID:        req.UserID,
		StructureID:   c.Param("id"),
		SlotID:        req.SlotID,
		DurationHours: req.DurationHours,
		LicensePlate:  req.LicensePlate,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStructureNotFound), errors.Is(err, service.ErrSlotNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSlotUnavailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.svc.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CompleteBooking(c echo.Context) error {
	booking, err := h.svc.CompleteBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return closeBookingError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	booking, err := h.svc.CancelBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return closeBookingError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func closeBookingError(err error) error {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBookingNotActive):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *BookingHandler) ListUserBookings(c echo.Context) error {
	bookings, err := h.svc.ListBookings(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) GetUserStats(c echo.Context) error {
	stats, err := h.svc.ComputeStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
