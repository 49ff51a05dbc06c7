package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/parkspot/parking-service/internal/dto"
	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/service"
	"github.com/stretchr/testify/assert"
)

// --- Mock InventoryService ---

type mockInventoryService struct {
	provisionFn func(ctx context.Context, params service.ProvisionParams) (*models.ParkingStructure, error)
	updateFn    func(ctx context.Context, structureID string, params service.MetadataParams) (*models.ParkingStructure, error)
	deleteFn    func(ctx context.Context, structureID string) error
	getFn       func(ctx context.Context, structureID string) (*models.ParkingStructure, error)
	listFn      func(ctx context.Context, filter service.StructureFilter) ([]models.ParkingStructure, error)
	bookFn      func(ctx context.Context, params service.BookingParams) (*models.Booking, error)
	completeFn  func(ctx context.Context, bookingID string) (*models.Booking, error)
	cancelFn    func(ctx context.Context, bookingID string) (*models.Booking, error)
	refreshFn   func(ctx context.Context, structureID string) (*models.ParkingStructure, error)
	statsFn     func(ctx context.Context, userID string) (*service.DashboardStats, error)
	bookingsFn  func(ctx context.Context, userID string) ([]models.Booking, error)
	bookingFn   func(ctx context.Context, bookingID string) (*models.Booking, error)
}

func (m *mockInventoryService) ProvisionStructure(ctx context.Context, params service.ProvisionParams) (*models.ParkingStructure, error) {
	return m.provisionFn(ctx, params)
}
func (m *mockInventoryService) UpdateMetadata(ctx context.Context, structureID string, params service.MetadataParams) (*models.ParkingStructure, error) {
	return m.updateFn(ctx, structureID, params)
}
func (m *mockInventoryService) DeleteStructure(ctx context.Context, structureID string) error {
	return m.deleteFn(ctx, structureID)
}
func (m *mockInventoryService) GetStructure(ctx context.Context, structureID string) (*models.ParkingStructure, error) {
	return m.getFn(ctx, structureID)
}
func (m *mockInventoryService) ListStructures(ctx context.Context, filter service.StructureFilter) ([]models.ParkingStructure, error) {
	return m.listFn(ctx, filter)
}
func (m *mockInventoryService) BookSlot(ctx context.Context, params service.BookingParams) (*models.Booking, error) {
	return m.bookFn(ctx, params)
}
func (m *mockInventoryService) CompleteBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return m.completeFn(ctx, bookingID)
}
func (m *mockInventoryService) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return m.cancelFn(ctx, bookingID)
}
func (m *mockInventoryService) RefreshOccupancy(ctx context.Context, structureID string) (*models.ParkingStructure, error) {
	return m.refreshFn(ctx, structureID)
}
func (m *mockInventoryService) ComputeStats(ctx context.Context, userID string) (*service.DashboardStats, error) {
	return m.statsFn(ctx, userID)
}
func (m *mockInventoryService) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return m.bookingsFn(ctx, userID)
}
func (m *mockInventoryService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return m.bookingFn(ctx, bookingID)
}

// --- Tests ---

func TestCreateBooking_Handler_Success(t *testing.T) {
	svc := &mockInventoryService{
		bookFn: func(ctx context.Context, params service.BookingParams) (*models.Booking, error) {
			return &models.Booking{
				ID:            "booking-1",
				UserID:        params.UserID,
				StructureID:   params.StructureID,
				SlotID:        params.SlotID,
				SlotLabel:     "A1",
				DurationHours: params.DurationHours,
				TotalCost:     10000,
				Status:        models.BookingActive,
				CreatedAt:     time.Now(),
			}, nil
		},
	}

	e := echo.New()
	body := `{"user_id":"user-1","slot_id":"slot-1","duration_hours":2,"license_plate":"B1234XYZ","payment_method":"GoPay"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/structures/spot-1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("spot-1")

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "booking-1", resp.ID)
	assert.Equal(t, "spot-1", resp.StructureID)
	assert.Equal(t, int64(10000), resp.TotalCost)
	assert.Equal(t, models.BookingActive, resp.Status)
}

func TestCreateBooking_Handler_EmptyUserID(t *testing.T) {
	e := echo.New()
	body := `{"user_id":"","slot_id":"slot-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/structures/spot-1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("spot-1")

	h := NewBookingHandler(nil)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateBooking_Handler_SlotUnavailable(t *testing.T) {
	svc := &mockInventoryService{
		bookFn: func(ctx context.Context, params service.BookingParams) (*models.Booking, error) {
			return nil, service.ErrSlotUnavailable
		},
	}

	e := echo.New()
	body := `{"user_id":"user-1","slot_id":"slot-1","duration_hours":1,"license_plate":"X","payment_method":"Y"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/structures/spot-1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("spot-1")

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestCreateBooking_Handler_StructureNotFound(t *testing.T) {
	svc := &mockInventoryService{
		bookFn: func(ctx context.Context, params service.BookingParams) (*models.Booking, error) {
			return nil, service.ErrStructureNotFound
		},
	}

	e := echo.New()
	body := `{"user_id":"user-1","slot_id":"slot-1","duration_hours":1,"license_plate":"X","payment_method":"Y"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/structures/nope/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCompleteBooking_Handler(t *testing.T) {
	svc := &mockInventoryService{
		completeFn: func(ctx context.Context, bookingID string) (*models.Booking, error) {
			return &models.Booking{ID: bookingID, Status: models.BookingCompleted}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/booking-1/complete", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("booking-1")

	h := NewBookingHandler(svc)
	err := h.CompleteBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.BookingCompleted, resp.Status)
}

func TestCompleteBooking_Handler_NotActive(t *testing.T) {
	svc := &mockInventoryService{
		completeFn: func(ctx context.Context, bookingID string) (*models.Booking, error) {
			return nil, service.ErrBookingNotActive
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/booking-1/complete", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("booking-1")

	h := NewBookingHandler(svc)
	err := h.CompleteBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestCancelBooking_Handler_NotFound(t *testing.T) {
	svc := &mockInventoryService{
		cancelFn: func(ctx context.Context, bookingID string) (*models.Booking, error) {
			return nil, service.ErrBookingNotFound
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/nope/cancel", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	h := NewBookingHandler(svc)
	err := h.CancelBooking(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestListUserBookings_Handler(t *testing.T) {
	svc := &mockInventoryService{
		bookingsFn: func(ctx context.Context, userID string) ([]models.Booking, error) {
			return []models.Booking{
				{ID: "booking-2", UserID: userID, Status: models.BookingActive},
				{ID: "booking-1", UserID: userID, Status: models.BookingCompleted},
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/demo-user/bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("demo-user")

	h := NewBookingHandler(svc)
	err := h.ListUserBookings(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "booking-2", resp[0].ID)
}

func TestGetUserStats_Handler(t *testing.T) {
	svc := &mockInventoryService{
		statsFn: func(ctx context.Context, userID string) (*service.DashboardStats, error) {
			return &service.DashboardStats{
				AvailableSlots: 7,
				TotalSlots:     8,
				TodayBookings:  3,
				TotalRevenue:   38000,
				RecentBookings: []models.Booking{{ID: "booking-3"}},
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/demo-user/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("demo-user")

	h := NewBookingHandler(svc)
	err := h.GetUserStats(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp service.DashboardStats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(38000), resp.TotalRevenue)
	assert.Equal(t, 3, resp.TodayBookings)
}
