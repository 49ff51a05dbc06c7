package dto

import (
	"time"

	"github.com/parkspot/parking-service/internal/models"
)

type StructureResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Address        string                `json:"address"`
	Distance       string                `json:"distance"`
	Rating         float64               `json:"rating"`
	PricePerHour   int64                 `json:"price_per_hour"`
	Categories     []models.SlotCategory `json:"categories"`
	Lat            float64               `json:"lat"`
	Lng            float64               `json:"lng"`
	TotalSlots     int                   `json:"total_slots"`
	AvailableSlots int                   `json:"available_slots"`
	Floors         []models.Floor        `json:"floors,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	StructureID   string               `json:"structure_id"`
	StructureName string               `json:"structure_name"`
	Location      string               `json:"location"`
	SlotID        string               `json:"slot_id"`
	SlotLabel     string               `json:"slot_label"`
	LicensePlate  string               `json:"license_plate"`
	DurationHours int                  `json:"duration_hours"`
	PaymentMethod string               `json:"payment_method"`
	TotalCost     int64                `json:"total_cost"`
	Status        models.BookingStatus `json:"status"`
	Date          string               `json:"date"`
	Time          string               `json:"time"`
	CreatedAt     time.Time            `json:"created_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToStructureResponse(s *models.ParkingStructure) StructureResponse {
	return StructureResponse{
		ID:             s.ID,
		Name:           s.Name,
		Address:        s.Address,
		Distance:       s.DistanceLabel,
		Rating:         s.Rating,
		PricePerHour:   s.PricePerHour,
		Categories:     s.Categories,
		Lat:            s.Lat,
		Lng:            s.Lng,
		TotalSlots:     s.TotalSlots,
		AvailableSlots: s.AvailableSlots,
		Floors:         s.Floors,
		CreatedAt:      s.CreatedAt,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		StructureID:   b.StructureID,
		StructureName: b.StructureName,
		Location:      b.Location,
		SlotID:        b.SlotID,
		SlotLabel:     b.SlotLabel,
		LicensePlate:  b.LicensePlate,
		DurationHours: b.DurationHours,
		PaymentMethod: b.PaymentMethod,
		TotalCost:     b.TotalCost,
		Status:        b.Status,
		Date:          b.Date,
		Time:          b.Time,
		CreatedAt:     b.CreatedAt,
	}
}
