package dto

import "github.com/parkspot/parking-service/internal/models"

type ProvisionStructureRequest struct {
	Name          string                `json:"name"`
	Address       string                `json:"address"`
	Distance      string                `json:"distance"`
	Rating        float64               `json:"rating"`
	PricePerHour  int64                 `json:"price_per_hour"`
	Categories    []models.SlotCategory `json:"categories"`
	Lat           float64               `json:"lat"`
	Lng           float64               `json:"lng"`
	FloorCount    int                   `json:"floor_count"`
	SlotsPerFloor int                   `json:"slots_per_floor"`
}

type UpdateStructureRequest struct {
	Name         string                `json:"name"`
	Address      string                `json:"address"`
	Distance     string                `json:"distance"`
	Rating       float64               `json:"rating"`
	PricePerHour int64                 `json:"price_per_hour"`
	Categories   []models.SlotCategory `json:"categories"`
	Lat          float64               `json:"lat"`
	Lng          float64               `json:"lng"`
}

type CreateBookingRequest struct {
	UserID        string `json:"user_id"`
	SlotID        string `json:"slot_id"`
	DurationHours int    `json:"duration_hours"`
	LicensePlate  string `json:"license_plate"`
	PaymentMethod string `json:"payment_method"`
}

type RegisterRequest struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	Role         models.UserRole `json:"role"`
	LicensePlate string          `json:"license_plate"`
	VehicleType  string          `json:"vehicle_type"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
