package models

import "time"

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking reserves exactly one slot for a duration. StructureName, Location
// and SlotLabel are snapshots taken at booking time so history stays
// readable after the structure is edited or deleted.
type Booking struct {
	ID            string        `gorm:"primaryKey" json:"id"`
	UserID        string        `gorm:"not null;index" json:"user_id"`
	StructureID   string        `gorm:"not null;index" json:"structure_id"`
	StructureName string        `json:"structure_name"`
	Location      string        `json:"location"`
	SlotID        string        `gorm:"not null" json:"slot_id"`
	SlotLabel     string        `json:"slot_label"`
	LicensePlate  string        `gorm:"not null" json:"license_plate"`
	DurationHours int           `gorm:"not null" json:"duration_hours"`
	PaymentMethod string        `gorm:"not null" json:"payment_method"`
	TotalCost     int64         `gorm:"not null" json:"total_cost"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Date          string        `gorm:"not null" json:"date"`
	Time          string        `gorm:"not null" json:"time"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
