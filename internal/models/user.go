package models

import "time"

type UserRole string

const (
	RoleDriver UserRole = "driver"
	RoleOwner  UserRole = "parking_owner"
)

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	LicensePlate string    `json:"license_plate,omitempty"`
	VehicleType  string    `json:"vehicle_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
