package models

import "time"

type SlotStatus string

const (
	SlotEmpty    SlotStatus = "empty"
	SlotBooked   SlotStatus = "booked"
	SlotOccupied SlotStatus = "occupied"
)

type SlotCategory string

const (
	CategoryRegular    SlotCategory = "regular"
	CategoryAccessible SlotCategory = "accessible"
	CategoryEV         SlotCategory = "ev"
)

// Slot is one physical parking space. Category is fixed at provisioning;
// only Status changes afterwards.
type Slot struct {
	ID          string       `gorm:"primaryKey" json:"id"`
	FloorID     string       `gorm:"not null;index" json:"-"`
	Label       string       `gorm:"not null" json:"label"`
	Status      SlotStatus   `gorm:"type:varchar(20);not null;default:'empty'" json:"status"`
	Category    SlotCategory `gorm:"type:varchar(20);not null" json:"category"`
	FloorNumber int          `gorm:"not null" json:"floor_number"`
}

type Floor struct {
	ID          string `gorm:"primaryKey" json:"id"`
	StructureID string `gorm:"not null;index" json:"-"`
	Number      int    `gorm:"not null" json:"number"`
	Slots       []Slot `gorm:"foreignKey:FloorID;constraint:OnDelete:CASCADE" json:"slots"`
}

// ParkingStructure is a parking location with multiple floors of slots.
// AvailableSlots must always equal the number of slots with status empty
// across all floors; every slot-status transition adjusts it.
type ParkingStructure struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Address        string         `json:"address"`
	DistanceLabel  string         `json:"distance"`
	Rating         float64        `json:"rating"`
	PricePerHour   int64          `gorm:"not null" json:"price_per_hour"`
	Categories     []SlotCategory `gorm:"serializer:json" json:"categories"`
	Lat            float64        `json:"lat"`
	Lng            float64        `json:"lng"`
	TotalSlots     int            `gorm:"not null" json:"total_slots"`
	AvailableSlots int            `gorm:"not null" json:"available_slots"`
	Floors         []Floor        `gorm:"foreignKey:StructureID;constraint:OnDelete:CASCADE" json:"floors,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// FindSlot walks the floors for a slot id. Returns nil when absent.
func (p *ParkingStructure) FindSlot(slotID string) *Slot {
	for fi := range p.Floors {
		for si := range p.Floors[fi].Slots {
			if p.Floors[fi].Slots[si].ID == slotID {
				return &p.Floors[fi].Slots[si]
			}
		}
	}
	return nil
}

// CountEmptySlots recounts empty slots across all floors.
func (p *ParkingStructure) CountEmptySlots() int {
	n := 0
	for fi := range p.Floors {
		for si := range p.Floors[fi].Slots {
			if p.Floors[fi].Slots[si].Status == SlotEmpty {
				n++
			}
		}
	}
	return n
}
