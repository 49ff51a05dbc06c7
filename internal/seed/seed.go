// Package seed provisions the demo dataset used when the service runs
// against an empty store: three parking structures, two demo accounts and
// a little booking history.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/repository"
	"github.com/parkspot/parking-service/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "demo123"

type floorSpec struct {
	letter    string
	slotCount int
	// chance that a slot starts out occupied
	pOccupied float64
	evEvery   int
	accEvery  int
}

type structureSpec struct {
	id         string
	name       string
	address    string
	distance   string
	rating     float64
	price      int64
	categories []models.SlotCategory
	lat, lng   float64
	floors     []floorSpec
}

var demoStructures = []structureSpec{
	{
		id: "spot-1", name: "Central Mall Parking", address: "Jl. Sudirman No. 123, Jakarta",
		distance: "0.5 km", rating: 4.8, price: 5000,
		categories: []models.SlotCategory{models.CategoryRegular, models.CategoryAccessible, models.CategoryEV},
		lat:        -6.2088, lng: 106.8456,
		floors: []floorSpec{
			{letter: "A", slotCount: 30, pOccupied: 0.4, evEvery: 10, accEvery: 15},
			{letter: "B", slotCount: 35, pOccupied: 0.3, evEvery: 12, accEvery: 18},
			{letter: "C", slotCount: 35, pOccupied: 0.2, evEvery: 8, accEvery: 20},
		},
	},
	{
		id: "spot-2", name: "Office Tower Parking", address: "Jl. Thamrin No. 456, Jakarta",
		distance: "1.2 km", rating: 4.5, price: 7000,
		categories: []models.SlotCategory{models.CategoryRegular, models.CategoryEV},
		lat:        -6.1944, lng: 106.8229,
		floors: []floorSpec{
			{letter: "P", slotCount: 25, pOccupied: 0.35, evEvery: 8},
			{letter: "Q", slotCount: 30, pOccupied: 0.3, evEvery: 10},
			{letter: "R", slotCount: 25, pOccupied: 0.25, evEvery: 12},
		},
	},
	{
		id: "spot-3", name: "Grand Hotel Parking", address: "Jl. Rasuna Said No. 789, Jakarta",
		distance: "2.0 km", rating: 4.7, price: 10000,
		categories: []models.SlotCategory{models.CategoryRegular, models.CategoryAccessible, models.CategoryEV},
		lat:        -6.2231, lng: 106.8317,
		floors: []floorSpec{
			{letter: "H", slotCount: 20, pOccupied: 0.5, evEvery: 6, accEvery: 10},
			{letter: "I", slotCount: 20, pOccupied: 0.4, evEvery: 8, accEvery: 12},
			{letter: "J", slotCount: 20, pOccupied: 0.3, evEvery: 10, accEvery: 15},
		},
	},
}

// Run populates an empty store. A store that already has structures is
// left alone so restarts do not clobber live data.
func Run(ctx context.Context, store repository.Store, rng service.Rand) error {
	existing, err := store.Structures().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("check store: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Println("[seed] provisioning demo data")

	now := time.Now()
	for i, spec := range demoStructures {
		structure := buildStructure(spec, rng)
		// keep listing order stable
		structure.CreatedAt = now.Add(time.Duration(i) * time.Second)
		if err := store.Structures().Create(ctx, structure); err != nil {
			return fmt.Errorf("seed structure %s: %w", spec.id, err)
		}
	}

	if err := seedUsers(ctx, store); err != nil {
		return err
	}
	return seedBookings(ctx, store, now)
}

func buildStructure(spec structureSpec, rng service.Rand) *models.ParkingStructure {
	structure := &models.ParkingStructure{
		ID:            spec.id,
		Name:          spec.name,
		Address:       spec.address,
		DistanceLabel: spec.distance,
		Rating:        spec.rating,
		PricePerHour:  spec.price,
		Categories:    spec.categories,
		Lat:           spec.lat,
		Lng:           spec.lng,
	}

	for fi, fs := range spec.floors {
		floor := models.Floor{
			ID:          fmt.Sprintf("floor-%s-%d", spec.id, fi+1),
			StructureID: spec.id,
			Number:      fi + 1,
		}
		for i := 0; i < fs.slotCount; i++ {
			status := models.SlotEmpty
			if rng.Float64() < fs.pOccupied {
				status = models.SlotOccupied
			}
			floor.Slots = append(floor.Slots, models.Slot{
				ID:          fmt.Sprintf("slot-%s-%d-%d", spec.id, fi+1, i+1),
				FloorID:     floor.ID,
				Label:       fmt.Sprintf("%s%d", fs.letter, i+1),
				Status:      status,
				Category:    categoryAt(i, fs),
				FloorNumber: fi + 1,
			})
		}
		structure.Floors = append(structure.Floors, floor)
		structure.TotalSlots += fs.slotCount
	}

	structure.AvailableSlots = structure.CountEmptySlots()
	return structure
}

func categoryAt(index int, fs floorSpec) models.SlotCategory {
	if fs.evEvery > 0 && index%fs.evEvery == 0 {
		return models.CategoryEV
	}
	if fs.accEvery > 0 && index%fs.accEvery == 0 {
		return models.CategoryAccessible
	}
	return models.CategoryRegular
}

func seedUsers(ctx context.Context, store repository.Store) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	users := []*models.User{
		{
			ID: "demo-admin", Name: "Admin Demo", Email: "admin@demo.com",
			PasswordHash: string(hash), Role: models.RoleOwner,
		},
		{
			ID: "demo-user", Name: "User Demo", Email: "user@demo.com",
			PasswordHash: string(hash), Role: models.RoleDriver,
			LicensePlate: "B1234XYZ", VehicleType: "sedan",
		},
	}
	for _, u := range users {
		if err := store.Users().Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	return nil
}

// seedBookings writes one completed and one active booking for the demo
// driver. The active one claims its slot for real so the counter invariant
// holds from the first request on.
func seedBookings(ctx context.Context, store repository.Store, now time.Time) error {
	completed := &models.Booking{
		ID: "booking-1", UserID: "demo-user",
		StructureID: "spot-1", StructureName: "Central Mall Parking",
		Location: "Jl. Sudirman No. 123, Jakarta",
		SlotID:   "slot-spot-1-1-1", SlotLabel: "A1",
		LicensePlate: "B1234XYZ", DurationHours: 2, PaymentMethod: "Visa ****1234",
		TotalCost: 10000, Status: models.BookingCompleted,
		Date: now.AddDate(0, 0, -2).Format("2006-01-02"), Time: "09:00",
		CreatedAt: now.AddDate(0, 0, -2),
	}
	if err := store.Bookings().Create(ctx, completed); err != nil {
		return fmt.Errorf("seed booking %s: %w", completed.ID, err)
	}

	return store.Atomic(ctx, func(st repository.Store) error {
		structure, err := st.Structures().FindByID(ctx, "spot-2")
		if err != nil {
			return fmt.Errorf("load spot-2: %w", err)
		}
		slot := structure.FindSlot("slot-spot-2-1-5")
		if slot == nil {
			return fmt.Errorf("demo slot missing on spot-2")
		}

		active := &models.Booking{
			ID: "booking-2", UserID: "demo-user",
			StructureID: structure.ID, StructureName: structure.Name,
			Location: structure.Address,
			SlotID:   slot.ID, SlotLabel: slot.Label,
			LicensePlate: "B1234XYZ", DurationHours: 4, PaymentMethod: "GoPay",
			TotalCost: 4 * structure.PricePerHour, Status: models.BookingActive,
			Date: now.AddDate(0, 0, -1).Format("2006-01-02"), Time: "08:30",
			CreatedAt: now.AddDate(0, 0, -1),
		}
		if err := st.Bookings().Create(ctx, active); err != nil {
			return fmt.Errorf("seed booking %s: %w", active.ID, err)
		}

		slot.Status = models.SlotBooked
		structure.AvailableSlots = structure.CountEmptySlots()
		if err := st.Structures().Update(ctx, structure); err != nil {
			return fmt.Errorf("claim demo slot: %w", err)
		}
		return nil
	})
}
