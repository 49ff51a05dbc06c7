package repository

import (
	"context"
	"errors"

	"github.com/parkspot/parking-service/internal/models"
)

// ErrNotFound is returned by every repository when the keyed record is absent.
var ErrNotFound = errors.New("record not found")

type StructureRepository interface {
	Create(ctx context.Context, s *models.ParkingStructure) error
	FindByID(ctx context.Context, id string) (*models.ParkingStructure, error)
	FindAll(ctx context.Context) ([]models.ParkingStructure, error)
	// Update persists the full aggregate: metadata, counters, floors and slots.
	Update(ctx context.Context, s *models.ParkingStructure) error
	Delete(ctx context.Context, id string) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Booking, error)
	FindByStructureID(ctx context.Context, structureID string, status *models.BookingStatus) ([]models.Booking, error)
	Update(ctx context.Context, b *models.Booking) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store bundles the three collections behind one handle. Atomic runs fn
// against a view of the store whose writes commit together; the booking
// triple update (booking row, slot status, counter) goes through it so a
// reader never observes the booking without the slot flip.
type Store interface {
	Structures() StructureRepository
	Bookings() BookingRepository
	Users() UserRepository
	Atomic(ctx context.Context, fn func(s Store) error) error
}
