package memory

import (
	"context"

	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/repository"
)

type bookingRepository struct {
	s       *Store
	locking bool
}

func (r *bookingRepository) rlock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *bookingRepository) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *bookingRepository) Create(ctx context.Context, b *models.Booking) error {
	defer r.lock()()
	r.s.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	defer r.rlock()()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	defer r.rlock()()
	var list []models.Booking
	for _, b := range r.s.bookings {
		if b.UserID == userID {
			list = append(list, *cloneBooking(b))
		}
	}
	sortBookingsNewestFirst(list)
	return list, nil
}

func (r *bookingRepository) FindByStructureID(ctx context.Context, structureID string, status *models.BookingStatus) ([]models.Booking, error) {
	defer r.rlock()()
	var list []models.Booking
	for _, b := range r.s.bookings {
		if b.StructureID != structureID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		list = append(list, *cloneBooking(b))
	}
	sortBookingsNewestFirst(list)
	return list, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *models.Booking) error {
	defer r.lock()()
	if _, ok := r.s.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.bookings[b.ID] = cloneBooking(b)
	return nil
}
