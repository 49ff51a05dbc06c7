// Package memory provides a map-backed Store. It stands in for a real
// backend in demo deployments and backs the unit tests; every read and
// write deep-copies so callers never alias the store's own records.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/repository"
)

type Store struct {
	mu         sync.RWMutex
	structures map[string]*models.ParkingStructure
	bookings   map[string]*models.Booking
	users      map[string]*models.User
}

func NewStore() *Store {
	return &Store{
		structures: make(map[string]*models.ParkingStructure),
		bookings:   make(map[string]*models.Booking),
		users:      make(map[string]*models.User),
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Structures() repository.StructureRepository {
	return &structureRepository{s: s, locking: true}
}

func (s *Store) Bookings() repository.BookingRepository {
	return &bookingRepository{s: s, locking: true}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{s: s, locking: true}
}

// Atomic holds the store's write lock for the whole callback, so no other
// reader or writer interleaves. The repositories handed to fn skip locking;
// sync.RWMutex is not reentrant.
func (s *Store) Atomic(ctx context.Context, fn func(repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&atomicView{s: s})
}

type atomicView struct {
	s *Store
}

var _ repository.Store = (*atomicView)(nil)

func (v *atomicView) Structures() repository.StructureRepository {
	return &structureRepository{s: v.s}
}

func (v *atomicView) Bookings() repository.BookingRepository {
	return &bookingRepository{s: v.s}
}

func (v *atomicView) Users() repository.UserRepository {
	return &userRepository{s: v.s}
}

func (v *atomicView) Atomic(ctx context.Context, fn func(repository.Store) error) error {
	return fn(v)
}

func cloneStructure(s *models.ParkingStructure) *models.ParkingStructure {
	out := *s
	out.Categories = append([]models.SlotCategory(nil), s.Categories...)
	out.Floors = make([]models.Floor, len(s.Floors))
	for i, f := range s.Floors {
		nf := f
		nf.Slots = append([]models.Slot(nil), f.Slots...)
		out.Floors[i] = nf
	}
	return &out
}

func cloneBooking(b *models.Booking) *models.Booking {
	out := *b
	return &out
}

func cloneUser(u *models.User) *models.User {
	out := *u
	return &out
}

func sortStructuresOldestFirst(list []models.ParkingStructure) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

func sortBookingsNewestFirst(list []models.Booking) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
