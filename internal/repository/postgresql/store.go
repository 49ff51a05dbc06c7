package postgresql

import (
	"context"

	"github.com/parkspot/parking-service/internal/repository"
	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Structures() repository.StructureRepository { return &structureRepository{db: s.db} }
func (s *store) Bookings() repository.BookingRepository     { return &bookingRepository{db: s.db} }
func (s *store) Users() repository.UserRepository           { return &userRepository{db: s.db} }

func (s *store) Atomic(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
