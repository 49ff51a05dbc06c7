package postgresql

import (
	"context"
	"errors"

	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/repository"
	"gorm.io/gorm"
)

type structureRepository struct {
	db *gorm.DB
}

func (r *structureRepository) Create(ctx context.Context, s *models.ParkingStructure) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *structureRepository) FindByID(ctx context.Context, id string) (*models.ParkingStructure, error) {
	var structure models.ParkingStructure
	err := r.db.WithContext(ctx).
		Preload("Floors", func(db *gorm.DB) *gorm.DB { return db.Order("floors.number ASC") }).
		Preload("Floors.Slots", func(db *gorm.DB) *gorm.DB { return db.Order("slots.label ASC") }).
		First(&structure, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &structure, nil
}

func (r *structureRepository) FindAll(ctx context.Context) ([]models.ParkingStructure, error) {
	var structures []models.ParkingStructure
	err := r.db.WithContext(ctx).
		Preload("Floors", func(db *gorm.DB) *gorm.DB { return db.Order("floors.number ASC") }).
		Preload("Floors.Slots", func(db *gorm.DB) *gorm.DB { return db.Order("slots.label ASC") }).
		Order("created_at ASC").
		Find(&structures).Error
	if err != nil {
		return nil, err
	}
	return structures, nil
}

func (r *structureRepository) Update(ctx context.Context, s *models.ParkingStructure) error {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *structureRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Select("Floors", "Floors.Slots").
		Delete(&models.ParkingStructure{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
