package memory

import (
	"context"

	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/repository"
)

type structureRepository struct {
	s       *Store
	locking bool
}

func (r *structureRepository) rlock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *structureRepository) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *structureRepository) Create(ctx context.Context, s *models.ParkingStructure) error {
	defer r.lock()()
	r.s.structures[s.ID] = cloneStructure(s)
	return nil
}

func (r *structureRepository) FindByID(ctx context.Context, id string) (*models.ParkingStructure, error) {
	defer r.rlock()()
	s, ok := r.s.structures[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneStructure(s), nil
}

func (r *structureRepository) FindAll(ctx context.Context) ([]models.ParkingStructure, error) {
	defer r.rlock()()
	list := make([]models.ParkingStructure, 0, len(r.s.structures))
	for _, s := range r.s.structures {
		list = append(list, *cloneStructure(s))
	}
	sortStructuresOldestFirst(list)
	return list, nil
}

func (r *structureRepository) Update(ctx context.Context, s *models.ParkingStructure) error {
	defer r.lock()()
	if _, ok := r.s.structures[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.structures[s.ID] = cloneStructure(s)
	return nil
}

func (r *structureRepository) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.s.structures[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.structures, id)
	return nil
}
