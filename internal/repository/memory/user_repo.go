package memory

import (
	"context"

	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/repository"
)

type userRepository struct {
	s       *Store
	locking bool
}

func (r *userRepository) rlock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r *userRepository) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	defer r.lock()()
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer r.rlock()()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.rlock()()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}
