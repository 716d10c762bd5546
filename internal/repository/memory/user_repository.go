package memory

import (
	"context"
	"fmt"

	"mediaitor/internal/model"
	"mediaitor/internal/repository"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email || existing.ExternalID == user.ExternalID {
			return fmt.Errorf("create user failed: %w", repository.ErrDuplicate)
		}
	}
	if user.ID == "" {
		user.ID = model.NewID()
	}
	now := r.s.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *UserRepository) GetByExternalID(_ context.Context, externalID string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.ExternalID == externalID {
			out := *user
			return &out, nil
		}
	}
	return nil, nil
}
