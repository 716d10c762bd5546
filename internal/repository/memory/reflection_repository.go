package memory

import (
	"context"
	"sort"

	"mediaitor/internal/model"
)

type ReflectionRepository struct {
	s *Store
}

func (r *ReflectionRepository) Create(_ context.Context, reflection *model.Reflection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if reflection.ID == "" {
		reflection.ID = model.NewID()
	}
	reflection.CreatedAt = r.s.now()
	r.s.reflections = append(r.s.reflections, *reflection)
	return nil
}

func (r *ReflectionRepository) ListByUserID(_ context.Context, userID string) ([]model.Reflection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Reflection{}
	for _, item := range r.s.reflections {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
