package memory

import (
	"context"
	"sort"

	"mediaitor/internal/model"
)

type MessageRepository struct {
	s *Store
}

func (r *MessageRepository) Create(_ context.Context, message *model.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if message.ID == "" {
		message.ID = model.NewID()
	}
	if _, exists := r.s.messages[message.ID]; exists {
		return nil
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = r.s.now()
	}
	r.s.messages[message.ID] = *message
	return nil
}

func (r *MessageRepository) ListBySessionID(_ context.Context, sessionID string) ([]model.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Message{}
	for _, m := range r.s.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
