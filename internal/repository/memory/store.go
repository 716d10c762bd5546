// Package memory keeps the directory, sessions, roster, messages and
// reflections in process memory. It mirrors the GORM repositories, unique
// constraints included, and backs the service and transport tests.
package memory

import (
	"sync"
	"time"

	"mediaitor/internal/model"
)

type Store struct {
	mu           sync.RWMutex
	now          func() time.Time
	users        map[string]*model.User
	sessions     map[string]*model.Session
	participants []model.SessionParticipant
	messages     map[string]model.Message
	reflections  []model.Reflection
}

func NewStore() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[string]*model.User),
		sessions: make(map[string]*model.Session),
		messages: make(map[string]model.Message),
	}
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s: s} }
func (s *Store) Sessions() *SessionRepository       { return &SessionRepository{s: s} }
func (s *Store) Messages() *MessageRepository       { return &MessageRepository{s: s} }
func (s *Store) Reflections() *ReflectionRepository { return &ReflectionRepository{s: s} }

// CountParticipants returns how many roster rows exist for sessionID.
func (s *Store) CountParticipants(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.participants {
		if p.SessionID == sessionID {
			n++
		}
	}
	return n
}

// CountUsers returns the size of the user directory.
func (s *Store) CountUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// SetClock replaces the time source used for generated timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
