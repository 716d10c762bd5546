package memory

import (
	"context"
	"fmt"

	"mediaitor/internal/model"
	"mediaitor/internal/repository"
)

type SessionRepository struct {
	s *Store
}

func (r *SessionRepository) CreateWithCreator(_ context.Context, session *model.Session, creatorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if session.ID == "" {
		session.ID = model.NewID()
	}
	if session.Stage == "" {
		session.Stage = model.StageMain
	}
	now := r.s.now()
	session.CreatedAt = now
	session.UpdatedAt = now

	creator := model.SessionParticipant{
		ID:        model.NewID(),
		SessionID: session.ID,
		UserID:    creatorID,
		JoinedAt:  now,
		Status:    model.ParticipantActive,
	}

	stored := *session
	stored.Participants = nil
	stored.Messages = nil
	r.s.sessions[session.ID] = &stored
	r.s.participants = append(r.s.participants, creator)

	session.Participants = []model.SessionParticipant{creator}
	return nil
}

func (r *SessionRepository) GetWithParticipants(_ context.Context, sessionID string) (*model.Session, error) {
	return r.load(sessionID, func(model.SessionParticipant) bool { return true }), nil
}

func (r *SessionRepository) GetWithParticipant(_ context.Context, sessionID, userID string) (*model.Session, error) {
	return r.load(sessionID, func(p model.SessionParticipant) bool { return p.UserID == userID }), nil
}

func (r *SessionRepository) AddParticipant(_ context.Context, participant *model.SessionParticipant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[participant.SessionID]; !ok {
		return fmt.Errorf("add session participant failed: session %s does not exist", participant.SessionID)
	}
	for _, p := range r.s.participants {
		if p.SessionID == participant.SessionID && p.UserID == participant.UserID {
			return fmt.Errorf("add session participant failed: %w", repository.ErrDuplicate)
		}
	}
	if participant.ID == "" {
		participant.ID = model.NewID()
	}
	if participant.Status == "" {
		participant.Status = model.ParticipantActive
	}
	participant.JoinedAt = r.s.now()
	r.s.participants = append(r.s.participants, *participant)
	return nil
}

func (r *SessionRepository) load(sessionID string, keep func(model.SessionParticipant) bool) *model.Session {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.sessions[sessionID]
	if !ok {
		return nil
	}
	out := *stored
	out.Participants = []model.SessionParticipant{}
	for _, p := range r.s.participants {
		if p.SessionID == sessionID && keep(p) {
			out.Participants = append(out.Participants, p)
		}
	}
	return &out
}
