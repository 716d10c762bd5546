package app

import (
	"context"

	"mediaitor/internal/identity"
	"mediaitor/internal/model"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
}

type SessionStore interface {
	CreateWithCreator(ctx context.Context, session *model.Session, creatorID string) error
	GetWithParticipants(ctx context.Context, sessionID string) (*model.Session, error)
	GetWithParticipant(ctx context.Context, sessionID, userID string) (*model.Session, error)
	AddParticipant(ctx context.Context, participant *model.SessionParticipant) error
}

type MessageStore interface {
	ListBySessionID(ctx context.Context, sessionID string) ([]model.Message, error)
}

type ReflectionStore interface {
	Create(ctx context.Context, reflection *model.Reflection) error
	ListByUserID(ctx context.Context, userID string) ([]model.Reflection, error)
}

type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, sessionID string, messages []model.Message) error
	Invalidate(ctx context.Context, sessionID string) error
	IsDirty(ctx context.Context, sessionID string) (bool, error)
}

// resolveCaller maps the authenticated identity onto its directory row.
// It never provisions the user.
func resolveCaller(ctx context.Context, users UserStore, caller *identity.Identity) (*model.User, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	user, err := users.GetByExternalID(ctx, caller.ExternalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
