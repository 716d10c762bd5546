package repository

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"mediaitor/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateWithCreator inserts session and enrolls creatorID as its first ACTIVE
// participant in one transaction. On success session.Participants holds that row.
func (r *SessionRepository) CreateWithCreator(ctx context.Context, session *model.Session, creatorID string) error {
	session.Participants = nil
	var creator model.SessionParticipant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return pkgerrors.Wrap(err, "create session failed")
		}
		creator = model.SessionParticipant{
			SessionID: session.ID,
			UserID:    creatorID,
			Status:    model.ParticipantActive,
		}
		if err := tx.Create(&creator).Error; err != nil {
			return pkgerrors.Wrap(err, "create session creator participant failed")
		}
		return nil
	})
	if err != nil {
		return err
	}
	session.Participants = []model.SessionParticipant{creator}
	return nil
}

// GetWithParticipants loads the session and its full roster.
func (r *SessionRepository) GetWithParticipants(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Where("id = ?", sessionID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "get session failed")
	}
	return &session, nil
}

// GetWithParticipant loads the session with only userID's participation rows.
func (r *SessionRepository) GetWithParticipant(ctx context.Context, sessionID, userID string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Preload("Participants", "user_id = ?", userID).
		Where("id = ?", sessionID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "get session participant failed")
	}
	return &session, nil
}

// AddParticipant inserts a roster row. The (session_id, user_id) unique index
// turns a concurrent double join into ErrDuplicate.
func (r *SessionRepository) AddParticipant(ctx context.Context, participant *model.SessionParticipant) error {
	if err := r.db.WithContext(ctx).Create(participant).Error; err != nil {
		return pkgerrors.Wrap(translateCreateErr(err), "add session participant failed")
	}
	return nil
}
