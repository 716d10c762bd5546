package repository

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mediaitor/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts message; a row with the same id is left untouched so
// redelivered messages persist once.
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(message).Error
	if err != nil {
		return pkgerrors.Wrap(err, "create message failed")
	}
	return nil
}

func (r *MessageRepository) ListBySessionID(ctx context.Context, sessionID string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list messages failed")
	}
	return messages, nil
}
