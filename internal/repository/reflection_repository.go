package repository

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"mediaitor/internal/model"
)

type ReflectionRepository struct {
	db *gorm.DB
}

func NewReflectionRepository(db *gorm.DB) *ReflectionRepository {
	return &ReflectionRepository{db: db}
}

func (r *ReflectionRepository) Create(ctx context.Context, reflection *model.Reflection) error {
	if err := r.db.WithContext(ctx).Create(reflection).Error; err != nil {
		return pkgerrors.Wrap(err, "create reflection failed")
	}
	return nil
}

func (r *ReflectionRepository) ListByUserID(ctx context.Context, userID string) ([]model.Reflection, error) {
	var reflections []model.Reflection
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&reflections).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list reflections failed")
	}
	return reflections, nil
}
