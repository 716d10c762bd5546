package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mediaitor/internal/identity"
	"mediaitor/internal/model"
)

type ReflectionService struct {
	users       UserStore
	reflections ReflectionStore
	log         *zap.Logger
}

func NewReflectionService(users UserStore, reflections ReflectionStore, log *zap.Logger) *ReflectionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReflectionService{users: users, reflections: reflections, log: log}
}

func (s *ReflectionService) CreateReflection(ctx context.Context, caller *identity.Identity, content string) (reflection *model.Reflection, err error) {
	defer finish(s.log, "reflection.createReflection", "failed to create reflection", &err)

	user, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	reflection = &model.Reflection{
		UserID:  user.ID,
		Content: content,
	}
	if err := s.reflections.Create(ctx, reflection); err != nil {
		return nil, err
	}
	return reflection, nil
}

// ListReflections returns the caller's notes, newest first.
func (s *ReflectionService) ListReflections(ctx context.Context, caller *identity.Identity) (reflections []model.Reflection, err error) {
	defer finish(s.log, "reflection.listReflections", "failed to list reflections", &err)

	user, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}
	return s.reflections.ListByUserID(ctx, user.ID)
}
