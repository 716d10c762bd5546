package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"mediaitor/internal/identity"
	"mediaitor/internal/model"
	"mediaitor/internal/repository"
)

type SyncStatus string

const (
	SyncStatusExisting SyncStatus = "existing"
	SyncStatusCreated  SyncStatus = "created"
)

type SyncResult struct {
	Status SyncStatus  `json:"status"`
	User   *model.User `json:"user"`
}

type UserService struct {
	users UserStore
	log   *zap.Logger
}

func NewUserService(users UserStore, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, log: log}
}

// SyncCurrentUser provisions the caller in the user directory on first call
// and is a pure lookup afterwards.
func (s *UserService) SyncCurrentUser(ctx context.Context, caller *identity.Identity) (result *SyncResult, err error) {
	defer finish(s.log, "user.syncCurrentUser", "failed to sync user", &err)

	if caller == nil {
		return nil, ErrUnauthenticated
	}

	existing, err := s.users.GetByExternalID(ctx, caller.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &SyncResult{Status: SyncStatusExisting, User: existing}, nil
	}

	email, ok := caller.PrimaryEmail()
	if !ok {
		return nil, ErrNoPrimaryEmail
	}

	user := &model.User{
		ExternalID: caller.ExternalID,
		Email:      email,
		Name:       caller.DisplayName(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		// Either a concurrent first sync for the same identity won, or the
		// email belongs to someone else.
		winner, lookupErr := s.users.GetByExternalID(ctx, caller.ExternalID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if winner != nil {
			return &SyncResult{Status: SyncStatusExisting, User: winner}, nil
		}
		s.log.Warn("user sync email conflict", zap.String("external_id", caller.ExternalID))
		return nil, ErrEmailConflict
	}

	s.log.Info("user created", zap.String("user_id", user.ID), zap.String("external_id", user.ExternalID))
	return &SyncResult{Status: SyncStatusCreated, User: user}, nil
}

// GetCurrentUser returns the caller's directory row, or nil when the caller is
// anonymous or not synced yet.
func (s *UserService) GetCurrentUser(ctx context.Context, caller *identity.Identity) (user *model.User, err error) {
	defer finish(s.log, "user.getCurrentUser", "failed to get current user", &err)

	if caller == nil {
		return nil, nil
	}
	return s.users.GetByExternalID(ctx, caller.ExternalID)
}
