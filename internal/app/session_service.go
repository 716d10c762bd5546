package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"mediaitor/internal/identity"
	"mediaitor/internal/model"
	"mediaitor/internal/repository"
)

type SessionService struct {
	users        UserStore
	sessions     SessionStore
	messages     MessageStore
	publisher    AsyncMessagePublisher
	historyCache HistoryCache
	log          *zap.Logger
	clock        func() time.Time
}

type CreateSessionResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type JoinSessionResult struct {
	SessionID  string `json:"sessionId"`
	SessionURL string `json:"sessionURL"`
}

type SendMessageInput struct {
	SessionID string
	Content   string
}

func NewSessionService(
	users UserStore,
	sessions SessionStore,
	messages MessageStore,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	log *zap.Logger,
) *SessionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionService{
		users:        users,
		sessions:     sessions,
		messages:     messages,
		publisher:    publisher,
		historyCache: historyCache,
		log:          log,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession opens a multi-user MAIN-stage session with the caller as its
// only participant.
func (s *SessionService) CreateSession(ctx context.Context, caller *identity.Identity) (result *CreateSessionResult, err error) {
	defer finish(s.log, "session.createSession", "failed to create session", &err)

	user, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		IsSolo: false,
		Stage:  model.StageMain,
	}
	if err := s.sessions.CreateWithCreator(ctx, session, user.ID); err != nil {
		return nil, err
	}

	s.log.Info("session created", zap.String("session_id", session.ID), zap.String("user_id", user.ID))
	return &CreateSessionResult{
		SessionID: session.ID,
		URL:       model.SessionPath(session.ID),
	}, nil
}

// GetSession returns the session with its roster and its messages in
// ascending creation order. Only participants may read it.
func (s *SessionService) GetSession(ctx context.Context, caller *identity.Identity, sessionID string) (session *model.Session, err error) {
	defer finish(s.log, "session.getSession", "failed to get session", &err)

	user, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	session, err = s.sessions.GetWithParticipants(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.HasParticipant(user.ID) {
		return nil, ErrNotParticipant
	}

	messages, err := s.loadHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Messages = messages
	return session, nil
}

// JoinSession enrolls the caller as an ACTIVE participant. Any existing
// participation row, whatever its status, makes the join forbidden.
func (s *SessionService) JoinSession(ctx context.Context, caller *identity.Identity, sessionID string) (result *JoinSessionResult, err error) {
	defer finish(s.log, "session.joinSession", "failed to join session", &err)

	user, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetWithParticipant(ctx, sessionID, user.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if len(session.Participants) > 0 {
		return nil, ErrAlreadyParticipant
	}

	participant := &model.SessionParticipant{
		SessionID: sessionID,
		UserID:    user.ID,
		Status:    model.ParticipantActive,
	}
	if err := s.sessions.AddParticipant(ctx, participant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyParticipant
		}
		return nil, err
	}

	s.log.Info("session joined", zap.String("session_id", sessionID), zap.String("user_id", user.ID))
	return &JoinSessionResult{
		SessionID:  sessionID,
		SessionURL: model.SessionPath(sessionID),
	}, nil
}

// SendMessage queues a participant's message for persistence and returns it.
// The session history cache is invalidated before the message is handed off.
func (s *SessionService) SendMessage(ctx context.Context, caller *identity.Identity, input SendMessageInput) (message *model.Message, err error) {
	defer finish(s.log, "session.sendMessage", "failed to send message", &err)

	user, err := resolveCaller(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetWithParticipant(ctx, input.SessionID, user.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if len(session.Participants) == 0 {
		return nil, ErrNotParticipant
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	if s.publisher == nil {
		return nil, errors.New("message publisher is not configured")
	}

	authorID := user.ID
	message = &model.Message{
		ID:        model.NewID(),
		SessionID: input.SessionID,
		UserID:    &authorID,
		Content:   content,
		IsAI:      false,
		CreatedAt: s.clock(),
	}
	if s.historyCache != nil {
		if cacheErr := s.historyCache.Invalidate(ctx, input.SessionID); cacheErr != nil {
			s.log.Warn("invalidate history cache failed", zap.String("session_id", input.SessionID), zap.Error(cacheErr))
		}
	}
	if err := s.publisher.Publish(ctx, *message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *SessionService) loadHistory(ctx context.Context, sessionID string) ([]model.Message, error) {
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, sessionID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, sessionID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messages.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, sessionID); dirtyErr == nil && !dirty {
			if setErr := s.historyCache.SetHistory(ctx, sessionID, messages); setErr != nil {
				s.log.Debug("fill history cache failed", zap.String("session_id", sessionID), zap.Error(setErr))
			}
		}
	}
	return messages, nil
}
