package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mediaitor/internal/app"
	"mediaitor/internal/identity"
	"mediaitor/internal/model"
	"mediaitor/internal/repository/memory"
)

type harness struct {
	store       *memory.Store
	users       *app.UserService
	sessions    *app.SessionService
	reflections *app.ReflectionService
	publisher   *syncPublisher
	cache       *fakeHistoryCache
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	publisher := &syncPublisher{messages: store.Messages()}
	historyCache := newFakeHistoryCache()
	return &harness{
		store:       store,
		users:       app.NewUserService(store.Users(), nil),
		sessions:    app.NewSessionService(store.Users(), store.Sessions(), store.Messages(), publisher, historyCache, nil),
		reflections: app.NewReflectionService(store.Users(), store.Reflections(), nil),
		publisher:   publisher,
		cache:       historyCache,
	}
}

// synced returns an identity that already exists in the user directory.
func (h *harness) synced(t *testing.T, externalID, email string) *identity.Identity {
	t.Helper()

	caller := newIdentity(externalID, email)
	if _, err := h.users.SyncCurrentUser(context.Background(), caller); err != nil {
		t.Fatalf("SyncCurrentUser(%s) failed: %v", externalID, err)
	}
	return caller
}

func newIdentity(externalID, email string) *identity.Identity {
	return &identity.Identity{
		ExternalID:            externalID,
		PrimaryEmailAddressID: "em_" + externalID,
		EmailAddresses: []identity.EmailAddress{
			{ID: "em_" + externalID, EmailAddress: email},
		},
		FirstName: "Test",
		LastName:  externalID,
	}
}

func assertKind(t *testing.T, err error, want app.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := app.KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s (%v)", want, got, err)
	}
}

// syncPublisher persists immediately, standing in for queue plus worker.
type syncPublisher struct {
	mu       sync.Mutex
	messages *memory.MessageRepository
	sent     []model.Message
	fail     error
}

func (p *syncPublisher) Publish(ctx context.Context, msg model.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.sent = append(p.sent, msg)
	return p.messages.Create(ctx, &msg)
}

type fakeHistoryCache struct {
	mu      sync.Mutex
	history map[string][]model.Message
	dirty   map[string]bool
	sets    int
}

func newFakeHistoryCache() *fakeHistoryCache {
	return &fakeHistoryCache{
		history: make(map[string][]model.Message),
		dirty:   make(map[string]bool),
	}
}

func (c *fakeHistoryCache) GetHistory(_ context.Context, sessionID string) ([]model.Message, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	messages, ok := c.history[sessionID]
	return messages, ok, nil
}

func (c *fakeHistoryCache) SetHistory(_ context.Context, sessionID string, messages []model.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history[sessionID] = messages
	c.sets++
	return nil
}

func (c *fakeHistoryCache) Invalidate(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty[sessionID] = true
	delete(c.history, sessionID)
	return nil
}

func (c *fakeHistoryCache) IsDirty(_ context.Context, sessionID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty[sessionID], nil
}

func (c *fakeHistoryCache) clean(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.dirty, sessionID)
}

// brokenUserStore fails every call with a storage error.
type brokenUserStore struct{}

var errStorageDown = errors.New("connection refused")

func (brokenUserStore) Create(context.Context, *model.User) error { return errStorageDown }

func (brokenUserStore) GetByExternalID(context.Context, string) (*model.User, error) {
	return nil, errStorageDown
}
