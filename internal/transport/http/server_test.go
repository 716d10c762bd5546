package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"mediaitor/internal/app"
	"mediaitor/internal/config"
	"mediaitor/internal/identity"
	"mediaitor/internal/model"
	"mediaitor/internal/pkg/jwtutil"
	"mediaitor/internal/repository/memory"
	httptransport "mediaitor/internal/transport/http"
	"mediaitor/internal/transport/http/response"
)

const testSecret = "test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type directPublisher struct {
	messages *memory.MessageRepository
}

func (p directPublisher) Publish(ctx context.Context, msg model.Message) error {
	return p.messages.Create(ctx, &msg)
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	services := httptransport.Services{
		Users:       app.NewUserService(store.Users(), nil),
		Sessions:    app.NewSessionService(store.Users(), store.Sessions(), store.Messages(), directPublisher{messages: store.Messages()}, nil, nil),
		Reflections: app.NewReflectionService(store.Users(), store.Reflections(), nil),
	}
	return httptransport.NewEngine(config.AuthConfig{JWTSecret: testSecret}, services)
}

func tokenFor(t *testing.T, externalID string, withEmail bool) string {
	t.Helper()

	id := identity.Identity{ExternalID: externalID, FirstName: externalID}
	if withEmail {
		id.PrimaryEmailAddressID = "em_1"
		id.EmailAddresses = []identity.EmailAddress{{ID: "em_1", EmailAddress: externalID + "@example.com"}}
	}
	token, err := jwtutil.GenerateToken(testSecret, "", time.Hour, id)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return token
}

func call(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func TestGetCurrentUserIsOptional(t *testing.T) {
	engine := newTestEngine(t)

	status, env := call(t, engine, http.MethodGet, "/api/v1/user.getCurrentUser", "", nil)
	if status != http.StatusOK || string(env.Data) != "null" {
		t.Fatalf("anonymous: expected 200 with null, got %d %s", status, env.Data)
	}

	status, env = call(t, engine, http.MethodGet, "/api/v1/user.getCurrentUser", "garbage", nil)
	if status != http.StatusOK || string(env.Data) != "null" {
		t.Fatalf("invalid token: expected 200 with null, got %d %s", status, env.Data)
	}
}

func TestProtectedProceduresRequireIdentity(t *testing.T) {
	engine := newTestEngine(t)

	for _, path := range []string{"/api/v1/user.syncCurrentUser", "/api/v1/session.createSession"} {
		status, env := call(t, engine, http.MethodPost, path, "", nil)
		if status != http.StatusUnauthorized || env.Code != response.CodeUnauthorized {
			t.Fatalf("%s: expected 401, got %d (%d)", path, status, env.Code)
		}
	}
}

func TestSyncWithoutPrimaryEmail(t *testing.T) {
	engine := newTestEngine(t)

	status, env := call(t, engine, http.MethodPost, "/api/v1/user.syncCurrentUser", tokenFor(t, "noemail", false), nil)
	if status != http.StatusBadRequest || env.Code != response.CodeNoPrimaryEmail {
		t.Fatalf("expected 400/%d, got %d/%d", response.CodeNoPrimaryEmail, status, env.Code)
	}
}

func TestSessionProcedures(t *testing.T) {
	engine := newTestEngine(t)
	alice := tokenFor(t, "alice", true)
	bob := tokenFor(t, "bob", true)
	carol := tokenFor(t, "carol", true)
	mallory := tokenFor(t, "mallory", true)

	var sync app.SyncResult
	for i, want := range []app.SyncStatus{app.SyncStatusCreated, app.SyncStatusExisting} {
		status, env := call(t, engine, http.MethodPost, "/api/v1/user.syncCurrentUser", alice, nil)
		if status != http.StatusOK {
			t.Fatalf("sync #%d: expected 200, got %d (%s)", i+1, status, env.Message)
		}
		if err := json.Unmarshal(env.Data, &sync); err != nil {
			t.Fatalf("decode sync: %v", err)
		}
		if sync.Status != want {
			t.Fatalf("sync #%d: expected %s, got %s", i+1, want, sync.Status)
		}
	}
	for _, token := range []string{bob, mallory} {
		if status, env := call(t, engine, http.MethodPost, "/api/v1/user.syncCurrentUser", token, nil); status != http.StatusOK {
			t.Fatalf("sync failed: %d %s", status, env.Message)
		}
	}

	status, env := call(t, engine, http.MethodPost, "/api/v1/session.createSession", alice, nil)
	if status != http.StatusOK {
		t.Fatalf("createSession: expected 200, got %d (%s)", status, env.Message)
	}
	var created app.CreateSessionResult
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode createSession: %v", err)
	}
	if created.URL != "/session/"+created.SessionID {
		t.Fatalf("unexpected url %q", created.URL)
	}

	join := map[string]string{"sessionId": created.SessionID}
	status, env = call(t, engine, http.MethodPost, "/api/v1/session.joinSession", bob, join)
	if status != http.StatusOK {
		t.Fatalf("joinSession: expected 200, got %d (%s)", status, env.Message)
	}
	var joined app.JoinSessionResult
	if err := json.Unmarshal(env.Data, &joined); err != nil {
		t.Fatalf("decode joinSession: %v", err)
	}
	if joined.SessionURL != "/session/"+created.SessionID {
		t.Fatalf("unexpected sessionURL %q", joined.SessionURL)
	}

	status, env = call(t, engine, http.MethodPost, "/api/v1/session.joinSession", bob, join)
	if status != http.StatusForbidden || env.Code != response.CodeAlreadyParticipant {
		t.Fatalf("second join: expected 403/%d, got %d/%d", response.CodeAlreadyParticipant, status, env.Code)
	}

	getPath := "/api/v1/session.getSession?sessionId=" + created.SessionID
	status, env = call(t, engine, http.MethodGet, getPath, carol, nil)
	if status != http.StatusNotFound || env.Code != response.CodeUserNotFound {
		t.Fatalf("unsynced getSession: expected 404/%d, got %d/%d", response.CodeUserNotFound, status, env.Code)
	}

	status, env = call(t, engine, http.MethodGet, getPath, mallory, nil)
	if status != http.StatusForbidden || env.Code != response.CodeNotParticipant {
		t.Fatalf("outsider getSession: expected 403/%d, got %d/%d", response.CodeNotParticipant, status, env.Code)
	}

	status, env = call(t, engine, http.MethodGet, "/api/v1/session.getSession?sessionId=nope", alice, nil)
	if status != http.StatusNotFound || env.Code != response.CodeSessionNotFound {
		t.Fatalf("unknown session: expected 404/%d, got %d/%d", response.CodeSessionNotFound, status, env.Code)
	}

	status, _ = call(t, engine, http.MethodGet, "/api/v1/session.getSession", alice, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("missing sessionId: expected 400, got %d", status)
	}

	status, env = call(t, engine, http.MethodPost, "/api/v1/session.sendMessage", bob, map[string]string{
		"sessionId": created.SessionID,
		"content":   "hello from bob",
	})
	if status != http.StatusOK {
		t.Fatalf("sendMessage: expected 200, got %d (%s)", status, env.Message)
	}

	status, env = call(t, engine, http.MethodGet, getPath, alice, nil)
	if status != http.StatusOK {
		t.Fatalf("getSession: expected 200, got %d (%s)", status, env.Message)
	}
	var session model.Session
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if len(session.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(session.Participants))
	}
	if len(session.Messages) != 1 || session.Messages[0].Content != "hello from bob" {
		t.Fatalf("expected bob's message, got %+v", session.Messages)
	}
	if session.Stage != model.StageMain {
		t.Fatalf("expected MAIN stage, got %s", session.Stage)
	}
}

func TestReflectionProcedures(t *testing.T) {
	engine := newTestEngine(t)
	alice := tokenFor(t, "alice", true)
	if status, env := call(t, engine, http.MethodPost, "/api/v1/user.syncCurrentUser", alice, nil); status != http.StatusOK {
		t.Fatalf("sync failed: %d %s", status, env.Message)
	}

	status, env := call(t, engine, http.MethodPost, "/api/v1/reflection.createReflection", alice, map[string]string{"content": "  "})
	if status != http.StatusBadRequest || env.Code != response.CodeEmptyContent {
		t.Fatalf("blank reflection: expected 400/%d, got %d/%d", response.CodeEmptyContent, status, env.Code)
	}

	status, env = call(t, engine, http.MethodPost, "/api/v1/reflection.createReflection", alice, map[string]string{"content": "felt heard"})
	if status != http.StatusOK {
		t.Fatalf("createReflection: expected 200, got %d (%s)", status, env.Message)
	}

	status, env = call(t, engine, http.MethodGet, "/api/v1/reflection.listReflections", alice, nil)
	if status != http.StatusOK {
		t.Fatalf("listReflections: expected 200, got %d (%s)", status, env.Message)
	}
	var notes []model.Reflection
	if err := json.Unmarshal(env.Data, &notes); err != nil {
		t.Fatalf("decode reflections: %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "felt heard" {
		t.Fatalf("unexpected reflections %+v", notes)
	}
}
