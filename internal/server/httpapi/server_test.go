package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pr-poehali-dev/onlimess/internal/server/auth"
	"github.com/pr-poehali-dev/onlimess/internal/server/contacts"
	"github.com/pr-poehali-dev/onlimess/internal/server/messages"
	"github.com/pr-poehali-dev/onlimess/internal/server/users"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	secret := []byte("test-secret")
	us := users.NewService(users.NewInMemoryRepository(), auth.NewHasher(4), secret, time.Hour)
	cs := contacts.NewService(contacts.NewInMemoryRepository(), us)
	ms := messages.NewService(messages.NewInMemoryRepository())

	require.NoError(t, us.EnsureAdmin(context.Background(), "skzry", "root-pw", "admin@OnliMess", "Administrator"))

	return NewServer(zap.NewNop(), secret, us, cs, ms)
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, s *Server, username, password string) sessionResponse {
	t.Helper()
	resp := doRequest(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[sessionResponse](t, resp)
}

// setupUser creates an account as admin and walks it through first-login
// setup, returning a ready-to-use session.
func setupUser(t *testing.T, s *Server, adminToken, username, email, name string) sessionResponse {
	t.Helper()

	resp := doRequest(t, s, http.MethodPost, "/api/auth/users", adminToken, map[string]string{
		"username": username, "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	session := login(t, s, username, "pw")
	require.False(t, session.HasLoggedIn)

	resp = doRequest(t, s, http.MethodPost, "/api/auth/setup", session.AccessToken, map[string]string{
		"displayName": name, "email": email,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[sessionResponse](t, resp)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	session := login(t, s, "skzry", "root-pw")
	require.True(t, session.IsAdmin)
	require.NotEmpty(t, session.AccessToken)

	resp := doRequest(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "skzry", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	resp := doRequest(t, s, http.MethodGet, "/api/messages", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, s, http.MethodGet, "/api/messages", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFirstLoginSetup(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "skzry", "root-pw")

	resp := doRequest(t, s, http.MethodPost, "/api/auth/users", admin.AccessToken, map[string]string{
		"username": "alice", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	session := login(t, s, "alice", "pw")
	require.False(t, session.HasLoggedIn)

	resp = doRequest(t, s, http.MethodPost, "/api/auth/setup", session.AccessToken, map[string]string{
		"displayName": "Alice", "email": "alice@gmail.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, s, http.MethodPost, "/api/auth/setup", session.AccessToken, map[string]string{
		"displayName": "Alice", "email": "alice@OnliMess",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	completed := decode[sessionResponse](t, resp)
	require.True(t, completed.HasLoggedIn)
	require.Equal(t, "alice@OnliMess", completed.Email)

	// Setup is one-shot.
	resp = doRequest(t, s, http.MethodPost, "/api/auth/setup", completed.AccessToken, map[string]string{
		"displayName": "Alice2", "email": "alice2@OnliMess",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminGating(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "skzry", "root-pw")
	alice := setupUser(t, s, admin.AccessToken, "alice", "alice@OnliMess", "Alice")

	resp := doRequest(t, s, http.MethodGet, "/api/auth/users", alice.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, s, http.MethodGet, "/api/auth/users", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	roster := decode[map[string][]map[string]any](t, resp)
	require.Len(t, roster["users"], 2)
}

func TestFreezeBlocksWritesNotReads(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "skzry", "root-pw")
	alice := setupUser(t, s, admin.AccessToken, "alice", "alice@OnliMess", "Alice")

	resp := doRequest(t, s, http.MethodPost, "/api/auth/users/alice/toggle-frozen", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The freeze is visible on the very next poll.
	resp = doRequest(t, s, http.MethodGet, "/api/auth/me", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[profileResponse](t, resp)
	require.True(t, profile.IsFrozen)

	resp = doRequest(t, s, http.MethodPost, "/api/messages", alice.AccessToken, map[string]any{
		"to": "bob@OnliMess", "text": "hi", "timestamp": 100,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, s, http.MethodGet, "/api/messages", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Frozen accounts cannot start a new session either.
	resp = doRequest(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "pw",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, s, http.MethodPost, "/api/auth/users/alice/toggle-frozen", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doRequest(t, s, http.MethodGet, "/api/auth/me", alice.AccessToken, nil)
	profile = decode[profileResponse](t, resp)
	require.False(t, profile.IsFrozen)
}

func TestMessageRoundTrip(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "skzry", "root-pw")
	alice := setupUser(t, s, admin.AccessToken, "alice", "alice@OnliMess", "Alice")
	bob := setupUser(t, s, admin.AccessToken, "bob", "bob@OnliMess", "Bob")

	resp := doRequest(t, s, http.MethodPost, "/api/messages", alice.AccessToken, map[string]any{
		"to": "bob@OnliMess", "text": "hi bob", "timestamp": 100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sent := decode[messageResponse](t, resp)
	require.NotZero(t, sent.ID)
	require.Equal(t, "alice@OnliMess", sent.From)

	resp = doRequest(t, s, http.MethodGet, "/api/messages", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	inbox := decode[map[string][]messageResponse](t, resp)
	require.Len(t, inbox["messages"], 1)
	require.Equal(t, "hi bob", inbox["messages"][0].Text)

	resp = doRequest(t, s, http.MethodDelete, "/api/messages", bob.AccessToken, map[string]string{
		"contact": "alice@OnliMess",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, s, http.MethodGet, "/api/messages", alice.AccessToken, nil)
	inbox = decode[map[string][]messageResponse](t, resp)
	require.Empty(t, inbox["messages"])
}

func TestContactsFlow(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "skzry", "root-pw")
	alice := setupUser(t, s, admin.AccessToken, "alice", "alice@OnliMess", "Alice")
	setupUser(t, s, admin.AccessToken, "bob", "bob@OnliMess", "Bob")

	// An empty alias resolves to the registered display name.
	resp := doRequest(t, s, http.MethodPost, "/api/contacts", alice.AccessToken, map[string]string{
		"email": "bob@OnliMess",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, s, http.MethodGet, "/api/contacts", alice.AccessToken, nil)
	book := decode[map[string][]contactRequest](t, resp)
	require.Len(t, book["contacts"], 1)
	require.Equal(t, "Bob", book["contacts"][0].DisplayName)

	resp = doRequest(t, s, http.MethodPost, "/api/contacts", alice.AccessToken, map[string]string{
		"email": "bob@OnliMess",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, s, http.MethodPut, "/api/contacts", alice.AccessToken, map[string]string{
		"email": "bob@OnliMess", "displayName": "Bobby",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, s, http.MethodDelete, "/api/contacts", alice.AccessToken, map[string]string{
		"email": "bob@OnliMess",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, s, http.MethodGet, "/api/contacts", alice.AccessToken, nil)
	book = decode[map[string][]contactRequest](t, resp)
	require.Empty(t, book["contacts"])
}
