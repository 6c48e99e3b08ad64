package casekeeper_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/casekeeper/casekeeper/pkg/casekeeper"
	"github.com/casekeeper/casekeeper/pkg/client"
	"github.com/casekeeper/casekeeper/pkg/models"
	"github.com/casekeeper/casekeeper/pkg/store/memory"
)

// testClock is a mutable clock shared by the app under test, so tests can
// cross token and share link expiry boundaries without sleeping.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	app    *casekeeper.App
	server *httptest.Server
	clock  *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	config := &casekeeper.Config{
		JWTSecret: "test-secret",
		TokenTTL:  24 * time.Hour,
		InMemory:  true,
	}
	app, err := casekeeper.NewWithStore(config, memory.NewMemoryStore(), zerolog.New(io.Discard))
	require.NoError(t, err)

	clock := newTestClock()
	app.WithClock(clock.Now)

	server := httptest.NewServer(app.Router())
	t.Cleanup(server.Close)

	return &testEnv{app: app, server: server, clock: clock}
}

func (e *testEnv) client() *client.Client {
	return client.NewClient(e.server.URL)
}

// register creates an account and returns an authenticated client.
func (e *testEnv) register(t *testing.T, email, password, name string) (*client.Client, *models.User) {
	t.Helper()
	c := e.client()
	auth, err := c.Register(context.Background(), client.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: name,
	})
	require.NoError(t, err)
	return c, auth.User
}

// get performs a raw GET with an optional bearer token and returns status
// and decoded error body.
func (e *testEnv) get(t *testing.T, path, token string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestRegisterAndMe(t *testing.T) {
	env := newTestEnv(t)
	c, user := env.register(t, "alice@example.com", "s3cure-pass", "Alice Smith")

	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "Alice Smith", user.FullName)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.client().Register(ctx, client.RegisterRequest{
		Email: "no-at-sign", Password: "long-enough", FullName: "X",
	})
	require.ErrorContains(t, err, "status=400")

	_, err = env.client().Register(ctx, client.RegisterRequest{
		Email: "short@example.com", Password: "short", FullName: "X",
	})
	require.ErrorContains(t, err, "status=400")

	_, err = env.client().Register(ctx, client.RegisterRequest{
		Email: "noname@example.com", Password: "long-enough",
	})
	require.ErrorContains(t, err, "status=400")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "s3cure-pass", "Alice")

	_, err := env.client().Register(context.Background(), client.RegisterRequest{
		Email: "alice@example.com", Password: "another-pass", FullName: "Alice Again",
	})
	require.ErrorContains(t, err, "status=400")
	require.ErrorContains(t, err, "already registered")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "s3cure-pass", "Alice")

	c := env.client()
	auth, err := c.Login(context.Background(), "alice@example.com", "s3cure-pass")
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", me.Email)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	_, err1 := env.client().Login(ctx, "alice@example.com", "wrong-pass")
	require.ErrorContains(t, err1, "status=401")
	require.ErrorContains(t, err1, "invalid email or password")

	_, err2 := env.client().Login(ctx, "nobody@example.com", "whatever-pass")
	require.ErrorContains(t, err2, "status=401")
	require.ErrorContains(t, err2, "invalid email or password")
}

func TestAuthGateRejections(t *testing.T) {
	env := newTestEnv(t)

	// No token at all.
	status, body := env.get(t, "/api/auth/me", "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "missing authorization token", body["error"])

	// Garbage token.
	status, body = env.get(t, "/api/auth/me", "garbage")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid token", body["error"])

	// Token signed with a different secret.
	otherApp, err := casekeeper.NewWithStore(&casekeeper.Config{JWTSecret: "other-secret"},
		memory.NewMemoryStore(), zerolog.New(io.Discard))
	require.NoError(t, err)
	foreign, err := otherApp.Tokens().Issue(models.NewUserID())
	require.NoError(t, err)
	status, body = env.get(t, "/api/auth/me", foreign)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid token", body["error"])
}

func TestAuthGateExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.client()
	auth, err := c.Register(ctx, client.RegisterRequest{
		Email: "alice@example.com", Password: "s3cure-pass", FullName: "Alice",
	})
	require.NoError(t, err)

	// Just inside the window.
	env.clock.Advance(24*time.Hour - time.Second)
	status, _ := env.get(t, "/api/auth/me", auth.Token)
	require.Equal(t, http.StatusOK, status)

	// At exactly issued-at + TTL the token is expired.
	env.clock.Advance(time.Second)
	status, body := env.get(t, "/api/auth/me", auth.Token)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "token expired", body["error"])
}

func TestAuthGateTokenForUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	// Valid signature, but no such account in the store.
	token, err := env.app.Tokens().Issue(models.NewUserID())
	require.NoError(t, err)

	status, body := env.get(t, "/api/auth/me", token)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "user not found", body["error"])
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/health", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "healthy", body["status"])
}
