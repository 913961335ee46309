package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"stillhouse/pkg/jwt"
	"stillhouse/pkg/realtime"
	"stillhouse/pkg/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	app      *fiber.App
	tokens   jwt.JWTService
	denylist jwt.Denylist
	sessions *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	f := &fixture{
		app:      fiber.New(),
		tokens:   jwt.NewJWTService(),
		denylist: jwt.NewMemoryDenylist(),
		sessions: session.NewManager(realtime.NewBroker(nil, nil), nil),
	}
	m := NewMiddleware(f.denylist, f.sessions, zap.NewNop())
	f.app.Get("/me", m.AuthMiddleware(f.tokens), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    c.Locals("user_id"),
			"session_id": c.Locals("session_id"),
		})
	})
	return f
}

func (f *fixture) get(t *testing.T, target, auth string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestAuthMiddlewareAcceptsBearer(t *testing.T) {
	f := newFixture(t)
	token, sid := f.tokens.GenerateTokenUser("u1", "user")

	status, body := f.get(t, "/me", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, sid, body["session_id"])

	_, open := f.sessions.Get(sid)
	assert.True(t, open, "first authenticated request opens the session")
}

func TestAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	f := newFixture(t)
	token, _ := f.tokens.GenerateTokenUser("u1", "user")

	status, _ := f.get(t, "/me?token="+token, "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	f := newFixture(t)
	token, sid := f.tokens.GenerateTokenUser("u1", "user")
	require.NoError(t, f.denylist.Revoke(context.Background(), sid, time.Now().Add(time.Hour)))

	tests := []struct {
		name string
		auth string
		err  string
	}{
		{"missing", "", "token invalid"},
		{"wrong scheme", "Basic " + token, "token invalid"},
		{"garbage", "Bearer abc.def.ghi", "token invalid"},
		{"revoked", "Bearer " + token, "token has been revoked"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := f.get(t, "/me", tc.auth)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, false, body["status"])
			assert.Equal(t, tc.err, body["error"])
		})
	}
}
