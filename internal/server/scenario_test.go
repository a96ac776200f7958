// ABOUTME: Full-stack scenario test against a real SQLite database
// ABOUTME: Covers register, login, task assignment, and access control together

package server

import (
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/store"
)

// newSQLiteServer wires the handler chain onto a real store in a temp
// directory, the same construction the serve command performs.
func newSQLiteServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{HTTPAddr: "127.0.0.1:0"},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "taskhive.db")},
		Auth: config.AuthConfig{
			JWTSecret: "test-secret-key-for-jwt-signing!",
			TokenTTL:  time.Hour,
		},
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)
	authSvc := auth.NewService(st, verifier, cfg.Auth.TokenTTL, nil)

	srv := New(cfg, st, authSvc, verifier, nil)
	return &testServer{handler: srv.Handler()}
}

func TestScenario_FullLifecycleWithSQLite(t *testing.T) {
	ts := newSQLiteServer(t)

	// Admin and two users
	ts.register(t, "root", "root@example.com", "secret1", "ADMIN")
	ts.register(t, "alice", "alice@example.com", "secret1", "")
	ts.register(t, "bob", "bob@example.com", "secret1", "")

	adminToken := ts.login(t, "root", "secret1")
	aliceToken := ts.login(t, "alice", "secret1")
	bobToken := ts.login(t, "bob", "secret1")

	// Find alice's id through the admin API
	rec := ts.do(t, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var aliceID float64
	for _, u := range decodeResponse(t, rec).Data.([]any) {
		user := u.(map[string]any)
		if user["username"] == "alice" {
			aliceID = user["id"].(float64)
		}
	}
	require.NotZero(t, aliceID)

	// Admin assigns alice a task
	rec = ts.do(t, http.MethodPost, "/api/tasks?user_id="+itoa(aliceID), adminToken, map[string]any{
		"title":       "review PR",
		"description": "the big one",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	taskID := decodeResponse(t, rec).Data.(map[string]any)["id"].(float64)

	taskPath := "/api/tasks/" + itoa(taskID)

	// Alice reads her task; bob is denied
	rec = ts.do(t, http.MethodGet, taskPath, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, taskPath, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Alice cannot mutate, not even her own task
	rec = ts.do(t, http.MethodPut, taskPath, aliceToken, map[string]any{"title": "done now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin completes it
	rec = ts.do(t, http.MethodPut, taskPath, adminToken, map[string]any{
		"title":     "review PR",
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The completion shows up in alice's paged view
	rec = ts.do(t, http.MethodGet, "/api/tasks/paged?status=completed", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec).Data.(map[string]any)
	assert.Len(t, data["tasks"].([]any), 1)

	// Deleting alice cascades to her tasks
	rec = ts.do(t, http.MethodDelete, "/api/users/"+itoa(aliceID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, taskPath, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Alice's token now resolves to anonymous: 401, not 500
	rec = ts.do(t, http.MethodGet, "/api/tasks", aliceToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func itoa(f float64) string {
	return strconv.FormatInt(int64(f), 10)
}
