package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfeed/core/internal/domain/entities"
	"github.com/microfeed/core/internal/infrastructure/config"
	"github.com/microfeed/core/internal/infrastructure/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "MicroFeed", Environment: "test"},
		Server: config.ServerConfig{
			Port:      8080,
			Host:      "127.0.0.1",
			BodyLimit: "2M",
		},
		Storage: config.StorageConfig{DataDir: t.TempDir(), Pretty: true},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: "*",
			RateLimitRequests:  1000,
			RateLimitWindow:    time.Minute,
			BcryptCost:         4,
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}

	srv, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, target string, body string, identity *entities.Identity) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echoHeaderContentType, "application/json")
	if identity != nil {
		req.Header.Set("X-User-ID", identity.UserID.String())
		req.Header.Set("X-Username", identity.Username)
	}

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func registerUser(t *testing.T, srv *Server, username, password string) entities.Identity {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register",
		fmt.Sprintf(`{"username":%q,"password":%q}`, username, password), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user entities.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return entities.Identity{UserID: user.ID, Username: user.Username}
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)

	alice := registerUser(t, srv, "alice", "pw1")

	t.Run("response never carries the hash", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"pw1"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")

		var user entities.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, alice.UserID, user.ID)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", `{"username":"alice","password":"other"}`, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("wrong password and unknown user look alike", func(t *testing.T) {
		wrong := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"nope"}`, nil)
		unknown := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", `{"username":"mallory","password":"pw1"}`, nil)

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", `{"username":"bob"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFeedScenario(t *testing.T) {
	srv := newTestServer(t)

	alice := registerUser(t, srv, "alice", "pw1")
	bob := registerUser(t, srv, "bob", "pw2")

	// Alice posts.
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/posts", `{"content":"hi"}`, &alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var post entities.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, alice.UserID, post.UserID)
	assert.Empty(t, post.LikedBy)
	assert.Empty(t, post.DislikedBy)
	assert.Empty(t, post.Comments)

	// The feed shows it.
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []entities.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)

	// Bob likes it.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/posts/"+post.ID.String()+"/like", "", &bob)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Len(t, post.LikedBy, 1)

	// Disliking while the like is active is rejected, nothing changes.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/posts/"+post.ID.String()+"/dislike", "", &bob)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/posts", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Len(t, feed[0].LikedBy, 1)
	assert.Empty(t, feed[0].DislikedBy)

	// A second like returns to neutral.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/posts/"+post.ID.String()+"/like", "", &bob)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Empty(t, post.LikedBy)

	// Bob comments.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/posts/"+post.ID.String()+"/comments", `{"text":"nice"}`, &bob)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Bob cannot delete Alice's post.
	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/posts/"+post.ID.String(), "", &bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Bob has nothing to clear.
	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/posts", "", &bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Alice deletes her post.
	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/posts/"+post.ID.String(), "", &alice)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/posts", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Empty(t, feed)
}

func TestIdentityRequiredOnMutations(t *testing.T) {
	srv := newTestServer(t)

	t.Run("missing headers", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/posts", `{"content":"hi"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(`{"content":"hi"}`))
		req.Header.Set(echoHeaderContentType, "application/json")
		req.Header.Set("X-User-ID", "not-a-uuid")
		req.Header.Set("X-Username", "alice")

		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCreatePostRejectsEmptyPayload(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "alice", "pw1")

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/posts", `{"content":"  "}`, &alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownPostIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "alice", "pw1")

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/posts/7b3f3f1a-0000-0000-0000-000000000000/like", "", &alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/posts/not-a-uuid/like", "", &alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
