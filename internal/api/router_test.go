package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/muse-lab/muse-server/internal/api"
	"github.com/muse-lab/muse-server/internal/api/handler"
	"github.com/muse-lab/muse-server/internal/config"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/internal/repository"
	"github.com/muse-lab/muse-server/internal/service"
	"github.com/muse-lab/muse-server/pkg/token"
	"github.com/muse-lab/muse-server/pkg/upload"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	tm := token.NewManager("test-secret", time.Hour, "test")
	images, err := upload.NewImageStore(t.TempDir(), "/static")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	h := handler.New(handler.Services{
		Users:        service.NewUserService(db, userRepo),
		Relations:    service.NewRelationshipService(repository.NewFollowRepository(db), userRepo),
		Interactions: service.NewInteractionService(db, repository.NewLikeRepository(db), repository.NewCommentRepository(db)),
		Chats:        service.NewChatService(db, repository.NewChatRepository(db), userRepo),
		Songs:        service.NewSongService(db),
		Playlists:    service.NewPlaylistService(db),
		Notes:        service.NewNoteService(db),
		Search:       service.NewSearchService(db, nil),
	}, tm, images)

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.PublicURL = "/static"
	return api.NewRouter(cfg, h, tm, nil)
}

func doJSON(t *testing.T, srv http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, srv http.Handler, username string) (string, int64) {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login": username, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID int64 `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token, resp.Data.User.ID
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterLoginFollowFlow(t *testing.T) {
	srv := newTestServer(t)
	aliceTok, _ := registerAndLogin(t, srv, "alice")
	_, bobID := registerAndLogin(t, srv, "bob")

	w := doJSON(t, srv, http.MethodPost, "/api/v1/relations/follow", aliceTok, map[string]int64{"user_id": bobID})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Duplicate follow surfaces as a conflict.
	w = doJSON(t, srv, http.MethodPost, "/api/v1/relations/follow", aliceTok, map[string]int64{"user_id": bobID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/relations/%d/stats", bobID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"followers_count":1`)
}

func TestAuthRequiredOnProtectedRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/notes", "", map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/chats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNoteCommentFlow(t *testing.T) {
	srv := newTestServer(t)
	aliceTok, _ := registerAndLogin(t, srv, "alice")
	bobTok, _ := registerAndLogin(t, srv, "bob")

	w := doJSON(t, srv, http.MethodPost, "/api/v1/notes", aliceTok, map[string]string{"content": "first note"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var noteResp struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &noteResp))

	w = doJSON(t, srv, http.MethodPost, "/api/v1/likes", bobTok, map[string]interface{}{
		"type": "note", "target_id": noteResp.Data.ID,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodPost, "/api/v1/comments", bobTok, map[string]interface{}{
		"type": "note", "target_id": noteResp.Data.ID, "content": "nice",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodGet,
		fmt.Sprintf("/api/v1/comments?type=note&target_id=%d", noteResp.Data.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestBadRequestOnMalformedBody(t *testing.T) {
	srv := newTestServer(t)
	tok, _ := registerAndLogin(t, srv, "alice")

	w := doJSON(t, srv, http.MethodPost, "/api/v1/relations/follow", tok, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
