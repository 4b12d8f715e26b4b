package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialnet/internal/domain"
	"socialnet/internal/service"
	"socialnet/internal/storage"
)

type testEnv struct {
	router *gin.Engine
	users  *mockUserRepo
	posts  *mockPostRepo
	hub    *service.FeedHub
	tokens *service.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	key, err := service.NewSigningKey(base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("k"), 32)))
	require.NoError(t, err)
	tokens := service.NewJWTService(key, time.Hour)

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	users := newMockUserRepo()
	posts := newMockPostRepo()
	images := newMockImageRepo()
	friendships := newMockFriendshipRepo()
	hub := service.NewFeedHub(0)
	t.Cleanup(hub.Close)

	authSvc := service.NewAuthService(logger, users, service.NewMemoryLoginRateLimiter(time.Minute, 100))
	userSvc := service.NewUserService(logger, users, images, hub)
	postSvc := service.NewPostService(logger, posts, users, images, hub)
	commentSvc := service.NewCommentService(newMockCommentRepo(), posts, users)
	friendSvc := service.NewFriendshipService(friendships, users)
	messageSvc := service.NewMessageService(&mockMessageRepo{}, users, friendSvc)
	imageSvc := service.NewImageService(logger, images, store, 1<<20, 0, 32)

	router := NewRouter(logger, IdentityMiddleware(logger, tokens, userSvc), Handlers{
		Auth:     NewAuthHandler(logger, authSvc, tokens),
		Users:    NewUserHandler(logger, userSvc, postSvc),
		Posts:    NewPostHandler(logger, postSvc, commentSvc, 50),
		Friends:  NewFriendHandler(logger, friendSvc),
		Messages: NewMessageHandler(logger, messageSvc),
		Images:   NewImageHandler(logger, imageSvc),
		Events:   NewEventsHandler(logger, hub, time.Minute),
	})

	return &testEnv{
		router: router,
		users:  users,
		posts:  posts,
		hub:    hub,
		tokens: tokens,
	}
}

// register crea un usuario via API y devuelve el usuario y su token.
func (e *testEnv) register(t *testing.T, username string) (domain.User, string) {
	t.Helper()
	rec := performRequest(e.router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": "secret-" + username,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User, resp.Token
}

func performRequest(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}
