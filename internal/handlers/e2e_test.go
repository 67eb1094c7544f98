package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkurilov/postboard/internal/auth"
	"github.com/dkurilov/postboard/internal/handlers"
	"github.com/dkurilov/postboard/internal/middleware"
	"github.com/dkurilov/postboard/internal/storage/sqlite"
	"github.com/dkurilov/postboard/internal/token"
	"github.com/dkurilov/postboard/pkg/api"
)

// newTestServer собирает полный стек приложения поверх SQLite:
// хранилище, auth сервис, handlers, middleware и маршруты —
// так же, как это делает cmd/server
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	codec := token.NewCodec(token.Config{
		AccessSecret:  []byte("e2e-access-secret"),
		RefreshSecret: []byte("e2e-refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})

	authService := auth.NewService(logger, store, codec)

	authHandler := handlers.NewAuthHandler(logger, authService)
	postsHandler := handlers.NewPostsHandler(logger, store)
	usersHandler := handlers.NewUsersHandler(logger, store)

	authGate := middleware.AuthMiddleware(logger, codec)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/v1/posts", authGate(http.HandlerFunc(postsHandler.List)))
	mux.Handle("POST /api/v1/posts", authGate(http.HandlerFunc(postsHandler.Create)))
	mux.Handle("GET /api/v1/users", authGate(http.HandlerFunc(usersHandler.List)))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path, accessToken string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeTokenPair(t *testing.T, resp *http.Response) api.TokenResponse {
	t.Helper()

	var tokens api.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	return tokens
}

// Полный жизненный цикл сессии: регистрация, логин, доступ к
// защищенному ресурсу, logout, после которого refresh token мертв
func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Регистрация короткого, но валидного пользователя
	resp := post(t, srv, "/api/v1/auth/register", api.RegisterRequest{
		Username: "u1",
		Email:    "u1@example.com",
		Password: "p1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeTokenPair(t, resp)

	// Логин выдает новую пару
	resp = post(t, srv, "/api/v1/auth/login", api.LoginRequest{
		Email:    "u1@example.com",
		Password: "p1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tokens := decodeTokenPair(t, resp)

	// Access token открывает защищенный ресурс
	resp = get(t, srv, "/api/v1/posts", tokens.AccessToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Logout по refresh token
	resp = post(t, srv, "/api/v1/auth/logout", api.LogoutRequest{
		RefreshToken: tokens.RefreshToken,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Повторный logout тем же токеном отклоняется
	resp = post(t, srv, "/api/v1/auth/logout", api.LogoutRequest{
		RefreshToken: tokens.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Refresh после logout тоже отклоняется
	resp = post(t, srv, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/v1/posts", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteWithRefreshToken(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/v1/auth/register", api.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tokens := decodeTokenPair(t, resp)

	// Refresh token не проходит через gate: подписан другим секретом
	resp = get(t, srv, "/api/v1/posts", tokens.RefreshToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Ротация: refresh выдает новую пару, старый refresh token сгорает
func TestRefreshRotationEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/v1/auth/register", api.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decodeTokenPair(t, resp)

	resp = post(t, srv, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decodeTokenPair(t, resp)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Старый токен больше не принимается
	resp = post(t, srv, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Новый работает
	resp = post(t, srv, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: second.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Второй логин обрывает первую сессию: у пользователя одна
// активная сессия, хранится только последний refresh token
func TestSecondLoginInvalidatesFirstSession(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/v1/auth/register", api.RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "secret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decodeTokenPair(t, resp)

	resp = post(t, srv, "/api/v1/auth/login", api.LoginRequest{
		Email:    "carol@example.com",
		Password: "secret-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(t, srv, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: first.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Регистрация с занятым email конфликтует, независимо от регистра
func TestRegisterDuplicateEmailEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/v1/auth/register", api.RegisterRequest{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "secret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = post(t, srv, "/api/v1/auth/register", api.RegisterRequest{
		Username: "dave2",
		Email:    "Dave@Example.Com",
		Password: "other-password",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
