package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/repositories"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/routes"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/services"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newRouter(db Pinger) *mux.Router {
	svc := services.NewUserService(repositories.NewMemoryUserRepository(), []byte("test-secret"), time.Hour)
	users := NewUserController(svc)
	health := NewHealthController(db)

	r := mux.NewRouter()
	r.HandleFunc(routes.Health, health.HealthCheckHandler).Methods(http.MethodGet)
	r.HandleFunc(routes.Signup, users.SignupHandler).Methods(http.MethodPost)
	r.HandleFunc(routes.Login, users.LoginHandler).Methods(http.MethodPost)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestSignupAndLogin(t *testing.T) {
	router := newRouter(pingFunc(func(context.Context) error { return nil }))

	rec := do(t, router, http.MethodPost, routes.Signup, map[string]any{
		"username": "alice", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "password")

	var user dtos.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "alice", user.Username)
	require.Equal(t, []string{"USER"}, user.Roles)

	rec = do(t, router, http.MethodPost, routes.Signup, map[string]any{
		"username": "alice", "password": "correct-horse",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, utils.ErrCodeConflict, errorCode(t, rec))

	rec = do(t, router, http.MethodPost, routes.Login, map[string]any{
		"username": "alice", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login dtos.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	rec = do(t, router, http.MethodPost, routes.Login, map[string]any{
		"username": "alice", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, utils.ErrCodeInvalidCredentials, errorCode(t, rec))
}

func TestSignup_BadRequests(t *testing.T) {
	router := newRouter(pingFunc(func(context.Context) error { return nil }))

	rec := do(t, router, http.MethodPost, routes.Signup, "{not json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, utils.ErrCodeInvalidPayload, errorCode(t, rec))

	rec = do(t, router, http.MethodPost, routes.Signup, map[string]any{"username": "bob", "password": "short"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, utils.ErrCodeValidation, errorCode(t, rec))
	require.Contains(t, rec.Body.String(), `"password"`)
}

func TestHealth(t *testing.T) {
	rec := do(t, newRouter(pingFunc(func(context.Context) error { return nil })), http.MethodGet, routes.Health, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, newRouter(pingFunc(func(context.Context) error { return errors.New("no primary") })), http.MethodGet, routes.Health, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, utils.ErrCodeServiceUnavailable, errorCode(t, rec))
}
