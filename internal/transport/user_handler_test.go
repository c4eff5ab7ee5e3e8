package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopline/internal/domain"
	"shopline/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubUserService lets each test pin the return values it cares about
type stubUserService struct {
	registerID  int64
	registerErr error
	user        *domain.User
	userErr     error
	users       []*domain.User
	affected    int64
	updateErr   error
	deleteErr   error
}

func (s *stubUserService) Register(ctx context.Context, user *domain.User, password string) (int64, error) {
	return s.registerID, s.registerErr
}

func (s *stubUserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.user, s.userErr
}

func (s *stubUserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.user, s.userErr
}

func (s *stubUserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.user, s.userErr
}

func (s *stubUserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users, nil
}

func (s *stubUserService) Update(ctx context.Context, id int64, update domain.UserUpdate) (int64, error) {
	return s.affected, s.updateErr
}

func (s *stubUserService) ChangePassword(ctx context.Context, id int64, newPassword string) (int64, error) {
	return s.affected, s.updateErr
}

func (s *stubUserService) Delete(ctx context.Context, id int64) error {
	return s.deleteErr
}

func newUserRouter(svc *stubUserService) chi.Router {
	router := chi.NewRouter()
	NewUserHandler(svc, zap.NewNop()).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserHandler_Create(t *testing.T) {
	router := newUserRouter(&stubUserService{registerID: 42})

	w := doJSON(t, router, http.MethodPost, "/users/", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.UserID)
	assert.Equal(t, "user created", resp.Message)
}

func TestUserHandler_CreateValidation(t *testing.T) {
	router := newUserRouter(&stubUserService{registerID: 1})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing username", map[string]any{"email": "a@example.com", "password": "secret1"}},
		{"short username", map[string]any{"username": "ab", "email": "a@example.com", "password": "secret1"}},
		{"bad email", map[string]any{"username": "alice", "email": "not-an-email", "password": "secret1"}},
		{"short password", map[string]any{"username": "alice", "email": "a@example.com", "password": "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/users/", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUserHandler_CreateConflict(t *testing.T) {
	router := newUserRouter(&stubUserService{registerErr: repository.ErrUserAlreadyExists})

	w := doJSON(t, router, http.MethodPost, "/users/", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pass",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_GetByID(t *testing.T) {
	router := newUserRouter(&stubUserService{user: &domain.User{ID: 7, Username: "alice", Email: "alice@example.com"}})

	w := doJSON(t, router, http.MethodGet, "/users/7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, int64(7), user.ID)
	// the password hash never leaves the server
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUserHandler_GetByIDNotFound(t *testing.T) {
	router := newUserRouter(&stubUserService{userErr: repository.ErrUserNotFound})

	w := doJSON(t, router, http.MethodGet, "/users/7", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_GetByIDInvalid(t *testing.T) {
	router := newUserRouter(&stubUserService{})

	w := doJSON(t, router, http.MethodGet, "/users/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_UpdateEmptyBody(t *testing.T) {
	router := newUserRouter(&stubUserService{affected: 1})

	w := doJSON(t, router, http.MethodPut, "/users/7", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_Update(t *testing.T) {
	router := newUserRouter(&stubUserService{affected: 1})

	w := doJSON(t, router, http.MethodPut, "/users/7", map[string]any{"full_name": "Alice Smith"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp messageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.AffectedRows)
}

func TestUserHandler_ChangePassword(t *testing.T) {
	router := newUserRouter(&stubUserService{affected: 1})

	w := doJSON(t, router, http.MethodPut, "/users/7/password", map[string]any{"new_password": "next-secret"})
	assert.Equal(t, http.StatusOK, w.Code)

	// too short
	w = doJSON(t, router, http.MethodPut, "/users/7/password", map[string]any{"new_password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_Delete(t *testing.T) {
	router := newUserRouter(&stubUserService{})

	w := doJSON(t, router, http.MethodDelete, "/users/7", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUserHandler_DeleteWithOrders(t *testing.T) {
	router := newUserRouter(&stubUserService{deleteErr: repository.ErrUserReferenced})

	w := doJSON(t, router, http.MethodDelete, "/users/7", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
