package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itrportal/internal/apperr"
	"itrportal/internal/auth"
	"itrportal/internal/models"
	"itrportal/internal/repository"
)

var testSecret = []byte("middleware-test-secret")

type stubUserRepo struct {
	repository.UserRepository
	users map[uint]*models.User
}

func (s *stubUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

func newProtectedServer(users *stubUserRepo, roles ...models.Role) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = JSONErrorHandler

	handler := func(c echo.Context) error {
		user := c.Get("user").(*models.User)
		return c.JSON(http.StatusOK, map[string]interface{}{"id": user.ID})
	}

	group := e.Group("/protected", RequireAuth(testSecret, users))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("", handler)
	return e
}

func get(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, userID uint, validity time.Duration) string {
	t.Helper()
	token, err := auth.GenerateToken(strconv.FormatUint(uint64(userID), 10), testSecret, validity)
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	users := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Role: models.RoleClient, Status: models.StatusInProgress},
		2: {ID: 2, Role: models.RoleClient, Status: models.StatusBlocked},
	}}
	e := newProtectedServer(users)

	t.Run("valid token", func(t *testing.T) {
		rec := get(e, "Bearer "+tokenFor(t, 1, time.Hour))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := get(e, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := get(e, "Token abcdef")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := get(e, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		rec := get(e, "Bearer "+tokenFor(t, 1, -time.Minute))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deleted account", func(t *testing.T) {
		rec := get(e, "Bearer "+tokenFor(t, 99, time.Hour))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blocked account", func(t *testing.T) {
		rec := get(e, "Bearer "+tokenFor(t, 2, time.Hour))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	users := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Role: models.RoleClient, Status: models.StatusInProgress},
		2: {ID: 2, Role: models.RoleAdmin},
		3: {ID: 3, Role: models.RoleSuperAdmin},
	}}
	e := newProtectedServer(users, models.RoleAdmin, models.RoleSuperAdmin)

	t.Run("client denied", func(t *testing.T) {
		rec := get(e, "Bearer "+tokenFor(t, 1, time.Hour))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		rec := get(e, "Bearer "+tokenFor(t, 2, time.Hour))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("superadmin allowed", func(t *testing.T) {
		rec := get(e, "Bearer "+tokenFor(t, 3, time.Hour))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
