package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticateMiddleware(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	mw := NewMiddleware(svc)
	ctx := context.Background()

	user, err := svc.Register(ctx, "librarian", nil, "password123")
	require.NoError(t, err)
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	e := echo.New()

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := mw.Authenticate(okHandler)(c)
		require.NoError(t, err)

		got, ok := GetUserFromContext(c)
		require.True(t, ok)
		assert.Equal(t, user.ID, got.ID)
		id, ok := GetUserIDFromContext(c)
		require.True(t, ok)
		assert.Equal(t, user.ID, id)
	})

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := mw.Authenticate(okHandler)(c)
		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, 401, codeErr.HTTPCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-jwt"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := mw.Authenticate(okHandler)(c)
		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, 401, codeErr.HTTPCode)
	})

	t.Run("deactivated user", func(t *testing.T) {
		deactivated, err := svc.Register(ctx, "former-staff", nil, "password123")
		require.NoError(t, err)
		staleToken, err := svc.GenerateToken(deactivated)
		require.NoError(t, err)

		_, err = db.NewUpdate().
			Model((*models.User)(nil)).
			Set("is_active = ?", false).
			Where("id = ?", deactivated.ID).
			Exec(ctx)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: staleToken})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err = mw.Authenticate(okHandler)(c)
		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, 401, codeErr.HTTPCode)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	mw := NewMiddleware(svc)

	e := echo.New()

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user", &models.User{ID: 1, Role: models.RoleAdmin})

		require.NoError(t, mw.RequireAdmin(okHandler)(c))
	})

	t.Run("member is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user", &models.User{ID: 2, Role: models.RoleMember})

		err := mw.RequireAdmin(okHandler)(c)
		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, 403, codeErr.HTTPCode)
	})

	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := mw.RequireAdmin(okHandler)(c)
		var codeErr *errcodes.Error
		require.ErrorAs(t, err, &codeErr)
		assert.Equal(t, 401, codeErr.HTTPCode)
	})
}
