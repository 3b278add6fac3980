package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/migrations"
	"github.com/shelfdesk/shelfdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.RegisterModel((*models.BookAuthor)(nil))

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	first, err := svc.Register(ctx, "head-librarian", nil, "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)
	assert.True(t, first.IsAdmin())

	second, err := svc.Register(ctx, "assistant", nil, "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, second.Role)
	assert.False(t, second.IsAdmin())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "librarian", nil, "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "LIBRARIAN", nil, "password123")
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 409, codeErr.HTTPCode)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "librarian", nil, "password123")
	require.NoError(t, err)

	found, err := svc.Authenticate(ctx, "librarian", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.Authenticate(ctx, "librarian", "wrong-password")
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 401, codeErr.HTTPCode)

	_, err = svc.Authenticate(ctx, "nobody", "password123")
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 401, codeErr.HTTPCode)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "librarian", nil, "password123")
	require.NoError(t, err)

	_, err = db.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", false).
		Where("id = ?", user.ID).
		Exec(ctx)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "librarian", "password123")
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 401, codeErr.HTTPCode)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, "librarian", nil, "password123")
	require.NoError(t, err)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "librarian", claims.Username)

	// A token signed with a different secret is rejected.
	other := NewService(db, "other-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("password124", hash))
}
