package showcase

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

func createBooks(ctx context.Context, t *testing.T, db *bun.DB, titles ...string) []*models.Book {
	t.Helper()

	books := make([]*models.Book, 0, len(titles))
	for _, title := range titles {
		book := &models.Book{Title: title}
		_, err := db.NewInsert().Model(book).Exec(ctx)
		require.NoError(t, err)
		books = append(books, book)
	}
	return books
}

func positions(entries []*models.ShowcaseEntry) [][2]int {
	out := make([][2]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, [2]int{e.Position, e.BookID})
	}
	return out
}

func TestSetAndGet(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	books := createBooks(ctx, t, db, "One", "Two", "Three", "Four")

	entries, err := svc.Set(ctx, []int{books[0].ID, books[3].ID, books[1].ID})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, [][2]int{
		{1, books[0].ID},
		{2, books[3].ID},
		{3, books[1].ID},
	}, positions(entries))

	// Replace-all: the previous set is gone, not merged.
	entries, err = svc.Set(ctx, []int{books[2].ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, books[2].ID, entries[0].BookID)
	assert.Equal(t, 1, entries[0].Position)

	entries, err = svc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Book)
	assert.Equal(t, "Three", entries[0].Book.Title)
}

func TestSetDeduplicatesPreservingOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	books := createBooks(ctx, t, db, "A", "B")

	entries, err := svc.Set(ctx, []int{books[0].ID, books[0].ID, books[1].ID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, [][2]int{
		{1, books[0].ID},
		{2, books[1].ID},
	}, positions(entries))
}

func TestSetMissingBookAbortsWithoutPartialWrite(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	books := createBooks(ctx, t, db, "Kept")

	_, err := svc.Set(ctx, []int{books[0].ID})
	require.NoError(t, err)

	_, err = svc.Set(ctx, []int{books[0].ID, 9999})
	require.Error(t, err)
	assert.ErrorIs(t, err, errcodes.NotFound("Book with id 9999"))

	// The failed replace left the previous showcase untouched.
	entries, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, books[0].ID, entries[0].BookID)
}

func TestSetEmptyClearsShowcase(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	books := createBooks(ctx, t, db, "Gone")

	_, err := svc.Set(ctx, []int{books[0].ID})
	require.NoError(t, err)

	entries, err := svc.Set(ctx, []int{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
