package books

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

func createAuthor(ctx context.Context, t *testing.T, db *bun.DB, name string) *models.Author {
	t.Helper()

	author := &models.Author{Name: name}
	_, err := db.NewInsert().Model(author).Exec(ctx)
	require.NoError(t, err)
	return author
}

func TestCreateBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	kafka := createAuthor(ctx, t, db, "Franz Kafka")

	book := &models.Book{Title: "The Trial"}
	err := svc.CreateBook(ctx, book, []int{kafka.ID}, []string{"Fiction", "Classics"})
	require.NoError(t, err)

	require.Len(t, book.Authors, 1)
	assert.Equal(t, "Franz Kafka", book.Authors[0].Name)
	require.Len(t, book.Subjects, 2)
}

func TestCreateBookUnknownAuthor(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &models.Book{Title: "Orphan"}
	err := svc.CreateBook(ctx, book, []int{999}, nil)
	assert.ErrorIs(t, err, errcodes.NotFound("Author"))

	// Nothing was written.
	count, err := db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRetrieveBookMissing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	id := 404
	_, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestListBooksFilters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	kafka := createAuthor(ctx, t, db, "Franz Kafka")
	orwell := createAuthor(ctx, t, db, "George Orwell")

	trial := &models.Book{Title: "The Trial"}
	require.NoError(t, svc.CreateBook(ctx, trial, []int{kafka.ID}, []string{"Fiction"}))
	nineteen := &models.Book{Title: "Nineteen Eighty-Four"}
	require.NoError(t, svc.CreateBook(ctx, nineteen, []int{orwell.ID}, []string{"Dystopia"}))

	title := "Trial"
	books, err := svc.ListBooks(ctx, ListBooksOptions{Title: &title})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "The Trial", books[0].Title)

	author := "Orwell"
	books, err = svc.ListBooks(ctx, ListBooksOptions{Author: &author})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Nineteen Eighty-Four", books[0].Title)

	subject := "Dysto"
	title = "Nineteen"
	books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{Title: &title, Subject: &subject})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, books, 1)

	// Filters are ANDed; a mismatched pair returns nothing.
	author = "Kafka"
	books, err = svc.ListBooks(ctx, ListBooksOptions{Title: &title, Author: &author})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestUpdateBookReplacesAuthorsAndSubjects(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	kafka := createAuthor(ctx, t, db, "Franz Kafka")
	brod := createAuthor(ctx, t, db, "Max Brod")

	book := &models.Book{Title: "The Castle"}
	require.NoError(t, svc.CreateBook(ctx, book, []int{kafka.ID}, []string{"Fiction"}))

	authorIDs := []int{brod.ID}
	subjects := []string{"Unfinished"}
	err := svc.UpdateBook(ctx, book, UpdateBookOptions{
		AuthorIDs: &authorIDs,
		Subjects:  &subjects,
	})
	require.NoError(t, err)

	reloaded, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	require.Len(t, reloaded.Authors, 1)
	assert.Equal(t, "Max Brod", reloaded.Authors[0].Name)
	require.Len(t, reloaded.Subjects, 1)
	assert.Equal(t, "Unfinished", reloaded.Subjects[0].Subject)
}

func TestDeleteBookWithLoansConflicts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &models.Book{Title: "Held"}
	require.NoError(t, svc.CreateBook(ctx, book, nil, nil))

	librarian := &models.User{Username: "librarian", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	_, err := db.NewInsert().Model(librarian).Exec(ctx)
	require.NoError(t, err)
	customer := &models.Customer{Name: "Alice", Email: "alice@example.com", RegistrationDate: models.Today()}
	_, err = db.NewInsert().Model(customer).Exec(ctx)
	require.NoError(t, err)

	issue := &models.Issue{
		BookID:      book.ID,
		CustomerID:  customer.ID,
		LibrarianID: librarian.ID,
		DateOfIssue: models.Today(),
		ReturnUntil: models.Today().AddDays(14),
		Status:      models.IssueStatusIssued,
	}
	_, err = db.NewInsert().Model(issue).Exec(ctx)
	require.NoError(t, err)

	err = svc.DeleteBook(ctx, book.ID)
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 409, codeErr.HTTPCode)
}

func TestDeleteBookCleansUpRelations(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	kafka := createAuthor(ctx, t, db, "Franz Kafka")
	book := &models.Book{Title: "Removable"}
	require.NoError(t, svc.CreateBook(ctx, book, []int{kafka.ID}, []string{"Fiction"}))

	require.NoError(t, svc.DeleteBook(ctx, book.ID))

	links, err := db.NewSelect().Model((*models.BookAuthor)(nil)).Where("book_id = ?", book.ID).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, links)
	subjects, err := db.NewSelect().Model((*models.BookSubject)(nil)).Where("book_id = ?", book.ID).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, subjects)

	// The author record itself survives.
	exists, err := db.NewSelect().Model((*models.Author)(nil)).Where("id = ?", kafka.ID).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCovers(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	book := &models.Book{Title: "Covered"}
	require.NoError(t, svc.CreateBook(ctx, book, nil, nil))

	cover := &models.BookCover{BookID: book.ID, Filename: "abc123.jpg"}
	require.NoError(t, svc.CreateCover(ctx, cover))

	found, err := svc.RetrieveCoverByFilename(ctx, "abc123.jpg")
	require.NoError(t, err)
	assert.Equal(t, book.ID, found.BookID)

	_, err = svc.RetrieveCoverByFilename(ctx, "missing.png")
	assert.ErrorIs(t, err, errcodes.NotFound("Cover"))

	reloaded, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"/books/covers/abc123.jpg"}, reloaded.CoverURLs())
}
