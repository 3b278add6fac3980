package reports

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/issues"
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

func date(t *testing.T, s string) models.Date {
	t.Helper()

	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

type fixture struct {
	librarian *models.User
	alice     *models.Customer
	bob       *models.Customer
	trial     *models.Book
	castle    *models.Book
}

// seedLedger creates two overdue loans (Alice/The Trial due 01-10,
// Bob/The Castle due 01-05) and one loan that isn't due yet.
func seedLedger(ctx context.Context, t *testing.T, db *bun.DB) fixture {
	t.Helper()

	fx := fixture{
		librarian: &models.User{Username: "librarian", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true},
		alice:     &models.Customer{Name: "Alice Archer", Email: "alice@example.com", RegistrationDate: models.Today()},
		bob:       &models.Customer{Name: "Bob Bell", Email: "bob@example.com", RegistrationDate: models.Today()},
		trial:     &models.Book{Title: "The Trial"},
		castle:    &models.Book{Title: "The Castle"},
	}
	_, err := db.NewInsert().Model(fx.librarian).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(fx.alice).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(fx.bob).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(fx.trial).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(fx.castle).Exec(ctx)
	require.NoError(t, err)

	notDueYet := &models.Book{Title: "Not Due Yet"}
	_, err = db.NewInsert().Model(notDueYet).Exec(ctx)
	require.NoError(t, err)

	issueService := issues.NewService(db)
	require.NoError(t, issueService.CreateIssue(ctx, &models.Issue{
		BookID:      fx.trial.ID,
		CustomerID:  fx.alice.ID,
		LibrarianID: fx.librarian.ID,
		DateOfIssue: date(t, "2024-01-01"),
		ReturnUntil: date(t, "2024-01-10"),
	}))
	require.NoError(t, issueService.CreateIssue(ctx, &models.Issue{
		BookID:      fx.castle.ID,
		CustomerID:  fx.bob.ID,
		LibrarianID: fx.librarian.ID,
		DateOfIssue: date(t, "2024-01-02"),
		ReturnUntil: date(t, "2024-01-05"),
	}))
	require.NoError(t, issueService.CreateIssue(ctx, &models.Issue{
		BookID:      notDueYet.ID,
		CustomerID:  fx.alice.ID,
		LibrarianID: fx.librarian.ID,
		DateOfIssue: date(t, "2024-01-03"),
		ReturnUntil: date(t, "2024-06-01"),
	}))

	return fx
}

func TestReminders(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedLedger(ctx, t, db)
	today := date(t, "2024-01-11")

	rows, err := svc.Reminders(ctx, today, RemindersOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Default order is return_until ascending.
	assert.Equal(t, "The Castle", rows[0].BookTitle)
	assert.Equal(t, "Bob Bell", rows[0].CustomerName)
	assert.Equal(t, 6, rows[0].DaysOverdue)
	assert.Equal(t, "The Trial", rows[1].BookTitle)
	assert.Equal(t, 1, rows[1].DaysOverdue)

	// The sweep ran, so the stored statuses agree with the report.
	count, err := db.NewSelect().
		Model((*models.Issue)(nil)).
		Where("status = ?", models.IssueStatusOverdue).
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRemindersSortAndFilter(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedLedger(ctx, t, db)
	today := date(t, "2024-01-11")

	sortBy := "title"
	order := "desc"
	rows, err := svc.Reminders(ctx, today, RemindersOptions{SortBy: &sortBy, Order: &order})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "The Trial", rows[0].BookTitle)
	assert.Equal(t, "The Castle", rows[1].BookTitle)

	// Filters are case-insensitive substrings.
	name := "bob b"
	rows, err = svc.Reminders(ctx, today, RemindersOptions{CustomerName: &name})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bob Bell", rows[0].CustomerName)

	title := "trial"
	rows, err = svc.Reminders(ctx, today, RemindersOptions{BookTitle: &title})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "The Trial", rows[0].BookTitle)
}

func TestRemindersExcludesReturned(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	fx := seedLedger(ctx, t, db)
	issueService := issues.NewService(db)

	var trialIssue models.Issue
	err := db.NewSelect().
		Model(&trialIssue).
		Where("i.book_id = ?", fx.trial.ID).
		Scan(ctx)
	require.NoError(t, err)

	_, err = issueService.ReturnIssue(ctx, trialIssue.ID, date(t, "2024-01-15"), nil)
	require.NoError(t, err)

	rows, err := svc.Reminders(ctx, date(t, "2024-01-16"), RemindersOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "The Castle", rows[0].BookTitle)
}

func TestBookHistory(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	fx := seedLedger(ctx, t, db)
	issueService := issues.NewService(db)

	// Return the first loan, then lend the book again to Bob.
	var trialIssue models.Issue
	err := db.NewSelect().
		Model(&trialIssue).
		Where("i.book_id = ?", fx.trial.ID).
		Scan(ctx)
	require.NoError(t, err)
	_, err = issueService.ReturnIssue(ctx, trialIssue.ID, date(t, "2024-01-15"), nil)
	require.NoError(t, err)

	require.NoError(t, issueService.CreateIssue(ctx, &models.Issue{
		BookID:      fx.trial.ID,
		CustomerID:  fx.bob.ID,
		LibrarianID: fx.librarian.ID,
		DateOfIssue: date(t, "2024-02-01"),
		ReturnUntil: date(t, "2024-02-15"),
	}))

	book, rows, err := svc.BookHistory(ctx, fx.trial.ID, date(t, "2024-02-02"), BookHistoryOptions{})
	require.NoError(t, err)
	assert.Equal(t, "The Trial", book.Title)
	require.Len(t, rows, 2)

	// Default order is date_of_issue descending, active loan included.
	assert.Equal(t, "Bob Bell", rows[0].CustomerName)
	assert.Nil(t, rows[0].ReturnDate)
	assert.Equal(t, "Alice Archer", rows[1].CustomerName)
	require.NotNil(t, rows[1].ReturnDate)
	assert.Equal(t, models.IssueStatusReturnedLate, rows[1].Status)

	sortBy := "customer"
	order := "asc"
	_, rows, err = svc.BookHistory(ctx, fx.trial.ID, date(t, "2024-02-02"), BookHistoryOptions{SortBy: &sortBy, Order: &order})
	require.NoError(t, err)
	assert.Equal(t, "Alice Archer", rows[0].CustomerName)
	assert.Equal(t, "Bob Bell", rows[1].CustomerName)
}

func TestBookHistoryMissingBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, _, err := svc.BookHistory(ctx, 12345, models.Today(), BookHistoryOptions{})
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestWriteRemindersCSV(t *testing.T) {
	t.Parallel()

	rows := []ReminderRow{
		{
			BookTitle:    "The Trial",
			CustomerName: "Alice Archer",
			DateOfIssue:  date(t, "2024-01-01"),
			ReturnUntil:  date(t, "2024-01-10"),
			DaysOverdue:  1,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRemindersCSV(&buf, rows))

	expected := "Title,Customer,Date of Issue,Return Until,Days Overdue\n" +
		"The Trial,Alice Archer,2024-01-01,2024-01-10,1\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteBookHistoryCSV(t *testing.T) {
	t.Parallel()

	returnDate := date(t, "2024-01-15")
	rows := []HistoryRow{
		{
			CustomerName: "Alice Archer",
			DateOfIssue:  date(t, "2024-01-01"),
			ReturnDate:   &returnDate,
			ReturnUntil:  date(t, "2024-01-10"),
			Status:       models.IssueStatusReturnedLate,
		},
		{
			CustomerName: "Bob Bell",
			DateOfIssue:  date(t, "2024-02-01"),
			ReturnDate:   nil,
			ReturnUntil:  date(t, "2024-02-15"),
			Status:       models.IssueStatusIssued,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookHistoryCSV(&buf, rows))

	expected := "Customer,Date of Issue,Return Date,Return Until,Status\n" +
		"Alice Archer,2024-01-01,2024-01-15,2024-01-10,returned_late\n" +
		"Bob Bell,2024-02-01,Not returned,2024-02-15,issued\n"
	assert.Equal(t, expected, buf.String())
}

func TestBookHistoryCSVFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "book_history_The_Trial.csv", BookHistoryCSVFilename("The Trial"))
}
