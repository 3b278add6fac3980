package customers

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

func TestCreateCustomer(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	customer := &models.Customer{
		Name:  "Alice Archer",
		Email: "alice@example.com",
	}
	err := svc.CreateCustomer(ctx, customer)
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)
	// Registration date defaults to today.
	assert.Equal(t, models.Today().String(), customer.RegistrationDate.String())
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateCustomer(ctx, &models.Customer{
		Name:  "Alice",
		Email: "alice@example.com",
	}))

	err := svc.CreateCustomer(ctx, &models.Customer{
		Name:  "Imposter",
		Email: "ALICE@example.com",
	})
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 409, codeErr.HTTPCode)
}

func TestListCustomersFilters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateCustomer(ctx, &models.Customer{Name: "Alice Archer", Email: "alice@example.com"}))
	require.NoError(t, svc.CreateCustomer(ctx, &models.Customer{Name: "Bob Bell", Email: "bob@elsewhere.net"}))

	name := "Archer"
	custs, err := svc.ListCustomers(ctx, ListCustomersOptions{Name: &name})
	require.NoError(t, err)
	require.Len(t, custs, 1)
	assert.Equal(t, "Alice Archer", custs[0].Name)

	email := "elsewhere"
	custs, total, err := svc.ListCustomersWithTotal(ctx, ListCustomersOptions{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, custs, 1)
	assert.Equal(t, "Bob Bell", custs[0].Name)
}

func TestUpdateCustomerEmailConflict(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateCustomer(ctx, &models.Customer{Name: "Alice", Email: "alice@example.com"}))
	bob := &models.Customer{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, svc.CreateCustomer(ctx, bob))

	bob.Email = "alice@example.com"
	err := svc.UpdateCustomer(ctx, bob, UpdateCustomerOptions{Columns: []string{"email"}})
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 409, codeErr.HTTPCode)
}

func TestDeleteCustomer(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	customer := &models.Customer{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, svc.CreateCustomer(ctx, customer))

	require.NoError(t, svc.DeleteCustomer(ctx, customer.ID))
	assert.ErrorIs(t, svc.DeleteCustomer(ctx, customer.ID), errcodes.NotFound("Customer"))
}

func TestDeleteCustomerWithLoansConflicts(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	customer := &models.Customer{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, svc.CreateCustomer(ctx, customer))

	librarian := &models.User{Username: "librarian", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	_, err := db.NewInsert().Model(librarian).Exec(ctx)
	require.NoError(t, err)
	book := &models.Book{Title: "Held"}
	_, err = db.NewInsert().Model(book).Exec(ctx)
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

	err = svc.DeleteCustomer(ctx, customer.ID)
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 409, codeErr.HTTPCode)
}
