package issues

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveIssueOptions struct {
	ID *int
}

type ListIssuesOptions struct {
	CustomerID *int
	// ActiveOnly limits results to issues that haven't been returned yet.
	ActiveOnly bool
	// Status filters by lifecycle bucket: "current" (unreturned) or
	// "history" (returned).
	Status *string
}

type UpdateIssueOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateIssue records a new loan. The referenced book and customer must
// exist, and the book must not currently be out on another loan. The checks
// and the insert run in one transaction so two concurrent creates for the
// same book can't both pass.
func (svc *Service) CreateIssue(ctx context.Context, issue *models.Issue) error {
	now := time.Now()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	issue.UpdatedAt = issue.CreatedAt
	if issue.DateOfIssue.IsZero() {
		issue.DateOfIssue = models.Today()
	}
	issue.Status = models.IssueStatusIssued
	issue.ReturnDate = nil

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		bookExists, err := tx.NewSelect().
			Model((*models.Book)(nil)).
			Where("id = ?", issue.BookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !bookExists {
			return errcodes.NotFound("Book")
		}

		customerExists, err := tx.NewSelect().
			Model((*models.Customer)(nil)).
			Where("id = ?", issue.CustomerID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !customerExists {
			return errcodes.NotFound("Customer")
		}

		// Any unreturned issue blocks, regardless of its status. Nullness
		// of return_date is the concurrency-control concern; status is a
		// display concern.
		active := &models.Issue{}
		err = tx.NewSelect().
			Model(active).
			Where("i.book_id = ?", issue.BookID).
			Where("i.return_date IS NULL").
			Scan(ctx)
		if err == nil {
			return errcodes.Conflict(fmt.Sprintf("Book is already issued to another customer (Issue ID: %d)", active.ID))
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return errors.WithStack(err)
		}

		_, err = tx.NewInsert().
			Model(issue).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return err
	}

	loaded, err := svc.RetrieveIssue(ctx, RetrieveIssueOptions{ID: &issue.ID})
	if err != nil {
		return err
	}
	*issue = *loaded
	return nil
}

// Sweep marks every unreturned issue whose due date has passed as overdue.
// It's a single idempotent UPDATE; running it twice is the same as once.
// Returned issues are never touched, so status can't regress.
func (svc *Service) Sweep(ctx context.Context, today models.Date) (int, error) {
	result, err := svc.db.NewUpdate().
		Model((*models.Issue)(nil)).
		Set("status = ?", models.IssueStatusOverdue).
		Set("updated_at = ?", time.Now()).
		Where("return_date IS NULL").
		Where("return_until < ?", today).
		Where("status != ?", models.IssueStatusOverdue).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

func (svc *Service) RetrieveIssue(ctx context.Context, opts RetrieveIssueOptions) (*models.Issue, error) {
	issue := &models.Issue{}

	q := svc.db.
		NewSelect().
		Model(issue).
		Relation("Book").
		Relation("Book.Authors").
		Relation("Customer").
		Relation("Librarian")

	if opts.ID != nil {
		q = q.Where("i.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Issue")
		}
		return nil, errors.WithStack(err)
	}

	return issue, nil
}

func (svc *Service) ListIssues(ctx context.Context, opts ListIssuesOptions) ([]*models.Issue, error) {
	var iss []*models.Issue

	q := svc.db.
		NewSelect().
		Model(&iss).
		Relation("Book").
		Relation("Customer").
		Relation("Librarian").
		Order("i.date_of_issue DESC").
		OrderExpr("i.id DESC")

	if opts.CustomerID != nil {
		q = q.Where("i.customer_id = ?", *opts.CustomerID)
	}
	if opts.ActiveOnly {
		q = q.Where("i.return_date IS NULL")
	}
	if opts.Status != nil {
		switch *opts.Status {
		case "current":
			q = q.Where("i.return_date IS NULL")
		case "history":
			q = q.Where("i.return_date IS NOT NULL")
		}
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return iss, nil
}

// ReturnIssue closes out a loan. The status is decided by comparing the
// return date against the due date, and notes are only overwritten when new
// text is supplied. Returning is terminal; a returned issue can't be
// returned again.
func (svc *Service) ReturnIssue(ctx context.Context, issueID int, returnDate models.Date, notes *string) (*models.Issue, error) {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		issue := &models.Issue{}
		err := tx.NewSelect().
			Model(issue).
			Where("i.id = ?", issueID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Issue")
			}
			return errors.WithStack(err)
		}
		if issue.IsReturned() {
			return errcodes.Conflict("Book is already returned.")
		}

		issue.ReturnDate = &returnDate
		if returnDate.After(issue.ReturnUntil) {
			issue.Status = models.IssueStatusReturnedLate
		} else {
			issue.Status = models.IssueStatusReturnedOnTime
		}
		issue.UpdatedAt = time.Now()

		columns := []string{"return_date", "status", "updated_at"}
		if notes != nil && *notes != "" {
			issue.Notes = notes
			columns = append(columns, "notes")
		}

		_, err = tx.NewUpdate().
			Model(issue).
			Column(columns...).
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return svc.RetrieveIssue(ctx, RetrieveIssueOptions{ID: &issueID})
}

// UpdateIssue edits the two unmanaged fields, return_until and notes. It
// never recomputes status, and it's legal in any state so due-date records
// can be corrected after the fact.
func (svc *Service) UpdateIssue(ctx context.Context, issue *models.Issue, opts UpdateIssueOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	issue.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(issue).
		Column(columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// DeleteIssue hard-deletes a loan record in any state.
func (svc *Service) DeleteIssue(ctx context.Context, issueID int) error {
	result, err := svc.db.NewDelete().
		Model((*models.Issue)(nil)).
		Where("id = ?", issueID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return errcodes.NotFound("Issue")
	}
	return nil
}
