package reports

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/issues"
	"github.com/shelfdesk/shelfdesk/pkg/models"
	"github.com/uptrace/bun"
)

type RemindersOptions struct {
	SortBy       *string
	Order        *string
	CustomerName *string
	BookTitle    *string
}

type BookHistoryOptions struct {
	SortBy *string
	Order  *string
}

// ReminderRow is one overdue loan in the reminders report.
type ReminderRow struct {
	IssueID      int         `json:"issue_id"`
	BookID       int         `json:"book_id"`
	BookTitle    string      `json:"book_title"`
	CustomerID   int         `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	DateOfIssue  models.Date `json:"date_of_issue"`
	ReturnUntil  models.Date `json:"return_until"`
	DaysOverdue  int         `json:"days_overdue"`
}

// HistoryRow is one loan in a book's history report.
type HistoryRow struct {
	IssueID      int          `json:"issue_id"`
	CustomerID   int          `json:"customer_id"`
	CustomerName string       `json:"customer_name"`
	DateOfIssue  models.Date  `json:"date_of_issue"`
	ReturnDate   *models.Date `json:"return_date"`
	ReturnUntil  models.Date  `json:"return_until"`
	Status       string       `json:"status"`
}

type Service struct {
	db           *bun.DB
	issueService *issues.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, issueService: issues.NewService(db)}
}

var reminderSortColumns = map[string]string{
	"title":         "book.title",
	"customer":      "customer.name",
	"date_of_issue": "i.date_of_issue",
	"return_until":  "i.return_until",
}

var historySortColumns = map[string]string{
	"date_of_issue": "i.date_of_issue",
	"return_date":   "i.return_date",
	"customer":      "customer.name",
}

func orderExpr(columns map[string]string, sortBy *string, order *string, defaultColumn, defaultDir string) string {
	column := defaultColumn
	if sortBy != nil {
		if mapped, ok := columns[*sortBy]; ok {
			column = mapped
		}
	}
	dir := defaultDir
	if order != nil && (*order == "asc" || *order == "desc") {
		dir = *order
	}
	return column + " " + dir
}

// Reminders returns every overdue loan. The sweep runs first so the stored
// statuses agree with the report.
func (svc *Service) Reminders(ctx context.Context, today models.Date, opts RemindersOptions) ([]ReminderRow, error) {
	if _, err := svc.issueService.Sweep(ctx, today); err != nil {
		return nil, err
	}

	var iss []*models.Issue
	q := svc.db.
		NewSelect().
		Model(&iss).
		Relation("Book").
		Relation("Customer").
		Where("i.return_date IS NULL").
		Where("i.return_until < ?", today)

	if opts.CustomerName != nil && *opts.CustomerName != "" {
		q = q.Where("LOWER(customer.name) LIKE LOWER(?)", "%"+*opts.CustomerName+"%")
	}
	if opts.BookTitle != nil && *opts.BookTitle != "" {
		q = q.Where("LOWER(book.title) LIKE LOWER(?)", "%"+*opts.BookTitle+"%")
	}

	q = q.OrderExpr(orderExpr(reminderSortColumns, opts.SortBy, opts.Order, "i.return_until", "asc"))

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	rows := make([]ReminderRow, 0, len(iss))
	for _, issue := range iss {
		rows = append(rows, ReminderRow{
			IssueID:      issue.ID,
			BookID:       issue.BookID,
			BookTitle:    issue.Book.Title,
			CustomerID:   issue.CustomerID,
			CustomerName: issue.Customer.Name,
			DateOfIssue:  issue.DateOfIssue,
			ReturnUntil:  issue.ReturnUntil,
			DaysOverdue:  today.DaysSince(issue.ReturnUntil),
		})
	}

	return rows, nil
}

// BookHistory returns every loan for the given book, including the active
// one. The sweep runs first so statuses are current.
func (svc *Service) BookHistory(ctx context.Context, bookID int, today models.Date, opts BookHistoryOptions) (*models.Book, []HistoryRow, error) {
	book := &models.Book{}
	err := svc.db.NewSelect().
		Model(book).
		Where("b.id = ?", bookID).
		Scan(ctx)
	if err != nil {
		return nil, nil, errcodes.NotFound("Book")
	}

	if _, err := svc.issueService.Sweep(ctx, today); err != nil {
		return nil, nil, err
	}

	var iss []*models.Issue
	q := svc.db.
		NewSelect().
		Model(&iss).
		Relation("Customer").
		Where("i.book_id = ?", bookID)

	q = q.OrderExpr(orderExpr(historySortColumns, opts.SortBy, opts.Order, "i.date_of_issue", "desc"))

	err = q.Scan(ctx)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	rows := make([]HistoryRow, 0, len(iss))
	for _, issue := range iss {
		rows = append(rows, HistoryRow{
			IssueID:      issue.ID,
			CustomerID:   issue.CustomerID,
			CustomerName: issue.Customer.Name,
			DateOfIssue:  issue.DateOfIssue,
			ReturnDate:   issue.ReturnDate,
			ReturnUntil:  issue.ReturnUntil,
			Status:       issue.Status,
		})
	}

	return book, rows, nil
}
