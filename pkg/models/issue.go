package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Issue status values. A record starts as issued, moves to overdue when the
// due date passes without a return, and ends in exactly one of the two
// returned states. The returned states are terminal.
const (
	IssueStatusIssued         = "issued"
	IssueStatusOverdue        = "overdue"
	IssueStatusReturnedOnTime = "returned_on_time"
	IssueStatusReturnedLate   = "returned_late"
)

type Issue struct {
	bun.BaseModel `bun:"table:issues,alias:i"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	BookID      int       `bun:",nullzero" json:"book_id"`
	Book        *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	CustomerID  int       `bun:",nullzero" json:"customer_id"`
	Customer    *Customer `bun:"rel:belongs-to,join:customer_id=id" json:"customer,omitempty"`
	LibrarianID int       `bun:",nullzero" json:"librarian_id"`
	Librarian   *User     `bun:"rel:belongs-to,join:librarian_id=id" json:"librarian,omitempty"`
	DateOfIssue Date      `bun:",nullzero" json:"date_of_issue"`
	ReturnUntil Date      `bun:",nullzero" json:"return_until"`
	ReturnDate  *Date     `json:"return_date"`
	Status      string    `bun:",nullzero" json:"status"`
	Notes       *string   `json:"notes"`
}

// IsReturned reports whether the loan has been closed. Nullness of
// return_date is the concurrency-control signal; status is for display.
func (i *Issue) IsReturned() bool {
	return i.ReturnDate != nil
}
