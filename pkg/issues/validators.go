package issues

type CreateIssuePayload struct {
	BookID      int     `json:"book_id" validate:"required,min=1"`
	CustomerID  int     `json:"customer_id" validate:"required,min=1"`
	DateOfIssue *string `json:"date_of_issue,omitempty" validate:"omitempty,date"`
	ReturnUntil string  `json:"return_until" validate:"required,date"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ReturnIssuePayload struct {
	ReturnDate *string `json:"return_date,omitempty" validate:"omitempty,date"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateIssuePayload struct {
	ReturnUntil *string `json:"return_until,omitempty" validate:"omitempty,date"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ListIssuesQuery struct {
	Status *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=current history"`
}
