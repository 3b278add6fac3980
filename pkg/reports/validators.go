package reports

type RemindersQuery struct {
	SortBy       *string `query:"sort_by" json:"sort_by,omitempty" validate:"omitempty,oneof=title customer date_of_issue return_until"`
	Order        *string `query:"order" json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
	CustomerName *string `query:"customer_name" json:"customer_name,omitempty" validate:"omitempty,max=200"`
	BookTitle    *string `query:"book_title" json:"book_title,omitempty" validate:"omitempty,max=500"`
}

type BookHistoryQuery struct {
	SortBy *string `query:"sort_by" json:"sort_by,omitempty" validate:"omitempty,oneof=date_of_issue return_date customer"`
	Order  *string `query:"order" json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}
