package books

type CreateBookPayload struct {
	Title            string   `json:"title" mod:"trim" validate:"required,max=500"`
	Subtitle         *string  `json:"subtitle,omitempty" mod:"trim" validate:"omitempty,max=500"`
	FirstPublishDate *string  `json:"first_publish_date,omitempty" validate:"omitempty,date"`
	Description      *string  `json:"description,omitempty" validate:"omitempty,max=10000"`
	AuthorIDs        []int    `json:"author_ids,omitempty" validate:"omitempty,dive,min=1"`
	Subjects         []string `json:"subjects,omitempty" validate:"omitempty,dive,max=100"`
}

type UpdateBookPayload struct {
	Title            *string   `json:"title,omitempty" mod:"trim" validate:"omitempty,max=500"`
	Subtitle         *string   `json:"subtitle,omitempty" mod:"trim" validate:"omitempty,max=500"`
	FirstPublishDate *string   `json:"first_publish_date,omitempty" validate:"omitempty,date"`
	Description      *string   `json:"description,omitempty" validate:"omitempty,max=10000"`
	AuthorIDs        *[]int    `json:"author_ids,omitempty" validate:"omitempty,dive,min=1"`
	Subjects         *[]string `json:"subjects,omitempty" validate:"omitempty,dive,max=100"`
}

type ListBooksQuery struct {
	Limit   int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset  int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Title   *string `query:"title" json:"title,omitempty" validate:"omitempty,max=500"`
	Author  *string `query:"author" json:"author,omitempty" validate:"omitempty,max=300"`
	Subject *string `query:"subject" json:"subject,omitempty" validate:"omitempty,max=100"`
}
