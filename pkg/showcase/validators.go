package showcase

type SetShowcasePayload struct {
	BookIDs []int `json:"book_ids" validate:"required,max=50,dive,min=1"`
}
