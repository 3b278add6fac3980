package authors

type CreateAuthorPayload struct {
	Name      string  `json:"name" mod:"trim" validate:"required,max=300"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=5000"`
	BirthDate *string `json:"birth_date,omitempty" validate:"omitempty,date"`
	DeathDate *string `json:"death_date,omitempty" validate:"omitempty,date"`
	Wikipedia *string `json:"wikipedia,omitempty" mod:"trim" validate:"omitempty,url"`
}

type UpdateAuthorPayload struct {
	Name      *string `json:"name,omitempty" mod:"trim" validate:"omitempty,max=300"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=5000"`
	BirthDate *string `json:"birth_date,omitempty" validate:"omitempty,date"`
	DeathDate *string `json:"death_date,omitempty" validate:"omitempty,date"`
	Wikipedia *string `json:"wikipedia,omitempty" mod:"trim" validate:"omitempty,url"`
}

type ListAuthorsQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Name   *string `query:"name" json:"name,omitempty" validate:"omitempty,max=300"`
}
