package customers

type CreateCustomerPayload struct {
	Name             string  `json:"name" mod:"trim" validate:"required,max=200"`
	Address          *string `json:"address,omitempty" mod:"trim" validate:"omitempty,max=300"`
	City             *string `json:"city,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Zip              *string `json:"zip,omitempty" mod:"trim" validate:"omitempty,max=20"`
	Email            string  `json:"email" mod:"trim" validate:"required,email"`
	Phone            *string `json:"phone,omitempty" mod:"trim" validate:"omitempty,max=50"`
	RegistrationDate *string `json:"registration_date,omitempty" validate:"omitempty,date"`
}

type UpdateCustomerPayload struct {
	Name             *string `json:"name,omitempty" mod:"trim" validate:"omitempty,max=200"`
	Address          *string `json:"address,omitempty" mod:"trim" validate:"omitempty,max=300"`
	City             *string `json:"city,omitempty" mod:"trim" validate:"omitempty,max=100"`
	Zip              *string `json:"zip,omitempty" mod:"trim" validate:"omitempty,max=20"`
	Email            *string `json:"email,omitempty" mod:"trim" validate:"omitempty,email"`
	Phone            *string `json:"phone,omitempty" mod:"trim" validate:"omitempty,max=50"`
	RegistrationDate *string `json:"registration_date,omitempty" validate:"omitempty,date"`
}

type ListCustomersQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Name   *string `query:"name" json:"name,omitempty" validate:"omitempty,max=200"`
	Email  *string `query:"email" json:"email,omitempty" validate:"omitempty,max=200"`
}
