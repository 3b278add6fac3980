package auth

// RegisterPayload represents the registration request body.
type RegisterPayload struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
}

// LoginPayload represents the login request body.
type LoginPayload struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// MeResponse represents the current user response.
type MeResponse struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Role     string  `json:"role"`
}
