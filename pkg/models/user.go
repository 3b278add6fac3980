package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `bun:",nullzero" json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Never expose password hash
	Role         string    `bun:",nullzero" json:"role"`
	IsActive     bool      `json:"is_active"`
}

// IsAdmin reports whether the user passes the admin gate required by all
// ledger and reporting mutations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
