package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:cu"`

	ID               int       `bun:",pk,nullzero" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Name             string    `bun:",nullzero" json:"name"`
	Address          *string   `json:"address"`
	City             *string   `json:"city"`
	Zip              *string   `json:"zip"`
	Email            string    `bun:",nullzero" json:"email"`
	Phone            *string   `json:"phone"`
	RegistrationDate Date      `bun:",nullzero" json:"registration_date"`
}
