package models

import (
	"github.com/uptrace/bun"
)

// ShowcaseEntry pins a book to the homepage at a dense 1-based position.
// The whole set is replaced atomically; entries are never edited in place.
type ShowcaseEntry struct {
	bun.BaseModel `bun:"table:showcase,alias:sc"`

	ID       int   `bun:",pk,nullzero" json:"id"`
	BookID   int   `bun:",nullzero" json:"book_id"`
	Book     *Book `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Position int   `bun:",nullzero" json:"position"`
}
