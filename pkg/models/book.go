package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID               int            `bun:",pk,nullzero" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Title            string         `bun:",nullzero" json:"title"`
	Subtitle         *string        `json:"subtitle"`
	FirstPublishDate *Date          `json:"first_publish_date"`
	Description      *string        `json:"description"`
	Authors          []*Author      `bun:"m2m:book_authors,join:Book=Author" json:"authors,omitempty"`
	Subjects         []*BookSubject `bun:"rel:has-many,join:id=book_id" json:"subjects,omitempty"`
	Covers           []*BookCover   `bun:"rel:has-many,join:id=book_id" json:"covers,omitempty"`
}

// CoverURLs returns the public URLs of all uploaded covers in insertion
// order.
func (b *Book) CoverURLs() []string {
	urls := make([]string, 0, len(b.Covers))
	for _, cover := range b.Covers {
		urls = append(urls, cover.URL())
	}
	return urls
}

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
	Bio       *string   `json:"bio"`
	BirthDate *Date     `json:"birth_date"`
	DeathDate *Date     `json:"death_date"`
	Wikipedia *string   `json:"wikipedia"`
	Books     []*Book   `bun:"m2m:book_authors,join:Author=Book" json:"books,omitempty"`
}

// BookAuthor is the join table between books and authors.
type BookAuthor struct {
	bun.BaseModel `bun:"table:book_authors,alias:ba"`

	BookID   int     `bun:",pk" json:"book_id"`
	Book     *Book   `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	AuthorID int     `bun:",pk" json:"author_id"`
	Author   *Author `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
}

type BookSubject struct {
	bun.BaseModel `bun:"table:book_subjects,alias:bs"`

	ID      int    `bun:",pk,nullzero" json:"id"`
	BookID  int    `bun:",nullzero" json:"book_id"`
	Subject string `bun:",nullzero" json:"subject"`
}

type BookCover struct {
	bun.BaseModel `bun:"table:book_covers,alias:bc"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	BookID    int       `bun:",nullzero" json:"book_id"`
	Filename  string    `bun:",nullzero" json:"filename"`
}

// URL returns the public path the cover is served from. Only the generated
// filename is stored; the upload directory is a deployment concern.
func (bc *BookCover) URL() string {
	return "/books/covers/" + bc.Filename
}
