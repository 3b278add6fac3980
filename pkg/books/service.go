package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int
}

type ListBooksOptions struct {
	Limit   *int
	Offset  *int
	Title   *string
	Author  *string
	Subject *string

	includeTotal bool
}

type UpdateBookOptions struct {
	Columns []string
	// AuthorIDs and Subjects, when non-nil, replace the existing sets.
	AuthorIDs *[]int
	Subjects  *[]string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook inserts the book along with its author links and subjects in a
// single transaction.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book, authorIDs []int, subjects []string) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if err := replaceAuthors(ctx, tx, book.ID, authorIDs); err != nil {
			return err
		}
		return replaceSubjects(ctx, tx, book.ID, subjects)
	})
	if err != nil {
		return err
	}

	loaded, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	if err != nil {
		return err
	}
	*book = *loaded
	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Authors").
		Relation("Subjects").
		Relation("Covers")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Authors").
		Relation("Subjects").
		Relation("Covers").
		Order("b.title ASC")

	if opts.Title != nil && *opts.Title != "" {
		q = q.Where("b.title LIKE ?", "%"+*opts.Title+"%")
	}
	if opts.Author != nil && *opts.Author != "" {
		q = q.Where("b.id IN (SELECT ba.book_id FROM book_authors ba JOIN authors au ON au.id = ba.author_id WHERE au.name LIKE ?)", "%"+*opts.Author+"%")
	}
	if opts.Subject != nil && *opts.Subject != "" {
		q = q.Where("b.id IN (SELECT bs.book_id FROM book_subjects bs WHERE bs.subject LIKE ?)", "%"+*opts.Subject+"%")
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && opts.AuthorIDs == nil && opts.Subjects == nil {
		return nil
	}

	book.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if opts.AuthorIDs != nil {
			_, err = tx.NewDelete().
				Model((*models.BookAuthor)(nil)).
				Where("book_id = ?", book.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if err := replaceAuthors(ctx, tx, book.ID, *opts.AuthorIDs); err != nil {
				return err
			}
		}

		if opts.Subjects != nil {
			_, err = tx.NewDelete().
				Model((*models.BookSubject)(nil)).
				Where("book_id = ?", book.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if err := replaceSubjects(ctx, tx, book.ID, *opts.Subjects); err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteBook deletes a book together with its author links, subjects, covers,
// and showcase entry. Books that appear in the loan ledger can't be removed.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Book")
		}

		hasIssues, err := tx.NewSelect().
			Model((*models.Issue)(nil)).
			Where("book_id = ?", bookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if hasIssues {
			return errcodes.Conflict("Book has loan records and can't be deleted.")
		}

		_, err = tx.NewDelete().
			Model((*models.BookAuthor)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = tx.NewDelete().
			Model((*models.BookSubject)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = tx.NewDelete().
			Model((*models.BookCover)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = tx.NewDelete().
			Model((*models.ShowcaseEntry)(nil)).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// CreateCover records an uploaded cover image for a book.
func (svc *Service) CreateCover(ctx context.Context, cover *models.BookCover) error {
	if cover.CreatedAt.IsZero() {
		cover.CreatedAt = time.Now()
	}

	_, err := svc.db.
		NewInsert().
		Model(cover).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

// RetrieveCoverByFilename looks up a cover by its stored filename.
func (svc *Service) RetrieveCoverByFilename(ctx context.Context, filename string) (*models.BookCover, error) {
	cover := &models.BookCover{}
	err := svc.db.
		NewSelect().
		Model(cover).
		Where("bc.filename = ?", filename).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Cover")
		}
		return nil, errors.WithStack(err)
	}
	return cover, nil
}

func replaceAuthors(ctx context.Context, tx bun.Tx, bookID int, authorIDs []int) error {
	if len(authorIDs) == 0 {
		return nil
	}

	count, err := tx.NewSelect().
		Model((*models.Author)(nil)).
		Where("id IN (?)", bun.In(authorIDs)).
		Count(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if count != len(dedupeInts(authorIDs)) {
		return errcodes.NotFound("Author")
	}

	links := make([]*models.BookAuthor, 0, len(authorIDs))
	for _, id := range dedupeInts(authorIDs) {
		links = append(links, &models.BookAuthor{BookID: bookID, AuthorID: id})
	}
	_, err = tx.NewInsert().Model(&links).Exec(ctx)
	return errors.WithStack(err)
}

func replaceSubjects(ctx context.Context, tx bun.Tx, bookID int, subjects []string) error {
	if len(subjects) == 0 {
		return nil
	}

	rows := make([]*models.BookSubject, 0, len(subjects))
	seen := map[string]bool{}
	for _, s := range subjects {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		rows = append(rows, &models.BookSubject{BookID: bookID, Subject: s})
	}
	if len(rows) == 0 {
		return nil
	}
	_, err := tx.NewInsert().Model(&rows).Exec(ctx)
	return errors.WithStack(err)
}

func dedupeInts(ids []int) []int {
	seen := map[int]bool{}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
