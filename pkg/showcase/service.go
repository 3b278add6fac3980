package showcase

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Set replaces the entire showcase. Every id is validated before anything is
// written, duplicates are dropped while keeping first-seen order, and the
// clear plus insert run in one transaction so readers never see a partial
// list.
func (svc *Service) Set(ctx context.Context, bookIDs []int) ([]*models.ShowcaseEntry, error) {
	deduped := make([]int, 0, len(bookIDs))
	seen := map[int]bool{}
	for _, id := range bookIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		deduped = append(deduped, id)
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, id := range deduped {
			exists, err := tx.NewSelect().
				Model((*models.Book)(nil)).
				Where("id = ?", id).
				Exists(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if !exists {
				return errcodes.NotFound(fmt.Sprintf("Book with id %d", id))
			}
		}

		_, err := tx.NewDelete().
			Model((*models.ShowcaseEntry)(nil)).
			Where("1 = 1").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if len(deduped) == 0 {
			return nil
		}

		entries := make([]*models.ShowcaseEntry, 0, len(deduped))
		for i, id := range deduped {
			entries = append(entries, &models.ShowcaseEntry{
				BookID:   id,
				Position: i + 1,
			})
		}
		_, err = tx.NewInsert().Model(&entries).Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	return svc.Get(ctx)
}

// Get returns the showcase ordered by position, with the book display
// fields loaded.
func (svc *Service) Get(ctx context.Context) ([]*models.ShowcaseEntry, error) {
	entries := []*models.ShowcaseEntry{}

	err := svc.db.
		NewSelect().
		Model(&entries).
		Relation("Book").
		Relation("Book.Authors").
		Relation("Book.Covers").
		Order("sc.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return entries, nil
}
