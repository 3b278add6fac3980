package customers

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfdesk/shelfdesk/pkg/errcodes"
	"github.com/shelfdesk/shelfdesk/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveCustomerOptions struct {
	ID    *int
	Email *string
}

type ListCustomersOptions struct {
	Limit  *int
	Offset *int
	Name   *string
	Email  *string

	includeTotal bool
}

type UpdateCustomerOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	now := time.Now()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = customer.CreatedAt
	if customer.RegistrationDate.IsZero() {
		customer.RegistrationDate = models.Today()
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Customer)(nil)).
			Where("email = ? COLLATE NOCASE", customer.Email).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.Conflict("A customer with this email already exists.")
		}

		_, err = tx.NewInsert().
			Model(customer).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrieveCustomer(ctx context.Context, opts RetrieveCustomerOptions) (*models.Customer, error) {
	customer := &models.Customer{}

	q := svc.db.
		NewSelect().
		Model(customer)

	if opts.ID != nil {
		q = q.Where("cu.id = ?", *opts.ID)
	}
	if opts.Email != nil {
		q = q.Where("cu.email = ? COLLATE NOCASE", *opts.Email)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Customer")
		}
		return nil, errors.WithStack(err)
	}

	return customer, nil
}

func (svc *Service) ListCustomers(ctx context.Context, opts ListCustomersOptions) ([]*models.Customer, error) {
	c, _, err := svc.listCustomersWithTotal(ctx, opts)
	return c, errors.WithStack(err)
}

func (svc *Service) ListCustomersWithTotal(ctx context.Context, opts ListCustomersOptions) ([]*models.Customer, int, error) {
	opts.includeTotal = true
	return svc.listCustomersWithTotal(ctx, opts)
}

func (svc *Service) listCustomersWithTotal(ctx context.Context, opts ListCustomersOptions) ([]*models.Customer, int, error) {
	var custs []*models.Customer
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&custs).
		Order("cu.name ASC")

	if opts.Name != nil && *opts.Name != "" {
		q = q.Where("cu.name LIKE ?", "%"+*opts.Name+"%")
	}
	if opts.Email != nil && *opts.Email != "" {
		q = q.Where("cu.email LIKE ?", "%"+*opts.Email+"%")
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

	return custs, total, nil
}

func (svc *Service) UpdateCustomer(ctx context.Context, customer *models.Customer, opts UpdateCustomerOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	customer.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, col := range opts.Columns {
			if col != "email" {
				continue
			}
			exists, err := tx.NewSelect().
				Model((*models.Customer)(nil)).
				Where("email = ? COLLATE NOCASE", customer.Email).
				Where("id != ?", customer.ID).
				Exists(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if exists {
				return errcodes.Conflict("A customer with this email already exists.")
			}
		}

		_, err := tx.NewUpdate().
			Model(customer).
			Column(columns...).
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// DeleteCustomer deletes a customer. Customers that appear in the loan ledger
// can't be removed, otherwise their history would dangle.
func (svc *Service) DeleteCustomer(ctx context.Context, customerID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Customer)(nil)).
			Where("id = ?", customerID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Customer")
		}

		hasIssues, err := tx.NewSelect().
			Model((*models.Issue)(nil)).
			Where("customer_id = ?", customerID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if hasIssues {
			return errcodes.Conflict("Customer has loan records and can't be deleted.")
		}

		_, err = tx.NewDelete().
			Model((*models.Customer)(nil)).
			Where("id = ?", customerID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}
