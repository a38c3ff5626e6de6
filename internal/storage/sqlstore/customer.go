package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/storage/storeerr"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
)

type CustomerRepositoryImpl struct {
	db *sqlx.DB
}

var _ customerdomain.Repository = (*CustomerRepositoryImpl)(nil)

func NewCustomerRepository(db *sqlx.DB) *CustomerRepositoryImpl {
	return &CustomerRepositoryImpl{db: db}
}

func (r *CustomerRepositoryImpl) Insert(ctx context.Context, c *customerdomain.Customer) error {
	const q = `INSERT INTO customers (id, name, email, image_url) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), c.ID, c.Name, c.Email, c.ImageURL)
	return storeerr.Customer(err)
}

func (r *CustomerRepositoryImpl) Update(ctx context.Context, c *customerdomain.Customer) error {
	const q = `UPDATE customers SET name = ?, email = ?, image_url = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), c.Name, c.Email, c.ImageURL, c.ID)
	if err != nil {
		return storeerr.Customer(err)
	}
	return affectedOrNotFound(res, customerdomain.ErrNotFound)
}

func (r *CustomerRepositoryImpl) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var invoices int64
		if err := tx.GetContext(ctx, &invoices, tx.Rebind(`SELECT COUNT(*) FROM invoices WHERE customer_id = ?`), id); err != nil {
			return storeerr.Generic(err)
		}
		if invoices > 0 {
			return customerdomain.ErrHasInvoices
		}

		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM customers WHERE id = ?`), id)
		if err != nil {
			return storeerr.Customer(err)
		}
		return affectedOrNotFound(res, customerdomain.ErrNotFound)
	})
}

func (r *CustomerRepositoryImpl) FindByID(ctx context.Context, id string) (*customerdomain.Customer, error) {
	var c customerdomain.Customer
	err := r.db.GetContext(ctx, &c, r.db.Rebind(`SELECT id, name, email, image_url FROM customers WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	return &c, nil
}

func (r *CustomerRepositoryImpl) ListOptions(ctx context.Context) ([]customerdomain.Option, error) {
	options := []customerdomain.Option{}
	err := r.db.SelectContext(ctx, &options, `SELECT id, name FROM customers ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	return options, nil
}

func (r *CustomerRepositoryImpl) ListSummaries(ctx context.Context, filter search.Filter, page pagination.Page) ([]customerdomain.Summary, error) {
	q := `
		SELECT
		    customers.id, customers.name, customers.email, customers.image_url,
		    COUNT(invoices.id) AS total_invoices,
		    CAST(COALESCE(SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END), 0) AS BIGINT) AS total_pending,
		    CAST(COALESCE(SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END), 0) AS BIGINT) AS total_paid
		FROM customers
		LEFT JOIN invoices ON invoices.customer_id = customers.id`
	where, args := searchClause(filter, search.CustomerColumns)
	q += where + `
		GROUP BY customers.id, customers.name, customers.email, customers.image_url
		ORDER BY customers.name ASC, customers.id ASC
		LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	summaries := []customerdomain.Summary{}
	if err := r.db.SelectContext(ctx, &summaries, r.db.Rebind(q), args...); err != nil {
		return nil, storeerr.Generic(err)
	}
	return summaries, nil
}

func (r *CustomerRepositoryImpl) CountFiltered(ctx context.Context, filter search.Filter) (int64, error) {
	where, args := searchClause(filter, search.CustomerColumns)
	var count int64
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM customers`+where), args...); err != nil {
		return 0, storeerr.Generic(err)
	}
	return count, nil
}

// searchClause returns " WHERE (...)" and its args, or nothing for an empty
// filter.
func searchClause(filter search.Filter, columns []string) (string, []any) {
	if filter.Empty() {
		return "", nil
	}
	return " WHERE " + search.Clause(columns, search.QuestionMark), filter.Args(columns)
}

func affectedOrNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeerr.Generic(err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
