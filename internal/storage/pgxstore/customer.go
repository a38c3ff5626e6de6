package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/storage/storeerr"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
)

type customerRepo struct {
	pool *pgxpool.Pool
}

var _ customerdomain.Repository = (*customerRepo)(nil)

func (r *customerRepo) Insert(ctx context.Context, c *customerdomain.Customer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (id, name, email, image_url)
		VALUES ($1, $2, $3, $4)
	`, c.ID, c.Name, c.Email, c.ImageURL)
	return storeerr.Customer(err)
}

func (r *customerRepo) Update(ctx context.Context, c *customerdomain.Customer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers SET name = $1, email = $2, image_url = $3
		WHERE id = $4
	`, c.Name, c.Email, c.ImageURL, c.ID)
	if err != nil {
		return storeerr.Customer(err)
	}
	if tag.RowsAffected() == 0 {
		return customerdomain.ErrNotFound
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storeerr.Generic(fmt.Errorf("begin delete customer tx: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var invoices int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE customer_id = $1`, id).Scan(&invoices); err != nil {
		return storeerr.Generic(err)
	}
	if invoices > 0 {
		return customerdomain.ErrHasInvoices
	}

	tag, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return storeerr.Customer(err)
	}
	if tag.RowsAffected() == 0 {
		return customerdomain.ErrNotFound
	}
	return storeerr.Customer(tx.Commit(ctx))
}

func (r *customerRepo) FindByID(ctx context.Context, id string) (*customerdomain.Customer, error) {
	var c customerdomain.Customer
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, image_url FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("get customer %s: %w", id, err))
	}
	return &c, nil
}

func (r *customerRepo) ListOptions(ctx context.Context) ([]customerdomain.Option, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM customers ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("list customer options: %w", err))
	}
	options, err := pgx.CollectRows(rows, pgx.RowToStructByName[customerdomain.Option])
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("iterate customer options: %w", err))
	}
	return options, nil
}

func (r *customerRepo) ListSummaries(ctx context.Context, filter search.Filter, page pagination.Page) ([]customerdomain.Summary, error) {
	where, args := searchClause(filter, search.CustomerColumns)
	query := `
		SELECT
			customers.id, customers.name, customers.email, customers.image_url,
			COUNT(invoices.id) AS total_invoices,
			CAST(COALESCE(SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END), 0) AS BIGINT) AS total_pending,
			CAST(COALESCE(SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END), 0) AS BIGINT) AS total_paid
		FROM customers
		LEFT JOIN invoices ON invoices.customer_id = customers.id` + where + `
		GROUP BY customers.id, customers.name, customers.email, customers.image_url
		ORDER BY customers.name ASC, customers.id ASC` + limitOffset(len(args))
	args = append(args, page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("list customers: %w", err))
	}
	summaries, err := pgx.CollectRows(rows, pgx.RowToStructByName[customerdomain.Summary])
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("iterate customers: %w", err))
	}
	return summaries, nil
}

func (r *customerRepo) CountFiltered(ctx context.Context, filter search.Filter) (int64, error) {
	where, args := searchClause(filter, search.CustomerColumns)
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&count); err != nil {
		return 0, storeerr.Generic(fmt.Errorf("count customers: %w", err))
	}
	return count, nil
}

func searchClause(filter search.Filter, columns []string) (string, []any) {
	if filter.Empty() {
		return "", nil
	}
	return " WHERE " + search.Clause(columns, search.Dollar(0)), filter.Args(columns)
}

// limitOffset renders LIMIT/OFFSET binds after n existing arguments.
func limitOffset(n int) string {
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
}
