package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/storage/storeerr"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"github.com/smallbiznis/invoicedesk/pkg/money"
)

const selectRows = `
	SELECT
		invoices.id, invoices.amount, invoices.status,
		CAST(invoices.date AS TEXT) AS date,
		customers.name, customers.email, customers.image_url
	FROM invoices
	JOIN customers ON customers.id = invoices.customer_id`

type invoiceRepo struct {
	pool *pgxpool.Pool
}

var _ invoicedomain.Repository = (*invoiceRepo)(nil)

func (r *invoiceRepo) Insert(ctx context.Context, inv *invoicedomain.Invoice) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invoices (id, customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4, CAST($5 AS DATE))
	`, inv.ID, inv.CustomerID, int64(inv.Amount), string(inv.Status), inv.Date)
	return storeerr.Invoice(err)
}

func (r *invoiceRepo) Update(ctx context.Context, inv *invoicedomain.Invoice) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices SET customer_id = $1, amount = $2, status = $3
		WHERE id = $4
	`, inv.CustomerID, int64(inv.Amount), string(inv.Status), inv.ID)
	if err != nil {
		return storeerr.Invoice(err)
	}
	if tag.RowsAffected() == 0 {
		return invoicedomain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return storeerr.Invoice(err)
	}
	if tag.RowsAffected() == 0 {
		return invoicedomain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) FindByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	var (
		inv    invoicedomain.Invoice
		amount int64
		status string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, amount, status, CAST(date AS TEXT)
		FROM invoices WHERE id = $1
	`, id).Scan(&inv.ID, &inv.CustomerID, &amount, &status, &inv.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("get invoice %s: %w", id, err))
	}
	inv.Amount = money.Cents(amount)
	inv.Status = invoicedomain.Status(status)
	return &inv, nil
}

func (r *invoiceRepo) ListLatest(ctx context.Context, limit int) ([]invoicedomain.Row, error) {
	rows, err := r.pool.Query(ctx, selectRows+`
	ORDER BY invoices.date DESC, invoices.id DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("list latest invoices: %w", err))
	}
	return collectRows(rows)
}

func (r *invoiceRepo) ListFiltered(ctx context.Context, filter search.Filter, page pagination.Page) ([]invoicedomain.Row, error) {
	where, args := searchClause(filter, search.InvoiceColumns)
	query := selectRows + where + `
	ORDER BY invoices.date DESC, invoices.id DESC` + limitOffset(len(args))
	args = append(args, page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("list invoices: %w", err))
	}
	return collectRows(rows)
}

func (r *invoiceRepo) CountFiltered(ctx context.Context, filter search.Filter) (int64, error) {
	where, args := searchClause(filter, search.InvoiceColumns)
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices JOIN customers ON customers.id = invoices.customer_id`+where,
		args...,
	).Scan(&count)
	if err != nil {
		return 0, storeerr.Generic(fmt.Errorf("count invoices: %w", err))
	}
	return count, nil
}

func (r *invoiceRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&count); err != nil {
		return 0, storeerr.Generic(fmt.Errorf("count invoices: %w", err))
	}
	return count, nil
}

func (r *invoiceRepo) SumByStatus(ctx context.Context, status invoicedomain.Status) (money.Cents, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT CAST(COALESCE(SUM(amount), 0) AS BIGINT) FROM invoices WHERE status = $1`,
		string(status),
	).Scan(&total)
	if err != nil {
		return 0, storeerr.Generic(fmt.Errorf("sum %s invoices: %w", status, err))
	}
	return money.Cents(total), nil
}

func collectRows(rows pgx.Rows) ([]invoicedomain.Row, error) {
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[invoicedomain.Row])
	if err != nil {
		return nil, storeerr.Generic(fmt.Errorf("iterate invoices: %w", err))
	}
	return out, nil
}
