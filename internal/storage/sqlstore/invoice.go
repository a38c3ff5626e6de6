package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
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

type InvoiceRepositoryImpl struct {
	db *sqlx.DB
}

var _ invoicedomain.Repository = (*InvoiceRepositoryImpl)(nil)

func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepositoryImpl {
	return &InvoiceRepositoryImpl{db: db}
}

func (r *InvoiceRepositoryImpl) Insert(ctx context.Context, inv *invoicedomain.Invoice) error {
	const q = `
		INSERT INTO invoices
		    (id, customer_id, amount, status, date)
		VALUES
		    (?,  ?,           ?,      ?,      ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		inv.ID, inv.CustomerID, int64(inv.Amount), string(inv.Status), inv.Date,
	)
	return storeerr.Invoice(err)
}

func (r *InvoiceRepositoryImpl) Update(ctx context.Context, inv *invoicedomain.Invoice) error {
	const q = `UPDATE invoices SET customer_id = ?, amount = ?, status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		inv.CustomerID, int64(inv.Amount), string(inv.Status), inv.ID,
	)
	if err != nil {
		return storeerr.Invoice(err)
	}
	return affectedOrNotFound(res, invoicedomain.ErrNotFound)
}

func (r *InvoiceRepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM invoices WHERE id = ?`), id)
	if err != nil {
		return storeerr.Invoice(err)
	}
	return affectedOrNotFound(res, invoicedomain.ErrNotFound)
}

func (r *InvoiceRepositoryImpl) FindByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	const q = `SELECT id, customer_id, amount, status, CAST(date AS TEXT) AS date FROM invoices WHERE id = ?`
	var inv invoicedomain.Invoice
	err := r.db.GetContext(ctx, &inv, r.db.Rebind(q), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	return &inv, nil
}

func (r *InvoiceRepositoryImpl) ListLatest(ctx context.Context, limit int) ([]invoicedomain.Row, error) {
	q := selectRows + `
	ORDER BY invoices.date DESC, invoices.id DESC
	LIMIT ?`
	rows := []invoicedomain.Row{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), limit); err != nil {
		return nil, storeerr.Generic(err)
	}
	return rows, nil
}

func (r *InvoiceRepositoryImpl) ListFiltered(ctx context.Context, filter search.Filter, page pagination.Page) ([]invoicedomain.Row, error) {
	where, args := searchClause(filter, search.InvoiceColumns)
	q := selectRows + where + `
	ORDER BY invoices.date DESC, invoices.id DESC
	LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	rows := []invoicedomain.Row{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, storeerr.Generic(err)
	}
	return rows, nil
}

func (r *InvoiceRepositoryImpl) CountFiltered(ctx context.Context, filter search.Filter) (int64, error) {
	where, args := searchClause(filter, search.InvoiceColumns)
	q := `SELECT COUNT(*) FROM invoices JOIN customers ON customers.id = invoices.customer_id` + where
	var count int64
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(q), args...); err != nil {
		return 0, storeerr.Generic(err)
	}
	return count, nil
}

func (r *InvoiceRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM invoices`); err != nil {
		return 0, storeerr.Generic(err)
	}
	return count, nil
}

func (r *InvoiceRepositoryImpl) SumByStatus(ctx context.Context, status invoicedomain.Status) (money.Cents, error) {
	const q = `SELECT CAST(COALESCE(SUM(amount), 0) AS BIGINT) FROM invoices WHERE status = ?`
	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(q), string(status)); err != nil {
		return 0, storeerr.Generic(err)
	}
	return money.Cents(total), nil
}
