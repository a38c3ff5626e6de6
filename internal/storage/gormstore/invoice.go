package gormstore

import (
	"context"

	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/storage/storeerr"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"github.com/smallbiznis/invoicedesk/pkg/money"
	"gorm.io/gorm"
)

const rowColumns = `invoices.id, invoices.amount, invoices.status,
	CAST(invoices.date AS TEXT) AS date,
	customers.name, customers.email, customers.image_url`

const joinCustomers = "JOIN customers ON customers.id = invoices.customer_id"

type invoiceRepo struct {
	db *gorm.DB
}

var _ invoicedomain.Repository = (*invoiceRepo)(nil)

func (r *invoiceRepo) Insert(ctx context.Context, invoice *invoicedomain.Invoice) error {
	return storeerr.Invoice(r.db.WithContext(ctx).Create(invoice).Error)
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *invoicedomain.Invoice) error {
	res := r.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"customer_id": invoice.CustomerID,
			"amount":      int64(invoice.Amount),
			"status":      string(invoice.Status),
		})
	if res.Error != nil {
		return storeerr.Invoice(res.Error)
	}
	if res.RowsAffected == 0 {
		return invoicedomain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&invoicedomain.Invoice{})
	if res.Error != nil {
		return storeerr.Invoice(res.Error)
	}
	if res.RowsAffected == 0 {
		return invoicedomain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) FindByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, customer_id, amount, status, CAST(date AS TEXT) AS date
		 FROM invoices WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	if invoice.ID == "" {
		return nil, nil
	}
	return &invoice, nil
}

func (r *invoiceRepo) ListLatest(ctx context.Context, limit int) ([]invoicedomain.Row, error) {
	var rows []invoicedomain.Row
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select(rowColumns).
		Joins(joinCustomers).
		Order("invoices.date DESC, invoices.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	return rows, nil
}

func (r *invoiceRepo) ListFiltered(ctx context.Context, filter search.Filter, page pagination.Page) ([]invoicedomain.Row, error) {
	stmt := r.db.WithContext(ctx).
		Table("invoices").
		Select(rowColumns).
		Joins(joinCustomers)
	stmt = whereSearch(stmt, filter, search.InvoiceColumns)

	var rows []invoicedomain.Row
	err := stmt.
		Order("invoices.date DESC, invoices.id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	return rows, nil
}

func (r *invoiceRepo) CountFiltered(ctx context.Context, filter search.Filter) (int64, error) {
	var count int64
	stmt := r.db.WithContext(ctx).Table("invoices").Joins(joinCustomers)
	stmt = whereSearch(stmt, filter, search.InvoiceColumns)
	if err := stmt.Count(&count).Error; err != nil {
		return 0, storeerr.Generic(err)
	}
	return count, nil
}

func (r *invoiceRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("invoices").Count(&count).Error; err != nil {
		return 0, storeerr.Generic(err)
	}
	return count, nil
}

func (r *invoiceRepo) SumByStatus(ctx context.Context, status invoicedomain.Status) (money.Cents, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT CAST(COALESCE(SUM(amount), 0) AS BIGINT) FROM invoices WHERE status = ?`,
		string(status),
	).Scan(&total).Error
	if err != nil {
		return 0, storeerr.Generic(err)
	}
	return money.Cents(total), nil
}
