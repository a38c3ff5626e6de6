package gormstore

import (
	"context"

	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/storage/storeerr"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"gorm.io/gorm"
)

const summaryColumns = `customers.id, customers.name, customers.email, customers.image_url,
	COUNT(invoices.id) AS total_invoices,
	CAST(COALESCE(SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END), 0) AS BIGINT) AS total_pending,
	CAST(COALESCE(SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END), 0) AS BIGINT) AS total_paid`

type customerRepo struct {
	db *gorm.DB
}

var _ customerdomain.Repository = (*customerRepo)(nil)

func (r *customerRepo) Insert(ctx context.Context, customer *customerdomain.Customer) error {
	return storeerr.Customer(r.db.WithContext(ctx).Create(customer).Error)
}

func (r *customerRepo) Update(ctx context.Context, customer *customerdomain.Customer) error {
	res := r.db.WithContext(ctx).
		Model(&customerdomain.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"name":      customer.Name,
			"email":     customer.Email,
			"image_url": customer.ImageURL,
		})
	if res.Error != nil {
		return storeerr.Customer(res.Error)
	}
	if res.RowsAffected == 0 {
		return customerdomain.ErrNotFound
	}
	return nil
}

// Delete refuses to remove a customer that still has invoices. The count and
// the delete share a transaction; the RESTRICT foreign key covers any insert
// that races in between.
func (r *customerRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoices int64
		if err := tx.Table("invoices").Where("customer_id = ?", id).Count(&invoices).Error; err != nil {
			return storeerr.Generic(err)
		}
		if invoices > 0 {
			return customerdomain.ErrHasInvoices
		}

		res := tx.Where("id = ?", id).Delete(&customerdomain.Customer{})
		if res.Error != nil {
			return storeerr.Customer(res.Error)
		}
		if res.RowsAffected == 0 {
			return customerdomain.ErrNotFound
		}
		return nil
	})
}

func (r *customerRepo) FindByID(ctx context.Context, id string) (*customerdomain.Customer, error) {
	var customer customerdomain.Customer
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, name, email, image_url FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	if customer.ID == "" {
		return nil, nil
	}
	return &customer, nil
}

func (r *customerRepo) ListOptions(ctx context.Context) ([]customerdomain.Option, error) {
	var options []customerdomain.Option
	err := r.db.WithContext(ctx).
		Table("customers").
		Select("id, name").
		Order("name ASC, id ASC").
		Scan(&options).Error
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	return options, nil
}

func (r *customerRepo) ListSummaries(ctx context.Context, filter search.Filter, page pagination.Page) ([]customerdomain.Summary, error) {
	stmt := r.db.WithContext(ctx).
		Table("customers").
		Select(summaryColumns).
		Joins("LEFT JOIN invoices ON invoices.customer_id = customers.id")
	stmt = whereSearch(stmt, filter, search.CustomerColumns)

	var summaries []customerdomain.Summary
	err := stmt.
		Group("customers.id, customers.name, customers.email, customers.image_url").
		Order("customers.name ASC, customers.id ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, storeerr.Generic(err)
	}
	return summaries, nil
}

func (r *customerRepo) CountFiltered(ctx context.Context, filter search.Filter) (int64, error) {
	var count int64
	stmt := whereSearch(r.db.WithContext(ctx).Table("customers"), filter, search.CustomerColumns)
	if err := stmt.Count(&count).Error; err != nil {
		return 0, storeerr.Generic(err)
	}
	return count, nil
}

func whereSearch(stmt *gorm.DB, filter search.Filter, columns []string) *gorm.DB {
	if filter.Empty() {
		return stmt
	}
	return stmt.Where(search.Clause(columns, search.QuestionMark), filter.Args(columns)...)
}
