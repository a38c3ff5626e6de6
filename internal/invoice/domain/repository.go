package domain

import (
	"context"

	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"github.com/smallbiznis/invoicedesk/pkg/money"
)

// Repository persists invoices. FindByID returns (nil, nil) for unknown ids.
// Update writes customer_id, amount and status only.
type Repository interface {
	Insert(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Invoice, error)
	ListLatest(ctx context.Context, limit int) ([]Row, error)
	ListFiltered(ctx context.Context, filter search.Filter, page pagination.Page) ([]Row, error)
	CountFiltered(ctx context.Context, filter search.Filter) (int64, error)
	Count(ctx context.Context) (int64, error)
	SumByStatus(ctx context.Context, status Status) (money.Cents, error)
}
