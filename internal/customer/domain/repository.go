package domain

import (
	"context"

	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
)

// Repository persists customers. FindByID returns (nil, nil) for unknown ids.
type Repository interface {
	Insert(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	ListOptions(ctx context.Context) ([]Option, error)
	ListSummaries(ctx context.Context, filter search.Filter, page pagination.Page) ([]Summary, error)
	CountFiltered(ctx context.Context, filter search.Filter) (int64, error)
}
