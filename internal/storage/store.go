// Package storage selects and wires the persistence strategy. Every backend
// implements the same repository contracts and passes the same conformance
// suite in storagetest.
package storage

import (
	"context"

	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
)

// Store bundles the repositories of one backend around a shared pool.
type Store interface {
	Backend() string
	Customers() customerdomain.Repository
	Invoices() invoicedomain.Repository
	Users() authdomain.Repository
	Revenue() dashboarddomain.RevenueRepository
	Migrate(ctx context.Context) error
	Close() error
}
