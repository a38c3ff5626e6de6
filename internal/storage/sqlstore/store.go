// Package sqlstore implements the repositories with hand-written SQL on sqlx.
// Queries are written with "?" binds and rebound for the driver in use, so
// one store serves lib/pq and SQLite.
package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/migration"
	"github.com/smallbiznis/invoicedesk/pkg/db"
)

const Backend = "sql"

type Store struct {
	db        *sqlx.DB
	customers *CustomerRepositoryImpl
	invoices  *InvoiceRepositoryImpl
	users     *UserRepositoryImpl
	revenue   *RevenueRepositoryImpl
}

// New wraps an open sqlx handle. The store owns the handle from here on.
func New(conn *sqlx.DB) *Store {
	return &Store{
		db:        conn,
		customers: NewCustomerRepository(conn),
		invoices:  NewInvoiceRepository(conn),
		users:     NewUserRepository(conn),
		revenue:   NewRevenueRepository(conn),
	}
}

func (s *Store) Backend() string                            { return Backend }
func (s *Store) Customers() customerdomain.Repository       { return s.customers }
func (s *Store) Invoices() invoicedomain.Repository         { return s.invoices }
func (s *Store) Users() authdomain.Repository               { return s.users }
func (s *Store) Revenue() dashboarddomain.RevenueRepository { return s.revenue }

func (s *Store) Migrate(ctx context.Context) error {
	return migration.Up(ctx, s.db.DB, dialect(s.db))
}

func (s *Store) Close() error {
	return s.db.Close()
}

// dialect maps the sqlx driver name to the pkg/db database type.
func dialect(conn *sqlx.DB) string {
	switch conn.DriverName() {
	case "postgres", "pgx":
		return db.TypePostgres
	case "sqlite", "sqlite3":
		return db.TypeSQLite
	default:
		return conn.DriverName()
	}
}

func withTx(ctx context.Context, conn *sqlx.DB, fn func(*sqlx.Tx) error) error {
	t, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}
