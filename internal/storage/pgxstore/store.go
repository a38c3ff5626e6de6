// Package pgxstore implements the repositories on a pgx connection pool with
// positional PostgreSQL binds. It only speaks PostgreSQL.
package pgxstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/migration"
	"github.com/smallbiznis/invoicedesk/pkg/db"
)

const Backend = "pgx"

type Store struct {
	pool      *pgxpool.Pool
	customers *customerRepo
	invoices  *invoiceRepo
	users     *userRepo
	revenue   *revenueRepo
}

// New wraps an open pool. The store owns the pool from here on.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:      pool,
		customers: &customerRepo{pool: pool},
		invoices:  &invoiceRepo{pool: pool},
		users:     &userRepo{pool: pool},
		revenue:   &revenueRepo{pool: pool},
	}
}

func (s *Store) Backend() string                            { return Backend }
func (s *Store) Customers() customerdomain.Repository       { return s.customers }
func (s *Store) Invoices() invoicedomain.Repository         { return s.invoices }
func (s *Store) Users() authdomain.Repository               { return s.users }
func (s *Store) Revenue() dashboarddomain.RevenueRepository { return s.revenue }

// Migrate runs golang-migrate over a database/sql view of the pool.
func (s *Store) Migrate(ctx context.Context) error {
	sqlDB := stdlib.OpenDBFromPool(s.pool)
	defer sqlDB.Close()
	if err := migration.Up(ctx, sqlDB, db.TypePostgres); err != nil {
		return fmt.Errorf("pgx migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
