// Package gormstore implements the repositories with the gorm query builder.
package gormstore

import (
	"context"
	"fmt"

	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/migration"
	"gorm.io/gorm"
)

const Backend = "gorm"

type Store struct {
	db        *gorm.DB
	customers *customerRepo
	invoices  *invoiceRepo
	users     *userRepo
	revenue   *revenueRepo
}

// New wraps an open gorm handle. The store owns the handle from here on.
func New(conn *gorm.DB) *Store {
	return &Store{
		db:        conn,
		customers: &customerRepo{db: conn},
		invoices:  &invoiceRepo{db: conn},
		users:     &userRepo{db: conn},
		revenue:   &revenueRepo{db: conn},
	}
}

func (s *Store) Backend() string                            { return Backend }
func (s *Store) Customers() customerdomain.Repository       { return s.customers }
func (s *Store) Invoices() invoicedomain.Repository         { return s.invoices }
func (s *Store) Users() authdomain.Repository               { return s.users }
func (s *Store) Revenue() dashboarddomain.RevenueRepository { return s.revenue }

// Migrate applies the embedded schema through the underlying *sql.DB.
func (s *Store) Migrate(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("gorm sql handle: %w", err)
	}
	return migration.Up(ctx, sqlDB, s.db.Dialector.Name())
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
