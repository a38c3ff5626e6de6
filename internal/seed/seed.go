// Package seed loads the demo dataset.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	"github.com/smallbiznis/invoicedesk/internal/auth/password"
	"github.com/smallbiznis/invoicedesk/internal/config"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// invoiceNamespace derives stable invoice ids so reseeding finds earlier rows.
var invoiceNamespace = uuid.MustParse("6f1f6a2e-3a8b-4c55-9d43-1c0f6f3d2b7a")

// Result counts the rows a Run inserted. Existing rows are skipped.
type Result struct {
	Users     int
	Customers int
	Invoices  int
	Revenue   int
}

// Run inserts users, customers, invoices and revenue in that order. It is
// safe to call repeatedly.
func Run(ctx context.Context, store storage.Store) (Result, error) {
	var res Result

	for _, u := range users {
		_, err := store.Users().FindByEmail(ctx, u.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, authdomain.ErrUserNotFound) {
			return res, fmt.Errorf("find user %s: %w", u.Email, err)
		}
		hash, err := password.HashBcrypt(u.Password)
		if err != nil {
			return res, fmt.Errorf("hash password: %w", err)
		}
		err = store.Users().Insert(ctx, &authdomain.User{ID: u.ID, Name: u.Name, Email: u.Email, PasswordHash: hash})
		if err != nil && !errors.Is(err, authdomain.ErrUserExists) {
			return res, fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		if err == nil {
			res.Users++
		}
	}

	for _, c := range customers {
		existing, err := store.Customers().FindByID(ctx, c.ID)
		if err != nil {
			return res, fmt.Errorf("find customer %s: %w", c.ID, err)
		}
		if existing != nil {
			continue
		}
		err = store.Customers().Insert(ctx, &customerdomain.Customer{ID: c.ID, Name: c.Name, Email: c.Email, ImageURL: c.ImageURL})
		if err != nil {
			return res, fmt.Errorf("insert customer %s: %w", c.ID, err)
		}
		res.Customers++
	}

	for i, inv := range invoices {
		id := InvoiceID(i)
		existing, err := store.Invoices().FindByID(ctx, id)
		if err != nil {
			return res, fmt.Errorf("find invoice %s: %w", id, err)
		}
		if existing != nil {
			continue
		}
		err = store.Invoices().Insert(ctx, &invoicedomain.Invoice{
			ID:         id,
			CustomerID: customers[inv.Customer].ID,
			Amount:     inv.Amount,
			Status:     inv.Status,
			Date:       inv.Date,
		})
		if err != nil {
			return res, fmt.Errorf("insert invoice %s: %w", id, err)
		}
		res.Invoices++
	}

	for _, r := range revenue {
		r := r
		err := store.Revenue().Insert(ctx, &r)
		if errors.Is(err, dashboarddomain.ErrDuplicateMonth) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("insert revenue %s: %w", r.Month, err)
		}
		res.Revenue++
	}

	return res, nil
}

// InvoiceID is the id given to the i-th seeded invoice.
func InvoiceID(i int) string {
	return uuid.NewSHA1(invoiceNamespace, []byte(strconv.Itoa(i))).String()
}

// Module seeds on startup when SEED_ON_START is set.
var Module = fx.Module("seed",
	fx.Invoke(runOnStart),
)

func runOnStart(lc fx.Lifecycle, cfg config.Config, store storage.Store, log *zap.Logger) {
	if !cfg.SeedOnStart {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			res, err := Run(ctx, store)
			if err != nil {
				return err
			}
			log.Info("seeded database",
				zap.Int("users", res.Users),
				zap.Int("customers", res.Customers),
				zap.Int("invoices", res.Invoices),
				zap.Int("revenue", res.Revenue),
			)
			return nil
		},
	})
}
