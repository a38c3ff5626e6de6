// Package storeerr translates driver errors into domain errors. Every SQL
// store funnels its write errors through here so all backends report the same
// taxonomy.
package storeerr

import (
	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/pkg/db"
)

// Customer maps customer write errors. A foreign key failure can only come
// from deleting a customer that invoices still reference.
func Customer(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsDuplicateKeyErr(err):
		return customerdomain.ErrDuplicateEmail
	case db.IsForeignKeyErr(err):
		return customerdomain.ErrHasInvoices
	}
	return Generic(err)
}

// Invoice maps invoice write errors.
func Invoice(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsForeignKeyErr(err):
		return invoicedomain.ErrCustomerNotFound
	}
	return Generic(err)
}

// User maps user write errors.
func User(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsDuplicateKeyErr(err):
		return authdomain.ErrUserExists
	}
	return Generic(err)
}

// Revenue maps revenue write errors.
func Revenue(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsDuplicateKeyErr(err):
		return dashboarddomain.ErrDuplicateMonth
	}
	return Generic(err)
}

// Generic marks connectivity failures as unavailable and passes anything else
// through.
func Generic(err error) error {
	return db.Unavailable(err)
}
