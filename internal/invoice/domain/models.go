// Package domain contains invoice models and contracts.
package domain

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicedesk/pkg/money"
)

// Status represents invoice lifecycle states.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// DateLayout is the ISO calendar date stored in invoices.date.
const DateLayout = "2006-01-02"

// Invoice is a persisted invoice. Amount is in cents and Date is immutable
// after creation.
type Invoice struct {
	ID         string      `gorm:"primaryKey" db:"id" json:"id"`
	CustomerID string      `gorm:"column:customer_id;not null;index" db:"customer_id" json:"customer_id"`
	Amount     money.Cents `gorm:"not null" db:"amount" json:"amount"`
	Status     Status      `gorm:"type:varchar(16);not null" db:"status" json:"status"`
	Date       string      `gorm:"type:date;not null" db:"date" json:"date"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Row is an invoice joined with its customer.
type Row struct {
	ID       string      `db:"id"`
	Amount   money.Cents `db:"amount"`
	Status   Status      `db:"status"`
	Date     string      `db:"date"`
	Name     string      `db:"name"`
	Email    string      `db:"email"`
	ImageURL string      `db:"image_url"`
}

// Detail is the edit-form view of an invoice, amount in dollars.
type Detail struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     Status          `json:"status"`
}

// View is a listed invoice with a display amount.
type View struct {
	ID       string `json:"id"`
	Amount   string `json:"amount"`
	Status   Status `json:"status"`
	Date     string `json:"date"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// LatestInvoice is an entry of the recent invoices card.
type LatestInvoice struct {
	ID       string `json:"id"`
	Amount   string `json:"amount"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// NewView formats a joined row for display.
func NewView(r Row) View {
	return View{
		ID:       r.ID,
		Amount:   r.Amount.String(),
		Status:   r.Status,
		Date:     r.Date,
		Name:     r.Name,
		Email:    r.Email,
		ImageURL: r.ImageURL,
	}
}

// NewLatestInvoice formats a joined row for the latest invoices card.
func NewLatestInvoice(r Row) LatestInvoice {
	return LatestInvoice{
		ID:       r.ID,
		Amount:   r.Amount.String(),
		Name:     r.Name,
		Email:    r.Email,
		ImageURL: r.ImageURL,
	}
}
