package domain

import "github.com/smallbiznis/invoicedesk/pkg/money"

// Customer is a billed party on the dashboard.
type Customer struct {
	ID       string `gorm:"primaryKey" db:"id" json:"id"`
	Name     string `gorm:"not null" db:"name" json:"name"`
	Email    string `gorm:"not null;uniqueIndex" db:"email" json:"email"`
	ImageURL string `gorm:"column:image_url;not null" db:"image_url" json:"image_url"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// Option is the id/name pair used to populate customer pickers.
type Option struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Summary is a customer with invoice totals split by status. Amounts are cents.
type Summary struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Email         string `db:"email" json:"email"`
	ImageURL      string `db:"image_url" json:"image_url"`
	TotalInvoices int64  `db:"total_invoices" json:"total_invoices"`
	TotalPending  int64  `db:"total_pending" json:"total_pending"`
	TotalPaid     int64  `db:"total_paid" json:"total_paid"`
}

// View is a Summary with totals rendered for display.
type View struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ImageURL      string `json:"image_url"`
	TotalInvoices int64  `json:"total_invoices"`
	TotalPending  string `json:"total_pending"`
	TotalPaid     string `json:"total_paid"`
}

func NewView(s Summary) View {
	return View{
		ID:            s.ID,
		Name:          s.Name,
		Email:         s.Email,
		ImageURL:      s.ImageURL,
		TotalInvoices: s.TotalInvoices,
		TotalPending:  money.Cents(s.TotalPending).String(),
		TotalPaid:     money.Cents(s.TotalPaid).String(),
	}
}

// InvoiceTotal is the slice of an invoice that aggregation needs.
type InvoiceTotal struct {
	CustomerID string
	Status     string
	Amount     int64
}
