// Package domain contains the dashboard card and revenue models.
package domain

// Revenue is one month of the revenue chart.
type Revenue struct {
	Month   string `gorm:"column:month;uniqueIndex;not null" db:"month" json:"month"`
	Revenue int64  `gorm:"column:revenue;not null" db:"revenue" json:"revenue"`
}

// TableName sets the database table name.
func (Revenue) TableName() string { return "revenue" }

// Cards are the four overview figures. Totals are display strings.
type Cards struct {
	InvoiceCount  int64  `json:"invoice_count"`
	CustomerCount int64  `json:"customer_count"`
	TotalPaid     string `json:"total_paid"`
	TotalPending  string `json:"total_pending"`
}
