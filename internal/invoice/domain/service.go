package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
)

// InvoiceInput is the create/update payload. Amount is a dollar string.
type InvoiceInput struct {
	CustomerID string `json:"customer_id" validate:"required" msg:"Please select a customer."`
	Amount     string `json:"amount" validate:"posdecimal" msg:"Please enter an amount greater than $0."`
	Status     string `json:"status" validate:"oneof=pending paid" msg:"Please select an invoice status."`
}

type ListRequest struct {
	Query string
	Page  int
}

type ListResponse struct {
	pagination.PageInfo
	Invoices []View `json:"invoices"`
}

type Service interface {
	Create(ctx context.Context, input InvoiceInput) (Invoice, error)
	Update(ctx context.Context, id string, input InvoiceInput) (Invoice, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Detail, error)
	ListLatest(ctx context.Context) ([]LatestInvoice, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrNotFound         = errors.New("not_found")
	ErrCustomerNotFound = errors.New("customer_not_found")
)
