package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
)

// CustomerInput is the create/update payload.
type CustomerInput struct {
	Name     string `json:"name" validate:"required" msg:"Please enter a customer name."`
	Email    string `json:"email" validate:"required,email" msg:"Please enter a valid email address."`
	ImageURL string `json:"image_url" validate:"required" msg:"Please provide an image URL."`
}

type ListRequest struct {
	Query string
	Page  int
}

type ListResponse struct {
	pagination.PageInfo
	Customers []View `json:"customers"`
}

type Service interface {
	Create(ctx context.Context, input CustomerInput) (Customer, error)
	Update(ctx context.Context, id string, input CustomerInput) (Customer, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Customer, error)
	ListOptions(ctx context.Context) ([]Option, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrDuplicateEmail = errors.New("duplicate_email")
	ErrHasInvoices    = errors.New("customer_has_invoices")
)
