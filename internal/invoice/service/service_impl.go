package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/smallbiznis/invoicedesk/internal/clock"
	"github.com/smallbiznis/invoicedesk/internal/config"
	"github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/observability/metrics"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/validation"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"github.com/smallbiznis/invoicedesk/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	msgCreateFailed = "Missing fields. Failed to create invoice."
	msgUpdateFailed = "Missing fields. Failed to update invoice."
	msgAmount       = "Please enter an amount greater than $0."
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    domain.Repository
	Clock   clock.Clock
	Listing *config.ListingConfigHolder
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	repo    domain.Repository
	clock   clock.Clock
	listing *config.ListingConfigHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("invoice.service"),
		repo:    p.Repo,
		clock:   p.Clock,
		listing: p.Listing,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, input domain.InvoiceInput) (domain.Invoice, error) {
	input, amount, err := parse(input, msgCreateFailed)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice := domain.Invoice{
		ID:         uuid.NewString(),
		CustomerID: input.CustomerID,
		Amount:     amount,
		Status:     domain.Status(input.Status),
		Date:       clock.Today(s.clock),
	}
	if err := s.repo.Insert(ctx, &invoice); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.Invoice{}, err
		}
		s.log.Error("failed to create invoice", zap.Error(err))
		return domain.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}

	s.metrics.RecordInvoiceWrite(ctx, "create", string(invoice.Status))
	return invoice, nil
}

// Update rewrites customer, amount and status. The issue date never changes.
func (s *Service) Update(ctx context.Context, id string, input domain.InvoiceInput) (domain.Invoice, error) {
	if !validID(id) {
		return domain.Invoice{}, domain.ErrNotFound
	}
	input, amount, err := parse(input, msgUpdateFailed)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice := domain.Invoice{
		ID:         id,
		CustomerID: input.CustomerID,
		Amount:     amount,
		Status:     domain.Status(input.Status),
	}
	if err := s.repo.Update(ctx, &invoice); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.Invoice{}, err
		}
		s.log.Error("failed to update invoice", zap.String("invoice_id", id), zap.Error(err))
		return domain.Invoice{}, fmt.Errorf("update invoice: %w", err)
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("reload invoice: %w", err)
	}
	if stored == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	s.metrics.RecordInvoiceWrite(ctx, "update", string(stored.Status))
	return *stored, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.log.Error("failed to delete invoice", zap.String("invoice_id", id), zap.Error(err))
		return fmt.Errorf("delete invoice: %w", err)
	}

	s.metrics.RecordInvoiceWrite(ctx, "delete", "")
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Detail, error) {
	if !validID(id) {
		return domain.Detail{}, domain.ErrNotFound
	}
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("failed to fetch invoice", zap.String("invoice_id", id), zap.Error(err))
		return domain.Detail{}, fmt.Errorf("fetch invoice: %w", err)
	}
	if invoice == nil {
		return domain.Detail{}, domain.ErrNotFound
	}
	return domain.Detail{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     invoice.Amount.Major(),
		Status:     invoice.Status,
	}, nil
}

func (s *Service) ListLatest(ctx context.Context) ([]domain.LatestInvoice, error) {
	rows, err := s.repo.ListLatest(ctx, s.listing.Get().LatestLimit)
	if err != nil {
		s.log.Error("failed to fetch latest invoices", zap.Error(err))
		return nil, fmt.Errorf("fetch the latest invoices: %w", err)
	}

	latest := make([]domain.LatestInvoice, 0, len(rows))
	for _, row := range rows {
		latest = append(latest, domain.NewLatestInvoice(row))
	}
	return latest, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := search.Build(req.Query)
	page := pagination.Paginate(req.Page, s.listing.Get().PageSize)

	count, err := s.repo.CountFiltered(ctx, filter)
	if err != nil {
		s.log.Error("failed to count invoices", zap.Error(err))
		return domain.ListResponse{}, fmt.Errorf("fetch total number of invoices: %w", err)
	}

	rows, err := s.repo.ListFiltered(ctx, filter, page)
	if err != nil {
		s.log.Error("failed to list invoices", zap.Error(err))
		return domain.ListResponse{}, fmt.Errorf("fetch invoices: %w", err)
	}

	views := make([]domain.View, 0, len(rows))
	for _, row := range rows {
		views = append(views, domain.NewView(row))
	}
	return domain.ListResponse{
		PageInfo: pagination.BuildPageInfo(page, count),
		Invoices: views,
	}, nil
}

// parse validates the payload and converts the dollar amount to cents.
// Amounts that survive the decimal check but round to zero cents are
// reported against the amount field. A customer id that is not a canonical
// UUID cannot reference a stored customer.
func parse(input domain.InvoiceInput, message string) (domain.InvoiceInput, money.Cents, error) {
	input.CustomerID = strings.TrimSpace(input.CustomerID)
	input.Status = strings.TrimSpace(input.Status)
	if err := validation.Struct(input); err != nil {
		return input, 0, validation.Wrap(err, message)
	}

	amount, err := money.ParseMajor(input.Amount)
	if err != nil {
		return input, 0, &validation.Error{
			Message: message,
			Fields:  validation.FieldErrors{"amount": {msgAmount}},
		}
	}
	if !validID(input.CustomerID) {
		return input, 0, domain.ErrCustomerNotFound
	}
	return input, amount, nil
}

// validID accepts only the 36-character hyphenated form stored in id columns.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
