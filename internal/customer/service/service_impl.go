package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/smallbiznis/invoicedesk/internal/config"
	"github.com/smallbiznis/invoicedesk/internal/customer/domain"
	"github.com/smallbiznis/invoicedesk/internal/observability/metrics"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/validation"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	msgCreateFailed = "Missing fields. Failed to create customer."
	msgUpdateFailed = "Missing fields. Failed to update customer."
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Repo    domain.Repository
	Listing *config.ListingConfigHolder
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	repo    domain.Repository
	listing *config.ListingConfigHolder
	metrics *metrics.Metrics
	newID   func() string
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("customer.service"),
		repo:    p.Repo,
		listing: p.Listing,
		metrics: p.Metrics,
		newID:   func() string { return uuid.NewString() },
	}
}

func (s *Service) Create(ctx context.Context, input domain.CustomerInput) (domain.Customer, error) {
	input = normalize(input)
	if err := validation.Struct(input); err != nil {
		return domain.Customer{}, validation.Wrap(err, msgCreateFailed)
	}

	customer := domain.Customer{
		ID:       s.newID(),
		Name:     input.Name,
		Email:    input.Email,
		ImageURL: input.ImageURL,
	}
	if err := s.repo.Insert(ctx, &customer); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.Customer{}, err
		}
		s.log.Error("failed to create customer", zap.Error(err))
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	s.metrics.RecordCustomerWrite(ctx, "create")
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id string, input domain.CustomerInput) (domain.Customer, error) {
	if !validID(id) {
		return domain.Customer{}, domain.ErrNotFound
	}
	input = normalize(input)
	if err := validation.Struct(input); err != nil {
		return domain.Customer{}, validation.Wrap(err, msgUpdateFailed)
	}

	customer := domain.Customer{
		ID:       id,
		Name:     input.Name,
		Email:    input.Email,
		ImageURL: input.ImageURL,
	}
	if err := s.repo.Update(ctx, &customer); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.Customer{}, err
		}
		s.log.Error("failed to update customer", zap.String("customer_id", id), zap.Error(err))
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	s.metrics.RecordCustomerWrite(ctx, "update")
	return customer, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrHasInvoices) {
			return err
		}
		s.log.Error("failed to delete customer", zap.String("customer_id", id), zap.Error(err))
		return fmt.Errorf("delete customer: %w", err)
	}

	s.metrics.RecordCustomerWrite(ctx, "delete")
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	if !validID(id) {
		return domain.Customer{}, domain.ErrNotFound
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("failed to fetch customer", zap.String("customer_id", id), zap.Error(err))
		return domain.Customer{}, fmt.Errorf("fetch customer: %w", err)
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) ListOptions(ctx context.Context) ([]domain.Option, error) {
	options, err := s.repo.ListOptions(ctx)
	if err != nil {
		s.log.Error("failed to fetch customer options", zap.Error(err))
		return nil, fmt.Errorf("fetch all customers: %w", err)
	}
	if options == nil {
		options = []domain.Option{}
	}
	return options, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := search.Build(req.Query)
	page := pagination.Paginate(req.Page, s.listing.Get().PageSize)

	count, err := s.repo.CountFiltered(ctx, filter)
	if err != nil {
		s.log.Error("failed to count customers", zap.Error(err))
		return domain.ListResponse{}, fmt.Errorf("count customers: %w", err)
	}

	summaries, err := s.repo.ListSummaries(ctx, filter, page)
	if err != nil {
		s.log.Error("failed to list customers", zap.Error(err))
		return domain.ListResponse{}, fmt.Errorf("fetch customer table: %w", err)
	}
	views := make([]domain.View, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, domain.NewView(summary))
	}

	return domain.ListResponse{
		PageInfo:  pagination.BuildPageInfo(page, count),
		Customers: views,
	}, nil
}

func normalize(input domain.CustomerInput) domain.CustomerInput {
	return domain.CustomerInput{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		ImageURL: strings.TrimSpace(input.ImageURL),
	}
}

func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
