package service

import (
	"context"
	"fmt"
	"sort"

	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var monthOrder = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Customers customerdomain.Repository
	Invoices  invoicedomain.Repository
	Revenue   dashboarddomain.RevenueRepository
}

type Service struct {
	log       *zap.Logger
	customers customerdomain.Repository
	invoices  invoicedomain.Repository
	revenue   dashboarddomain.RevenueRepository
}

func NewService(p Params) dashboarddomain.Service {
	return &Service{
		log:       p.Log.Named("dashboard.service"),
		customers: p.Customers,
		invoices:  p.Invoices,
		revenue:   p.Revenue,
	}
}

// CardSummary runs the four card queries concurrently. The first failure
// cancels the others and is returned.
func (s *Service) CardSummary(ctx context.Context) (dashboarddomain.Cards, error) {
	var (
		invoiceCount  int64
		customerCount int64
		paid          money.Cents
		pending       money.Cents
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.invoices.Count(gctx)
		if err != nil {
			return fmt.Errorf("count invoices: %w", err)
		}
		invoiceCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.customers.CountFiltered(gctx, search.Build(""))
		if err != nil {
			return fmt.Errorf("count customers: %w", err)
		}
		customerCount = n
		return nil
	})
	g.Go(func() error {
		total, err := s.invoices.SumByStatus(gctx, invoicedomain.StatusPaid)
		if err != nil {
			return fmt.Errorf("sum paid invoices: %w", err)
		}
		paid = total
		return nil
	})
	g.Go(func() error {
		total, err := s.invoices.SumByStatus(gctx, invoicedomain.StatusPending)
		if err != nil {
			return fmt.Errorf("sum pending invoices: %w", err)
		}
		pending = total
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("failed to fetch card data", zap.Error(err))
		return dashboarddomain.Cards{}, fmt.Errorf("fetch card data: %w", err)
	}

	return dashboarddomain.Cards{
		InvoiceCount:  invoiceCount,
		CustomerCount: customerCount,
		TotalPaid:     paid.String(),
		TotalPending:  pending.String(),
	}, nil
}

// Revenue returns the chart data in calendar order. Unknown labels sort last.
func (s *Service) Revenue(ctx context.Context) ([]dashboarddomain.Revenue, error) {
	revenue, err := s.revenue.List(ctx)
	if err != nil {
		s.log.Error("failed to fetch revenue", zap.Error(err))
		return nil, fmt.Errorf("fetch revenue data: %w", err)
	}
	if revenue == nil {
		revenue = []dashboarddomain.Revenue{}
	}

	sort.SliceStable(revenue, func(i, j int) bool {
		a, b := monthRank(revenue[i].Month), monthRank(revenue[j].Month)
		if a != b {
			return a < b
		}
		return revenue[i].Month < revenue[j].Month
	})
	return revenue, nil
}

func monthRank(month string) int {
	if rank, ok := monthOrder[month]; ok {
		return rank
	}
	return len(monthOrder) + 1
}
