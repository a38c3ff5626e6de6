package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/storage/memstore"
	"github.com/smallbiznis/invoicedesk/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockInvoices stubs only the reads the dashboard issues.
type mockInvoices struct {
	invoicedomain.Repository
	mock.Mock
}

func (m *mockInvoices) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockInvoices) SumByStatus(ctx context.Context, status invoicedomain.Status) (money.Cents, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(money.Cents), args.Error(1)
}

type mockCustomers struct {
	customerdomain.Repository
	mock.Mock
}

func (m *mockCustomers) CountFiltered(ctx context.Context, filter search.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newService(customers customerdomain.Repository, invoices invoicedomain.Repository, revenue dashboarddomain.RevenueRepository) *Service {
	return NewService(Params{
		Log:       zap.NewNop(),
		Customers: customers,
		Invoices:  invoices,
		Revenue:   revenue,
	}).(*Service)
}

func TestCardSummary(t *testing.T) {
	invoices := &mockInvoices{}
	invoices.On("Count", mock.Anything).Return(int64(13), nil)
	invoices.On("SumByStatus", mock.Anything, invoicedomain.StatusPaid).Return(money.Cents(150000), nil)
	invoices.On("SumByStatus", mock.Anything, invoicedomain.StatusPending).Return(money.Cents(0), nil)
	customers := &mockCustomers{}
	customers.On("CountFiltered", mock.Anything, search.Build("")).Return(int64(6), nil)

	cards, err := newService(customers, invoices, nil).CardSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dashboarddomain.Cards{
		InvoiceCount:  13,
		CustomerCount: 6,
		TotalPaid:     "$1,500.00",
		TotalPending:  "$0.00",
	}, cards)
	invoices.AssertExpectations(t)
	customers.AssertExpectations(t)
}

// cancelAwareInvoices blocks the pending sum until the group context is
// cancelled, proving a failure elsewhere stops the remaining reads.
type cancelAwareInvoices struct {
	invoicedomain.Repository
	cancelled atomic.Bool
}

func (r *cancelAwareInvoices) Count(context.Context) (int64, error) {
	return 0, errors.New("connection reset")
}

func (r *cancelAwareInvoices) SumByStatus(ctx context.Context, _ invoicedomain.Status) (money.Cents, error) {
	<-ctx.Done()
	r.cancelled.Store(true)
	return 0, ctx.Err()
}

func TestCardSummaryFailsFast(t *testing.T) {
	invoices := &cancelAwareInvoices{}
	customers := &mockCustomers{}
	customers.On("CountFiltered", mock.Anything, mock.Anything).Return(int64(1), nil)

	_, err := newService(customers, invoices, nil).CardSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, invoices.cancelled.Load())
}

func TestRevenueCalendarOrder(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	for _, r := range []dashboarddomain.Revenue{
		{Month: "Dec", Revenue: 4800},
		{Month: "Apr", Revenue: 2500},
		{Month: "Jan", Revenue: 2000},
		{Month: "Feb", Revenue: 1800},
	} {
		r := r
		require.NoError(t, store.Revenue().Insert(ctx, &r))
	}

	got, err := newService(nil, nil, store.Revenue()).Revenue(ctx)
	require.NoError(t, err)
	months := make([]string, 0, len(got))
	for _, r := range got {
		months = append(months, r.Month)
	}
	assert.Equal(t, []string{"Jan", "Feb", "Apr", "Dec"}, months)
}

func TestRevenueEmpty(t *testing.T) {
	got, err := newService(nil, nil, memstore.New().Revenue()).Revenue(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

