package storage

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/observability/metrics"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"github.com/smallbiznis/invoicedesk/pkg/money"
)

// domainErrors are expected outcomes, not store failures.
var domainErrors = []error{
	customerdomain.ErrNotFound,
	customerdomain.ErrDuplicateEmail,
	customerdomain.ErrHasInvoices,
	invoicedomain.ErrNotFound,
	invoicedomain.ErrCustomerNotFound,
	authdomain.ErrUserNotFound,
	authdomain.ErrUserExists,
	dashboarddomain.ErrDuplicateMonth,
}

// Instrument wraps every repository of store so each call is timed and
// failures are counted per backend.
func Instrument(store Store, m *metrics.StoreMetrics) Store {
	if m == nil {
		return store
	}
	o := observer{backend: store.Backend(), metrics: m}
	return &instrumentedStore{
		Store:     store,
		customers: &instrumentedCustomers{next: store.Customers(), o: o},
		invoices:  &instrumentedInvoices{next: store.Invoices(), o: o},
		users:     &instrumentedUsers{next: store.Users(), o: o},
		revenue:   &instrumentedRevenue{next: store.Revenue(), o: o},
	}
}

type observer struct {
	backend string
	metrics *metrics.StoreMetrics
}

func (o observer) observe(operation string, started time.Time, err error) {
	for _, expected := range domainErrors {
		if errors.Is(err, expected) {
			err = nil
			break
		}
	}
	o.metrics.Observe(o.backend, operation, started, err)
}

type instrumentedStore struct {
	Store
	customers customerdomain.Repository
	invoices  invoicedomain.Repository
	users     authdomain.Repository
	revenue   dashboarddomain.RevenueRepository
}

func (s *instrumentedStore) Customers() customerdomain.Repository       { return s.customers }
func (s *instrumentedStore) Invoices() invoicedomain.Repository         { return s.invoices }
func (s *instrumentedStore) Users() authdomain.Repository               { return s.users }
func (s *instrumentedStore) Revenue() dashboarddomain.RevenueRepository { return s.revenue }

type instrumentedCustomers struct {
	next customerdomain.Repository
	o    observer
}

func (r *instrumentedCustomers) Insert(ctx context.Context, c *customerdomain.Customer) (err error) {
	defer func(start time.Time) { r.o.observe("customer.insert", start, err) }(time.Now())
	return r.next.Insert(ctx, c)
}

func (r *instrumentedCustomers) Update(ctx context.Context, c *customerdomain.Customer) (err error) {
	defer func(start time.Time) { r.o.observe("customer.update", start, err) }(time.Now())
	return r.next.Update(ctx, c)
}

func (r *instrumentedCustomers) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { r.o.observe("customer.delete", start, err) }(time.Now())
	return r.next.Delete(ctx, id)
}

func (r *instrumentedCustomers) FindByID(ctx context.Context, id string) (c *customerdomain.Customer, err error) {
	defer func(start time.Time) { r.o.observe("customer.find", start, err) }(time.Now())
	return r.next.FindByID(ctx, id)
}

func (r *instrumentedCustomers) ListOptions(ctx context.Context) (out []customerdomain.Option, err error) {
	defer func(start time.Time) { r.o.observe("customer.options", start, err) }(time.Now())
	return r.next.ListOptions(ctx)
}

func (r *instrumentedCustomers) ListSummaries(ctx context.Context, filter search.Filter, page pagination.Page) (out []customerdomain.Summary, err error) {
	defer func(start time.Time) { r.o.observe("customer.list", start, err) }(time.Now())
	return r.next.ListSummaries(ctx, filter, page)
}

func (r *instrumentedCustomers) CountFiltered(ctx context.Context, filter search.Filter) (n int64, err error) {
	defer func(start time.Time) { r.o.observe("customer.count", start, err) }(time.Now())
	return r.next.CountFiltered(ctx, filter)
}

type instrumentedInvoices struct {
	next invoicedomain.Repository
	o    observer
}

func (r *instrumentedInvoices) Insert(ctx context.Context, inv *invoicedomain.Invoice) (err error) {
	defer func(start time.Time) { r.o.observe("invoice.insert", start, err) }(time.Now())
	return r.next.Insert(ctx, inv)
}

func (r *instrumentedInvoices) Update(ctx context.Context, inv *invoicedomain.Invoice) (err error) {
	defer func(start time.Time) { r.o.observe("invoice.update", start, err) }(time.Now())
	return r.next.Update(ctx, inv)
}

func (r *instrumentedInvoices) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { r.o.observe("invoice.delete", start, err) }(time.Now())
	return r.next.Delete(ctx, id)
}

func (r *instrumentedInvoices) FindByID(ctx context.Context, id string) (inv *invoicedomain.Invoice, err error) {
	defer func(start time.Time) { r.o.observe("invoice.find", start, err) }(time.Now())
	return r.next.FindByID(ctx, id)
}

func (r *instrumentedInvoices) ListLatest(ctx context.Context, limit int) (out []invoicedomain.Row, err error) {
	defer func(start time.Time) { r.o.observe("invoice.latest", start, err) }(time.Now())
	return r.next.ListLatest(ctx, limit)
}

func (r *instrumentedInvoices) ListFiltered(ctx context.Context, filter search.Filter, page pagination.Page) (out []invoicedomain.Row, err error) {
	defer func(start time.Time) { r.o.observe("invoice.list", start, err) }(time.Now())
	return r.next.ListFiltered(ctx, filter, page)
}

func (r *instrumentedInvoices) CountFiltered(ctx context.Context, filter search.Filter) (n int64, err error) {
	defer func(start time.Time) { r.o.observe("invoice.count_filtered", start, err) }(time.Now())
	return r.next.CountFiltered(ctx, filter)
}

func (r *instrumentedInvoices) Count(ctx context.Context) (n int64, err error) {
	defer func(start time.Time) { r.o.observe("invoice.count", start, err) }(time.Now())
	return r.next.Count(ctx)
}

func (r *instrumentedInvoices) SumByStatus(ctx context.Context, status invoicedomain.Status) (total money.Cents, err error) {
	defer func(start time.Time) { r.o.observe("invoice.sum", start, err) }(time.Now())
	return r.next.SumByStatus(ctx, status)
}

type instrumentedUsers struct {
	next authdomain.Repository
	o    observer
}

func (r *instrumentedUsers) FindByEmail(ctx context.Context, email string) (u *authdomain.User, err error) {
	defer func(start time.Time) { r.o.observe("user.find", start, err) }(time.Now())
	return r.next.FindByEmail(ctx, email)
}

func (r *instrumentedUsers) Insert(ctx context.Context, user *authdomain.User) (err error) {
	defer func(start time.Time) { r.o.observe("user.insert", start, err) }(time.Now())
	return r.next.Insert(ctx, user)
}

type instrumentedRevenue struct {
	next dashboarddomain.RevenueRepository
	o    observer
}

func (r *instrumentedRevenue) List(ctx context.Context) (out []dashboarddomain.Revenue, err error) {
	defer func(start time.Time) { r.o.observe("revenue.list", start, err) }(time.Now())
	return r.next.List(ctx)
}

func (r *instrumentedRevenue) Insert(ctx context.Context, revenue *dashboarddomain.Revenue) (err error) {
	defer func(start time.Time) { r.o.observe("revenue.insert", start, err) }(time.Now())
	return r.next.Insert(ctx, revenue)
}
