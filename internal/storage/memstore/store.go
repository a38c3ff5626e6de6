// Package memstore keeps every table in process memory. It enforces the same
// unique and foreign key rules as the SQL schema and evaluates search and
// aggregation through the shared Go predicates.
package memstore

import (
	"context"
	"sort"
	"sync"

	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"github.com/smallbiznis/invoicedesk/pkg/money"
)

const Backend = "memory"

type Store struct {
	mu        sync.RWMutex
	customers map[string]customerdomain.Customer
	invoices  map[string]invoicedomain.Invoice
	users     map[string]authdomain.User
	revenue   map[string]dashboarddomain.Revenue
}

func New() *Store {
	return &Store{
		customers: make(map[string]customerdomain.Customer),
		invoices:  make(map[string]invoicedomain.Invoice),
		users:     make(map[string]authdomain.User),
		revenue:   make(map[string]dashboarddomain.Revenue),
	}
}

func (s *Store) Backend() string                            { return Backend }
func (s *Store) Customers() customerdomain.Repository       { return (*customerRepo)(s) }
func (s *Store) Invoices() invoicedomain.Repository         { return (*invoiceRepo)(s) }
func (s *Store) Users() authdomain.Repository               { return (*userRepo)(s) }
func (s *Store) Revenue() dashboarddomain.RevenueRepository { return (*revenueRepo)(s) }
func (s *Store) Migrate(context.Context) error              { return nil }
func (s *Store) Close() error                               { return nil }

type customerRepo Store

func (r *customerRepo) Insert(_ context.Context, c *customerdomain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; ok || r.emailTaken(c.Email, c.ID) {
		return customerdomain.ErrDuplicateEmail
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) Update(_ context.Context, c *customerdomain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		return customerdomain.ErrNotFound
	}
	if r.emailTaken(c.Email, c.ID) {
		return customerdomain.ErrDuplicateEmail
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return customerdomain.ErrNotFound
	}
	for _, inv := range r.invoices {
		if inv.CustomerID == id {
			return customerdomain.ErrHasInvoices
		}
	}
	delete(r.customers, id)
	return nil
}

func (r *customerRepo) FindByID(_ context.Context, id string) (*customerdomain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepo) ListOptions(context.Context) ([]customerdomain.Option, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	options := make([]customerdomain.Option, 0, len(r.customers))
	for _, c := range r.customers {
		options = append(options, customerdomain.Option{ID: c.ID, Name: c.Name})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Name != options[j].Name {
			return options[i].Name < options[j].Name
		}
		return options[i].ID < options[j].ID
	})
	return options, nil
}

func (r *customerRepo) ListSummaries(_ context.Context, filter search.Filter, page pagination.Page) ([]customerdomain.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matchCustomers(filter)
	totals := make([]customerdomain.InvoiceTotal, 0, len(r.invoices))
	for _, inv := range r.invoices {
		totals = append(totals, customerdomain.InvoiceTotal{
			CustomerID: inv.CustomerID,
			Status:     string(inv.Status),
			Amount:     int64(inv.Amount),
		})
	}
	return window(customerdomain.Summarize(matched, totals), page), nil
}

func (r *customerRepo) CountFiltered(_ context.Context, filter search.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matchCustomers(filter))), nil
}

func (r *customerRepo) matchCustomers(filter search.Filter) []customerdomain.Customer {
	out := make([]customerdomain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		if filter.MatchCustomer(c.Name, c.Email) {
			out = append(out, c)
		}
	}
	return out
}

func (r *customerRepo) emailTaken(email, exceptID string) bool {
	for id, c := range r.customers {
		if id != exceptID && c.Email == email {
			return true
		}
	}
	return false
}

type invoiceRepo Store

func (r *invoiceRepo) Insert(_ context.Context, inv *invoicedomain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[inv.CustomerID]; !ok {
		return invoicedomain.ErrCustomerNotFound
	}
	r.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) Update(_ context.Context, inv *invoicedomain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.invoices[inv.ID]
	if !ok {
		return invoicedomain.ErrNotFound
	}
	if _, ok := r.customers[inv.CustomerID]; !ok {
		return invoicedomain.ErrCustomerNotFound
	}
	current.CustomerID = inv.CustomerID
	current.Amount = inv.Amount
	current.Status = inv.Status
	r.invoices[inv.ID] = current
	return nil
}

func (r *invoiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return invoicedomain.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *invoiceRepo) FindByID(_ context.Context, id string) (*invoicedomain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *invoiceRepo) ListLatest(_ context.Context, limit int) ([]invoicedomain.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.matchRows(search.Filter{})
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *invoiceRepo) ListFiltered(_ context.Context, filter search.Filter, page pagination.Page) ([]invoicedomain.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return window(r.matchRows(filter), page), nil
}

func (r *invoiceRepo) CountFiltered(_ context.Context, filter search.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matchRows(filter))), nil
}

func (r *invoiceRepo) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.invoices)), nil
}

func (r *invoiceRepo) SumByStatus(_ context.Context, status invoicedomain.Status) (money.Cents, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total money.Cents
	for _, inv := range r.invoices {
		if inv.Status == status {
			total += inv.Amount
		}
	}
	return total, nil
}

// matchRows joins invoices with their customer, filters and orders them by
// date then id, both descending.
func (r *invoiceRepo) matchRows(filter search.Filter) []invoicedomain.Row {
	rows := make([]invoicedomain.Row, 0, len(r.invoices))
	for _, inv := range r.invoices {
		c, ok := r.customers[inv.CustomerID]
		if !ok {
			continue
		}
		fields := search.InvoiceFields{
			CustomerName:  c.Name,
			CustomerEmail: c.Email,
			Status:        string(inv.Status),
			AmountCents:   int64(inv.Amount),
			Date:          inv.Date,
		}
		if !filter.MatchInvoice(fields) {
			continue
		}
		rows = append(rows, invoicedomain.Row{
			ID:       inv.ID,
			Amount:   inv.Amount,
			Status:   inv.Status,
			Date:     inv.Date,
			Name:     c.Name,
			Email:    c.Email,
			ImageURL: c.ImageURL,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].ID > rows[j].ID
	})
	return rows
}

type userRepo Store

func (r *userRepo) FindByEmail(_ context.Context, email string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, authdomain.ErrUserNotFound
}

func (r *userRepo) Insert(_ context.Context, user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return authdomain.ErrUserExists
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return authdomain.ErrUserExists
		}
	}
	r.users[user.ID] = *user
	return nil
}

type revenueRepo Store

func (r *revenueRepo) List(context.Context) ([]dashboarddomain.Revenue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]dashboarddomain.Revenue, 0, len(r.revenue))
	for _, rev := range r.revenue {
		out = append(out, rev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (r *revenueRepo) Insert(_ context.Context, revenue *dashboarddomain.Revenue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.revenue[revenue.Month]; ok {
		return dashboarddomain.ErrDuplicateMonth
	}
	r.revenue[revenue.Month] = *revenue
	return nil
}

func window[T any](items []T, page pagination.Page) []T {
	if page.Offset < 0 || page.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit > 0 && page.Limit < end-page.Offset {
		end = page.Offset + page.Limit
	}
	return items[page.Offset:end]
}

