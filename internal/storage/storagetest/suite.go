// Package storagetest is the conformance suite every store must pass. Each
// backend's tests call Run with a factory that returns an empty, migrated
// store.
package storagetest

import (
	"context"
	"math"
	"testing"

	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/storage"
	"github.com/smallbiznis/invoicedesk/pkg/db/pagination"
	"github.com/smallbiznis/invoicedesk/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store with the schema applied.
type Factory func(t *testing.T) storage.Store

// Names start with distinct capitals so ordering is the same under every
// collation.
var (
	amy = customerdomain.Customer{
		ID:       "3958dc9e-712f-4377-85e9-fec4b6a6442a",
		Name:     "Amy Burns",
		Email:    "amy@burns.com",
		ImageURL: "/customers/amy-burns.png",
	}
	delba = customerdomain.Customer{
		ID:       "3958dc9e-742f-4377-85e9-fec4b6a6442a",
		Name:     "Delba de Oliveira",
		Email:    "delba@oliveira.com",
		ImageURL: "/customers/delba-de-oliveira.png",
	}
	lee = customerdomain.Customer{
		ID:       "3958dc9e-737f-4377-85e9-fec4b6a6442a",
		Name:     "Lee Robinson",
		Email:    "lee@robinson.com",
		ImageURL: "/customers/lee-robinson.png",
	}
	elodie = customerdomain.Customer{
		ID:       "3958dc9e-787f-4377-85e9-fec4b6a6442a",
		Name:     "Élodie Dupont",
		Email:    "elodie@dupont.fr",
		ImageURL: "/customers/elodie-dupont.png",
	}
)

func invoice(id string, customer customerdomain.Customer, amount money.Cents, status invoicedomain.Status, date string) invoicedomain.Invoice {
	return invoicedomain.Invoice{ID: id, CustomerID: customer.ID, Amount: amount, Status: status, Date: date}
}

var (
	inv1 = invoice("a1b2c3d4-0000-4000-8000-000000000001", delba, 15795, invoicedomain.StatusPending, "2022-12-06")
	inv2 = invoice("a1b2c3d4-0000-4000-8000-000000000002", delba, 20348, invoicedomain.StatusPaid, "2022-11-14")
	inv3 = invoice("a1b2c3d4-0000-4000-8000-000000000003", lee, 3040, invoicedomain.StatusPaid, "2022-10-29")
	inv4 = invoice("a1b2c3d4-0000-4000-8000-000000000004", lee, 44800, invoicedomain.StatusPending, "2023-09-10")
)

// Run executes every conformance case against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"CustomerRoundTrip", testCustomerRoundTrip},
		{"CustomerDuplicateEmail", testCustomerDuplicateEmail},
		{"CustomerUpdate", testCustomerUpdate},
		{"CustomerMissing", testCustomerMissing},
		{"CustomerOptions", testCustomerOptions},
		{"SummariesZeroFill", testSummariesZeroFill},
		{"SummariesSearchAndPaging", testSummariesSearchAndPaging},
		{"SummariesSearchNonASCII", testSummariesSearchNonASCII},
		{"PageBeyondIntRange", testPageBeyondIntRange},
		{"DeleteCustomerWithInvoicesIsRestricted", testDeleteRestricted},
		{"DeleteCustomer", testDeleteCustomer},
		{"InvoiceRoundTrip", testInvoiceRoundTrip},
		{"InvoiceUnknownCustomer", testInvoiceUnknownCustomer},
		{"InvoiceUpdateKeepsDate", testInvoiceUpdateKeepsDate},
		{"InvoiceDelete", testInvoiceDelete},
		{"InvoiceSearchByStatus", testInvoiceSearchByStatus},
		{"InvoiceSearchAcrossColumns", testInvoiceSearchAcrossColumns},
		{"InvoiceSearchEscapesWildcards", testInvoiceSearchEscapesWildcards},
		{"InvoicePaging", testInvoicePaging},
		{"InvoiceLatest", testInvoiceLatest},
		{"InvoiceTotals", testInvoiceTotals},
		{"Users", testUsers},
		{"Revenue", testRevenue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

func seedCustomers(t *testing.T, s storage.Store, customers ...customerdomain.Customer) {
	t.Helper()
	for _, c := range customers {
		c := c
		require.NoError(t, s.Customers().Insert(context.Background(), &c))
	}
}

func seedInvoices(t *testing.T, s storage.Store, invoices ...invoicedomain.Invoice) {
	t.Helper()
	for _, inv := range invoices {
		inv := inv
		require.NoError(t, s.Invoices().Insert(context.Background(), &inv))
	}
}

func seedAll(t *testing.T, s storage.Store) {
	seedCustomers(t, s, amy, delba, lee)
	seedInvoices(t, s, inv1, inv2, inv3, inv4)
}

func testCustomerRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedCustomers(t, s, delba)

	got, err := s.Customers().FindByID(ctx, delba.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, delba, *got)
}

func testCustomerDuplicateEmail(t *testing.T, s storage.Store) {
	seedCustomers(t, s, delba)

	dup := amy
	dup.Email = delba.Email
	err := s.Customers().Insert(context.Background(), &dup)
	assert.ErrorIs(t, err, customerdomain.ErrDuplicateEmail)
}

func testCustomerUpdate(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedCustomers(t, s, amy, delba)

	changed := amy
	changed.Name = "Amy Burns-Lee"
	changed.ImageURL = "/customers/amy.png"
	require.NoError(t, s.Customers().Update(ctx, &changed))

	got, err := s.Customers().FindByID(ctx, amy.ID)
	require.NoError(t, err)
	assert.Equal(t, changed, *got)

	changed.Email = delba.Email
	assert.ErrorIs(t, s.Customers().Update(ctx, &changed), customerdomain.ErrDuplicateEmail)
}

func testCustomerMissing(t *testing.T, s storage.Store) {
	ctx := context.Background()

	got, err := s.Customers().FindByID(ctx, lee.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	missing := lee
	assert.ErrorIs(t, s.Customers().Update(ctx, &missing), customerdomain.ErrNotFound)
	assert.ErrorIs(t, s.Customers().Delete(ctx, lee.ID), customerdomain.ErrNotFound)
}

func testCustomerOptions(t *testing.T, s storage.Store) {
	seedCustomers(t, s, lee, amy, delba)

	options, err := s.Customers().ListOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []customerdomain.Option{
		{ID: amy.ID, Name: amy.Name},
		{ID: delba.ID, Name: delba.Name},
		{ID: lee.ID, Name: lee.Name},
	}, options)
}

func testSummariesZeroFill(t *testing.T, s storage.Store) {
	seedAll(t, s)

	got, err := s.Customers().ListSummaries(context.Background(), search.Build(""), pagination.Paginate(1, 10))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, customerdomain.Summary{
		ID: amy.ID, Name: amy.Name, Email: amy.Email, ImageURL: amy.ImageURL,
	}, got[0])
	assert.Equal(t, customerdomain.Summary{
		ID: delba.ID, Name: delba.Name, Email: delba.Email, ImageURL: delba.ImageURL,
		TotalInvoices: 2, TotalPending: 15795, TotalPaid: 20348,
	}, got[1])
	assert.Equal(t, customerdomain.Summary{
		ID: lee.ID, Name: lee.Name, Email: lee.Email, ImageURL: lee.ImageURL,
		TotalInvoices: 2, TotalPending: 44800, TotalPaid: 3040,
	}, got[2])
}

func testSummariesSearchAndPaging(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	got, err := s.Customers().ListSummaries(ctx, search.Build("  ROBINSON "), pagination.Paginate(1, 10))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, lee.ID, got[0].ID)
	assert.Equal(t, int64(2), got[0].TotalInvoices)

	count, err := s.Customers().CountFiltered(ctx, search.Build("oliveira.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Status text belongs to invoices, not to the customer projection.
	count, err = s.Customers().CountFiltered(ctx, search.Build("pending"))
	require.NoError(t, err)
	assert.Zero(t, count)

	page2, err := s.Customers().ListSummaries(ctx, search.Build(""), pagination.Paginate(2, 2))
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, lee.ID, page2[0].ID)

	beyond, err := s.Customers().ListSummaries(ctx, search.Build(""), pagination.Paginate(5, 2))
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func testSummariesSearchNonASCII(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)
	seedCustomers(t, s, elodie)

	for _, query := range []string{"Élodie", "lodie DUPONT", "DUPONT.FR"} {
		got, err := s.Customers().ListSummaries(ctx, search.Build(query), pagination.Paginate(1, 10))
		require.NoError(t, err)
		require.Len(t, got, 1, "query %q", query)
		assert.Equal(t, elodie.ID, got[0].ID)
		assert.Equal(t, elodie.Name, got[0].Name)
	}
}

func testPageBeyondIntRange(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	page := pagination.Paginate(math.MaxInt/3, pagination.DefaultPageSize)

	customers, err := s.Customers().ListSummaries(ctx, search.Build(""), page)
	require.NoError(t, err)
	assert.Empty(t, customers)

	invoices, err := s.Invoices().ListFiltered(ctx, search.Build(""), page)
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

// RunASCIIFold checks that non-ASCII letters are compared case-sensitively.
// It holds for SQLite and the in-memory store; PostgreSQL folds them.
func RunASCIIFold(t *testing.T, newStore Factory) {
	t.Helper()
	t.Run("SearchFoldsASCIIOnly", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		seedCustomers(t, s, elodie)

		count, err := s.Customers().CountFiltered(ctx, search.Build("élodie"))
		require.NoError(t, err)
		assert.Zero(t, count)

		count, err = s.Customers().CountFiltered(ctx, search.Build("ÉLODIE"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func testDeleteRestricted(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	err := s.Customers().Delete(ctx, delba.ID)
	assert.ErrorIs(t, err, customerdomain.ErrHasInvoices)

	customer, err := s.Customers().FindByID(ctx, delba.ID)
	require.NoError(t, err)
	assert.NotNil(t, customer, "customer must survive a restricted delete")

	for _, id := range []string{inv1.ID, inv2.ID} {
		inv, err := s.Invoices().FindByID(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, inv, "invoice %s must survive a restricted delete", id)
	}
}

func testDeleteCustomer(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	require.NoError(t, s.Customers().Delete(ctx, amy.ID))
	got, err := s.Customers().FindByID(ctx, amy.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	count, err := s.Customers().CountFiltered(ctx, search.Build(""))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func testInvoiceRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedCustomers(t, s, delba)

	amount, err := money.ParseMajor("50.00")
	require.NoError(t, err)
	inv := invoice("a1b2c3d4-0000-4000-8000-0000000000aa", delba, amount, invoicedomain.StatusPending, "2024-03-01")
	require.NoError(t, s.Invoices().Insert(ctx, &inv))

	got, err := s.Invoices().FindByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, inv, *got)
	assert.Equal(t, money.Cents(5000), got.Amount)
	assert.Equal(t, "50", got.Amount.Major().String())
}

func testInvoiceUnknownCustomer(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	orphan := invoice("a1b2c3d4-0000-4000-8000-0000000000bb", customerdomain.Customer{ID: "00000000-0000-4000-8000-000000000000"}, 100, invoicedomain.StatusPaid, "2024-01-01")
	assert.ErrorIs(t, s.Invoices().Insert(ctx, &orphan), invoicedomain.ErrCustomerNotFound)

	moved := inv1
	moved.CustomerID = orphan.CustomerID
	assert.ErrorIs(t, s.Invoices().Update(ctx, &moved), invoicedomain.ErrCustomerNotFound)
}

func testInvoiceUpdateKeepsDate(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	changed := inv1
	changed.CustomerID = amy.ID
	changed.Amount = 999
	changed.Status = invoicedomain.StatusPaid
	changed.Date = "1999-01-01"
	require.NoError(t, s.Invoices().Update(ctx, &changed))

	got, err := s.Invoices().FindByID(ctx, inv1.ID)
	require.NoError(t, err)
	assert.Equal(t, amy.ID, got.CustomerID)
	assert.Equal(t, money.Cents(999), got.Amount)
	assert.Equal(t, invoicedomain.StatusPaid, got.Status)
	assert.Equal(t, inv1.Date, got.Date)

	missing := changed
	missing.ID = "a1b2c3d4-0000-4000-8000-0000000000cc"
	assert.ErrorIs(t, s.Invoices().Update(ctx, &missing), invoicedomain.ErrNotFound)
}

func testInvoiceDelete(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	require.NoError(t, s.Invoices().Delete(ctx, inv3.ID))
	assert.ErrorIs(t, s.Invoices().Delete(ctx, inv3.ID), invoicedomain.ErrNotFound)

	got, err := s.Invoices().FindByID(ctx, inv3.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testInvoiceSearchByStatus(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	filter := search.Build("PEND")
	rows, err := s.Invoices().ListFiltered(ctx, filter, pagination.Paginate(1, 10))
	require.NoError(t, err)

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		assert.Equal(t, invoicedomain.StatusPending, r.Status)
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{inv4.ID, inv1.ID}, ids)

	count, err := s.Invoices().CountFiltered(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func testInvoiceSearchAcrossColumns(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	cases := []struct {
		query string
		want  []string
	}{
		{query: "lee@", want: []string{inv4.ID, inv3.ID}},
		{query: "Oliveira", want: []string{inv1.ID, inv2.ID}},
		{query: "20348", want: []string{inv2.ID}},
		{query: "2022-1", want: []string{inv1.ID, inv2.ID, inv3.ID}},
		{query: "nobody", want: []string{}},
	}
	for _, tc := range cases {
		rows, err := s.Invoices().ListFiltered(ctx, search.Build(tc.query), pagination.Paginate(1, 10))
		require.NoError(t, err)
		ids := []string{}
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, tc.want, ids, "query %q", tc.query)
	}
}

func testInvoiceSearchEscapesWildcards(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	for _, query := range []string{"%", "_", `\`} {
		count, err := s.Invoices().CountFiltered(ctx, search.Build(query))
		require.NoError(t, err)
		assert.Zero(t, count, "query %q must be matched literally", query)
	}
}

func testInvoicePaging(t *testing.T, s storage.Store) {
	ctx := context.Background()
	seedAll(t, s)

	first, err := s.Invoices().ListFiltered(ctx, search.Build(""), pagination.Paginate(1, 3))
	require.NoError(t, err)
	second, err := s.Invoices().ListFiltered(ctx, search.Build(""), pagination.Paginate(2, 3))
	require.NoError(t, err)

	require.Len(t, first, 3)
	require.Len(t, second, 1)
	assert.Equal(t, []string{inv4.ID, inv1.ID, inv2.ID}, []string{first[0].ID, first[1].ID, first[2].ID})
	assert.Equal(t, inv3.ID, second[0].ID)

	row := first[0]
	assert.Equal(t, lee.Name, row.Name)
	assert.Equal(t, lee.Email, row.Email)
	assert.Equal(t, lee.ImageURL, row.ImageURL)
	assert.Equal(t, inv4.Date, row.Date)
	assert.Equal(t, inv4.Amount, row.Amount)

	count, err := s.Invoices().CountFiltered(ctx, search.Build(""))
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, 2, pagination.TotalPages(count, 3))
}

func testInvoiceLatest(t *testing.T, s storage.Store) {
	seedAll(t, s)

	rows, err := s.Invoices().ListLatest(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, inv4.ID, rows[0].ID)
	assert.Equal(t, inv1.ID, rows[1].ID)
}

func testInvoiceTotals(t *testing.T, s storage.Store) {
	ctx := context.Background()

	paid, err := s.Invoices().SumByStatus(ctx, invoicedomain.StatusPaid)
	require.NoError(t, err)
	assert.Zero(t, paid)

	seedAll(t, s)

	count, err := s.Invoices().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	paid, err = s.Invoices().SumByStatus(ctx, invoicedomain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(23388), paid)

	pending, err := s.Invoices().SumByStatus(ctx, invoicedomain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(60595), pending)
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()
	user := authdomain.User{
		ID:           "410544b2-4001-4271-9855-fec4b6a6442a",
		Name:         "User",
		Email:        "user@nextmail.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
	require.NoError(t, s.Users().Insert(ctx, &user))

	got, err := s.Users().FindByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user, *got)

	_, err = s.Users().FindByEmail(ctx, "nobody@nextmail.com")
	assert.ErrorIs(t, err, authdomain.ErrUserNotFound)

	dup := user
	dup.ID = "410544b2-4001-4271-9855-fec4b6a6442b"
	assert.ErrorIs(t, s.Users().Insert(ctx, &dup), authdomain.ErrUserExists)
}

func testRevenue(t *testing.T, s storage.Store) {
	ctx := context.Background()
	for _, r := range []dashboarddomain.Revenue{{Month: "Feb", Revenue: 1800}, {Month: "Jan", Revenue: 2000}} {
		r := r
		require.NoError(t, s.Revenue().Insert(ctx, &r))
	}

	dup := dashboarddomain.Revenue{Month: "Jan", Revenue: 1}
	assert.ErrorIs(t, s.Revenue().Insert(ctx, &dup), dashboarddomain.ErrDuplicateMonth)

	got, err := s.Revenue().List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []dashboarddomain.Revenue{{Month: "Jan", Revenue: 2000}, {Month: "Feb", Revenue: 1800}}, got)
}
