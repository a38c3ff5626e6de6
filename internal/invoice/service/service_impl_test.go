package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/invoicedesk/internal/clock"
	"github.com/smallbiznis/invoicedesk/internal/config"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	"github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/search"
	"github.com/smallbiznis/invoicedesk/internal/storage/memstore"
	"github.com/smallbiznis/invoicedesk/internal/validation"
	"github.com/smallbiznis/invoicedesk/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	delbaID = "3958dc9e-742f-4377-85e9-fec4b6a6442a"
	leeID   = "3958dc9e-737f-4377-85e9-fec4b6a6442a"
)

type fixture struct {
	svc   *Service
	store *memstore.Store
	clock *clock.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()
	for _, c := range []customerdomain.Customer{
		{ID: delbaID, Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
		{ID: leeID, Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
	} {
		c := c
		require.NoError(t, store.Customers().Insert(ctx, &c))
	}

	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC))
	svc := New(Params{
		Log:     zap.NewNop(),
		Repo:    store.Invoices(),
		Clock:   fake,
		Listing: config.NewStaticListingConfigHolder(config.ListingConfig{PageSize: 2, LatestLimit: 2}),
	}).(*Service)
	return fixture{svc: svc, store: store, clock: fake}
}

func TestCreateStoresCents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.InvoiceInput{CustomerID: delbaID, Amount: "50.00", Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(5000), created.Amount)
	assert.Equal(t, "2024-03-01", created.Date)

	detail, err := f.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(detail.Amount), "got %s", detail.Amount)
	assert.Equal(t, domain.StatusPending, detail.Status)
	assert.Equal(t, delbaID, detail.CustomerID)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.InvoiceInput{Amount: "abc", Status: "void"})
	vErr, ok := validation.As(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, "Missing fields. Failed to create invoice.", vErr.Message)
	assert.Equal(t, []string{"Please select a customer."}, vErr.Fields["customer_id"])
	assert.Equal(t, []string{msgAmount}, vErr.Fields["amount"])
	assert.Equal(t, []string{"Please select an invoice status."}, vErr.Fields["status"])
}

func TestCreateRejectsAmountBelowOneCent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.InvoiceInput{CustomerID: delbaID, Amount: "0.001", Status: "paid"})
	vErr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{msgAmount}, vErr.Fields["amount"])
}

func TestCreateUnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.InvoiceInput{
		CustomerID: "00000000-0000-4000-8000-000000000000",
		Amount:     "10",
		Status:     "paid",
	})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestMalformedCustomerID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing, err := f.svc.Create(ctx, domain.InvoiceInput{CustomerID: delbaID, Amount: "10", Status: "paid"})
	require.NoError(t, err)

	for _, id := range []string{
		"not-a-uuid",
		"urn:uuid:" + delbaID,
		"{" + delbaID + "}",
		strings.Repeat("a", 64),
	} {
		_, err := f.svc.Create(ctx, domain.InvoiceInput{CustomerID: id, Amount: "10", Status: "paid"})
		assert.ErrorIs(t, err, domain.ErrCustomerNotFound, "create with %q", id)

		_, err = f.svc.Update(ctx, existing.ID, domain.InvoiceInput{CustomerID: id, Amount: "10", Status: "paid"})
		assert.ErrorIs(t, err, domain.ErrCustomerNotFound, "update with %q", id)
	}

	count, err := f.store.Invoices().CountFiltered(ctx, search.Build(""))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateKeepsDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.InvoiceInput{CustomerID: delbaID, Amount: "157.95", Status: "pending"})
	require.NoError(t, err)

	f.clock.Advance(72 * time.Hour)
	updated, err := f.svc.Update(ctx, created.ID, domain.InvoiceInput{CustomerID: leeID, Amount: "203.48", Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, created.Date, updated.Date)
	assert.Equal(t, leeID, updated.CustomerID)
	assert.Equal(t, money.Cents(20348), updated.Amount)
	assert.Equal(t, domain.StatusPaid, updated.Status)
}

func TestMissingInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	unknown := "a1b2c3d4-0000-4000-8000-000000000009"

	_, err := f.svc.GetByID(ctx, unknown)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Update(ctx, unknown, domain.InvoiceInput{CustomerID: delbaID, Amount: "1", Status: "paid"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, unknown), domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, "not-a-uuid"), domain.ErrNotFound)
}

func TestListAndLatest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, in := range []domain.InvoiceInput{
		{CustomerID: delbaID, Amount: "1500", Status: "pending"},
		{CustomerID: leeID, Amount: "30.40", Status: "paid"},
		{CustomerID: leeID, Amount: "448", Status: "pending"},
	} {
		_, err := f.svc.Create(ctx, in)
		require.NoError(t, err)
		f.clock.Advance(24 * time.Hour)
	}

	resp, err := f.svc.List(ctx, domain.ListRequest{Query: "pend", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Invoices, 2)
	assert.Equal(t, "$448.00", resp.Invoices[0].Amount)
	assert.Equal(t, "2024-03-03", resp.Invoices[0].Date)
	assert.Equal(t, "$1,500.00", resp.Invoices[1].Amount)

	latest, err := f.svc.ListLatest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "Lee Robinson", latest[0].Name)
	assert.Equal(t, "$448.00", latest[0].Amount)
	assert.Equal(t, "$30.40", latest[1].Amount)
}
