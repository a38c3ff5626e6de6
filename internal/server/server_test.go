package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	authservice "github.com/smallbiznis/invoicedesk/internal/auth/service"
	"github.com/smallbiznis/invoicedesk/internal/clock"
	"github.com/smallbiznis/invoicedesk/internal/config"
	customerservice "github.com/smallbiznis/invoicedesk/internal/customer/service"
	dashboardservice "github.com/smallbiznis/invoicedesk/internal/dashboard/service"
	invoiceservice "github.com/smallbiznis/invoicedesk/internal/invoice/service"
	"github.com/smallbiznis/invoicedesk/internal/observability"
	"github.com/smallbiznis/invoicedesk/internal/seed"
	"github.com/smallbiznis/invoicedesk/internal/storage/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const evilRabbitID = "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	_, err := seed.Run(context.Background(), store)
	require.NoError(t, err)

	log := zap.NewNop()
	listing := config.NewStaticListingConfigHolder(config.ListingConfig{PageSize: 6, LatestLimit: 5})
	return NewServer(ServerParams{
		Gin: NewEngine(observability.Config{Environment: "test"}, log),
		CustomerSvc: customerservice.New(customerservice.Params{
			Log:     log,
			Repo:    store.Customers(),
			Listing: listing,
		}),
		InvoiceSvc: invoiceservice.New(invoiceservice.Params{
			Log:     log,
			Repo:    store.Invoices(),
			Clock:   clock.NewFakeClock(time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)),
			Listing: listing,
		}),
		DashboardSvc: dashboardservice.NewService(dashboardservice.Params{
			Log:       log,
			Customers: store.Customers(),
			Invoices:  store.Invoices(),
			Revenue:   store.Revenue(),
		}),
		Verifier: authservice.New(authservice.Params{Log: log, Repo: store.Users()}),
	})
}

func do(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestDashboardCards(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/api/dashboard/cards", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 13, data["invoice_count"])
	assert.EqualValues(t, 6, data["customer_count"])
	assert.Equal(t, "$1,006.26", data["total_paid"])
	assert.Equal(t, "$1,256.32", data["total_pending"])
}

func TestDashboardRevenue(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/api/dashboard/revenue", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].([]any)
	require.Len(t, data, 12)
	assert.Equal(t, "Jan", data[0].(map[string]any)["month"])
	assert.Equal(t, "Dec", data[11].(map[string]any)["month"])
}

func TestListCustomersSearch(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/api/customers?query=RABBIT&page=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["total_count"])
	customers := data["customers"].([]any)
	require.Len(t, customers, 1)
	first := customers[0].(map[string]any)
	assert.Equal(t, "Evil Rabbit", first["name"])
	assert.EqualValues(t, 2, first["total_invoices"])
	assert.Equal(t, "$164.61", first["total_pending"])
	assert.Equal(t, "$0.00", first["total_paid"])
}

func TestListCustomersRejectsBadPage(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/api/customers?page=two", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", body["error"].(map[string]any)["type"])
}

func TestListPageBeyondIntRange(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/api/customers?page=3074457345618258602",
		"/api/invoices?page=3074457345618258602",
	} {
		rec, body := do(t, s, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		data := body["data"].(map[string]any)
		for _, key := range []string{"customers", "invoices"} {
			if rows, ok := data[key]; ok {
				assert.Empty(t, rows, path)
			}
		}
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodPost, "/api/invoices", map[string]string{
		"customer_id": evilRabbitID,
		"amount":      "-5",
		"status":      "overdue",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	payload := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", payload["type"])
	fields := payload["errors"].(map[string]any)
	assert.Equal(t, []any{"Please enter an amount greater than $0."}, fields["amount"])
	assert.Equal(t, []any{"Please select an invoice status."}, fields["status"])
	assert.NotContains(t, fields, "customer_id")
}

func TestCreateInvoice(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodPost, "/api/invoices", map[string]string{
		"customer_id": evilRabbitID,
		"amount":      "12.34",
		"status":      "paid",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1234, data["amount"])
	assert.Equal(t, "2024-05-02", data["date"])

	rec, body = do(t, s, http.MethodGet, "/api/invoices/"+data["id"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12.34", body["data"].(map[string]any)["amount"])
}

func TestCreateInvoiceUnknownCustomer(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodPost, "/api/invoices", map[string]string{
		"customer_id": "00000000-0000-4000-8000-000000000000",
		"amount":      "1",
		"status":      "paid",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "foreign_key_violation", body["error"].(map[string]any)["type"])
}

func TestCreateInvoiceMalformedCustomer(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodPost, "/api/invoices", map[string]string{
		"customer_id": strings.Repeat("x", 40),
		"amount":      "1",
		"status":      "paid",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "foreign_key_violation", body["error"].(map[string]any)["type"])
}

func TestCreateInvoiceAmountOutOfRange(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodPost, "/api/invoices", map[string]string{
		"customer_id": evilRabbitID,
		"amount":      "184467440737095516.17",
		"status":      "paid",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", errBody["type"])
	assert.Equal(t, "Missing fields. Failed to create invoice.", errBody["message"])
}

func TestDeleteCustomerWithInvoices(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodDelete, "/api/customers/"+evilRabbitID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "foreign_key_violation", body["error"].(map[string]any)["type"])
}

func TestCustomerNotFound(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/api/customers/not-a-uuid",
		"/api/customers/00000000-0000-4000-8000-000000000000",
		"/api/invoices/00000000-0000-4000-8000-000000000000",
	} {
		rec, body := do(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "not_found", body["error"].(map[string]any)["type"], path)
	}
}

func TestCustomerOptionsRouteWinsOverID(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/api/customers/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"].([]any), 6)
}

func TestVerifyCredentials(t *testing.T) {
	s := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/auth/verify", map[string]string{
		"email":    "user@nextmail.com",
		"password": "123456",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "user@nextmail.com", data["email"])
	assert.NotContains(t, data, "password")

	wrong, wrongBody := do(t, s, http.MethodPost, "/auth/verify", map[string]string{
		"email":    "user@nextmail.com",
		"password": "1234567",
	})
	missing, missingBody := do(t, s, http.MethodPost, "/auth/verify", map[string]string{
		"email":    "nobody@nextmail.com",
		"password": "123456",
	})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, wrongBody, missingBody)
}
