package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/invoicedesk/pkg/db"
	"gorm.io/gorm"
)

func TestClassifyStoreError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "canceled", err: context.Canceled, want: StoreErrorReasonCanceled},
		{name: "duplicate", err: gorm.ErrDuplicatedKey, want: StoreErrorReasonDuplicateKey},
		{name: "foreign_key", err: &pgconn.PgError{Code: "23503"}, want: StoreErrorReasonForeignKey},
		{name: "unavailable", err: fmt.Errorf("query: %w", db.ErrUnavailable), want: StoreErrorReasonUnavailable},
		{name: "unknown", err: errors.New("boom"), want: StoreErrorReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyStoreError(tc.err); got != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStoreMetricsObserve(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewStoreMetrics(registry, Config{ServiceName: "invoicedesk", Environment: "test"})

	m.Observe("gorm", "customer.insert", time.Now(), nil)
	m.Observe("gorm", "customer.insert", time.Now(), gorm.ErrDuplicatedKey)
	m.Observe("gorm", "customer.insert", time.Now(), gorm.ErrDuplicatedKey)

	got := testutil.ToFloat64(m.queryErrors.WithLabelValues("gorm", "customer.insert", StoreErrorReasonDuplicateKey))
	if got != 2 {
		t.Fatalf("expected 2 duplicate errors, got %v", got)
	}
	if n := testutil.CollectAndCount(m.queryDuration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
}

func TestNewStoreMetricsReusesRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewStoreMetrics(registry, Config{})
	second := NewStoreMetrics(registry, Config{})
	if first.queryErrors != second.queryErrors {
		t.Fatal("expected the registered collector to be reused")
	}
}

func TestStoreMetricsConstLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewStoreMetrics(registry, Config{ServiceName: "desk", Environment: "staging"})
	m.Observe("pgx", "invoice.sum", time.Now(), errors.New("boom"))

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var errorsFamily *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "invoicedesk_store_errors_total" {
			errorsFamily = mf
		}
	}
	if errorsFamily == nil || len(errorsFamily.GetMetric()) != 1 {
		t.Fatalf("expected one error series, got %v", errorsFamily)
	}

	labels := map[string]string{}
	for _, lp := range errorsFamily.GetMetric()[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	want := map[string]string{
		"service":   "desk",
		"env":       "staging",
		"backend":   "pgx",
		"operation": "invoice.sum",
		"reason":    StoreErrorReasonUnknown,
	}
	for k, v := range want {
		if labels[k] != v {
			t.Fatalf("label %s: expected %q, got %q", k, v, labels[k])
		}
	}
}
