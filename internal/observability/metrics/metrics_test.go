package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("operation", "create"),
		attribute.String("customer_id", "456"),
		attribute.String("email", "lee@robinson.com"),
		attribute.String("status", "paid"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "customer_id" || attr.Key == "email" {
			t.Fatalf("unexpected high-cardinality label %s", attr.Key)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordCustomerWrite(context.Background(), "create")
	m.RecordInvoiceWrite(context.Background(), "create", "paid")
	m.RecordCredentialCheck(context.Background(), "success")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "invoicedesk"}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.RecordInvoiceWrite(context.Background(), "update", "pending")
}
