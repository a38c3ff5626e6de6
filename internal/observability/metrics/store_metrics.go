package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/invoicedesk/pkg/db"
)

const (
	StoreErrorReasonDuplicateKey = "duplicate_key"
	StoreErrorReasonForeignKey   = "foreign_key"
	StoreErrorReasonUnavailable  = "unavailable"
	StoreErrorReasonCanceled     = "canceled"
	StoreErrorReasonUnknown      = "unknown"
)

// StoreMetrics records repository latency and failures per backend strategy.
type StoreMetrics struct {
	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
}

var (
	storeMetricsOnce sync.Once
	storeMetrics     *StoreMetrics
)

// Store returns the process-wide store metrics registered on the default
// prometheus registry, which /metrics serves.
func Store(cfg Config) *StoreMetrics {
	storeMetricsOnce.Do(func() {
		storeMetrics = NewStoreMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return storeMetrics
}

// NewStoreMetrics registers the store collectors on registerer.
func NewStoreMetrics(registerer prometheus.Registerer, cfg Config) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "invoicedesk"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	queryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "invoicedesk_store_query_duration_seconds",
		Help:        "Repository call latency by backend and operation.",
		Buckets:     []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		ConstLabels: constLabels,
	}, []string{"backend", "operation"})
	queryErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "invoicedesk_store_errors_total",
		Help:        "Repository failures by backend, operation and classified reason.",
		ConstLabels: constLabels,
	}, []string{"backend", "operation", "reason"})

	return &StoreMetrics{
		queryDuration: registerHistogram(registerer, queryDuration),
		queryErrors:   registerCounter(registerer, queryErrors),
	}
}

// Observe records one repository call. Domain outcomes such as "not found"
// are not failures; callers pass nil for them.
func (m *StoreMetrics) Observe(backend, operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(backend, operation).Observe(time.Since(started).Seconds())
	if err != nil {
		m.queryErrors.WithLabelValues(backend, operation, ClassifyStoreError(err)).Inc()
	}
}

// ClassifyStoreError maps a driver error to a low-cardinality reason label.
func ClassifyStoreError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return StoreErrorReasonCanceled
	case db.IsDuplicateKeyErr(err):
		return StoreErrorReasonDuplicateKey
	case db.IsForeignKeyErr(err):
		return StoreErrorReasonForeignKey
	case db.IsUnavailableErr(err):
		return StoreErrorReasonUnavailable
	default:
		return StoreErrorReasonUnknown
	}
}

func registerHistogram(registerer prometheus.Registerer, c *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
	}
	return c
}

func registerCounter(registerer prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return c
}
