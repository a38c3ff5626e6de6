package storage

import (
	"context"
	"fmt"

	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	"github.com/smallbiznis/invoicedesk/internal/config"
	customerdomain "github.com/smallbiznis/invoicedesk/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/internal/observability"
	"github.com/smallbiznis/invoicedesk/internal/observability/logger"
	"github.com/smallbiznis/invoicedesk/internal/observability/metrics"
	"github.com/smallbiznis/invoicedesk/internal/storage/gormstore"
	"github.com/smallbiznis/invoicedesk/internal/storage/memstore"
	"github.com/smallbiznis/invoicedesk/internal/storage/pgxstore"
	"github.com/smallbiznis/invoicedesk/internal/storage/sqlstore"
	"github.com/smallbiznis/invoicedesk/pkg/db"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("storage",
	fx.Provide(New),
	fx.Provide(
		func(s Store) customerdomain.Repository { return s.Customers() },
		func(s Store) invoicedomain.Repository { return s.Invoices() },
		func(s Store) authdomain.Repository { return s.Users() },
		func(s Store) dashboarddomain.RevenueRepository { return s.Revenue() },
	),
)

type Params struct {
	fx.In

	Lifecycle    fx.Lifecycle
	Config       config.Config
	Obs          observability.Config
	Log          *zap.Logger
	StoreMetrics *metrics.StoreMetrics `optional:"true"`
}

// New opens the configured backend, applies migrations when enabled and
// closes the pool when the app stops.
func New(p Params) (Store, error) {
	ctx := context.Background()
	store, err := Open(ctx, p.Config, p.Log, p.Obs.Debug())
	if err != nil {
		return nil, err
	}

	log := p.Log.Named("storage")
	if p.Config.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate %s store: %w", store.Backend(), err)
		}
		log.Info("schema migrated", zap.String("backend", store.Backend()))
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Info("closing store", zap.String("backend", store.Backend()))
			return store.Close()
		},
	})

	log.Info("store ready",
		zap.String("backend", store.Backend()),
		zap.String("database", p.Config.DBType),
	)
	return Instrument(store, p.StoreMetrics), nil
}

// Open builds the store selected by STORE_BACKEND without running migrations.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger, debug bool) (Store, error) {
	dbCfg := db.FromAppConfig(cfg)

	switch cfg.StoreBackend {
	case config.StoreGorm:
		conn, err := db.OpenGorm(dbCfg,
			logger.NewGormLogger(log, logger.DefaultGormLoggerConfig(debug)),
			otelgorm.NewPlugin(otelgorm.WithDBName(dbCfg.Name), otelgorm.WithoutQueryVariables()),
			gormprometheus.New(gormprometheus.Config{
				DBName:          dbCfg.Name,
				RefreshInterval: 15,
				Labels:          map[string]string{"backend": gormstore.Backend},
			}),
		)
		if err != nil {
			return nil, err
		}
		return gormstore.New(conn), nil
	case config.StorePgx:
		pool, err := db.OpenPgxPool(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		return pgxstore.New(pool), nil
	case config.StoreSQL:
		conn, err := db.OpenSQL(dbCfg)
		if err != nil {
			return nil, err
		}
		return sqlstore.New(conn), nil
	case config.StoreMemory:
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
