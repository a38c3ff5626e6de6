package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqliteDriver is registered by github.com/glebarez/go-sqlite, which the
// glebarez gorm dialector imports.
const sqliteDriver = "sqlite"

const memoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// OpenGorm opens a gorm handle for the configured dialect and installs plugins.
func OpenGorm(cfg Config, log gormlogger.Interface, plugins ...gorm.Plugin) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         log,
		TranslateError: true,
	})
	if err != nil {
		return nil, Unavailable(fmt.Errorf("open gorm: %w", err))
	}

	for _, plugin := range plugins {
		if err := conn.Use(plugin); err != nil {
			return nil, fmt.Errorf("register gorm plugin %s: %w", plugin.Name(), err)
		}
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if err := configurePool(sqlDB, cfg); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return conn, nil
}

// OpenSQL opens a sqlx handle: lib/pq for postgres, go-sqlite for sqlite.
func OpenSQL(cfg Config) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	switch cfg.Type {
	case TypePostgres:
		conn, err = sqlx.Open("postgres", cfg.PostgresURL())
	case TypeSQLite:
		conn, err = sqlx.Open(sqliteDriver, cfg.SQLiteDSN())
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("open sql: %w", err)
	}

	if err := configurePool(conn.DB, cfg); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// OpenPgxPool opens a pgx connection pool. Only postgres is supported.
func OpenPgxPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.Type != TypePostgres {
		return nil, fmt.Errorf("pgx store requires postgres, got %s", cfg.Type)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresURL())
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if cfg.MaxOpenConn > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConn)
	}
	if cfg.MaxIdleConn > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, Unavailable(fmt.Errorf("open pgx pool: %w", err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout(cfg))
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, Unavailable(fmt.Errorf("ping pgx pool: %w", err))
	}
	return pool, nil
}

// NewTest opens an in-memory SQLite gorm handle with foreign keys enforced.
// The pool is pinned to one connection so every query sees the same database.
func NewTest() (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(memoryDSN), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return conn, nil
}

// NewTestSQL is the sqlx counterpart of NewTest.
func NewTestSQL() (*sqlx.DB, error) {
	conn, err := sqlx.Open(sqliteDriver, memoryDSN)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func configurePool(sqlDB *sql.DB, cfg Config) error {
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout(cfg))
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return Unavailable(fmt.Errorf("ping database: %w", err))
	}
	return nil
}

func pingTimeout(cfg Config) time.Duration {
	if cfg.PingTimeout <= 0 {
		return 3 * time.Second
	}
	return cfg.PingTimeout
}
