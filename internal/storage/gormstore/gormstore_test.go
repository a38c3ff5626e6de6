package gormstore_test

import (
	"context"
	"testing"

	"github.com/smallbiznis/invoicedesk/internal/storage"
	"github.com/smallbiznis/invoicedesk/internal/storage/gormstore"
	"github.com/smallbiznis/invoicedesk/internal/storage/storagetest"
	"github.com/smallbiznis/invoicedesk/pkg/db"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormStoreSQLite(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		conn, err := db.NewTest()
		require.NoError(t, err)
		return storagetest.Prepare(t, gormstore.New(conn), nil)
	})
}

func TestGormStoreSQLiteSearchFolding(t *testing.T) {
	storagetest.RunASCIIFold(t, func(t *testing.T) storage.Store {
		conn, err := db.NewTest()
		require.NoError(t, err)
		return storagetest.Prepare(t, gormstore.New(conn), nil)
	})
}

func TestGormStorePostgres(t *testing.T) {
	dsn := storagetest.PostgresDSN(t)
	storagetest.Run(t, func(t *testing.T) storage.Store {
		conn, err := db.OpenGorm(db.Config{Type: db.TypePostgres, URL: dsn, MaxOpenConn: 4}, gormlogger.Discard)
		require.NoError(t, err)
		return storagetest.Prepare(t, gormstore.New(conn), func(ctx context.Context, stmt string) error {
			return conn.WithContext(ctx).Exec(stmt).Error
		})
	})
}

