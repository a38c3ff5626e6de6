package pgxstore_test

import (
	"context"
	"testing"

	"github.com/smallbiznis/invoicedesk/internal/storage"
	"github.com/smallbiznis/invoicedesk/internal/storage/pgxstore"
	"github.com/smallbiznis/invoicedesk/internal/storage/storagetest"
	"github.com/smallbiznis/invoicedesk/pkg/db"
	"github.com/stretchr/testify/require"
)

func TestPgxStorePostgres(t *testing.T) {
	dsn := storagetest.PostgresDSN(t)
	storagetest.Run(t, func(t *testing.T) storage.Store {
		pool, err := db.OpenPgxPool(context.Background(), db.Config{Type: db.TypePostgres, URL: dsn, MaxOpenConn: 4})
		require.NoError(t, err)
		return storagetest.Prepare(t, pgxstore.New(pool), func(ctx context.Context, stmt string) error {
			_, err := pool.Exec(ctx, stmt)
			return err
		})
	})
}

func TestPgxStoreRejectsSQLite(t *testing.T) {
	_, err := db.OpenPgxPool(context.Background(), db.Config{Type: db.TypeSQLite})
	require.Error(t, err)
}
