package storagetest

import (
	"context"
	"os"
	"testing"

	"github.com/smallbiznis/invoicedesk/internal/storage"
	"github.com/stretchr/testify/require"
)

// PostgresDSNEnv names the variable that enables PostgreSQL-backed runs.
const PostgresDSNEnv = "INVOICEDESK_TEST_POSTGRES_DSN"

// PostgresDSN returns the test DSN or skips the test when none is set.
func PostgresDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresDSNEnv)
	}
	return dsn
}

// Truncate is the statement that empties every table between cases.
const Truncate = `TRUNCATE TABLE invoices, customers, users, revenue`

// Prepare migrates store, empties it via exec and closes it when the test
// ends.
func Prepare(t *testing.T, store storage.Store, exec func(ctx context.Context, stmt string) error) storage.Store {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	if exec != nil {
		require.NoError(t, exec(ctx, Truncate))
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
