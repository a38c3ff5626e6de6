package memstore_test

import (
	"testing"

	"github.com/smallbiznis/invoicedesk/internal/storage"
	"github.com/smallbiznis/invoicedesk/internal/storage/memstore"
	"github.com/smallbiznis/invoicedesk/internal/storage/storagetest"
)

func TestMemStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return storagetest.Prepare(t, memstore.New(), nil)
	})
}

func TestMemStoreSearchFolding(t *testing.T) {
	storagetest.RunASCIIFold(t, func(t *testing.T) storage.Store {
		return storagetest.Prepare(t, memstore.New(), nil)
	})
}
