// Package helpers provides shared test constructors.
package helpers

import (
	"testing"

	"github.com/ecotrip/orchestrator/store"
)

func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func NewTestMemoryStore(t *testing.T) *store.MemoryStore {
	t.Helper()

	s := store.NewMemoryStore()
	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}
