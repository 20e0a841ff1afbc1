package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/inferkit/schedc/internal/ir"
)

// newTestStore opens a store in a temp directory, closed on cleanup.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "schedc.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestPass builds a pass record with a fresh UUIDv7.
func newTestPass(t *testing.T, modelHash string, schedule ir.Schedule, repaired bool) PassRecord {
	t.Helper()
	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("uuid.NewV7: %v", err)
	}
	return PassRecord{
		PassID:    id,
		ModelHash: modelHash,
		ModelName: "test-model",
		Schedule:  schedule,
		Repaired:  repaired,
	}
}
