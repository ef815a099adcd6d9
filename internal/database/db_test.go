package database

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kitchen.db")

	db, err := NewDB(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	defer db.Close()

	var name string
	err = db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'execution_metrics'`).Scan(&name)
	if err != nil {
		t.Fatalf("Expected execution_metrics table, got %v", err)
	}

	// Re-running migrations on an up-to-date database is a no-op.
	if err := RunMigrations(path, zap.NewNop()); err != nil {
		t.Errorf("Second migration run failed: %v", err)
	}
}
