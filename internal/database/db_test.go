package database

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recipes.db")

	db, err := NewDB(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, table := range []string{"recipes", "shopping_lists", "activity_events"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist, got %v", table, err)
		}
	}
	db.Close()

	t.Run("ReopenIsNoChange", func(t *testing.T) {
		again, err := NewDB(path, zap.NewNop())
		if err != nil {
			t.Fatalf("Expected reopening to succeed, got %v", err)
		}
		again.Close()
	})
}
