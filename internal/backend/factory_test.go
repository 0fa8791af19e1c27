package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"semihos/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	got, err := FromAppConfig(&config.Config{DataBackend: "memory", DataDir: "fixtures"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if got.Type != MemoryBackend || got.DataDirectory != "fixtures" {
		t.Errorf("FromAppConfig() = %+v", got)
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "income.json"), []byte(`"3000"`), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: dir})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	v, ok, err := res.KV.Load(context.Background(), "income")
	if err != nil || !ok || v != `"3000"` {
		t.Errorf("Load(income) = %q, %v, %v", v, ok, err)
	}
	if res.Publisher != nil {
		t.Error("publisher should be nil without AMQP")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semihos.db")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Cleanup()

	ctx := context.Background()
	if err := res.KV.Save(ctx, "tasks", "[]"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	keys, err := res.KV.Keys(ctx)
	if err != nil || len(keys) != 1 || keys[0] != "tasks" {
		t.Errorf("Keys() = %v, %v", keys, err)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Error("expected error without SQLite path")
	}
}
