package storage

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "data", "semihos.db"))
	if err != nil {
		t.Fatalf("NewSQLiteKV() error = %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestSQLiteKVLoadSave(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	if _, ok, err := kv.Load(ctx, "tasks"); err != nil || ok {
		t.Fatalf("Load(missing) = ok %v, err %v", ok, err)
	}

	if err := kv.Save(ctx, "tasks", `[{"id":1}]`); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := kv.Save(ctx, "tasks", `[]`); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}
	got, ok, err := kv.Load(ctx, "tasks")
	if err != nil || !ok || got != `[]` {
		t.Fatalf("Load() = %q, %v, %v; want [] true nil", got, ok, err)
	}

	keys, err := kv.Keys(ctx)
	if err != nil || len(keys) != 1 || keys[0] != "tasks" {
		t.Fatalf("Keys() = %v, %v", keys, err)
	}
}

func TestSQLiteKVHistory(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	for i := 0; i < historyDepth+5; i++ {
		if err := kv.Save(ctx, "income", strconv.Itoa(i)); err != nil {
			t.Fatal(err)
		}
	}
	revs, err := kv.History(ctx, "income", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(revs) != historyDepth {
		t.Fatalf("History() kept %d revisions, want %d", len(revs), historyDepth)
	}
	if revs[0].Value != strconv.Itoa(historyDepth+4) {
		t.Errorf("newest revision = %q", revs[0].Value)
	}

	revs, _ = kv.History(ctx, "income", 3)
	if len(revs) != 3 {
		t.Errorf("History(limit 3) = %d revisions", len(revs))
	}
}

func TestSQLiteKVReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "semihos.db")

	kv, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Save(ctx, "availableFunds", `"-1000"`); err != nil {
		t.Fatal(err)
	}
	kv.Close()

	kv, err = NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer kv.Close()
	got, ok, _ := kv.Load(ctx, "availableFunds")
	if !ok || got != `"-1000"` {
		t.Errorf("Load() after reopen = %q, %v", got, ok)
	}
}

func TestMemoryKVFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "places.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o644); err != nil {
		t.Fatal(err)
	}

	kv := NewMemoryKVFromDir(dir)
	ctx := context.Background()
	if v, ok, _ := kv.Load(ctx, "places"); !ok || v != `[]` {
		t.Errorf("Load(places) = %q, %v", v, ok)
	}
	if _, ok, _ := kv.Load(ctx, "notes"); ok {
		t.Error("non-json file must be ignored")
	}

	_ = kv.Save(ctx, "goals", `[]`)
	if keys, _ := kv.Keys(ctx); len(keys) != 2 || keys[0] != "goals" {
		t.Errorf("Keys() = %v", keys)
	}
	if empty := NewMemoryKVFromDir(filepath.Join(dir, "missing")); len(empty.Dump()) != 0 {
		t.Error("missing directory should give an empty store")
	}
}

func TestRunMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semihos.db")
	for i := 0; i < 2; i++ {
		version, err := RunMigrations(path)
		if err != nil {
			t.Fatalf("RunMigrations() run %d error = %v", i+1, err)
		}
		if version != SchemaVersion {
			t.Errorf("RunMigrations() run %d = version %d, want %d", i+1, version, SchemaVersion)
		}
	}
}
