package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONStoreLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "liftlog.json")
	store := NewJSONStore(path)

	if err := store.Load(); err == nil {
		t.Fatal("expected Load to fail before Init")
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Init(); err == nil {
		t.Error("expected second Init to fail")
	}

	if err := store.Set("workouts", []byte(`[{"id":"entry_1"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh store over the same file sees the data
	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := reopened.Get("workouts")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":"entry_1"}]` {
		t.Errorf("unexpected value %s", got)
	}

	if err := reopened.Delete("workouts"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := reopened.Get("workouts"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestJSONStoreRejectsNonJSON(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "liftlog.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Set("settings", []byte("not json")); err == nil {
		t.Error("expected error for non-JSON value")
	}
}

func TestStoresRequireLoad(t *testing.T) {
	providers := map[string]Provider{
		"json":   NewJSONStore(filepath.Join(t.TempDir(), "liftlog.json")),
		"memory": NewMemoryStore(),
	}
	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Get("workouts"); err == nil {
				t.Error("expected Get to fail before Load")
			}
			if err := p.Set("workouts", []byte("[]")); err == nil {
				t.Error("expected Set to fail before Load")
			}
		})
	}
}
