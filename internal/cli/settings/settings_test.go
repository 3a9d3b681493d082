package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(tempDir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	cfg := config.Default()
	cfg.DataDir = tempDir
	ctx := cli.NewContext(store, cfg)

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, cleanup
}

func strPtr(s string) *string { return &s }

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("settings with no flags failed: %v", err)
	}
}

func TestSettingsCmd_WeightUnit(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if got := ctx.Unit(); got != "kg" {
		t.Fatalf("expected default unit kg, got %q", got)
	}
	if err := (&SettingsCmd{WeightUnit: strPtr("lb")}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}
	if got := ctx.Unit(); got != "lb" {
		t.Errorf("expected unit lb, got %q", got)
	}

	// Units are checked by the store
	if err := (&SettingsCmd{WeightUnit: strPtr("stone")}).Run(ctx); err == nil {
		t.Error("expected error for an unknown unit")
	}
}
