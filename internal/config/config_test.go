package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Backend)
	}
	if cfg.WeightUnit != "kg" {
		t.Errorf("expected kg, got %q", cfg.WeightUnit)
	}
	if strings.HasPrefix(cfg.DataDir, "~") {
		t.Errorf("expected data dir to be expanded, got %q", cfg.DataDir)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "config.yaml", "backend: file\ndata_dir: /tmp/lift\nweight_unit: lb\nmax_backups: 3\n"},
		{"yml", "config.yml", "backend: file\ndata_dir: /tmp/lift\nweight_unit: lb\nmax_backups: 3\n"},
		{"toml", "config.toml", "backend = \"file\"\ndata_dir = \"/tmp/lift\"\nweight_unit = \"lb\"\nmax_backups = 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Backend != BackendFile || cfg.DataDir != "/tmp/lift" || cfg.WeightUnit != "lb" || cfg.MaxBackups != 3 {
				t.Errorf("unexpected config %+v", cfg)
			}
			if cfg.StorePath() != filepath.Join("/tmp/lift", "liftlog.json") {
				t.Errorf("unexpected store path %q", cfg.StorePath())
			}
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := Load(writeFile(t, "config.ini", "backend=file")); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "backend: file\ndata_dir: /tmp/lift\n")
	t.Setenv("LIFTLOG_BACKEND", "sqlite")
	t.Setenv("LIFTLOG_MAX_BACKUPS", "5")
	t.Setenv("LIFTLOG_DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.MaxBackups != 5 || !cfg.Debug {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.StorePath() != filepath.Join("/tmp/lift", "liftlog.db") {
		t.Errorf("unexpected store path %q", cfg.StorePath())
	}
}

func TestEnvOverrideInvalidNumber(t *testing.T) {
	t.Setenv("LIFTLOG_MAX_BACKUPS", "lots")
	if _, err := Load(""); err == nil {
		t.Error("expected an error for a non-numeric override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Backend = "redis" }, "backend"},
		{"postgres without dsn", func(c *Config) { c.Backend = BackendPostgres }, ""},
		{"postgres with dsn", func(c *Config) { c.Backend = BackendPostgres; c.PostgresDSN = "host=localhost" }, ""},
		{"bad unit", func(c *Config) { c.WeightUnit = "stone" }, "weight_unit"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"negative backups", func(c *Config) { c.MaxBackups = -1 }, "max_backups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("ExpandHome(~/x) = %q", got)
	}
	if got := ExpandHome("/abs"); got != "/abs" {
		t.Errorf("ExpandHome(/abs) = %q", got)
	}
}
