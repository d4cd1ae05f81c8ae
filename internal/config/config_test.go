package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
)

func TestInitAndLoad(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), DefaultDir)

	cfg, err := Init(dir, BackendSQLite)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if cfg.DataPath() != filepath.Join(dir, "tasks.db") {
		t.Errorf("DataPath = %q", cfg.DataPath())
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Storage.Backend != BackendSQLite || loaded.Version != CurrentVersion {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.RefreshIntervalDuration() != time.Second {
		t.Errorf("refresh interval = %s, want 1s", loaded.RefreshIntervalDuration())
	}
	if loaded.DefaultDeadlineDuration() != 24*time.Hour {
		t.Errorf("default deadline = %s, want 24h", loaded.DefaultDeadlineDuration())
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadMigratesV1(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	v1 := "version: 1\nstorage:\n  backend: file\n  path: mine.json\ndefault_deadline: 2d\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(v1), fileMode); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Storage.Path != "mine.json" || cfg.DefaultDeadline != "2d" {
		t.Errorf("migration overwrote existing values: %+v", cfg)
	}
	if cfg.TUI.ProgressWidth != DefaultProgressWidth || cfg.RefreshInterval != DefaultRefreshInterval {
		t.Errorf("migration did not fill defaults: %+v", cfg)
	}
	if cfg.DefaultDeadlineDuration() != 48*time.Hour {
		t.Errorf("default deadline = %s, want 48h", cfg.DefaultDeadlineDuration())
	}

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "version: 2") {
		t.Errorf("migrated config was not persisted:\n%s", data)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("version: 99\n"), fileMode); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"memory without path", func(c *Config) { c.Storage = StorageConfig{Backend: BackendMemory} }, true},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, false},
		{"missing path", func(c *Config) { c.Storage.Path = "" }, false},
		{"bad refresh", func(c *Config) { c.RefreshInterval = "soon" }, false},
		{"zero refresh", func(c *Config) { c.RefreshInterval = "0s" }, false},
		{"week deadline", func(c *Config) { c.DefaultDeadline = "1w" }, true},
		{"bad deadline", func(c *Config) { c.DefaultDeadline = "-1h" }, false},
		{"timezone", func(c *Config) { c.Timezone = "UTC" }, true},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, false},
		{"narrow bar", func(c *Config) { c.TUI.ProgressWidth = 2 }, false},
		{"bad gradient", func(c *Config) { c.TUI.GradientEnd = "pink" }, false},
		{"no expired color", func(c *Config) { c.TUI.ExpiredColor = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault(BackendFile)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestFindDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if _, err := Init(filepath.Join(root, DefaultDir), ""); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, dirMode); err != nil {
		t.Fatal(err)
	}

	got, err := FindDir(nested)
	if err != nil {
		t.Fatalf("FindDir failed: %v", err)
	}
	if got != filepath.Join(root, DefaultDir) {
		t.Errorf("FindDir = %q", got)
	}

	inside, err := FindDir(filepath.Join(root, DefaultDir))
	if err != nil || inside != filepath.Join(root, DefaultDir) {
		t.Errorf("FindDir from inside = %q, %v", inside, err)
	}
}

func TestFindDirNotFound(t *testing.T) {
	t.Parallel()
	_, err := FindDir(t.TempDir())
	if err == nil {
		t.Skip("a deadliner directory exists above the temp dir")
	}
	if !clierr.HasCode(err, clierr.BoardNotFound) {
		t.Errorf("err = %v, want BOARD_NOT_FOUND", err)
	}
}

func TestDataPathAbsolute(t *testing.T) {
	cfg := NewDefault(BackendFile)
	cfg.SetDir("/srv/deadliner")
	abs := filepath.Join(t.TempDir(), "shared.json")
	cfg.Storage.Path = abs
	if cfg.DataPath() != abs {
		t.Errorf("DataPath = %q, want %q", cfg.DataPath(), abs)
	}
}
