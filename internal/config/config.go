package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/deadliner/internal/clierr"
	"github.com/twiced-technology-gmbh/deadliner/internal/date"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no deadliner directory found (run 'deadliner init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config represents the tracker configuration stored in config.yml.
type Config struct {
	Version         int           `yaml:"version"`
	Storage         StorageConfig `yaml:"storage"`
	RefreshInterval string        `yaml:"refresh_interval"`
	DefaultDeadline string        `yaml:"default_deadline"`
	Timezone        string        `yaml:"timezone,omitempty"`
	TUI             TUIConfig     `yaml:"tui,omitempty"`

	// dir is the absolute path to the deadliner directory (not serialized).
	dir string `yaml:"-"`
}

// StorageConfig selects the key-value backend holding the task list.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // relative to the deadliner directory unless absolute
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	ProgressWidth int    `yaml:"progress_width,omitempty"`
	GradientStart string `yaml:"gradient_start,omitempty"`
	GradientEnd   string `yaml:"gradient_end,omitempty"`
	ExpiredColor  string `yaml:"expired_color,omitempty"`
}

// Dir returns the absolute path to the deadliner directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the deadliner directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// DataPath returns the absolute path of the storage backend's file, or ""
// for the memory backend.
func (c *Config) DataPath() string {
	p := c.Storage.Path
	if p == "" {
		p = DefaultDataFile(c.Storage.Backend)
	}
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// NewDefault creates a Config with default values for the given backend.
func NewDefault(backend string) *Config {
	if backend == "" {
		backend = BackendFile
	}
	return &Config{
		Version: CurrentVersion,
		Storage: StorageConfig{
			Backend: backend,
			Path:    DefaultDataFile(backend),
		},
		RefreshInterval: DefaultRefreshInterval,
		DefaultDeadline: DefaultDeadline,
		TUI: TUIConfig{
			ProgressWidth: DefaultProgressWidth,
			GradientStart: DefaultGradientStart,
			GradientEnd:   DefaultGradientEnd,
			ExpiredColor:  DefaultExpiredColor,
		},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if !contains(Backends, c.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend %q must be one of %v", ErrInvalid, c.Storage.Backend, Backends)
	}
	if c.Storage.Backend != BackendMemory && c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is required", ErrInvalid)
	}
	if d, err := time.ParseDuration(c.RefreshInterval); err != nil || d <= 0 {
		return fmt.Errorf("%w: refresh_interval %q must be a positive duration", ErrInvalid, c.RefreshInterval)
	}
	if _, err := date.ParseDuration(c.DefaultDeadline); err != nil {
		return fmt.Errorf("%w: default_deadline %q: %w", ErrInvalid, c.DefaultDeadline, err)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%w: timezone %q: %w", ErrInvalid, c.Timezone, err)
		}
	}
	return c.validateTUI()
}

func (c *Config) validateTUI() error {
	const minWidth, maxWidth = 10, 200
	if c.TUI.ProgressWidth < minWidth || c.TUI.ProgressWidth > maxWidth {
		return fmt.Errorf("%w: tui.progress_width must be between %d and %d", ErrInvalid, minWidth, maxWidth)
	}
	for key, v := range map[string]string{
		"tui.gradient_start": c.TUI.GradientStart,
		"tui.gradient_end":   c.TUI.GradientEnd,
	} {
		if !hexColor.MatchString(v) {
			return fmt.Errorf("%w: %s %q must be a #RRGGBB color", ErrInvalid, key, v)
		}
	}
	if c.TUI.ExpiredColor == "" {
		return fmt.Errorf("%w: tui.expired_color is required", ErrInvalid)
	}
	return nil
}

// RefreshIntervalDuration returns the refresh period, falling back to the
// default when the value cannot be parsed.
func (c *Config) RefreshIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultRefreshInterval)
	}
	return d
}

// DefaultDeadlineDuration returns the offset used to backfill missing deadlines.
func (c *Config) DefaultDeadlineDuration() time.Duration {
	d, err := date.ParseDuration(c.DefaultDeadline)
	if err != nil {
		d, _ = date.ParseDuration(DefaultDeadline)
	}
	return d
}

// Location returns the configured time zone, or time.Local when unset.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ProgressWidth returns the configured progress bar width.
func (c *Config) ProgressWidth() int {
	if c.TUI.ProgressWidth == 0 {
		return DefaultProgressWidth
	}
	return c.TUI.ProgressWidth
}

// Init creates a deadliner directory with a default config for backend.
func Init(dir, backend string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(backend)
	cfg.SetDir(absDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given deadliner directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a deadliner directory
// containing config.yml. Returns the absolute path to that directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the deadliner directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no deadliner directory found (run 'deadliner init' to create one)")
		}
		dir = parent
	}
}

// HomeDir returns the per-user fallback directory, ~/.config/deadliner.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "deadliner"), nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
