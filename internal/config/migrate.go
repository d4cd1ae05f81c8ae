package config

import "fmt"

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade deadliner)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
}

// migrateV1ToV2 adds refresh_interval and the tui section. v1 files always
// used the file backend and a tasks.json next to the config.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultDataFile(cfg.Storage.Backend)
	}
	if cfg.RefreshInterval == "" {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.DefaultDeadline == "" {
		cfg.DefaultDeadline = DefaultDeadline
	}
	if cfg.TUI.ProgressWidth == 0 {
		cfg.TUI.ProgressWidth = DefaultProgressWidth
	}
	if cfg.TUI.GradientStart == "" {
		cfg.TUI.GradientStart = DefaultGradientStart
	}
	if cfg.TUI.GradientEnd == "" {
		cfg.TUI.GradientEnd = DefaultGradientEnd
	}
	if cfg.TUI.ExpiredColor == "" {
		cfg.TUI.ExpiredColor = DefaultExpiredColor
	}
	cfg.Version = 2
	return nil
}
