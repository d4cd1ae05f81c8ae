// Package filelock provides advisory file locking so a CLI invocation and a
// running TUI never interleave writes to the same task storage.
package filelock

import (
	"errors"
	"fmt"
	"os"
)

const lockFileMode = 0o600

// Lock takes an exclusive advisory lock on the file at path, creating it if
// needed, and blocks while another holder (in this process or another) has
// it. The returned function releases the lock and closes the file.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted config
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	return func() error {
		return errors.Join(unlockFile(f), f.Close())
	}, nil
}
