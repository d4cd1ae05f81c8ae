package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/deadliner/internal/filelock"
)

const fileMode = 0o600

// FileKV stores all keys as one JSON object of string values in a single
// file, the way a browser's local storage keeps serialized values.
type FileKV struct {
	path string
}

// NewFileKV returns a file backend at path. The file is created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Path returns the data file location.
func (f *FileKV) Path() string {
	return f.path
}

// Get implements KV.
func (f *FileKV) Get(key string) (string, bool, error) {
	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set implements KV. Other keys in the file are preserved; a corrupt file is
// replaced.
func (f *FileKV) Set(key, value string) error {
	values, err := f.read()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if values == nil {
		values = make(map[string]string, 1)
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling storage file: %w", err)
	}
	return writeAtomic(f.path, append(data, '\n'))
}

// Lock implements Locker using an advisory lock next to the data file.
func (f *FileKV) Lock() (func() error, error) {
	return filelock.Lock(f.path + ".lock")
}

func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path) //nolint:gosec // data path from trusted config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading storage file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(f.path), err)
	}
	return values, nil
}

// writeAtomic writes data to a temp file in the same directory and renames it
// over path so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing storage file: %w", err)
	}
	return nil
}
