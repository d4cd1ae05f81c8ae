package store

import "fmt"

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open creates a Store over the named backend at path.
func Open(backend, path string) (*Store, error) {
	switch backend {
	case BackendFile, "":
		return New(NewFileKV(path)), nil
	case BackendSQLite:
		kv, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return New(kv), nil
	case BackendMemory:
		return New(NewMemoryKV()), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
