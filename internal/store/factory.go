package store

import "fmt"

// BackendType selects how the ledger root is persisted.
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

// IsValid checks whether the backend type is supported.
func (t BackendType) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend:
		return true
	}
	return false
}

// New builds the Store for the given backend and path.
func New(backend BackendType, path string) (Store, error) {
	switch backend {
	case FileBackend:
		return NewFileStore(path), nil
	case SQLiteBackend:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", backend)
	}
}
