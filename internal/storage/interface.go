package storage

import (
	"errors"
	"fmt"
)

//go:generate mockgen -source=interface.go -destination=mock_provider_test.go -package=storage

// ErrNotFound is returned by a Provider when a key has never been written
// or has been deleted.
var ErrNotFound = errors.New("key not found")

// Provider is a key-value blob store. Values are JSON documents that are
// opaque to the provider.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Blobs
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by providers that keep the values a Set
// replaced.
type Versioned interface {
	// Previous returns the most recently replaced value of key, or
	// ErrNotFound when none was kept.
	Previous(key string) ([]byte, error)
}

// ErrNotVersioned is returned when the provider keeps no replaced values.
var ErrNotVersioned = errors.New("storage backend keeps no previous values")

// StorageError reports a failed read or write. The in-memory session is
// never rolled back when one is returned.
type StorageError struct {
	Op  string // read, write, delete, encode, decode
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
