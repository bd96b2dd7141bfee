// Package store provides the string key-value persistence backends the board
// manager saves its state into.
//
// Every backend implements [Store]: Get returns [ErrNotFound] for a key that
// has never been written, and Set replaces the whole value. The board writes
// two keys (tasks and columns), each holding a JSON document.
//
// Backends:
//   - [FileStore]: one file per key, atomic writes, flock(2) across processes
//   - [MemoryStore]: in-process map for tests and dry runs
//   - [RedisStore]: go-redis client with an optional key prefix
//   - [SQLStore]: MySQL key/value table with upserts
//
// [Open] builds the backend selected by configuration.
package store

import (
	"context"

	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = apperrors.New("key not found")

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// Backends returns the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendMemory, BackendRedis, BackendMySQL}
}

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases connections or handles held by the store.
	Close() error
}
