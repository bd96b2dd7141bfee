package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
)

// fileExt is appended to every key to form its file name.
const fileExt = ".json"

// FileStore keeps each key in its own file under a base directory.
// Writes go through a temp file and rename so a crash never leaves a
// half-written value behind, and are serialised across processes with a
// FileLock in the same directory.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
	lock    *FileLock
}

// NewFileStore creates a FileStore rooted at baseDir, creating the
// directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, apperrors.NewStoreError("no data directory configured", nil).WithBackend(BackendFile)
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, apperrors.NewStoreError("failed to create store directory", err).WithBackend(BackendFile)
	}
	return &FileStore{
		baseDir: baseDir,
		lock:    NewFileLock(baseDir),
	}, nil
}

// Dir returns the directory the store writes into.
func (fs *FileStore) Dir() string {
	return fs.baseDir
}

// Get reads the value for key.
func (fs *FileStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := fs.keyToPath(key)
	if err != nil {
		return "", err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", apperrors.NewStoreError("failed to read file", err).WithBackend(BackendFile).WithKey(key)
	}
	return string(data), nil
}

// Set atomically replaces the value for key.
func (fs *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := fs.keyToPath(key)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.lock.Lock(); err != nil {
		return apperrors.NewStoreError("failed to lock store", err).WithBackend(BackendFile).WithKey(key)
	}
	defer func() { _ = fs.lock.Unlock() }()

	if err := atomicWriteFile(path, []byte(value), 0644); err != nil {
		return apperrors.NewStoreError("failed to write file", err).WithBackend(BackendFile).WithKey(key)
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles between calls.
func (fs *FileStore) Close() error {
	return nil
}

// keyToPath maps a key to its file. Keys are flat names; anything that
// could escape the base directory is rejected.
func (fs *FileStore) keyToPath(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", apperrors.NewValidationError("invalid store key").WithField("key").WithValue(key)
	}
	return filepath.Join(fs.baseDir, key+fileExt), nil
}

// atomicWriteFile writes data to a temp file in the target directory, syncs
// it, and renames it over path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
