package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
)

func TestFileStore_NewFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if fs.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fs.Dir(), dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("store directory was not created: %v", err)
	}
}

func TestFileStore_NewFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("NewFileStore(\"\") should fail")
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = fs.Get(context.Background(), "kanban-tasks")
	if !apperrors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_SetGet(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := fs.Set(ctx, "kanban-tasks", `[{"id":1}]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := fs.Set(ctx, "kanban-tasks", `[]`); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := fs.Get(ctx, "kanban-tasks")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "[]" {
		t.Errorf("Get() = %q, want %q", got, "[]")
	}

	if _, err := os.Stat(filepath.Join(dir, "kanban-tasks.json")); err != nil {
		t.Errorf("value file missing: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if len(e.Name()) > 4 && e.Name()[:5] == ".tmp-" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStore_InvalidKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../escape", "a/b", `a\b`, ".hidden"} {
		if err := fs.Set(ctx, key, "x"); err == nil {
			t.Errorf("Set(%q) should fail", key)
		}
		if _, err := fs.Get(ctx, key); err == nil || apperrors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want validation error", key, err)
		}
	}
}

func TestFileStore_CanceledContext(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := fs.Set(ctx, "k", "v"); err == nil {
		t.Error("Set() with canceled context should fail")
	}
	if _, err := fs.Get(ctx, "k"); err == nil {
		t.Error("Get() with canceled context should fail")
	}
}

func TestFileStore_WriteErrorIsStoreError(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	// A directory where the value file should go makes the rename fail.
	if err := os.Mkdir(filepath.Join(dir, "kanban-tasks.json"), 0755); err != nil {
		t.Fatal(err)
	}

	err = fs.Set(context.Background(), "kanban-tasks", "[]")
	var storeErr *apperrors.StoreError
	if !apperrors.As(err, &storeErr) {
		t.Fatalf("Set() error = %v, want *StoreError", err)
	}
	if storeErr.Backend != BackendFile || storeErr.Key != "kanban-tasks" {
		t.Errorf("StoreError = %+v, want backend=file key=kanban-tasks", storeErr)
	}
}

func TestFileStore_ConcurrentStores(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = a.Set(ctx, "shared", fmt.Sprintf("a-%02d", n))
		}(i)
		go func(n int) {
			defer wg.Done()
			_ = b.Set(ctx, "shared", fmt.Sprintf("b-%02d", n))
		}(i)
	}
	wg.Wait()

	got, err := a.Get(ctx, "shared")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("Get() = %q, want one complete value", got)
	}
}

func TestFileStore_Close(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
