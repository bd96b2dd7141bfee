package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"
)

// mysqlDSN returns the DSN of a disposable test database, skipping the
// test when none is configured.
func mysqlDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TASKBOARD_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TASKBOARD_TEST_MYSQL_DSN not set")
	}
	return dsn
}

func TestValidateTable(t *testing.T) {
	tests := []struct {
		table string
		valid bool
	}{
		{"taskboard_kv", true},
		{"_kv", true},
		{"kv2", true},
		{"", false},
		{"2kv", false},
		{"kv-store", false},
		{"kv; DROP TABLE x", false},
		{"db.kv", false},
	}
	for _, tt := range tests {
		err := validateTable(tt.table)
		if (err == nil) != tt.valid {
			t.Errorf("validateTable(%q) error = %v, want valid=%v", tt.table, err, tt.valid)
		}
	}
}

func TestNewSQLStore_RejectsBadTable(t *testing.T) {
	_, err := NewSQLStore(context.Background(), "user:pass@tcp(127.0.0.1:1)/db", "bad-name")
	if err == nil {
		t.Fatal("NewSQLStore should reject an invalid table name before connecting")
	}
}

func TestSQLStore_RoundTrip(t *testing.T) {
	dsn := mysqlDSN(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := fmt.Sprintf("taskboard_test_%d", time.Now().UnixNano()%1_000_000)
	s, err := NewSQLStore(ctx, dsn, table)
	if err != nil {
		t.Fatalf("NewSQLStore() error = %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(context.Background(), "DROP TABLE "+table)
		_ = s.Close()
	})

	if _, err := s.Get(ctx, "kanban-tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty table error = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "kanban-tasks", "[1]"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "kanban-tasks", "[1,2]"); err != nil {
		t.Fatalf("Set() upsert error = %v", err)
	}
	got, err := s.Get(ctx, "kanban-tasks")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "[1,2]" {
		t.Errorf("Get() = %q, want %q", got, "[1,2]")
	}
}
