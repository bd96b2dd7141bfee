package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"

	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
)

// DefaultTable is the table SQLStore uses when none is configured.
const DefaultTable = "taskboard_kv"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// SQLStore keeps values in a two-column MySQL table keyed by name.
type SQLStore struct {
	db    *sql.DB
	table string
	owned bool
}

// NewSQLStore opens a MySQL connection from dsn, pings it, and creates the
// key/value table if it does not exist.
func NewSQLStore(ctx context.Context, dsn, table string) (*SQLStore, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to open database", err).WithBackend(BackendMySQL)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.NewStoreError("failed to connect",
			errors.Join(apperrors.ErrStoreUnavailable, err)).WithBackend(BackendMySQL)
	}

	s, err := NewSQLStoreWithDB(ctx, db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewSQLStoreWithDB wraps an existing handle and runs the table migration.
// Close leaves db open.
func NewSQLStoreWithDB(ctx context.Context, db *sql.DB, table string) (*SQLStore, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	s := &SQLStore{db: db, table: table}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func validateTable(table string) error {
	if !tableNamePattern.MatchString(table) {
		return apperrors.NewValidationError("invalid table name").WithField("mysql.table").WithValue(table)
	}
	return nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    k VARCHAR(191) NOT NULL PRIMARY KEY,
    v LONGTEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) DEFAULT CHARSET=utf8mb4`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return apperrors.NewStoreError("failed to create table", err).WithBackend(BackendMySQL)
	}
	return nil
}

// Get returns the value stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT v FROM %s WHERE k = ?", s.table), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", apperrors.NewStoreError("select failed", err).WithBackend(BackendMySQL).WithKey(key)
	}
	return v, nil
}

// Set upserts value under key.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	stmt := fmt.Sprintf("INSERT INTO %s (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)", s.table)
	if _, err := s.db.ExecContext(ctx, stmt, key, value); err != nil {
		return apperrors.NewStoreError("upsert failed", err).WithBackend(BackendMySQL).WithKey(key)
	}
	return nil
}

// Close closes the database handle if the store opened it.
func (s *SQLStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
