package store

import (
	"context"

	"github.com/Iron-Ham/taskboard/internal/config"
	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
)

// Open builds the backend named by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.Store.ResolveDir())
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	case BackendMySQL:
		return NewSQLStore(ctx, cfg.MySQL.DSN, cfg.MySQL.Table)
	default:
		return nil, apperrors.Wrapf(apperrors.ErrUnknownBackend, "backend %q", cfg.Store.Backend)
	}
}
