package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/taskboard/internal/board"
	appconfig "github.com/Iron-Ham/taskboard/internal/config"
	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/Iron-Ham/taskboard/internal/event"
	"github.com/Iron-Ham/taskboard/internal/logging"
	"github.com/Iron-Ham/taskboard/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// boardSession bundles everything a command needs to read or change the
// board. Close releases it.
type boardSession struct {
	cfg    *appconfig.Config
	store  store.Store
	board  *board.Manager
	logger *logging.Logger
}

// openBoard loads configuration, opens the configured store and loads the
// board from it. Every invocation gets its own run id in the log.
func openBoard(cmd *cobra.Command) (*boardSession, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid configuration")
	}

	logger := newLogger(cmd, cfg).WithRun(uuid.NewString())
	logger.Debug("command started", "command", cmd.CommandPath(), "backend", cfg.Store.Backend)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	openCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout())
	defer cancel()

	st, err := store.Open(openCtx, cfg)
	if err != nil {
		_ = logger.Close()
		return nil, apperrors.NewStoreError("failed to open store", err).WithBackend(cfg.Store.Backend)
	}

	bus := event.NewBus()
	bus.SetLogger(logger)
	bus.SubscribeAll(func(e event.Event) {
		switch ev := e.(type) {
		case board.TasksChangedEvent:
			logger.Debug("board event", "event_type", ev.EventType(), "op", ev.Op, "tasks", len(ev.Tasks))
		case board.ColumnsChangedEvent:
			logger.Debug("board event", "event_type", ev.EventType(), "op", ev.Op, "columns", len(ev.Columns))
		}
	})

	mgr, err := board.New(st,
		board.WithLogger(logger),
		board.WithBus(bus),
		board.WithKeys(cfg.Store.TasksKey, cfg.Store.ColumnsKey),
		board.WithTimeout(cfg.Store.Timeout()),
	)
	if err != nil {
		_ = st.Close()
		_ = logger.Close()
		return nil, apperrors.NewStoreError("failed to load board", err).WithBackend(cfg.Store.Backend)
	}

	return &boardSession{cfg: cfg, store: st, board: mgr, logger: logger}, nil
}

// newLogger returns the file logger configured by cfg, or a no-op logger
// when logging is disabled or the log file cannot be opened.
func newLogger(cmd *cobra.Command, cfg *appconfig.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLoggerWithRotation(cfg.Store.ResolveDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}

// commit reports ok as an error built by declined, then surfaces any store
// write failure from the mutation.
func (s *boardSession) commit(ok bool, declined func() error) error {
	if !ok {
		return declined()
	}
	if err := s.board.PersistErr(); err != nil {
		return apperrors.NewStoreError("change applied but not saved", err).WithBackend(s.cfg.Store.Backend)
	}
	return nil
}

// Close closes the store and the log file.
func (s *boardSession) Close() error {
	s.logger.Debug("command finished")
	return apperrors.Join(s.store.Close(), s.logger.Close())
}
