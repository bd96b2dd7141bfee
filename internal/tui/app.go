package tui

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Iron-Ham/taskboard/internal/board"
	"github.com/Iron-Ham/taskboard/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	mgr    *board.Manager
	opts   Options
	logger *logging.Logger

	mu      sync.Mutex
	program *tea.Program
}

// NewApp creates a TUI application over mgr.
func NewApp(mgr *board.Manager, opts Options, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &App{
		mgr:    mgr,
		opts:   opts,
		logger: logger.WithComponent("tui"),
	}
}

// Run starts the TUI and blocks until the user quits, ctx is cancelled,
// or the process receives a termination signal.
func (a *App) Run(ctx context.Context) error {
	// Board events arrive on whatever goroutine mutated the board. They are
	// coalesced into a one-slot channel the model drains with a command.
	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	subs := []string{
		a.mgr.SubscribeTasks(func([]board.Task) { notify() }),
		a.mgr.SubscribeColumns(func([]board.Column) { notify() }),
	}
	defer func() {
		for _, id := range subs {
			a.mgr.Unsubscribe(id)
		}
	}()

	program := tea.NewProgram(
		NewModel(a.mgr, changes, a.opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	a.mu.Lock()
	a.program = program
	a.mu.Unlock()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			a.logger.Info("received signal, quitting", "signal", sig.String())
			program.Send(tea.Quit())
		case <-done:
		}
	}()

	a.logger.Info("tui started", "column_width", a.opts.ColumnWidth, "theme", a.opts.Theme)
	_, err := program.Run()

	close(done)
	signal.Stop(sigChan)

	a.mu.Lock()
	a.program = nil
	a.mu.Unlock()

	if err != nil {
		a.logger.Error("tui exited with error", "error", err)
		return err
	}
	a.logger.Info("tui stopped")
	return nil
}

// Reload applies new display options to a running TUI. It is a no-op when
// the TUI is not running.
func (a *App) Reload(opts Options) {
	a.mu.Lock()
	program := a.program
	a.opts = opts
	a.mu.Unlock()

	if program != nil {
		a.logger.Info("display options reloaded", "column_width", opts.ColumnWidth, "theme", opts.Theme)
		program.Send(optionsMsg(opts))
	}
}
