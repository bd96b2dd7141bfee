package board

import (
	"time"

	"github.com/Iron-Ham/taskboard/internal/event"
	"github.com/Iron-Ham/taskboard/internal/logging"
)

// Default store keys, matching boards saved by earlier versions.
const (
	DefaultTasksKey   = "kanban-tasks"
	DefaultColumnsKey = "kanban-columns"
)

// defaultTimeout bounds each store read or write.
const defaultTimeout = 5 * time.Second

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The manager tags entries with
// component=board.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithKeys overrides the store keys for the task and column lists.
func WithKeys(tasksKey, columnsKey string) Option {
	return func(m *Manager) {
		if tasksKey != "" {
			m.tasksKey = tasksKey
		}
		if columnsKey != "" {
			m.columnsKey = columnsKey
		}
	}
}

// WithTimeout bounds every store operation.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithBus publishes board events on an existing bus instead of a private one.
func WithBus(bus *event.Bus) Option {
	return func(m *Manager) {
		if bus != nil {
			m.bus = bus
		}
	}
}

// WithClock replaces time.Now for task creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
