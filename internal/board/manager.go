package board

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/Iron-Ham/taskboard/internal/event"
	"github.com/Iron-Ham/taskboard/internal/logging"
	"github.com/Iron-Ham/taskboard/internal/store"
)

// Operation names carried by board events and log entries.
const (
	OpLoad              = "load"
	OpAddTask           = "add_task"
	OpUpdateTask        = "update_task"
	OpMoveTask          = "move_task"
	OpDeleteTask        = "delete_task"
	OpReorderTasks      = "reorder_tasks"
	OpAddColumn         = "add_column"
	OpRemoveColumn      = "remove_column"
	OpUpdateColumnTitle = "update_column_title"
	OpReorderColumns    = "reorder_columns"
)

// change records which lists a mutation touched.
type change uint8

const (
	tasksChanged change = 1 << iota
	columnsChanged
)

// Manager owns the board's tasks and columns. Every mutation runs to
// completion under a mutex, writes the affected lists to the store, and
// then publishes the new snapshot on the event bus.
//
// Mutations report whether they applied. A declined mutation (empty title,
// unknown id, out-of-range index, protected column) changes nothing and
// publishes nothing. Store write failures never decline a mutation; they
// are logged and available from PersistErr.
//
// Manager is safe for concurrent use. Event handlers run with no manager
// lock held and may call any method, including mutations; events raised
// from inside a handler are delivered after that handler returns.
type Manager struct {
	mu sync.Mutex

	store      store.Store
	bus        *event.Bus
	logger     *logging.Logger
	tasksKey   string
	columnsKey string
	timeout    time.Duration
	now        func() time.Time

	tasks        []Task
	columns      []Column // sorted by Order, orders dense
	nextTaskID   int
	nextColumnID int
	persistErr   error

	pending  []event.Event
	draining bool
}

// New loads the board from st, repairs the column list if needed, and
// writes the columns back so a canonical copy always exists. Malformed
// persisted data is treated as absent; a store that cannot be read is an
// error.
func New(st store.Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:      st,
		logger:     logging.NopLogger(),
		tasksKey:   DefaultTasksKey,
		columnsKey: DefaultColumnsKey,
		timeout:    defaultTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = event.NewBus()
	}
	m.logger = m.logger.WithComponent("board")

	if err := m.load(context.Background()); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if err := m.persistLocked(m.columnsKey, m.columns); err != nil {
		m.logger.Error("failed to write columns after load", "error", err)
		m.persistErr = err
	}
	m.pending = append(m.pending,
		newTasksChangedEvent(OpLoad, slices.Clone(m.tasks)),
		newColumnsChangedEvent(OpLoad, slices.Clone(m.columns)))
	m.logger.Info("board loaded",
		"tasks", len(m.tasks),
		"columns", len(m.columns),
		"next_task_id", m.nextTaskID,
		"next_column_id", m.nextColumnID)
	m.mu.Unlock()
	m.flush()

	return m, nil
}

// Bus returns the bus board events are published on.
func (m *Manager) Bus() *event.Bus {
	return m.bus
}

// PersistErr returns the error from the most recent store write, or nil if
// it succeeded.
func (m *Manager) PersistErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persistErr
}

// -----------------------------------------------------------------------------
// Queries
// -----------------------------------------------------------------------------

// Tasks returns a copy of every task in insertion order.
func (m *Manager) Tasks() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.tasks)
}

// Columns returns a copy of the columns sorted by order.
func (m *Manager) Columns() []Column {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.columns)
}

// TasksByColumns returns every column, sorted by order, with the tasks
// whose status names it sorted by their order. Tasks whose status matches
// no column appear nowhere.
func (m *Manager) TasksByColumns() []ColumnView {
	m.mu.Lock()
	defer m.mu.Unlock()

	views := make([]ColumnView, 0, len(m.columns))
	for _, c := range m.columns {
		views = append(views, ColumnView{
			ID:    c.ID,
			Title: c.Title,
			Order: c.Order,
			Tasks: m.columnTasksLocked(c.ID),
		})
	}
	return views
}

// TaskByID returns the task with the given id.
func (m *Manager) TaskByID(id int) (Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.taskIndexLocked(id)
	if i < 0 {
		return Task{}, false
	}
	return m.tasks[i], true
}

// ColumnByID returns the column with the given id.
func (m *Manager) ColumnByID(id string) (Column, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.columnIndexLocked(id)
	if i < 0 {
		return Column{}, false
	}
	return m.columns[i], true
}

// ColumnIndex returns the display position of the column with the given id.
func (m *Manager) ColumnIndex(id string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.columnIndexLocked(id)
	return i, i >= 0
}

// Stats counts tasks per column.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Total:    len(m.tasks),
		ByColumn: make(map[string]int, len(m.columns)),
	}
	for _, c := range m.columns {
		s.ByColumn[c.ID] = 0
	}
	for _, t := range m.tasks {
		if _, ok := s.ByColumn[t.Status]; ok {
			s.ByColumn[t.Status]++
		}
	}
	s.Todo = s.ByColumn[ColumnTodo]
	s.InProgress = s.ByColumn[ColumnInProgress]
	s.Done = s.ByColumn[ColumnDone]
	return s
}

// -----------------------------------------------------------------------------
// Task mutations
// -----------------------------------------------------------------------------

// AddTask appends a task to the end of status (todo when empty). Title and
// description are trimmed; an empty title declines the call. An empty
// priority means DefaultPriority; an unknown one declines the call.
func (m *Manager) AddTask(title, description string, priority Priority, status string) (Task, bool) {
	title = strings.TrimSpace(title)
	if status == "" {
		status = ColumnTodo
	}
	if priority == "" {
		priority = DefaultPriority
	}

	var added Task
	ok := m.apply(OpAddTask, func() change {
		if title == "" {
			m.declined(OpAddTask, "empty title")
			return 0
		}
		if !priority.Valid() {
			m.declined(OpAddTask, "invalid priority", "priority", priority)
			return 0
		}

		maxOrder := -1
		for _, t := range m.tasks {
			if t.Status == status {
				maxOrder = max(maxOrder, t.Order)
			}
		}

		added = Task{
			ID:          m.nextTaskID,
			Title:       title,
			Description: strings.TrimSpace(description),
			Priority:    priority,
			Status:      status,
			CreatedAt:   m.now().UTC(),
			Order:       maxOrder + 1,
		}
		m.nextTaskID++
		m.tasks = append(m.tasks, added)
		return tasksChanged
	})
	return added, ok
}

// UpdateTask merges u into the task with the given id. A title that is
// empty after trimming, an empty status or an unknown priority declines
// the whole update. The task's order is kept unless u sets it.
func (m *Manager) UpdateTask(id int, u TaskUpdate) bool {
	return m.apply(OpUpdateTask, func() change {
		return m.updateLocked(OpUpdateTask, id, u)
	})
}

// MoveTask changes a task's column. Orders are not renumbered: the task
// keeps its previous order, which may tie with a task already in status.
func (m *Manager) MoveTask(id int, status string) bool {
	return m.apply(OpMoveTask, func() change {
		return m.updateLocked(OpMoveTask, id, TaskUpdate{Status: &status})
	})
}

func (m *Manager) updateLocked(op string, id int, u TaskUpdate) change {
	i := m.taskIndexLocked(id)
	if i < 0 {
		m.declined(op, "task not found", "task_id", id)
		return 0
	}
	if u.Empty() {
		m.declined(op, "nothing to update", "task_id", id)
		return 0
	}

	t := m.tasks[i]
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			m.declined(op, "empty title", "task_id", id)
			return 0
		}
		t.Title = title
	}
	if u.Description != nil {
		t.Description = strings.TrimSpace(*u.Description)
	}
	if u.Priority != nil {
		if !u.Priority.Valid() {
			m.declined(op, "invalid priority", "task_id", id, "priority", *u.Priority)
			return 0
		}
		t.Priority = *u.Priority
	}
	if u.Status != nil {
		if *u.Status == "" {
			m.declined(op, "empty status", "task_id", id)
			return 0
		}
		t.Status = *u.Status
	}
	if u.Order != nil {
		t.Order = *u.Order
	}

	m.tasks[i] = t
	return tasksChanged
}

// DeleteTask removes a task. Remaining orders in its column are not closed
// up.
func (m *Manager) DeleteTask(id int) bool {
	return m.apply(OpDeleteTask, func() change {
		i := m.taskIndexLocked(id)
		if i < 0 {
			m.declined(OpDeleteTask, "task not found", "task_id", id)
			return 0
		}
		m.tasks = slices.Delete(m.tasks, i, i+1)
		return tasksChanged
	})
}

// ReorderTasksInColumn moves draggedID to targetIndex among the tasks of
// columnID and renumbers that column's orders to 0..k-1. The call is
// declined when the task is not in the column or is already at
// targetIndex. targetIndex is clamped into range.
func (m *Manager) ReorderTasksInColumn(columnID string, draggedID, targetIndex int) bool {
	return m.apply(OpReorderTasks, func() change {
		column := m.columnTasksLocked(columnID)
		current := slices.IndexFunc(column, func(t Task) bool { return t.ID == draggedID })
		if current < 0 {
			m.declined(OpReorderTasks, "task not in column", "task_id", draggedID, "column_id", columnID)
			return 0
		}
		if current == targetIndex {
			m.declined(OpReorderTasks, "already at target", "task_id", draggedID, "index", targetIndex)
			return 0
		}

		dragged := column[current]
		column = slices.Delete(column, current, current+1)
		at := min(max(targetIndex, 0), len(column))
		column = slices.Insert(column, at, dragged)

		orders := make(map[int]int, len(column))
		for i, t := range column {
			orders[t.ID] = i
		}
		for i := range m.tasks {
			if m.tasks[i].Status != columnID {
				continue
			}
			if order, ok := orders[m.tasks[i].ID]; ok {
				m.tasks[i].Order = order
			}
		}
		return tasksChanged
	})
}

// -----------------------------------------------------------------------------
// Column mutations
// -----------------------------------------------------------------------------

// AddColumn creates a column titled title. When afterColumnID names an
// existing column the new one is placed directly after it, otherwise at
// the end. An empty trimmed title declines the call.
func (m *Manager) AddColumn(title, afterColumnID string) (Column, bool) {
	title = strings.TrimSpace(title)

	var added Column
	ok := m.apply(OpAddColumn, func() change {
		if title == "" {
			m.declined(OpAddColumn, "empty title")
			return 0
		}

		order := len(m.columns)
		if afterColumnID != "" {
			if i := m.columnIndexLocked(afterColumnID); i >= 0 {
				after := m.columns[i].Order
				for j := range m.columns {
					if m.columns[j].Order > after {
						m.columns[j].Order++
					}
				}
				order = after + 1
			}
		}

		added = Column{
			ID:    fmt.Sprintf("col%d", m.nextColumnID),
			Title: title,
			Order: order,
		}
		m.nextColumnID++
		m.columns = append(m.columns, added)
		slices.SortStableFunc(m.columns, func(a, b Column) int { return a.Order - b.Order })
		return columnsChanged
	})
	return added, ok
}

// RemoveColumn deletes a column and moves its tasks to the first other
// column, keeping their orders. Default columns, the last column and
// unknown ids are refused.
func (m *Manager) RemoveColumn(id string) bool {
	return m.apply(OpRemoveColumn, func() change {
		if IsDefaultColumn(id) {
			m.declined(OpRemoveColumn, "default column", "column_id", id)
			return 0
		}
		if len(m.columns) <= 1 {
			m.declined(OpRemoveColumn, "last column", "column_id", id)
			return 0
		}
		i := m.columnIndexLocked(id)
		if i < 0 {
			m.declined(OpRemoveColumn, "column not found", "column_id", id)
			return 0
		}

		fallback := m.columns[slices.IndexFunc(m.columns, func(c Column) bool { return c.ID != id })].ID
		moved := 0
		for j := range m.tasks {
			if m.tasks[j].Status == id {
				m.tasks[j].Status = fallback
				moved++
			}
		}

		m.columns = slices.Delete(m.columns, i, i+1)
		renumberColumns(m.columns)
		m.logger.Debug("column removed", "column_id", id, "fallback", fallback, "moved_tasks", moved)
		return columnsChanged | tasksChanged
	})
}

// UpdateColumnTitle sets a column's title to the trimmed value. An empty
// result is stored as-is; callers guard on submit.
func (m *Manager) UpdateColumnTitle(id, title string) bool {
	return m.apply(OpUpdateColumnTitle, func() change {
		i := m.columnIndexLocked(id)
		if i < 0 {
			m.declined(OpUpdateColumnTitle, "column not found", "column_id", id)
			return 0
		}
		m.columns[i].Title = strings.TrimSpace(title)
		return columnsChanged
	})
}

// ReorderColumns moves the column at fromIndex to toIndex and renumbers
// every column's order. Either index out of range declines the call.
func (m *Manager) ReorderColumns(fromIndex, toIndex int) bool {
	return m.apply(OpReorderColumns, func() change {
		n := len(m.columns)
		if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
			m.declined(OpReorderColumns, "index out of range", "from", fromIndex, "to", toIndex)
			return 0
		}

		moved := m.columns[fromIndex]
		m.columns = slices.Delete(m.columns, fromIndex, fromIndex+1)
		m.columns = slices.Insert(m.columns, toIndex, moved)
		renumberColumns(m.columns)
		return columnsChanged
	})
}

// -----------------------------------------------------------------------------
// Subscriptions
// -----------------------------------------------------------------------------

// SubscribeTasks calls fn with the current task list immediately and again
// after every change. fn must not modify the slice.
func (m *Manager) SubscribeTasks(fn func([]Task)) string {
	return m.bus.Subscribe(EventTasks, func(e event.Event) {
		if changed, ok := e.(TasksChangedEvent); ok {
			fn(changed.Tasks)
		}
	})
}

// SubscribeColumns calls fn with the current column list immediately and
// again after every change. fn must not modify the slice.
func (m *Manager) SubscribeColumns(fn func([]Column)) string {
	return m.bus.Subscribe(EventColumns, func(e event.Event) {
		if changed, ok := e.(ColumnsChangedEvent); ok {
			fn(changed.Columns)
		}
	})
}

// Unsubscribe removes a subscription made with SubscribeTasks or
// SubscribeColumns.
func (m *Manager) Unsubscribe(id string) bool {
	return m.bus.Unsubscribe(id)
}

// -----------------------------------------------------------------------------
// Internals
// -----------------------------------------------------------------------------

// apply runs fn under the lock. When fn reports a change the touched lists
// are persisted and their snapshots queued, then delivered once the lock
// is released.
func (m *Manager) apply(op string, fn func() change) bool {
	m.mu.Lock()
	c := fn()
	if c == 0 {
		m.mu.Unlock()
		return false
	}
	m.commitLocked(op, c)
	m.mu.Unlock()

	m.flush()
	return true
}

func (m *Manager) commitLocked(op string, c change) {
	var errs []error
	if c&columnsChanged != 0 {
		if err := m.persistLocked(m.columnsKey, m.columns); err != nil {
			errs = append(errs, err)
		}
		m.pending = append(m.pending, newColumnsChangedEvent(op, slices.Clone(m.columns)))
	}
	if c&tasksChanged != 0 {
		if err := m.persistLocked(m.tasksKey, m.tasks); err != nil {
			errs = append(errs, err)
		}
		m.pending = append(m.pending, newTasksChangedEvent(op, slices.Clone(m.tasks)))
	}

	m.persistErr = apperrors.Join(errs...)
	if m.persistErr != nil {
		m.logger.Error("failed to persist board", "op", op, "error", m.persistErr)
	} else {
		m.logger.Debug("board updated", "op", op, "tasks", len(m.tasks), "columns", len(m.columns))
	}
}

func (m *Manager) persistLocked(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrapf(err, "encode %s", key)
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.store.Set(ctx, key, string(data))
}

// flush delivers queued events in order. Only one goroutine drains at a
// time; events queued meanwhile, including from handlers, are picked up
// by the drainer.
func (m *Manager) flush() {
	m.mu.Lock()
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true
	for len(m.pending) > 0 {
		e := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()
		m.bus.Publish(e)
		m.mu.Lock()
	}
	m.draining = false
	m.mu.Unlock()
}

func (m *Manager) declined(op, reason string, args ...any) {
	m.logger.Debug("mutation declined", append([]any{"op", op, "reason", reason}, args...)...)
}

func (m *Manager) taskIndexLocked(id int) int {
	return slices.IndexFunc(m.tasks, func(t Task) bool { return t.ID == id })
}

func (m *Manager) columnIndexLocked(id string) int {
	return slices.IndexFunc(m.columns, func(c Column) bool { return c.ID == id })
}

// columnTasksLocked returns the tasks in columnID sorted by order, ties in
// insertion order.
func (m *Manager) columnTasksLocked(columnID string) []Task {
	var out []Task
	for _, t := range m.tasks {
		if t.Status == columnID {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b Task) int { return a.Order - b.Order })
	if out == nil {
		out = []Task{}
	}
	return out
}
