package board

import "github.com/Iron-Ham/taskboard/internal/event"

// Event types published by the manager.
const (
	EventTasks   = "board.tasks"
	EventColumns = "board.columns"
)

// TasksChangedEvent carries the task list after a mutation.
// Op names the operation that produced it ("load", "add_task", ...).
type TasksChangedEvent struct {
	event.Base
	Op    string
	Tasks []Task
}

// ColumnsChangedEvent carries the column list, sorted by order, after a
// mutation.
type ColumnsChangedEvent struct {
	event.Base
	Op      string
	Columns []Column
}

func newTasksChangedEvent(op string, tasks []Task) TasksChangedEvent {
	return TasksChangedEvent{
		Base:  event.NewBase(EventTasks),
		Op:    op,
		Tasks: tasks,
	}
}

func newColumnsChangedEvent(op string, columns []Column) ColumnsChangedEvent {
	return ColumnsChangedEvent{
		Base:    event.NewBase(EventColumns),
		Op:      op,
		Columns: columns,
	}
}
