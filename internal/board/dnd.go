package board

import (
	"slices"
	"strconv"
	"strings"
)

// Channel tags what a drag payload carries. Drop handlers dispatch on the
// channel, never on the shape of the data.
type Channel string

// Drag payload channels.
const (
	// ChannelTask carries a task id.
	ChannelTask Channel = "text/plain"
	// ChannelColumn carries a column's display index.
	ChannelColumn Channel = "application/x-column-index"
)

// DragPayload is what a view attaches to a drag gesture.
type DragPayload struct {
	Channel Channel
	// Value is the task id for ChannelTask or the column index for
	// ChannelColumn.
	Value int
}

// TaskPayload returns the payload for dragging a task.
func TaskPayload(id int) DragPayload {
	return DragPayload{Channel: ChannelTask, Value: id}
}

// ColumnPayload returns the payload for dragging the column at index.
func ColumnPayload(index int) DragPayload {
	return DragPayload{Channel: ChannelColumn, Value: index}
}

// ParsePayload decodes transfer data read from channel. It fails for an
// unknown channel or data that is not an integer.
func ParsePayload(channel, data string) (DragPayload, bool) {
	c := Channel(channel)
	if c != ChannelTask && c != ChannelColumn {
		return DragPayload{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(data))
	if err != nil {
		return DragPayload{}, false
	}
	return DragPayload{Channel: c, Value: n}, true
}

// Data returns the payload value encoded as transfer data.
func (p DragPayload) Data() string {
	return strconv.Itoa(p.Value)
}

// DropOnSlot handles a task dropped between tasks of columnID, where
// targetIndex is the slot before the task currently at that index. A task
// from another column is moved there; a task from the same column is
// reordered unless the slot is directly above or below it. Column
// payloads and unknown task ids are ignored.
func (m *Manager) DropOnSlot(p DragPayload, columnID string, targetIndex int) bool {
	if p.Channel != ChannelTask {
		return false
	}
	task, ok := m.TaskByID(p.Value)
	if !ok {
		return false
	}
	if task.Status != columnID {
		return m.MoveTask(task.ID, columnID)
	}

	m.mu.Lock()
	current := slices.IndexFunc(m.columnTasksLocked(columnID), func(t Task) bool { return t.ID == task.ID })
	m.mu.Unlock()
	if current == targetIndex || current+1 == targetIndex {
		return false
	}
	return m.ReorderTasksInColumn(columnID, task.ID, targetIndex)
}

// DropOnColumn handles a payload dropped on the body of the column with
// the given id and display index. A column payload reorders columns; a
// task payload moves the task there unless it is already in that column.
func (m *Manager) DropOnColumn(p DragPayload, columnID string, columnIndex int) bool {
	switch p.Channel {
	case ChannelColumn:
		return m.ReorderColumns(p.Value, columnIndex)
	case ChannelTask:
		task, ok := m.TaskByID(p.Value)
		if !ok || task.Status == columnID {
			return false
		}
		return m.MoveTask(task.ID, columnID)
	}
	return false
}
