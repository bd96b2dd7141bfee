package board

import (
	"encoding/json"
	"strings"
	"time"
)

// Priority is a task's urgency.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriority is applied when a task is added without one.
const DefaultPriority = PriorityMedium

// Priorities returns every valid priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is one of Low, Medium or High.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next returns the priority after p, wrapping from High to Low.
// Unknown priorities cycle to Low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// ParsePriority parses s case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

// Default column ids. These columns always exist and cannot be removed.
const (
	ColumnTodo       = "todo"
	ColumnInProgress = "inprogress"
	ColumnDone       = "done"
)

// IsDefaultColumn reports whether id is one of the three permanent columns.
func IsDefaultColumn(id string) bool {
	switch id {
	case ColumnTodo, ColumnInProgress, ColumnDone:
		return true
	}
	return false
}

// DefaultColumns returns a fresh copy of the standard three-column layout.
func DefaultColumns() []Column {
	return []Column{
		{ID: ColumnTodo, Title: "To Do", Order: 0},
		{ID: ColumnInProgress, Title: "In Progress", Order: 1},
		{ID: ColumnDone, Title: "Done", Order: 2},
	}
}

// Task is a unit of work assigned to a column through Status.
type Task struct {
	ID          int       `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	Status      string    `json:"status" yaml:"status"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	Order       int       `json:"order" yaml:"order"`
}

// Column is a named, ordered bucket of tasks. Its tasks are derived from
// the task list and never stored with it.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// MarshalJSON writes the column with an always-empty tasks array so the
// persisted shape matches what older boards stored.
func (c Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Tasks []Task `json:"tasks"`
		Order int    `json:"order"`
	}{c.ID, c.Title, []Task{}, c.Order})
}

// ColumnView is a column together with its tasks sorted by order.
// It is the read model every renderer consumes.
type ColumnView struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Order int    `json:"order" yaml:"order"`
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// TaskUpdate carries the fields to merge into an existing task.
// Nil fields are left unchanged. ID and CreatedAt cannot be updated.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *string
	Order       *int
}

// Empty reports whether the update sets no fields.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil && u.Status == nil && u.Order == nil
}

// Stats summarises the board for headers and the stats command.
type Stats struct {
	Todo       int            `json:"todo"`
	InProgress int            `json:"inprogress"`
	Done       int            `json:"done"`
	Total      int            `json:"total"`
	ByColumn   map[string]int `json:"byColumn"`
}
