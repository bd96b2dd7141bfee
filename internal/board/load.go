package board

import (
	"context"
	"encoding/json"
	"regexp"
	"slices"
	"strconv"
	"time"

	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/Iron-Ham/taskboard/internal/store"
)

// generatedColumnID matches ids handed out by AddColumn.
var generatedColumnID = regexp.MustCompile(`^col(\d+)$`)

// taskRecord is the persisted task shape. CreatedAt stays a string so one
// unparseable timestamp does not discard the whole list.
type taskRecord struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"createdAt"`
	Order       int      `json:"order"`
}

// columnRecord is the persisted column shape; the embedded tasks array is
// ignored on read.
type columnRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// load reads both lists from the store and seeds the id allocators.
// A missing or malformed value is treated as absent; any other store
// failure is returned.
func (m *Manager) load(ctx context.Context) error {
	rawTasks, err := m.read(ctx, m.tasksKey)
	if err != nil {
		return err
	}
	tasks, err := decodeTasks(rawTasks)
	if err != nil {
		m.logger.Warn("persisted tasks are malformed, starting with an empty list",
			"key", m.tasksKey, "error", err)
		tasks = nil
	}
	if tasks == nil {
		tasks = []Task{}
	}

	rawColumns, err := m.read(ctx, m.columnsKey)
	if err != nil {
		return err
	}
	columns, err := decodeColumns(rawColumns)
	if err != nil {
		m.logger.Warn("persisted columns are malformed, using default columns",
			"key", m.columnsKey, "error", err)
		columns = nil
	}
	if columns == nil {
		columns = DefaultColumns()
	}
	columns, repaired := reconcileColumns(columns)
	if len(repaired) > 0 {
		m.logger.Warn("restored missing default columns", "columns", repaired)
	}

	m.tasks = tasks
	m.columns = columns
	m.nextTaskID = nextTaskID(tasks)
	m.nextColumnID = nextColumnID(columns)
	return nil
}

// read returns the raw value for key, or "" when the key is absent.
func (m *Manager) read(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	raw, err := m.store.Get(ctx, key)
	if apperrors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "load %s", key)
	}
	return raw, nil
}

// decodeTasks parses the persisted task list. Empty input or JSON null
// yields a nil slice.
func decodeTasks(raw string) ([]Task, error) {
	if raw == "" {
		return nil, nil
	}
	var records []taskRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, apperrors.Join(apperrors.ErrCorruptState, err)
	}
	if records == nil {
		return nil, nil
	}

	tasks := make([]Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, Task{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Priority:    r.Priority,
			Status:      r.Status,
			CreatedAt:   parseTimestamp(r.CreatedAt),
			Order:       r.Order,
		})
	}
	return tasks, nil
}

// parseTimestamp accepts RFC 3339 with or without fractional seconds.
// Anything else becomes the zero time.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// decodeColumns parses the persisted column list. Empty input or JSON null
// yields a nil slice, which the caller replaces with the defaults.
func decodeColumns(raw string) ([]Column, error) {
	if raw == "" {
		return nil, nil
	}
	var records []columnRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, apperrors.Join(apperrors.ErrCorruptState, err)
	}
	if records == nil {
		return nil, nil
	}

	columns := make([]Column, 0, len(records))
	for _, r := range records {
		columns = append(columns, Column(r))
	}
	return columns, nil
}

// reconcileColumns drops blank and duplicate ids, sorts by order, appends
// any missing default column, and renumbers orders densely. It returns the
// ids of the default columns it had to add.
func reconcileColumns(columns []Column) ([]Column, []string) {
	seen := make(map[string]bool, len(columns))
	out := make([]Column, 0, len(columns)+3)
	for _, c := range columns {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b Column) int { return a.Order - b.Order })

	var repaired []string
	for _, d := range DefaultColumns() {
		if !seen[d.ID] {
			out = append(out, d)
			repaired = append(repaired, d.ID)
		}
	}

	renumberColumns(out)
	return out, repaired
}

// nextTaskID returns one more than the highest task id, or 1.
func nextTaskID(tasks []Task) int {
	highest := 0
	for _, t := range tasks {
		highest = max(highest, t.ID)
	}
	return highest + 1
}

// nextColumnID returns one more than the highest numeric suffix among
// generated column ids. Ids not of the form col<n> count as 0.
func nextColumnID(columns []Column) int {
	highest := 0
	for _, c := range columns {
		m := generatedColumnID.FindStringSubmatch(c.ID)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return highest + 1
}

func renumberColumns(columns []Column) {
	for i := range columns {
		columns[i].Order = i
	}
}
