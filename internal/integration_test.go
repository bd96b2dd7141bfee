// Package internal contains integration tests that drive the board manager
// through real store backends, the event bus and the exporters together.
package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/Iron-Ham/taskboard/internal/board"
	"github.com/Iron-Ham/taskboard/internal/config"
	"github.com/Iron-Ham/taskboard/internal/event"
	"github.com/Iron-Ham/taskboard/internal/export"
	"github.com/Iron-Ham/taskboard/internal/logging"
	"github.com/Iron-Ham/taskboard/internal/store"
)

func openStore(t *testing.T, cfg *config.Config) store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("store.Open(%s) error = %v", cfg.Store.Backend, err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func openBoard(t *testing.T, cfg *config.Config, opts ...board.Option) *board.Manager {
	t.Helper()
	opts = append([]board.Option{board.WithKeys(cfg.Store.TasksKey, cfg.Store.ColumnsKey)}, opts...)
	mgr, err := board.New(openStore(t, cfg), opts...)
	if err != nil {
		t.Fatalf("board.New() error = %v", err)
	}
	return mgr
}

// populate builds a board with a custom column and tasks spread over it.
func populate(t *testing.T, mgr *board.Manager) {
	t.Helper()
	review, ok := mgr.AddColumn("Review", board.ColumnInProgress)
	if !ok {
		t.Fatal("AddColumn declined")
	}
	for _, tc := range []struct {
		title  string
		status string
	}{
		{"Write docs", board.ColumnTodo},
		{"Fix login", board.ColumnTodo},
		{"Ship release", board.ColumnInProgress},
		{"Review PR", review.ID},
	} {
		if _, ok := mgr.AddTask(tc.title, "", board.PriorityHigh, tc.status); !ok {
			t.Fatalf("AddTask(%q) declined", tc.title)
		}
	}
}

// layout flattens the board into "column: title, title" lines.
func layout(views []board.ColumnView) []string {
	var lines []string
	for _, v := range views {
		titles := make([]string, len(v.Tasks))
		for i, task := range v.Tasks {
			titles[i] = task.Title
		}
		lines = append(lines, v.ID+": "+strings.Join(titles, ", "))
	}
	return lines
}

func assertLayout(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("layout =\n  %s\nwant\n  %s", strings.Join(got, "\n  "), strings.Join(want, "\n  "))
	}
}

// TestFileBackendSurvivesReopen verifies that a board written through the
// file backend is rebuilt unchanged by a second manager.
func TestFileBackendSurvivesReopen(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Dir = t.TempDir()

	first := openBoard(t, cfg)
	populate(t, first)
	if !first.ReorderTasksInColumn(board.ColumnTodo, 2, 0) {
		t.Fatal("ReorderTasksInColumn declined")
	}
	if err := first.PersistErr(); err != nil {
		t.Fatalf("PersistErr() = %v", err)
	}

	for _, key := range []string{cfg.Store.TasksKey, cfg.Store.ColumnsKey} {
		if _, err := os.Stat(filepath.Join(cfg.Store.Dir, key+".json")); err != nil {
			t.Errorf("missing %s.json: %v", key, err)
		}
	}

	second := openBoard(t, cfg)
	assertLayout(t, layout(second.TasksByColumns()), layout(first.TasksByColumns()))
	assertLayout(t, layout(second.TasksByColumns()), []string{
		"todo: Fix login, Write docs",
		"inprogress: Ship release",
		"col1: Review PR",
		"done: ",
	})

	// Allocators continue after the reloaded ids.
	task, ok := second.AddTask("Next", "", "", board.ColumnDone)
	if !ok || task.ID != 5 {
		t.Errorf("AddTask after reload = %+v, %v, want id 5", task, ok)
	}
	col, ok := second.AddColumn("Later", "")
	if !ok || col.ID != "col2" {
		t.Errorf("AddColumn after reload = %+v, %v, want col2", col, ok)
	}
}

// TestRedisBackendRoundTrip runs the same board through the redis backend
// opened from config.
func TestRedisBackendRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Store.Backend = store.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	first := openBoard(t, cfg)
	populate(t, first)

	raw, err := mr.Get(cfg.Redis.KeyPrefix + cfg.Store.TasksKey)
	if err != nil {
		t.Fatalf("redis key missing: %v", err)
	}
	var stored []map[string]any
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored tasks are not JSON: %v", err)
	}
	if len(stored) != 4 {
		t.Errorf("stored %d tasks, want 4", len(stored))
	}

	second := openBoard(t, cfg)
	assertLayout(t, layout(second.TasksByColumns()), layout(first.TasksByColumns()))
}

// TestSharedBusSeesMutationsInOrder verifies that removing a column publishes
// the column list before the task list and that both carry the operation.
func TestSharedBusSeesMutationsInOrder(t *testing.T) {
	bus := event.NewBus()
	cfg := config.Default()
	cfg.Store.Backend = store.BackendMemory
	mgr := openBoard(t, cfg, board.WithBus(bus))
	populate(t, mgr)

	var (
		mu   sync.Mutex
		seen []string
	)
	bus.SubscribeAll(func(e event.Event) {
		var op string
		switch ev := e.(type) {
		case board.TasksChangedEvent:
			op = ev.Op
		case board.ColumnsChangedEvent:
			op = ev.Op
		}
		mu.Lock()
		seen = append(seen, e.EventType()+":"+op)
		mu.Unlock()
	})

	if !mgr.RemoveColumn("col1") {
		t.Fatal("RemoveColumn declined")
	}
	if mgr.RemoveColumn(board.ColumnTodo) {
		t.Fatal("RemoveColumn removed a default column")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{
		board.EventColumns + ":" + board.OpRemoveColumn,
		board.EventTasks + ":" + board.OpRemoveColumn,
	}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", seen, want)
	}

	// The orphaned task keeps its order in the first remaining column.
	views := mgr.TasksByColumns()
	if got := layout(views)[0]; got != "todo: Write docs, Review PR, Fix login" {
		t.Errorf("todo = %q", got)
	}
}

// TestDragAndDropThenExport replays a drag sequence through encoded payloads
// and checks the exported JSON reflects it.
func TestDragAndDropThenExport(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = store.BackendMemory
	mgr := openBoard(t, cfg)
	populate(t, mgr)

	drag := func(p board.DragPayload) board.DragPayload {
		t.Helper()
		got, ok := board.ParsePayload(string(p.Channel), p.Data())
		if !ok {
			t.Fatalf("ParsePayload(%v) failed", p)
		}
		return got
	}

	// Task 3 from in progress onto the todo column body.
	if !mgr.DropOnColumn(drag(board.TaskPayload(3)), board.ColumnTodo, 0) {
		t.Fatal("drop task on column declined")
	}
	// Then to the top of todo.
	if !mgr.DropOnSlot(drag(board.TaskPayload(3)), board.ColumnTodo, 0) {
		t.Fatal("drop task on slot declined")
	}
	// Dropping into the slot it already occupies is a no-op.
	if mgr.DropOnSlot(drag(board.TaskPayload(3)), board.ColumnTodo, 1) {
		t.Error("drop onto own slot changed the board")
	}
	// Review column header onto the first column.
	if !mgr.DropOnColumn(drag(board.ColumnPayload(2)), board.ColumnTodo, 0) {
		t.Fatal("drop column declined")
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, mgr.TasksByColumns(), export.FormatJSON); err != nil {
		t.Fatalf("export.Write() error = %v", err)
	}
	var exported []board.ColumnView
	if err := json.Unmarshal(buf.Bytes(), &exported); err != nil {
		t.Fatalf("exported JSON: %v", err)
	}
	assertLayout(t, layout(exported), []string{
		"col1: Review PR",
		"todo: Ship release, Write docs, Fix login",
		"inprogress: ",
		"done: ",
	})
	for i, v := range exported {
		if v.Order != i {
			t.Errorf("column %s order = %d, want %d", v.ID, v.Order, i)
		}
		for j, task := range v.Tasks {
			if task.Status != v.ID {
				t.Errorf("task %d status = %s, exported under %s", task.ID, task.Status, v.ID)
			}
			if j > 0 && task.Order <= v.Tasks[j-1].Order {
				t.Errorf("column %s tasks not sorted by order", v.ID)
			}
		}
	}
}

// TestManagerLogsToRotatingFile verifies that board activity reaches the log
// file the logs command reads.
func TestManagerLogsToRotatingFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLoggerWithRotation(dir, logging.LevelDebug, logging.DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewLoggerWithRotation() error = %v", err)
	}

	cfg := config.Default()
	cfg.Store.Backend = store.BackendMemory
	mgr := openBoard(t, cfg, board.WithLogger(logger.WithRun("integration")))
	mgr.AddTask("Logged", "", "", board.ColumnTodo)
	mgr.DeleteTask(42)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "taskboard.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var updated, declined bool
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		if entry["run_id"] != "integration" {
			t.Errorf("run_id = %v, want integration", entry["run_id"])
		}
		switch {
		case entry["msg"] == "board updated" && entry["op"] == board.OpAddTask:
			updated = true
		case entry["msg"] == "mutation declined" && entry["op"] == board.OpDeleteTask:
			declined = true
		}
	}
	if !updated || !declined {
		t.Errorf("log missing entries: updated=%v declined=%v\n%s", updated, declined, data)
	}
}
