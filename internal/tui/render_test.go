package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/taskboard/internal/board"
	"github.com/Iron-Ham/taskboard/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

func sampleViews() []board.ColumnView {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []board.ColumnView{
		{ID: board.ColumnTodo, Title: "To Do", Order: 0, Tasks: []board.Task{
			{ID: 1, Title: "Write docs", Description: "README and guides\nsecond line", Priority: board.PriorityHigh, Status: board.ColumnTodo, CreatedAt: created},
			{ID: 2, Title: "Fix flaky test", Priority: board.PriorityLow, Status: board.ColumnTodo, CreatedAt: created, Order: 1},
		}},
		{ID: board.ColumnInProgress, Title: "In Progress", Order: 1},
		{ID: board.ColumnDone, Title: "Done", Order: 2},
	}
}

func plainOptions() RenderOptions {
	opts := DefaultRenderOptions()
	opts.Styles = styles.Plain()
	return opts
}

func TestRenderBoard(t *testing.T) {
	out := RenderBoard(sampleViews(), plainOptions())

	for _, want := range []string{"To Do (2)", "In Progress (0)", "Done (0)", "#1 Write docs", "#2 Fix flaky test", "No tasks"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderBoard() missing %q\n%s", want, out)
		}
	}
	if !strings.Contains(out, "README and guides…") {
		t.Errorf("description should show its first line with a marker\n%s", out)
	}
	if strings.Contains(out, "second line") {
		t.Error("description rendered past its first line")
	}
}

func TestRenderBoardHidesDescriptions(t *testing.T) {
	opts := plainOptions()
	opts.ShowDescription = false
	if out := RenderBoard(sampleViews(), opts); strings.Contains(out, "README") {
		t.Errorf("description rendered with ShowDescription off\n%s", out)
	}
}

func TestRenderBoardEmpty(t *testing.T) {
	if out := RenderBoard(nil, plainOptions()); out != "No columns" {
		t.Errorf("RenderBoard(nil) = %q", out)
	}
}

func TestRenderBoardColumnsSideBySide(t *testing.T) {
	opts := plainOptions()
	out := RenderBoard(sampleViews(), opts)

	want := 3*opts.ColumnWidth + 2*columnGap
	if got := lipgloss.Width(out); got != want {
		t.Errorf("width = %d, want %d", got, want)
	}
	first := strings.Split(out, "\n")[1]
	if !strings.Contains(first, "To Do") || !strings.Contains(first, "Done") {
		t.Errorf("column titles not on one line: %q", first)
	}
}

func TestRenderBoardWraps(t *testing.T) {
	opts := plainOptions()
	opts.Width = 2*opts.ColumnWidth + columnGap

	out := RenderBoard(sampleViews(), opts)
	if got := lipgloss.Width(out); got > opts.Width {
		t.Errorf("width = %d, want at most %d", got, opts.Width)
	}
	lines := strings.Split(out, "\n")
	var doneLine = -1
	for i, l := range lines {
		if strings.Contains(l, "Done (0)") {
			doneLine = i
		}
	}
	if doneLine <= 1 {
		t.Errorf("third column should wrap below the first row\n%s", out)
	}
}

func TestRenderBoardTruncatesTitles(t *testing.T) {
	views := []board.ColumnView{{ID: "todo", Title: "To Do", Tasks: []board.Task{
		{ID: 1, Title: strings.Repeat("long ", 20), Priority: board.PriorityMedium},
	}}}
	opts := plainOptions()
	opts.ColumnWidth = MinColumnWidth

	out := RenderBoard(views, opts)
	if got := lipgloss.Width(out); got != MinColumnWidth {
		t.Errorf("width = %d, want %d", got, MinColumnWidth)
	}
	if !strings.Contains(out, "…") {
		t.Errorf("long title not truncated\n%s", out)
	}
}

func TestRenderBoardUntitledColumn(t *testing.T) {
	views := []board.ColumnView{{ID: "col4", Title: ""}}
	if out := RenderBoard(views, plainOptions()); !strings.Contains(out, "(untitled)") {
		t.Errorf("empty title not marked\n%s", out)
	}
}

func TestNormalize(t *testing.T) {
	opts := normalize(RenderOptions{ColumnWidth: 2})
	if opts.ColumnWidth != DefaultColumnWidth {
		t.Errorf("ColumnWidth = %d, want %d", opts.ColumnWidth, DefaultColumnWidth)
	}
	if opts.Styles == nil {
		t.Error("Styles not defaulted")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much too long", 8, "much to…"},
		{"日本語のタイトル", 7, "日本語…"},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestCardHeight(t *testing.T) {
	withDesc := board.Task{Title: "a", Description: "b"}
	noDesc := board.Task{Title: "a"}

	tests := []struct {
		name string
		task board.Task
		show bool
		want int
	}{
		{"description shown", withDesc, true, 2},
		{"description hidden", withDesc, false, 1},
		{"no description", noDesc, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cardHeight(tt.task, tt.show); got != tt.want {
				t.Errorf("cardHeight() = %d, want %d", got, tt.want)
			}
			card := renderCard(tt.task, 20, false, RenderOptions{ShowDescription: tt.show, Styles: styles.Plain()})
			if lines := strings.Count(card, "\n") + 1; lines != tt.want {
				t.Errorf("renderCard() has %d lines, want %d", lines, tt.want)
			}
		})
	}
}
