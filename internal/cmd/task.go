package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Iron-Ham/taskboard/internal/board"
	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/spf13/cobra"
)

func newTaskCmd() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Add, change and list tasks",
	}
	taskCmd.AddCommand(
		newTaskAddCmd(),
		newTaskEditCmd(),
		newTaskMoveCmd(),
		newTaskReorderCmd(),
		newTaskDeleteCmd(),
		newTaskShowCmd(),
		newTaskListCmd(),
	)
	return taskCmd
}

func newTaskAddCmd() *cobra.Command {
	var (
		description string
		priority    string
		column      string
	)
	c := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the end of a column",
		Long: `Add a task to the end of a column.

Examples:
  taskboard task add "Write release notes"
  taskboard task add "Fix login" -p high -d "Users on Safari get logged out"
  taskboard task add "Ship it" -c inprogress`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if strings.TrimSpace(title) == "" {
				return apperrors.NewValidationError("title must not be empty").WithField("title").WithCause(apperrors.ErrEmptyTitle)
			}
			p, err := parsePriorityFlag(priority)
			if err != nil {
				return err
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, ok := s.board.ColumnByID(column); !ok {
				return apperrors.NewNotFoundError("column", column)
			}
			task, ok := s.board.AddTask(title, description, p, column)
			if err := s.commit(ok, func() error {
				return apperrors.New("task was not added")
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d %q to %s\n", task.ID, task.Title, columnTitle(s.board, task.Status))
			return nil
		},
	}
	c.Flags().StringVarP(&description, "description", "d", "", "task description")
	c.Flags().StringVarP(&priority, "priority", "p", string(board.DefaultPriority), "priority: low, medium, high")
	c.Flags().StringVarP(&column, "column", "c", board.ColumnTodo, "column id to add the task to")
	return c
}

func newTaskEditCmd() *cobra.Command {
	var (
		title       string
		description string
		priority    string
	)
	c := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title, description or priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			var u board.TaskUpdate
			if cmd.Flags().Changed("title") {
				if strings.TrimSpace(title) == "" {
					return apperrors.NewValidationError("title must not be empty").WithField("title").WithCause(apperrors.ErrEmptyTitle)
				}
				u.Title = &title
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				p, err := parsePriorityFlag(priority)
				if err != nil {
					return err
				}
				u.Priority = &p
			}
			if u.Empty() {
				return apperrors.NewValidationError("nothing to change: pass --title, --description or --priority")
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.commit(s.board.UpdateTask(id, u), func() error {
				return apperrors.NewNotFoundError("task", args[0])
			}); err != nil {
				return err
			}

			task, _ := s.board.TaskByID(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d %q\n", task.ID, task.Title)
			return nil
		},
	}
	c.Flags().StringVarP(&title, "title", "t", "", "new title")
	c.Flags().StringVarP(&description, "description", "d", "", "new description (empty clears it)")
	c.Flags().StringVarP(&priority, "priority", "p", "", "new priority: low, medium, high")
	return c
}

func newTaskMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <column>",
		Short: "Move a task to another column",
		Long: `Move a task to another column. The task keeps its order value, so it
may share a position with a task already in that column until the column
is reordered.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			column := args[1]
			if _, ok := s.board.ColumnByID(column); !ok {
				return apperrors.NewNotFoundError("column", column)
			}
			if err := s.commit(s.board.MoveTask(id, column), func() error {
				return apperrors.NewNotFoundError("task", args[0])
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved task #%d to %s\n", id, columnTitle(s.board, column))
			return nil
		},
	}
}

func newTaskReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id> <position>",
		Short: "Move a task to a position within its column",
		Long: `Move a task to a zero-based position within its own column and
renumber that column. Positions past the end place the task last.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			position, err := strconv.Atoi(args[1])
			if err != nil || position < 0 {
				return apperrors.NewValidationError("position must be a non-negative integer").
					WithField("position").WithValue(args[1]).WithCause(apperrors.ErrIndexOutOfRange)
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			task, ok := s.board.TaskByID(id)
			if !ok {
				return apperrors.NewNotFoundError("task", args[0])
			}
			if !s.board.ReorderTasksInColumn(task.Status, id, position) {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is already at position %d\n", id, position)
				return nil
			}
			if err := s.commit(true, nil); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved task #%d to position %d in %s\n", id, position, columnTitle(s.board, task.Status))
			return nil
		},
	}
}

func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.commit(s.board.DeleteTask(id), func() error {
				return apperrors.NewNotFoundError("task", args[0])
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
			return nil
		},
	}
}

func newTaskShowCmd() *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			task, ok := s.board.TaskByID(id)
			if !ok {
				return apperrors.NewNotFoundError("task", args[0])
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), task)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#%d %s\n", task.ID, task.Title)
			fmt.Fprintf(out, "Column:   %s\n", columnTitle(s.board, task.Status))
			fmt.Fprintf(out, "Priority: %s\n", task.Priority)
			fmt.Fprintf(out, "Created:  %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04"))
			if task.Description != "" {
				fmt.Fprintf(out, "\n%s\n", task.Description)
			}
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return c
}

func newTaskListCmd() *cobra.Command {
	var (
		column string
		asJSON bool
	)
	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks column by column",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			views := s.board.TasksByColumns()
			if column != "" {
				i, ok := s.board.ColumnIndex(column)
				if !ok {
					return apperrors.NewNotFoundError("column", column)
				}
				views = views[i : i+1]
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), views)
			}
			printTaskList(cmd.OutOrStdout(), views)
			return nil
		},
	}
	c.Flags().StringVarP(&column, "column", "c", "", "only list this column")
	c.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return c
}

func printTaskList(w io.Writer, views []board.ColumnView) {
	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s [%s] (%d)\n", displayTitle(v.Title), v.ID, len(v.Tasks))
		if len(v.Tasks) == 0 {
			fmt.Fprintln(w, "  (empty)")
			continue
		}
		for _, t := range v.Tasks {
			fmt.Fprintf(w, "  #%-4d %-6s %s\n", t.ID, t.Priority, t.Title)
		}
	}
}

func parseTaskID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("task id must be a positive integer").WithField("id").WithValue(arg)
	}
	return id, nil
}

func parsePriorityFlag(s string) (board.Priority, error) {
	p, ok := board.ParsePriority(s)
	if !ok {
		return "", apperrors.NewValidationError("priority must be low, medium or high").
			WithField("priority").WithValue(s).WithCause(apperrors.ErrInvalidPriority)
	}
	return p, nil
}

func columnTitle(mgr *board.Manager, id string) string {
	if c, ok := mgr.ColumnByID(id); ok {
		return displayTitle(c.Title)
	}
	return id
}

func displayTitle(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
