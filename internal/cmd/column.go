package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Iron-Ham/taskboard/internal/board"
	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/spf13/cobra"
)

func newColumnCmd() *cobra.Command {
	columnCmd := &cobra.Command{
		Use:     "column",
		Aliases: []string{"columns", "col"},
		Short:   "Add, rename, reorder and remove columns",
	}
	columnCmd.AddCommand(
		newColumnAddCmd(),
		newColumnRenameCmd(),
		newColumnMoveCmd(),
		newColumnRemoveCmd(),
		newColumnListCmd(),
	)
	return columnCmd
}

func newColumnAddCmd() *cobra.Command {
	var after string
	c := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a column",
		Long: `Add a column at the end of the board, or directly after another column
with --after.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if strings.TrimSpace(title) == "" {
				return apperrors.NewValidationError("title must not be empty").WithField("title").WithCause(apperrors.ErrEmptyTitle)
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if after != "" {
				if _, ok := s.board.ColumnByID(after); !ok {
					return apperrors.NewNotFoundError("column", after)
				}
			}
			col, ok := s.board.AddColumn(title, after)
			if err := s.commit(ok, func() error {
				return apperrors.New("column was not added")
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added column %q [%s]\n", col.Title, col.ID)
			return nil
		},
	}
	c.Flags().StringVar(&after, "after", "", "insert after this column id")
	return c
}

func newColumnRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a column",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			title := strings.Join(args[1:], " ")
			if strings.TrimSpace(title) == "" {
				return apperrors.NewValidationError("title must not be empty").WithField("title").WithCause(apperrors.ErrEmptyTitle)
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.commit(s.board.UpdateColumnTitle(id, title), func() error {
				return apperrors.NewNotFoundError("column", id)
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Renamed column [%s] to %q\n", id, strings.TrimSpace(title))
			return nil
		},
	}
}

func newColumnMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <position>",
		Short: "Move a column to a zero-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			position, err := strconv.Atoi(args[1])
			if err != nil {
				return apperrors.NewValidationError("position must be an integer").WithField("position").WithValue(args[1])
			}

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			from, ok := s.board.ColumnIndex(id)
			if !ok {
				return apperrors.NewNotFoundError("column", id)
			}
			if err := s.commit(s.board.ReorderColumns(from, position), func() error {
				return apperrors.NewValidationError(fmt.Sprintf("position must be between 0 and %d", len(s.board.Columns())-1)).
					WithField("position").WithValue(position).WithCause(apperrors.ErrIndexOutOfRange)
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved column %s to position %d\n", columnTitle(s.board, id), position)
			return nil
		},
	}
}

func newColumnRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a column and move its tasks to the first remaining column",
		Long: `Remove a column. Its tasks move to the first remaining column and keep
their order values. The default columns (todo, inprogress, done) cannot be
removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			moved := 0
			if i, ok := s.board.ColumnIndex(id); ok {
				moved = len(s.board.TasksByColumns()[i].Tasks)
			}
			if err := s.commit(s.board.RemoveColumn(id), func() error {
				if board.IsDefaultColumn(id) {
					return apperrors.Wrapf(apperrors.ErrColumnProtected, "column %q is a default column", id)
				}
				if _, ok := s.board.ColumnByID(id); !ok {
					return apperrors.NewNotFoundError("column", id)
				}
				return apperrors.Wrap(apperrors.ErrColumnProtected, "the last column cannot be removed")
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed column [%s]", id)
			if moved > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "; moved %d task(s) to %s", moved, s.board.Columns()[0].Title)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func newColumnListCmd() *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List columns in board order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			columns := s.board.Columns()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), columns)
			}
			stats := s.board.Stats()
			for i, c := range columns {
				marker := ""
				if board.IsDefaultColumn(c.ID) {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %-12s %s  %d task(s)%s\n", i, c.ID, displayTitle(c.Title), stats.ByColumn[c.ID], marker)
			}
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return c
}
