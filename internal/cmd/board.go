package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/Iron-Ham/taskboard/internal/export"
	"github.com/Iron-Ham/taskboard/internal/tui"
	"github.com/Iron-Ham/taskboard/internal/tui/styles"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newShowCmd() *cobra.Command {
	var (
		width   int
		noDesc  bool
		noColor bool
	)
	c := &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		Long: `Print the board with columns side by side. Columns that do not fit the
terminal width wrap onto following rows. Colors are used only when writing
to a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			opts := tui.DefaultRenderOptions()
			opts.ColumnWidth = s.cfg.TUI.ColumnWidth
			opts.ShowDescription = s.cfg.TUI.ShowDescription && !noDesc
			opts.Styles = styles.Plain()

			if fd, ok := terminalFd(out); ok {
				if w, _, err := term.GetSize(fd); err == nil {
					opts.Width = w
				}
				if !noColor {
					opts.Styles = styles.ForTheme(s.cfg.TUI.Theme)
				}
			}
			if width > 0 {
				opts.Width = width
			}

			fmt.Fprintln(out, tui.RenderBoard(s.board.TasksByColumns(), opts))
			return nil
		},
	}
	c.Flags().IntVarP(&width, "width", "w", 0, "wrap columns to this width (default: terminal width)")
	c.Flags().BoolVar(&noDesc, "no-description", false, "hide task descriptions")
	c.Flags().BoolVar(&noColor, "no-color", false, "disable colors")
	return c
}

// terminalFd returns the descriptor behind w when w is a terminal.
func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

func newStatsCmd() *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts per column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			stats := s.board.Stats()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "BOARD SUMMARY")
			fmt.Fprintln(out, strings.Repeat("─", 40))
			fmt.Fprintf(out, "To do:       %d\n", stats.Todo)
			fmt.Fprintf(out, "In progress: %d\n", stats.InProgress)
			fmt.Fprintf(out, "Done:        %d\n", stats.Done)
			fmt.Fprintf(out, "Total:       %d\n", stats.Total)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "BY COLUMN")
			fmt.Fprintln(out, strings.Repeat("─", 40))
			for _, c := range s.board.Columns() {
				fmt.Fprintf(out, "%-28s %d\n", displayTitle(c.Title), stats.ByColumn[c.ID])
			}
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "output statistics as JSON")
	return c
}

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)
	c := &cobra.Command{
		Use:   "export",
		Short: "Export the board as JSON, YAML, CSV or PDF",
		Long: `Export the board in column order with each column's tasks sorted.

The format defaults to export.default_format from the config, or is
inferred from the output file's extension.

Examples:
  taskboard export                      # JSON to stdout
  taskboard export -f csv > board.csv
  taskboard export -o board.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openBoard(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if format == "" {
				format = formatFromPath(output)
			}
			if format == "" {
				format = s.cfg.Export.DefaultFormat
			}
			format = strings.ToLower(format)
			if format == export.FormatPDF && output == "" {
				return apperrors.NewValidationError("pdf export needs an output file").WithField("output")
			}

			// A failed export must leave an existing output file intact.
			var buf bytes.Buffer
			if err := export.Write(&buf, s.board.TasksByColumns(), format); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return apperrors.Wrapf(err, "failed to write %s", output)
			}
			s.logger.Info("board exported", "format", format, "path", output)
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported board to %s\n", output)
			return nil
		},
	}
	c.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(export.Formats(), ", "))
	c.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return c
}

// formatFromPath infers an export format from a file extension.
func formatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "yml":
		return export.FormatYAML
	case export.FormatJSON, export.FormatYAML, export.FormatCSV, export.FormatPDF:
		return ext
	}
	return ""
}
