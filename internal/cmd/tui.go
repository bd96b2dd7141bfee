package cmd

import (
	"os"

	appconfig "github.com/Iron-Ham/taskboard/internal/config"
	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/Iron-Ham/taskboard/internal/tui"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Long: `Open the interactive board.

Navigate with the arrow keys or h/j/k/l, move tasks between columns with
H/L, reorder them with J/K, and drag cards or column headers with the
mouse. Press ? for all key bindings.

Display settings (tui.column_width, tui.show_description, tui.theme) are
applied live when the config file changes.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return apperrors.New("the interactive board needs a terminal; use 'taskboard show' to print the board")
	}

	s, err := openBoard(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	app := tui.NewApp(s.board, tuiOptions(s.cfg), s.logger)

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			cfg, err := appconfig.Load()
			if err != nil {
				s.logger.Warn("ignoring invalid config change", "file", e.Name, "error", err)
				return
			}
			app.Reload(tuiOptions(cfg))
		})
		viper.WatchConfig()
	}

	if err := app.Run(cmd.Context()); err != nil {
		return apperrors.Wrap(err, "tui failed")
	}
	if err := s.board.PersistErr(); err != nil {
		return apperrors.NewStoreError("last change was not saved", err).WithBackend(s.cfg.Store.Backend)
	}
	return nil
}

func tuiOptions(cfg *appconfig.Config) tui.Options {
	return tui.Options{
		ColumnWidth:     cfg.TUI.ColumnWidth,
		ShowDescription: cfg.TUI.ShowDescription,
		Theme:           cfg.TUI.Theme,
	}
}
