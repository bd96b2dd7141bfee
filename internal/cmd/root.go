package cmd

import (
	"io/fs"
	"strings"

	"github.com/Iron-Ham/taskboard/internal/cmd/config"
	appconfig "github.com/Iron-Ham/taskboard/internal/config"
	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the taskboard command tree. Each call returns a fresh
// tree with its own flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Kanban board for the terminal",
		Long: `Taskboard keeps a single kanban board of tasks organised into
ordered columns. Without a subcommand it opens the interactive board.

The board is saved after every change to the configured store backend
(file, memory, redis or mysql).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
		RunE: runTUI,
	}

	// Global flags
	root.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/taskboard/config.yaml)")
	root.PersistentFlags().String("store", "", "store backend: "+strings.Join(appconfig.ValidStoreBackends(), ", "))
	root.PersistentFlags().String("dir", "", "data directory for the file backend and logs")

	root.AddCommand(
		newTaskCmd(),
		newColumnCmd(),
		newShowCmd(),
		newStatsCmd(),
		newExportCmd(),
		newTUICmd(),
		newLogsCmd(),
	)
	config.Register(root)

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func initConfig(cmd *cobra.Command) error {
	// Set defaults first so they're available even without a config file
	appconfig.SetDefaults()

	flags := cmd.Root().PersistentFlags()
	_ = viper.BindPFlag("store.backend", flags.Lookup("store"))
	_ = viper.BindPFlag("store.dir", flags.Lookup("dir"))

	if cfgFile, _ := flags.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appconfig.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TASKBOARD")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TASKBOARD_STORE_BACKEND for store.backend
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing --config file is created later by "config init" or the editor.
		if apperrors.As(err, &notFound) || apperrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperrors.Wrap(err, "failed to read config file")
	}
	return nil
}
