package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/Iron-Ham/taskboard/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newThemeCmd() *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "List and inspect color themes",
		Long: `List and inspect the color themes of the interactive board.

Use 'theme list' to see all available themes.
Use 'theme info' to view a theme's colors.
Use 'theme export' to dump a theme's palette as YAML.
Select a theme with 'taskboard config set tui.theme <name>'.`,
	}

	themeCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all available themes",
			Args:  cobra.NoArgs,
			RunE:  runThemeList,
		},
		&cobra.Command{
			Use:   "info <theme-name>",
			Short: "Show information about a theme",
			Args:  cobra.ExactArgs(1),
			RunE:  runThemeInfo,
		},
		&cobra.Command{
			Use:   "export <theme-name> [output-file]",
			Short: "Export a theme's palette to YAML",
			Long: `Export a theme's palette to YAML.

If no output file is specified, the YAML is printed to stdout.

Examples:
  taskboard config theme export nord
  taskboard config theme export dracula dracula.yaml`,
			Args: cobra.RangeArgs(1, 2),
			RunE: runThemeExport,
		},
	)
	return themeCmd
}

func unknownTheme(name string) error {
	return apperrors.NewValidationError(fmt.Sprintf("unknown theme: %s\nValid options: %s", name, strings.Join(styles.ThemeNames(), ", "))).
		WithField("theme").WithValue(name)
}

func runThemeList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	current := viper.GetString("tui.theme")

	fmt.Fprintln(out, "Available themes:")
	fmt.Fprintln(out)
	for _, name := range styles.ThemeNames() {
		if name == current {
			fmt.Fprintf(out, "  * %s (current)\n", name)
		} else {
			fmt.Fprintf(out, "  - %s\n", name)
		}
	}
	return nil
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	themeName := args[0]
	if !styles.IsValidTheme(themeName) {
		return unknownTheme(themeName)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme: %s\n", themeName)
	fmt.Fprintln(out)

	palette := styles.GetPalette(styles.ThemeName(themeName))
	fmt.Fprintln(out, "Base Colors:")
	fmt.Fprintf(out, "  Primary:   %s\n", palette.Primary)
	fmt.Fprintf(out, "  Secondary: %s\n", palette.Secondary)
	fmt.Fprintf(out, "  Warning:   %s\n", palette.Warning)
	fmt.Fprintf(out, "  Error:     %s\n", palette.Error)
	fmt.Fprintf(out, "  Muted:     %s\n", palette.Muted)
	fmt.Fprintf(out, "  Surface:   %s\n", palette.Surface)
	fmt.Fprintf(out, "  Text:      %s\n", palette.Text)
	fmt.Fprintf(out, "  Border:    %s\n", palette.Border)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Priority Colors:")
	fmt.Fprintf(out, "  Low:       %s\n", palette.PriorityLow)
	fmt.Fprintf(out, "  Medium:    %s\n", palette.PriorityMedium)
	fmt.Fprintf(out, "  High:      %s\n", palette.PriorityHigh)
	return nil
}

// themeFile is the YAML shape of an exported palette.
type themeFile struct {
	Name   string            `yaml:"name"`
	Colors map[string]string `yaml:"colors"`
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	themeName := args[0]
	if !styles.IsValidTheme(themeName) {
		return unknownTheme(themeName)
	}

	p := styles.GetPalette(styles.ThemeName(themeName))
	data, err := yaml.Marshal(themeFile{
		Name: themeName,
		Colors: map[string]string{
			"primary":         string(p.Primary),
			"secondary":       string(p.Secondary),
			"warning":         string(p.Warning),
			"error":           string(p.Error),
			"muted":           string(p.Muted),
			"surface":         string(p.Surface),
			"text":            string(p.Text),
			"border":          string(p.Border),
			"priority_low":    string(p.PriorityLow),
			"priority_medium": string(p.PriorityMedium),
			"priority_high":   string(p.PriorityHigh),
		},
	})
	if err != nil {
		return apperrors.Wrap(err, "exporting theme")
	}

	// If output file specified, write to file
	if len(args) > 1 {
		outputPath := args[1]
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return apperrors.Wrapf(err, "writing to %s", outputPath)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme exported to: %s\n", outputPath)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
