package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	appconfig "github.com/Iron-Ham/taskboard/internal/config"
	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/Iron-Ham/taskboard/internal/logging"
	"github.com/spf13/cobra"
)

type logsOptions struct {
	run    string
	tail   int
	follow bool
	level  string
	since  string
	grep   string
}

func newLogsCmd() *cobra.Command {
	var opts logsOptions
	c := &cobra.Command{
		Use:   "logs",
		Short: "View taskboard logs",
		Long: `View and filter the taskboard log file.

Every command run writes to taskboard.log in the data directory, tagged
with a run id. Use flags to filter and format the output.

Examples:
  # Show the last 50 entries
  taskboard logs

  # Show every entry from one run
  taskboard logs -r 6f1c2d9e -n 0

  # Follow logs in real-time
  taskboard logs -f

  # Filter by log level
  taskboard logs --level warn

  # Show logs from the last hour
  taskboard logs --since 1h

  # Search for specific patterns
  taskboard logs --grep "declined|failed"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd, opts)
		},
	}

	c.Flags().StringVarP(&opts.run, "run", "r", "", "Only show entries whose run id starts with this prefix")
	c.Flags().IntVarP(&opts.tail, "tail", "n", 50, "Number of lines to show (0 for all)")
	c.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	c.Flags().StringVar(&opts.level, "level", "", "Filter by minimum level (debug/info/warn/error)")
	c.Flags().StringVar(&opts.since, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	c.Flags().StringVar(&opts.grep, "grep", "", "Filter logs matching pattern (regex)")
	return c
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	RunID     string         `json:"run_id,omitempty"`
	Component string         `json:"component,omitempty"`
	Op        string         `json:"op,omitempty"`
	Extra     map[string]any `json:"-"` // Captures additional fields
}

// UnmarshalJSON implements custom unmarshaling to capture extra fields
func (e *logEntry) UnmarshalJSON(data []byte) error {
	// First, unmarshal known fields using a type alias to avoid recursion
	type Alias logEntry
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	// Then unmarshal all fields to capture extras
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	// Remove known fields, keep the rest as extra
	for _, known := range []string{"time", "level", "msg", "run_id", "component", "op"} {
		delete(all, known)
	}

	if len(all) > 0 {
		e.Extra = all
	}

	return nil
}

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// levelColor returns the ANSI color code for a log level
func levelColor(level string) string {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return colorGray
	case logging.LevelInfo:
		return colorBlue
	case logging.LevelWarn:
		return colorYellow
	case logging.LevelError:
		return colorRed
	default:
		return colorReset
	}
}

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry *logEntry) string {
	var sb strings.Builder

	// Timestamp
	sb.WriteString(colorGray)
	sb.WriteString("[")
	sb.WriteString(entry.Time.Format("15:04:05.000"))
	sb.WriteString("]")
	sb.WriteString(colorReset)

	// Level with color
	sb.WriteString(" ")
	sb.WriteString(levelColor(entry.Level))
	sb.WriteString("[")
	sb.WriteString(strings.ToUpper(entry.Level))
	sb.WriteString("]")
	sb.WriteString(colorReset)

	// Message
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	// Context fields
	for _, f := range []struct{ key, value string }{
		{"component", entry.Component},
		{"op", entry.Op},
		{"run_id", shortRunID(entry.RunID)},
	} {
		if f.value == "" {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(colorCyan)
		sb.WriteString(f.key)
		sb.WriteString("=")
		sb.WriteString(f.value)
		sb.WriteString(colorReset)
	}

	// Extra fields
	for key, value := range entry.Extra {
		sb.WriteString(" ")
		sb.WriteString(colorCyan)
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(colorReset)
		sb.WriteString(fmt.Sprintf("%v", value))
	}

	return sb.String()
}

// shortRunID trims a run id to the prefix accepted by --run.
func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// logFilter holds the parsed filter flags.
type logFilter struct {
	runPrefix string
	minLevel  int
	since     time.Time
	grep      *regexp.Regexp
}

func runLogs(cmd *cobra.Command, opts logsOptions) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return apperrors.Wrap(err, "invalid configuration")
	}

	out := cmd.OutOrStdout()
	logPath := filepath.Join(cfg.Store.ResolveDir(), logging.FileName)
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Logs are stored at:", logPath)
		return nil
	}

	// Parse filter options
	filter := logFilter{runPrefix: opts.run, minLevel: -1}
	if opts.level != "" {
		filter.minLevel = levelPriority(logging.ParseLevel(opts.level))
	}

	if opts.since != "" {
		duration, err := time.ParseDuration(opts.since)
		if err != nil {
			return apperrors.NewValidationError("invalid duration format").WithField("since").WithValue(opts.since).WithCause(err)
		}
		filter.since = time.Now().Add(-duration)
	}

	if opts.grep != "" {
		filter.grep, err = regexp.Compile(opts.grep)
		if err != nil {
			return apperrors.NewValidationError("invalid grep pattern").WithField("grep").WithValue(opts.grep).WithCause(err)
		}
	}

	// Follow mode
	if opts.follow {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return followLogs(ctx, out, logPath, filter)
	}

	// Non-follow mode: read and display logs
	return displayLogs(out, logPath, opts.tail, filter)
}

// displayLogs reads the log file and displays filtered entries
func displayLogs(out io.Writer, logPath string, tail int, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return apperrors.Wrap(err, "failed to open log file")
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)

	// Increase buffer size for potentially long log lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if line, ok := filterLine(scanner.Text(), filter); ok {
			entries = append(entries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return apperrors.Wrap(err, "error reading log file")
	}

	// Apply tail limit
	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}

	for _, entry := range entries {
		fmt.Fprintln(out, entry)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
	}

	return nil
}

// followLogs implements tail -f behavior for the log file until ctx is done.
func followLogs(ctx context.Context, out io.Writer, logPath string, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return apperrors.Wrap(err, "failed to open log file")
	}
	defer file.Close()

	// Seek to end of file
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return apperrors.Wrap(err, "failed to seek to end")
	}

	fmt.Fprintf(out, "Following logs... (Ctrl+C to stop)\n\n")

	reader := bufio.NewReader(file)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return apperrors.Wrap(err, "error reading log file")
			}
			// No new data, wait briefly and try again
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			continue
		}

		if formatted, ok := filterLine(line, filter); ok {
			fmt.Fprintln(out, formatted)
		}
	}
}

// filterLine parses one raw log line and formats it if it passes the
// filter. Lines that are not JSON pass through unformatted.
func filterLine(line string, filter logFilter) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, true
	}
	if !passesFilters(&entry, filter) {
		return "", false
	}
	return formatLogEntry(&entry), true
}

// passesFilters checks if a log entry passes all filter criteria
func passesFilters(entry *logEntry, filter logFilter) bool {
	// Run filter
	if filter.runPrefix != "" && !strings.HasPrefix(entry.RunID, filter.runPrefix) {
		return false
	}

	// Level filter
	if filter.minLevel >= 0 && levelPriority(entry.Level) < filter.minLevel {
		return false
	}

	// Time filter
	if !filter.since.IsZero() && entry.Time.Before(filter.since) {
		return false
	}

	// Grep filter - search in message, op and extra fields
	if filter.grep != nil {
		searchText := entry.Msg + " " + entry.Op
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !filter.grep.MatchString(searchText) {
			return false
		}
	}

	return true
}
