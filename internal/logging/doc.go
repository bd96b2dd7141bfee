// Package logging provides structured logging for taskboard.
//
// It wraps Go's log/slog JSON handler in a small [Logger] type with child
// loggers for persistent attributes, and a size-based [RotatingWriter] so the
// log file in the data directory does not grow without bound.
//
// # Basic Usage
//
//	logger, err := logging.NewLoggerWithRotation(dataDir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	boardLog := logger.WithRun(runID).WithComponent("board")
//	boardLog.Info("board loaded", "tasks", 12, "columns", 4)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"board loaded","run_id":"...","component":"board","tasks":12,"columns":4}
//
// # Log Rotation
//
// When the live file would exceed MaxSizeMB it is renamed to taskboard.log.1,
// older backups shift up, and anything past MaxBackups is removed. With
// Compress set, backups are gzipped (taskboard.log.1.gz).
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a
// bytes.Buffer to assert on emitted entries.
package logging
