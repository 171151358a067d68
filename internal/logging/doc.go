// Package logging provides structured logging for the lgnetcast tools.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used throughout the module. Logging is silent by default so that
// CLI output stays clean; set the LGNETCAST_LOG_LEVEL environment variable
// to enable it.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (SSDP replies, descriptor fetches)
//   - Info: Normal operations (sweep start, entries created)
//   - Warn: Non-fatal issues (listener bind failures, fetch failures)
//   - Error: Fatal issues (startup failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Debug("Device reply merged",
//	    zap.String("unique_id", "1234"),
//	    zap.String("host", "192.168.1.239"),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
