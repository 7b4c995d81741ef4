// Package logging provides structured logging for the SSDP responder.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the responder. It provides both general logging
// functions and specialized functions for discovery traffic.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Raw datagrams, dropped requests, NOTIFY traffic from other hosts
//   - Info: Startup, shutdown, announcements, one line per M-SEARCH
//   - Warn: Send failures, services skipped during rendering
//   - Error: Transport failures, startup failures
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Responder listening",
//	    zap.String("group", "239.255.255.250:1900"),
//	    zap.String("interface", "eth0"),
//	)
//
// Search outcomes have a dedicated helper:
//
//	logging.LogSearch(remote.String(), req.SearchTargets(), found)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is passed and STATICSSDP_LOG_LEVEL is unset the logger is a
// no-op, which keeps library use and tests quiet.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are expected to be called before the responder starts.
package logging
