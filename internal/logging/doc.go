// Package logging provides structured logging for smartcalc.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the application. Logging is silent by default so
// the terminal calculator and one-shot CLI commands print nothing extra.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Every transition and computation, WebSocket frames
//   - Info: Server lifecycle, sessions, HTTP requests
//   - Warn: Division by zero, rejected input, config reload problems
//   - Error: Invariant violations, startup failures
//
// # Specialized Logging
//
//	logging.LogTransition("7", "37", "3 +")
//	logging.LogComputation("3", "+", "4", "7", "direct")
//	logging.LogSessionEvent(id, remoteAddr, "session_opened")
//	logging.LogWebSocketMessage(id, "received", 1, payload)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Setting SMARTCALC_LOG_LEVEL enables logging without a flag. The TUI calls
// InitializeWithOutput with a log file because stdout belongs to the screen.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
