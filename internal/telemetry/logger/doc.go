// Package logger configures structured logging for nsremover.
//
// It builds a log/slog logger with:
//
//   - JSON (default) or text output
//   - a process-wide level that can be changed at runtime
//   - request ID propagation from context.Context
//   - redaction of secrets and ledger record values
package logger
