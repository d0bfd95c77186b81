// Package logger provides structured logging for tokauth.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler construction, global level
//   - context.go: request-scoped loggers and request ID propagation
//   - redact.go: masking of passwords, tokens and other secrets
//
// The level is held in a process-wide slog.LevelVar so that a config reload
// can change verbosity without rebuilding loggers.
package logger
