// Package logger configures structured JSON logging on log/slog and carries
// request-scoped loggers and request ids through context.Context.
package logger
