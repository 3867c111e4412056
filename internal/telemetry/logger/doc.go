// Package logger provides structured logging for DocMesh.
//
// It wraps the standard library log/slog to provide structured JSON
// logging with automatic redaction of sensitive configuration values.
//
// Features:
//   - JSON structured logging (default), text for dev consoles
//   - Automatic redaction of secret-bearing attributes
//   - Context-aware logging with request ID propagation
//   - Dynamic log level adjustment (config hot reload)
package logger
