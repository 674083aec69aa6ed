package ports

import "io"

// Logger defines the logging interface used throughout the application.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info logs an informational message.
	Info(msg string)

	// Warn logs a warning message.
	Warn(msg string)

	// Error logs an error, rendering wrapped causes and metadata when available.
	Error(err error)

	// SetOutput redirects log output to the given writer.
	SetOutput(w io.Writer)

	// SetJSON switches between JSON and pretty log output.
	SetJSON(enable bool)
}
