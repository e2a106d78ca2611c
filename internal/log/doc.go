// Package log provides privacy-aware logging functionality with automatic
// redaction of identifying metadata, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic redaction of identifying values (author names, producer
//     strings, value excerpts pulled from documents under scrub)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Privacy Features
//
// The RedactingHandler automatically redacts identifying information in log output:
//   - Document metadata attributes (author, title, producer, creator, keywords)
//   - Value excerpts extracted from documents during validation
//   - Email addresses and PDF timestamps detected by pattern matching
//
// The whole point of this tool is to remove identifying metadata from
// documents; leaking those same values into log files that may be shared
// or stored would defeat the purpose. Even in verbose mode, identifying
// values are masked.
//
// # Usage
//
//	// Create a redacting logger
//	logger := log.NewRedactingLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("field removed",
//	    "author", "Jane Doe",        // Will be redacted
//	    "path", "/tmp/report.pdf",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
