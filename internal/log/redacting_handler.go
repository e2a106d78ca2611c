package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// identifyingKeys contains attribute keys that should always be redacted.
// These keys carry metadata values read out of documents under scrub, and
// logging them would re-expose exactly what the tool removes.
var identifyingKeys = map[string]bool{
	// Document information dictionary fields
	"author":        true,
	"title":         true,
	"subject":       true,
	"keywords":      true,
	"producer":      true,
	"creator":       true,
	"creation_date": true,
	"mod_date":      true,

	// XMP properties
	"xmp_value":   true,
	"document_id": true,
	"instance_id": true,

	// Values extracted during validation
	"value":         true,
	"value_excerpt": true,
	"excerpt":       true,
	"finding_value": true,

	// Annotation attribution
	"annotation_author": true,
	"annotation_text":   true,
}

// identifyingPatterns contains regex patterns that indicate identifying values.
// Values matching these patterns will be redacted regardless of key name.
var identifyingPatterns = []*regexp.Regexp{
	// PDF date strings (D:YYYYMMDDHHmmSS with optional timezone)
	regexp.MustCompile(`^D:\d{8,14}`),

	// Email addresses
	regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`),

	// XMP packet markers; a value carrying raw XMP carries everything in it
	regexp.MustCompile(`<\?xpacket|<x:xmpmeta`),

	// XMP document/instance identifiers
	regexp.MustCompile(`^(?:uuid|xmp\.(?:id|did|iid)):`),
}

// MaskValue is the string used to replace identifying values.
const MaskValue = "***REDACTED***"

// RedactingHandler wraps an slog.Handler to redact identifying information.
// It intercepts log records and masks attribute values that match
// identifying key names or value patterns before passing them to the
// underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. It protects every log call site, including future ones, without
//     relying on callers to remember what is safe to log
type RedactingHandler struct {
	// handler is the underlying slog handler that receives redacted records.
	handler slog.Handler
}

// NewRedactingHandler creates a new RedactingHandler wrapping the given handler.
// All log attributes will be redacted before being passed to the underlying handler.
// If handler is nil, the returned RedactingHandler will use slog.Default().Handler().
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it to the underlying handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	// Create a new record with redacted attributes
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))
		return true
	})

	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are redacted before being added.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redactedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redactedAttrs[i] = h.redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redactedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

// redactAttr redacts a single attribute, recursively handling groups.
func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	// Handle groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redactedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redactedAttrs[i] = h.redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redactedAttrs...)}
	}

	// Check if the key indicates an identifying value
	keyLower := strings.ToLower(a.Key)
	if identifyingKeys[keyLower] || containsIdentifyingKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	// Check if the value matches identifying patterns
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if isIdentifyingValue(strVal) {
			return slog.String(a.Key, MaskValue)
		}
	}

	return a
}

// containsIdentifyingKeyword checks if the key contains identifying keywords.
// Note: We intentionally exclude bare "date" because it causes false positives
// (e.g., "update", "validate", "candidate"). Specific date-bearing keys like
// "creation_date" and "mod_date" are covered by the identifyingKeys map.
func containsIdentifyingKeyword(key string) bool {
	identifyingKeywords := []string{
		"author", "producer", "creator", "excerpt",
		"keywords", "xmp_",
	}

	for _, keyword := range identifyingKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isIdentifyingValue checks if a value matches identifying patterns.
func isIdentifyingValue(value string) bool {
	for _, pattern := range identifyingPatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// NewRedactingLogger creates a new slog.Logger with redaction.
// The logger masks identifying metadata values in all log output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewRedactingLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	redactingHandler := NewRedactingHandler(textHandler)

	return slog.New(redactingHandler)
}

// NewRedactingJSONLogger creates a new slog.Logger with redaction
// that outputs JSON format. Useful for structured log aggregation.
//
// Parameters:
//   - w: The io.Writer to write log output to
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger configured for JSON output with redaction.
func NewRedactingJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	redactingHandler := NewRedactingHandler(jsonHandler)

	return slog.New(redactingHandler)
}
