package docmodel

import "errors"

// Sentinel errors shared by all document-model backends.
//
// Design decision: We use package-level sentinel errors rather than
// backend-specific error types so that the orchestrator can classify a
// failure (parse vs write) with errors.Is regardless of which backend
// produced it. Backends wrap these with %w and add their own detail.
var (
	// ErrParse is returned when a file cannot be opened as a document.
	ErrParse = errors.New("document model: parse failed")

	// ErrWrite is returned when serializing a document to disk fails.
	ErrWrite = errors.New("document model: write failed")

	// ErrNoXMP is returned by Document.XMP when the document carries no
	// XMP metadata packet. Callers treat this as a normal condition.
	ErrNoXMP = errors.New("document model: no XMP metadata")

	// ErrReadOnlyKey is returned when a mutation targets a key the
	// underlying engine exposes as read-only. Sanitizer passes skip such
	// fields and continue.
	ErrReadOnlyKey = errors.New("document model: key is read-only")
)
