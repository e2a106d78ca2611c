package scrub

import "errors"

var (
	// ErrInputNotFound is returned when the input file does not exist or
	// cannot be read.
	ErrInputNotFound = errors.New("scrub: input file not found")

	// ErrAllMethodsFailed is returned when every strategy either failed
	// to produce a candidate or produced one that still carried metadata.
	ErrAllMethodsFailed = errors.New("scrub: all scrub methods failed")

	// ErrMetadataDetected is returned by validate-only runs when the
	// inspected file carries metadata. It exists so callers can map the
	// outcome to an exit code with errors.Is.
	ErrMetadataDetected = errors.New("scrub: metadata detected")
)
