package sanitize

import "errors"

var (
	// ErrSanitizationFailed is returned when a pass cannot walk the
	// document structure it needs to clean.
	ErrSanitizationFailed = errors.New("sanitize: sanitization failed")
)
