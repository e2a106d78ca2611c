package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no PDF file is specified.
	// This error occurs when no positional argument provides a target.
	ErrNoTarget = errors.New("no target specified: provide at least one PDF file")

	// ErrInvalidEntropyThreshold is returned when the entropy threshold is
	// outside the range (0, 8]. Entropy is measured in bits per byte, so
	// values above 8 can never be reached and would disable the check.
	ErrInvalidEntropyThreshold = errors.New("invalid entropy threshold: must be in (0, 8]")

	// ErrInvalidEntropyMinLength is returned when the entropy minimum
	// length is not positive. Very short streams produce unstable entropy
	// estimates, so a positive floor is required.
	ErrInvalidEntropyMinLength = errors.New("invalid entropy minimum length: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent scrubs, effectively
	// stopping the processing.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrOutputWithMultipleTargets is returned when an explicit output path
	// is combined with more than one input. Batch runs derive per-file
	// output paths instead.
	ErrOutputWithMultipleTargets = errors.New("output path cannot be combined with multiple targets")
)
