package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/nao1215/pdfscrub/internal/entropy"
	"github.com/nao1215/pdfscrub/internal/model"
)

// ErrValidationFailed is returned when the validator cannot inspect the
// target file at all.
var ErrValidationFailed = errors.New("validate: validation failed")

// Target is the file under validation. The raw bytes are read once and
// shared by every check.
type Target struct {
	// Path is the file's location on disk.
	Path string

	// Data is the file's full content.
	Data []byte
}

// Check is one independent forensic inspection.
type Check interface {
	// Kind identifies the check.
	Kind() model.CheckKind

	// Run inspects the target. A returned error means the check could
	// not run; the validator fails it closed.
	Run(ctx context.Context, target *Target) (model.CheckResult, error)
}

// Validator coordinates the registered checks and aggregates their
// results into a forensic report.
type Validator struct {
	logger *slog.Logger
	checks []Check
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for per-check progress.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithChecks replaces the default check set. Used by callers that need
// a narrower battery, such as tests exercising a single reader.
func WithChecks(checks ...Check) Option {
	return func(v *Validator) {
		v.checks = checks
	}
}

// WithEntropyOptions rebuilds the default entropy check with the given
// analyzer options. It has no effect when WithChecks replaced the set.
func WithEntropyOptions(backend docmodel.Backend, opts ...entropy.Option) Option {
	return func(v *Validator) {
		for i, c := range v.checks {
			if c.Kind() == model.CheckEntropy {
				v.checks[i] = NewEntropyCheck(backend, opts...)
			}
		}
	}
}

// New creates a Validator with the full default check battery bound to
// the given backend, then applies the given options.
func New(backend docmodel.Backend, opts ...Option) *Validator {
	v := &Validator{
		logger: slog.Default(),
		checks: []Check{
			NewDocInfoCheck(backend),
			NewCrossReaderCheck(),
			NewBinaryPatternsCheck(),
			NewEntropyCheck(backend),
			NewAdvancedCheck(backend),
			NewStructureCheck(backend),
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Register appends a check to the battery.
func (v *Validator) Register(c Check) {
	v.checks = append(v.checks, c)
}

// Validate runs every registered check against the file at path and
// returns the aggregate forensic report. Check errors fail closed; only
// an unreadable file aborts validation entirely.
func (v *Validator) Validate(ctx context.Context, path string) (*model.ForensicReport, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrValidationFailed, path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrValidationFailed, path, err)
	}

	target := &Target{Path: path, Data: data}
	results := make([]model.CheckResult, 0, len(v.checks))
	for _, check := range v.checks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}

		result, err := check.Run(ctx, target)
		if err != nil {
			v.logger.Warn("check failed closed",
				"check", check.Kind().String(), "error", err)
			result = model.NewErrorResult(check.Kind(), err)
		}
		v.logger.Debug("check finished",
			"check", check.Kind().String(),
			"found", result.Found,
			"details", result.DetailCount())
		results = append(results, result)
	}

	return model.NewForensicReport(path, fi.Size(), fileTimestamps(fi), results), nil
}
