package scrub

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/nao1215/pdfscrub/internal/model"
	"github.com/nao1215/pdfscrub/internal/sanitize"
	"github.com/nao1215/pdfscrub/internal/strategy"
	"github.com/nao1215/pdfscrub/internal/validate"
)

// state is one node of the fallback state machine.
type state int

const (
	stateAnalyzingOriginal state = iota
	stateTryingStrategy
	stateSanitizing
	stateValidating
	stateNextStrategy
	stateAccepted
	stateAllFailed
)

// String names the state for debug logs.
func (s state) String() string {
	switch s {
	case stateAnalyzingOriginal:
		return "analyzing_original"
	case stateTryingStrategy:
		return "trying_strategy"
	case stateSanitizing:
		return "sanitizing"
	case stateValidating:
		return "validating"
	case stateNextStrategy:
		return "next_strategy"
	case stateAccepted:
		return "accepted"
	case stateAllFailed:
		return "all_failed"
	default:
		return "unknown"
	}
}

// Attempt records the outcome of one strategy.
type Attempt struct {
	// Strategy is the strategy's name.
	Strategy string `json:"strategy"`

	// Accepted reports whether this attempt's candidate became the
	// output.
	Accepted bool `json:"accepted"`

	// Failure explains why the attempt was rejected, empty on success.
	Failure string `json:"failure,omitempty"`
}

// Result is the outcome of one scrub run.
type Result struct {
	// InputPath is the original file.
	InputPath string `json:"input_path"`

	// OutputPath is where the accepted candidate was written. Empty when
	// the scrub failed.
	OutputPath string `json:"output_path,omitempty"`

	// Strategy names the accepted strategy. Empty when the scrub failed.
	Strategy string `json:"strategy,omitempty"`

	// Attempts records every strategy tried, in order.
	Attempts []Attempt `json:"attempts"`

	// Original is the forensic report for the input file.
	Original *model.ForensicReport `json:"original"`

	// Final is the forensic report for the written output file. Nil when
	// the scrub failed.
	Final *model.ForensicReport `json:"final,omitempty"`
}

// Scrubber runs the scrub-and-validate pipeline.
type Scrubber struct {
	backend    docmodel.Backend
	strategies []strategy.Strategy
	sanitizer  *sanitize.Sanitizer
	validator  *validate.Validator
	logger     *slog.Logger
	tempDir    string
}

// Option configures a Scrubber.
type Option func(*Scrubber)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scrubber) {
		s.logger = logger
	}
}

// WithStrategies replaces the default strategy order.
func WithStrategies(strategies ...strategy.Strategy) Option {
	return func(s *Scrubber) {
		s.strategies = strategies
	}
}

// WithSanitizer replaces the default sanitizer.
func WithSanitizer(sanitizer *sanitize.Sanitizer) Option {
	return func(s *Scrubber) {
		s.sanitizer = sanitizer
	}
}

// WithValidator replaces the default validator.
func WithValidator(validator *validate.Validator) Option {
	return func(s *Scrubber) {
		s.validator = validator
	}
}

// WithTempDir sets the directory candidates are written to.
func WithTempDir(dir string) Option {
	return func(s *Scrubber) {
		s.tempDir = dir
	}
}

// NewScrubber creates a Scrubber bound to the backend, with the default
// sanitizer, validator, and strategy order, then applies the given
// options.
func NewScrubber(backend docmodel.Backend, opts ...Option) *Scrubber {
	sanitizer := sanitize.NewSanitizer()
	s := &Scrubber{
		backend:    backend,
		sanitizer:  sanitizer,
		validator:  validate.New(backend),
		strategies: strategy.DefaultStrategies(backend, sanitizer),
		logger:     slog.Default(),
		tempDir:    os.TempDir(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultOutputPath derives the output path used when the caller gives
// none: the input's name with a _scrubbed suffix, next to the input.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + "_scrubbed" + ext
}

// Scrub runs the pipeline: analyze the original, try strategies in
// order, accept the first candidate that validates clean, and write it
// to output. An empty output selects DefaultOutputPath. Temporary
// candidates are always removed, on every path out of the loop.
func (s *Scrubber) Scrub(ctx context.Context, input, output string) (*Result, error) {
	if _, err := os.Stat(input); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputNotFound, input, err)
	}
	if output == "" {
		output = DefaultOutputPath(input)
	}

	result := &Result{InputPath: input}

	var temps []string
	defer func() {
		for _, tmp := range temps {
			if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("temp candidate not removed", "path", tmp, "error", err)
			}
		}
	}()

	var (
		idx       int
		candidate string
	)

	st := stateAnalyzingOriginal
	for {
		s.logger.Debug("pipeline state", "state", st.String(), "strategy_index", idx)

		switch st {
		case stateAnalyzingOriginal:
			original, err := s.validator.Validate(ctx, input)
			if err != nil {
				return nil, err
			}
			result.Original = original
			s.logger.Info("original analyzed",
				"input", input,
				"metadata_detected", original.MetadataDetected,
				"findings", original.TotalFindings())
			st = stateTryingStrategy

		case stateTryingStrategy:
			if idx >= len(s.strategies) {
				st = stateAllFailed
				continue
			}
			tmp, err := s.newCandidatePath()
			if err != nil {
				return nil, err
			}
			temps = append(temps, tmp)
			candidate = tmp

			strat := s.strategies[idx]
			if err := strat.Scrub(ctx, input, candidate); err != nil {
				s.recordFailure(result, strat.Name(), err)
				st = stateNextStrategy
				continue
			}
			st = stateSanitizing

		case stateSanitizing:
			if err := s.sanitizeCandidate(candidate); err != nil {
				s.recordFailure(result, s.strategies[idx].Name(), err)
				st = stateNextStrategy
				continue
			}
			st = stateValidating

		case stateValidating:
			r, err := s.validator.Validate(ctx, candidate)
			if err != nil {
				s.recordFailure(result, s.strategies[idx].Name(), err)
				st = stateNextStrategy
				continue
			}
			if !r.ScrubbingSuccessful {
				s.recordFailure(result, s.strategies[idx].Name(),
					fmt.Errorf("candidate still carries metadata (%d findings)", r.TotalFindings()))
				st = stateNextStrategy
				continue
			}
			st = stateAccepted

		case stateNextStrategy:
			idx++
			st = stateTryingStrategy

		case stateAccepted:
			if err := copyFile(candidate, output); err != nil {
				return nil, err
			}
			// Re-check the written output rather than trusting the
			// candidate's report across the copy step.
			final, err := s.validator.Validate(ctx, output)
			if err != nil {
				return nil, err
			}

			name := s.strategies[idx].Name()
			result.Attempts = append(result.Attempts, Attempt{Strategy: name, Accepted: true})
			result.OutputPath = output
			result.Strategy = name
			result.Final = final
			s.logger.Info("scrub accepted",
				"strategy", name,
				"output", output,
				"confidence", final.ConfidenceText)
			return result, nil

		case stateAllFailed:
			s.logger.Error("scrub failed", "input", input, "attempts", len(result.Attempts))
			return result, ErrAllMethodsFailed
		}
	}
}

// ValidateOnly runs the forensic validator against path without
// scrubbing. It returns ErrMetadataDetected alongside the report when
// the file is dirty.
func (s *Scrubber) ValidateOnly(ctx context.Context, path string) (*model.ForensicReport, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputNotFound, path, err)
	}
	report, err := s.validator.Validate(ctx, path)
	if err != nil {
		return nil, err
	}
	if report.MetadataDetected {
		return report, ErrMetadataDetected
	}
	return report, nil
}

// sanitizeCandidate deep-cleans a candidate in place: object graph
// first, then the written bytes.
func (s *Scrubber) sanitizeCandidate(candidate string) error {
	doc, err := s.backend.Open(candidate)
	if err != nil {
		return err
	}

	result, err := s.sanitizer.SanitizeDocument(doc)
	if err != nil {
		_ = doc.Close()
		return err
	}
	if result.SkippedFields > 0 {
		s.logger.Debug("sanitizer skipped fields",
			"candidate", candidate, "skipped", result.SkippedFields)
	}
	if err := doc.Save(candidate); err != nil {
		_ = doc.Close()
		return err
	}
	if err := doc.Close(); err != nil {
		return err
	}

	_, err = s.sanitizer.PostSavePass(candidate)
	return err
}

// recordFailure appends a failed attempt and logs it.
func (s *Scrubber) recordFailure(result *Result, name string, err error) {
	s.logger.Warn("strategy rejected", "strategy", name, "reason", err)
	result.Attempts = append(result.Attempts, Attempt{Strategy: name, Failure: err.Error()})
}

// newCandidatePath reserves a temporary file for a candidate.
func (s *Scrubber) newCandidatePath() (string, error) {
	f, err := os.CreateTemp(s.tempDir, "pdfscrub-*.pdf")
	if err != nil {
		return "", fmt.Errorf("scrub: create candidate: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("scrub: close candidate: %w", err)
	}
	return path, nil
}

// copyFile copies src to dst byte for byte. The accepted candidate was
// validated at src; the copy introduces nothing new.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("scrub: open candidate: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("scrub: create output: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("scrub: write output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("scrub: close output: %w", err)
	}
	return nil
}
