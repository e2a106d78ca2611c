package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/nao1215/pdfscrub/internal/sanitize"
)

// ErrStrategyFailed is returned when a strategy cannot produce a
// candidate file. The orchestrator treats it as "try the next one".
var ErrStrategyFailed = errors.New("strategy: scrub failed")

// Strategy produces a candidate output file from an input file.
type Strategy interface {
	// Name identifies the strategy in logs and reports.
	Name() string

	// Scrub writes a candidate to output. A returned error means no
	// usable candidate was produced.
	Scrub(ctx context.Context, input, output string) error
}

// DefaultStrategies returns the strategies in preference order:
// strongest guarantees first, widest compatibility last.
func DefaultStrategies(backend docmodel.Backend, sanitizer *sanitize.Sanitizer) []Strategy {
	return []Strategy{
		NewReconstruct(backend),
		NewStructuralClear(backend, sanitizer),
		NewMinimalRewrite(backend),
	}
}

// Reconstruct rebuilds the document from its page graph alone. Nothing
// outside the pages survives: no trailer history, no orphaned objects,
// no incremental updates.
type Reconstruct struct {
	backend docmodel.Backend
}

// NewReconstruct creates the full-reconstruction strategy.
func NewReconstruct(backend docmodel.Backend) *Reconstruct {
	return &Reconstruct{backend: backend}
}

// Name implements Strategy.
func (r *Reconstruct) Name() string { return "reconstruct" }

// Scrub implements Strategy.
func (r *Reconstruct) Scrub(ctx context.Context, input, output string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStrategyFailed, r.Name(), err)
	}
	if err := r.backend.Rebuild(input, output); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStrategyFailed, r.Name(), err)
	}
	return nil
}

// StructuralClear edits the existing object graph in place: info
// dictionary, XMP packet, catalog, trailer reference, and page-level
// metadata are cleared field by field, then the graph is saved as-is.
// It preserves more of the original file than reconstruction, which
// matters for documents whose structure a rebuild would not survive.
type StructuralClear struct {
	backend   docmodel.Backend
	sanitizer *sanitize.Sanitizer
}

// NewStructuralClear creates the in-place clearing strategy.
func NewStructuralClear(backend docmodel.Backend, sanitizer *sanitize.Sanitizer) *StructuralClear {
	return &StructuralClear{backend: backend, sanitizer: sanitizer}
}

// Name implements Strategy.
func (s *StructuralClear) Name() string { return "structural_clear" }

// Scrub implements Strategy.
func (s *StructuralClear) Scrub(ctx context.Context, input, output string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStrategyFailed, s.Name(), err)
	}

	doc, err := s.backend.Open(input)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStrategyFailed, s.Name(), err)
	}
	defer func() { _ = doc.Close() }()

	if _, err := s.sanitizer.SanitizeDocument(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStrategyFailed, s.Name(), err)
	}
	if err := doc.Save(output); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStrategyFailed, s.Name(), err)
	}
	return nil
}

// MinimalRewrite passes the pages through a fresh writer and nothing
// more. It is the last resort for files the other strategies cannot
// process; the writer may stamp its own producer metadata, which the
// sanitizer's post-save pass and the validator then deal with.
type MinimalRewrite struct {
	backend docmodel.Backend
}

// NewMinimalRewrite creates the pass-through rewrite strategy.
func NewMinimalRewrite(backend docmodel.Backend) *MinimalRewrite {
	return &MinimalRewrite{backend: backend}
}

// Name implements Strategy.
func (m *MinimalRewrite) Name() string { return "minimal_rewrite" }

// Scrub implements Strategy.
func (m *MinimalRewrite) Scrub(ctx context.Context, input, output string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStrategyFailed, m.Name(), err)
	}
	if err := m.backend.RewritePages(input, output); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStrategyFailed, m.Name(), err)
	}
	return nil
}
