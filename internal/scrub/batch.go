package scrub

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds parallel scrubs. PDF parsing is memory
// hungry; a small fixed limit keeps batch runs from ballooning.
const defaultConcurrency = 4

// BatchItem is the outcome of one input in a batch run.
type BatchItem struct {
	// Input is the file this item describes.
	Input string `json:"input"`

	// Result is the scrub outcome, present even on failure when the
	// pipeline got far enough to record attempts.
	Result *Result `json:"result,omitempty"`

	// Err is the failure, empty on success.
	Err string `json:"error,omitempty"`
}

// BatchProcessor scrubs multiple files concurrently. One file's failure
// never stops the others; every item carries its own outcome.
type BatchProcessor struct {
	scrubber    *Scrubber
	logger      *slog.Logger
	concurrency int
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithConcurrency bounds the number of files scrubbed in parallel.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets the batch logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// NewBatchProcessor creates a BatchProcessor around the scrubber.
func NewBatchProcessor(scrubber *Scrubber, opts ...BatchOption) *BatchProcessor {
	b := &BatchProcessor{
		scrubber:    scrubber,
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Process scrubs every input with the default output path. Items come
// back in input order regardless of completion order.
func (b *BatchProcessor) Process(ctx context.Context, inputs []string) []BatchItem {
	items := make([]BatchItem, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, input := range inputs {
		g.Go(func() error {
			result, err := b.scrubber.Scrub(ctx, input, "")
			item := BatchItem{Input: input, Result: result}
			if err != nil {
				item.Err = err.Error()
				b.logger.Warn("batch item failed", "input", input, "error", err)
			}
			items[i] = item
			return nil
		})
	}
	// Workers never return errors; Wait only fences completion.
	_ = g.Wait()

	return items
}
