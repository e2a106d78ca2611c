package entropy

import (
	"math"

	"github.com/nao1215/pdfscrub/internal/model"
)

const (
	// DefaultThreshold is the entropy, in bits per byte, above which
	// content is considered anomalous.
	DefaultThreshold = 7.5

	// DefaultMinLength is the smallest content size worth measuring.
	// Below it the byte histogram is too sparse to mean anything.
	DefaultMinLength = 100
)

// Analyzer flags anomalously random content.
type Analyzer struct {
	threshold float64
	minLength int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithThreshold overrides the entropy threshold in bits per byte.
func WithThreshold(threshold float64) Option {
	return func(a *Analyzer) {
		a.threshold = threshold
	}
}

// WithMinLength overrides the minimum content length to measure.
func WithMinLength(n int) Option {
	return func(a *Analyzer) {
		a.minLength = n
	}
}

// NewAnalyzer creates an Analyzer with the default threshold and
// minimum length, then applies the given options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		threshold: DefaultThreshold,
		minLength: DefaultMinLength,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Inspect measures the content and reports whether it crosses the
// threshold. Content shorter than the minimum length is never flagged.
func (a *Analyzer) Inspect(objectID string, data []byte) (model.EntropyReport, bool) {
	if len(data) < a.minLength {
		return model.EntropyReport{}, false
	}
	e := Entropy(data)
	if e <= a.threshold {
		return model.EntropyReport{}, false
	}
	return model.EntropyReport{
		ObjectID:   objectID,
		Entropy:    e,
		ByteLength: len(data),
	}, true
}

// Entropy returns the Shannon entropy of data in bits per byte, in the
// range [0, 8]. Empty input yields 0.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	total := float64(len(data))
	var e float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		e -= p * math.Log2(p)
	}
	return e
}
