package signature

import (
	"bytes"

	"github.com/nao1215/pdfscrub/internal/model"
)

// Scanner performs byte-level metadata detection and scrubbing.
type Scanner struct {
	keyTokens    [][]byte
	vendorTokens [][]byte
	xmpMarkers   [][]byte
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithKeyTokens overrides the metadata key tokens.
func WithKeyTokens(tokens [][]byte) Option {
	return func(s *Scanner) {
		s.keyTokens = tokens
	}
}

// WithVendorTokens overrides the vendor tokens.
func WithVendorTokens(tokens [][]byte) Option {
	return func(s *Scanner) {
		s.vendorTokens = tokens
	}
}

// NewScanner creates a Scanner with the canonical token lists, then
// applies the given options.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		keyTokens:    MetadataKeyTokens,
		vendorTokens: VendorTokens,
		xmpMarkers:   XMPMarkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrubScoped blanks vendor tokens inside the value span following
// every metadata key token in data, in place. Only vendor tokens
// within a span are touched: the key, the delimiters, and non-vendor
// value content stay intact. It returns whether anything changed.
// len(data) is never altered.
func (s *Scanner) ScrubScoped(data []byte) bool {
	changed := false
	for _, token := range s.keyTokens {
		offset := 0
		for {
			idx := bytes.Index(data[offset:], token)
			if idx < 0 {
				break
			}
			start := offset + idx + len(token)
			end := valueSpanEnd(data, start)
			if s.ScrubTokens(data[start:end], s.vendorTokens) {
				changed = true
			}
			// Resume past the whole span so a key token inside an
			// already-processed value is not matched again.
			offset = end
		}
	}
	return changed
}

// ScrubTokens blanks every occurrence of the given tokens in data, in
// place, and returns whether anything changed. len(data) is never
// altered.
func (s *Scanner) ScrubTokens(data []byte, tokens [][]byte) bool {
	changed := false
	for _, token := range tokens {
		offset := 0
		for {
			idx := bytes.Index(data[offset:], token)
			if idx < 0 {
				break
			}
			pos := offset + idx
			for i := pos; i < pos+len(token); i++ {
				data[i] = ' '
			}
			changed = true
			offset = pos + len(token)
		}
	}
	return changed
}

// ScrubVendors blanks every vendor token in data, in place.
func (s *Scanner) ScrubVendors(data []byte) bool {
	return s.ScrubTokens(data, s.vendorTokens)
}

// Detect reports every metadata key token and XMP marker present in
// data without modifying it. Each token is reported once, with the
// first value excerpt found for key tokens.
func (s *Scanner) Detect(data []byte) []model.Finding {
	var findings []model.Finding

	for _, token := range s.keyTokens {
		idx := bytes.Index(data, token)
		if idx < 0 {
			continue
		}
		start := idx + len(token)
		excerpt := spanExcerpt(data[start:valueSpanEnd(data, start)])
		findings = append(findings, model.NewFinding(
			model.LocationBinarySignature, string(token), excerpt))
	}

	for _, marker := range s.xmpMarkers {
		if bytes.Contains(data, marker) {
			findings = append(findings, model.NewFinding(
				model.LocationXMP, string(marker), ""))
		}
	}

	return findings
}

// valueSpanEnd resolves the end of the value span beginning at pos,
// immediately after a key token. A '(' opens a literal string and
// increments the nesting depth, suppressing delimiter detection; a ')'
// decrements it and closes the span once depth returns to zero. Outside
// any open literal string, a '/' (next key) or ">>" (end of dictionary)
// terminates the span. Parentheses are counted naively, without
// backslash-escape handling. A span that never closes extends to the
// end of the buffer.
func valueSpanEnd(data []byte, pos int) int {
	depth := 0
	for j := pos; j < len(data); j++ {
		switch data[j] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
				if depth == 0 {
					return j + 1
				}
			}
		case '/':
			if depth == 0 {
				return j
			}
		case '>':
			if depth == 0 && j+1 < len(data) && data[j+1] == '>' {
				return j
			}
		}
	}
	return len(data)
}

// spanExcerpt renders a value span for reporting: surrounding
// whitespace is trimmed and a fully parenthesized value loses its
// delimiters.
func spanExcerpt(span []byte) string {
	trimmed := bytes.TrimSpace(span)
	if len(trimmed) >= 2 && trimmed[0] == '(' && trimmed[len(trimmed)-1] == ')' {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	return string(trimmed)
}
