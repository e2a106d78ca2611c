package validate

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/nao1215/pdfscrub/internal/model"
)

// CrossReaderCheck reads the trailer's info dictionary and the
// catalog's metadata reference through a second, independent parser.
// Two readers with separate traversal code rarely share blind spots: a
// leak the primary reader's object walk misses still shows up here.
type CrossReaderCheck struct{}

// NewCrossReaderCheck creates the independent-reader check.
func NewCrossReaderCheck() *CrossReaderCheck {
	return &CrossReaderCheck{}
}

// Kind implements Check.
func (c *CrossReaderCheck) Kind() model.CheckKind { return model.CheckCrossReader }

// Run implements Check. The underlying parser panics on some malformed
// files; a panic is converted to a check error so the validator fails
// it closed instead of crashing.
func (c *CrossReaderCheck) Run(ctx context.Context, target *Target) (result model.CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cross reader panicked: %v", r)
		}
	}()

	f, reader, err := pdf.Open(target.Path)
	if err != nil {
		return model.CheckResult{}, fmt.Errorf("cross reader: %w", err)
	}
	defer func() { _ = f.Close() }()

	var findings []model.Finding

	trailer := reader.Trailer()
	info := trailer.Key("Info")
	if !info.IsNull() {
		for _, key := range info.Keys() {
			findings = append(findings, model.NewFinding(
				model.LocationDocInfo, key, decodeText(valueText(info.Key(key)))))
		}
	}

	if !trailer.Key("Root").Key("Metadata").IsNull() {
		findings = append(findings, model.NewFinding(
			model.LocationXMP, "Metadata", ""))
	}

	return model.NewFindingsResult(c.Kind(), findings), nil
}

// valueText renders a trailer value for an excerpt. String values
// decode to text; everything else falls back to PDF syntax.
func valueText(v pdf.Value) string {
	if v.Kind() == pdf.String {
		return v.Text()
	}
	return v.String()
}
