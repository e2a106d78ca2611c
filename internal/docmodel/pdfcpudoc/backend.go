package pdfcpudoc

import (
	"fmt"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Backend opens and rewrites documents with the pdfcpu engine.
type Backend struct {
	conf *model.Configuration
}

// NewBackend creates a Backend with relaxed validation.
func NewBackend() *Backend {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Backend{conf: conf}
}

// Open parses the file at path into a mutable document session.
func (b *Backend) Open(path string) (docmodel.Document, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", docmodel.ErrParse, path, err)
	}
	return &Document{ctx: ctx}, nil
}

// Rebuild writes a brand-new file containing the input's page graph.
// Merging a single input into a fresh file discards the original
// trailer, cross-reference table, and every orphaned object.
func (b *Backend) Rebuild(input, output string) error {
	if err := api.MergeCreateFile([]string{input}, output, false, b.conf); err != nil {
		return fmt.Errorf("%w: rebuild %s: %v", docmodel.ErrWrite, input, err)
	}
	return nil
}

// RewritePages copies every page of input into a fresh writer. The
// writer may stamp its own producer line, so callers validate the
// output rather than trusting it.
func (b *Backend) RewritePages(input, output string) error {
	if err := api.TrimFile(input, output, []string{"1-"}, b.conf); err != nil {
		return fmt.Errorf("%w: rewrite %s: %v", docmodel.ErrWrite, input, err)
	}
	return nil
}
