package validate

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/nao1215/pdfscrub/internal/model"
)

var _ Check = (*StructureCheck)(nil)

// StructureCheck measures whether a scrub damaged the document. It
// opens the candidate with both readers, walks every page, extracts
// text, and verifies font resources still resolve. Its issues are
// reported but never flip the metadata verdict.
type StructureCheck struct {
	backend docmodel.Backend
}

// NewStructureCheck creates the structural-integrity check.
func NewStructureCheck(backend docmodel.Backend) *StructureCheck {
	return &StructureCheck{backend: backend}
}

// Kind implements Check.
func (c *StructureCheck) Kind() model.CheckKind { return model.CheckStructure }

// Run implements Check. Unlike the metadata checks, errors here become
// issues rather than check failures: a candidate the readers reject is
// exactly what this check exists to report.
func (c *StructureCheck) Run(ctx context.Context, target *Target) (model.CheckResult, error) {
	var issues []string

	primaryPages := -1
	doc, err := c.backend.Open(target.Path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("primary reader: %v", err))
	} else {
		pages, err := doc.Pages()
		if err != nil {
			issues = append(issues, fmt.Sprintf("primary reader page walk: %v", err))
		} else {
			primaryPages = len(pages)
			if primaryPages == 0 {
				issues = append(issues, "primary reader: document has no pages")
			}
		}
		_ = doc.Close()
	}

	secondaryPages, secondaryIssues := c.inspectSecondary(target.Path)
	issues = append(issues, secondaryIssues...)

	if primaryPages >= 0 && secondaryPages >= 0 && primaryPages != secondaryPages {
		issues = append(issues, fmt.Sprintf(
			"readers disagree on page count: %d vs %d", primaryPages, secondaryPages))
	}

	return model.NewIssuesResult(issues), nil
}

// inspectSecondary walks the document with the independent reader:
// page readability, text extraction, and font resolution. It returns
// the page count it saw, or -1 when the document did not open.
func (c *StructureCheck) inspectSecondary(path string) (pages int, issues []string) {
	defer func() {
		if r := recover(); r != nil {
			pages = -1
			issues = append(issues, fmt.Sprintf("secondary reader panicked: %v", r))
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return -1, []string{fmt.Sprintf("secondary reader: %v", err)}
	}
	defer func() { _ = f.Close() }()

	total := reader.NumPage()
	if total == 0 {
		issues = append(issues, "secondary reader: document has no pages")
	}

	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			issues = append(issues, fmt.Sprintf("page %d unreadable", i))
			continue
		}
		if _, err := page.GetPlainText(nil); err != nil {
			issues = append(issues, fmt.Sprintf("page %d text extraction: %v", i, err))
		}
		issues = append(issues, pageFontIssues(page, i)...)
	}

	return total, issues
}

// pageFontIssues verifies every font resource on a page still carries a
// BaseFont. Scrubbing replaces attribution values but must never drop
// the key entirely, or viewers lose the glyph mapping.
func pageFontIssues(page pdf.Page, nr int) []string {
	fonts := page.V.Key("Resources").Key("Font")
	if fonts.IsNull() {
		return nil
	}

	var issues []string
	for _, name := range fonts.Keys() {
		if fonts.Key(name).Key("BaseFont").IsNull() {
			issues = append(issues, fmt.Sprintf("page %d font %s: missing BaseFont", nr, name))
		}
	}
	return issues
}
