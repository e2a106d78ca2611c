package validate

import (
	"bytes"
	"context"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/nao1215/pdfscrub/internal/entropy"
	"github.com/nao1215/pdfscrub/internal/model"
	"github.com/nao1215/pdfscrub/internal/sanitize"
	"github.com/nao1215/pdfscrub/internal/signature"

	exif "github.com/dsoprea/go-exif/v3"
)

// maxExifFindings bounds the EXIF tags reported per embedded image.
// One tag proves the leak; the full dump belongs in a debugger, not a
// report.
const maxExifFindings = 5

// DocInfoCheck reads the info dictionary and XMP packet through the
// primary document model.
type DocInfoCheck struct {
	backend docmodel.Backend
}

// NewDocInfoCheck creates the primary-reader metadata check.
func NewDocInfoCheck(backend docmodel.Backend) *DocInfoCheck {
	return &DocInfoCheck{backend: backend}
}

// Kind implements Check.
func (c *DocInfoCheck) Kind() model.CheckKind { return model.CheckDocInfo }

// Run implements Check.
func (c *DocInfoCheck) Run(ctx context.Context, target *Target) (model.CheckResult, error) {
	doc, err := c.backend.Open(target.Path)
	if err != nil {
		return model.CheckResult{}, err
	}
	defer func() { _ = doc.Close() }()

	var findings []model.Finding

	info, err := doc.Info()
	if err != nil {
		return model.CheckResult{}, err
	}
	for _, key := range info.Keys() {
		val, _ := info.String(key)
		findings = append(findings, model.NewFinding(
			model.LocationDocInfo, key, decodeText(val)))
	}

	if xmp, err := doc.XMP(); err == nil {
		for _, key := range xmp.Keys() {
			val, _ := xmp.String(key)
			findings = append(findings, model.NewFinding(
				model.LocationXMP, key, decodeText(val)))
		}
	}

	return model.NewFindingsResult(c.Kind(), findings), nil
}

// BinaryPatternsCheck searches the raw bytes for metadata key tokens
// and XMP markers.
type BinaryPatternsCheck struct {
	scanner *signature.Scanner
}

// NewBinaryPatternsCheck creates the raw-byte pattern check.
func NewBinaryPatternsCheck() *BinaryPatternsCheck {
	return &BinaryPatternsCheck{scanner: signature.NewScanner()}
}

// Kind implements Check.
func (c *BinaryPatternsCheck) Kind() model.CheckKind { return model.CheckBinaryPatterns }

// Run implements Check.
func (c *BinaryPatternsCheck) Run(ctx context.Context, target *Target) (model.CheckResult, error) {
	return model.NewFindingsResult(c.Kind(), c.scanner.Detect(target.Data)), nil
}

// EntropyCheck sweeps every readable object for anomalously random
// content.
type EntropyCheck struct {
	backend  docmodel.Backend
	analyzer *entropy.Analyzer
}

// NewEntropyCheck creates the entropy sweep with the given analyzer
// options.
func NewEntropyCheck(backend docmodel.Backend, opts ...entropy.Option) *EntropyCheck {
	return &EntropyCheck{
		backend:  backend,
		analyzer: entropy.NewAnalyzer(opts...),
	}
}

// Kind implements Check.
func (c *EntropyCheck) Kind() model.CheckKind { return model.CheckEntropy }

// Run implements Check.
func (c *EntropyCheck) Run(ctx context.Context, target *Target) (model.CheckResult, error) {
	doc, err := c.backend.Open(target.Path)
	if err != nil {
		return model.CheckResult{}, err
	}
	defer func() { _ = doc.Close() }()

	objects, err := doc.Objects()
	if err != nil {
		return model.CheckResult{}, err
	}

	var reports []model.EntropyReport
	for _, obj := range objects {
		data, ok := obj.RawBytes()
		if !ok {
			// Undecodable content cannot be measured; skipping it
			// avoids flagging every compressed stream we failed to
			// inflate.
			continue
		}
		if report, flagged := c.analyzer.Inspect(obj.ID(), data); flagged {
			reports = append(reports, report)
		}
	}
	return model.NewEntropyResult(reports), nil
}

// AdvancedCheck inspects metadata locations beyond the info dictionary:
// page-level keys, annotation fields, font attribution, embedded-image
// EXIF, and the canonical vendor byte token.
type AdvancedCheck struct {
	backend docmodel.Backend
}

// NewAdvancedCheck creates the deep-location check.
func NewAdvancedCheck(backend docmodel.Backend) *AdvancedCheck {
	return &AdvancedCheck{backend: backend}
}

// Kind implements Check.
func (c *AdvancedCheck) Kind() model.CheckKind { return model.CheckAdvanced }

// Run implements Check.
func (c *AdvancedCheck) Run(ctx context.Context, target *Target) (model.CheckResult, error) {
	doc, err := c.backend.Open(target.Path)
	if err != nil {
		return model.CheckResult{}, err
	}
	defer func() { _ = doc.Close() }()

	var findings []model.Finding

	pages, err := doc.Pages()
	if err != nil {
		return model.CheckResult{}, err
	}
	for _, page := range pages {
		findings = append(findings, c.inspectPageKeys(page)...)
		findings = append(findings, c.inspectAnnotations(page)...)
		findings = append(findings, c.inspectFonts(page)...)
	}

	findings = append(findings, c.inspectEmbeddedImages(doc)...)

	if bytes.Contains(target.Data, []byte("Adobe")) {
		findings = append(findings, model.NewFinding(
			model.LocationBinarySignature, "Adobe", ""))
	}

	return model.NewFindingsResult(c.Kind(), findings), nil
}

// inspectPageKeys reports page-level danger keys still present.
func (c *AdvancedCheck) inspectPageKeys(page docmodel.Dict) []model.Finding {
	var findings []model.Finding
	for _, key := range sanitize.PageDangerKeys {
		if !page.Has(key) {
			continue
		}
		val, _ := page.String(key)
		findings = append(findings, model.NewFinding(
			model.LocationPageMetadata, key, decodeText(val)))
	}
	return findings
}

// inspectAnnotations reports metadata fields surviving on annotations.
func (c *AdvancedCheck) inspectAnnotations(page docmodel.Dict) []model.Finding {
	annots, ok := page.DictArray("Annots")
	if !ok {
		return nil
	}

	var findings []model.Finding
	for _, annot := range annots {
		for _, key := range annotationMetadataKeys {
			if !annot.Has(key) {
				continue
			}
			val, _ := annot.String(key)
			findings = append(findings, model.NewFinding(
				model.LocationAnnotation, key, decodeText(val)))
		}
	}
	return findings
}

// annotationMetadataKeys extends the sanitizer's strip list with the
// interaction fields some writers use to smuggle tool state.
var annotationMetadataKeys = append(append([]string{}, sanitize.AnnotationStripKeys...), "IT", "ExData")

// inspectFonts reports vendor-identifying font attribution. Generic
// placeholder values are ignored: they are what a scrub leaves behind.
func (c *AdvancedCheck) inspectFonts(page docmodel.Dict) []model.Finding {
	resources, ok := page.Dict("Resources")
	if !ok {
		return nil
	}
	fonts, ok := resources.Dict("Font")
	if !ok {
		return nil
	}

	var findings []model.Finding
	for _, name := range fonts.Keys() {
		font, ok := fonts.Dict(name)
		if !ok {
			continue
		}
		findings = append(findings, fontFindings(font, model.LocationFont)...)
		if descriptor, ok := font.Dict("FontDescriptor"); ok {
			findings = append(findings, fontFindings(descriptor, model.LocationFontDescriptor)...)
		}
	}
	return findings
}

// fontFindings reports identifying attribution values on one font dict.
func fontFindings(font docmodel.Dict, loc model.Location) []model.Finding {
	var findings []model.Finding
	for _, key := range sanitize.FontAttributionKeys {
		val, ok := font.String(key)
		if !ok || val == sanitize.FontPlaceholder || val == "F" {
			continue
		}
		if !vendorIdentifying(val) {
			continue
		}
		findings = append(findings, model.NewFinding(loc, key, val))
	}
	return findings
}

// vendorIdentifying reports whether a font value names a vendor term.
func vendorIdentifying(val string) bool {
	lower := bytes.ToLower([]byte(val))
	for _, term := range sanitize.FontVendorTerms {
		if bytes.Contains(lower, []byte(term)) {
			return true
		}
	}
	return false
}

// inspectEmbeddedImages extracts EXIF metadata from readable objects.
// Camera make, GPS coordinates, and capture timestamps inside an
// embedded photo identify the author as surely as the info dictionary.
func (c *AdvancedCheck) inspectEmbeddedImages(doc docmodel.Document) []model.Finding {
	objects, err := doc.Objects()
	if err != nil {
		return nil
	}

	var findings []model.Finding
	for _, obj := range objects {
		data, ok := obj.RawBytes()
		if !ok {
			continue
		}
		rawExif, err := exif.SearchAndExtractExif(data)
		if err != nil {
			continue
		}
		entries, _, err := exif.GetFlatExifData(rawExif, nil)
		if err != nil {
			continue
		}
		for i, entry := range entries {
			if i >= maxExifFindings {
				break
			}
			findings = append(findings, model.NewFinding(
				model.LocationEmbeddedImage,
				obj.ID()+" "+entry.TagName,
				entry.Formatted))
		}
	}
	return findings
}
