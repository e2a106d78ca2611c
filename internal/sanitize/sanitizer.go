package sanitize

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/nao1215/pdfscrub/internal/signature"
)

// Result accumulates the outcome of a sanitization pass.
type Result struct {
	// ChangedFields counts fields deleted or replaced.
	ChangedFields int

	// SkippedFields counts fields that could not be mutated and were
	// left in place. A non-zero count means the candidate may still
	// carry metadata; the forensic validator has the final word.
	SkippedFields int
}

func (r *Result) merge(other Result) {
	r.ChangedFields += other.ChangedFields
	r.SkippedFields += other.SkippedFields
}

// Sanitizer strips identifying metadata from a document's object graph
// and from written file bytes.
type Sanitizer struct {
	logger          *slog.Logger
	scanner         *signature.Scanner
	safeSubtypes    map[string]bool
	stripKeys       []string
	fontKeys        []string
	placeholderKeys map[string]bool
	vendorTerms     []string
	pageKeys        []string
	catalogKeys     []string
	rootDangerKeys  []string
	deleteKeys      []string
	placeholder     string
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithLogger sets the logger used for per-field skip reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sanitizer) {
		s.logger = logger
	}
}

// WithVendorTerms overrides the font vendor terms.
func WithVendorTerms(terms []string) Option {
	return func(s *Sanitizer) {
		s.vendorTerms = terms
	}
}

// WithSafeSubtypes overrides the annotation subtypes kept after
// sanitization.
func WithSafeSubtypes(subtypes []string) Option {
	return func(s *Sanitizer) {
		s.safeSubtypes = make(map[string]bool, len(subtypes))
		for _, st := range subtypes {
			s.safeSubtypes[st] = true
		}
	}
}

// NewSanitizer creates a Sanitizer with the canonical key lists, then
// applies the given options.
func NewSanitizer(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		logger:         slog.Default(),
		scanner:        signature.NewScanner(),
		stripKeys:      AnnotationStripKeys,
		fontKeys:       FontAttributionKeys,
		vendorTerms:    FontVendorTerms,
		pageKeys:       PageDangerKeys,
		catalogKeys:    CatalogDangerKeys,
		rootDangerKeys: RootDangerKeys,
		deleteKeys:     UnconditionalDeleteKeys,
		placeholder:    FontPlaceholder,
	}
	s.safeSubtypes = make(map[string]bool, len(AnnotationSafeSubtypes))
	for _, st := range AnnotationSafeSubtypes {
		s.safeSubtypes[st] = true
	}
	s.placeholderKeys = make(map[string]bool, len(FontPlaceholderKeys))
	for _, key := range FontPlaceholderKeys {
		s.placeholderKeys[key] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SanitizeDocument runs every in-graph operation against the document:
// info dictionary, XMP packet, catalog, trailer, page keys, annotations,
// and fonts. The document is mutated in place; the caller saves it.
func (s *Sanitizer) SanitizeDocument(doc docmodel.Document) (Result, error) {
	var result Result

	r, err := s.clearInfo(doc)
	if err != nil {
		return result, err
	}
	result.merge(r)

	if _, xmpErr := doc.XMP(); xmpErr == nil {
		if err := doc.DeleteXMP(); err != nil {
			s.logger.Debug("xmp removal skipped", "error", err)
			result.SkippedFields++
		} else {
			result.ChangedFields++
		}
	}

	r, err = s.cleanCatalog(doc)
	if err != nil {
		return result, err
	}
	result.merge(r)

	result.merge(s.severTrailerInfo(doc))

	r, err = s.sanitizePages(doc)
	if err != nil {
		return result, err
	}
	result.merge(r)

	return result, nil
}

// clearInfo deletes every entry of the document-info dictionary,
// unconditional keys first.
func (s *Sanitizer) clearInfo(doc docmodel.Document) (Result, error) {
	var result Result
	info, err := doc.Info()
	if err != nil {
		return result, fmt.Errorf("%w: info dictionary: %v", ErrSanitizationFailed, err)
	}

	for _, key := range s.deleteKeys {
		if info.Has(key) {
			result.merge(s.deleteField(info, key, "info"))
		}
	}
	for _, key := range info.Keys() {
		result.merge(s.deleteField(info, key, "info"))
	}
	return result, nil
}

// cleanCatalog removes metadata-bearing keys and danger-listed
// substructures from the document catalog, including their mirrors in
// the catalog's Names table.
func (s *Sanitizer) cleanCatalog(doc docmodel.Document) (Result, error) {
	var result Result
	root, err := doc.Root()
	if err != nil {
		return result, fmt.Errorf("%w: catalog: %v", ErrSanitizationFailed, err)
	}

	for _, key := range s.catalogKeys {
		if root.Has(key) {
			result.merge(s.deleteField(root, key, "catalog"))
		}
	}
	for _, key := range s.rootDangerKeys {
		if root.Has(key) {
			result.merge(s.deleteField(root, key, "catalog"))
		}
	}
	if names, ok := root.Dict("Names"); ok {
		for _, key := range s.rootDangerKeys {
			if names.Has(key) {
				result.merge(s.deleteField(names, key, "names"))
			}
		}
	}
	return result, nil
}

// severTrailerInfo drops the trailer's reference to the info
// dictionary so even an unclearable info object becomes unreachable.
func (s *Sanitizer) severTrailerInfo(doc docmodel.Document) Result {
	var result Result
	trailer, err := doc.Trailer()
	if err != nil {
		s.logger.Debug("trailer unavailable", "error", err)
		result.SkippedFields++
		return result
	}
	if trailer.Has("Info") {
		result.merge(s.deleteField(trailer, "Info", "trailer"))
	}
	return result
}

// sanitizePages walks every page: danger keys, annotations, fonts.
func (s *Sanitizer) sanitizePages(doc docmodel.Document) (Result, error) {
	var result Result
	pages, err := doc.Pages()
	if err != nil {
		return result, fmt.Errorf("%w: page tree: %v", ErrSanitizationFailed, err)
	}

	for _, page := range pages {
		for _, key := range s.pageKeys {
			if page.Has(key) {
				result.merge(s.deleteField(page, key, "page"))
			}
		}
		result.merge(s.sanitizeAnnotations(page))
		result.merge(s.sanitizeFonts(page))
	}
	return result, nil
}

// sanitizeAnnotations filters a page's annotation array down to safe
// subtypes and strips metadata fields from the survivors.
func (s *Sanitizer) sanitizeAnnotations(page docmodel.Dict) Result {
	var result Result
	annots, ok := page.DictArray("Annots")
	if !ok {
		return result
	}

	kept := make([]docmodel.Dict, 0, len(annots))
	for _, annot := range annots {
		subtype, _ := annot.String("Subtype")
		if !s.safeSubtypes[subtype] {
			result.ChangedFields++
			continue
		}
		for _, key := range s.stripKeys {
			if annot.Has(key) {
				result.merge(s.deleteField(annot, key, "annotation"))
			}
		}
		kept = append(kept, annot)
	}

	if len(kept) == 0 {
		result.merge(s.deleteField(page, "Annots", "page"))
		return result
	}
	if err := page.SetDictArray("Annots", kept); err != nil {
		s.logger.Debug("annotation array not replaceable", "error", err)
		result.SkippedFields++
	}
	return result
}

// sanitizeFonts replaces identifying attribution values on a page's
// font resources and their descriptors.
func (s *Sanitizer) sanitizeFonts(page docmodel.Dict) Result {
	var result Result
	resources, ok := page.Dict("Resources")
	if !ok {
		return result
	}
	fonts, ok := resources.Dict("Font")
	if !ok {
		return result
	}

	for _, name := range fonts.Keys() {
		font, ok := fonts.Dict(name)
		if !ok {
			continue
		}
		result.merge(s.scrubFontDict(font))
		if descriptor, ok := font.Dict("FontDescriptor"); ok {
			result.merge(s.scrubFontDict(descriptor))
		}
	}
	return result
}

// scrubFontDict handles vendor-identifying attribution values:
// name-typed fields get the generic placeholder, free-text fields are
// deleted outright, and unconditional keys are deleted regardless of
// content.
func (s *Sanitizer) scrubFontDict(font docmodel.Dict) Result {
	var result Result
	for _, key := range s.fontKeys {
		val, ok := font.String(key)
		if !ok {
			continue
		}
		if s.isPlaceholder(val) || !s.identifying(val) {
			continue
		}
		if !s.placeholderKeys[key] {
			result.merge(s.deleteField(font, key, "font"))
			continue
		}
		if err := font.SetName(key, s.placeholder); err != nil {
			s.logger.Debug("font field not replaceable", "key", key, "error", err)
			result.SkippedFields++
			continue
		}
		result.ChangedFields++
	}
	for _, key := range s.deleteKeys {
		if font.Has(key) {
			result.merge(s.deleteField(font, key, "font"))
		}
	}
	return result
}

// PostSavePass blanks vendor tokens left in the written file's raw
// bytes, both inside metadata value spans and anywhere else. The
// rewrite is length-preserving, so cross-reference offsets stay valid.
func (s *Sanitizer) PostSavePass(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", ErrSanitizationFailed, path, err)
	}

	changed := s.scanner.ScrubScoped(data)
	if s.scanner.ScrubTokens(data, signature.PostSaveTokens) {
		changed = true
	}
	if !changed {
		return false, nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("%w: write %s: %v", ErrSanitizationFailed, path, err)
	}
	return true, nil
}

// deleteField deletes one key, downgrading failure to a counted skip.
func (s *Sanitizer) deleteField(d docmodel.Dict, key, where string) Result {
	if err := d.Delete(key); err != nil {
		s.logger.Debug("field not deletable", "where", where, "key", key, "error", err)
		return Result{SkippedFields: 1}
	}
	return Result{ChangedFields: 1}
}

// isPlaceholder reports whether a font value is already generic.
func (s *Sanitizer) isPlaceholder(val string) bool {
	return val == s.placeholder || val == "F"
}

// identifying reports whether a font value names a vendor or licensed
// typeface.
func (s *Sanitizer) identifying(val string) bool {
	lower := strings.ToLower(val)
	for _, term := range s.vendorTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
