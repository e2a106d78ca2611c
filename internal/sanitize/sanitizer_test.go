package sanitize

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/nao1215/pdfscrub/internal/docmodel/memdoc"
)

// fixtureDocument builds a document dirty in every location the
// sanitizer covers.
func fixtureDocument(t *testing.T) (*memdoc.Backend, *memdoc.Document) {
	t.Helper()

	backend := memdoc.NewBackend()
	doc := memdoc.New(backend)
	doc.SetInfo("Producer", "Adobe Acrobat 9.0")
	doc.SetInfo("Author", "Jane Doe")
	doc.SetInfo("CreationDate", "D:20240101120000Z")
	doc.SetXMP("pdf:Producer", "Adobe PDF Library 15.0")

	root, err := doc.Root()
	if err != nil {
		t.Fatalf("Root() error = %v", err)
	}
	if err := root.SetName("AcroForm", "9 0 R"); err != nil {
		t.Fatalf("SetName(AcroForm) error = %v", err)
	}
	if err := root.SetName("Outlines", "10 0 R"); err != nil {
		t.Fatalf("SetName(Outlines) error = %v", err)
	}
	if err := root.SetName("JavaScript", "11 0 R"); err != nil {
		t.Fatalf("SetName(JavaScript) error = %v", err)
	}
	if err := root.SetName("RichMedia", "12 0 R"); err != nil {
		t.Fatalf("SetName(RichMedia) error = %v", err)
	}
	names := memdoc.NewDict()
	_ = names.SetName("JavaScript", "13 0 R")
	_ = names.SetName("EmbeddedFiles", "14 0 R")
	root.(*memdoc.Dict).SetDict("Names", names)

	page := doc.AddPage()
	_ = page.SetString("PieceInfo", "indesign history")
	_ = page.SetString("LastModified", "D:20240101120000Z")

	note := memdoc.NewDict()
	_ = note.SetName("Subtype", "Text")
	_ = note.SetString("T", "Jane Doe")
	_ = note.SetString("Contents", "internal review note")
	link := memdoc.NewDict()
	_ = link.SetName("Subtype", "Link")
	_ = link.SetString("NM", "tracking-id-42")
	if err := page.SetDictArray("Annots", []docmodel.Dict{note, link}); err != nil {
		t.Fatalf("SetDictArray(Annots) error = %v", err)
	}

	font := memdoc.NewDict()
	_ = font.SetName("BaseFont", "Helvetica-Bold")
	descriptor := memdoc.NewDict()
	_ = descriptor.SetName("FontName", "AAAAAA+TimesNewRomanPSMT")
	font.SetDict("FontDescriptor", descriptor)
	fonts := memdoc.NewDict()
	fonts.SetDict("F1", font)
	resources := memdoc.NewDict()
	resources.SetDict("Font", fonts)
	page.SetDict("Resources", resources)

	return backend, doc
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSanitizerSanitizeDocument(t *testing.T) {
	t.Parallel()

	t.Run("removes metadata from every location", func(t *testing.T) {
		t.Parallel()

		_, doc := fixtureDocument(t)
		s := NewSanitizer(WithLogger(quietLogger()))

		result, err := s.SanitizeDocument(doc)
		if err != nil {
			t.Fatalf("SanitizeDocument() error = %v", err)
		}
		if result.ChangedFields == 0 {
			t.Error("ChangedFields = 0, want > 0")
		}
		if result.SkippedFields != 0 {
			t.Errorf("SkippedFields = %d, want 0", result.SkippedFields)
		}

		info, _ := doc.Info()
		if got := len(info.Keys()); got != 0 {
			t.Errorf("info keys after pass = %d, want 0", got)
		}
		if _, err := doc.XMP(); err == nil {
			t.Error("XMP packet survived the pass")
		}

		root, _ := doc.Root()
		if root.Has("AcroForm") || root.Has("Outlines") {
			t.Error("catalog danger keys survived the pass")
		}
		if root.Has("JavaScript") || root.Has("RichMedia") {
			t.Error("root danger-list entries survived the pass")
		}
		names, ok := root.Dict("Names")
		if !ok {
			t.Fatal("Names table was removed instead of cleaned")
		}
		if names.Has("JavaScript") || names.Has("EmbeddedFiles") {
			t.Error("danger-list mirrors in the Names table survived the pass")
		}

		trailer, _ := doc.Trailer()
		if trailer.Has("Info") {
			t.Error("trailer Info reference survived the pass")
		}

		pages, _ := doc.Pages()
		page := pages[0]
		if page.Has("PieceInfo") || page.Has("LastModified") {
			t.Error("page danger keys survived the pass")
		}

		annots, _ := page.DictArray("Annots")
		if len(annots) != 1 {
			t.Fatalf("len(annots) = %d, want 1 (link removed)", len(annots))
		}
		if subtype, _ := annots[0].String("Subtype"); subtype != "Text" {
			t.Errorf("surviving annotation subtype = %q, want Text", subtype)
		}
		if annots[0].Has("T") || annots[0].Has("Contents") {
			t.Error("annotation metadata fields survived the pass")
		}

		resources, _ := page.Dict("Resources")
		fonts, _ := resources.Dict("Font")
		font, _ := fonts.Dict("F1")
		if base, _ := font.String("BaseFont"); base != FontPlaceholder {
			t.Errorf("BaseFont = %q, want placeholder %q", base, FontPlaceholder)
		}
		descriptor, _ := font.Dict("FontDescriptor")
		if name, _ := descriptor.String("FontName"); name != FontPlaceholder {
			t.Errorf("FontName = %q, want placeholder %q", name, FontPlaceholder)
		}
	})

	t.Run("second pass changes nothing", func(t *testing.T) {
		t.Parallel()

		_, doc := fixtureDocument(t)
		s := NewSanitizer(WithLogger(quietLogger()))

		if _, err := s.SanitizeDocument(doc); err != nil {
			t.Fatalf("first pass error = %v", err)
		}
		result, err := s.SanitizeDocument(doc)
		if err != nil {
			t.Fatalf("second pass error = %v", err)
		}
		if result.ChangedFields != 0 {
			t.Errorf("second pass ChangedFields = %d, want 0", result.ChangedFields)
		}
	})

	t.Run("read-only field is skipped and counted", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		doc := memdoc.New(backend)
		doc.SetInfo("Producer", "Adobe Acrobat 9.0")
		doc.SetInfo("Author", "Jane Doe")
		info, _ := doc.Info()
		info.(*memdoc.Dict).MarkReadOnly("Producer")

		s := NewSanitizer(WithLogger(quietLogger()))
		result, err := s.SanitizeDocument(doc)
		if err != nil {
			t.Fatalf("SanitizeDocument() error = %v", err)
		}
		if result.SkippedFields == 0 {
			t.Error("SkippedFields = 0, want > 0 for a read-only field")
		}
		if !info.Has("Producer") {
			t.Error("read-only field was removed")
		}
		if info.Has("Author") {
			t.Error("mutable field survived despite a skipped sibling")
		}
	})

	t.Run("generic font names are left alone", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		doc := memdoc.New(backend)
		page := doc.AddPage()
		font := memdoc.NewDict()
		_ = font.SetName("BaseFont", "CustomHouseFont")
		fonts := memdoc.NewDict()
		fonts.SetDict("F1", font)
		resources := memdoc.NewDict()
		resources.SetDict("Font", fonts)
		page.SetDict("Resources", resources)

		s := NewSanitizer(WithLogger(quietLogger()))
		if _, err := s.SanitizeDocument(doc); err != nil {
			t.Fatalf("SanitizeDocument() error = %v", err)
		}
		if base, _ := font.String("BaseFont"); base != "CustomHouseFont" {
			t.Errorf("non-vendor font renamed to %q", base)
		}
	})

	t.Run("annotation array is dropped when nothing survives", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		doc := memdoc.New(backend)
		page := doc.AddPage()
		link := memdoc.NewDict()
		_ = link.SetName("Subtype", "Link")
		widget := memdoc.NewDict()
		_ = widget.SetName("Subtype", "Widget")
		if err := page.SetDictArray("Annots", []docmodel.Dict{link, widget}); err != nil {
			t.Fatalf("SetDictArray(Annots) error = %v", err)
		}

		s := NewSanitizer(WithLogger(quietLogger()))
		if _, err := s.SanitizeDocument(doc); err != nil {
			t.Fatalf("SanitizeDocument() error = %v", err)
		}
		if page.Has("Annots") {
			t.Error("empty annotation array left behind instead of deleted")
		}
	})

	t.Run("matched free-text font fields are deleted", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		doc := memdoc.New(backend)
		page := doc.AddPage()
		font := memdoc.NewDict()
		_ = font.SetName("BaseFont", "Helvetica-Bold")
		_ = font.SetString("FontFamily", "Times New Roman")
		_ = font.SetString("FontStretch", "AdobeCondensed")
		_ = font.SetString("FontWeight", "adobe-regular-400")
		fonts := memdoc.NewDict()
		fonts.SetDict("F1", font)
		resources := memdoc.NewDict()
		resources.SetDict("Font", fonts)
		page.SetDict("Resources", resources)

		s := NewSanitizer(WithLogger(quietLogger()))
		if _, err := s.SanitizeDocument(doc); err != nil {
			t.Fatalf("SanitizeDocument() error = %v", err)
		}
		if base, _ := font.String("BaseFont"); base != FontPlaceholder {
			t.Errorf("BaseFont = %q, want placeholder %q", base, FontPlaceholder)
		}
		if family, _ := font.String("FontFamily"); family != FontPlaceholder {
			t.Errorf("FontFamily = %q, want placeholder %q", family, FontPlaceholder)
		}
		if font.Has("FontStretch") || font.Has("FontWeight") {
			t.Error("matched free-text attribution fields survived the pass")
		}
	})
}

func TestSanitizerPostSavePass(t *testing.T) {
	t.Parallel()

	t.Run("blanks vendor tokens in place", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "candidate.pdf")
		content := []byte("%PDF-1.7\n/Producer (Adobe Acrobat 9.0)\nmade with Adobe tooling\n%%EOF")
		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		s := NewSanitizer(WithLogger(quietLogger()))
		changed, err := s.PostSavePass(path)
		if err != nil {
			t.Fatalf("PostSavePass() error = %v", err)
		}
		if !changed {
			t.Fatal("PostSavePass() reported no change")
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if len(got) != len(content) {
			t.Errorf("file length changed from %d to %d", len(content), len(got))
		}
		if bytes.Contains(got, []byte("Adobe")) || bytes.Contains(got, []byte("Acrobat")) {
			t.Errorf("vendor tokens survived: %q", got)
		}
		if !bytes.Contains(got, []byte("9.0")) {
			t.Errorf("non-vendor value content was destroyed: %q", got)
		}
	})

	t.Run("non-vendor producer values survive", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "candidate.pdf")
		content := []byte("%PDF-1.7\n/Producer (Acme Writer 2.1)\n%%EOF")
		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		s := NewSanitizer(WithLogger(quietLogger()))
		changed, err := s.PostSavePass(path)
		if err != nil {
			t.Fatalf("PostSavePass() error = %v", err)
		}
		if changed {
			t.Error("PostSavePass() reported a change for vendor-free content")
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if !bytes.Contains(got, []byte("Acme Writer 2.1")) {
			t.Errorf("non-vendor producer value was destroyed: %q", got)
		}
	})

	t.Run("clean file is left untouched", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "clean.pdf")
		content := []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF")
		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		s := NewSanitizer(WithLogger(quietLogger()))
		changed, err := s.PostSavePass(path)
		if err != nil {
			t.Fatalf("PostSavePass() error = %v", err)
		}
		if changed {
			t.Error("PostSavePass() reported a change for a clean file")
		}
	})

	t.Run("missing file returns an error", func(t *testing.T) {
		t.Parallel()

		s := NewSanitizer(WithLogger(quietLogger()))
		if _, err := s.PostSavePass(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
			t.Error("PostSavePass() error = nil, want error")
		}
	})
}
