package model

import (
	"strings"
	"testing"
)

func TestNewFinding(t *testing.T) {
	t.Parallel()

	t.Run("short value is kept verbatim", func(t *testing.T) {
		t.Parallel()

		f := NewFinding(LocationDocInfo, "Producer", "Adobe Acrobat 9.0")
		if f.Key != "Producer" {
			t.Errorf("Key = %q, want %q", f.Key, "Producer")
		}
		if f.ValueExcerpt != "Adobe Acrobat 9.0" {
			t.Errorf("ValueExcerpt = %q, want %q", f.ValueExcerpt, "Adobe Acrobat 9.0")
		}
		if f.LocationText != "doc_info" {
			t.Errorf("LocationText = %q, want %q", f.LocationText, "doc_info")
		}
	})

	t.Run("long value is truncated to 50 runes", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 200)
		f := NewFinding(LocationXMP, "dc:creator", long)
		if got := len([]rune(f.ValueExcerpt)); got != 50 {
			t.Errorf("excerpt length = %d runes, want 50", got)
		}
	})

	t.Run("multibyte value is not split mid rune", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("日本語", 30)
		f := NewFinding(LocationAnnotation, "T", long)
		if got := len([]rune(f.ValueExcerpt)); got != 50 {
			t.Errorf("excerpt length = %d runes, want 50", got)
		}
		if !strings.HasPrefix(long, f.ValueExcerpt) {
			t.Error("excerpt is not a prefix of the original value")
		}
	})
}

func TestLocationString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		loc  Location
		want string
	}{
		{LocationDocInfo, "doc_info"},
		{LocationXMP, "xmp"},
		{LocationPageMetadata, "page_metadata"},
		{LocationAnnotation, "annotation"},
		{LocationFont, "font"},
		{LocationFontDescriptor, "font_descriptor"},
		{LocationBinarySignature, "binary_signature"},
		{LocationEmbeddedImage, "embedded_image"},
		{Location(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("Location(%d).String() = %q, want %q", tt.loc, got, tt.want)
		}
	}
}

func TestCheckKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind CheckKind
		want string
	}{
		{CheckDocInfo, "doc_info"},
		{CheckCrossReader, "cross_reader"},
		{CheckBinaryPatterns, "binary_patterns"},
		{CheckEntropy, "entropy"},
		{CheckAdvanced, "advanced_locations"},
		{CheckStructure, "structure"},
		{CheckKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("CheckKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestCheckResultConstructors(t *testing.T) {
	t.Parallel()

	t.Run("findings result sets Found only when non-empty", func(t *testing.T) {
		t.Parallel()

		empty := NewFindingsResult(CheckDocInfo, nil)
		if empty.Found {
			t.Error("Found = true for empty findings, want false")
		}

		full := NewFindingsResult(CheckDocInfo, []Finding{
			NewFinding(LocationDocInfo, "Author", "Jane Doe"),
		})
		if !full.Found {
			t.Error("Found = false for non-empty findings, want true")
		}
		if full.DetailCount() != 1 {
			t.Errorf("DetailCount() = %d, want 1", full.DetailCount())
		}
	})

	t.Run("entropy result sets Found only when non-empty", func(t *testing.T) {
		t.Parallel()

		empty := NewEntropyResult(nil)
		if empty.Found {
			t.Error("Found = true for empty reports, want false")
		}

		full := NewEntropyResult([]EntropyReport{
			{ObjectID: "12 0", Entropy: 7.9, ByteLength: 4096},
		})
		if !full.Found {
			t.Error("Found = false for non-empty reports, want true")
		}
	})

	t.Run("issues result sets Found only when non-empty", func(t *testing.T) {
		t.Parallel()

		empty := NewIssuesResult(nil)
		if empty.Found {
			t.Error("Found = true for empty issues, want false")
		}

		full := NewIssuesResult([]string{"page 3 unreadable"})
		if !full.Found {
			t.Error("Found = false for non-empty issues, want true")
		}
	})
}

func TestConfidenceString(t *testing.T) {
	t.Parallel()

	if got := ConfidenceHigh.String(); got != "HIGH" {
		t.Errorf("ConfidenceHigh.String() = %q, want %q", got, "HIGH")
	}
	if got := ConfidenceLow.String(); got != "LOW" {
		t.Errorf("ConfidenceLow.String() = %q, want %q", got, "LOW")
	}
}

func TestNewForensicReport(t *testing.T) {
	t.Parallel()

	t.Run("all checks clean yields successful high confidence", func(t *testing.T) {
		t.Parallel()

		checks := []CheckResult{
			NewFindingsResult(CheckDocInfo, nil),
			NewFindingsResult(CheckCrossReader, nil),
			NewFindingsResult(CheckBinaryPatterns, nil),
			NewEntropyResult(nil),
			NewFindingsResult(CheckAdvanced, nil),
			NewIssuesResult(nil),
		}
		r := NewForensicReport("/tmp/out.pdf", 1024, Timestamps{}, checks)

		if r.MetadataDetected {
			t.Error("MetadataDetected = true, want false")
		}
		if !r.ScrubbingSuccessful {
			t.Error("ScrubbingSuccessful = false, want true")
		}
		if r.Confidence != ConfidenceHigh {
			t.Errorf("Confidence = %v, want HIGH", r.Confidence)
		}
		if !r.StructurallyValid {
			t.Error("StructurallyValid = false, want true")
		}
	})

	t.Run("one dirty check flips the verdict", func(t *testing.T) {
		t.Parallel()

		checks := []CheckResult{
			NewFindingsResult(CheckDocInfo, nil),
			NewFindingsResult(CheckBinaryPatterns, []Finding{
				NewFinding(LocationBinarySignature, "/Producer", "Adobe"),
			}),
		}
		r := NewForensicReport("/tmp/out.pdf", 1024, Timestamps{}, checks)

		if !r.MetadataDetected {
			t.Error("MetadataDetected = false, want true")
		}
		if r.ScrubbingSuccessful {
			t.Error("ScrubbingSuccessful = true, want false")
		}
		if r.Confidence != ConfidenceLow {
			t.Errorf("Confidence = %v, want LOW", r.Confidence)
		}
	})

	t.Run("structure issues never flip the verdict", func(t *testing.T) {
		t.Parallel()

		checks := []CheckResult{
			NewFindingsResult(CheckDocInfo, nil),
			NewIssuesResult([]string{"reader disagreement on page count"}),
		}
		r := NewForensicReport("/tmp/out.pdf", 1024, Timestamps{}, checks)

		if r.MetadataDetected {
			t.Error("MetadataDetected = true, want false")
		}
		if !r.ScrubbingSuccessful {
			t.Error("ScrubbingSuccessful = false, want true")
		}
		if r.StructurallyValid {
			t.Error("StructurallyValid = true, want false")
		}
	})

	t.Run("CheckByKind finds a registered result", func(t *testing.T) {
		t.Parallel()

		checks := []CheckResult{
			NewFindingsResult(CheckDocInfo, nil),
			NewEntropyResult(nil),
		}
		r := NewForensicReport("/tmp/out.pdf", 0, Timestamps{}, checks)

		if _, ok := r.CheckByKind(CheckEntropy); !ok {
			t.Error("CheckByKind(CheckEntropy) not found")
		}
		if _, ok := r.CheckByKind(CheckStructure); ok {
			t.Error("CheckByKind(CheckStructure) found, want missing")
		}
	})
}
