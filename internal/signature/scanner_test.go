package signature

import (
	"bytes"
	"testing"
)

func TestScannerScrubScoped(t *testing.T) {
	t.Parallel()

	t.Run("replaces only vendor tokens inside the value span", func(t *testing.T) {
		t.Parallel()

		data := []byte("/Producer (Adobe Acrobat 9.0)/Title (Report)")
		original := len(data)

		s := NewScanner()
		if !s.ScrubScoped(data) {
			t.Fatal("ScrubScoped reported no change")
		}

		if len(data) != original {
			t.Errorf("length changed from %d to %d", original, len(data))
		}
		if bytes.Contains(data, []byte("Adobe")) || bytes.Contains(data, []byte("Acrobat")) {
			t.Errorf("vendor tokens survived: %q", data)
		}
		if !bytes.Contains(data, []byte("9.0")) {
			t.Errorf("non-vendor value content was destroyed: %q", data)
		}
		if !bytes.Contains(data, []byte("/Title (Report)")) {
			t.Errorf("neighboring key value was touched: %q", data)
		}
		if !bytes.Contains(data, []byte("/Producer (")) {
			t.Errorf("key or delimiter was damaged: %q", data)
		}
	})

	t.Run("vendor-free spans are untouched", func(t *testing.T) {
		t.Parallel()

		data := []byte("/Producer (Acme Writer) /Filter (FlateDecode)")
		want := append([]byte(nil), data...)
		s := NewScanner()
		if s.ScrubScoped(data) {
			t.Error("ScrubScoped reported a change for a vendor-free span")
		}
		if !bytes.Equal(data, want) {
			t.Errorf("data changed: %q", data)
		}
	})

	t.Run("nested parentheses end at the matching delimiter", func(t *testing.T) {
		t.Parallel()

		data := []byte("/Author (Adobe (QA) Acrobat) trailing Adobe")
		s := NewScanner()
		s.ScrubScoped(data)

		if bytes.Contains(data[:len(data)-len(" trailing Adobe")], []byte("Adobe")) {
			t.Errorf("vendor token inside the span survived: %q", data)
		}
		if bytes.Contains(data, []byte("Acrobat")) {
			t.Errorf("vendor token after the nested group survived: %q", data)
		}
		if !bytes.HasSuffix(data, []byte(") trailing Adobe")) {
			t.Errorf("bytes past the span were touched: %q", data)
		}
	})

	t.Run("non-parenthesized value ends at the next key", func(t *testing.T) {
		t.Parallel()

		data := []byte("/Producer Adobe Distiller/Title (Report)")
		s := NewScanner()
		if !s.ScrubScoped(data) {
			t.Fatal("ScrubScoped reported no change")
		}
		if bytes.Contains(data, []byte("Adobe")) {
			t.Errorf("vendor token in a bare value survived: %q", data)
		}
		if !bytes.Contains(data, []byte("Distiller")) {
			t.Errorf("non-vendor value content was destroyed: %q", data)
		}
		if !bytes.Contains(data, []byte("/Title (Report)")) {
			t.Errorf("span crossed into the next key: %q", data)
		}
	})

	t.Run("non-parenthesized value ends at the dictionary close", func(t *testing.T) {
		t.Parallel()

		data := []byte("<< /Creator Acrobat >> tail Acrobat")
		s := NewScanner()
		if !s.ScrubScoped(data) {
			t.Fatal("ScrubScoped reported no change")
		}
		if !bytes.HasSuffix(data, []byte(">> tail Acrobat")) {
			t.Errorf("bytes past the dictionary close were touched: %q", data)
		}
		if bytes.Contains(data[:bytes.Index(data, []byte(">>"))], []byte("Acrobat")) {
			t.Errorf("vendor token before the dictionary close survived: %q", data)
		}
	})

	t.Run("unterminated span extends to end of buffer", func(t *testing.T) {
		t.Parallel()

		data := []byte("/Creator (Adobe never closed")
		s := NewScanner()
		if !s.ScrubScoped(data) {
			t.Fatal("ScrubScoped reported no change")
		}
		if bytes.Contains(data, []byte("Adobe")) {
			t.Errorf("vendor token in an unterminated value survived: %q", data)
		}
		if !bytes.Contains(data, []byte("never closed")) {
			t.Errorf("non-vendor value content was destroyed: %q", data)
		}
	})

	t.Run("every occurrence of a key is scrubbed", func(t *testing.T) {
		t.Parallel()

		data := []byte("/Author (Adobe first) body /Author (Adobe second)")
		s := NewScanner()
		s.ScrubScoped(data)
		if bytes.Contains(data, []byte("Adobe")) {
			t.Errorf("a repeated occurrence survived: %q", data)
		}
		if !bytes.Contains(data, []byte("first")) || !bytes.Contains(data, []byte("second")) {
			t.Errorf("non-vendor value content was destroyed: %q", data)
		}
	})

	t.Run("cursor advances past the resolved span", func(t *testing.T) {
		t.Parallel()

		// The inner /Author sits inside the first value span. Matching
		// it again would open a second span reaching past the closing
		// parenthesis and blank the trailing vendor token, which lies
		// outside any key's value.
		data := []byte("/Author (inner /Author) Adobe")
		s := NewScanner()
		s.ScrubScoped(data)
		if !bytes.HasSuffix(data, []byte(") Adobe")) {
			t.Errorf("bytes past the first span were touched: %q", data)
		}
	})
}

func TestScannerScrubTokens(t *testing.T) {
	t.Parallel()

	t.Run("blanks every occurrence preserving length", func(t *testing.T) {
		t.Parallel()

		data := []byte("xAdobex and adobe again and Adobe once more")
		original := len(data)

		s := NewScanner()
		if !s.ScrubTokens(data, PostSaveTokens) {
			t.Fatal("ScrubTokens reported no change")
		}
		if len(data) != original {
			t.Errorf("length changed from %d to %d", original, len(data))
		}
		if bytes.Contains(bytes.ToLower(data), []byte("adobe")) {
			t.Errorf("a vendor token survived: %q", data)
		}
	})

	t.Run("clean input reports no change", func(t *testing.T) {
		t.Parallel()

		data := []byte("nothing interesting here")
		s := NewScanner()
		if s.ScrubTokens(data, PostSaveTokens) {
			t.Error("ScrubTokens reported a change for clean input")
		}
	})
}

func TestScannerDetect(t *testing.T) {
	t.Parallel()

	t.Run("reports key tokens with value excerpts", func(t *testing.T) {
		t.Parallel()

		data := []byte("%PDF-1.7\n/Producer (Adobe Acrobat 9.0)\n%%EOF")
		s := NewScanner()
		findings := s.Detect(data)

		if len(findings) != 1 {
			t.Fatalf("len(findings) = %d, want 1", len(findings))
		}
		if findings[0].Key != "/Producer" {
			t.Errorf("Key = %q, want %q", findings[0].Key, "/Producer")
		}
		if findings[0].ValueExcerpt != "Adobe Acrobat 9.0" {
			t.Errorf("ValueExcerpt = %q, want %q", findings[0].ValueExcerpt, "Adobe Acrobat 9.0")
		}
	})

	t.Run("reports xmp markers", func(t *testing.T) {
		t.Parallel()

		data := []byte("<?xpacket begin=\"\"?><x:xmpmeta>...</x:xmpmeta>")
		s := NewScanner()
		findings := s.Detect(data)

		keys := make(map[string]bool, len(findings))
		for _, f := range findings {
			keys[f.Key] = true
		}
		if !keys["<?xpacket"] || !keys["<x:xmpmeta"] {
			t.Errorf("xmp markers missing from findings: %v", keys)
		}
	})

	t.Run("clean bytes yield no findings", func(t *testing.T) {
		t.Parallel()

		data := []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF")
		s := NewScanner()
		if findings := s.Detect(data); len(findings) != 0 {
			t.Errorf("findings = %v, want none", findings)
		}
	})
}
