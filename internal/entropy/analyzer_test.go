package entropy

import (
	"bytes"
	"testing"
)

func TestEntropy(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields zero", func(t *testing.T) {
		t.Parallel()

		if got := Entropy(nil); got != 0 {
			t.Errorf("Entropy(nil) = %f, want 0", got)
		}
	})

	t.Run("single repeated byte yields zero", func(t *testing.T) {
		t.Parallel()

		data := bytes.Repeat([]byte{0x41}, 1000)
		if got := Entropy(data); got != 0 {
			t.Errorf("Entropy(repeated byte) = %f, want 0", got)
		}
	})

	t.Run("uniform byte distribution approaches eight bits", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, 0, 256*16)
		for i := 0; i < 16; i++ {
			for b := 0; b < 256; b++ {
				data = append(data, byte(b))
			}
		}
		got := Entropy(data)
		if got < 7.99 || got > 8.0 {
			t.Errorf("Entropy(uniform) = %f, want ~8.0", got)
		}
	})

	t.Run("two equiprobable bytes yield one bit", func(t *testing.T) {
		t.Parallel()

		data := bytes.Repeat([]byte{0x00, 0xff}, 500)
		got := Entropy(data)
		if got < 0.999 || got > 1.001 {
			t.Errorf("Entropy(two bytes) = %f, want 1.0", got)
		}
	})

	t.Run("english text sits well below threshold", func(t *testing.T) {
		t.Parallel()

		data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 20)
		got := Entropy(data)
		if got >= DefaultThreshold {
			t.Errorf("Entropy(text) = %f, want below %f", got, DefaultThreshold)
		}
	})
}

func TestAnalyzerInspect(t *testing.T) {
	t.Parallel()

	t.Run("short content is never flagged", func(t *testing.T) {
		t.Parallel()

		a := NewAnalyzer()
		data := make([]byte, 99)
		for i := range data {
			data[i] = byte(i)
		}
		if _, ok := a.Inspect("1 0", data); ok {
			t.Error("Inspect flagged content below the minimum length")
		}
	})

	t.Run("high entropy content above minimum length is flagged", func(t *testing.T) {
		t.Parallel()

		a := NewAnalyzer()
		data := make([]byte, 0, 256*4)
		for i := 0; i < 4; i++ {
			for b := 0; b < 256; b++ {
				data = append(data, byte(b))
			}
		}
		report, ok := a.Inspect("7 0", data)
		if !ok {
			t.Fatal("Inspect did not flag uniform content")
		}
		if report.ObjectID != "7 0" {
			t.Errorf("ObjectID = %q, want %q", report.ObjectID, "7 0")
		}
		if report.ByteLength != len(data) {
			t.Errorf("ByteLength = %d, want %d", report.ByteLength, len(data))
		}
		if report.Entropy <= DefaultThreshold {
			t.Errorf("Entropy = %f, want above %f", report.Entropy, DefaultThreshold)
		}
	})

	t.Run("low entropy content is not flagged", func(t *testing.T) {
		t.Parallel()

		a := NewAnalyzer()
		data := bytes.Repeat([]byte("stream content "), 50)
		if _, ok := a.Inspect("3 0", data); ok {
			t.Error("Inspect flagged ordinary text content")
		}
	})

	t.Run("options override threshold and minimum length", func(t *testing.T) {
		t.Parallel()

		a := NewAnalyzer(WithThreshold(0.5), WithMinLength(4))
		data := []byte{0x00, 0xff, 0x00, 0xff, 0x00, 0xff}
		if _, ok := a.Inspect("5 0", data); !ok {
			t.Error("Inspect did not honor lowered threshold and length")
		}
	})
}
