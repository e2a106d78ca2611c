package strategy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/nao1215/pdfscrub/internal/docmodel/memdoc"
	"github.com/nao1215/pdfscrub/internal/sanitize"
)

// registerDirtyInput saves a metadata-bearing document into the backend
// registry and returns its path.
func registerDirtyInput(t *testing.T, backend *memdoc.Backend) string {
	t.Helper()

	doc := memdoc.New(backend)
	doc.SetInfo("Producer", "Adobe Acrobat 9.0")
	doc.SetInfo("Author", "Jane Doe")
	doc.SetXMP("pdf:Producer", "Adobe PDF Library 15.0")
	doc.AddPage()

	path := filepath.Join(t.TempDir(), "input.pdf")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return path
}

func newSanitizer() *sanitize.Sanitizer {
	return sanitize.NewSanitizer(
		sanitize.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestReconstruct(t *testing.T) {
	t.Parallel()

	t.Run("rebuilt candidate carries no info or xmp", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		input := registerDirtyInput(t, backend)
		output := filepath.Join(t.TempDir(), "out.pdf")

		s := NewReconstruct(backend)
		if err := s.Scrub(context.Background(), input, output); err != nil {
			t.Fatalf("Scrub() error = %v", err)
		}

		candidate, err := backend.Open(output)
		if err != nil {
			t.Fatalf("Open(candidate) error = %v", err)
		}
		info, _ := candidate.Info()
		if got := len(info.Keys()); got != 0 {
			t.Errorf("candidate info keys = %d, want 0", got)
		}
		if _, err := candidate.XMP(); err == nil {
			t.Error("candidate carries an XMP packet")
		}
		pages, _ := candidate.Pages()
		if len(pages) != 1 {
			t.Errorf("candidate pages = %d, want 1", len(pages))
		}
	})

	t.Run("engine failure is reported as strategy failure", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		backend.FailRebuild = errors.New("engine exploded")
		input := registerDirtyInput(t, backend)

		s := NewReconstruct(backend)
		err := s.Scrub(context.Background(), input, filepath.Join(t.TempDir(), "out.pdf"))
		if !errors.Is(err, ErrStrategyFailed) {
			t.Errorf("error = %v, want ErrStrategyFailed", err)
		}
	})

	t.Run("cancelled context aborts before work", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		input := registerDirtyInput(t, backend)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := NewReconstruct(backend)
		err := s.Scrub(ctx, input, filepath.Join(t.TempDir(), "out.pdf"))
		if !errors.Is(err, ErrStrategyFailed) {
			t.Errorf("error = %v, want ErrStrategyFailed", err)
		}
	})
}

func TestStructuralClear(t *testing.T) {
	t.Parallel()

	t.Run("cleared candidate keeps pages and loses metadata", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		input := registerDirtyInput(t, backend)
		output := filepath.Join(t.TempDir(), "out.pdf")

		s := NewStructuralClear(backend, newSanitizer())
		if err := s.Scrub(context.Background(), input, output); err != nil {
			t.Fatalf("Scrub() error = %v", err)
		}

		candidate, err := backend.Open(output)
		if err != nil {
			t.Fatalf("Open(candidate) error = %v", err)
		}
		info, _ := candidate.Info()
		if got := len(info.Keys()); got != 0 {
			t.Errorf("candidate info keys = %d, want 0", got)
		}
		trailer, _ := candidate.Trailer()
		if trailer.Has("Info") {
			t.Error("candidate trailer still references Info")
		}
		pages, _ := candidate.Pages()
		if len(pages) != 1 {
			t.Errorf("candidate pages = %d, want 1", len(pages))
		}
	})

	t.Run("unopenable input is a strategy failure", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		s := NewStructuralClear(backend, newSanitizer())
		err := s.Scrub(context.Background(),
			filepath.Join(t.TempDir(), "absent.pdf"),
			filepath.Join(t.TempDir(), "out.pdf"))
		if !errors.Is(err, ErrStrategyFailed) {
			t.Errorf("error = %v, want ErrStrategyFailed", err)
		}
	})
}

func TestMinimalRewrite(t *testing.T) {
	t.Parallel()

	t.Run("rewritten candidate may carry writer metadata", func(t *testing.T) {
		t.Parallel()

		backend := memdoc.NewBackend()
		backend.WriterProducer = "memdoc writer 1.0"
		input := registerDirtyInput(t, backend)
		output := filepath.Join(t.TempDir(), "out.pdf")

		s := NewMinimalRewrite(backend)
		if err := s.Scrub(context.Background(), input, output); err != nil {
			t.Fatalf("Scrub() error = %v", err)
		}

		candidate, err := backend.Open(output)
		if err != nil {
			t.Fatalf("Open(candidate) error = %v", err)
		}
		info, _ := candidate.Info()
		if producer, _ := info.String("Producer"); producer != "memdoc writer 1.0" {
			t.Errorf("Producer = %q, want the writer's own stamp", producer)
		}
	})
}

func TestDefaultStrategies(t *testing.T) {
	t.Parallel()

	strategies := DefaultStrategies(memdoc.NewBackend(), newSanitizer())
	want := []string{"reconstruct", "structural_clear", "minimal_rewrite"}
	if len(strategies) != len(want) {
		t.Fatalf("len(strategies) = %d, want %d", len(strategies), len(want))
	}
	for i, s := range strategies {
		if s.Name() != want[i] {
			t.Errorf("strategies[%d].Name() = %q, want %q", i, s.Name(), want[i])
		}
	}
}
