package localfs

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/transitdocs/doctrack/internal/core/domain"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "abc_invoice.pdf", strings.NewReader("blob-bytes")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r, err := s.Open(ctx, "abc_invoice.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(raw) != "blob-bytes" {
		t.Fatalf("blob = %q", raw)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Save(context.Background(), "a.bin", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	names, err := filepath.Glob(filepath.Join(dir, ".upload-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("temp files left behind: %v", names)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/b", `a\b`} {
		if err := s.Save(ctx, key, strings.NewReader("x")); !domain.IsKind(err, domain.ErrValidation) {
			t.Fatalf("Save(%q): expected ErrValidation, got %v", key, err)
		}
		if _, err := s.Open(ctx, key); !domain.IsKind(err, domain.ErrValidation) {
			t.Fatalf("Open(%q): expected ErrValidation, got %v", key, err)
		}
	}
}

func TestOpenMissingKeyIsNotFound(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := s.Open(context.Background(), "missing.bin"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
