package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/myoung/opds-shelf/pkg/testutil"
)

func TestReadEpubMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earthsea.epub")
	testutil.WriteEpub(t, path, "A Wizard of Earthsea", "Ursula K. Le Guin", "A boy discovers his power.")

	meta, err := ReadEpubMetadata(path)
	if err != nil {
		t.Fatalf("ReadEpubMetadata() error = %v", err)
	}

	if meta.Title != "A Wizard of Earthsea" {
		t.Errorf("Expected title 'A Wizard of Earthsea', got %q", meta.Title)
	}
	if meta.Author != "Ursula K. Le Guin" {
		t.Errorf("Expected author 'Ursula K. Le Guin', got %q", meta.Author)
	}
	if meta.Content != "A boy discovers his power." {
		t.Errorf("Expected description, got %q", meta.Content)
	}
}

func TestReadEpubMetadata_PartialMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untitled.epub")
	testutil.WriteEpub(t, path, "", "", "")

	meta, err := ReadEpubMetadata(path)
	if err != nil {
		t.Fatalf("ReadEpubMetadata() error = %v", err)
	}
	if meta.Title != "" || meta.Author != "" || meta.Content != "" {
		t.Errorf("Expected empty metadata for bare OPF, got %+v", meta)
	}
}

func TestReadEpubMetadata_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.epub")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := ReadEpubMetadata(path); err == nil {
		t.Error("ReadEpubMetadata() expected error for a non-zip file, got nil")
	}
}

func TestReadEpubMetadata_MissingFile(t *testing.T) {
	if _, err := ReadEpubMetadata(filepath.Join(t.TempDir(), "nope.epub")); err == nil {
		t.Error("ReadEpubMetadata() expected error for a missing file, got nil")
	}
}
