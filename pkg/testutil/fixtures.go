package testutil

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses a rendered page into a goquery document for structural
// assertions.
func ParseHTML(t *testing.T, page string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Failed to parse rendered HTML: %v", err)
	}
	return doc
}

// WriteLibraryFile creates a file in dir with the given content and mtime.
func WriteLibraryFile(t *testing.T, dir, name, content string, mtime time.Time) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to set mtime on %s: %v", name, err)
	}
	return path
}

// WriteEpub creates a minimal but well-formed epub at path carrying the given
// Dublin Core metadata. Empty fields are omitted from the OPF.
func WriteEpub(t *testing.T, path, title, creator, description string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create epub %s: %v", path, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)

	container := `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

	var dc strings.Builder
	for _, item := range []struct{ tag, value string }{
		{"title", title},
		{"creator", creator},
		{"description", description},
	} {
		if item.value != "" {
			// Descriptions may carry HTML markup, which epubs store escaped.
			fmt.Fprintf(&dc, "    <dc:%s>%s</dc:%s>\n", item.tag, escapeXML(item.value), item.tag)
		}
	}

	opf := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<package version="3.0" xmlns="http://www.idpf.org/2007/opf">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
%s  </metadata>
</package>`, dc.String())

	for _, member := range []struct{ name, body string }{
		{"META-INF/container.xml", container},
		{"content.opf", opf},
	} {
		mw, err := w.Create(member.name)
		if err != nil {
			t.Fatalf("Failed to add %s to epub: %v", member.name, err)
		}
		if _, err := mw.Write([]byte(member.body)); err != nil {
			t.Fatalf("Failed to write %s to epub: %v", member.name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize epub %s: %v", path, err)
	}
}

func escapeXML(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
