package opds

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteXML serializes the feed as an indented UTF-8 XML document with the
// standard XML header.
func (f *Feed) WriteXML(w io.Writer) error {
	out := *f
	if out.Xmlns == "" {
		out.Xmlns = NSAtom
	}
	if out.XmlnsOPDS == "" {
		out.XmlnsOPDS = NSOPDS
	}
	if out.XmlnsDCTerms == "" {
		out.XmlnsDCTerms = NSDCTerms
	}

	data, err := xml.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feed: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	return nil
}

// SaveXML writes the feed to a file, creating parent directories as needed.
func (f *Feed) SaveXML(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return f.WriteXML(file)
}
