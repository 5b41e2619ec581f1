package catalog

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Metadata holds the fields a publication file can contribute to its entry.
// Empty fields leave the scan defaults in place.
type Metadata struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Content string `json:"content,omitempty"`
}

// container.xml points at the OPF package document inside the epub.
type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// The OPF metadata block, Dublin Core elements only.
type epubPackage struct {
	Metadata struct {
		Title       string `xml:"http://purl.org/dc/elements/1.1/ title"`
		Creator     string `xml:"http://purl.org/dc/elements/1.1/ creator"`
		Description string `xml:"http://purl.org/dc/elements/1.1/ description"`
	} `xml:"metadata"`
}

// ReadEpubMetadata extracts title, author and description from the epub at
// path by reading its OPF package document.
func ReadEpubMetadata(path string) (Metadata, error) {
	var meta Metadata

	z, err := zip.OpenReader(path)
	if err != nil {
		return meta, fmt.Errorf("failed to open epub %s: %w", path, err)
	}
	defer z.Close()

	var container epubContainer
	if err := decodeZipMember(&z.Reader, "META-INF/container.xml", &container); err != nil {
		return meta, err
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return meta, fmt.Errorf("epub %s has no rootfile declaration", path)
	}

	var pkg epubPackage
	if err := decodeZipMember(&z.Reader, container.Rootfiles[0].FullPath, &pkg); err != nil {
		return meta, err
	}

	meta.Title = strings.TrimSpace(pkg.Metadata.Title)
	meta.Author = strings.TrimSpace(pkg.Metadata.Creator)
	meta.Content = strings.TrimSpace(pkg.Metadata.Description)
	return meta, nil
}

// decodeZipMember finds name inside the archive and XML-decodes it into v.
func decodeZipMember(z *zip.Reader, name string, v any) error {
	for _, f := range z.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := xml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("%s not found in archive", name)
}
