// Package catalog builds an OPDS feed from a directory of ebook files.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/myoung/opds-shelf/configs"
	"github.com/myoung/opds-shelf/pkg/opds"
)

// Format describes the OPDS link attributes for one recognized file ending.
type Format struct {
	Ending string `yaml:"ending"`
	Title  string `yaml:"title"`
	Note   string `yaml:"note"`
	Type   string `yaml:"type"`
	Rel    string `yaml:"rel"`
}

// IsImage reports whether the format is a cover image rather than a
// downloadable publication.
func (f Format) IsImage() bool {
	return f.Rel == opds.RelImage
}

// FormatTable is an ordered list of formats. Matching is first-wins, so more
// specific endings must precede the plain extensions they contain.
type FormatTable struct {
	Formats []Format `yaml:"formats"`
}

// Match finds the format for filename and returns it together with the
// filename stem (the part before the matched ending). Files sharing a stem
// belong to the same book.
func (t *FormatTable) Match(filename string) (Format, string, bool) {
	lower := strings.ToLower(filename)
	for _, f := range t.Formats {
		if strings.HasSuffix(lower, f.Ending) {
			return f, filename[:len(filename)-len(f.Ending)], true
		}
	}
	return Format{}, "", false
}

// DefaultFormats parses the format table embedded in the binary.
func DefaultFormats() (*FormatTable, error) {
	data, err := configs.EmbeddedConfigs.ReadFile("formats.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded format table: %w", err)
	}
	return parseFormats(data)
}

// LoadFormats reads a format table from a user-provided YAML file.
func LoadFormats(path string) (*FormatTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read format table %s: %w", path, err)
	}
	return parseFormats(data)
}

func parseFormats(data []byte) (*FormatTable, error) {
	var table FormatTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse format table: %w", err)
	}
	if len(table.Formats) == 0 {
		return nil, fmt.Errorf("format table is empty")
	}
	for i, f := range table.Formats {
		if f.Ending == "" {
			return nil, fmt.Errorf("format entry %d has no ending", i)
		}
		if f.Rel == "" {
			return nil, fmt.Errorf("format %q has no rel", f.Ending)
		}
	}
	return &table, nil
}
