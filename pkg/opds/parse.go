package opds

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"
)

// MalformedFeedError reports a feed that is missing a field the renderer
// requires. There is no recovery: callers get either a complete feed or this
// error.
type MalformedFeedError struct {
	Field string // which required field is missing
	Entry string // entry ID or title when the problem is inside an entry
}

func (e *MalformedFeedError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("malformed feed: entry %q is missing %s", e.Entry, e.Field)
	}
	return fmt.Sprintf("malformed feed: missing %s", e.Field)
}

// Parse decodes an Atom/OPDS document from r. Non-UTF-8 charsets declared in
// the XML prolog are handled transparently. Parse does not validate required
// fields; see Feed.Validate.
func Parse(r io.Reader) (*Feed, error) {
	var feed Feed
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode feed XML: %w", err)
	}
	return &feed, nil
}

// ParseFile reads and decodes the OPDS document at path.
func ParseFile(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()

	feed, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return feed, nil
}

// Validate checks the fields the renderer cannot do without: feed title and
// updated timestamp, plus title and author name on every entry. Optional
// fields (content, image links, acquisition links) are never an error.
func (f *Feed) Validate() error {
	if f.Title == "" {
		return &MalformedFeedError{Field: "title"}
	}
	if f.Updated == "" {
		return &MalformedFeedError{Field: "updated timestamp"}
	}
	for i := range f.Entries {
		entry := &f.Entries[i]
		ref := entry.ID
		if ref == "" {
			ref = entry.Title
		}
		if entry.Title == "" {
			if ref == "" {
				ref = fmt.Sprintf("#%d", i)
			}
			return &MalformedFeedError{Field: "title", Entry: ref}
		}
		if entry.AuthorName() == "" {
			return &MalformedFeedError{Field: "author name", Entry: ref}
		}
	}
	return nil
}
