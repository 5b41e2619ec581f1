package opds

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testFeed() *Feed {
	return &Feed{
		Title:   "My Library",
		ID:      "https://example.com/ebooks/index.xml",
		Updated: "2024-01-01T00:00:00Z",
		Author:  &Author{Name: "Michael"},
		Links: []Link{{
			Rel:  RelSelf,
			Type: "application/atom+xml",
			Href: "https://example.com/ebooks/",
		}},
		Entries: []Entry{{
			ID:      "https://example.com/ebooks/earthsea",
			Updated: "2023-06-01T10:00:00Z",
			Title:   "A Wizard of Earthsea",
			Author:  &Author{Name: "Ursula K. Le Guin"},
			Content: &Content{Type: "text", Text: "A boy discovers his power."},
			Links: []Link{
				{Rel: RelImage, Type: "image/jpeg", Href: "https://example.com/ebooks/earthsea.jpg"},
				{Rel: RelAcquisition, Type: "application/epub+zip", Title: "Compatible epub",
					Href: "https://example.com/ebooks/earthsea.epub", Text: "All devices"},
			},
		}},
	}
}

func TestWriteXML_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := testFeed().WriteXML(&buf); err != nil {
		t.Fatalf("WriteXML() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "<?xml version=") {
		t.Errorf("Expected XML declaration, got %q", out[:40])
	}
	if !strings.Contains(out, `xmlns="http://www.w3.org/2005/Atom"`) {
		t.Error("Expected Atom namespace on the feed element")
	}
	if !strings.Contains(out, `xmlns:opds="http://opds-spec.org/2010/catalog"`) {
		t.Error("Expected OPDS namespace on the feed element")
	}

	parsed, err := Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Parse() of generated XML error = %v", err)
	}

	if parsed.Title != "My Library" {
		t.Errorf("Expected round-tripped title 'My Library', got %q", parsed.Title)
	}
	if len(parsed.Entries) != 1 {
		t.Fatalf("Expected 1 round-tripped entry, got %d", len(parsed.Entries))
	}

	entry := parsed.Entries[0]
	if entry.AuthorName() != "Ursula K. Le Guin" {
		t.Errorf("Expected round-tripped author, got %q", entry.AuthorName())
	}
	if entry.Description() != "A boy discovers his power." {
		t.Errorf("Expected round-tripped description, got %q", entry.Description())
	}

	downloads := entry.LinksByRel(RelAcquisition)
	if len(downloads) != 1 || downloads[0].Text != "All devices" {
		t.Errorf("Expected link body text to survive the round trip, got %+v", downloads)
	}
}

func TestSaveXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "index.xml")
	if err := testFeed().SaveXML(path); err != nil {
		t.Fatalf("SaveXML() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved feed: %v", err)
	}

	feed, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() of saved feed error = %v", err)
	}
	if err := feed.Validate(); err != nil {
		t.Errorf("Saved feed should validate, got %v", err)
	}
}
