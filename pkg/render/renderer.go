// Package render turns a parsed OPDS catalog into a standalone HTML page.
package render

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/myoung/opds-shelf/pkg/opds"
)

// templateName is the page template looked up in the template filesystems.
const templateName = "catalog.html"

// Page is the data handed to the page template.
type Page struct {
	Title   string
	Updated string
	Entries []EntryView
}

// EntryView is a single catalog entry prepared for rendering.
type EntryView struct {
	Title       string
	Author      string
	Covers      []string
	Description string
	Downloads   []Download
}

// Download is one acquisition link of an entry.
type Download struct {
	Href  string
	Label string
	Note  string
}

// Renderer renders OPDS feeds to HTML. A Renderer holds only its parsed
// template, so a single instance is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer loads the page template and returns a ready renderer.
func NewRenderer() (*Renderer, error) {
	tmpl, err := loadTemplate(templateName)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render validates the feed and writes the HTML document to w. The feed is
// never modified; entry ordering in the output is by author name ascending,
// with input order preserved between entries sharing an author.
func (r *Renderer) Render(feed *opds.Feed, w io.Writer) error {
	if err := feed.Validate(); err != nil {
		return err
	}

	page := buildPage(feed)
	if err := r.tmpl.Execute(w, page); err != nil {
		return fmt.Errorf("failed to execute page template: %w", err)
	}
	return nil
}

// RenderFile renders the feed into an HTML file, creating parent directories
// as needed.
func (r *Renderer) RenderFile(feed *opds.Feed, path string) error {
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

	if err := r.Render(feed, file); err != nil {
		return err
	}

	slog.Info("Catalog page saved", "entries", len(feed.Entries), "filename", path)
	return nil
}

// buildPage projects the feed into template data, sorted for display.
func buildPage(feed *opds.Feed) *Page {
	page := &Page{
		Title:   feed.Title,
		Updated: feed.Updated,
		Entries: make([]EntryView, 0, len(feed.Entries)),
	}

	for i := range feed.Entries {
		entry := &feed.Entries[i]
		view := EntryView{
			Title:       entry.Title,
			Author:      entry.AuthorName(),
			Description: entry.Description(),
		}
		for _, link := range entry.LinksByRel(opds.RelImage) {
			view.Covers = append(view.Covers, link.Href)
		}
		for _, link := range entry.LinksByRel(opds.RelAcquisition) {
			view.Downloads = append(view.Downloads, Download{
				Href:  link.Href,
				Label: link.Title,
				Note:  link.Text,
			})
		}
		page.Entries = append(page.Entries, view)
	}

	// Stable keeps feed order for entries sharing an author.
	sort.SliceStable(page.Entries, func(a, b int) bool {
		return page.Entries[a].Author < page.Entries[b].Author
	})

	return page
}
