package catalog

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/myoung/opds-shelf/pkg/opds"
)

// MetadataCache lets the scanner skip re-reading files whose mtime has not
// changed. Implemented by pkg/metacache.
type MetadataCache interface {
	Get(path string, mtime time.Time) (Metadata, bool, error)
	Put(path string, mtime time.Time, meta Metadata) error
}

// cachePruner is implemented by caches that can drop entries for files no
// longer present in the library.
type cachePruner interface {
	Prune(keep map[string]bool) (int64, error)
}

// Scanner builds an OPDS feed from the files in a library directory.
type Scanner struct {
	Formats *FormatTable
	Cache   MetadataCache // optional

	// Feed-level metadata.
	Title    string
	Author   string
	BaseURL  string // URL the library directory is served under, with trailing slash
	FeedName string // filename of the generated feed, used for the feed ID
}

// book accumulates the files found for one filename stem.
type book struct {
	stem    string
	title   string
	author  string
	content string
	updated time.Time
	links   []opds.Link
}

// Scan walks the library directory (non-recursive, sorted filename order) and
// returns the catalog feed. Files whose ending is not in the format table are
// skipped.
func (s *Scanner) Scan(dir string) (*opds.Feed, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read library directory: %w", err)
	}

	books := make(map[string]*book)
	var order []string
	var latest time.Time
	seen := make(map[string]bool)

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()

		format, stem, ok := s.Formats.Match(name)
		if !ok {
			slog.Debug("Skipping unrecognized file", "name", name)
			continue
		}

		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		mtime := info.ModTime().UTC()

		b, exists := books[stem]
		if !exists {
			b = &book{stem: stem, title: stem, author: "Unknown"}
			books[stem] = b
			order = append(order, stem)
		}

		link := opds.Link{
			Rel:   format.Rel,
			Href:  s.BaseURL + url.PathEscape(name),
			Type:  format.Type,
			Title: format.Title,
			Text:  format.Note,
		}
		b.links = append(b.links, link)

		if mtime.After(b.updated) {
			b.updated = mtime
		}
		if mtime.After(latest) {
			latest = mtime
		}

		path := filepath.Join(dir, name)
		seen[path] = true

		meta, err := s.fileMetadata(path, mtime)
		if err != nil {
			slog.Warn("Failed to extract metadata", "name", name, "error", err)
		}
		if meta.Title != "" {
			b.title = meta.Title
		}
		if meta.Author != "" {
			b.author = meta.Author
		}
		if meta.Content != "" {
			b.content = StripMarkup(meta.Content)
		}
	}

	if latest.IsZero() {
		latest = time.Now().UTC()
	}

	if pruner, ok := s.Cache.(cachePruner); ok {
		if _, err := pruner.Prune(seen); err != nil {
			slog.Warn("Cache prune failed", "error", err)
		}
	}

	feed := &opds.Feed{
		Title:   s.Title,
		ID:      s.BaseURL + s.FeedName,
		Updated: latest.Format(time.RFC3339),
		Author:  &opds.Author{Name: s.Author},
		Links: []opds.Link{{
			Rel:  opds.RelSelf,
			Type: "application/atom+xml",
			Href: s.BaseURL,
		}},
	}

	for _, stem := range order {
		b := books[stem]
		entry := opds.Entry{
			ID:      s.BaseURL + url.PathEscape(stem),
			Updated: b.updated.Format(time.RFC3339),
			Title:   b.title,
			Author:  &opds.Author{Name: b.author},
			Links:   b.links,
		}
		if b.content != "" {
			entry.Content = &opds.Content{Type: "text", Text: b.content}
		}
		feed.Entries = append(feed.Entries, entry)
	}

	slog.Info("Scanned library", "dir", dir, "files", len(dirEntries), "entries", len(feed.Entries))
	return feed, nil
}

// fileMetadata extracts publication metadata for a single file, using the
// cache when one is configured. Only epub files carry metadata today.
func (s *Scanner) fileMetadata(path string, mtime time.Time) (Metadata, error) {
	if !isEpub(path) {
		return Metadata{}, nil
	}

	if s.Cache != nil {
		meta, hit, err := s.Cache.Get(path, mtime)
		if err != nil {
			slog.Warn("Cache read failed", "path", path, "error", err)
		} else if hit {
			return meta, nil
		}
	}

	meta, err := ReadEpubMetadata(path)
	if err != nil {
		return Metadata{}, err
	}

	if s.Cache != nil {
		if err := s.Cache.Put(path, mtime, meta); err != nil {
			slog.Warn("Cache write failed", "path", path, "error", err)
		}
	}
	return meta, nil
}

func isEpub(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".epub")
}
