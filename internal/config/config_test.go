package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Library.Title != "Ebook library" {
		t.Errorf("Expected default library title, got %q", cfg.Library.Title)
	}
	if cfg.Library.Dir != "." {
		t.Errorf("Expected default library dir '.', got %q", cfg.Library.Dir)
	}
	if cfg.Output.Feed != "index.xml" {
		t.Errorf("Expected default feed name 'index.xml', got %q", cfg.Output.Feed)
	}
	if cfg.Output.Page != "index.html" {
		t.Errorf("Expected default page name 'index.html', got %q", cfg.Output.Page)
	}
	if cfg.CacheDB != "metadata.db" {
		t.Errorf("Expected default cache db 'metadata.db', got %q", cfg.CacheDB)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `library:
  title: My ebooks
  author: Michael
  dir: /srv/books
  base_url: https://example.com/ebooks
output:
  feed: catalog.xml
  page: catalog.html
cache_db: /var/cache/opds-shelf.db
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Library.Title != "My ebooks" {
		t.Errorf("Expected title 'My ebooks', got %q", cfg.Library.Title)
	}
	if cfg.Library.Author != "Michael" {
		t.Errorf("Expected author 'Michael', got %q", cfg.Library.Author)
	}
	if cfg.Library.Dir != "/srv/books" {
		t.Errorf("Expected dir '/srv/books', got %q", cfg.Library.Dir)
	}
	if cfg.Output.Feed != "catalog.xml" {
		t.Errorf("Expected feed 'catalog.xml', got %q", cfg.Output.Feed)
	}
	if cfg.CacheDB != "/var/cache/opds-shelf.db" {
		t.Errorf("Expected cache db path, got %q", cfg.CacheDB)
	}
}

func TestLoadConfig_NormalizesBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "library:\n  base_url: https://example.com/ebooks\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Library.BaseURL != "https://example.com/ebooks/" {
		t.Errorf("Expected trailing slash on base URL, got %q", cfg.Library.BaseURL)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("library: [unterminated"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() expected error for invalid YAML, got nil")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &Config{}
	cfg.Library.Title = "My ebooks"
	cfg.Library.Author = "Michael"
	cfg.Library.Dir = "/srv/books"
	cfg.Library.BaseURL = "https://example.com/ebooks/"
	cfg.Output.Feed = "index.xml"
	cfg.Output.Page = "index.html"
	cfg.CacheDB = "metadata.db"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", loaded, cfg)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"https://example.com/ebooks", "https://example.com/ebooks/"},
		{"https://example.com/ebooks/", "https://example.com/ebooks/"},
	}

	for _, tt := range tests {
		if got := normalizeBaseURL(tt.input); got != tt.want {
			t.Errorf("normalizeBaseURL(%q) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}
