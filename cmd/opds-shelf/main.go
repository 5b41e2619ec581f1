// Package main provides the CLI entry point for opds-shelf.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/myoung/opds-shelf/internal/config"
	"github.com/myoung/opds-shelf/pkg/catalog"
	"github.com/myoung/opds-shelf/pkg/filesystem"
	"github.com/myoung/opds-shelf/pkg/metacache"
	"github.com/myoung/opds-shelf/pkg/opds"
	"github.com/myoung/opds-shelf/pkg/preview"
	"github.com/myoung/opds-shelf/pkg/render"
)

// CLI structure
var CLI struct {
	Config string `help:"Configuration file path" default:"config.yaml"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	Init struct{} `cmd:"init" help:"Write a config file with default settings."`

	Generate struct {
		Dir     string `help:"Library directory to scan" short:"d"`
		Outfile string `help:"Output feed path" short:"o"`
	} `cmd:"generate" help:"Scan the library and write the OPDS feed."`

	Render struct {
		Infile  string `help:"OPDS feed file to render" short:"i"`
		Outfile string `help:"Output HTML path" short:"o"`
	} `cmd:"render" help:"Render an OPDS feed into an HTML page."`

	Build struct {
		Dir  string `help:"Library directory to scan" short:"d"`
		Feed string `help:"Output feed path"`
		Page string `help:"Output HTML path"`
	} `cmd:"build" help:"Generate the feed and render the page in one pass."`

	Preview struct {
		Dir string `help:"Library directory to scan" short:"d"`
	} `cmd:"preview" help:"Browse the scanned catalog interactively."`
}

func main() {
	// Parse CLI with Kong YAML configuration file loading
	ctx := kong.Parse(&CLI,
		kong.Configuration(kongyaml.Loader, "config.yaml", "~/.opds-shelf/config.yaml"),
	)

	// Configure logging level based on debug flag
	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "path", CLI.Config, "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "init":
		if err := config.SaveConfig(cfg, CLI.Config); err != nil {
			slog.Error("Failed to write configuration", "path", CLI.Config, "error", err)
			os.Exit(1)
		}

	case "generate":
		dir := orDefault(CLI.Generate.Dir, cfg.Library.Dir)
		outfile := orDefault(CLI.Generate.Outfile, cfg.Output.Feed)
		if err := generateFeed(cfg, dir, outfile); err != nil {
			slog.Error("Failed to generate feed", "error", err)
			os.Exit(1)
		}

	case "render":
		infile := orDefault(CLI.Render.Infile, cfg.Output.Feed)
		outfile := orDefault(CLI.Render.Outfile, cfg.Output.Page)
		if err := renderPage(infile, outfile); err != nil {
			slog.Error("Failed to render page", "error", err)
			os.Exit(1)
		}

	case "build":
		dir := orDefault(CLI.Build.Dir, cfg.Library.Dir)
		feedFile := orDefault(CLI.Build.Feed, cfg.Output.Feed)
		pageFile := orDefault(CLI.Build.Page, cfg.Output.Page)
		if err := generateFeed(cfg, dir, feedFile); err != nil {
			slog.Error("Failed to generate feed", "error", err)
			os.Exit(1)
		}
		if err := renderPage(feedFile, pageFile); err != nil {
			slog.Error("Failed to render page", "error", err)
			os.Exit(1)
		}

	case "preview":
		dir := orDefault(CLI.Preview.Dir, cfg.Library.Dir)
		if err := previewCatalog(cfg, dir); err != nil {
			slog.Error("Preview failed", "error", err)
			os.Exit(1)
		}

	default:
		panic(ctx.Command())
	}
}

// generateFeed scans the library directory and writes the OPDS feed
func generateFeed(cfg *config.Config, dir, outfile string) error {
	scanner, cleanup, err := newScanner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	feed, err := scanner.Scan(dir)
	if err != nil {
		return err
	}

	return feed.SaveXML(outfile)
}

// renderPage reads an OPDS feed file and writes the HTML page
func renderPage(infile, outfile string) error {
	feed, err := opds.ParseFile(infile)
	if err != nil {
		return err
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}

	return renderer.RenderFile(feed, outfile)
}

// previewCatalog scans the library and opens the entry browser TUI
func previewCatalog(cfg *config.Config, dir string) error {
	scanner, cleanup, err := newScanner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	feed, err := scanner.Scan(dir)
	if err != nil {
		return err
	}

	return preview.Run(cfg.Library.Title, feed.Entries)
}

// newScanner builds a catalog scanner from the configuration. The returned
// cleanup function closes the metadata cache.
func newScanner(cfg *config.Config) (*catalog.Scanner, func(), error) {
	formats, err := loadFormats(cfg)
	if err != nil {
		return nil, nil, err
	}

	scanner := &catalog.Scanner{
		Formats:  formats,
		Title:    cfg.Library.Title,
		Author:   cfg.Library.Author,
		BaseURL:  cfg.Library.BaseURL,
		FeedName: cfg.Output.Feed,
	}

	cleanup := func() {}
	if cfg.CacheDB != "" {
		if err := filesystem.EnsureDirectoryExists(cfg.CacheDB); err != nil {
			slog.Warn("Skipping metadata cache", "path", cfg.CacheDB, "error", err)
			return scanner, cleanup, nil
		}
		cache, err := metacache.Open(cfg.CacheDB)
		if err != nil {
			// The cache is an optimization; scanning works without it
			slog.Warn("Skipping metadata cache", "path", cfg.CacheDB, "error", err)
			return scanner, cleanup, nil
		}
		scanner.Cache = cache
		cleanup = func() {
			if err := cache.Close(); err != nil {
				slog.Error("Failed to close metadata cache", "error", err)
			}
		}
	}

	return scanner, cleanup, nil
}

// loadFormats returns the configured format table, falling back to the
// embedded one.
func loadFormats(cfg *config.Config) (*catalog.FormatTable, error) {
	if cfg.FormatsFile != "" {
		return catalog.LoadFormats(cfg.FormatsFile)
	}
	return catalog.DefaultFormats()
}

// orDefault returns value unless it is empty, in which case fallback is used
func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
