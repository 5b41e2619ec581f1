// Package config loads the central opds-shelf configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/myoung/opds-shelf/pkg/filesystem"
)

// Config holds the central application configuration
type Config struct {
	// Library describes the ebook collection being cataloged
	Library struct {
		Title   string `mapstructure:"title"`    // Feed title (e.g. "My ebooks")
		Author  string `mapstructure:"author"`   // Feed-level author name
		Dir     string `mapstructure:"dir"`      // Directory holding the ebook files
		BaseURL string `mapstructure:"base_url"` // URL the directory is served under
	} `mapstructure:"library"`

	// Output file settings
	Output struct {
		Feed string `mapstructure:"feed"` // Generated OPDS feed filename
		Page string `mapstructure:"page"` // Generated HTML page filename
	} `mapstructure:"output"`

	CacheDB     string `mapstructure:"cache_db"`     // Metadata cache database path
	FormatsFile string `mapstructure:"formats_file"` // Optional format table override
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	// If path is relative, try current directory first, then executable directory
	if !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			if execPath, err := filesystem.GetDefaultPath(path); err == nil {
				if _, err := os.Stat(execPath); err == nil {
					path = execPath
				}
			}
			// If both fail, use original path and let Viper handle the error
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set default values
	v.SetDefault("library.title", "Ebook library")
	v.SetDefault("library.author", "")
	v.SetDefault("library.dir", ".")
	v.SetDefault("library.base_url", "")
	v.SetDefault("output.feed", "index.xml")
	v.SetDefault("output.page", "index.html")
	v.SetDefault("cache_db", "metadata.db")
	v.SetDefault("formats_file", "")

	// Read configuration file
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine - defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.Library.BaseURL = normalizeBaseURL(config.Library.BaseURL)
	return &config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, path string) error {
	if path == "" {
		path = "config.yaml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("library.title", config.Library.Title)
	v.Set("library.author", config.Library.Author)
	v.Set("library.dir", config.Library.Dir)
	v.Set("library.base_url", config.Library.BaseURL)
	v.Set("output.feed", config.Output.Feed)
	v.Set("output.page", config.Output.Page)
	v.Set("cache_db", config.CacheDB)
	v.Set("formats_file", config.FormatsFile)

	return v.WriteConfigAs(path)
}

// normalizeBaseURL guarantees the base URL ends with a slash so filenames can
// be appended directly.
func normalizeBaseURL(baseURL string) string {
	if baseURL == "" || strings.HasSuffix(baseURL, "/") {
		return baseURL
	}
	return baseURL + "/"
}
