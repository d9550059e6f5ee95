// Package config loads crawler settings from a YAML file layered over the
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pevans/marblecrawl/browser"
	"github.com/pevans/marblecrawl/scraper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultArtworksPath     = "raclin_murphy_artworks_detailed.csv"
	DefaultContinentsInput  = "cleaned_date_and_special_characters.csv"
	DefaultContinentsOutput = "raclin_murphy_artworks_with_continents.csv"
	DefaultDiagnosticsDir   = "."
)

// OutputConfig names the files the two binaries read and write.
type OutputConfig struct {
	Artworks       string `yaml:"artworks"`
	DiagnosticsDir string `yaml:"diagnostics_dir"`
	// Empty means no crawl archive
	DB string `yaml:"db"`

	ContinentsInput  string `yaml:"continents_input"`
	ContinentsOutput string `yaml:"continents_output"`
}

// FileConfig represents the structure of ~/.marblecrawl/config.yaml.
type FileConfig struct {
	Scraper scraper.ScraperConfig `yaml:"scraper"`
	Browser browser.Options       `yaml:"browser"`
	Output  OutputConfig          `yaml:"output"`
}

// Default returns the configuration used when no file is present.
func Default() *FileConfig {
	return &FileConfig{
		Scraper: *scraper.NewScraperConfig(),
		Browser: browser.DefaultOptions(),
		Output: OutputConfig{
			Artworks:         DefaultArtworksPath,
			DiagnosticsDir:   DefaultDiagnosticsDir,
			ContinentsInput:  DefaultContinentsInput,
			ContinentsOutput: DefaultContinentsOutput,
		},
	}
}

// DefaultPath returns ~/.marblecrawl/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".marblecrawl", "config.yaml"), nil
}

// LoadConfigFile loads configuration from path, or from DefaultPath if path
// is empty. Settings the file leaves out keep their Default values. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile(path string) (*FileConfig, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load is LoadConfigFile falling back to Default when there is no file.
func Load(path string) (*FileConfig, error) {
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return Default(), nil
	}
	return cfg, nil
}
