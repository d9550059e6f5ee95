package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/pevans/marblecrawl/config"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an int from environment variable or returns default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool parses a bool from environment variable or returns default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func envSet(key string) bool {
	return os.Getenv(key) != ""
}

// setFlags returns the names of flags given on the command line.
func setFlags() map[string]bool {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// overrides holds command line and environment settings. Empty strings and
// a negative MaxPages mean "not given".
type overrides struct {
	Output      string
	DB          string
	Diagnostics string
	StartURL    string
	Headless    bool
	HeadlessSet bool
	MaxPages    int
}

func applyOverrides(cfg *config.FileConfig, o overrides) {
	if o.Output != "" {
		cfg.Output.Artworks = o.Output
	}
	if o.DB != "" {
		cfg.Output.DB = o.DB
	}
	if o.Diagnostics != "" {
		cfg.Output.DiagnosticsDir = o.Diagnostics
	}
	if o.StartURL != "" {
		cfg.Scraper.ListConfig.StartURL = o.StartURL
	}
	if o.HeadlessSet {
		cfg.Browser.Headless = o.Headless
	}
	if o.MaxPages >= 0 {
		cfg.Scraper.ListConfig.MaxPages = o.MaxPages
	}
}
