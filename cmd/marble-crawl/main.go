package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pevans/marblecrawl/browser"
	"github.com/pevans/marblecrawl/config"
	"github.com/pevans/marblecrawl/discovery"
	"github.com/pevans/marblecrawl/export"
	"github.com/pevans/marblecrawl/store"
)

func main() {
	_ = godotenv.Load()

	// Flags default to MARBLECRAWL_* environment variables; anything left
	// unset falls through to the config file and then to built-in defaults
	configPath := flag.String("config", getEnv("MARBLECRAWL_CONFIG", ""), "Path to config file, default ~/.marblecrawl/config.yaml (MARBLECRAWL_CONFIG)")
	output := flag.String("output", getEnv("MARBLECRAWL_OUTPUT", ""), "Path to the artworks CSV (MARBLECRAWL_OUTPUT)")
	dbPath := flag.String("db", getEnv("MARBLECRAWL_DB", ""), "Path to a SQLite crawl archive, empty to disable (MARBLECRAWL_DB)")
	diagnostics := flag.String("diagnostics", getEnv("MARBLECRAWL_DIAGNOSTICS", ""), "Directory for page dumps (MARBLECRAWL_DIAGNOSTICS)")
	startURL := flag.String("start-url", getEnv("MARBLECRAWL_START_URL", ""), "Search listing to start from (MARBLECRAWL_START_URL)")
	headless := flag.Bool("headless", getEnvBool("MARBLECRAWL_HEADLESS", true), "Run Chrome without a window (MARBLECRAWL_HEADLESS)")
	maxPages := flag.Int("max-pages", getEnvInt("MARBLECRAWL_MAX_PAGES", -1), "Stop after this many listing pages, 0 for no limit (MARBLECRAWL_MAX_PAGES)")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	set := setFlags()
	applyOverrides(cfg, overrides{
		Output:      *output,
		DB:          *dbPath,
		Diagnostics: *diagnostics,
		StartURL:    *startURL,
		Headless:    *headless,
		HeadlessSet: set["headless"] || envSet("MARBLECRAWL_HEADLESS"),
		MaxPages:    *maxPages,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := crawl(ctx, cfg); err != nil {
		log.Fatalf("Crawl failed: %v", err)
	}
}

func crawl(ctx context.Context, cfg *config.FileConfig) error {
	var recorder discovery.Recorder
	var runRecorder *store.RunRecorder

	if cfg.Output.DB != "" {
		log.Printf("INFO: Opening crawl archive: %s", cfg.Output.DB)
		artworkStore, err := store.NewArtworkStore(cfg.Output.DB)
		if err != nil {
			return fmt.Errorf("failed to open crawl archive: %w", err)
		}
		defer artworkStore.Close()

		run, err := artworkStore.StartRun(cfg.Scraper.ListConfig.StartURL, &cfg.Scraper)
		if err != nil {
			return fmt.Errorf("failed to start run: %w", err)
		}
		log.Printf("INFO: Archiving as run %s", run.RunID)

		runRecorder = store.NewRunRecorder(artworkStore, run.RunID)
		recorder = runRecorder
	}

	log.Println("INFO: Starting browser")
	session, err := browser.Open(ctx, cfg.Browser)
	if err != nil {
		return err
	}
	defer session.Close()

	dumper := discovery.DirDumper{Dir: cfg.Output.DiagnosticsDir}
	crawler := discovery.NewCrawler(session, &cfg.Scraper, dumper, recorder)

	records, runErr := crawler.Run(ctx)

	if runRecorder != nil {
		if err := runRecorder.Finish(); err != nil {
			log.Printf("WARN: Failed to finish run: %v", err)
		}
	}

	if runErr != nil && len(records) == 0 {
		return runErr
	}

	if err := export.WriteArtworksFile(cfg.Output.Artworks, records); err != nil {
		return err
	}
	fmt.Printf("Saved %d artworks to %s\n", len(records), cfg.Output.Artworks)

	return runErr
}
