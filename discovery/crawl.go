package discovery

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pevans/marblecrawl"
	"github.com/pevans/marblecrawl/scraper"
)

// Recorder receives each detailed record as soon as it is built.
type Recorder interface {
	Record(record marblecrawl.DetailedRecord) error
}

// Crawler runs the two crawl phases against a single browser page: walk the
// search listing, then visit every artwork's detail page in order.
type Crawler struct {
	page     Page
	config   *scraper.ScraperConfig
	dumper   Dumper
	recorder Recorder
}

// NewCrawler creates a crawler. dumper and recorder may be nil.
func NewCrawler(page Page, config *scraper.ScraperConfig, dumper Dumper, recorder Recorder) *Crawler {
	if config == nil {
		config = scraper.NewScraperConfig()
	}

	return &Crawler{
		page:     page,
		config:   config,
		dumper:   dumper,
		recorder: recorder,
	}
}

// Run executes both phases and returns one DetailedRecord per listing card,
// in listing order. If ctx is canceled part way through, the records built
// so far are returned along with the context's error.
func (c *Crawler) Run(ctx context.Context) ([]marblecrawl.DetailedRecord, error) {
	startTime := time.Now()

	log.Println("INFO: Phase 1: collecting artwork links from search results")
	listing, err := Traverse(ctx, c.page, c.config.ListConfig, c.dumper)
	if err != nil {
		return nil, fmt.Errorf("failed to traverse listing: %w", err)
	}
	log.Printf("INFO: Collected %d basic records from %d pages (%v)",
		len(listing.Records), listing.Pages, listing.Stop)

	log.Println("INFO: Phase 2: collecting details from artwork pages")
	records, err := c.collectDetails(ctx, listing.Records)

	log.Printf("INFO: Built %d detailed records in %v", len(records), time.Since(startTime).Round(time.Second))
	return records, err
}

func (c *Crawler) collectDetails(ctx context.Context, basics []marblecrawl.BasicRecord) ([]marblecrawl.DetailedRecord, error) {
	records := make([]marblecrawl.DetailedRecord, 0, len(basics))

	for i, basic := range basics {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		log.Printf("INFO: Scraping details for artwork %d/%d: %s", i+1, len(basics), truncate(basic.Title, 50))

		details := marblecrawl.EmptyDetailFields()
		if basic.Link != "" {
			details = ScrapeDetails(ctx, c.page, basic.Link, c.config.DetailConfig)
		}

		// Details cut short by cancellation are not a scraped record
		if err := ctx.Err(); err != nil {
			return records, err
		}

		record := marblecrawl.NewDetailedRecord(basic, details)
		records = append(records, record)

		if c.recorder != nil {
			if err := c.recorder.Record(record); err != nil {
				log.Printf("WARN: Failed to record %q: %v", basic.Title, err)
			}
		}

		if i < len(basics)-1 {
			if err := sleepCtx(ctx, c.config.PolitenessDelay); err != nil {
				return records, err
			}
		}
	}

	return records, nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
