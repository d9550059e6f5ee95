package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/marblecrawl"
	"github.com/pevans/marblecrawl/scraper"
)

// ExtractPairs scrapes label/value pairs out of every metadata container on
// the page. It is lossy by nature: definition-list terms are paired with
// definitions by position, so uneven lists misalign, and a label seen twice
// keeps the value found last. Keys are lower-cased with colons removed.
func ExtractPairs(doc *goquery.Document, config scraper.DetailConfig) map[string]string {
	pairs := map[string]string{}
	if doc == nil {
		return pairs
	}

	doc.Find(config.ContainerSelector).Each(func(_ int, container *goquery.Selection) {
		// Definition lists: Nth term goes with Nth definition
		terms := container.Find(config.TermSelector)
		defs := container.Find(config.DefSelector)
		n := min(terms.Length(), defs.Length())
		for i := 0; i < n; i++ {
			key := normalizeKey(terms.Eq(i).Text())
			value := normalizeText(defs.Eq(i).Text())
			if key != "" && value != "" {
				pairs[key] = value
			}
		}

		// "Label: value" elements
		container.Find(config.LabeledSelector).Each(func(_ int, item *goquery.Selection) {
			key, value, found := strings.Cut(normalizeText(item.Text()), ":")
			if !found {
				return
			}

			key = normalizeKey(key)
			value = strings.TrimSpace(value)
			if key != "" && value != "" {
				pairs[key] = value
			}
		})
	})

	return pairs
}

func normalizeKey(s string) string {
	return normalizeText(strings.ReplaceAll(strings.ToLower(s), ":", ""))
}

// ExtractDetails resolves the detail fields of an already loaded document.
func ExtractDetails(doc *goquery.Document, config scraper.DetailConfig) marblecrawl.DetailFields {
	return ResolveFields(ExtractPairs(doc, config))
}

// ScrapeDetails loads an artwork page and extracts its detail fields. It
// never fails: if the page can't be loaded or read, the cause is logged and
// all fields come back empty.
func ScrapeDetails(ctx context.Context, page Page, artworkURL string, config scraper.DetailConfig) marblecrawl.DetailFields {
	details, err := scrapeDetails(ctx, page, artworkURL, config)
	if err != nil {
		log.Printf("WARN: Error scraping details from %s: %v", artworkURL, err)
		return marblecrawl.EmptyDetailFields()
	}
	return details
}

func scrapeDetails(ctx context.Context, page Page, artworkURL string, config scraper.DetailConfig) (marblecrawl.DetailFields, error) {
	if err := page.Navigate(ctx, artworkURL); err != nil {
		return marblecrawl.DetailFields{}, fmt.Errorf("failed to load page: %w", err)
	}

	readyCtx, cancel := context.WithTimeout(ctx, config.ReadyTimeout)
	err := page.WaitReady(readyCtx, config.ReadySelector)
	cancel()
	if err != nil {
		return marblecrawl.DetailFields{}, fmt.Errorf("page never became ready: %w", err)
	}

	// A page without metadata containers is scraped as-is once the settle
	// timeout runs out
	doc, err := pollDocument(ctx, page, config.PollInterval, config.SettleTimeout, func(doc *goquery.Document) bool {
		return doc.Find(config.ContainerSelector).Length() > 0
	})
	if err != nil && !errors.Is(err, ErrWaitTimeout) {
		return marblecrawl.DetailFields{}, err
	}
	if doc == nil {
		doc, err = FetchDocument(ctx, page)
		if err != nil {
			return marblecrawl.DetailFields{}, err
		}
	}

	return ExtractDetails(doc, config), nil
}
