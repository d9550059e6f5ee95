package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/marblecrawl"
	"github.com/pevans/marblecrawl/scraper"
)

// Listing is the outcome of walking the search results.
type Listing struct {
	Records []marblecrawl.BasicRecord
	Pages   int
	// Stop says why the walk ended: marblecrawl.ErrNoCards for the normal
	// end of results, or one of the pagination errors.
	Stop error
}

// ResolveLink turns a card's href into an absolute URL on host. Relative
// links are resolved against host. Links that end up on any other host,
// that can't be parsed, or that name no page below the site root come back
// empty.
func ResolveLink(host, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	base, err := url.Parse(strings.TrimRight(host, "/") + "/")
	if err != nil || base.Host == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		log.Printf("WARN: Dropping unparseable link %q: %v", href, err)
		return ""
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != base.Scheme || resolved.Host != base.Host {
		log.Printf("WARN: Dropping off-site link %s", resolved)
		return ""
	}

	// Fragments, bare queries and the site root don't name an artwork page
	if ref.Path == "" || strings.Trim(resolved.Path, "/") == "" {
		log.Printf("WARN: Dropping link without a page path %q", href)
		return ""
	}

	return resolved.String()
}

// ExtractCards reads one BasicRecord per result card. A card missing its
// link, title, or text lines still yields a record, with those fields empty.
func ExtractCards(doc *goquery.Document, config scraper.ListConfig) []marblecrawl.BasicRecord {
	if doc == nil {
		return nil
	}

	var records []marblecrawl.BasicRecord
	doc.Find(config.CardSelector).Each(func(_ int, card *goquery.Selection) {
		records = append(records, extractCard(card, config))
	})

	return records
}

func extractCard(card *goquery.Selection, config scraper.ListConfig) marblecrawl.BasicRecord {
	record := marblecrawl.BasicRecord{
		Title: normalizeText(card.Find(config.TitleSelector).First().Text()),
	}

	if href, ok := card.Find(config.LinkSelector).First().Attr("href"); ok {
		record.Link = ResolveLink(config.Host, href)
	}

	texts := card.Find(config.TextSelector)
	if texts.Length() > 0 {
		record.Artist = normalizeText(texts.Eq(0).Text())
	}
	if texts.Length() > 1 {
		record.Year = normalizeText(texts.Eq(1).Text())
	}

	return record
}

// firstCardTitle returns the title of the first card on the page, and
// whether there was a card at all.
func firstCardTitle(doc *goquery.Document, config scraper.ListConfig) (string, bool) {
	cards := doc.Find(config.CardSelector)
	if cards.Length() == 0 {
		return "", false
	}
	return normalizeText(cards.First().Find(config.TitleSelector).First().Text()), true
}

// Traverse walks the search listing from config.StartURL, collecting every
// card on every page. It stops when a page has no cards, when the next page
// control is gone or hidden, when a click fails to change the listing, or
// when config.MaxPages is reached. Only a failure to open the listing or a
// canceled context is returned as an error; the reason for stopping is
// reported in Listing.Stop.
func Traverse(ctx context.Context, page Page, config scraper.ListConfig, dumper Dumper) (*Listing, error) {
	if err := page.Navigate(ctx, config.StartURL); err != nil {
		return nil, fmt.Errorf("failed to open search listing: %w", err)
	}
	log.Printf("INFO: Opened search listing %s", config.StartURL)

	// Running out of time here just means the first page has no cards
	doc, err := pollDocument(ctx, page, config.PollInterval, config.ReadyTimeout, func(doc *goquery.Document) bool {
		_, ok := firstCardTitle(doc, config)
		return ok
	})
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	listing := &Listing{}
	for pageNum := 1; ; pageNum++ {
		listing.Pages = pageNum
		log.Printf("INFO: Scraping search results page %d", pageNum)

		cards := ExtractCards(doc, config)
		if len(cards) == 0 {
			log.Printf("INFO: No cards found on page %d", pageNum)
			dumpPage(ctx, page, dumper, pageNum)
			listing.Stop = marblecrawl.ErrNoCards
			return listing, nil
		}

		listing.Records = append(listing.Records, cards...)

		if config.MaxPages > 0 && pageNum >= config.MaxPages {
			log.Printf("INFO: Reached page limit of %d", config.MaxPages)
			listing.Stop = marblecrawl.ErrMaxPages
			return listing, nil
		}

		doc, err = advance(ctx, page, config, cards[0].Title)
		if err != nil {
			if ctx.Err() != nil {
				return listing, ctx.Err()
			}

			if errors.Is(err, marblecrawl.ErrPageDidNotAdvance) {
				log.Printf("ERROR: Stopping after page %d: %v", pageNum, err)
			} else {
				log.Printf("INFO: No more pages after page %d: %v", pageNum, err)
			}
			listing.Stop = err
			return listing, nil
		}
	}
}

// advance clicks the next page control and waits for the first card's title
// to differ from previousTitle.
func advance(ctx context.Context, page Page, config scraper.ListConfig, previousTitle string) (*goquery.Document, error) {
	if err := page.ClickNext(ctx, config.NextSelector); err != nil {
		return nil, err
	}

	doc, err := pollDocument(ctx, page, config.PollInterval, config.AdvanceTimeout, func(doc *goquery.Document) bool {
		title, ok := firstCardTitle(doc, config)
		return ok && title != previousTitle
	})
	if errors.Is(err, ErrWaitTimeout) {
		return nil, fmt.Errorf("%w: first card still %q after %v",
			marblecrawl.ErrPageDidNotAdvance, previousTitle, config.AdvanceTimeout)
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// dumpPage hands the page's raw markup to dumper for later inspection.
func dumpPage(ctx context.Context, page Page, dumper Dumper, pageNum int) {
	if dumper == nil {
		return
	}

	html, err := page.HTML(ctx)
	if err != nil {
		log.Printf("WARN: Failed to read page %d markup for diagnostics: %v", pageNum, err)
		return
	}

	path, err := dumper.Dump(pageNum, html)
	if err != nil {
		log.Printf("WARN: Failed to write diagnostics for page %d: %v", pageNum, err)
		return
	}
	log.Printf("INFO: Wrote page %d markup to %s", pageNum, path)
}
