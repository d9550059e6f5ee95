package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrWaitTimeout is returned when a page condition does not become true
// within its timeout.
var ErrWaitTimeout = errors.New("timed out waiting for page")

const defaultPollInterval = 250 * time.Millisecond

// Page is a browser tab the crawler drives. The crawler owns it for the
// whole run and never uses it from more than one goroutine.
type Page interface {
	// Navigate loads url in the tab.
	Navigate(ctx context.Context, url string) error
	// WaitReady blocks until an element matching selector is in the DOM.
	WaitReady(ctx context.Context, selector string) error
	// HTML returns the current markup of the whole document.
	HTML(ctx context.Context) (string, error)
	// ClickNext scrolls the element matching selector into view and clicks
	// it. It returns marblecrawl.ErrNextMissing or marblecrawl.ErrNextHidden
	// when the element cannot be clicked.
	ClickNext(ctx context.Context, selector string) error
}

// FetchDocument parses the page's current markup with goquery.
func FetchDocument(ctx context.Context, page Page) (*goquery.Document, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page markup: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

// pollDocument re-reads the page every interval until cond holds or timeout
// passes. On timeout it returns the last document it managed to read (which
// may be nil) together with an ErrWaitTimeout.
func pollDocument(
	ctx context.Context,
	page Page,
	interval, timeout time.Duration,
	cond func(*goquery.Document) bool,
) (*goquery.Document, error) {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *goquery.Document
	for {
		doc, err := FetchDocument(waitCtx, page)
		if err == nil {
			last = doc
			if cond(doc) {
				return doc, nil
			}
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return last, ctx.Err()
			}
			return last, fmt.Errorf("%w after %v", ErrWaitTimeout, timeout)
		case <-ticker.C:
		}
	}
}

// sleepCtx sleeps for the given duration or returns early if the context is
// canceled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// normalizeText collapses runs of whitespace into single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
