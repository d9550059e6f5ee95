package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pevans/marblecrawl"
	"github.com/pevans/marblecrawl/scraper"
)

const testStartURL = "https://marble.nd.edu/search?images[0]=true"

// fakePage serves canned markup in place of a browser tab. Listing pages are
// walked with ClickNext; detail pages are served by URL.
type fakePage struct {
	listing     []string
	details     map[string]string
	navigateErr map[string]error
	readyErr    error
	nextErr     error // returned instead of advancing past the last page
	stuck       bool  // clicks succeed but the listing never changes

	current int
	html    string
	visited []string
	clicks  int
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.visited = append(p.visited, url)
	if err := p.navigateErr[url]; err != nil {
		return err
	}

	if url == testStartURL {
		p.current = 0
		p.html = ""
		if len(p.listing) > 0 {
			p.html = p.listing[0]
		}
		return nil
	}

	html, ok := p.details[url]
	if !ok {
		html = "<html><body><p>Not found</p></body></html>"
	}
	p.html = html
	return nil
}

func (p *fakePage) WaitReady(_ context.Context, _ string) error {
	return p.readyErr
}

func (p *fakePage) HTML(_ context.Context) (string, error) {
	return p.html, nil
}

func (p *fakePage) ClickNext(_ context.Context, _ string) error {
	p.clicks++
	if p.stuck {
		return nil
	}
	if p.current >= len(p.listing)-1 {
		if p.nextErr != nil {
			return p.nextErr
		}
		return marblecrawl.ErrNextMissing
	}
	p.current++
	p.html = p.listing[p.current]
	return nil
}

// testCard describes one card on a fake listing page.
type testCard struct {
	title  string
	href   string
	artist string
	year   string
}

func cardHTML(c testCard) string {
	var b strings.Builder
	b.WriteString(`<div class="card css-1b7lok9">`)
	if c.href != "" {
		fmt.Fprintf(&b, `<a class="css-1g0qgzq" href="%s">`, c.href)
	}
	if c.title != "" {
		fmt.Fprintf(&b, `<h2 class="css-1m7l3d1">%s</h2>`, c.title)
	}
	if c.artist != "" {
		fmt.Fprintf(&b, `<p class="css-1jho06n">%s</p>`, c.artist)
	}
	if c.year != "" {
		fmt.Fprintf(&b, `<p class="css-1jho06n">%s</p>`, c.year)
	}
	if c.href != "" {
		b.WriteString(`</a>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func listingHTML(cards ...testCard) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="results">`)
	for _, c := range cards {
		b.WriteString(cardHTML(c))
	}
	b.WriteString(`</div><div class="sk-toggle-option sk-toggle__item" data-key="next">Next</div></body></html>`)
	return b.String()
}

// testScraperConfig returns the catalog selectors with timeouts short enough
// for tests.
func testScraperConfig() *scraper.ScraperConfig {
	config := scraper.NewScraperConfig()
	config.ListConfig.StartURL = testStartURL
	config.ListConfig.ReadyTimeout = 50 * time.Millisecond
	config.ListConfig.AdvanceTimeout = 50 * time.Millisecond
	config.ListConfig.PollInterval = time.Millisecond
	config.DetailConfig.ReadyTimeout = 50 * time.Millisecond
	config.DetailConfig.SettleTimeout = 20 * time.Millisecond
	config.DetailConfig.PollInterval = time.Millisecond
	config.PolitenessDelay = 0
	return config
}

var errBoom = errors.New("boom")
