package discovery

import (
	"context"
	"testing"

	"github.com/pevans/marblecrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceRecorder struct {
	records []marblecrawl.DetailedRecord
	err     error
}

func (r *sliceRecorder) Record(record marblecrawl.DetailedRecord) error {
	r.records = append(r.records, record)
	return r.err
}

func newCrawlFixture() *fakePage {
	return &fakePage{
		listing: []string{
			listingHTML(
				testCard{title: "Water Lilies", href: "/item/lilies", artist: "Claude Monet", year: "1906"},
				testCard{title: "No Link", artist: "Unknown"},
			),
			listingHTML(
				testCard{title: "Broken", href: "/item/broken", artist: "Someone", year: "1950"},
			),
		},
		details: map[string]string{
			"https://marble.nd.edu/item/lilies": detailPageHTML,
		},
		navigateErr: map[string]error{
			"https://marble.nd.edu/item/broken": errBoom,
		},
	}
}

// TestCrawlerRun_BuildsRecordsInOrder verifies both phases run and every
// card yields a record with the full schema
func TestCrawlerRun_BuildsRecordsInOrder(t *testing.T) {
	page := newCrawlFixture()
	recorder := &sliceRecorder{}

	crawler := NewCrawler(page, testScraperConfig(), nil, recorder)
	records, err := crawler.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 3)

	assert.Equal(t, "Water Lilies", records[0].Title)
	assert.Equal(t, "https://marble.nd.edu/item/lilies", records[0].Link)
	assert.Equal(t, "Painting", records[0].Classification)
	assert.Equal(t, "Giverny, France, Europe", records[0].RelatedLocation)

	assert.Equal(t, "No Link", records[1].Title)
	assert.Empty(t, records[1].Link)
	assert.Equal(t, marblecrawl.EmptyDetailFields(), records[1].Details())

	assert.Equal(t, "Broken", records[2].Title)
	assert.Equal(t, marblecrawl.EmptyDetailFields(), records[2].Details(), "failed page should give empty details")

	for _, record := range records {
		assert.Len(t, record.Row(), len(marblecrawl.Columns))
	}

	assert.Equal(t, records, recorder.records, "recorder should see every record in order")
}

// TestCrawlerRun_SkipsEmptyLinks verifies cards without links are not
// visited
func TestCrawlerRun_SkipsEmptyLinks(t *testing.T) {
	page := newCrawlFixture()

	_, err := NewCrawler(page, testScraperConfig(), nil, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		testStartURL,
		"https://marble.nd.edu/item/lilies",
		"https://marble.nd.edu/item/broken",
	}, page.visited)
}

// TestCrawlerRun_RecorderErrorIsNotFatal verifies a failing recorder doesn't
// stop the crawl
func TestCrawlerRun_RecorderErrorIsNotFatal(t *testing.T) {
	recorder := &sliceRecorder{err: errBoom}

	records, err := NewCrawler(newCrawlFixture(), testScraperConfig(), nil, recorder).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Len(t, recorder.records, 3)
}

// TestCrawlerRun_ListingError verifies a listing that can't be opened fails
// the run
func TestCrawlerRun_ListingError(t *testing.T) {
	page := &fakePage{navigateErr: map[string]error{testStartURL: errBoom}}

	records, err := NewCrawler(page, testScraperConfig(), nil, nil).Run(context.Background())

	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, records)
}

// cancelingPage cancels the crawl when it is sent to cancelURL.
type cancelingPage struct {
	*fakePage
	cancelURL string
	cancel    context.CancelFunc
}

func (p *cancelingPage) Navigate(ctx context.Context, url string) error {
	if url == p.cancelURL {
		p.cancel()
	}
	return p.fakePage.Navigate(ctx, url)
}

// TestCrawlerRun_CanceledDuringDetails verifies an artwork whose detail page
// was interrupted is neither returned nor recorded
func TestCrawlerRun_CanceledDuringDetails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	page := &cancelingPage{
		fakePage:  newCrawlFixture(),
		cancelURL: "https://marble.nd.edu/item/broken",
		cancel:    cancel,
	}
	recorder := &sliceRecorder{}

	records, err := NewCrawler(page, testScraperConfig(), nil, recorder).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, records, 2)
	assert.Equal(t, "Water Lilies", records[0].Title)
	assert.Equal(t, "No Link", records[1].Title)
	assert.Equal(t, records, recorder.records)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 50))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "ÉÉ...", truncate("ÉÉÉÉ", 2))
}
