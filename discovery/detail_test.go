package discovery

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/marblecrawl"
	"github.com/pevans/marblecrawl/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailPageHTML = `
<html>
	<body>
		<h1>Water Lilies</h1>
		<section class="metadata">
			<dl>
				<dt>Classification:</dt><dd>Painting</dd>
				<dt>Medium</dt><dd>Oil on
					canvas</dd>
				<dt>Dimensions</dt><dd>89 x 93 cm</dd>
			</dl>
		</section>
		<div class="item-meta">
			<div class="field-row">Related Location: Giverny, France, Europe</div>
			<span class="label">Credit Line: Gift of the Snite Foundation</span>
			<span class="label">Rights: Public domain</span>
		</div>
	</body>
</html>
`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// TestExtractPairs_DefinitionLists verifies dt/dd pairs are read with keys
// lower-cased and colons dropped
func TestExtractPairs_DefinitionLists(t *testing.T) {
	pairs := ExtractPairs(parseDoc(t, detailPageHTML), scraper.NewDetailConfig())

	assert.Equal(t, "Painting", pairs["classification"])
	assert.Equal(t, "Oil on canvas", pairs["medium"], "should normalize whitespace")
	assert.Equal(t, "89 x 93 cm", pairs["dimensions"])
}

// TestExtractPairs_LabeledElements verifies "Label: value" text is split on
// the first colon
func TestExtractPairs_LabeledElements(t *testing.T) {
	pairs := ExtractPairs(parseDoc(t, detailPageHTML), scraper.NewDetailConfig())

	assert.Equal(t, "Giverny, France, Europe", pairs["related location"])
	assert.Equal(t, "Gift of the Snite Foundation", pairs["credit line"])
	assert.Equal(t, "Public domain", pairs["rights"])
}

// TestExtractPairs_SplitsOnFirstColon verifies later colons stay in the value
func TestExtractPairs_SplitsOnFirstColon(t *testing.T) {
	html := `<div class="details"><p class="field">Dimensions: sheet: 10 x 8 in.</p></div>`

	pairs := ExtractPairs(parseDoc(t, html), scraper.NewDetailConfig())

	assert.Equal(t, "sheet: 10 x 8 in.", pairs["dimensions"])
}

// TestExtractPairs_PositionalMisalignment verifies uneven lists pair by
// index and drop the extras
func TestExtractPairs_PositionalMisalignment(t *testing.T) {
	html := `
	<div class="metadata">
		<dl>
			<dt>Type</dt>
			<dt>Medium</dt>
			<dt>Size</dt>
			<dd>Print</dd>
			<dd>Etching</dd>
		</dl>
	</div>`

	pairs := ExtractPairs(parseDoc(t, html), scraper.NewDetailConfig())

	assert.Equal(t, map[string]string{"type": "Print", "medium": "Etching"}, pairs)
}

// TestExtractPairs_LastWriteWins verifies a repeated label keeps the last
// value seen
func TestExtractPairs_LastWriteWins(t *testing.T) {
	html := `
	<div class="metadata"><dl><dt>Medium</dt><dd>Bronze</dd></dl></div>
	<div class="details"><dl><dt>Medium</dt><dd>Cast bronze</dd></dl></div>`

	pairs := ExtractPairs(parseDoc(t, html), scraper.NewDetailConfig())

	assert.Equal(t, "Cast bronze", pairs["medium"])
}

// TestExtractPairs_SkipsEmpty verifies empty keys and values are ignored
func TestExtractPairs_SkipsEmpty(t *testing.T) {
	html := `
	<div class="metadata">
		<dl><dt></dt><dd>Orphan</dd><dt>Medium</dt><dd> </dd></dl>
		<span class="label">No colon here</span>
		<span class="label">: value without key</span>
	</div>`

	pairs := ExtractPairs(parseDoc(t, html), scraper.NewDetailConfig())

	assert.Empty(t, pairs)
}

// TestExtractDetails_NoContainers verifies a page without metadata yields
// all fields empty
func TestExtractDetails_NoContainers(t *testing.T) {
	html := `<html><body><h1>Untitled</h1><p>Medium: Oil</p></body></html>`

	details := ExtractDetails(parseDoc(t, html), scraper.NewDetailConfig())

	assert.Equal(t, marblecrawl.EmptyDetailFields(), details)
}

// TestExtractDetails_Complete verifies a full page resolves every field
func TestExtractDetails_Complete(t *testing.T) {
	details := ExtractDetails(parseDoc(t, detailPageHTML), scraper.NewDetailConfig())

	assert.Equal(t, marblecrawl.DetailFields{
		Classification:  "Painting",
		RelatedLocation: "Giverny, France, Europe",
		Medium:          "Oil on canvas",
		Dimensions:      "89 x 93 cm",
		CreditLine:      "Gift of the Snite Foundation",
		CopyrightStatus: "Public domain",
	}, details)
}

// TestScrapeDetails_LoadsPage verifies the page is visited and scraped
func TestScrapeDetails_LoadsPage(t *testing.T) {
	url := "https://marble.nd.edu/item/lilies"
	page := &fakePage{details: map[string]string{url: detailPageHTML}}

	details := ScrapeDetails(context.Background(), page, url, testScraperConfig().DetailConfig)

	assert.Equal(t, []string{url}, page.visited)
	assert.Equal(t, "Painting", details.Classification)
	assert.Equal(t, "Public domain", details.CopyrightStatus)
}

// TestScrapeDetails_NavigateError verifies a failed load gives empty fields
func TestScrapeDetails_NavigateError(t *testing.T) {
	url := "https://marble.nd.edu/item/broken"
	page := &fakePage{navigateErr: map[string]error{url: errBoom}}

	details := ScrapeDetails(context.Background(), page, url, testScraperConfig().DetailConfig)

	assert.Equal(t, marblecrawl.EmptyDetailFields(), details)
}

// TestScrapeDetails_NeverReady verifies a page that never becomes ready
// gives empty fields
func TestScrapeDetails_NeverReady(t *testing.T) {
	url := "https://marble.nd.edu/item/slow"
	page := &fakePage{
		details:  map[string]string{url: detailPageHTML},
		readyErr: context.DeadlineExceeded,
	}

	details := ScrapeDetails(context.Background(), page, url, testScraperConfig().DetailConfig)

	assert.Equal(t, marblecrawl.EmptyDetailFields(), details)
}

// TestScrapeDetails_NoContainers verifies a page with no metadata settles
// and yields empty fields rather than an error
func TestScrapeDetails_NoContainers(t *testing.T) {
	url := "https://marble.nd.edu/item/bare"
	page := &fakePage{details: map[string]string{url: `<html><body><h1>Bare</h1></body></html>`}}

	details := ScrapeDetails(context.Background(), page, url, testScraperConfig().DetailConfig)

	assert.Equal(t, marblecrawl.EmptyDetailFields(), details)
}
