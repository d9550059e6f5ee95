package scraper

import "time"

// DefaultStartURL is the catalog search listing the crawl starts from: the
// Raclin Murphy Museum of Art campus location, items with images only.
const DefaultStartURL = "https://marble.nd.edu/search?campuslocation[0]=Raclin%20Murphy%20Museum%20of%20Art&images[0]=true"

// DefaultHost is prefixed to relative artwork links.
const DefaultHost = "https://marble.nd.edu"

// ScraperConfig defines how to crawl the catalog.
type ScraperConfig struct {
	ListConfig   ListConfig   `yaml:"list"`
	DetailConfig DetailConfig `yaml:"detail"`
	// Delay between detail page visits
	PolitenessDelay time.Duration `yaml:"politeness_delay"`
}

// ListConfig defines how to read result cards from the search listing and
// how to move to the next page.
type ListConfig struct {
	StartURL string `yaml:"start_url"`
	Host     string `yaml:"host"`

	CardSelector  string `yaml:"card_selector"`
	LinkSelector  string `yaml:"link_selector"`
	TitleSelector string `yaml:"title_selector"`
	// Matches the descriptive lines of a card; the first is the artist, the
	// second the year.
	TextSelector string `yaml:"text_selector"`
	NextSelector string `yaml:"next_selector"`

	MaxPages int `yaml:"max_pages"` // 0 means no limit

	// How long to wait for the first cards to render
	ReadyTimeout time.Duration `yaml:"ready_timeout"`
	// How long to wait for a "next" click to change the listing
	AdvanceTimeout time.Duration `yaml:"advance_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval"`
}

// DetailConfig defines how to extract metadata from an artwork page.
type DetailConfig struct {
	ReadySelector     string `yaml:"ready_selector"`
	ContainerSelector string `yaml:"container_selector"`
	TermSelector      string `yaml:"term_selector"`
	DefSelector       string `yaml:"def_selector"`
	LabeledSelector   string `yaml:"labeled_selector"`

	ReadyTimeout time.Duration `yaml:"ready_timeout"`
	// How long to wait for a metadata container to show up. Running out is
	// not an error; the page is scraped as it is.
	SettleTimeout time.Duration `yaml:"settle_timeout"`
	PollInterval  time.Duration `yaml:"poll_interval"`
}

// NewListConfig creates a list configuration with the catalog's selectors.
func NewListConfig() ListConfig {
	return ListConfig{
		StartURL:       DefaultStartURL,
		Host:           DefaultHost,
		CardSelector:   ".card.css-1b7lok9",
		LinkSelector:   "a.css-1g0qgzq",
		TitleSelector:  "h2.css-1m7l3d1",
		TextSelector:   "p.css-1jho06n",
		NextSelector:   "div.sk-toggle-option.sk-toggle__item[data-key='next']",
		ReadyTimeout:   15 * time.Second,
		AdvanceTimeout: 15 * time.Second,
		PollInterval:   250 * time.Millisecond,
	}
}

// NewDetailConfig creates a detail configuration with the catalog's
// selectors.
func NewDetailConfig() DetailConfig {
	return DetailConfig{
		ReadySelector:     "body",
		ContainerSelector: ".metadata, .details, .artwork-details, [class*='meta']",
		TermSelector:      "dt",
		DefSelector:       "dd",
		LabeledSelector:   "[class*='label'], [class*='field']",
		ReadyTimeout:      10 * time.Second,
		SettleTimeout:     7 * time.Second,
		PollInterval:      250 * time.Millisecond,
	}
}

// NewScraperConfig returns the default crawl configuration.
func NewScraperConfig() *ScraperConfig {
	return &ScraperConfig{
		ListConfig:      NewListConfig(),
		DetailConfig:    NewDetailConfig(),
		PolitenessDelay: 500 * time.Millisecond,
	}
}
