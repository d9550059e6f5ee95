package marblecrawl

import "errors"

// Errors reported while moving through the search listing. Each one ends the
// listing phase; records collected up to that point are kept.
var (
	ErrNoCards           = errors.New("no result cards on page")
	ErrNextMissing       = errors.New("next page control not found")
	ErrNextHidden        = errors.New("next page control not visible")
	ErrPageDidNotAdvance = errors.New("listing did not change after next page")
	ErrMaxPages          = errors.New("page limit reached")
)
