package discovery

import "github.com/pevans/marblecrawl"

// Accepted labels for each output field, most specific first.
var (
	ClassificationKeys  = []string{"classification", "type", "object type"}
	RelatedLocationKeys = []string{"related location", "location", "provenance"}
	MediumKeys          = []string{"medium", "materials", "technique"}
	DimensionsKeys      = []string{"dimensions", "size", "measurements"}
	CreditLineKeys      = []string{"credit line", "credit", "acquisition"}
	CopyrightStatusKeys = []string{"copyright status", "copyright", "rights"}
)

// ResolveFields maps scraped label/value pairs onto the fixed detail fields.
// For each field the first label in its synonym list that has a non-empty
// value wins; a field with no matching label is left empty. Keys in pairs
// are expected to be lower-cased already.
func ResolveFields(pairs map[string]string) marblecrawl.DetailFields {
	return marblecrawl.DetailFields{
		Classification:  firstPresent(pairs, ClassificationKeys),
		RelatedLocation: firstPresent(pairs, RelatedLocationKeys),
		Medium:          firstPresent(pairs, MediumKeys),
		Dimensions:      firstPresent(pairs, DimensionsKeys),
		CreditLine:      firstPresent(pairs, CreditLineKeys),
		CopyrightStatus: firstPresent(pairs, CopyrightStatusKeys),
	}
}

func firstPresent(pairs map[string]string, keys []string) string {
	for _, key := range keys {
		if value := pairs[key]; value != "" {
			return value
		}
	}
	return ""
}
