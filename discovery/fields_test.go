package discovery

import (
	"testing"

	"github.com/pevans/marblecrawl"
	"github.com/stretchr/testify/assert"
)

// TestResolveFields_Synonym verifies a fallback label fills the field
func TestResolveFields_Synonym(t *testing.T) {
	details := ResolveFields(map[string]string{"type": "Painting"})

	assert.Equal(t, "Painting", details.Classification)
}

// TestResolveFields_PrefersFirstSynonym verifies list order decides between
// labels that are both present
func TestResolveFields_PrefersFirstSynonym(t *testing.T) {
	details := ResolveFields(map[string]string{
		"object type":    "Sculpture",
		"type":           "Painting",
		"classification": "Drawing",
		"location":       "Paris",
		"provenance":     "Private collection",
		"copyright":      "In copyright",
		"rights":         "Public domain",
	})

	assert.Equal(t, "Drawing", details.Classification)
	assert.Equal(t, "Paris", details.RelatedLocation)
	assert.Equal(t, "In copyright", details.CopyrightStatus)
}

// TestResolveFields_SkipsEmptyValues verifies an empty value falls through
// to the next synonym
func TestResolveFields_SkipsEmptyValues(t *testing.T) {
	details := ResolveFields(map[string]string{
		"medium":    "",
		"materials": "Wood",
	})

	assert.Equal(t, "Wood", details.Medium)
}

// TestResolveFields_AllSynonyms verifies each field reads each of its labels
func TestResolveFields_AllSynonyms(t *testing.T) {
	cases := []struct {
		keys []string
		get  func(marblecrawl.DetailFields) string
	}{
		{ClassificationKeys, func(d marblecrawl.DetailFields) string { return d.Classification }},
		{RelatedLocationKeys, func(d marblecrawl.DetailFields) string { return d.RelatedLocation }},
		{MediumKeys, func(d marblecrawl.DetailFields) string { return d.Medium }},
		{DimensionsKeys, func(d marblecrawl.DetailFields) string { return d.Dimensions }},
		{CreditLineKeys, func(d marblecrawl.DetailFields) string { return d.CreditLine }},
		{CopyrightStatusKeys, func(d marblecrawl.DetailFields) string { return d.CopyrightStatus }},
	}

	for _, c := range cases {
		for _, key := range c.keys {
			details := ResolveFields(map[string]string{key: "value for " + key})
			assert.Equal(t, "value for "+key, c.get(details), "label %q", key)
		}
	}
}

// TestResolveFields_Empty verifies no pairs means no values
func TestResolveFields_Empty(t *testing.T) {
	assert.Equal(t, marblecrawl.EmptyDetailFields(), ResolveFields(map[string]string{}))
	assert.Equal(t, marblecrawl.EmptyDetailFields(), ResolveFields(nil))
}
