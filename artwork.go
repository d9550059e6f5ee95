package marblecrawl

// Columns is the header of the crawler's output table, in order.
var Columns = []string{
	"title",
	"link",
	"artist",
	"year",
	"classification",
	"related_location",
	"medium",
	"dimensions",
	"credit_line",
	"copyright_status",
}

// BasicRecord is what a single listing card yields.
type BasicRecord struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Artist string `json:"artist"`
	Year   string `json:"year"`
}

// DetailFields holds the metadata scraped from an artwork's detail page.
// Any field may be empty if the page did not carry it.
type DetailFields struct {
	Classification  string `json:"classification"`
	RelatedLocation string `json:"related_location"`
	Medium          string `json:"medium"`
	Dimensions      string `json:"dimensions"`
	CreditLine      string `json:"credit_line"`
	CopyrightStatus string `json:"copyright_status"`
}

// EmptyDetailFields returns a DetailFields with every field empty. Used when
// a record has no link or its detail page could not be scraped.
func EmptyDetailFields() DetailFields {
	return DetailFields{}
}

// DetailedRecord is one row of the output table: a BasicRecord merged with
// its DetailFields. Field order matches Columns.
type DetailedRecord struct {
	Title           string `csv:"title" json:"title"`
	Link            string `csv:"link" json:"link"`
	Artist          string `csv:"artist" json:"artist"`
	Year            string `csv:"year" json:"year"`
	Classification  string `csv:"classification" json:"classification"`
	RelatedLocation string `csv:"related_location" json:"related_location"`
	Medium          string `csv:"medium" json:"medium"`
	Dimensions      string `csv:"dimensions" json:"dimensions"`
	CreditLine      string `csv:"credit_line" json:"credit_line"`
	CopyrightStatus string `csv:"copyright_status" json:"copyright_status"`
}

// NewDetailedRecord merges a basic record with its detail fields.
func NewDetailedRecord(basic BasicRecord, details DetailFields) DetailedRecord {
	return DetailedRecord{
		Title:           basic.Title,
		Link:            basic.Link,
		Artist:          basic.Artist,
		Year:            basic.Year,
		Classification:  details.Classification,
		RelatedLocation: details.RelatedLocation,
		Medium:          details.Medium,
		Dimensions:      details.Dimensions,
		CreditLine:      details.CreditLine,
		CopyrightStatus: details.CopyrightStatus,
	}
}

// Basic returns the listing part of the record.
func (r DetailedRecord) Basic() BasicRecord {
	return BasicRecord{
		Title:  r.Title,
		Link:   r.Link,
		Artist: r.Artist,
		Year:   r.Year,
	}
}

// Details returns the detail-page part of the record.
func (r DetailedRecord) Details() DetailFields {
	return DetailFields{
		Classification:  r.Classification,
		RelatedLocation: r.RelatedLocation,
		Medium:          r.Medium,
		Dimensions:      r.Dimensions,
		CreditLine:      r.CreditLine,
		CopyrightStatus: r.CopyrightStatus,
	}
}

// Row returns the record's values in Columns order.
func (r DetailedRecord) Row() []string {
	return []string{
		r.Title,
		r.Link,
		r.Artist,
		r.Year,
		r.Classification,
		r.RelatedLocation,
		r.Medium,
		r.Dimensions,
		r.CreditLine,
		r.CopyrightStatus,
	}
}

// AugmentedRecord is a row of the post-processed table: the original cells
// plus a derived continent. A nil Continent means no continent could be
// derived.
type AugmentedRecord struct {
	Cells     []string
	Continent *string
}
