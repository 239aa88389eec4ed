// Package scraper extracts reservation records from the reservation page and
// publishes them to the store.
//
// Reading the page is delegated to a PageReader, which only has to return raw
// text; all parsing happens here so it can be tested without a browser.
package scraper

import (
	"context"
)

// Page selectors on the reservation site.
const (
	SelectorList          = ".rsv_body_list"
	SelectorNoData        = "p.nodata"
	SelectorLabels        = "dl.rsv_list dt"
	SelectorValues        = "dl.rsv_list dd"
	SelectorFacility      = ".facname"
	SelectorScheduleImage = "#sec_availability table.rsv_graph tbody img"

	// BlankImageClass marks an empty schedule cell.
	BlankImageClass = "blank"
)

// Page is the raw text the scraper needs from one load of the reservation page.
type Page struct {
	URL string

	// ListFound is false when the reservation list container is missing.
	ListFound bool

	// NoData is set when the list shows its empty-state marker.
	NoData bool

	// Labels and Values are the paired time-range and occupant texts, in page order.
	Labels []string
	Values []string

	FacilityName string

	Image ScheduleImage
}

// ScheduleImage is the first cell of the availability grid.
type ScheduleImage struct {
	Found  bool
	Blank  bool
	HasAlt bool
	Alt    string
}

// PageReader returns the raw contents of the currently loaded reservation page.
type PageReader interface {
	ReadPage(ctx context.Context) (*Page, error)
}
