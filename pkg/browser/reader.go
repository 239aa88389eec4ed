package browser

import (
	"context"
	"strings"

	"github.com/entrhq/labtime/pkg/scraper"
)

// PageReader reads the live reservation page for the scraper.
type PageReader struct {
	driver Driver
}

// NewPageReader creates a reader over d.
func NewPageReader(d Driver) *PageReader {
	return &PageReader{driver: d}
}

var _ scraper.PageReader = (*PageReader)(nil)

// ReadPage implements scraper.PageReader.
func (r *PageReader) ReadPage(ctx context.Context) (*scraper.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := &scraper.Page{URL: r.driver.URL()}

	facility, _, err := r.driver.Text(scraper.SelectorFacility)
	if err != nil {
		return nil, err
	}
	page.FacilityName = strings.TrimSpace(facility)

	if page.ListFound, err = r.driver.Exists(scraper.SelectorList); err != nil {
		return nil, err
	}
	if page.ListFound {
		if page.NoData, err = r.driver.Exists(within(scraper.SelectorNoData)); err != nil {
			return nil, err
		}
		if page.Labels, err = r.driver.Texts(within(scraper.SelectorLabels)); err != nil {
			return nil, err
		}
		if page.Values, err = r.driver.Texts(within(scraper.SelectorValues)); err != nil {
			return nil, err
		}
	}

	if page.Image, err = r.readScheduleImage(); err != nil {
		return nil, err
	}
	return page, nil
}

func (r *PageReader) readScheduleImage() (scraper.ScheduleImage, error) {
	class, found, err := r.driver.Attribute(scraper.SelectorScheduleImage, "class")
	if err != nil || !found {
		return scraper.ScheduleImage{}, err
	}
	alt, _, err := r.driver.Attribute(scraper.SelectorScheduleImage, "alt")
	if err != nil {
		return scraper.ScheduleImage{}, err
	}

	img := scraper.ScheduleImage{Found: true, Alt: alt, HasAlt: alt != ""}
	for _, c := range strings.Fields(class) {
		if c == scraper.BlankImageClass {
			img.Blank = true
		}
	}
	return img, nil
}

// within scopes a selector to the reservation list container.
func within(selector string) string {
	return scraper.SelectorList + " " + selector
}
