package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/timeparse"
)

// ErrMismatch is returned when the page has different numbers of time-range
// labels and occupant values. Nothing is stored in that case.
var ErrMismatch = errors.New("mismatched <dt> and <dd> elements")

// occupantSeparator splits "name / lab（code）".
const occupantSeparator = " / "

// labInfoPattern matches "Suga lab（24638）" with full-width parentheses.
var labInfoPattern = regexp.MustCompile(`^(.+?)（(.+?)）$`)

// ParseLabInfo splits a lab segment into lab name and code. A segment without
// a bracketed code is all lab name.
func ParseLabInfo(text string) (lab, code string) {
	m := labInfoPattern.FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	return m[1], m[2]
}

// ParseOccupant splits an occupant description into name, lab, and lab code.
func ParseOccupant(text string) (name, lab, code string) {
	parts := strings.Split(text, occupantSeparator)
	name = parts[0]
	if len(parts) > 1 {
		lab, code = ParseLabInfo(parts[1])
	}
	return name, lab, code
}

// Parse turns the page's label/value pairs into records. A label that does not
// parse as a date range yields a record with empty date and time fields.
func Parse(page *Page) ([]reservation.Record, error) {
	if len(page.Labels) != len(page.Values) {
		return nil, fmt.Errorf("%w: %d labels, %d values", ErrMismatch, len(page.Labels), len(page.Values))
	}

	records := make([]reservation.Record, 0, len(page.Labels))
	for i := range page.Labels {
		r := timeparse.ParseDateTimeRange(strings.TrimSpace(page.Labels[i]))
		name, lab, code := ParseOccupant(strings.TrimSpace(page.Values[i]))
		records = append(records, reservation.Record{
			StartDate: r.StartDate,
			StartTime: r.StartTime,
			EndDate:   r.EndDate,
			EndTime:   r.EndTime,
			Name:      name,
			Lab:       lab,
			LabInfo:   code,
		})
	}
	return records, nil
}
