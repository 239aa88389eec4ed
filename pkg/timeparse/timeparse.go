// Package timeparse converts the reservation page's textual dates and times
// into structured values and minute/hour quantities.
package timeparse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// dateTimeRangePattern matches "1/20 22:00 ～ 1/21 2:00". The second date is optional.
var dateTimeRangePattern = regexp.MustCompile(`(\d+/\d+)\s+(\d+:\d+)\s*～\s*(?:(\d+/\d+)\s+)?(\d+:\d+)`)

// MinutesPerDay is the length of the timeline in minutes.
const MinutesPerDay = 24 * 60

// Range is a parsed "M/D H:MM ～ [M/D] H:MM" range.
// The zero value means the text could not be parsed.
type Range struct {
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
}

// Valid reports whether the range was recovered from text.
func (r Range) Valid() bool {
	return r.StartDate != "" && r.StartTime != "" && r.EndTime != ""
}

// CrossesMidnight reports whether the range ends on a later date than it starts.
func (r Range) CrossesMidnight() bool {
	return r.Valid() && r.EndDate != r.StartDate
}

// ParseDateTimeRange extracts a date/time range from text. A missing end date
// defaults to the start date. Unmatched text returns the zero Range.
func ParseDateTimeRange(text string) Range {
	m := dateTimeRangePattern.FindStringSubmatch(text)
	if m == nil {
		return Range{}
	}
	r := Range{
		StartDate: m[1],
		StartTime: m[2],
		EndDate:   m[3],
		EndTime:   m[4],
	}
	if r.EndDate == "" {
		r.EndDate = r.StartDate
	}
	return r
}

// ParseClock splits "H:MM" into hour and minute.
func ParseClock(text string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(strings.TrimSpace(text), ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(m)
	if err != nil {
		return 0, 0, false
	}
	return hour, minute, true
}

// ParseTimeToDecimalHours converts "H:MM" to hour + minute/60.
// Malformed text yields 0.
func ParseTimeToDecimalHours(text string) float64 {
	h, m, ok := ParseClock(text)
	if !ok {
		return 0
	}
	return float64(h) + float64(m)/60
}

// DecimalHoursToMinutes rounds decimal hours to the nearest whole minute.
func DecimalHoursToMinutes(hours float64) int {
	return roundHalfUp(hours * 60)
}

// FormatClock renders a minute-of-day as the unpadded hour and zero-padded
// minute strings the reservation form accepts.
func FormatClock(minuteOfDay int) (hour, minute string) {
	return strconv.Itoa(minuteOfDay / 60), fmt.Sprintf("%02d", minuteOfDay%60)
}

// roundHalfUp rounds x to the nearest integer, with halves rounding toward +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
