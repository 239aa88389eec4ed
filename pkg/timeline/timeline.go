// Package timeline computes the geometry of the 24-hour day view: where each
// reservation block sits, what color it gets, and where "now" is.
//
// Geometry is expressed in the reference layout's pixel space. Front ends
// scale it to whatever surface they draw on.
package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/timeparse"
)

const (
	// DefaultHeight is the reference timeline height in pixels.
	DefaultHeight = 960.0

	// HoursPerDay is the number of hours the timeline spans.
	HoursPerDay = 24

	// EmptyMessage replaces the blocks when no reservation is stored.
	EmptyMessage = "No reservations found for today. (Refresh may be needed)"

	// CrossDayName labels the block synthesized from the first schedule cell.
	CrossDayName = "Cross Day Reservation"

	// CrossDayLab is the lab of a cross-day block, which the page does not expose.
	CrossDayLab = "--"
)

// Layout is the timeline's vertical scale.
type Layout struct {
	Height float64
}

// NewLayout returns a layout of the given height. Non-positive heights use DefaultHeight.
func NewLayout(height float64) Layout {
	if height <= 0 {
		height = DefaultHeight
	}
	return Layout{Height: height}
}

// PxPerHour returns the pixel height of one hour.
func (l Layout) PxPerHour() float64 {
	return l.Height / HoursPerDay
}

// HourLine is a gridline with its label.
type HourLine struct {
	Hour  int
	Top   float64
	Label string
}

// HourLines returns the 25 gridlines from 0:00 to 24:00.
func (l Layout) HourLines() []HourLine {
	lines := make([]HourLine, 0, HoursPerDay+1)
	for hour := 0; hour <= HoursPerDay; hour++ {
		lines = append(lines, HourLine{
			Hour:  hour,
			Top:   float64(hour) * l.PxPerHour(),
			Label: fmt.Sprintf("%d:00", hour),
		})
	}
	return lines
}

// NowOffset returns the vertical position of the current-time indicator.
func (l Layout) NowOffset(now time.Time) float64 {
	hours := float64(now.Hour()) + float64(now.Minute())/60
	return math.Min(hours, HoursPerDay) * l.PxPerHour()
}

// Block is one drawn reservation.
type Block struct {
	Record   reservation.Record
	Date     string
	Top      float64
	Height   float64
	StartMin int
	EndMin   int
	Style    Style
}

// Title is the hover text of the block.
func (b Block) Title() string {
	return fmt.Sprintf("%s (%s)\n%s–%s", b.Record.Name, b.Record.Lab, b.Record.StartTime, b.Record.EndTime)
}

// Label is the text drawn inside the block.
func (b Block) Label() string {
	return fmt.Sprintf("%s (%s Lab) %s–%s", b.Record.Name, b.Record.Lab, b.Record.StartTime, b.Record.EndTime)
}

// Span returns the block's minute range on the current day.
func (b Block) Span() (start, end int) {
	return b.StartMin, b.EndMin
}

// singleDayBlock places a block from start to end decimal hours on date.
func (l Layout) singleDayBlock(date string, start, end float64, rec reservation.Record) Block {
	return Block{
		Record:   rec,
		Date:     date,
		Top:      math.Min(start, HoursPerDay) * l.PxPerHour(),
		Height:   math.Max(0, (math.Min(end, HoursPerDay)-start)*l.PxPerHour()),
		StartMin: timeparse.DecimalHoursToMinutes(start),
		EndMin:   timeparse.DecimalHoursToMinutes(end),
		Style:    StyleFor(rec.Lab),
	}
}

// BlockFor places a stored reservation. A reservation that crosses midnight
// is drawn from its start to 24:00 only; the remainder after midnight is not
// drawn on this day.
func (l Layout) BlockFor(rec reservation.Record) Block {
	start := timeparse.ParseTimeToDecimalHours(rec.StartTime)
	end := timeparse.ParseTimeToDecimalHours(rec.EndTime)
	if rec.CrossesMidnight() {
		end = HoursPerDay
	}
	return l.singleDayBlock(rec.StartDate, start, end, rec)
}

// CrossDayBlock synthesizes the block for a reservation that began on the
// previous day, from the first schedule cell's alt text. ok is false when the
// alt text is empty, unparseable, or describes a same-day reservation.
func (l Layout) CrossDayBlock(firstImgAlt string) (Block, bool) {
	if firstImgAlt == "" {
		return Block{}, false
	}
	r := timeparse.ParseDateTimeRange(firstImgAlt)
	if !r.CrossesMidnight() {
		return Block{}, false
	}
	rec := reservation.Record{
		Name:      CrossDayName,
		Lab:       CrossDayLab,
		StartDate: r.StartDate,
		StartTime: r.StartTime,
		EndDate:   r.EndDate,
		EndTime:   r.EndTime,
	}
	return l.singleDayBlock(r.EndDate, 0, timeparse.ParseTimeToDecimalHours(r.EndTime), rec), true
}

// View is everything drawn on the timeline apart from gridlines and the
// selection.
type View struct {
	Facility string
	Blocks   []Block

	// Empty is set when no reservation is stored; EmptyMessage is drawn then.
	Empty bool
}

// Build lays out the stored reservations plus any cross-day block.
func (l Layout) Build(records []reservation.Record, meta reservation.FacilityMetadata) View {
	v := View{Facility: meta.FacilityName}
	if block, ok := l.CrossDayBlock(meta.FirstImgAlt); ok {
		v.Blocks = append(v.Blocks, block)
	}
	for _, rec := range records {
		v.Blocks = append(v.Blocks, l.BlockFor(rec))
	}
	v.Empty = len(records) == 0
	return v
}

// Header is the title line shown above the timeline.
func (v View) Header() string {
	return fmt.Sprintf("Reservations (%s)", v.Facility)
}
