package selection

import (
	"math"

	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/timeparse"
)

const (
	// SlotMinutes is the grid quantum.
	SlotMinutes = 5

	// SlotsPerDay is the number of grid units on the timeline.
	SlotsPerDay = timeparse.MinutesPerDay / SlotMinutes

	// defaultSlots is the length of a click-without-drag selection.
	defaultSlots = 2
)

// Span is a half-open minute-of-day range [Start, End).
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open spans intersect. It is symmetric;
// spans that only touch do not overlap.
func Overlaps(a, b Span) bool {
	return a.Start < b.End && a.End > b.Start
}

// Grid converts between timeline pixels, grid slots, and minutes of the day.
type Grid struct {
	Height float64
}

// Unit returns the pixel height of one 5-minute slot.
func (g Grid) Unit() float64 {
	return g.Height / SlotsPerDay
}

// SnapSlot returns the grid line nearest to y, clamped to the timeline.
func (g Grid) SnapSlot(y float64) int {
	slot := int(math.Floor(y/g.Unit() + 0.5))
	if slot < 0 {
		return 0
	}
	if slot > SlotsPerDay {
		return SlotsPerDay
	}
	return slot
}

// SlotY returns the pixel offset of a grid line.
func (g Grid) SlotY(slot int) float64 {
	return float64(slot) * g.Unit()
}

// Minutes converts a pixel offset to minutes of the day, floored and then
// snapped to the nearest multiple of 5.
func (g Grid) Minutes(y float64) int {
	total := int(math.Floor(y / g.Height * timeparse.MinutesPerDay))
	return int(math.Floor(float64(total)/SlotMinutes+0.5)) * SlotMinutes
}

// MinuteAt converts a pixel offset to an unsnapped minute of the day, for hit tests.
func (g Grid) MinuteAt(y float64) float64 {
	return y / g.Height * timeparse.MinutesPerDay
}

// Clock converts a pixel offset to the hour and minute strings of the
// reservation form. A minute of 60 rolls into the next hour, so the bottom
// edge reads 24:00.
func (g Grid) Clock(y float64) (hour, minute string) {
	return timeparse.FormatClock(g.Minutes(y))
}

// Interval converts a pixel span to the persisted form.
func (g Grid) Interval(top, bottom float64) reservation.Interval {
	sh, sm := g.Clock(top)
	eh, em := g.Clock(bottom)
	return reservation.Interval{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}
}
