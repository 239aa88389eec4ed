// Package selection turns pointer drags over the timeline into a single
// reservation interval snapped to a 5-minute grid.
//
// The Engine is a state machine:
//
//	Idle --PointerDown--> Dragging --PointerUp--> Committed --Remove--> Idle
//	                         |
//	                         +--PointerUp (too small, overlap, outside, unsaved)--> Idle
//
// At most one selection exists at a time. A pointer-down while a selection is
// being dragged or is committed does nothing.
package selection

import (
	"context"
	"fmt"

	"github.com/entrhq/labtime/pkg/reservation"
)

// Phase is the engine's state.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Committed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Outcome describes what a pointer event did.
type Outcome int

const (
	Ignored Outcome = iota
	Started
	Updated
	CommittedSelection
	RejectedTooSmall
	RejectedOverlap
	Aborted
	Removed
	RejectedSaveFailed
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Started:
		return "started"
	case Updated:
		return "updated"
	case CommittedSelection:
		return "committed"
	case RejectedTooSmall:
		return "rejected: smaller than one grid unit"
	case RejectedOverlap:
		return "rejected: overlaps an existing reservation"
	case Aborted:
		return "aborted"
	case Removed:
		return "removed"
	case RejectedSaveFailed:
		return "rejected: could not be saved"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Sink persists the committed interval.
type Sink interface {
	SaveInterval(ctx context.Context, iv reservation.Interval) error
	ClearInterval(ctx context.Context) error
}

// Engine holds all drag state for one timeline.
type Engine struct {
	grid   Grid
	sink   Sink
	blocks []Span

	phase     Phase
	moved     bool
	startSlot int
	endSlot   int
	conflict  bool
	interval  reservation.Interval
}

// NewEngine creates an idle engine for a timeline of the given pixel height.
func NewEngine(height float64, sink Sink) *Engine {
	return &Engine{
		grid: Grid{Height: height},
		sink: sink,
	}
}

// Grid returns the engine's pixel/time conversion.
func (e *Engine) Grid() Grid {
	return e.grid
}

// SetBlocks replaces the existing reservations the selection is tested against.
func (e *Engine) SetBlocks(blocks []Span) {
	e.blocks = append(e.blocks[:0:0], blocks...)
}

// Phase returns the current state.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Conflict reports whether the in-progress selection overlaps a reservation.
func (e *Engine) Conflict() bool {
	return e.conflict
}

// Interval returns the committed interval, or the empty interval.
func (e *Engine) Interval() reservation.Interval {
	if e.phase != Committed {
		return reservation.Interval{}
	}
	return e.interval
}

// BlockAt reports whether pixel y falls on an existing reservation.
func (e *Engine) BlockAt(y float64) bool {
	minute := e.grid.MinuteAt(y)
	for _, b := range e.blocks {
		if float64(b.Start) <= minute && minute < float64(b.End) {
			return true
		}
	}
	return false
}

// Rect returns the selection's pixel rectangle. ok is false when there is none.
func (e *Engine) Rect() (top, height float64, ok bool) {
	if e.phase == Idle {
		return 0, 0, false
	}
	lo, hi := e.slots()
	return e.grid.SlotY(lo), e.grid.SlotY(hi - lo), true
}

// Span returns the selection's minute range. ok is false when there is none.
func (e *Engine) Span() (Span, bool) {
	top, height, ok := e.Rect()
	if !ok {
		return Span{}, false
	}
	return Span{Start: e.grid.Minutes(top), End: e.grid.Minutes(top + height)}, true
}

// Label describes the selection as "H:MM - H:MM (N min)".
func (e *Engine) Label() string {
	top, height, ok := e.Rect()
	if !ok {
		return ""
	}
	sh, sm := e.grid.Clock(top)
	eh, em := e.grid.Clock(top + height)
	span, _ := e.Span()
	return fmt.Sprintf("%s:%s - %s:%s (%d min)", sh, sm, eh, em, span.End-span.Start)
}

func (e *Engine) slots() (lo, hi int) {
	if e.startSlot <= e.endSlot {
		return e.startSlot, e.endSlot
	}
	return e.endSlot, e.startSlot
}

func (e *Engine) overlapsAny(s Span) bool {
	for _, b := range e.blocks {
		if Overlaps(s, b) {
			return true
		}
	}
	return false
}

// PointerDown starts a selection at pixel y. It is ignored on an existing
// reservation or while another selection exists.
func (e *Engine) PointerDown(y float64) Outcome {
	if e.phase != Idle || e.BlockAt(y) {
		return Ignored
	}
	e.phase = Dragging
	e.moved = false
	e.conflict = false
	e.startSlot = e.grid.SnapSlot(y)
	e.endSlot = min(e.startSlot+1, SlotsPerDay)
	return Started
}

// PointerMove extends the in-progress selection to pixel y and re-tests it
// against the existing reservations.
func (e *Engine) PointerMove(y float64) Outcome {
	if e.phase != Dragging {
		return Ignored
	}
	e.moved = true
	e.endSlot = e.grid.SnapSlot(y)
	span, _ := e.Span()
	e.conflict = e.overlapsAny(span)
	return Updated
}

// PointerUp ends the drag. inside is false when the pointer was released off
// the timeline, which discards the selection. A committed interval is passed
// to the sink; when the sink fails the selection is discarded, so the engine
// never shows an interval that was not persisted.
func (e *Engine) PointerUp(ctx context.Context, inside bool) (Outcome, error) {
	if e.phase != Dragging {
		return Ignored, nil
	}
	if !inside {
		e.reset()
		return Aborted, nil
	}
	if !e.moved {
		e.endSlot = min(e.startSlot+defaultSlots, SlotsPerDay)
	}

	lo, hi := e.slots()
	if hi-lo < 1 {
		e.reset()
		return RejectedTooSmall, nil
	}

	span, _ := e.Span()
	if e.overlapsAny(span) {
		e.reset()
		return RejectedOverlap, nil
	}

	iv := e.grid.Interval(e.grid.SlotY(lo), e.grid.SlotY(hi))
	if e.sink != nil {
		if err := e.sink.SaveInterval(ctx, iv); err != nil {
			e.reset()
			return RejectedSaveFailed, fmt.Errorf("failed to save selection: %w", err)
		}
	}

	e.phase = Committed
	e.conflict = false
	e.interval = iv
	return CommittedSelection, nil
}

// Remove deletes the committed selection and clears the persisted interval.
func (e *Engine) Remove(ctx context.Context) (Outcome, error) {
	if e.phase != Committed {
		return Ignored, nil
	}
	e.reset()
	if e.sink != nil {
		if err := e.sink.ClearInterval(ctx); err != nil {
			return Removed, fmt.Errorf("failed to clear selection: %w", err)
		}
	}
	return Removed, nil
}

// Restore re-creates the committed selection from a persisted interval, so a
// restart still shows the one selection. Incomplete intervals are ignored.
func (e *Engine) Restore(iv reservation.Interval) bool {
	if e.phase != Idle || !iv.Complete() {
		return false
	}
	start, end := iv.StartMinuteOfDay(), iv.EndMinuteOfDay()
	if end-start < SlotMinutes {
		return false
	}
	e.startSlot = start / SlotMinutes
	e.endSlot = end / SlotMinutes
	e.phase = Committed
	e.interval = iv
	return true
}

// Forget drops the committed selection without touching the sink, for when
// the persisted interval was cleared elsewhere (after a submit).
func (e *Engine) Forget() {
	if e.phase == Committed {
		e.reset()
	}
}

func (e *Engine) reset() {
	e.phase = Idle
	e.moved = false
	e.conflict = false
	e.startSlot = 0
	e.endSlot = 0
	e.interval = reservation.Interval{}
}
