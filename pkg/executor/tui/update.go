package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/labtime/pkg/autofill"
	"github.com/entrhq/labtime/pkg/browser"
	"github.com/entrhq/labtime/pkg/selection"
)

const noPageStatus = "No reservation page is open; start labtime with -url to send requests"

// Update handles all state updates for the timeline.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := !m.ready
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ready = true
		if first {
			m.centerOn(m.nowRow())
		} else {
			m.scroll(0)
		}
		return m, nil

	case tickMsg:
		m.now = m.opts.Now()
		return m, tea.Batch(m.tickCmd(), m.loadCmd())

	case dataMsg:
		return m.handleData(msg)

	case refreshDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.opts.Logger.Errorf("Refresh failed: %v", msg.err)
			m.setStatus(fmt.Sprintf("Refresh failed: %v", msg.err), true)
		} else {
			m.setStatus("Reservations refreshed", false)
		}
		return m, m.loadCmd()

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *model) handleData(msg dataMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.opts.Logger.Errorf("Failed to load stored reservations: %v", msg.err)
		m.setStatus(fmt.Sprintf("Failed to load reservations: %v", msg.err), true)
		return m, nil
	}

	m.view = m.layout.Build(msg.records, msg.meta)
	spans := make([]selection.Span, 0, len(m.view.Blocks))
	for _, b := range m.view.Blocks {
		start, end := b.Span()
		spans = append(spans, selection.Span{Start: start, End: end})
	}
	m.engine.SetBlocks(spans)
	m.loaded = true

	// The stored interval is the source of truth for the one selection.
	switch {
	case m.engine.Phase() == selection.Idle && msg.hasIv:
		m.engine.Restore(msg.interval)
	case m.engine.Phase() == selection.Committed && msg.interval.IsEmpty():
		m.engine.Forget()
	}
	return m, nil
}

func (m *model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = ""
	switch {
	case errors.Is(msg.err, browser.ErrNoActivePage):
		m.setStatus(noPageStatus, true)
	case errors.Is(msg.err, autofill.ErrRequiredDataMissing):
		m.setStatus("Required data not found. Run `labtime profile` and select an interval first.", true)
	case msg.err != nil:
		m.setStatus(fmt.Sprintf("Request failed: %v", msg.err), true)
	default:
		m.setStatus("Request sent", false)
	}
	return m, m.loadCmd()
}

// rowAt converts a screen line to a timeline row. ok is false outside the
// timeline area.
func (m *model) rowAt(screenY int) (row int, ok bool) {
	line := screenY - headerRows
	if line < 0 || line >= m.visibleRows() {
		return 0, false
	}
	row = m.offset + line
	if row >= timelineRows {
		return 0, false
	}
	return row, true
}

// rowY returns the layout pixel at frac of the way down row.
func (m *model) rowY(row int, frac float64) float64 {
	return (float64(row) + frac) * m.unit()
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-wheelStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scroll(wheelStep)
		return m, nil
	}

	row, inside := m.rowAt(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if !inside {
			return m, nil
		}
		if msg.Button == tea.MouseButtonRight {
			return m.removeAt(row)
		}
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.engine.PointerDown(m.rowY(row, 0.25)) == selection.Started {
			m.dragRow = row
			m.setStatus("", false)
		}

	case tea.MouseActionMotion:
		if m.engine.Phase() != selection.Dragging {
			m.hover(row, inside)
			return m, nil
		}
		if !inside {
			return m, nil
		}
		// Dragging down includes the row under the pointer.
		y := m.rowY(row, 0)
		if row >= m.dragRow {
			y = m.rowY(row, 1)
		}
		m.engine.PointerMove(y)

	case tea.MouseActionRelease:
		outcome, err := m.engine.PointerUp(m.ctx, inside)
		m.reportOutcome(outcome, err)
	}
	return m, nil
}

// hover shows the title of the block under the pointer.
func (m *model) hover(row int, inside bool) {
	if inside {
		if b, ok := m.blockAt(row); ok {
			m.setStatus(strings.ReplaceAll(b.Title(), "\n", " "), false)
			m.hovering = true
			return
		}
	}
	if m.hovering {
		m.setStatus("", false)
	}
}

func (m *model) removeAt(row int) (tea.Model, tea.Cmd) {
	span, ok := m.engine.Span()
	if !ok || m.engine.Phase() != selection.Committed {
		return m, nil
	}
	minute := row * selection.SlotMinutes
	if minute < span.Start || minute >= span.End {
		return m, nil
	}
	return m.remove()
}

func (m *model) remove() (tea.Model, tea.Cmd) {
	outcome, err := m.engine.Remove(m.ctx)
	m.reportOutcome(outcome, err)
	return m, nil
}

func (m *model) reportOutcome(outcome selection.Outcome, err error) {
	if err != nil {
		m.opts.Logger.Errorf("Selection %s: %v", outcome, err)
		m.setStatus(err.Error(), true)
		return
	}
	switch outcome {
	case selection.CommittedSelection:
		iv := m.engine.Interval()
		m.opts.Logger.Infof("Selected %s:%s - %s:%s", iv.StartHour, iv.StartMinute, iv.EndHour, iv.EndMinute)
		m.setStatus("Selected "+m.engine.Label(), false)
	case selection.RejectedOverlap:
		m.setStatus("Selection overlaps an existing reservation", true)
	case selection.RejectedTooSmall:
		m.setStatus("Selection must be at least 5 minutes", true)
	case selection.Aborted:
		m.setStatus("Selection cancelled", false)
	case selection.Removed:
		m.setStatus("Selection removed", false)
	}
}

func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-m.visibleRows())
	case key.Matches(msg, m.keys.PageDn):
		m.scroll(m.visibleRows())
	case key.Matches(msg, m.keys.Now):
		m.now = m.opts.Now()
		m.centerOn(m.nowRow())

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Refresh):
		if m.busy != "" {
			return m, nil
		}
		if m.opts.Refresh == nil {
			return m, m.loadCmd()
		}
		m.busy = "Refreshing…"
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Submit):
		if m.busy != "" {
			return m, nil
		}
		if m.opts.Submit == nil {
			m.setStatus(noPageStatus, true)
			return m, nil
		}
		m.busy = "Sending request…"
		return m, m.submitCmd()

	case key.Matches(msg, m.keys.Copy):
		return m.copySelection()

	case key.Matches(msg, m.keys.Remove):
		return m.remove()
	}
	return m, nil
}

func (m *model) copySelection() (tea.Model, tea.Cmd) {
	if m.engine.Phase() != selection.Committed {
		m.setStatus("Nothing selected", true)
		return m, nil
	}
	label := m.engine.Label()
	if err := m.opts.Copy(label); err != nil {
		m.opts.Logger.Warnf("Clipboard write failed: %v", err)
		m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
		return m, nil
	}
	m.setStatus("Copied "+label, false)
	return m, nil
}
