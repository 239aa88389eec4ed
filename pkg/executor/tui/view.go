package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/labtime/pkg/selection"
	"github.com/entrhq/labtime/pkg/timeline"
)

// View renders the timeline.
func (m *model) View() string {
	if !m.ready {
		return "Loading reservations…"
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.buildHeader(), m.buildSubheader())

	end := m.offset + m.visibleRows()
	for row := m.offset; row < end; row++ {
		if row < timelineRows {
			lines = append(lines, m.renderRow(row))
		} else {
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.buildStatus(), m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m *model) bodyWidth() int {
	if w := m.width - gutterWidth; w > 0 {
		return w
	}
	return 1
}

func (m *model) buildHeader() string {
	title := headerStyle.Render(m.view.Header())
	clock := tipsStyle.Render(fmt.Sprintf("now %d:%02d", m.now.Hour(), m.now.Minute()))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(clock)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + clock
}

func (m *model) buildSubheader() string {
	switch {
	case m.busy != "":
		return tipsStyle.Render(m.busy)
	case !m.loaded:
		return tipsStyle.Render("Loading reservations…")
	case m.view.Empty:
		return tipsStyle.Render(timeline.EmptyMessage)
	default:
		return tipsStyle.Render(fmt.Sprintf("%d reservation(s) · drag to select, right-click to remove", len(m.view.Blocks)))
	}
}

func (m *model) buildStatus() string {
	var parts []string
	if m.engine.Phase() != selection.Idle {
		style := statusStyle
		if m.engine.Conflict() {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.engine.Label()))
	}
	if m.status != "" {
		style := statusStyle
		if m.isError {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

// renderRow draws one 5-minute row: gutter, then selection, block, now line
// or gridline, in that order of precedence.
func (m *model) renderRow(row int) string {
	width := m.bodyWidth()
	minute := row * selection.SlotMinutes
	isNow := row == m.nowRow()

	hourLabel, isHour := m.hourRows[row]

	gutter := gutterStyle.Render(strings.Repeat(" ", gutterWidth))
	switch {
	case isHour:
		gutter = hourStyle.Render(fit(fmt.Sprintf("%5s ", hourLabel), gutterWidth))
	case isNow:
		gutter = nowStyle.Render(fit("  now ▶", gutterWidth))
	}

	if span, ok := m.engine.Span(); ok && minute >= span.Start && minute < span.End {
		style := selectionStyle
		if m.engine.Conflict() {
			style = conflictStyle
		}
		text := ""
		if minute == span.Start {
			text = " " + m.engine.Label()
		}
		return gutter + style.Render(fit(text, width))
	}

	if b, ok := m.blockAt(row); ok {
		body, edge := blockStyle(b.Style.Background, b.Style.Outline)
		text := ""
		if top, _ := m.blockRows(b); row == top || row == m.offset {
			text = " " + b.Label()
		}
		return gutter + edge.Render("▌") + body.Render(fit(text, width-1))
	}

	if isNow {
		return gutter + nowStyle.Render(strings.Repeat("─", width))
	}
	if isHour {
		return gutter + gridStyle.Render(strings.Repeat("┄", width))
	}
	return gutter
}

// blockAt returns the block drawn on row, if any.
func (m *model) blockAt(row int) (timeline.Block, bool) {
	for _, b := range m.view.Blocks {
		if top, end := m.blockRows(b); top <= row && row < end {
			return b, true
		}
	}
	return timeline.Block{}, false
}

// fit truncates or pads s to exactly w terminal cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	for lipgloss.Width(string(runes)) > w {
		runes = runes[:len(runes)-1]
	}
	s = string(runes)
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}
