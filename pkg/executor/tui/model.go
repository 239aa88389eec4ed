package tui

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/labtime/pkg/autofill"
	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/selection"
	"github.com/entrhq/labtime/pkg/store"
	"github.com/entrhq/labtime/pkg/timeline"
)

const (
	// headerRows and footerRows frame the scrolling timeline.
	headerRows = 2
	footerRows = 2

	// gutterWidth is the hour-label column.
	gutterWidth = 7

	// timelineRows is one row per grid slot plus the 24:00 line.
	timelineRows = selection.SlotsPerDay + 1

	wheelStep = 3
)

// model represents the state of the timeline.
type model struct {
	ctx  context.Context
	opts Options

	layout timeline.Layout
	engine *selection.Engine
	view   timeline.View

	keys keyMap
	help help.Model

	// Window dimensions
	width  int
	height int
	ready  bool

	// offset is the first timeline row on screen.
	offset int

	// dragRow is the row the current drag started on.
	dragRow int

	// hourRows maps timeline rows to their gridline label.
	hourRows map[int]string

	// hovering is set while the status shows a block title.
	hovering bool

	now     time.Time
	loaded  bool
	busy    string
	status  string
	isError bool
}

// tickMsg moves the now line.
type tickMsg time.Time

// dataMsg carries a fresh read of the store.
type dataMsg struct {
	records  []reservation.Record
	meta     reservation.FacilityMetadata
	interval reservation.Interval
	hasIv    bool
	err      error
}

// refreshDoneMsg signals that the page was reloaded and scraped.
type refreshDoneMsg struct{ err error }

// submitDoneMsg signals that the autofill exchanges finished.
type submitDoneMsg struct {
	report *autofill.Report
	err    error
}

func newModel(ctx context.Context, opts Options) *model {
	opts.setDefaults()
	m := &model{
		ctx:    ctx,
		opts:   opts,
		layout: timeline.NewLayout(opts.Height),
		engine: selection.NewEngine(opts.Height, store.IntervalSink{Store: opts.Store}),
		keys:   defaultKeyMap(),
		help:   help.New(),
		now:    opts.Now(),
	}
	m.hourRows = make(map[int]string, timeline.HoursPerDay+1)
	for _, line := range m.layout.HourLines() {
		m.hourRows[m.pxRow(line.Top)] = line.Label
	}
	m.view = m.layout.Build(nil, reservation.FacilityMetadata{FacilityName: store.DefaultFacilityName})
	return m
}

// Init loads the stored data and starts the clock.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.tickCmd())
}

func (m *model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadCmd reads reservations, facility metadata and the selected interval.
func (m *model) loadCmd() tea.Cmd {
	ctx, s := m.ctx, m.opts.Store
	return func() tea.Msg {
		var msg dataMsg
		if msg.records, msg.err = store.Reservations(ctx, s); msg.err != nil {
			return msg
		}
		if msg.meta, msg.err = store.Facility(ctx, s); msg.err != nil {
			return msg
		}
		msg.interval, msg.hasIv, msg.err = store.ReserveInfo(ctx, s)
		return msg
	}
}

func (m *model) refreshCmd() tea.Cmd {
	ctx, refresh := m.ctx, m.opts.Refresh
	return func() tea.Msg {
		return refreshDoneMsg{err: refresh(ctx)}
	}
}

func (m *model) submitCmd() tea.Cmd {
	ctx, submit := m.ctx, m.opts.Submit
	return func() tea.Msg {
		report, err := submit(ctx)
		return submitDoneMsg{report: report, err: err}
	}
}

// unit is the pixel height of one timeline row.
func (m *model) unit() float64 {
	return m.engine.Grid().Unit()
}

// pxRow returns the timeline row holding layout pixel y.
func (m *model) pxRow(y float64) int {
	return int(math.Floor(y/m.unit() + 1e-6))
}

// blockRows returns the rows a block covers, end exclusive.
func (m *model) blockRows(b timeline.Block) (top, end int) {
	top = m.pxRow(b.Top)
	end = int(math.Ceil((b.Top+b.Height)/m.unit() - 1e-6))
	return top, end
}

// visibleRows is the number of timeline rows that fit on screen.
func (m *model) visibleRows() int {
	rows := m.height - headerRows - footerRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *model) maxOffset() int {
	if limit := timelineRows - m.visibleRows(); limit > 0 {
		return limit
	}
	return 0
}

func (m *model) scroll(delta int) {
	m.offset += delta
	if m.offset < 0 {
		m.offset = 0
	}
	if limit := m.maxOffset(); m.offset > limit {
		m.offset = limit
	}
}

// nowRow is the timeline row the now line falls in.
func (m *model) nowRow() int {
	return m.pxRow(m.layout.NowOffset(m.now))
}

// centerOn scrolls so row sits in the middle of the screen.
func (m *model) centerOn(row int) {
	m.offset = 0
	m.scroll(row - m.visibleRows()/2)
}

func (m *model) setStatus(text string, isError bool) {
	m.hovering = false
	m.status = text
	m.isError = isError
}
