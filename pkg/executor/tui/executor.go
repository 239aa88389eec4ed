// Package tui is the terminal timeline: a scrollable 24-hour day on which the
// user drags out a free interval with the mouse and sends the reservation.
//
// The code is split into:
// - executor.go: Options and program lifecycle
// - model.go: state and messages
// - update.go: Bubble Tea Update and mouse/key handling
// - view.go: rendering
// - keys.go: key bindings
// - styles.go: colors
package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/labtime/pkg/autofill"
	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/store"
	"github.com/entrhq/labtime/pkg/timeline"
)

// DefaultTickInterval is how often the now line moves.
const DefaultTickInterval = 60 * time.Second

// Options configures the timeline program.
type Options struct {
	Store  store.Store
	Logger *logging.Logger

	// Refresh reloads the reservation page and re-scrapes it. Nil disables
	// the refresh key; stored data is still reloaded.
	Refresh func(ctx context.Context) error

	// Submit fills and sends the reservation form. Nil disables the submit key.
	Submit func(ctx context.Context) (*autofill.Report, error)

	// Height is the timeline height in layout pixels.
	Height float64

	TickInterval time.Duration

	// Now and Copy default to time.Now and the system clipboard.
	Now  func() time.Time
	Copy func(text string) error
}

func (o *Options) setDefaults() {
	if o.Height <= 0 {
		o.Height = timeline.DefaultHeight
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Copy == nil {
		o.Copy = clipboard.WriteAll
	}
	if o.Logger == nil {
		o.Logger = logging.NewWriterLogger("tui", io.Discard)
	}
}

// Executor runs the timeline until the user quits.
type Executor struct {
	opts Options
}

// NewExecutor creates a timeline executor.
func NewExecutor(opts Options) *Executor {
	opts.setDefaults()
	return &Executor{opts: opts}
}

// Run starts the TUI and blocks until the user exits or ctx is cancelled.
func (e *Executor) Run(ctx context.Context) error {
	e.opts.Logger.Infof("Timeline starting (height %.0f, tick %s)", e.opts.Height, e.opts.TickInterval)

	m := newModel(ctx, e.opts)
	program := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}
