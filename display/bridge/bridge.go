// Package bridge connects the ui toolkit to a Pixel Transport.
//
// It binds the toolkit's single window, consumes rendered scanlines, owns the
// repaint loop and provides the toolkit's monotonic time source.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clockface/display/gfx"
	"clockface/display/ui"
	"clockface/hal"
)

// ErrSurfaceAlreadyBound is returned when a second window is requested.
var ErrSurfaceAlreadyBound = errors.New("bridge: surface already bound")

const DefaultInterval = 10 * time.Millisecond

type Options struct {
	// Interval is the sleep between loop iterations. Zero means DefaultInterval.
	Interval time.Duration
	// Logger receives transport failures. May be nil.
	Logger hal.Logger
}

// Bridge is the rendering bridge. All methods must be called from the render goroutine.
type Bridge struct {
	t        hal.Transport
	format   hal.PixelFormat
	interval time.Duration
	log      hal.Logger
	start    time.Time
	canvas   *gfx.Canvas

	// Scanline buffer: one row of toolkit pixels and one row of native pixels, reused.
	line   []ui.Pixel
	native []uint16

	win      *ui.Window
	frameErr error
	failures uint64
}

// New allocates the scanline buffer once for the transport's width.
func New(t hal.Transport, opts Options) *Bridge {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	w, _ := t.Size()
	return &Bridge{
		t:        t,
		format:   t.Format(),
		interval: opts.Interval,
		log:      opts.Logger,
		start:    time.Now(),
		canvas:   gfx.NewCanvas(t),
		line:     make([]ui.Pixel, w),
		native:   make([]uint16, w),
	}
}

// CreateSurface creates the frame window sized to the panel. Only one may exist.
func (b *Bridge) CreateSurface() (*ui.Window, error) {
	if b.win != nil {
		return nil, ErrSurfaceAlreadyBound
	}
	w, h := b.t.Size()
	b.win = ui.NewWindow(w, h, b.DurationSinceStart)
	return b.win, nil
}

// Canvas returns the immediate-mode target on the same transport.
func (b *Bridge) Canvas() gfx.Target { return b.canvas }

// Displayer returns the canvas as a drivers.Displayer, e.g. for a boot console.
func (b *Bridge) Displayer() *gfx.Canvas { return b.canvas }

// DurationSinceStart is the toolkit's time source. It never decreases.
func (b *Bridge) DurationSinceStart() time.Duration {
	return time.Since(b.start)
}

// Failures counts frames cut short by a transport error.
func (b *Bridge) Failures() uint64 { return b.failures }

// Run is the repaint loop. It returns only when ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	tk := time.NewTicker(b.interval)
	defer tk.Stop()
	for {
		b.Step()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
		}
	}
}

// Step runs one loop iteration without sleeping.
// While an animation runs the repaint is skipped; the final frame is drawn once it ends.
func (b *Bridge) Step() {
	if b.win == nil {
		return
	}
	b.win.UpdateTimersAndAnimations()
	if b.win.HasActiveAnimations() {
		return
	}
	b.frameErr = nil
	b.win.DrawIfNeeded(b.ProcessLine)
	if b.frameErr != nil {
		b.failures++
		if b.failures == 1 || b.failures%100 == 0 {
			b.logf("bridge: frame dropped (%d): %v", b.failures, b.frameErr)
		}
		b.win.Invalidate()
	}
}

// ProcessLine renders row line over columns [start, end) and writes it with one WriteRect.
// After a transport error the remaining rows of the frame are skipped.
func (b *Bridge) ProcessLine(line, start, end int, render func(buf []ui.Pixel)) {
	if b.frameErr != nil {
		return
	}
	if start < 0 {
		start = 0
	}
	if end > len(b.line) {
		end = len(b.line)
	}
	if end <= start {
		return
	}

	buf := b.line[start:end]
	render(buf)

	out := b.native[start:end]
	for i, p := range buf {
		out[i] = hal.FromRGB565(p, b.format)
	}
	if err := b.t.WriteRect(int16(start), int16(line), int16(end-start), 1, out); err != nil {
		b.frameErr = fmt.Errorf("line %d: %w", line, err)
	}
}

func (b *Bridge) logf(format string, args ...any) {
	if b.log == nil {
		return
	}
	b.log.WriteLineString(fmt.Sprintf(format, args...))
}
