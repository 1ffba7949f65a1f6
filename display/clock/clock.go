// Package clock draws an analog and digital clock straight onto a gfx.Target,
// repainting only the parts whose value changed since the previous update.
package clock

import (
	"fmt"
	"image/color"
	"time"

	"clockface/display/gfx"
	"clockface/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	DefaultMargin = 17

	hourHandInset   = 20
	minuteHandInset = 15
	secondHandInset = 12

	tickLength    = 5
	numeralInset  = 8
	numeralDrop   = 3
	ringStroke    = 2
	hubRadius     = 2
	textBaseline  = 12
	dateFromFloor = 4
	dateColumns   = 10 // YYYY-MM-DD
)

// State is what the panel currently shows. The initial sentinel never matches a real time.
type State struct {
	Hour, Minute, Second int
	Year, Month, Day     int
}

var sentinel = State{Hour: 25, Minute: 60, Second: 60}

type Options struct {
	// Width and Height of the target. Zero means the 128x128 panel.
	Width, Height int16
	// Margin between the face and the shorter screen edge. Zero means DefaultMargin.
	Margin int16

	Background color.RGBA
	Foreground color.RGBA
	Hour       color.RGBA
	Minute     color.RGBA
	Second     color.RGBA

	// Offset is added to UTC before display.
	Offset time.Duration
	// Now reads the wall clock. Nil means time.Now.
	Now func() time.Time

	// DigitFont renders the time and date, NumeralFont the face numerals.
	DigitFont   tinyfont.Fonter
	NumeralFont tinyfont.Fonter
}

func (o *Options) setDefaults() {
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = hal.PanelWidth, hal.PanelHeight
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.DigitFont == nil {
		o.DigitFont = &proggy.TinySZ8pt7b
	}
	if o.NumeralFont == nil {
		o.NumeralFont = &tinyfont.Picopixel
	}
	if o.Foreground == (color.RGBA{}) {
		o.Foreground = gfx.ColorForeground
	}
	if o.Background == (color.RGBA{}) {
		o.Background = gfx.ColorBackground
	}
	if o.Hour == (color.RGBA{}) {
		o.Hour = gfx.ColorHourHand
	}
	if o.Minute == (color.RGBA{}) {
		o.Minute = gfx.ColorMinuteHand
	}
	if o.Second == (color.RGBA{}) {
		o.Second = gfx.ColorSecondHand
	}
}

type field struct {
	x, y  int16
	text  string
	drawn gfx.Rect
}

// Renderer is the differential clock renderer. It is not safe for concurrent use.
type Renderer struct {
	opts   Options
	cx, cy int16
	radius int16

	state State
	// Field order is the repaint order: seconds change most often.
	sec, min, hour, date field

	faceDirty bool
	damaged   bool
}

// New returns a renderer whose first Update draws everything.
func New(opts Options) *Renderer {
	opts.setDefaults()
	d := opts.Width
	if opts.Height < d {
		d = opts.Height
	}
	d -= 2 * opts.Margin

	fw := gfx.TextWidth(opts.DigitFont, "0")
	base := (opts.Width - fw*8) / 2
	r := &Renderer{
		opts:   opts,
		cx:     opts.Width / 2,
		cy:     opts.Height / 2,
		radius: d / 2,
		hour:   field{x: base, y: textBaseline},
		min:    field{x: base + 3*fw, y: textBaseline},
		sec:    field{x: base + 6*fw, y: textBaseline},
		date:   field{x: (opts.Width - fw*dateColumns) / 2, y: opts.Height - dateFromFloor},
	}
	r.Invalidate()
	return r
}

// Radius returns the face radius.
func (r *Renderer) Radius() int16 { return r.radius }

// Center returns the face centre.
func (r *Renderer) Center() (x, y int16) { return r.cx, r.cy }

// State returns the committed state.
func (r *Renderer) State() State { return r.state }

// Invalidate forgets what is on screen: the next Update draws the face and every
// field without erasing. Call it after something else painted over the clock.
func (r *Renderer) Invalidate() {
	r.state = sentinel
	r.faceDirty = true
	r.sec.drawn, r.min.drawn, r.hour.drawn, r.date.drawn = gfx.Rect{}, gfx.Rect{}, gfx.Rect{}, gfx.Rect{}
}

// Now returns the time the clock displays.
func (r *Renderer) Now() time.Time {
	return r.opts.Now().UTC().Add(r.opts.Offset)
}

// Update redraws what changed since the last successful call and commits the new state.
// On error the screen content is unknown; the next call clears the target and starts over.
func (r *Renderer) Update(t gfx.Target) error {
	if r.damaged {
		r.Invalidate()
		if err := t.Fill(r.opts.Background); err != nil {
			return fmt.Errorf("clock: clear: %w", err)
		}
		r.damaged = false
	}

	now := r.Now()
	next := State{
		Hour: now.Hour(), Minute: now.Minute(), Second: now.Second(),
		Year: now.Year(), Month: int(now.Month()), Day: now.Day(),
	}

	if err := r.update(t, next); err != nil {
		r.damaged = true
		return err
	}
	r.state = next
	r.faceDirty = false
	return nil
}

func (r *Renderer) update(t gfx.Target, next State) error {
	if r.faceDirty {
		if err := r.drawFace(t); err != nil {
			return fmt.Errorf("clock: face: %w", err)
		}
	}
	if err := r.drawHands(t, next); err != nil {
		return fmt.Errorf("clock: hands: %w", err)
	}

	prev := r.state
	if err := r.updateField(t, &r.sec, prev.Second != next.Second, fmt.Sprintf("%02d", next.Second)); err != nil {
		return err
	}
	if err := r.updateField(t, &r.min, prev.Minute != next.Minute, fmt.Sprintf("%02d:", next.Minute)); err != nil {
		return err
	}
	if err := r.updateField(t, &r.hour, prev.Hour != next.Hour, fmt.Sprintf("%02d:", next.Hour)); err != nil {
		return err
	}
	dateChanged := prev.Year != next.Year || prev.Month != next.Month || prev.Day != next.Day
	date := fmt.Sprintf("%04d-%02d-%02d", next.Year, next.Month, next.Day)
	return r.updateField(t, &r.date, dateChanged, date)
}

func (r *Renderer) drawFace(t gfx.Target) error {
	o := &r.opts
	if err := t.DrawCircle(r.cx, r.cy, r.radius, ringStroke, o.Foreground); err != nil {
		return err
	}
	for i := 0; i < 12; i++ {
		a := HourAngle(i)
		x0, y0 := Polar(r.cx, r.cy, a, r.radius)
		x1, y1 := Polar(r.cx, r.cy, a, r.radius-tickLength)
		if err := t.DrawLine(x0, y0, x1, y1, 1, o.Foreground); err != nil {
			return err
		}

		label := fmt.Sprint(i)
		if i == 0 {
			label = "12"
		}
		nx, ny := Polar(r.cx, r.cy, a, r.radius-numeralInset)
		nx -= gfx.TextWidth(o.NumeralFont, label) / 2
		if _, err := t.DrawText(nx, ny+numeralDrop, o.NumeralFont, label, o.Foreground); err != nil {
			return err
		}
	}
	return t.FillCircle(r.cx, r.cy, hubRadius, o.Foreground)
}

type hand struct {
	prev, next float64
	changed    bool
	erase      bool
	length     int16
	width      int16
	color      color.RGBA
}

func (r *Renderer) hands(prev, next State) [3]hand {
	return [3]hand{
		{
			prev: HourAngle(prev.Hour), next: HourAngle(next.Hour),
			changed: prev.Hour != next.Hour, erase: prev.Hour != sentinel.Hour,
			length: r.radius - hourHandInset, width: 2, color: r.opts.Hour,
		},
		{
			prev: MinuteAngle(prev.Minute), next: MinuteAngle(next.Minute),
			changed: prev.Minute != next.Minute, erase: prev.Minute != sentinel.Minute,
			length: r.radius - minuteHandInset, width: 2, color: r.opts.Minute,
		},
		{
			prev: MinuteAngle(prev.Second), next: MinuteAngle(next.Second),
			changed: prev.Second != next.Second, erase: prev.Second != sentinel.Second,
			length: r.radius - secondHandInset, width: 1, color: r.opts.Second,
		},
	}
}

// drawHands erases every moved hand before drawing any, so an erase never cuts
// through a hand that was just drawn. Unmoved hands are redrawn in place.
func (r *Renderer) drawHands(t gfx.Target, next State) error {
	hs := r.hands(r.state, next)
	for _, h := range hs {
		if !h.changed || !h.erase {
			continue
		}
		x, y := Polar(r.cx, r.cy, h.prev, h.length)
		if err := t.DrawLine(r.cx, r.cy, x, y, h.width, r.opts.Background); err != nil {
			return err
		}
	}
	for _, h := range hs {
		x, y := Polar(r.cx, r.cy, h.next, h.length)
		if err := t.DrawLine(r.cx, r.cy, x, y, h.width, h.color); err != nil {
			return err
		}
	}
	return t.FillCircle(r.cx, r.cy, hubRadius, r.opts.Foreground)
}

func (r *Renderer) updateField(t gfx.Target, f *field, changed bool, text string) error {
	if !changed {
		return nil
	}
	if !f.drawn.Empty() {
		d := f.drawn
		if err := t.FillRect(d.X, d.Y, d.W, d.H, r.opts.Background); err != nil {
			return fmt.Errorf("clock: erase %q: %w", f.text, err)
		}
		f.drawn = gfx.Rect{}
	}
	drawn, err := t.DrawText(f.x, f.y, r.opts.DigitFont, text, r.opts.Foreground)
	if err != nil {
		return fmt.Errorf("clock: draw %q: %w", text, err)
	}
	f.text, f.drawn = text, drawn
	return nil
}
