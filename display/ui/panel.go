package ui

import (
	"image/color"
	"strings"
	"time"

	"clockface/display/gfx"

	"tinygo.org/x/tinyfont"
)

// Panel is one full-screen or partial layer of the window.
type Panel interface {
	Visible() bool
	Bounds() gfx.Rect
	DrawRow(r *Row)
	attach(w *Window)
}

type panelBase struct {
	win     *Window
	bounds  gfx.Rect
	visible bool
}

func (p *panelBase) attach(w *Window)   { p.win = w }
func (p *panelBase) Visible() bool      { return p.visible }
func (p *panelBase) Bounds() gfx.Rect   { return p.bounds }

// SetVisible shows or hides the panel; the area it covers is repainted.
func (p *panelBase) SetVisible(v bool) {
	if p.visible == v {
		return
	}
	p.visible = v
	if p.win != nil {
		p.win.InvalidateRect(p.bounds)
	}
}

// changed marks the panel for repaint. Hidden panels are not repainted.
func (p *panelBase) changed() {
	if p.visible && p.win != nil {
		p.win.InvalidateRect(p.bounds)
	}
}

// Style is the look shared by all panels.
type Style struct {
	Font  tinyfont.Fonter
	Text  color.RGBA
	Title color.RGBA
	Dim   color.RGBA
}

const (
	panelTitleBaseline = 12
	panelRuleY         = 16
	panelBodyTop       = 20
)

// BlankPanel paints only background. An immediate-mode renderer owns its area.
type BlankPanel struct {
	panelBase
}

func NewBlankPanel(bounds gfx.Rect) *BlankPanel {
	return &BlankPanel{panelBase{bounds: bounds}}
}

func (p *BlankPanel) DrawRow(r *Row) {}

// TextPanel shows a title and a block of lines; the newest lines win when they overflow.
type TextPanel struct {
	panelBase
	style    Style
	title    string
	lines    []string
	maxLines int
}

func NewTextPanel(bounds gfx.Rect, style Style, title string) *TextPanel {
	lh := int16(style.Font.GetYAdvance())
	if lh <= 0 {
		lh = 10
	}
	return &TextPanel{
		panelBase: panelBase{bounds: bounds},
		style:     style,
		title:     title,
		maxLines:  int((bounds.H - panelBodyTop) / lh),
	}
}

// SetText replaces the body. Lines are separated by '\n'.
func (p *TextPanel) SetText(s string) {
	p.lines = p.lines[:0]
	p.appendLines(s)
	p.changed()
}

// AppendText adds lines under the existing body, scrolling old lines out.
func (p *TextPanel) AppendText(s string) {
	p.appendLines(s)
	p.changed()
}

// Lines returns the lines currently on screen.
func (p *TextPanel) Lines() []string { return p.lines }

func (p *TextPanel) appendLines(s string) {
	if s == "" {
		return
	}
	p.lines = append(p.lines, strings.Split(strings.TrimRight(s, "\n"), "\n")...)
	if over := len(p.lines) - p.maxLines; over > 0 && p.maxLines > 0 {
		p.lines = append(p.lines[:0], p.lines[over:]...)
	}
}

func (p *TextPanel) DrawRow(r *Row) {
	b := p.bounds
	s := p.style
	r.Text(b.X+2, b.Y+panelTitleBaseline, s.Font, p.title, s.Title)
	r.FillRect(gfx.Rect{X: b.X, Y: b.Y + panelRuleY, W: b.W, H: 1}, s.Dim)

	lh := int16(s.Font.GetYAdvance())
	top := b.Y + panelBodyTop + lh - 2
	for i, line := range p.lines {
		y := top + int16(i)*lh
		if y-lh > r.Y() {
			break
		}
		r.Text(b.X+2, y, s.Font, line, s.Text)
	}
}

const carouselSlide = 150 * time.Millisecond

// Carousel is the main menu: one item at a time, arrows to either side, a dot per item.
type Carousel struct {
	panelBase
	style    Style
	items    []string
	selected int
	offset   int16
}

func NewCarousel(bounds gfx.Rect, style Style, items []string, selected int) *Carousel {
	c := &Carousel{panelBase: panelBase{bounds: bounds}, style: style, items: items}
	if selected >= 0 && selected < len(items) {
		c.selected = selected
	}
	return c
}

func (c *Carousel) Selected() int { return c.selected }

// SelectNext moves right, wrapping at the end.
func (c *Carousel) SelectNext() { c.move(1) }

// SelectPrev moves left, wrapping at the start.
func (c *Carousel) SelectPrev() { c.move(-1) }

func (c *Carousel) move(dir int) {
	n := len(c.items)
	if n == 0 {
		return
	}
	c.selected = (c.selected + dir + n) % n
	c.changed()
	if c.win == nil || !c.visible {
		return
	}
	from := int16(dir) * c.bounds.W / 2
	c.win.Animate(carouselSlide, func(progress float32) {
		c.offset = int16(float32(from) * (1 - progress))
		c.changed()
	})
}

func (c *Carousel) DrawRow(r *Row) {
	b := c.bounds
	s := c.style
	if len(c.items) == 0 {
		return
	}

	midY := b.Y + b.H/2
	label := c.items[c.selected]
	x := b.X + (b.W-gfx.TextWidth(s.Font, label))/2 + c.offset
	r.Text(x, midY+4, s.Font, label, s.Title)
	r.Text(b.X+4, midY+4, s.Font, "<", s.Dim)
	r.Text(b.X+b.W-4-gfx.TextWidth(s.Font, ">"), midY+4, s.Font, ">", s.Dim)

	const dotGap = 10
	dotsY := b.Y + b.H - 14
	x0 := b.X + (b.W-int16(len(c.items)-1)*dotGap)/2
	for i := range c.items {
		col := s.Dim
		if i == c.selected {
			col = s.Title
		}
		r.FillCircle(x0+int16(i)*dotGap, dotsY, 2, col)
	}
}
