package app

import (
	"fmt"
	"time"

	"clockface/display/gfx"
	"clockface/display/ui"
	"clockface/hal"
	"clockface/kernel"
)

const (
	// TickPeriod is how often the scheduler runs.
	TickPeriod = 10 * time.Millisecond
	// ClockThreshold is how much ticking accumulates between clock redraws.
	ClockThreshold = 800 * time.Millisecond
	// MailboxSlots bounds the event funnel.
	MailboxSlots = 16
)

// ClockRenderer is the part of the clock renderer the scheduler drives.
type ClockRenderer interface {
	Update(t gfx.Target) error
	Invalidate()
}

// Views are the panels the scheduler switches between.
type Views struct {
	Carousel *ui.Carousel
	Info     *ui.TextPanel
	Clock    *ui.BlankPanel
	Debug    *ui.TextPanel
	About    *ui.TextPanel
}

type SchedulerConfig struct {
	Mailbox *kernel.Mailbox[AppEvent]
	Window  *ui.Window
	Views   Views
	Clock   ClockRenderer
	Target  gfx.Target
	Logger  hal.Logger
	// InfoText renders the profile panel when it opens. May be nil.
	InfoText func() string
}

// Scheduler is the render scheduler: it drains the event funnel one event per
// tick, drives the panel state machine and paces the clock renderer.
type Scheduler struct {
	mb       *kernel.Mailbox[AppEvent]
	win      *ui.Window
	v        Views
	clock    ClockRenderer
	target   gfx.Target
	log      hal.Logger
	infoText func() string

	state     UIState
	showClock bool
	counter   time.Duration
	lastGen   uint32

	updates  uint64
	failures uint64
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	s := &Scheduler{
		mb:       cfg.Mailbox,
		win:      cfg.Window,
		v:        cfg.Views,
		clock:    cfg.Clock,
		target:   cfg.Target,
		log:      cfg.Logger,
		infoText: cfg.InfoText,
		state:    UIState{Panel: PanelCarousel, Selected: cfg.Views.Carousel.Selected()},
	}
	s.v.Carousel.SetVisible(true)
	return s
}

func (s *Scheduler) State() UIState { return s.state }

// ClockUpdates counts clock renderer calls, failed ones included.
func (s *Scheduler) ClockUpdates() uint64 { return s.updates }

// ClockFailures counts clock renderer calls that returned an error.
func (s *Scheduler) ClockFailures() uint64 { return s.failures }

// Tick is the periodic body. It never blocks.
func (s *Scheduler) Tick() {
	if ev, ok := s.mb.TryRecv(); ok {
		s.dispatch(ev)
	}

	if s.showClock {
		// A toolkit repaint wipes whatever the clock drew.
		if gen := s.win.Generation(); gen != s.lastGen {
			s.lastGen = gen
			s.clock.Invalidate()
		}
		if s.counter >= ClockThreshold {
			s.updates++
			if err := s.clock.Update(s.target); err != nil {
				s.failures++
				s.logf("scheduler: clock update: %v", err)
			}
			s.counter = 0
		}
	}
	s.counter += TickPeriod
}

func (s *Scheduler) dispatch(ev AppEvent) {
	switch ev.Kind {
	case EventRight:
		if s.state.Panel == PanelCarousel {
			s.v.Carousel.SelectNext()
			s.state.Selected = s.v.Carousel.Selected()
		}
	case EventLeft:
		if s.state.Panel == PanelCarousel {
			s.v.Carousel.SelectPrev()
			s.state.Selected = s.v.Carousel.Selected()
		}
	case EventExit:
		s.v.Info.SetVisible(false)
		s.v.About.SetVisible(false)
		s.v.Debug.SetVisible(false)
		s.v.Clock.SetVisible(false)
		s.v.Carousel.SetVisible(true)
		s.showClock = false
		s.state.Panel = PanelCarousel
	case EventOK:
		if s.state.Panel == PanelCarousel {
			s.open(s.v.Carousel.Selected())
		}
	}

	if s.v.Debug.Visible() {
		s.v.Debug.AppendText(WrapColumns(ev.String(), DebugColumns))
	}
}

func (s *Scheduler) open(selected int) {
	if selected < 0 || selected >= len(menuPanels) {
		return
	}
	s.v.Carousel.SetVisible(false)
	s.state.Panel = menuPanels[selected]
	switch s.state.Panel {
	case PanelInfo:
		if s.infoText != nil {
			s.v.Info.SetText(s.infoText())
		}
		s.v.Info.SetVisible(true)
	case PanelClock:
		s.v.Clock.SetVisible(true)
		s.clock.Invalidate()
		s.lastGen = s.win.Generation()
		s.showClock = true
		s.counter = 0
	case PanelDebug:
		s.v.Debug.SetVisible(true)
	case PanelAbout:
		s.v.About.SetVisible(true)
	}
	s.logf("scheduler: open %v", s.state.Panel)
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}
