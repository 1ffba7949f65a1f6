// Package app wires the clockface firmware: the rendering bridge, the toolkit views,
// the clock renderer and the render scheduler that drives them from the event funnel.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"clockface/display/bridge"
	"clockface/display/clock"
	"clockface/display/gfx"
	"clockface/display/ui"
	"clockface/hal"
	"clockface/internal/config"
	"clockface/kernel"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	// DefaultBootHold is how long the boot screen waits for the network.
	DefaultBootHold = 5 * time.Second
	// DefaultTransportTimeout bounds one row write on the panel bus.
	DefaultTransportTimeout = 200 * time.Millisecond

	netPollPeriod = time.Second
)

type Options struct {
	// ConfigPath is a JSON config file. Empty means the flash config partition.
	ConfigPath string
	// Offset overrides the configured display offset when non-nil.
	Offset *time.Duration
	// TransportTimeout bounds one WriteRect. Zero means DefaultTransportTimeout, negative disables it.
	TransportTimeout time.Duration
	// Buttons enables the two-button producer on the HAL's BTN_SELECT and BTN_OK pins.
	Buttons bool
	// BootHold caps the wait for the network. Zero means DefaultBootHold.
	BootHold time.Duration
}

// App owns every piece of the running firmware. Step must be called from one goroutine.
type App struct {
	h      hal.HAL
	log    hal.Logger
	cfg    config.Config
	bridge *bridge.Bridge
	win    *ui.Window
	clock  *clock.Renderer
	sched  *Scheduler
	mb     *kernel.Mailbox[AppEvent]
	net    *NetWatcher
	env    *Env

	// stop ends the producer goroutines.
	stop context.CancelFunc

	booting   bool
	bootUntil time.Time
	term      *tinyterm.Terminal
	halted    bool
}

// New builds the firmware on h and paints the boot screen.
func New(h hal.HAL, opts Options) (*App, error) {
	bootDiagSetStep("app: new")
	a := &App{h: h, log: h.Logger()}

	a.cfg = loadConfig(h, opts.ConfigPath, a.log)
	offset := a.cfg.Offset()
	if opts.Offset != nil {
		offset = *opts.Offset
	}

	disp := h.Display()
	if disp == nil || disp.Transport() == nil {
		return nil, fmt.Errorf("app: no display transport")
	}
	tr := disp.Transport()
	switch {
	case opts.TransportTimeout == 0:
		tr = hal.WithTimeout(tr, DefaultTransportTimeout)
	case opts.TransportTimeout > 0:
		tr = hal.WithTimeout(tr, opts.TransportTimeout)
	}

	bootDiagSetStep("app: bridge")
	a.bridge = bridge.New(tr, bridge.Options{Logger: a.log})
	win, err := a.bridge.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.win = win
	win.SetBackground(gfx.ColorBackground)

	a.env = &Env{Network: h.Network(), Mem: readMem, Panel: tr}
	views := a.buildViews()

	a.clock = clock.New(clock.Options{
		Offset: offset,
		Now:    h.Clock().Now,
	})
	a.mb = kernel.New[AppEvent](MailboxSlots)
	a.sched = NewScheduler(SchedulerConfig{
		Mailbox:  a.mb,
		Window:   win,
		Views:    views,
		Clock:    a.clock,
		Target:   a.bridge.Canvas(),
		Logger:   a.log,
		InfoText: a.env.InfoText,
	})
	win.StartTimer(TickPeriod, a.sched.Tick)

	// Producers run on their own goroutines; the mailbox is the only thing they share
	// with the render loop.
	ctx, stop := context.WithCancel(context.Background())
	a.stop = stop
	if opts.Buttons {
		bp, err := NewButtonPoller(h.GPIO(), a.mb, a.log)
		if err != nil {
			a.logf("app: buttons disabled: %v", err)
		} else {
			go bp.Run(ctx, TickPeriod)
		}
	}
	if in := h.Input(); in != nil {
		go pumpKeys(in.Keyboard(), a.mb, a.log)
	}
	a.net = NewNetWatcher(h.Network(), a.mb, a.log)
	go a.net.Run(ctx, netPollPeriod)

	bootDiagSetStep("app: boot screen")
	hold := opts.BootHold
	if hold <= 0 {
		hold = DefaultBootHold
	}
	a.term, err = bootScreen(a.bridge.Displayer())
	if err != nil {
		// Not fatal: the UI repaints the whole panel anyway.
		a.logf("app: %v", err)
	}
	a.booting = true
	a.bootUntil = time.Now().Add(hold)
	a.logf("app: config offset=%v sync=%v ntp=%s", offset, a.cfg.SyncInterval(), a.cfg.NTPServer)
	return a, nil
}

func (a *App) buildViews() Views {
	w, h := a.win.Size()
	full := gfx.Rect{W: w, H: h}
	style := ui.Style{
		Font:  &proggy.TinySZ8pt7b,
		Text:  gfx.ColorForeground,
		Title: gfx.ColorHighlight,
		Dim:   gfx.ColorDim,
	}
	v := Views{
		Carousel: ui.NewCarousel(full, style, menuItems, DefaultSelection),
		Info:     ui.NewTextPanel(full, style, "Profile"),
		Clock:    ui.NewBlankPanel(full),
		Debug:    ui.NewTextPanel(full, style, "Debug"),
		About:    ui.NewTextPanel(full, style, "About"),
	}
	for _, p := range []ui.Panel{v.Carousel, v.Info, v.Clock, v.Debug, v.About} {
		a.win.Add(p)
	}
	v.About.SetText(a.env.AboutText())
	return v
}

func loadConfig(h hal.HAL, path string, log hal.Logger) config.Config {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.FromFlash(h.Flash())
	}
	switch {
	case err == nil:
		return cfg
	case errors.Is(err, config.ErrNoConfig):
	default:
		if log != nil {
			log.WriteLineString(fmt.Sprintf("app: config: %v, using defaults", err))
		}
	}
	return config.Default()
}

// Scheduler exposes the render scheduler, e.g. for diagnostics.
func (a *App) Scheduler() *Scheduler { return a.sched }

// Post feeds an event into the funnel like any other producer.
func (a *App) Post(ev AppEvent) bool { return post(a.mb, a.log, ev) }

// Booting reports whether the boot screen is still up.
func (a *App) Booting() bool { return a.booting }

// Step runs one iteration of the firmware. A panic is reported on the panel and
// returned as an error; the app stays halted afterwards.
func (a *App) Step() (err error) {
	if a.halted {
		return errHalted
	}
	defer func() {
		if r := recover(); r != nil {
			a.halted = true
			reportPanic(a.log, a.bridge.Displayer(), r, debug.Stack())
			err = fmt.Errorf("app: panic: %v", r)
		}
	}()

	if a.booting {
		a.stepBoot(time.Now())
		return nil
	}
	a.bridge.Step()
	return nil
}

var errHalted = errors.New("app: halted")

func (a *App) stepBoot(now time.Time) {
	up := a.net.Up()
	if !up && now.Before(a.bootUntil) {
		return
	}
	if a.term != nil {
		if up {
			fmt.Fprintf(a.term, "Network up\r\n")
		} else {
			fmt.Fprintf(a.term, "No network\r\n")
		}
	}
	a.booting = false
	a.term = nil
	a.win.Invalidate()
	a.logf("app: boot done, network up=%v", up)
}

// Close stops the producers. The panel keeps its last frame.
func (a *App) Close() { a.stop() }

// Run steps the app every bridge interval until ctx ends or a step fails.
func (a *App) Run(ctx context.Context) error {
	tk := time.NewTicker(bridge.DefaultInterval)
	defer tk.Stop()
	for {
		if err := a.Step(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
		}
	}
}

// NewStepper adapts New to the host runners. Construction errors surface on the first step.
func NewStepper(opts Options) func(hal.HAL) func() error {
	return func(h hal.HAL) func() error {
		a, err := New(h, opts)
		if err != nil {
			return func() error { return err }
		}
		return a.Step
	}
}

func (a *App) logf(format string, args ...any) {
	if a.log == nil {
		return
	}
	a.log.WriteLineString(fmt.Sprintf(format, args...))
}
