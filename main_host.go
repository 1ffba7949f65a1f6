//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"clockface/app"
	"clockface/hal"
	"clockface/internal/buttons"
	"clockface/internal/st7735"
)

// Device openers, swapped in tests.
var (
	openPanel = func(port string, pins st7735.Pins) (hal.Transport, io.Closer, error) {
		return st7735.Open(port, pins, nil)
	}
	openButtons = func(chip string, lines map[string]int) (interface {
		hal.GPIO
		io.Closer
	}, error) {
		return buttons.OpenChip(chip, lines)
	}
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

// realMain returns the exit code after every opened device is closed.
func realMain(args []string, stderr io.Writer) int {
	var (
		cfg       hal.HeadlessConfig
		hc        hal.HostConfig
		opts      = app.Options{Buttons: true}
		offset    string
		spiPort   string
		panelPins st7735.Pins
		chip      string
		btnSelect int
		btnOK     int
	)
	fs := flag.NewFlagSet("clockface", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	fs.IntVar(&cfg.Hz, "hz", 100, "Tick rate in headless mode.")
	fs.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	fs.StringVar(&opts.ConfigPath, "config", "", "JSON config file (default: the flash config partition).")
	fs.StringVar(&hc.FlashPath, "flash", "", "Flash image backing the config partition.")
	fs.StringVar(&offset, "offset", "", "Display offset from UTC, e.g. 2h or -30m (overrides the config).")
	fs.DurationVar(&opts.BootHold, "boot-hold", app.DefaultBootHold, "How long the boot screen waits for the network.")
	fs.StringVar(&spiPort, "st7735", "", "Drive a real ST7735 panel on this SPI port (e.g. SPI0.0).")
	fs.StringVar(&panelPins.DC, "st7735-dc", "GPIO24", "ST7735 data/command pin.")
	fs.StringVar(&panelPins.RST, "st7735-rst", "GPIO25", "ST7735 reset pin (empty: none).")
	fs.StringVar(&panelPins.BL, "st7735-bl", "", "ST7735 backlight pin (empty: none).")
	fs.StringVar(&chip, "buttons", "", "Read the two buttons from this GPIO chip (e.g. gpiochip0).")
	fs.IntVar(&btnSelect, "btn-select", 17, "Line offset of the select button.")
	fs.IntVar(&btnOK, "btn-ok", 27, "Line offset of the ok button.")
	noButtons := fs.Bool("no-buttons", false, "Disable the two-button input.")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if offset != "" {
		d, err := time.ParseDuration(offset)
		if err != nil {
			fmt.Fprintln(stderr, "error: -offset:", err)
			return 2
		}
		opts.Offset = &d
	}
	opts.Buttons = !*noButtons

	if spiPort != "" {
		dev, closer, err := openPanel(spiPort, panelPins)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		defer closer.Close()
		hc.Transport = dev
	}
	if chip != "" && opts.Buttons {
		g, err := openButtons(chip, map[string]int{
			app.PinSelect: btnSelect,
			app.PinOK:     btnOK,
		})
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		defer g.Close()
		hc.GPIO = g
	}

	if err := run(cfg, hc, opts); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func run(cfg hal.HeadlessConfig, hc hal.HostConfig, opts app.Options) error {
	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := hal.RunHeadless(ctx, hc, app.NewStepper(opts), cfg)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return hal.RunWindow(hc, app.NewStepper(opts))
}
