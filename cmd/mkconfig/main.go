//go:build !tinygo

// mkconfig writes the clockface config partition into a flash image.
//
//	mkconfig -out clockface.flash -wifi home:secret -offset 60
//	mkconfig -out clockface.flash -config settings.json
//	mkconfig -out clockface.flash -show
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"clockface/hal"
	"clockface/internal/config"
)

type wifiFlag []config.Wifi

func (w *wifiFlag) String() string {
	names := make([]string, len(*w))
	for i, n := range *w {
		names[i] = n.SSID
	}
	return strings.Join(names, ",")
}

// Set parses ssid:password. The password may contain ':'.
func (w *wifiFlag) Set(s string) error {
	ssid, pass, _ := strings.Cut(s, ":")
	if ssid == "" {
		return errors.New("empty ssid")
	}
	*w = append(*w, config.Wifi{SSID: ssid, Password: pass})
	return nil
}

type options struct {
	out    string
	size   uint
	src    string
	wifi   wifiFlag
	offset int
	sync   uint
	ntp    string
	show   bool
}

func main() {
	var o options
	flag.StringVar(&o.out, "out", hal.DefaultFlashFile, "Flash image path.")
	flag.UintVar(&o.size, "size", hal.DefaultFlashFileSize, "Flash image size for a new image (bytes).")
	flag.StringVar(&o.src, "config", "", "JSON config document to store; flags below override it.")
	flag.Var(&o.wifi, "wifi", "Wi-Fi network as ssid:password (repeatable).")
	flag.IntVar(&o.offset, "offset", 0, "Display offset from UTC in minutes.")
	flag.UintVar(&o.sync, "sync", config.DefaultSyncTimeInterval, "Time resync interval in seconds.")
	flag.StringVar(&o.ntp, "ntp", config.DefaultNTPServer, "NTP server.")
	flag.BoolVar(&o.show, "show", false, "Print the stored config instead of writing one.")
	flag.Parse()

	if o.out == "" {
		fmt.Fprintln(os.Stderr, "error: -out is required")
		os.Exit(2)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := run(o, set); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(o options, set map[string]bool) error {
	ff, err := hal.OpenFileFlash(o.out, uint32(o.size))
	if err != nil {
		return err
	}
	defer ff.Close()

	if o.show {
		cfg, err := config.FromFlash(ff)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", cfg)
		return nil
	}

	cfg, err := buildConfig(o, set)
	if err != nil {
		return err
	}
	if err := config.Store(ff, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote config to %s (%d networks, offset %d min)\n", o.out, len(cfg.Wifi), cfg.DateFixedOffset)
	return nil
}

// buildConfig starts from -config (or defaults) and applies the flags the user set.
func buildConfig(o options, set map[string]bool) (config.Config, error) {
	cfg := config.Default()
	if o.src != "" {
		c, err := config.Load(o.src)
		if err != nil {
			return config.Config{}, err
		}
		cfg = c
	}
	if set["wifi"] {
		cfg.Wifi = append([]config.Wifi(nil), o.wifi...)
	}
	if set["offset"] || o.src == "" {
		cfg.DateFixedOffset = o.offset
	}
	if set["sync"] || o.src == "" {
		cfg.SyncTimeInterval = uint32(o.sync)
	}
	if set["ntp"] || o.src == "" {
		cfg.NTPServer = o.ntp
	}
	return cfg, cfg.Validate()
}
