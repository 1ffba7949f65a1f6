//go:build !tinygo

package main

import (
	"os"
	"path/filepath"
	"testing"

	"clockface/hal"
	"clockface/internal/config"
)

func TestRunWritesPartition(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flash.bin")
	o := options{
		out:    out,
		size:   64 * 1024,
		wifi:   wifiFlag{{SSID: "home", Password: "pa:ss"}},
		offset: 120,
		sync:   600,
		ntp:    "time.example.org",
	}
	if err := run(o, map[string]bool{"wifi": true}); err != nil {
		t.Fatalf("run: %v", err)
	}

	ff, err := hal.OpenFileFlash(out, 0x1000)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer ff.Close()
	if ff.SizeBytes() != 64*1024 {
		t.Fatalf("size = %d, want existing image size", ff.SizeBytes())
	}
	cfg, err := config.FromFlash(ff)
	if err != nil {
		t.Fatalf("FromFlash: %v", err)
	}
	if cfg.DateFixedOffset != 120 || cfg.SyncTimeInterval != 600 || cfg.NTPServer != "time.example.org" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Wifi) != 1 || cfg.Wifi[0].Password != "pa:ss" {
		t.Fatalf("wifi = %+v", cfg.Wifi)
	}
}

func TestRunRewritesExistingImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flash.bin")
	base := options{out: out, size: 16 * 1024, sync: 3600, ntp: "a"}
	if err := run(base, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	base.offset = -300
	if err := run(base, nil); err != nil {
		t.Fatalf("second run: %v", err)
	}
	ff, err := hal.OpenFileFlash(out, 16*1024)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer ff.Close()
	cfg, err := config.FromFlash(ff)
	if err != nil {
		t.Fatalf("FromFlash: %v", err)
	}
	if cfg.DateFixedOffset != -300 {
		t.Fatalf("offset = %d", cfg.DateFixedOffset)
	}
}

func TestBuildConfigFromFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(src, []byte(`{"date_fixed_offset":60,"ntp_server":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := buildConfig(options{src: src, ntp: "flag"}, map[string]bool{})
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.DateFixedOffset != 60 || cfg.NTPServer != "x" {
		t.Fatalf("file values lost: %+v", cfg)
	}
	cfg, err = buildConfig(options{src: src, ntp: "flag"}, map[string]bool{"ntp": true})
	if err != nil || cfg.NTPServer != "flag" {
		t.Fatalf("flag should override: %+v %v", cfg, err)
	}
}

func TestBuildConfigRejectsBadOffset(t *testing.T) {
	if _, err := buildConfig(options{offset: 10000, sync: 1}, nil); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestWifiFlag(t *testing.T) {
	var w wifiFlag
	if err := w.Set(":nope"); err == nil {
		t.Fatal("empty ssid should fail")
	}
	if err := w.Set("a:b"); err != nil {
		t.Fatal(err)
	}
	if err := w.Set("c"); err != nil {
		t.Fatal(err)
	}
	if w.String() != "a,c" || w[1].Password != "" {
		t.Fatalf("wifi = %+v", w)
	}
}
