// Package config holds the persisted device configuration: a JSON document stored
// at the start of a raw flash partition, terminated by erased (0xFF) bytes.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"clockface/hal"
)

const (
	// PartitionOffset is where the config partition starts in the board's data flash.
	PartitionOffset = 0
	// PartitionSize is one erase block.
	PartitionSize = 4096
	// MaxDocumentBytes is how much of the partition is read back.
	MaxDocumentBytes = 512

	// MaxOffsetMinutes bounds DateFixedOffset to real-world UTC offsets.
	MaxOffsetMinutes = 14 * 60

	DefaultSyncTimeInterval = 3600
	DefaultNTPServer        = "pool.ntp.org"
)

var (
	ErrNoConfig     = errors.New("config: partition is empty")
	ErrTooLarge     = errors.New("config: document exceeds partition limit")
	ErrInvalidValue = errors.New("config: invalid value")
)

type Wifi struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

type Config struct {
	Wifi []Wifi `json:"wifi"`
	// SyncTimeInterval is the NTP resync period in seconds.
	SyncTimeInterval uint32 `json:"sync_time_interval"`
	// DateFixedOffset is added to UTC for display, in minutes.
	DateFixedOffset int    `json:"date_fixed_offset"`
	NTPServer       string `json:"ntp_server"`
}

func Default() Config {
	return Config{
		SyncTimeInterval: DefaultSyncTimeInterval,
		NTPServer:        DefaultNTPServer,
	}
}

// Offset returns DateFixedOffset as a duration.
func (c Config) Offset() time.Duration {
	return time.Duration(c.DateFixedOffset) * time.Minute
}

// SyncInterval returns SyncTimeInterval as a duration.
func (c Config) SyncInterval() time.Duration {
	return time.Duration(c.SyncTimeInterval) * time.Second
}

func (c Config) Validate() error {
	if c.DateFixedOffset < -MaxOffsetMinutes || c.DateFixedOffset > MaxOffsetMinutes {
		return fmt.Errorf("date_fixed_offset %d: %w", c.DateFixedOffset, ErrInvalidValue)
	}
	if c.SyncTimeInterval == 0 {
		return fmt.Errorf("sync_time_interval 0: %w", ErrInvalidValue)
	}
	for i, w := range c.Wifi {
		if w.SSID == "" {
			return fmt.Errorf("wifi[%d]: empty ssid: %w", i, ErrInvalidValue)
		}
	}
	return nil
}

// Parse decodes a document, stopping at the first erased byte. Missing fields keep their defaults.
func Parse(b []byte) (Config, error) {
	if i := bytes.IndexByte(b, 0xFF); i >= 0 {
		b = b[:i]
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return Config{}, ErrNoConfig
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromFlash reads the config partition.
func FromFlash(f hal.Flash) (Config, error) {
	part, err := hal.Partition(f, PartitionOffset, PartitionSize)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	buf := make([]byte, MaxDocumentBytes)
	n, err := part.ReadAt(buf, 0)
	if err != nil && n == 0 {
		return Config{}, fmt.Errorf("config: read partition: %w", err)
	}
	return Parse(buf[:n])
}

// Load reads a config document from a file.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(b)
}

// Image renders cfg as a full partition: the JSON document followed by erased bytes.
func Image(cfg Config) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	doc, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	if len(doc) > MaxDocumentBytes {
		return nil, fmt.Errorf("%d bytes: %w", len(doc), ErrTooLarge)
	}
	img := bytes.Repeat([]byte{0xFF}, PartitionSize)
	copy(img, doc)
	return img, nil
}

// Store erases the partition and writes cfg into it.
func Store(f hal.Flash, cfg Config) error {
	img, err := Image(cfg)
	if err != nil {
		return err
	}
	part, err := hal.Partition(f, PartitionOffset, PartitionSize)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := part.Erase(0, PartitionSize); err != nil {
		return fmt.Errorf("config: erase partition: %w", err)
	}
	if _, err := part.WriteAt(img, 0); err != nil {
		return fmt.Errorf("config: write partition: %w", err)
	}
	return nil
}
