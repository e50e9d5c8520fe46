// Package scanner drives the capture, decode, debounce, emit loop.
//
// A Scanner owns one frame source and one decoder. It reads frames until
// its context is cancelled, prints payloads it has not seen recently and
// rides out transient camera hiccups. Everything runs on the caller's
// goroutine; there is no internal concurrency to coordinate.
package scanner

import (
	"fmt"
	"time"
)

// Config holds scan loop configuration.
type Config struct {
	// DebounceInterval is how long a payload is suppressed after being
	// emitted. Zero disables suppression entirely.
	// Default: 2s
	DebounceInterval time.Duration `yaml:"debounce_interval" json:"debounce_interval" env:"DEBOUNCE_INTERVAL" envDefault:"2s"`

	// PollInterval is the pause between loop iterations, keeping CPU
	// usage sane on small boards. Zero scans as fast as frames arrive.
	// Default: 100ms
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval" env:"POLL_INTERVAL" envDefault:"100ms"`

	// ReadRetryDelay is the pause after a failed frame read.
	// Default: 500ms
	ReadRetryDelay time.Duration `yaml:"read_retry_delay" json:"read_retry_delay" env:"READ_RETRY_DELAY" envDefault:"500ms"`

	// MaxReadFailures is how many consecutive read failures are tolerated
	// before the device is considered lost.
	// Default: 30 (about 15s at the default retry delay)
	MaxReadFailures int `yaml:"max_read_failures" json:"max_read_failures" env:"MAX_READ_FAILURES" envDefault:"30"`

	// LogEveryFrames emits a debug heartbeat every N frames.
	// Zero disables the heartbeat.
	// Default: 30
	LogEveryFrames int `yaml:"log_every_frames" json:"log_every_frames" env:"LOG_EVERY_FRAMES" envDefault:"30"`

	// EmitTimestamps prefixes every output line with the scan time.
	// Default: true
	EmitTimestamps bool `yaml:"emit_timestamps" json:"emit_timestamps" env:"EMIT_TIMESTAMPS" envDefault:"true"`

	// EmitFormats prefixes every output line with the symbology tag.
	// Default: true
	EmitFormats bool `yaml:"emit_formats" json:"emit_formats" env:"EMIT_FORMATS" envDefault:"true"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceInterval: 2 * time.Second,
		PollInterval:     100 * time.Millisecond,
		ReadRetryDelay:   500 * time.Millisecond,
		MaxReadFailures:  30,
		LogEveryFrames:   30,
		EmitTimestamps:   true,
		EmitFormats:      true,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DebounceInterval < 0 {
		return fmt.Errorf("debounce_interval must not be negative, got %v", c.DebounceInterval)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval must not be negative, got %v", c.PollInterval)
	}
	if c.ReadRetryDelay < 0 {
		return fmt.Errorf("read_retry_delay must not be negative, got %v", c.ReadRetryDelay)
	}
	if c.MaxReadFailures <= 0 {
		return fmt.Errorf("max_read_failures must be positive, got %d", c.MaxReadFailures)
	}
	if c.LogEveryFrames < 0 {
		return fmt.Errorf("log_every_frames must not be negative, got %d", c.LogEveryFrames)
	}
	return nil
}
