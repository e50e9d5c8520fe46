package capture

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend != BackendAuto {
		t.Errorf("Expected backend auto, got %s", cfg.Backend)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("Expected 640x480, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FrameRate != 15 {
		t.Errorf("Expected 15 fps, got %d", cfg.FrameRate)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("Expected 10s read timeout, got %v", cfg.ReadTimeout)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative index", func(c *Config) { c.DeviceIndex = -1 }, "device_index"},
		{"zero width", func(c *Config) { c.Width = 0 }, "frame size"},
		{"zero height", func(c *Config) { c.Height = 0 }, "frame size"},
		{"zero fps", func(c *Config) { c.FrameRate = 0 }, "frame_rate"},
		{"zero timeout", func(c *Config) { c.ReadTimeout = 0 }, "read_timeout"},
		{"http without url", func(c *Config) { c.Backend = BackendHTTP }, "snapshot_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_DevicePath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.DevicePath(); got != "/dev/video0" {
		t.Errorf("Expected /dev/video0, got %s", got)
	}

	cfg.DeviceIndex = 2
	if got := cfg.DevicePath(); got != "/dev/video2" {
		t.Errorf("Expected /dev/video2, got %s", got)
	}

	cfg.Device = "/dev/custom"
	if got := cfg.DevicePath(); got != "/dev/custom" {
		t.Errorf("Explicit device should win, got %s", got)
	}
}

func TestIsValidJPEG(t *testing.T) {
	valid := make([]byte, 1200)
	valid[0], valid[1] = 0xFF, 0xD8
	valid[len(valid)-2], valid[len(valid)-1] = 0xFF, 0xD9

	if !isValidJPEG(valid) {
		t.Error("Expected valid JPEG to pass")
	}

	if isValidJPEG(valid[:500]) {
		t.Error("Truncated image should fail")
	}

	noSOI := append([]byte{}, valid...)
	noSOI[0] = 0x00
	if isValidJPEG(noSOI) {
		t.Error("Missing SOI marker should fail")
	}

	noEOI := append([]byte{}, valid...)
	noEOI[len(noEOI)-1] = 0x00
	if isValidJPEG(noEOI) {
		t.Error("Missing EOI marker should fail")
	}
}

func TestFrame_Helpers(t *testing.T) {
	var frame Frame
	if !frame.Empty() {
		t.Error("Zero frame should be empty")
	}

	frame.JPEG = []byte{1, 2, 3}
	if frame.Empty() {
		t.Error("Frame with data should not be empty")
	}
	if frame.Size() != 3 {
		t.Errorf("Expected size 3, got %d", frame.Size())
	}
}
