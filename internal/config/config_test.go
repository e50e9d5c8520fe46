package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/robert-herzig/raspi-pen/pkg/capture"
	"github.com/robert-herzig/raspi-pen/pkg/decode"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel to be info, got %s", cfg.LogLevel)
	}
	if cfg.Camera.Width != 640 || cfg.Camera.Height != 480 {
		t.Errorf("expected 640x480 capture, got %dx%d", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Scanner.DebounceInterval != 2*time.Second {
		t.Errorf("expected 2s debounce, got %v", cfg.Scanner.DebounceInterval)
	}
	if cfg.Decoder.Backend != decode.BackendAuto {
		t.Errorf("expected auto decoder backend, got %s", cfg.Decoder.Backend)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	if cfg.Camera.Backend != want.Camera.Backend {
		t.Errorf("expected backend %s, got %s", want.Camera.Backend, cfg.Camera.Backend)
	}
	if cfg.Scanner.PollInterval != want.Scanner.PollInterval {
		t.Errorf("expected poll interval %v, got %v", want.Scanner.PollInterval, cfg.Scanner.PollInterval)
	}
	if !cfg.Scanner.EmitTimestamps {
		t.Error("expected timestamps on by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Run("camera size", func(t *testing.T) {
		os.Setenv("CAMERA_WIDTH", "1280")
		os.Setenv("CAMERA_HEIGHT", "720")
		defer os.Unsetenv("CAMERA_WIDTH")
		defer os.Unsetenv("CAMERA_HEIGHT")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Camera.Width != 1280 || cfg.Camera.Height != 720 {
			t.Errorf("expected 1280x720, got %dx%d", cfg.Camera.Width, cfg.Camera.Height)
		}
	})

	t.Run("debounce interval", func(t *testing.T) {
		os.Setenv("DEBOUNCE_INTERVAL", "5s")
		defer os.Unsetenv("DEBOUNCE_INTERVAL")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Scanner.DebounceInterval != 5*time.Second {
			t.Errorf("expected 5s debounce, got %v", cfg.Scanner.DebounceInterval)
		}
	})

	t.Run("decoder backend", func(t *testing.T) {
		os.Setenv("DECODER_BACKEND", "zxing")
		defer os.Unsetenv("DECODER_BACKEND")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Decoder.Backend != decode.BackendZXing {
			t.Errorf("expected zxing backend, got %s", cfg.Decoder.Backend)
		}
	})

	t.Run("snapshot url selects http", func(t *testing.T) {
		os.Setenv("SNAPSHOT_URL", "http://cam.local/snapshot.jpg")
		defer os.Unsetenv("SNAPSHOT_URL")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Camera.SnapshotURL != "http://cam.local/snapshot.jpg" {
			t.Errorf("expected snapshot URL to be set, got %q", cfg.Camera.SnapshotURL)
		}
		if cfg.Camera.Backend != capture.BackendAuto {
			t.Errorf("expected backend to stay auto, got %s", cfg.Camera.Backend)
		}
	})

	t.Run("plain payload output", func(t *testing.T) {
		os.Setenv("EMIT_TIMESTAMPS", "false")
		os.Setenv("EMIT_FORMATS", "false")
		defer os.Unsetenv("EMIT_TIMESTAMPS")
		defer os.Unsetenv("EMIT_FORMATS")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.Scanner.EmitTimestamps || cfg.Scanner.EmitFormats {
			t.Error("expected bare payload lines")
		}
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("log level", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "shouty")
		defer os.Unsetenv("LOG_LEVEL")

		if _, err := Load(); err == nil {
			t.Error("expected error for unknown log level")
		}
	})

	t.Run("camera width", func(t *testing.T) {
		os.Setenv("CAMERA_WIDTH", "-1")
		defer os.Unsetenv("CAMERA_WIDTH")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for negative width")
		}
		if !strings.Contains(err.Error(), "camera") {
			t.Errorf("expected error to name the camera section, got %v", err)
		}
	})

	t.Run("max read failures", func(t *testing.T) {
		os.Setenv("MAX_READ_FAILURES", "0")
		defer os.Unsetenv("MAX_READ_FAILURES")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for zero read failure budget")
		}
		if !strings.Contains(err.Error(), "scanner") {
			t.Errorf("expected error to name the scanner section, got %v", err)
		}
	})
}
