// Package capture provides camera frame acquisition for the scanner.
//
// This package supports multiple backends:
//   - Webcam (OpenCV) - Production use on a directly attached camera
//   - Still - Shells out to a still-capture tool, for hosts without OpenCV
//   - HTTP - Polls a network camera's snapshot endpoint
//   - Mock - CI/Testing without hardware
//
// The backend is selected via configuration; "auto" picks the HTTP backend
// when a snapshot URL is configured and the webcam backend otherwise.
package capture

import (
	"fmt"
	"time"
)

// Backend represents the capture backend type.
type Backend string

const (
	// BackendAuto selects a backend from the rest of the configuration.
	BackendAuto Backend = "auto"
	// BackendWebcam uses OpenCV video capture.
	BackendWebcam Backend = "webcam"
	// BackendStill shells out to a still-capture tool per frame.
	BackendStill Backend = "still"
	// BackendHTTP polls a snapshot URL.
	BackendHTTP Backend = "http"
	// BackendMock uses a scripted implementation for testing.
	BackendMock Backend = "mock"
)

// Config holds capture configuration.
type Config struct {
	// Backend specifies which capture backend to use.
	// Default: "auto"
	Backend Backend `yaml:"backend" json:"backend" env:"CAMERA_BACKEND" envDefault:"auto"`

	// DeviceIndex is the camera index for the webcam backend.
	// Default: 0 (first camera)
	DeviceIndex int `yaml:"device_index" json:"device_index" env:"CAMERA_INDEX" envDefault:"0"`

	// Device is an explicit device path such as "/dev/video2".
	// When empty, the path is derived from DeviceIndex.
	Device string `yaml:"device" json:"device" env:"CAMERA_DEVICE"`

	// Width and Height are the requested frame dimensions in pixels.
	// Backends treat them as advisory; the device may clamp them.
	Width  int `yaml:"width" json:"width" env:"CAMERA_WIDTH" envDefault:"640"`
	Height int `yaml:"height" json:"height" env:"CAMERA_HEIGHT" envDefault:"480"`

	// FrameRate is the requested capture rate in frames per second.
	// Default: 15, low enough for Raspberry Pi class hardware.
	FrameRate int `yaml:"frame_rate" json:"frame_rate" env:"CAMERA_FPS" envDefault:"15"`

	// SnapshotURL is the snapshot endpoint for the http backend.
	SnapshotURL string `yaml:"snapshot_url" json:"snapshot_url" env:"SNAPSHOT_URL"`

	// SnapshotToken is sent as the Authorization header by the http backend.
	SnapshotToken string `yaml:"snapshot_token" json:"snapshot_token" env:"SNAPSHOT_TOKEN"`

	// ReadTimeout bounds a single frame acquisition for the still and
	// http backends.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout" json:"read_timeout" env:"CAMERA_READ_TIMEOUT" envDefault:"10s"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendAuto,
		DeviceIndex: 0,
		Width:       640,
		Height:      480,
		FrameRate:   15,
		ReadTimeout: 10 * time.Second,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DeviceIndex < 0 {
		return fmt.Errorf("device_index must not be negative, got %d", c.DeviceIndex)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("frame size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive, got %v", c.ReadTimeout)
	}
	if c.Backend == BackendHTTP && c.SnapshotURL == "" {
		return fmt.Errorf("http backend requires snapshot_url")
	}
	return nil
}

// DevicePath returns the V4L2 device path for this configuration,
// deriving it from DeviceIndex when no explicit path is set.
func (c *Config) DevicePath() string {
	if c.Device != "" {
		return c.Device
	}
	return fmt.Sprintf("/dev/video%d", c.DeviceIndex)
}
