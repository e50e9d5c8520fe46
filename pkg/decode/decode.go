// Package decode extracts QR code symbols from captured frames.
//
// Two real backends are provided: "opencv" uses the detector built into
// OpenCV and is the fast path, "zxing" is a pure Go fallback for hosts
// where the native OpenCV runtime cannot be installed.
package decode

import (
	"errors"
	"fmt"
	"image"
)

// Format identifies the symbology of a decoded symbol.
type Format string

// FormatQRCode is the only symbology the bundled backends produce.
const FormatQRCode Format = "QR_CODE"

// Symbol is a single decoded code from one frame.
type Symbol struct {
	// Payload is the decoded text content.
	Payload string

	// Format is the symbology tag.
	Format Format

	// Bounds is the symbol's bounding box in frame pixels.
	// The zero rectangle means the location is unknown.
	Bounds image.Rectangle
}

// Decoder extracts symbols from a JPEG-encoded frame.
type Decoder interface {
	// Decode returns every symbol found in the image.
	// A frame with no codes returns an empty result and no error.
	Decode(jpeg []byte) ([]Symbol, error)

	// Name returns the backend name (e.g., "opencv", "zxing", "mock").
	Name() string

	// Close releases resources.
	Close() error
}

// ErrClosed indicates Decode was called after Close.
var ErrClosed = errors.New("decode: decoder closed")

// Backend represents the decoder backend type.
type Backend string

const (
	// BackendAuto selects the default backend.
	BackendAuto Backend = "auto"
	// BackendOpenCV uses OpenCV's QR detector.
	BackendOpenCV Backend = "opencv"
	// BackendZXing uses the pure Go zxing port.
	BackendZXing Backend = "zxing"
	// BackendMock uses a scripted implementation for testing.
	BackendMock Backend = "mock"
)

// Config holds decoder configuration.
type Config struct {
	// Backend specifies which decoder backend to use.
	// Default: "auto" (opencv)
	Backend Backend `yaml:"backend" json:"backend" env:"DECODER_BACKEND" envDefault:"auto"`

	// TryHarder asks the zxing backend to spend more CPU per frame on
	// small or skewed codes. The opencv backend ignores it.
	TryHarder bool `yaml:"try_harder" json:"try_harder" env:"DECODER_TRY_HARDER" envDefault:"false"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendAuto,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendOpenCV, BackendZXing, BackendMock:
		return nil
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
}
