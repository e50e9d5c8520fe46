package capture

import (
	"context"
	"io"
	"time"
)

// Frame represents a single captured camera frame.
type Frame struct {
	// JPEG contains the frame encoded as JPEG bytes.
	JPEG []byte

	// Width and Height are the frame dimensions in pixels.
	// Zero when the backend could not determine them.
	Width  int
	Height int

	// Seq is the frame sequence number for this source, starting at 1.
	Seq int64

	// CapturedAt is when the frame was read from the device.
	CapturedAt time.Time
}

// Size returns the encoded size of the frame in bytes.
func (f *Frame) Size() int {
	return len(f.JPEG)
}

// Empty reports whether the frame carries no image data.
func (f *Frame) Empty() bool {
	return len(f.JPEG) == 0
}

// Source captures frames from a camera or other image producer.
type Source interface {
	// Start opens the capture device.
	// It fails fast with ErrDeviceUnavailable when no device can be opened.
	Start(ctx context.Context) error

	// Read returns the next frame, blocking if necessary.
	// Transient failures wrap ErrReadFailed and are worth retrying;
	// a closed or lost device wraps ErrSourceClosed.
	Read(ctx context.Context) (Frame, error)

	// Config returns the current capture configuration.
	Config() Config

	// Name returns the backend name (e.g., "webcam", "still", "http", "mock").
	Name() string

	// Close releases the device handle.
	// It is safe to call Close multiple times.
	io.Closer
}

// SourceStats contains statistics about a frame source.
type SourceStats struct {
	// FramesRead is the total number of frames read.
	FramesRead int64 `json:"frames_read"`

	// BytesRead is the total number of encoded bytes read.
	BytesRead int64 `json:"bytes_read"`

	// ReadErrors is the number of failed read attempts.
	ReadErrors int64 `json:"read_errors"`

	// Running indicates if the source is currently open.
	Running bool `json:"running"`

	// Backend is the name of the capture backend.
	Backend string `json:"backend"`
}

// SourceWithStats extends Source with statistics.
type SourceWithStats interface {
	Source
	Stats() SourceStats
}

// isValidJPEG checks that data carries a plausible JPEG image:
// SOI marker at the start, EOI marker at the end, and a minimum size
// that rules out truncated captures.
func isValidJPEG(data []byte) bool {
	if len(data) < 1000 {
		return false
	}
	if data[0] != 0xFF || data[1] != 0xD8 {
		return false
	}
	if data[len(data)-2] != 0xFF || data[len(data)-1] != 0xD9 {
		return false
	}
	return true
}
