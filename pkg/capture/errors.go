package capture

import "errors"

// Sentinel errors for the capture package.
var (
	// ErrDeviceUnavailable indicates no capture device could be opened.
	ErrDeviceUnavailable = errors.New("capture: device unavailable")

	// ErrNotStarted indicates Read was called before Start.
	ErrNotStarted = errors.New("capture: source not started")

	// ErrReadFailed indicates a single frame could not be read.
	// Read failures are transient; the caller may retry.
	ErrReadFailed = errors.New("capture: frame read failed")

	// ErrSourceClosed indicates the source was closed or the device was
	// lost. Reads will not succeed again.
	ErrSourceClosed = errors.New("capture: source closed")
)

// IsTransient reports whether err is a per-frame failure worth retrying
// on the same source.
func IsTransient(err error) bool {
	return errors.Is(err, ErrReadFailed)
}
