package scanner

import "errors"

// Sentinel errors for the scanner package.
var (
	// ErrDeviceLost indicates the camera stopped delivering frames and
	// did not recover within the configured failure budget.
	ErrDeviceLost = errors.New("scanner: camera device lost")

	// ErrAlreadyRunning indicates Run was called while a previous Run
	// is still active.
	ErrAlreadyRunning = errors.New("scanner: already running")
)
