package capture

import (
	"fmt"
	"log/slog"
	"runtime"
)

// New creates a new frame source with the given configuration.
// If cfg.Backend is BackendAuto, a backend is selected from the rest of
// the configuration. The device itself is not opened until Start.
func New(cfg Config, logger *slog.Logger) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	backend := cfg.Backend
	if backend == BackendAuto {
		backend = detectBackend(cfg)
	}

	logger.Info("creating frame source",
		"backend", backend,
		"device", cfg.DevicePath(),
		"width", cfg.Width,
		"height", cfg.Height,
		"fps", cfg.FrameRate,
	)

	switch backend {
	case BackendMock:
		return NewMockSource(cfg, logger), nil
	case BackendWebcam:
		return newWebcamSource(cfg, logger), nil
	case BackendStill:
		return newStillSource(cfg, logger), nil
	case BackendHTTP:
		return newHTTPSource(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// detectBackend picks a backend for BackendAuto.
func detectBackend(cfg Config) Backend {
	if cfg.SnapshotURL != "" {
		return BackendHTTP
	}
	return BackendWebcam
}

// AvailableBackends returns the list of backends usable on this platform.
func AvailableBackends() []Backend {
	backends := []Backend{BackendMock, BackendWebcam, BackendHTTP}

	// Still capture shells out to V4L2 and libcamera tools.
	if runtime.GOOS == "linux" {
		backends = append(backends, BackendStill)
	}

	return backends
}
