package decode

import (
	"fmt"
	"log/slog"
)

// New creates a new decoder with the given configuration.
// If cfg.Backend is BackendAuto, the opencv backend is selected.
func New(cfg Config, logger *slog.Logger) (Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	backend := cfg.Backend
	if backend == BackendAuto {
		backend = BackendOpenCV
	}

	logger.Info("creating decoder",
		"backend", backend,
		"try_harder", cfg.TryHarder,
	)

	switch backend {
	case BackendMock:
		return NewMockDecoder(), nil
	case BackendOpenCV:
		return newOpenCVDecoder(cfg, logger), nil
	case BackendZXing:
		return newZXingDecoder(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}
