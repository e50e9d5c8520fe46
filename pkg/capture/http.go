package capture

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPSource polls a network camera's snapshot endpoint for frames.
type HTTPSource struct {
	cfg    Config
	logger *slog.Logger
	client *resty.Client

	mu      sync.Mutex
	running bool
	closed  bool

	// Stats
	seq        atomic.Int64
	framesRead atomic.Int64
	bytesRead  atomic.Int64
	readErrors atomic.Int64
}

// newHTTPSource creates a new snapshot-polling source.
func newHTTPSource(cfg Config, logger *slog.Logger) (*HTTPSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := url.ParseRequestURI(cfg.SnapshotURL); err != nil {
		return nil, fmt.Errorf("invalid snapshot URL: %w", err)
	}

	client := resty.New().
		SetTimeout(cfg.ReadTimeout).
		SetHeader("Accept", "image/jpeg")

	if cfg.SnapshotToken != "" {
		client.SetHeader("Authorization", cfg.SnapshotToken)
	}

	return &HTTPSource{
		cfg:    cfg,
		logger: logger,
		client: client,
	}, nil
}

// Start probes the snapshot endpoint once so misconfiguration fails
// fast instead of surfacing as an endless retry loop.
func (s *HTTPSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("start: %w", ErrSourceClosed)
	}
	if s.running {
		return nil
	}

	if _, err := s.fetch(ctx); err != nil {
		return fmt.Errorf("probe %s: %v: %w", s.cfg.SnapshotURL, err, ErrDeviceUnavailable)
	}

	s.running = true

	s.logger.Info("snapshot source ready", "url", s.cfg.SnapshotURL)

	return nil
}

// Read fetches the next snapshot.
func (s *HTTPSource) Read(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Frame{}, fmt.Errorf("read: %w", ErrSourceClosed)
	}
	if !s.running {
		return Frame{}, ErrNotStarted
	}

	data, err := s.fetch(ctx)
	if err != nil {
		s.readErrors.Add(1)
		return Frame{}, fmt.Errorf("%v: %w", err, ErrReadFailed)
	}

	frame := Frame{
		JPEG:       data,
		Seq:        s.seq.Add(1),
		CapturedAt: time.Now(),
	}
	if cfgImg, err := jpeg.DecodeConfig(bytes.NewReader(data)); err == nil {
		frame.Width = cfgImg.Width
		frame.Height = cfgImg.Height
	}

	s.framesRead.Add(1)
	s.bytesRead.Add(int64(len(data)))

	return frame, nil
}

// fetch performs one snapshot request and validates the body.
func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.cfg.SnapshotURL)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("snapshot returned %s", resp.Status())
	}

	body := resp.Body()
	if !isValidJPEG(body) {
		return nil, fmt.Errorf("snapshot is not a valid JPEG (%d bytes)", len(body))
	}

	return body, nil
}

// Config returns the capture configuration.
func (s *HTTPSource) Config() Config {
	return s.cfg
}

// Name returns "http".
func (s *HTTPSource) Name() string {
	return "http"
}

// Close shuts down the HTTP client.
func (s *HTTPSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.running = false

	s.client.GetClient().CloseIdleConnections()

	s.logger.Info("snapshot source closed",
		"frames_read", s.framesRead.Load(),
		"read_errors", s.readErrors.Load(),
	)

	return nil
}

// Stats returns source statistics.
func (s *HTTPSource) Stats() SourceStats {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	return SourceStats{
		FramesRead: s.framesRead.Load(),
		BytesRead:  s.bytesRead.Load(),
		ReadErrors: s.readErrors.Load(),
		Running:    running,
		Backend:    "http",
	}
}

var _ SourceWithStats = (*HTTPSource)(nil)
