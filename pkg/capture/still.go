package capture

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// stillTools is the preference order for still-capture tools.
// libcamera-still covers the current Raspberry Pi camera stack,
// raspistill the legacy one, then generic V4L2 tools.
var stillTools = []string{"libcamera-still", "raspistill", "fswebcam", "ffmpeg"}

// StillSource captures frames by shelling out to a still-capture tool,
// one invocation per frame. It is the fallback for hosts where the
// OpenCV runtime is unavailable or cannot talk to the camera stack.
type StillSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	tool    string
	tmpDir  string
	running bool
	closed  bool

	// Stats
	seq        atomic.Int64
	framesRead atomic.Int64
	bytesRead  atomic.Int64
	readErrors atomic.Int64
}

// newStillSource creates a new still-capture source.
// Tool probing happens in Start.
func newStillSource(cfg Config, logger *slog.Logger) *StillSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &StillSource{
		cfg:    cfg,
		logger: logger,
	}
}

// Start probes for an available capture tool and prepares a scratch
// directory for captured stills.
func (s *StillSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("start: %w", ErrSourceClosed)
	}
	if s.running {
		return nil
	}

	tool := ""
	for _, candidate := range stillTools {
		if _, err := exec.LookPath(candidate); err == nil {
			tool = candidate
			break
		}
	}
	if tool == "" {
		return fmt.Errorf("no still-capture tool found (tried %s): %w",
			strings.Join(stillTools, ", "), ErrDeviceUnavailable)
	}

	tmpDir, err := os.MkdirTemp("", "raspi-pen-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}

	s.tool = tool
	s.tmpDir = tmpDir
	s.running = true

	s.logger.Info("still capture ready",
		"tool", tool,
		"device", s.cfg.DevicePath(),
		"width", s.cfg.Width,
		"height", s.cfg.Height,
	)

	return nil
}

// Read captures a single still and returns it as a frame.
func (s *StillSource) Read(ctx context.Context) (Frame, error) {
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

	outPath := filepath.Join(s.tmpDir, "frame.jpg")
	os.Remove(outPath)

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.tool, s.toolArgs(outPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		s.readErrors.Add(1)
		s.logger.Debug("capture tool failed",
			"tool", s.tool,
			"error", err,
			"output", truncate(string(out), 200),
		)
		return Frame{}, fmt.Errorf("%s: %w", s.tool, ErrReadFailed)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		s.readErrors.Add(1)
		return Frame{}, fmt.Errorf("read still: %w", ErrReadFailed)
	}
	if !isValidJPEG(data) {
		s.readErrors.Add(1)
		return Frame{}, fmt.Errorf("%s produced a corrupt image: %w", s.tool, ErrReadFailed)
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

// toolArgs builds the argument list for the selected capture tool.
func (s *StillSource) toolArgs(outPath string) []string {
	size := fmt.Sprintf("%dx%d", s.cfg.Width, s.cfg.Height)

	switch s.tool {
	case "libcamera-still":
		return []string{
			"-t", "1",
			"--width", strconv.Itoa(s.cfg.Width),
			"--height", strconv.Itoa(s.cfg.Height),
			"--quality", "75",
			"--nopreview",
			"-o", outPath,
		}
	case "raspistill":
		return []string{
			"-t", "1",
			"-w", strconv.Itoa(s.cfg.Width),
			"-h", strconv.Itoa(s.cfg.Height),
			"-q", "75",
			"--nopreview",
			"-o", outPath,
		}
	case "fswebcam":
		return []string{
			"-d", s.cfg.DevicePath(),
			"-r", size,
			"--no-banner",
			"--save", outPath,
		}
	case "ffmpeg":
		return []string{
			"-f", "v4l2",
			"-video_size", size,
			"-i", s.cfg.DevicePath(),
			"-vframes", "1",
			"-y", outPath,
		}
	default:
		return nil
	}
}

// Config returns the capture configuration.
func (s *StillSource) Config() Config {
	return s.cfg
}

// Name returns "still".
func (s *StillSource) Name() string {
	return "still"
}

// Close removes the scratch directory.
func (s *StillSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.running = false

	if s.tmpDir != "" {
		if err := os.RemoveAll(s.tmpDir); err != nil {
			s.logger.Warn("removing scratch dir", "error", err)
		}
		s.tmpDir = ""
	}

	s.logger.Info("still capture closed",
		"frames_read", s.framesRead.Load(),
		"read_errors", s.readErrors.Load(),
	)

	return nil
}

// Stats returns source statistics.
func (s *StillSource) Stats() SourceStats {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	return SourceStats{
		FramesRead: s.framesRead.Load(),
		BytesRead:  s.bytesRead.Load(),
		ReadErrors: s.readErrors.Load(),
		Running:    running,
		Backend:    "still",
	}
}

var _ SourceWithStats = (*StillSource)(nil)

// truncate shortens s for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
