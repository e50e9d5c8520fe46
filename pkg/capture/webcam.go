package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"
)

// captureAPIs is the preference order for OpenCV capture backends.
// V4L2 is the reliable choice on the Raspberry Pi, GStreamer covers
// libcamera-only stacks, and Any lets OpenCV pick on other platforms.
var captureAPIs = []gocv.VideoCaptureAPI{
	gocv.VideoCaptureV4L2,
	gocv.VideoCaptureGstreamer,
	gocv.VideoCaptureAny,
}

// WebcamSource captures frames from a directly attached camera using
// OpenCV video capture. This is the production backend.
type WebcamSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	cap     *gocv.VideoCapture
	mat     gocv.Mat
	api     gocv.VideoCaptureAPI
	running bool
	closed  bool

	// Stats
	seq        atomic.Int64
	framesRead atomic.Int64
	bytesRead  atomic.Int64
	readErrors atomic.Int64
}

// newWebcamSource creates a new webcam source. The device is opened in Start.
func newWebcamSource(cfg Config, logger *slog.Logger) *WebcamSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &WebcamSource{
		cfg:    cfg,
		logger: logger,
	}
}

// Start opens the camera, trying each capture API in preference order.
// A candidate must deliver one test frame before it is accepted.
func (s *WebcamSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("start: %w", ErrSourceClosed)
	}
	if s.running {
		return nil
	}

	var device interface{} = s.cfg.DeviceIndex
	if s.cfg.Device != "" {
		device = s.cfg.Device
	}

	for _, api := range captureAPIs {
		if err := ctx.Err(); err != nil {
			return err
		}

		cap, err := gocv.OpenVideoCaptureWithAPI(device, api)
		if err != nil || !cap.IsOpened() {
			if cap != nil {
				cap.Close()
			}
			s.logger.Debug("capture API rejected", "api", apiName(api), "error", err)
			continue
		}

		s.applyProperties(cap)

		// Some drivers open successfully but never deliver frames.
		probe := gocv.NewMat()
		ok := cap.Read(&probe)
		empty := probe.Empty()
		probe.Close()
		if !ok || empty {
			cap.Close()
			s.logger.Debug("capture API opened but delivered no frame", "api", apiName(api))
			continue
		}

		s.cap = cap
		s.api = api
		s.mat = gocv.NewMat()
		s.running = true

		s.logger.Info("webcam opened",
			"api", apiName(api),
			"device", device,
			"width", int(cap.Get(gocv.VideoCaptureFrameWidth)),
			"height", int(cap.Get(gocv.VideoCaptureFrameHeight)),
			"fps", cap.Get(gocv.VideoCaptureFPS),
		)

		return nil
	}

	return fmt.Errorf("open camera %v: %w", device, ErrDeviceUnavailable)
}

// applyProperties requests the configured capture parameters.
// All of them are advisory; drivers clamp or ignore unsupported values.
func (s *WebcamSource) applyProperties(cap *gocv.VideoCapture) {
	cap.Set(gocv.VideoCaptureFrameWidth, float64(s.cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(s.cfg.Height))
	cap.Set(gocv.VideoCaptureFPS, float64(s.cfg.FrameRate))

	// Keep the driver queue short so frames are close to live, and
	// prefer MJPG, which cheap UVC cameras handle at full rate.
	cap.Set(gocv.VideoCaptureBufferSize, 1)
	cap.Set(gocv.VideoCaptureFOURCC, fourcc("MJPG"))
}

// Read reads the next frame from the camera and encodes it as JPEG.
func (s *WebcamSource) Read(ctx context.Context) (Frame, error) {
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

	if ok := s.cap.Read(&s.mat); !ok || s.mat.Empty() {
		s.readErrors.Add(1)
		return Frame{}, fmt.Errorf("grab frame: %w", ErrReadFailed)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, s.mat)
	if err != nil {
		s.readErrors.Add(1)
		return Frame{}, fmt.Errorf("encode frame: %w", ErrReadFailed)
	}
	defer buf.Close()

	// The native buffer is freed on Close, so the bytes must be copied out.
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())

	frame := Frame{
		JPEG:       data,
		Width:      s.mat.Cols(),
		Height:     s.mat.Rows(),
		Seq:        s.seq.Add(1),
		CapturedAt: time.Now(),
	}

	s.framesRead.Add(1)
	s.bytesRead.Add(int64(len(data)))

	return frame, nil
}

// Config returns the capture configuration.
func (s *WebcamSource) Config() Config {
	return s.cfg
}

// Name returns "webcam".
func (s *WebcamSource) Name() string {
	return "webcam"
}

// Close releases the camera handle.
func (s *WebcamSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.running = false

	if s.cap != nil {
		if err := s.cap.Close(); err != nil {
			s.logger.Warn("closing camera", "error", err)
		}
		s.cap = nil
		s.mat.Close()
	}

	s.logger.Info("webcam closed",
		"frames_read", s.framesRead.Load(),
		"read_errors", s.readErrors.Load(),
	)

	return nil
}

// Stats returns source statistics.
func (s *WebcamSource) Stats() SourceStats {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	return SourceStats{
		FramesRead: s.framesRead.Load(),
		BytesRead:  s.bytesRead.Load(),
		ReadErrors: s.readErrors.Load(),
		Running:    running,
		Backend:    "webcam",
	}
}

var _ SourceWithStats = (*WebcamSource)(nil)

// fourcc packs a four character codec code the way OpenCV expects it.
func fourcc(code string) float64 {
	if len(code) != 4 {
		return 0
	}
	return float64(uint32(code[0]) | uint32(code[1])<<8 | uint32(code[2])<<16 | uint32(code[3])<<24)
}

// apiName returns a readable name for an OpenCV capture API constant.
func apiName(api gocv.VideoCaptureAPI) string {
	switch api {
	case gocv.VideoCaptureV4L2:
		return "v4l2"
	case gocv.VideoCaptureGstreamer:
		return "gstreamer"
	case gocv.VideoCaptureAny:
		return "any"
	default:
		return fmt.Sprintf("api-%d", int(api))
	}
}
