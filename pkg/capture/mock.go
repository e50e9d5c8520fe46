package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// mockJPEG is a placeholder frame payload carrying JPEG start and end
// markers so it passes the same validation as real captures.
var mockJPEG = func() []byte {
	b := make([]byte, 1024)
	b[0], b[1] = 0xFF, 0xD8
	b[len(b)-2], b[len(b)-1] = 0xFF, 0xD9
	return b
}()

// mockStep is one scripted Read outcome.
type mockStep struct {
	frame Frame
	err   error
}

// MockSource is a scripted frame source for testing.
// Without a script it synthesizes placeholder frames forever.
type MockSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	closed  bool
	script  []mockStep
	idx     int
	loop    bool

	startErr  error
	readDelay time.Duration

	startCalls int
	readCalls  int
	closeCalls int

	// Stats
	seq        atomic.Int64
	framesRead atomic.Int64
	bytesRead  atomic.Int64
	readErrors atomic.Int64
}

// MockSourceOption configures a MockSource.
type MockSourceOption func(*MockSource)

// WithFrames appends successful reads returning the given frames in order.
func WithFrames(frames ...Frame) MockSourceOption {
	return func(m *MockSource) {
		for _, f := range frames {
			m.script = append(m.script, mockStep{frame: f})
		}
	}
}

// WithReadError appends a read that fails with err.
func WithReadError(err error) MockSourceOption {
	return func(m *MockSource) {
		m.script = append(m.script, mockStep{err: err})
	}
}

// WithStartError makes Start fail with err.
func WithStartError(err error) MockSourceOption {
	return func(m *MockSource) {
		m.startErr = err
	}
}

// WithLoop replays the script from the start once it is exhausted.
// Without it, an exhausted script behaves like a lost device.
func WithLoop() MockSourceOption {
	return func(m *MockSource) {
		m.loop = true
	}
}

// WithReadDelay makes every read take at least d.
func WithReadDelay(d time.Duration) MockSourceOption {
	return func(m *MockSource) {
		m.readDelay = d
	}
}

// NewMockSource creates a new mock frame source.
func NewMockSource(cfg Config, logger *slog.Logger, opts ...MockSourceOption) *MockSource {
	if logger == nil {
		logger = slog.Default()
	}

	m := &MockSource{
		cfg:    cfg,
		logger: logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start marks the source as open.
func (m *MockSource) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.startCalls++

	if m.closed {
		return fmt.Errorf("start: %w", ErrSourceClosed)
	}
	if m.startErr != nil {
		return m.startErr
	}
	if m.running {
		return nil
	}

	m.running = true
	m.logger.Debug("mock source started")

	return nil
}

// Read returns the next scripted outcome, or a synthesized frame when
// no script was configured.
func (m *MockSource) Read(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Frame{}, fmt.Errorf("read: %w", ErrSourceClosed)
	}
	if !m.running {
		m.mu.Unlock()
		return Frame{}, ErrNotStarted
	}
	m.readCalls++
	delay := m.readDelay

	var step mockStep
	scripted := len(m.script) > 0
	if scripted {
		if m.idx >= len(m.script) {
			if !m.loop {
				m.mu.Unlock()
				return Frame{}, fmt.Errorf("script exhausted: %w", ErrSourceClosed)
			}
			m.idx = 0
		}
		step = m.script[m.idx]
		m.idx++
	}
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	if scripted && step.err != nil {
		m.readErrors.Add(1)
		return Frame{}, step.err
	}

	frame := step.frame
	if !scripted {
		frame = Frame{JPEG: mockJPEG, Width: m.cfg.Width, Height: m.cfg.Height}
	}
	frame.Seq = m.seq.Add(1)
	if frame.CapturedAt.IsZero() {
		frame.CapturedAt = time.Now()
	}

	m.framesRead.Add(1)
	m.bytesRead.Add(int64(len(frame.JPEG)))

	return frame, nil
}

// Config returns the capture configuration.
func (m *MockSource) Config() Config {
	return m.cfg
}

// Name returns "mock".
func (m *MockSource) Name() string {
	return "mock"
}

// Close releases the mock source.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeCalls++

	if m.closed {
		return nil
	}
	m.closed = true
	m.running = false

	m.logger.Debug("mock source closed")

	return nil
}

// StartCalls returns how many times Start was called.
func (m *MockSource) StartCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalls
}

// ReadCalls returns how many times Read was called.
func (m *MockSource) ReadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readCalls
}

// CloseCalls returns how many times Close was called.
func (m *MockSource) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

// Stats returns source statistics.
func (m *MockSource) Stats() SourceStats {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()

	return SourceStats{
		FramesRead: m.framesRead.Load(),
		BytesRead:  m.bytesRead.Load(),
		ReadErrors: m.readErrors.Load(),
		Running:    running,
		Backend:    "mock",
	}
}

var _ SourceWithStats = (*MockSource)(nil)
