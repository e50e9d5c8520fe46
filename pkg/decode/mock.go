package decode

import "sync"

// mockResult is one scripted Decode outcome.
type mockResult struct {
	symbols []Symbol
	err     error
}

// MockDecoder returns scripted symbols for testing.
// Once the script is exhausted it decodes nothing, unless configured
// to loop.
type MockDecoder struct {
	mu     sync.Mutex
	script []mockResult
	idx    int
	loop   bool
	calls  int
	closed bool
}

// MockDecoderOption configures a MockDecoder.
type MockDecoderOption func(*MockDecoder)

// WithSymbols appends a decode returning the given symbols.
func WithSymbols(symbols ...Symbol) MockDecoderOption {
	return func(m *MockDecoder) {
		m.script = append(m.script, mockResult{symbols: symbols})
	}
}

// WithPayloads appends a decode returning one QR symbol per payload.
func WithPayloads(payloads ...string) MockDecoderOption {
	return func(m *MockDecoder) {
		symbols := make([]Symbol, 0, len(payloads))
		for _, p := range payloads {
			symbols = append(symbols, Symbol{Payload: p, Format: FormatQRCode})
		}
		m.script = append(m.script, mockResult{symbols: symbols})
	}
}

// WithError appends a decode failing with err.
func WithError(err error) MockDecoderOption {
	return func(m *MockDecoder) {
		m.script = append(m.script, mockResult{err: err})
	}
}

// WithLoop replays the script from the start once it is exhausted.
func WithLoop() MockDecoderOption {
	return func(m *MockDecoder) {
		m.loop = true
	}
}

// NewMockDecoder creates a new mock decoder.
func NewMockDecoder(opts ...MockDecoderOption) *MockDecoder {
	m := &MockDecoder{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Decode returns the next scripted outcome.
func (m *MockDecoder) Decode(jpeg []byte) ([]Symbol, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	m.calls++

	if len(m.script) == 0 {
		return nil, nil
	}
	if m.idx >= len(m.script) {
		if !m.loop {
			return nil, nil
		}
		m.idx = 0
	}

	step := m.script[m.idx]
	m.idx++

	return step.symbols, step.err
}

// Name returns "mock".
func (m *MockDecoder) Name() string {
	return "mock"
}

// Close marks the decoder closed.
func (m *MockDecoder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Calls returns how many times Decode was called.
func (m *MockDecoder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ Decoder = (*MockDecoder)(nil)
