package scanner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/robert-herzig/raspi-pen/pkg/decode"
)

// Emitter receives every payload the loop accepts.
type Emitter interface {
	// Emit outputs one accepted symbol. at is the scan time the
	// debounce decision was made with.
	Emit(sym decode.Symbol, at time.Time) error
}

// ConsoleEmitter writes one line per accepted payload to a writer,
// optionally prefixed with the scan timestamp and the symbology tag.
// Writes are serialized so lines never interleave.
type ConsoleEmitter struct {
	mu         sync.Mutex
	w          io.Writer
	timestamps bool
	formats    bool
}

// NewConsoleEmitter creates an emitter writing to w.
func NewConsoleEmitter(w io.Writer, timestamps, formats bool) *ConsoleEmitter {
	return &ConsoleEmitter{
		w:          w,
		timestamps: timestamps,
		formats:    formats,
	}
}

// Emit writes the symbol as a single tab-separated line.
func (e *ConsoleEmitter) Emit(sym decode.Symbol, at time.Time) error {
	var b strings.Builder
	if e.timestamps {
		b.WriteString(at.Format(time.RFC3339))
		b.WriteByte('\t')
	}
	if e.formats {
		b.WriteString(string(sym.Format))
		b.WriteByte('\t')
	}
	b.WriteString(sym.Payload)
	b.WriteByte('\n')

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := io.WriteString(e.w, b.String()); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

var _ Emitter = (*ConsoleEmitter)(nil)
