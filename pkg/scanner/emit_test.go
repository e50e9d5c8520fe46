package scanner

import (
	"bytes"
	"testing"
	"time"

	"github.com/robert-herzig/raspi-pen/pkg/decode"
)

var emitAt = time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)

func TestConsoleEmitter_FullLine(t *testing.T) {
	var buf bytes.Buffer
	e := NewConsoleEmitter(&buf, true, true)

	sym := decode.Symbol{Payload: "https://example.com/pen/7", Format: decode.FormatQRCode}
	if err := e.Emit(sym, emitAt); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	want := "2025-08-25T12:00:00Z\tQR_CODE\thttps://example.com/pen/7\n"
	if got := buf.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestConsoleEmitter_PayloadOnly(t *testing.T) {
	var buf bytes.Buffer
	e := NewConsoleEmitter(&buf, false, false)

	if err := e.Emit(decode.Symbol{Payload: "bare"}, emitAt); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	if got := buf.String(); got != "bare\n" {
		t.Errorf("Expected bare payload line, got %q", got)
	}
}

func TestConsoleEmitter_TimestampsOnly(t *testing.T) {
	var buf bytes.Buffer
	e := NewConsoleEmitter(&buf, true, false)

	if err := e.Emit(decode.Symbol{Payload: "p", Format: decode.FormatQRCode}, emitAt); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	want := "2025-08-25T12:00:00Z\tp\n"
	if got := buf.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestConsoleEmitter_OneLinePerEmit(t *testing.T) {
	var buf bytes.Buffer
	e := NewConsoleEmitter(&buf, false, false)

	for _, p := range []string{"one", "two", "three"} {
		if err := e.Emit(decode.Symbol{Payload: p}, emitAt); err != nil {
			t.Fatalf("Emit failed: %v", err)
		}
	}

	want := "one\ntwo\nthree\n"
	if got := buf.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
