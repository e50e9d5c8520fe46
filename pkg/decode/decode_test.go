package decode

import (
	"errors"
	"strings"
	"testing"
)

func TestMockDecoder_Script(t *testing.T) {
	boom := errors.New("bad frame")
	dec := NewMockDecoder(
		WithPayloads("first"),
		WithError(boom),
		WithSymbols(Symbol{Payload: "second", Format: FormatQRCode}),
	)
	defer dec.Close()

	symbols, err := dec.Decode(nil)
	if err != nil {
		t.Fatalf("First decode failed: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Payload != "first" {
		t.Errorf("Expected payload 'first', got %v", symbols)
	}

	if _, err := dec.Decode(nil); !errors.Is(err, boom) {
		t.Errorf("Expected scripted error, got %v", err)
	}

	symbols, err = dec.Decode(nil)
	if err != nil {
		t.Fatalf("Third decode failed: %v", err)
	}
	if len(symbols) != 1 || symbols[0].Payload != "second" {
		t.Errorf("Expected payload 'second', got %v", symbols)
	}

	// Exhausted script decodes nothing
	symbols, err = dec.Decode(nil)
	if err != nil || len(symbols) != 0 {
		t.Errorf("Expected empty result after script end, got %v, %v", symbols, err)
	}

	if dec.Calls() != 4 {
		t.Errorf("Expected 4 calls, got %d", dec.Calls())
	}
}

func TestMockDecoder_Loop(t *testing.T) {
	dec := NewMockDecoder(WithPayloads("again"), WithLoop())
	defer dec.Close()

	for i := 0; i < 3; i++ {
		symbols, err := dec.Decode(nil)
		if err != nil {
			t.Fatalf("Decode %d failed: %v", i, err)
		}
		if len(symbols) != 1 || symbols[0].Payload != "again" {
			t.Errorf("Decode %d: expected looped payload, got %v", i, symbols)
		}
	}
}

func TestMockDecoder_Closed(t *testing.T) {
	dec := NewMockDecoder()
	dec.Close()

	if _, err := dec.Decode(nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}

	cfg.Backend = Backend("abacus")
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "abacus") {
		t.Errorf("Error should name the backend, got %v", err)
	}
}

func TestNew_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendMock

	dec, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer dec.Close()

	if dec.Name() != "mock" {
		t.Errorf("Expected mock decoder, got %s", dec.Name())
	}
}

func TestNew_InvalidBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = Backend("abacus")

	if _, err := New(cfg, nil); err == nil {
		t.Fatal("Expected error for unknown backend")
	}
}
