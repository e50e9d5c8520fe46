package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/robert-herzig/raspi-pen/pkg/capture"
	"github.com/robert-herzig/raspi-pen/pkg/decode"
)

// Scanner runs the capture, decode, debounce, emit loop.
type Scanner struct {
	cfg      Config
	source   capture.Source
	decoder  decode.Decoder
	emitter  Emitter
	debounce *Debouncer
	logger   *slog.Logger

	running atomic.Bool

	// Stats
	framesScanned  atomic.Int64
	readFailures   atomic.Int64
	decodeErrors   atomic.Int64
	symbolsDecoded atomic.Int64
	emitted        atomic.Int64
	suppressed     atomic.Int64
}

// Stats contains counters for one scan session.
type Stats struct {
	// FramesScanned is the number of frames read and decoded.
	FramesScanned int64 `json:"frames_scanned"`

	// ReadFailures is the number of failed frame reads.
	ReadFailures int64 `json:"read_failures"`

	// DecodeErrors is the number of frames the decoder rejected.
	DecodeErrors int64 `json:"decode_errors"`

	// SymbolsDecoded is the number of symbols seen, including duplicates.
	SymbolsDecoded int64 `json:"symbols_decoded"`

	// Emitted is the number of payload lines written.
	Emitted int64 `json:"emitted"`

	// Suppressed is the number of sightings dropped by the debouncer.
	Suppressed int64 `json:"suppressed"`
}

// New creates a scanner around a frame source and a decoder.
// A nil emitter falls back to a ConsoleEmitter on stdout. The scanner
// takes over the source's lifecycle; the decoder stays with the caller.
func New(cfg Config, source capture.Source, decoder decode.Decoder, emitter Emitter, logger *slog.Logger) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}
	if emitter == nil {
		emitter = NewConsoleEmitter(os.Stdout, cfg.EmitTimestamps, cfg.EmitFormats)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scanner{
		cfg:      cfg,
		source:   source,
		decoder:  decoder,
		emitter:  emitter,
		debounce: NewDebouncer(cfg.DebounceInterval),
		logger:   logger.With("session", uuid.New().String()),
	}, nil
}

// Run drives the scan loop until ctx is cancelled.
//
// It starts the source, reads and decodes frames, and emits every
// payload the debouncer accepts. The source is closed exactly once on
// every exit path after a successful start. Run returns nil on
// cancellation, the source's error when the device cannot be opened,
// and ErrDeviceLost when the device stops delivering frames for good.
func (s *Scanner) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	if err := s.source.Start(ctx); err != nil {
		return fmt.Errorf("start %s source: %w", s.source.Name(), err)
	}
	defer func() {
		if err := s.source.Close(); err != nil {
			s.logger.Warn("closing source", "error", err)
		}
		stats := s.Stats()
		s.logger.Info("scan loop finished",
			"frames", stats.FramesScanned,
			"read_failures", stats.ReadFailures,
			"symbols", stats.SymbolsDecoded,
			"emitted", stats.Emitted,
			"suppressed", stats.Suppressed,
			"unique_payloads", s.debounce.Len(),
		)
	}()

	s.logger.Info("scan loop started",
		"source", s.source.Name(),
		"decoder", s.decoder.Name(),
		"debounce", s.cfg.DebounceInterval,
		"poll", s.cfg.PollInterval,
	)

	consecutive := 0
	for {
		if ctx.Err() != nil {
			return nil
		}

		frame, err := s.source.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, capture.ErrSourceClosed) {
				return fmt.Errorf("%w: %w", ErrDeviceLost, err)
			}

			s.readFailures.Add(1)
			consecutive++
			s.logger.Debug("frame read failed",
				"error", err,
				"consecutive", consecutive,
			)
			if consecutive >= s.cfg.MaxReadFailures {
				return fmt.Errorf("%w after %d consecutive read failures: %v",
					ErrDeviceLost, consecutive, err)
			}
			if !sleepCtx(ctx, s.cfg.ReadRetryDelay) {
				return nil
			}
			continue
		}
		consecutive = 0

		n := s.framesScanned.Add(1)
		if s.cfg.LogEveryFrames > 0 && n%int64(s.cfg.LogEveryFrames) == 0 {
			s.logger.Debug("scanning",
				"frames", n,
				"emitted", s.emitted.Load(),
			)
		}

		symbols, err := s.decoder.Decode(frame.JPEG)
		if err != nil {
			// A frame the decoder cannot handle is dropped, not fatal
			s.decodeErrors.Add(1)
			s.logger.Debug("decode failed", "seq", frame.Seq, "error", err)
			symbols = nil
		}

		now := time.Now()
		for _, sym := range symbols {
			if sym.Payload == "" {
				continue
			}
			s.symbolsDecoded.Add(1)

			if !s.debounce.ShouldEmit(sym.Payload, now) {
				s.suppressed.Add(1)
				continue
			}

			if err := s.emitter.Emit(sym, now); err != nil {
				s.logger.Warn("emit failed", "error", err)
				continue
			}
			s.emitted.Add(1)
			s.logger.Debug("emitted",
				"format", sym.Format,
				"bytes", len(sym.Payload),
				"seq", frame.Seq,
			)
		}

		if !sleepCtx(ctx, s.cfg.PollInterval) {
			return nil
		}
	}
}

// Stats returns counters for the current session.
func (s *Scanner) Stats() Stats {
	return Stats{
		FramesScanned:  s.framesScanned.Load(),
		ReadFailures:   s.readFailures.Load(),
		DecodeErrors:   s.decodeErrors.Load(),
		SymbolsDecoded: s.symbolsDecoded.Load(),
		Emitted:        s.emitted.Load(),
		Suppressed:     s.suppressed.Load(),
	}
}

// sleepCtx pauses for d, returning false when ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
