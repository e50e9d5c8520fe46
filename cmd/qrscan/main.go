// qrscan - QR code scanner for a Raspberry Pi camera
//
// Reads frames from a camera, decodes QR codes and prints each newly
// seen payload as one line on stdout. Logs and status go to stderr so
// the output can be piped.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/robert-herzig/raspi-pen/internal/config"
	"github.com/robert-herzig/raspi-pen/internal/log"
	"github.com/robert-herzig/raspi-pen/pkg/capture"
	"github.com/robert-herzig/raspi-pen/pkg/decode"
	"github.com/robert-herzig/raspi-pen/pkg/scanner"
)

func main() {
	cfg, list := parseFlags()

	if list {
		listCameras()
		return
	}

	log.Init(cfg.LogLevel)

	fmt.Fprintln(os.Stderr, "📷 raspi-pen QR scanner")
	fmt.Fprintf(os.Stderr, "   camera=%s decoder=%s debounce=%v\n",
		cfg.Camera.Backend, cfg.Decoder.Backend, cfg.Scanner.DebounceInterval)
	fmt.Fprintln(os.Stderr, "   Press Ctrl+C to stop")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, err := capture.New(cfg.Camera, log.L())
	if err != nil {
		fatalf("Camera setup failed: %v", err)
	}

	dec, err := decode.New(cfg.Decoder, log.L())
	if err != nil {
		fatalf("Decoder setup failed: %v", err)
	}

	emitter := scanner.NewConsoleEmitter(os.Stdout, cfg.Scanner.EmitTimestamps, cfg.Scanner.EmitFormats)

	sc, err := scanner.New(cfg.Scanner, src, dec, emitter, log.L())
	if err != nil {
		dec.Close()
		fatalf("Scanner setup failed: %v", err)
	}

	err = sc.Run(ctx)
	dec.Close()

	switch {
	case err == nil:
		fmt.Fprintln(os.Stderr, "👋 Goodbye!")
	case errors.Is(err, capture.ErrDeviceUnavailable):
		fmt.Fprintf(os.Stderr, "❌ Camera unavailable: %v\n", err)
		fmt.Fprintln(os.Stderr, "   Check that a camera is connected: ls /dev/video*")
		fmt.Fprintln(os.Stderr, "   Check permissions: your user must be in the video group")
		fmt.Fprintln(os.Stderr, "   On a Pi without a V4L2 driver, try: qrscan -backend still")
		os.Exit(1)
	case errors.Is(err, scanner.ErrDeviceLost):
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	default:
		fatalf("Scanner failed: %v", err)
	}
}

// parseFlags loads the environment configuration and overlays command
// line flags on top of it.
func parseFlags() (config.Config, bool) {
	cfg, err := config.Load()
	if err != nil {
		fatalf("Configuration error: %v", err)
	}

	backend := flag.String("backend", string(cfg.Camera.Backend), "Camera backend: auto, webcam, still, http, mock")
	flag.IntVar(&cfg.Camera.DeviceIndex, "camera", cfg.Camera.DeviceIndex, "Camera device index")
	flag.StringVar(&cfg.Camera.Device, "device", cfg.Camera.Device, "Camera device path (overrides -camera)")
	flag.IntVar(&cfg.Camera.Width, "width", cfg.Camera.Width, "Frame width in pixels")
	flag.IntVar(&cfg.Camera.Height, "height", cfg.Camera.Height, "Frame height in pixels")
	preset := flag.String("preset", "", "Capture preset: "+strings.Join(capture.PresetNames(), ", "))
	flag.StringVar(&cfg.Camera.SnapshotURL, "snapshot-url", cfg.Camera.SnapshotURL, "Snapshot endpoint for the http backend")
	decoder := flag.String("decoder", string(cfg.Decoder.Backend), "Decoder backend: auto, opencv, zxing, mock")
	flag.DurationVar(&cfg.Scanner.DebounceInterval, "debounce", cfg.Scanner.DebounceInterval, "Suppress repeats of a payload for this long")
	flag.DurationVar(&cfg.Scanner.PollInterval, "poll", cfg.Scanner.PollInterval, "Delay between frames")
	plain := flag.Bool("plain", false, "Print bare payloads without timestamp and format columns")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	list := flag.Bool("list", false, "List camera devices and exit")
	flag.Parse()

	cfg.Camera.Backend = capture.Backend(*backend)
	cfg.Decoder.Backend = decode.Backend(*decoder)
	if *preset != "" {
		p := capture.GetPreset(*preset)
		if p == nil {
			fatalf("Unknown preset %q (available: %s)", *preset, strings.Join(capture.PresetNames(), ", "))
		}
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

		// An explicit size flag wins over the preset
		if !explicit["width"] {
			cfg.Camera.Width = p.Width
		}
		if !explicit["height"] {
			cfg.Camera.Height = p.Height
		}
		cfg.Camera.FrameRate = p.FrameRate
	}
	if *plain {
		cfg.Scanner.EmitTimestamps = false
		cfg.Scanner.EmitFormats = false
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	// Flags can introduce new values, so validate again
	if err := cfg.Validate(); err != nil {
		fatalf("Configuration error: %v", err)
	}

	return cfg, *list
}

// listCameras prints the V4L2 devices present on this machine.
func listCameras() {
	devices, err := capture.ListDevices()
	if err != nil {
		fatalf("%v", err)
	}
	if len(devices) == 0 {
		fmt.Println("No camera devices found")
		return
	}
	for _, d := range devices {
		fmt.Println(d)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "❌ "+format+"\n", args...)
	os.Exit(1)
}
