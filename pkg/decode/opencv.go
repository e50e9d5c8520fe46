package decode

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"gocv.io/x/gocv"
)

// OpenCVDecoder decodes QR codes with OpenCV's built-in detector.
type OpenCVDecoder struct {
	detector gocv.QRCodeDetector
	logger   *slog.Logger
	mu       sync.Mutex // Protects detector
	closed   bool
}

// newOpenCVDecoder creates a new OpenCV-backed decoder.
func newOpenCVDecoder(cfg Config, logger *slog.Logger) *OpenCVDecoder {
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenCVDecoder{
		detector: gocv.NewQRCodeDetector(),
		logger:   logger,
	}
}

// Decode finds and decodes all QR codes in the JPEG image.
func (d *OpenCVDecoder) Decode(jpegData []byte) ([]Symbol, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}

	img, err := gocv.IMDecode(jpegData, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	// Grayscale input noticeably improves detection on low-end cameras
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	var decoded []string
	points := gocv.NewMat()
	defer points.Close()
	var straight []gocv.Mat
	defer func() {
		for i := range straight {
			straight[i].Close()
		}
	}()

	if !d.detector.DetectAndDecodeMulti(gray, &decoded, &points, &straight) {
		return nil, nil
	}

	var symbols []Symbol
	for i, payload := range decoded {
		// The detector reports located but unreadable regions as empty strings
		if payload == "" {
			continue
		}

		symbols = append(symbols, Symbol{
			Payload: payload,
			Format:  FormatQRCode,
			Bounds:  quadBounds(&points, i),
		})
	}

	return symbols, nil
}

// quadBounds converts one row of detector corner points to a bounding box.
// The points matrix has one row per symbol with four 2-channel entries.
func quadBounds(points *gocv.Mat, row int) image.Rectangle {
	if points.Empty() || row >= points.Rows() {
		return image.Rectangle{}
	}

	minX, minY := int(^uint(0)>>1), int(^uint(0)>>1)
	maxX, maxY := -minX, -minY
	for col := 0; col < points.Cols(); col++ {
		v := points.GetVecfAt(row, col)
		if len(v) < 2 {
			return image.Rectangle{}
		}
		x, y := int(v[0]), int(v[1])
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}

	return image.Rect(minX, minY, maxX, maxY)
}

// Name returns "opencv".
func (d *OpenCVDecoder) Name() string {
	return "opencv"
}

// Close releases the detector resources.
func (d *OpenCVDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.detector.Close()

	return nil
}

var _ Decoder = (*OpenCVDecoder)(nil)
