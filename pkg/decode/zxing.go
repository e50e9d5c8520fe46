package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	"github.com/makiuchi-d/gozxing/multi/qrcode"
)

// ZXingDecoder decodes QR codes with the pure Go zxing port.
// It needs no native OpenCV runtime at the cost of more CPU per frame.
type ZXingDecoder struct {
	reader multi.MultipleBarcodeReader
	hints  map[gozxing.DecodeHintType]interface{}
	logger *slog.Logger
	mu     sync.Mutex // Protects reader
	closed bool
}

// newZXingDecoder creates a new zxing-backed decoder.
func newZXingDecoder(cfg Config, logger *slog.Logger) *ZXingDecoder {
	if logger == nil {
		logger = slog.Default()
	}

	hints := map[gozxing.DecodeHintType]interface{}{}
	if cfg.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	return &ZXingDecoder{
		reader: qrcode.NewQRCodeMultiReader(),
		hints:  hints,
		logger: logger,
	}
}

// Decode finds and decodes all QR codes in the JPEG image.
func (d *ZXingDecoder) Decode(jpegData []byte) ([]Symbol, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}

	img, err := jpeg.Decode(bytes.NewReader(jpegData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("binarize image: %w", err)
	}

	results, err := d.reader.DecodeMultiple(bmp, d.hints)
	if err != nil {
		// No code in the frame is a normal outcome, not an error
		if _, ok := err.(gozxing.NotFoundException); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("decode symbols: %w", err)
	}

	symbols := make([]Symbol, 0, len(results))
	for _, res := range results {
		if res.GetText() == "" {
			continue
		}

		symbols = append(symbols, Symbol{
			Payload: res.GetText(),
			Format:  FormatQRCode,
			Bounds:  pointBounds(res.GetResultPoints()),
		})
	}

	return symbols, nil
}

// pointBounds converts zxing result points to a bounding box.
func pointBounds(points []gozxing.ResultPoint) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}

	minX, minY := int(points[0].GetX()), int(points[0].GetY())
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		x, y := int(p.GetX()), int(p.GetY())
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

// Name returns "zxing".
func (d *ZXingDecoder) Name() string {
	return "zxing"
}

// Close marks the decoder closed. The pure Go reader holds no native
// resources.
func (d *ZXingDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	return nil
}

var _ Decoder = (*ZXingDecoder)(nil)
