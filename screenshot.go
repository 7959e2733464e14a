package bloom

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

// Screenshot queues a labeled capture of the next presented frame. The PNG
// is written to ScreenshotDir with a timestamped filename. Safe to call from
// Update or from a test script.
func (d *Driver) Screenshot(label string) {
	d.screenshotQueue = append(d.screenshotQueue, label)
}

// flushScreenshots captures the current buffer for every queued label.
// Called by Frame after presenting and before the swap.
func (d *Driver) flushScreenshots() {
	if len(d.screenshotQueue) == 0 {
		return
	}
	defer func() { d.screenshotQueue = d.screenshotQueue[:0] }()

	if err := os.MkdirAll(d.ScreenshotDir, 0o755); err != nil {
		Logger().Warn("screenshot: mkdir failed", "dir", d.ScreenshotDir, "err", err)
		return
	}

	img, err := d.backend.Read(d.pair.Current())
	if err != nil {
		Logger().Warn("screenshot: read failed", "err", err)
		return
	}
	img = scaleImage(img, d.ScreenshotScale)

	stamp := time.Now().Format("20060102_150405")
	for _, label := range d.screenshotQueue {
		path := filepath.Join(d.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			Logger().Warn("screenshot: write failed", "err", err)
		}
	}
}

// scaleImage resizes img by factor with bilinear filtering. Factors <= 0
// or == 1 return img unchanged.
func scaleImage(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor <= 0 || factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(int(float64(b.Dx())*factor+0.5), 1)
	h := max(int(float64(b.Dy())*factor+0.5), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
