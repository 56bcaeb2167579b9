package tessera

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled screenshot of the next presented frame. The PNG
// is written to ScreenshotDir with a timestamped filename.
func (i *Instance) Screenshot(label string) {
	i.screenshotQueue = append(i.screenshotQueue, label)
}

// flushScreenshots writes one PNG per queued label. Called at the end of
// Instance.Draw. Failures are logged, not returned, because Draw cannot fail.
func (i *Instance) flushScreenshots(screen *ebiten.Image) {
	if len(i.screenshotQueue) == 0 {
		return
	}
	defer func() { i.screenshotQueue = i.screenshotQueue[:0] }()

	if err := os.MkdirAll(i.ScreenshotDir, 0o755); err != nil {
		Logger().Warn("tessera: screenshot directory", "dir", i.ScreenshotDir, "err", err)
		return
	}

	img := captureImage(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range i.screenshotQueue {
		path := filepath.Join(i.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			Logger().Warn("tessera: screenshot", "err", err)
			continue
		}
		Logger().Info("tessera: screenshot written", "path", path)
	}
}

// captureImage reads back img and converts its premultiplied pixels to
// straight alpha.
func captureImage(img *ebiten.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	img.ReadPixels(out.Pix)
	for p := 0; p < len(out.Pix); p += 4 {
		a := int(out.Pix[p+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := 0; c < 3; c++ {
			out.Pix[p+c] = uint8(min(int(out.Pix[p+c])*255/a, 255))
		}
	}
	return out
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

// sanitizeLabel keeps letters, digits, '-' and '.', replaces anything else
// with '_', and names an empty label "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
