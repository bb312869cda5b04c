package tilegrid

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

// SaveSnapshot writes a snapshot to dir as a timestamped PNG named after label
// and returns the file path.
func (c *Canvas) SaveSnapshot(dir, label string, clean bool) (string, error) {
	img, err := c.Snapshot(clean)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tilegrid: snapshot: mkdir %s: %w", dir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
	if err := writePNG(path, img); err != nil {
		return "", fmt.Errorf("tilegrid: snapshot: %w", err)
	}
	c.Logger().Info("snapshot written", "component", "canvas", "path", path)
	return path, nil
}

// encodePNG converts premultiplied pixels to straight alpha and encodes them.
func encodePNG(w io.Writer, src *image.RGBA) error {
	img := image.NewNRGBA(src.Rect)
	draw.Draw(img, img.Rect, src, src.Rect.Min, draw.Src)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("tilegrid: encode png: %w", err)
	}
	return nil
}

func writePNG(path string, img *image.RGBA) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encodePNG(f, img)
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.', replacing every
// other rune with '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return r
		case r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
