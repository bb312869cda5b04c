package tilegrid

import (
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"
)

var (
	red   = color.RGBA{0xff, 0, 0, 0xff}
	green = color.RGBA{0, 0xff, 0, 0xff}
	blue  = color.RGBA{0, 0, 0xff, 0xff}
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	s := NewSurface(w, h)
	s.Fill(c)
	return s.Image()
}

func solidTile(id string, w, h int, c color.Color) *Tile {
	img := solidImage(w, h, c)
	return NewTile(id, img, id+".png", img.Rect)
}

// newTestCanvas builds a class from b and runs the two-phase construction on
// a w x h surface with 16px cells.
func newTestCanvas(t *testing.T, b *Builder, w, h int, mod func(*Options)) *Canvas {
	t.Helper()
	opts := Options{
		Surface:  NewSurface(w, h),
		CellSize: image.Pt(16, 16),
		Logger:   quietLogger(),
	}
	if mod != nil {
		mod(&opts)
	}
	c, err := b.Instantiate(context.Background(), opts)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	return c
}

func alphaAt(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

// runFrames calls Frame n times.
func runFrames(c *Canvas, n int) {
	for range n {
		c.Frame()
	}
}
