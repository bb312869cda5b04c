package tilegrid

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Surface is an owned offscreen pixel buffer. It is the drawing target of the
// visible canvas and the private cache of every layer. Pixels are stored
// premultiplied, so an *image.RGBA can be handed to GPU uploads unchanged.
type Surface struct {
	img    *image.RGBA
	filter Filter
	stats  SurfaceStats
}

// SurfaceStats counts drawing operations performed on a surface. Tests use it
// to observe whether a paint touched the surface at all.
type SurfaceStats struct {
	Clears  int
	Blits   int
	Strokes int
}

// NewSurface creates a transparent surface of the given size.
func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))}
}

// Image returns the underlying pixel buffer for direct reads.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.img.Rect.Dy()
}

// Bounds returns the full extent of the surface.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Rect
}

// Filter returns the filtering mode used by scaled blits.
func (s *Surface) Filter() Filter {
	return s.filter
}

// SetFilter sets the filtering mode used by scaled blits.
func (s *Surface) SetFilter(f Filter) {
	s.filter = f
}

// Stats returns the operation counters accumulated since the last ResetStats.
func (s *Surface) Stats() SurfaceStats {
	return s.stats
}

// ResetStats zeroes the operation counters.
func (s *Surface) ResetStats() {
	s.stats = SurfaceStats{}
}

// Resize reallocates the buffer at the given dimensions. Contents are lost.
func (s *Surface) Resize(w, h int) {
	s.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

// Clear fills the surface with transparent black.
func (s *Surface) Clear() {
	clear(s.img.Pix)
	s.stats.Clears++
}

// Fill fills the entire surface with the given color.
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.img, s.img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawImage copies the sr region of src into the dr region of the surface,
// compositing source-over. When the sizes differ the copy is scaled with the
// surface's filter.
func (s *Surface) DrawImage(src image.Image, sr, dr image.Rectangle) {
	if src == nil || sr.Empty() || dr.Empty() {
		return
	}
	if sr.Size() == dr.Size() {
		draw.Draw(s.img, dr, src, sr.Min, draw.Over)
	} else {
		s.scaler().Scale(s.img, dr, src, sr, draw.Over, nil)
	}
	s.stats.Blits++
}

// DrawObject blits a rendered object's bounding rect into dr.
func (s *Surface) DrawObject(obj RenderedObject, dr image.Rectangle) {
	s.DrawImage(obj.Source(), obj.SourceBounds(), dr)
}

// FillObject blits a rendered object stretched over the whole surface.
func (s *Surface) FillObject(obj RenderedObject) {
	s.DrawObject(obj, s.img.Rect)
}

// Copy returns a snapshot of the current pixels.
func (s *Surface) Copy() *image.RGBA {
	out := image.NewRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

func (s *Surface) scaler() draw.Scaler {
	if s.filter == FilterLinear {
		return draw.ApproxBiLinear
	}
	return draw.NearestNeighbor
}

// dashPattern is an on/off run length pair in pixels.
type dashPattern [2]float32

// StrokeGrid draws dashed vertical lines at every xs and horizontal lines at
// every ys, each of the given width, anti-aliased through one rasterizer pass.
func (s *Surface) StrokeGrid(xs, ys []float32, width float32, dash dashPattern, c color.Color) {
	w, h := float32(s.Width()), float32(s.Height())
	if w == 0 || h == 0 {
		return
	}
	z := vector.NewRasterizer(s.Width(), s.Height())
	z.DrawOp = draw.Over
	half := width / 2
	period := dash[0] + dash[1]
	if period <= 0 {
		dash, period = dashPattern{h + w, 0}, h+w
	}
	for _, x := range xs {
		for y := float32(0); y < h; y += period {
			addRect(z, x-half, y, x+half, y+dash[0], w, h)
		}
	}
	for _, y := range ys {
		for x := float32(0); x < w; x += period {
			addRect(z, x, y-half, x+dash[0], y+half, w, h)
		}
	}
	z.Draw(s.img, s.img.Rect, image.NewUniform(c), image.Point{})
	s.stats.Strokes++
}

// addRect appends a closed rectangle path clamped to [0,w]x[0,h].
func addRect(z *vector.Rasterizer, x0, y0, x1, y1, w, h float32) {
	x0, x1 = clampf(x0, 0, w), clampf(x1, 0, w)
	y0, y1 = clampf(y0, 0, h), clampf(y1, 0, h)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	z.MoveTo(x0, y0)
	z.LineTo(x1, y0)
	z.LineTo(x1, y1)
	z.LineTo(x0, y1)
	z.ClosePath()
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
