package tilegrid

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"time"
)

// lifecycle tracks the two-phase construction of a canvas.
type lifecycle uint8

const (
	stateConstructed lifecycle = iota
	stateOptionsApplied
	stateInitialized
)

// Options configures a composed canvas. Each capability reads the fields it
// owns and ignores the rest.
type Options struct {
	// Surface is the visible drawing target. Required.
	Surface *Surface
	// Size is the logical pixel size of the canvas. Zero keeps the surface size.
	Size image.Point
	// ImageSmoothing selects bilinear rather than nearest-neighbor scaling.
	ImageSmoothing bool
	// Logger receives structured logs. Defaults to slog.Default().
	Logger *slog.Logger
	// Debug enables per-paint stats logging.
	Debug bool

	// ModKey is the modifier held during a selection drag. Defaults to ModShift.
	ModKey KeyModifiers
	// Scale is the initial zoom factor. Defaults to 1.
	Scale float64

	// CellSize is the pixel size of one grid cell. Defaults to 16x16.
	CellSize image.Point
	// GridLineWidth is the ruling width in pixels. Defaults to 0.4.
	GridLineWidth float32
	// HideGrid suppresses the ruling overlay.
	HideGrid bool
	// VisibleLayers is the initial visible set. Nil shows every slot.
	VisibleLayers []Depth

	// HoverColor fills the hover mask. Defaults to black at 10% opacity.
	HoverColor color.Color

	// Depth is the slot the brush paints into. Defaults to DepthZero.
	Depth Depth
}

// RenderContext is the payload of a render notification.
type RenderContext struct {
	// Surface is the visible surface, already holding the composited layers.
	Surface *Surface
	// Frame counts completed paints since Init.
	Frame uint64
	// Scale is the current zoom factor; overlays multiply logical positions by it.
	Scale float64
}

// FrameStats describes the most recent paint.
type FrameStats struct {
	Frame    uint64
	Skipped  bool
	Layers   int
	Duration time.Duration
	Surface  SurfaceStats
}

// Canvas is an instance of a composed class. The base owns the visible
// surface and coalesces render requests into at most one paint per display
// frame; capabilities hang their state off the same value.
//
// A Canvas is not safe for concurrent use. All calls must come from the
// goroutine driving the display loop.
type Canvas struct {
	class  *Class
	state  lifecycle
	logger *slog.Logger
	debug  bool

	surface   *Surface
	smoothing Filter
	size      image.Point
	scale     float64

	pending   bool
	forceNext bool
	frame     uint64
	lastStats FrameStats

	// composite replaces the built-in clear-and-notify paint. It reports
	// whether it drew anything.
	composite   func(clean, force bool) (drawn bool, layers int)
	resizeHooks []func(w, h int)

	pointer handlerList[PointerEvent]
	render  handlerList[RenderContext]

	injectQueue []PointerEvent
	script      *PointerScript

	grid     *Grid
	selector *Selector
	zoom     *Zoom
	hover    *Hover
	brush    *Brush
	store    *Store
}

var canvasDef = capabilityDef{
	tag: CapCanvas,
	validate: func(_ *Canvas, o *Options) error {
		if o.Surface == nil {
			return fmt.Errorf("%w: Surface", ErrMissingOption)
		}
		return nil
	},
	apply: func(c *Canvas, o *Options) {
		c.surface = o.Surface
		c.logger = o.Logger
		if c.logger == nil {
			c.logger = slog.Default()
		}
		c.debug = o.Debug
		if o.ImageSmoothing {
			c.smoothing = FilterLinear
		}
		c.size = o.Size
		if c.size == (image.Point{}) {
			c.size = o.Surface.Bounds().Size()
		}
	},
	init: func(_ context.Context, c *Canvas) error {
		c.resizeSurface()
		return nil
	},
}

func newCanvas(k *Class) *Canvas {
	return &Canvas{class: k, scale: 1}
}

// Class returns the class the canvas was constructed from.
func (c *Canvas) Class() *Class {
	return c.class
}

// Markers returns the capability tags of the canvas's class.
func (c *Canvas) Markers() []Capability {
	return c.class.Markers()
}

// Has reports whether the canvas's class carries tag.
func (c *Canvas) Has(tag Capability) bool {
	return c.class.Has(tag)
}

// ApplyOptions validates and stores configuration through every link of the
// class chain. It must be called exactly once, before Init.
func (c *Canvas) ApplyOptions(opts Options) error {
	if c.state != stateConstructed {
		return fmt.Errorf("tilegrid: ApplyOptions called twice")
	}
	if err := c.class.applyOptions(c, &opts); err != nil {
		return err
	}
	c.state = stateOptionsApplied
	return nil
}

// Init runs deferred setup through every link of the class chain, ancestors
// first. Init must be called once, after ApplyOptions; calling it twice is
// not guarded.
func (c *Canvas) Init(ctx context.Context) error {
	if c.state == stateConstructed {
		return fmt.Errorf("tilegrid: Init before ApplyOptions: %w", ErrNotInitialized)
	}
	if err := c.class.init(ctx, c); err != nil {
		return err
	}
	c.state = stateInitialized
	c.RequestRender()
	return nil
}

// Initialized reports whether Init has completed.
func (c *Canvas) Initialized() bool {
	return c.state == stateInitialized
}

// Logger returns the canvas's logger.
func (c *Canvas) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Surface returns the visible surface.
func (c *Canvas) Surface() *Surface {
	return c.surface
}

// Size returns the logical pixel size of the canvas.
func (c *Canvas) Size() image.Point {
	return c.size
}

// Scale returns the zoom factor between logical and visible pixels.
func (c *Canvas) Scale() float64 {
	return c.scale
}

// SetDebugMode enables or disables per-paint stats logging.
func (c *Canvas) SetDebugMode(enabled bool) {
	c.debug = enabled
}

// SetImageSmoothing selects bilinear (true) or nearest-neighbor scaling for
// the next paint.
func (c *Canvas) SetImageSmoothing(enabled bool) {
	if enabled {
		c.smoothing = FilterLinear
	} else {
		c.smoothing = FilterNearest
	}
	c.forceNext = true
	c.RequestRender()
}

// Pending reports whether a paint is scheduled for the next frame.
func (c *Canvas) Pending() bool {
	return c.pending
}

// LastFrame returns stats for the most recent paint.
func (c *Canvas) LastFrame() FrameStats {
	return c.lastStats
}

// RequestRender schedules a paint for the next display frame. Repeated calls
// before that frame collapse into one paint.
func (c *Canvas) RequestRender() {
	c.pending = true
}

// Frame is the display-frame callback. It advances an attached script,
// delivers at most one injected pointer event, then paints if a render is
// pending, reporting whether it did. Hosts call it once per displayed frame.
func (c *Canvas) Frame() bool {
	if c.state != stateInitialized {
		return false
	}
	if c.script != nil {
		c.script.step(c)
	}
	c.processInjected()
	if !c.pending {
		return false
	}
	c.paint(false, false)
	return true
}

// paint runs one paint step, moving the scheduler from pending back to idle.
func (c *Canvas) paint(clean, force bool) {
	start := time.Now()
	c.surface.SetFilter(c.smoothing)
	c.surface.ResetStats()
	force = force || c.forceNext
	c.forceNext = false

	drawn, layers := true, 0
	if c.composite != nil {
		drawn, layers = c.composite(clean, force)
	} else {
		c.surface.Clear()
		c.emitRender()
	}
	c.pending = false

	c.lastStats = FrameStats{
		Frame:    c.frame,
		Skipped:  !drawn,
		Layers:   layers,
		Duration: time.Since(start),
		Surface:  c.surface.Stats(),
	}
	if c.debug {
		c.debugLog(c.lastStats)
	}
}

func (c *Canvas) emitRender() {
	c.frame++
	c.render.emit(RenderContext{Surface: c.surface, Frame: c.frame, Scale: c.scale})
}

// OnRender registers fn to run after every paint that draws. Overlays use it
// to draw on top of the composited layers.
func (c *Canvas) OnRender(fn func(RenderContext)) CallbackHandle {
	return c.render.add(fn)
}

// OnPointer registers fn to receive pointer events in logical pixels.
func (c *Canvas) OnPointer(fn func(PointerEvent)) CallbackHandle {
	return c.pointer.add(fn)
}

// HandlePointer delivers a pointer event given in visible-surface pixels.
// Offsets are divided by the zoom factor before handlers see them.
func (c *Canvas) HandlePointer(ev PointerEvent) {
	if c.state != stateInitialized {
		return
	}
	if c.scale > 0 && c.scale != 1 {
		ev.X /= c.scale
		ev.Y /= c.scale
	}
	c.pointer.emit(ev)
}

// Resize sets the logical size of the canvas and resizes the visible surface.
// It does not schedule a paint; callers batch it with other mutations and
// request one themselves.
func (c *Canvas) Resize(w, h int) {
	c.size = image.Pt(max(w, 0), max(h, 0))
	c.resizeSurface()
	for _, hook := range c.resizeHooks {
		hook(c.size.X, c.size.Y)
	}
}

// onResize registers a hook run by Resize with the new logical size.
func (c *Canvas) onResize(fn func(w, h int)) {
	c.resizeHooks = append(c.resizeHooks, fn)
}

// setScale changes the zoom factor and reallocates the visible surface.
func (c *Canvas) setScale(s float64) {
	if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		return
	}
	c.scale = s
	c.resizeSurface()
}

// resizeSurface reallocates the visible surface at size * scale. The content
// is lost, so the next paint must draw.
func (c *Canvas) resizeSurface() {
	w := int(math.Round(float64(c.size.X) * c.scale))
	h := int(math.Round(float64(c.size.Y) * c.scale))
	if c.surface.Width() != w || c.surface.Height() != h {
		c.surface.Resize(w, h)
	}
	c.forceNext = true
}

// Snapshot paints immediately and returns a copy of the visible surface. A
// clean snapshot omits editor overlays such as the grid ruling. The display
// is repainted normally on the next frame.
func (c *Canvas) Snapshot(clean bool) (*image.RGBA, error) {
	if c.state != stateInitialized {
		return nil, ErrNotInitialized
	}
	c.paint(clean, true)
	img := c.surface.Copy()
	c.forceNext = true
	c.RequestRender()
	return img, nil
}

// WritePNG encodes a snapshot to w.
func (c *Canvas) WritePNG(w io.Writer, clean bool) error {
	img, err := c.Snapshot(clean)
	if err != nil {
		return err
	}
	return encodePNG(w, img)
}

// Grid returns the grid engine, or nil when the class lacks the grid capability.
func (c *Canvas) Grid() *Grid { return c.grid }

// Selector returns the selection state, or nil without the select capability.
func (c *Canvas) Selector() *Selector { return c.selector }

// Zoom returns the zoom controls, or nil without the resize capability.
func (c *Canvas) Zoom() *Zoom { return c.zoom }

// Hover returns the hover highlight, or nil without the hover capability.
func (c *Canvas) Hover() *Hover { return c.hover }

// Brush returns the drawing brush, or nil without the draw capability.
func (c *Canvas) Brush() *Brush { return c.brush }

// Store returns the persistence handle, or nil without the persist capability.
func (c *Canvas) Store() *Store { return c.store }
