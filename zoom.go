package tilegrid

import "context"

const (
	zoomIn  = 2.0
	zoomOut = 0.5
)

// Zoom scales the visible surface. Ctrl+left-click doubles the scale and
// Ctrl+right-click halves it. Layer caches stay at logical size.
type Zoom struct {
	c  *Canvas
	on handlerList[float64]
}

var resizeDef = capabilityDef{
	tag:      CapResize,
	requires: CapCanvas,
	attach: func(c *Canvas) {
		c.zoom = &Zoom{c: c}
	},
	apply: func(c *Canvas, o *Options) {
		if o.Scale > 0 {
			c.scale = o.Scale
		}
	},
	init: func(_ context.Context, c *Canvas) error {
		c.OnPointer(c.zoom.handle)
		return nil
	},
}

// Scale returns the current zoom factor.
func (z *Zoom) Scale() float64 {
	return z.c.scale
}

// ZoomBy multiplies the zoom factor by m and schedules a paint.
func (z *Zoom) ZoomBy(m float64) {
	z.SetScale(z.c.scale * m)
}

// SetScale sets the zoom factor and schedules a paint. Non-positive factors
// are ignored.
func (z *Zoom) SetScale(s float64) {
	if s <= 0 || s == z.c.scale {
		return
	}
	z.c.setScale(s)
	z.c.RequestRender()
	z.on.emit(z.c.scale)
}

// OnZoom registers fn to receive the new scale after every change.
func (z *Zoom) OnZoom(fn func(float64)) CallbackHandle {
	return z.on.add(fn)
}

func (z *Zoom) handle(ev PointerEvent) {
	if ev.Type != EventPointerDown || !ev.Has(ModCtrl) {
		return
	}
	switch ev.Button {
	case MouseButtonLeft:
		z.ZoomBy(zoomIn)
	case MouseButtonRight:
		z.ZoomBy(zoomOut)
	}
}
