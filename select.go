package tilegrid

import "context"

// Vec2 is a point in logical canvas pixels.
type Vec2 struct {
	X, Y float64
}

// Selection is a rectangle dragged out with the selection modifier held.
// From holds the minimum corner and To the maximum.
type Selection struct {
	From, To Vec2
}

// Cells maps the selection onto grid cells, both ends inclusive.
func (s Selection) Cells(g *Grid) (from, to Cell) {
	return g.PixelToCell(s.From.X, s.From.Y), g.PixelToCell(s.To.X, s.To.Y)
}

// Selector turns modifier-held press/release pairs into selections.
type Selector struct {
	c      *Canvas
	modKey KeyModifiers
	down   *PointerEvent
	on     handlerList[Selection]
}

var selectDef = capabilityDef{
	tag:      CapSelect,
	requires: CapCanvas,
	attach: func(c *Canvas) {
		c.selector = &Selector{c: c, modKey: ModShift}
	},
	apply: func(c *Canvas, o *Options) {
		if o.ModKey != 0 {
			c.selector.modKey = o.ModKey
		}
	},
	init: func(_ context.Context, c *Canvas) error {
		c.OnPointer(c.selector.handle)
		return nil
	},
}

// ModKey returns the modifier that must be held to select.
func (s *Selector) ModKey() KeyModifiers {
	return s.modKey
}

// OnSelect registers fn to receive completed selections.
func (s *Selector) OnSelect(fn func(Selection)) CallbackHandle {
	return s.on.add(fn)
}

func (s *Selector) handle(ev PointerEvent) {
	switch ev.Type {
	case EventPointerDown:
		if ev.Has(s.modKey) {
			s.down = &ev
		}
	case EventPointerUp:
		if !ev.Has(s.modKey) || s.down == nil {
			s.down = nil
			return
		}
		from, to := *s.down, ev
		s.down = nil
		s.on.emit(Selection{
			From: Vec2{min(from.X, to.X), min(from.Y, to.Y)},
			To:   Vec2{max(from.X, to.X), max(from.Y, to.Y)},
		})
	}
}
