package tilegrid

import (
	"context"
	"fmt"
	"maps"
)

// Brush paints the current tile pattern with the pointer: the left button
// paints, the right button erases, and a drag continues the stroke until
// the button is released.
type Brush struct {
	c       *Canvas
	tiles   map[Cell]RenderedObject
	depth   Depth
	drawing bool
	erasing bool
}

var drawDef = capabilityDef{
	tag:      CapDraw,
	requires: CapGrid,
	attach: func(c *Canvas) {
		c.brush = &Brush{c: c, depth: DepthZero}
	},
	validate: func(_ *Canvas, o *Options) error {
		if !o.Depth.Valid() {
			return fmt.Errorf("tilegrid: invalid brush depth %v", o.Depth)
		}
		return nil
	},
	apply: func(c *Canvas, o *Options) {
		c.brush.depth = o.Depth
	},
	init: func(_ context.Context, c *Canvas) error {
		c.OnPointer(c.brush.handle)
		return nil
	},
}

// SetTiles replaces the brush pattern. Keys are offsets from the anchor cell.
func (b *Brush) SetTiles(tiles map[Cell]RenderedObject) {
	b.tiles = maps.Clone(tiles)
}

// Tiles returns a copy of the brush pattern.
func (b *Brush) Tiles() map[Cell]RenderedObject {
	return maps.Clone(b.tiles)
}

// Depth returns the slot the brush paints into.
func (b *Brush) Depth() Depth {
	return b.depth
}

// SetDepth selects the slot the brush paints into.
func (b *Brush) SetDepth(d Depth) error {
	if !d.Valid() {
		return fmt.Errorf("tilegrid: invalid brush depth %v", d)
	}
	b.depth = d
	return nil
}

// Drawing reports whether a stroke is in progress.
func (b *Brush) Drawing() bool {
	return b.drawing
}

// Paint stamps the pattern anchored at cell and schedules a paint. A
// single-tile pattern is placed as-is; larger patterns drop the parts that
// fall outside the grid.
func (b *Brush) Paint(at Cell) {
	if len(b.tiles) == 0 {
		return
	}
	g := b.c.grid
	if len(b.tiles) == 1 {
		for _, obj := range b.tiles {
			b.place(at, obj)
		}
	} else {
		size := g.SizeInTiles()
		for off, obj := range b.tiles {
			if c := at.Add(off.X, off.Y); c.In(size) {
				b.place(c, obj)
			}
		}
	}
	b.c.RequestRender()
}

func (b *Brush) place(at Cell, obj RenderedObject) {
	g := b.c.grid
	if sameObject(g.Tile(at.X, at.Y, b.depth), obj) {
		return
	}
	if b.depth == DepthZero {
		g.RemoveInteractiveObjectsAt(at.X, at.Y)
	}
	g.SetTile(at.X, at.Y, b.depth, obj)
	if gobj, ok := obj.(*GameObject); ok && b.depth == DepthZero {
		g.AddInteractiveObject(at.X, at.Y, gobj)
	}
}

// Erase empties cell on the brush slot and schedules a paint.
func (b *Brush) Erase(at Cell) {
	g := b.c.grid
	if b.depth == DepthZero {
		g.RemoveInteractiveObjectsAt(at.X, at.Y)
	}
	g.SetTile(at.X, at.Y, b.depth, nil)
	b.c.RequestRender()
}

func (b *Brush) stroke(ev PointerEvent) {
	at := b.c.grid.CellAt(ev)
	if b.erasing {
		b.Erase(at)
	} else {
		b.Paint(at)
	}
}

func (b *Brush) handle(ev PointerEvent) {
	switch ev.Type {
	case EventPointerDown:
		if ev.Modifiers&(ModShift|ModCtrl|ModMeta) != 0 {
			return
		}
		if s := b.c.selector; s != nil && ev.Has(s.modKey) {
			return
		}
		switch ev.Button {
		case MouseButtonLeft:
			b.erasing = false
		case MouseButtonRight:
			b.erasing = true
		default:
			return
		}
		b.drawing = true
		b.stroke(ev)
	case EventPointerMove:
		if b.drawing {
			b.stroke(ev)
		}
	case EventPointerUp:
		b.drawing = false
	}
}
