package tilegrid

import (
	"context"
	"image/color"
)

const hoverSourceURL = "HOVER_TILE_SOURCE"

var defaultHoverColor = color.NRGBA{A: 26} // black at 10%

// Hover highlights the cell under the pointer on the System-UI layer.
type Hover struct {
	c     *Canvas
	color color.Color
	mask  *Tile
	at    *Cell
}

var hoverDef = capabilityDef{
	tag:      CapHover,
	requires: CapGrid,
	attach: func(c *Canvas) {
		c.hover = &Hover{c: c, color: defaultHoverColor}
	},
	apply: func(c *Canvas, o *Options) {
		if o.HoverColor != nil {
			c.hover.color = o.HoverColor
		}
	},
	init: func(_ context.Context, c *Canvas) error {
		c.hover.prepareMask()
		c.OnPointer(c.hover.handle)
		return nil
	},
}

// prepareMask renders a cell-sized translucent tile.
func (h *Hover) prepareMask() {
	cs := h.c.grid.CellSize()
	s := NewSurface(cs.X, cs.Y)
	s.Fill(h.color)
	h.mask = NewTile("", s.Image(), hoverSourceURL, s.Bounds())
}

// Mask returns the hover tile.
func (h *Hover) Mask() *Tile {
	return h.mask
}

// Cell returns the highlighted cell, if any.
func (h *Hover) Cell() (Cell, bool) {
	if h.at == nil {
		return Cell{}, false
	}
	return *h.at, true
}

// Place moves the highlight to c, scheduling a paint when it changed.
func (h *Hover) Place(c Cell) {
	if h.at != nil && *h.at == c && sameObject(h.c.grid.Tile(c.X, c.Y, DepthSystemUI), h.mask) {
		return
	}
	if h.mask.SourceBounds().Size() != h.c.grid.CellSize() {
		h.prepareMask()
	}
	h.clear()
	h.c.grid.SetTile(c.X, c.Y, DepthSystemUI, h.mask)
	h.at = &c
	h.c.RequestRender()
}

// Clear removes the highlight.
func (h *Hover) Clear() {
	if h.at == nil {
		return
	}
	h.clear()
	h.c.RequestRender()
}

func (h *Hover) clear() {
	if h.at == nil {
		return
	}
	h.c.grid.SetTile(h.at.X, h.at.Y, DepthSystemUI, nil)
	h.at = nil
}

func (h *Hover) handle(ev PointerEvent) {
	switch ev.Type {
	case EventPointerMove:
		h.Place(h.c.grid.CellAt(ev))
	case EventPointerLeave:
		h.Clear()
	}
}
