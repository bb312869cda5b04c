package tilegrid

import (
	"context"
	"fmt"
	"image"
	"math"
	"slices"
)

// DepthAll addresses every layer in InvalidateCache and ClearLayer.
const DepthAll Depth = 127

var defaultCellSize = image.Pt(16, 16)

// InteractiveObject records a GameObject placed on the Zero layer and the
// cells its bounding rect covers. Collision handling consumes these; the grid
// only keeps the registry.
type InteractiveObject struct {
	Object   *GameObject
	Position Cell
	Cells    []Cell
}

// Grid is the grid engine of a tileable canvas. It owns four depth layers and
// the ruling layer, keeps the grid dimensions in step with the canvas size,
// and composites the visible layers on every paint.
type Grid struct {
	c         *Canvas
	layers    [len(Depths)]*Layer
	ruling    *GridLayer
	cellSize  image.Point
	size      image.Point
	hideGrid  bool
	visible   []Depth
	changed   bool
	objects   []*InteractiveObject
	onObjects handlerList[[]*InteractiveObject]
}

var gridDef = capabilityDef{
	tag:      CapGrid,
	requires: CapCanvas,
	attach: func(c *Canvas) {
		c.grid = newGrid(c)
	},
	validate: func(_ *Canvas, o *Options) error {
		if o.CellSize.X < 0 || o.CellSize.Y < 0 {
			return fmt.Errorf("tilegrid: invalid cell size %v", o.CellSize)
		}
		if o.GridLineWidth < 0 {
			return fmt.Errorf("tilegrid: invalid grid line width %v", o.GridLineWidth)
		}
		for _, d := range o.VisibleLayers {
			if !d.Valid() {
				return fmt.Errorf("tilegrid: invalid visible layer %v", d)
			}
		}
		return nil
	},
	apply: func(c *Canvas, o *Options) {
		g := c.grid
		if o.CellSize.X > 0 {
			g.cellSize.X = o.CellSize.X
		}
		if o.CellSize.Y > 0 {
			g.cellSize.Y = o.CellSize.Y
		}
		for _, l := range g.layers {
			l.SetCellSize(g.cellSize)
		}
		if o.GridLineWidth > 0 {
			g.ruling.SetLineWidth(o.GridLineWidth)
		}
		g.hideGrid = o.HideGrid
		if o.VisibleLayers != nil {
			g.visible = normalizeVisible(o.VisibleLayers)
		}
		c.composite = g.composite
		c.onResize(g.recompute)
	},
	init: func(_ context.Context, c *Canvas) error {
		c.grid.recompute(c.size.X, c.size.Y)
		return nil
	},
}

func newGrid(c *Canvas) *Grid {
	g := &Grid{
		c:        c,
		ruling:   NewGridLayer(),
		cellSize: defaultCellSize,
		visible:  slices.Clone(Depths[:]),
	}
	for i, d := range Depths {
		g.layers[i] = NewLayer(g.cellSize)
		if d == DepthZero {
			g.layers[i].onClear = g.dropObjects
		}
	}
	return g
}

// SizeInTiles returns the grid dimensions: X columns by Y rows.
func (g *Grid) SizeInTiles() image.Point {
	return g.size
}

// CellSize returns the pixel size of one cell.
func (g *Grid) CellSize() image.Point {
	return g.cellSize
}

// Layer returns the layer at slot d. It panics for an invalid slot.
func (g *Grid) Layer(d Depth) *Layer {
	if !d.Valid() {
		panic(fmt.Sprintf("tilegrid: invalid depth slot %d", d))
	}
	return g.layers[d.index()]
}

// Layers returns the four layers keyed by slot. The map is a fresh copy; the
// layers are shared.
func (g *Grid) Layers() map[Depth]*Layer {
	m := make(map[Depth]*Layer, len(Depths))
	for i, d := range Depths {
		m[d] = g.layers[i]
	}
	return m
}

// Ruling returns the grid-line layer.
func (g *Grid) Ruling() *GridLayer {
	return g.ruling
}

// PixelToCell maps a logical pixel offset to the cell containing it. The
// result is not clamped to the grid.
func (g *Grid) PixelToCell(px, py float64) Cell {
	return Cell{
		X: int(math.Floor(px / float64(g.cellSize.X))),
		Y: int(math.Floor(py / float64(g.cellSize.Y))),
	}
}

// CellAt maps a pointer event to a cell.
func (g *Grid) CellAt(ev PointerEvent) Cell {
	return g.PixelToCell(ev.X, ev.Y)
}

// Tile returns the object at (x, y) on slot d, or nil.
func (g *Grid) Tile(x, y int, d Depth) RenderedObject {
	return g.Layer(d).Take(x, y)
}

// SetTile stores obj at (x, y) on slot d; a nil obj empties the cell. The
// caller requests the repaint.
func (g *Grid) SetTile(x, y int, d Depth, obj RenderedObject) {
	l := g.Layer(d)
	if obj == nil {
		l.Remove(x, y)
		return
	}
	l.Add(x, y, obj)
}

// InvalidateCache marks slot d, or every layer and the ruling for DepthAll,
// dirty and schedules a paint. Caches rebuild during that paint.
func (g *Grid) InvalidateCache(d Depth) {
	if d == DepthAll {
		for _, l := range g.layers {
			l.InvalidateCache()
		}
		g.ruling.InvalidateCache()
	} else {
		g.Layer(d).InvalidateCache()
	}
	g.c.RequestRender()
}

// UpdateVisibleLayers replaces the visible set. The System-UI slot is always
// included and the set is kept in ascending draw order. The next paint draws
// even when no layer is dirty.
func (g *Grid) UpdateVisibleLayers(levels []Depth) {
	g.visible = normalizeVisible(levels)
	g.changed = true
	g.c.RequestRender()
}

// VisibleLayers returns the visible set in draw order.
func (g *Grid) VisibleLayers() []Depth {
	return slices.Clone(g.visible)
}

func normalizeVisible(levels []Depth) []Depth {
	out := make([]Depth, 0, len(levels)+1)
	for _, d := range levels {
		if d.Valid() {
			out = append(out, d)
		}
	}
	out = append(out, DepthSystemUI)
	slices.Sort(out)
	return slices.Compact(out)
}

// ClearLayer empties slot d, or every slot for DepthAll, and schedules a
// paint. Clearing the Zero slot drops the interactive-object registry.
func (g *Grid) ClearLayer(d Depth) {
	if d == DepthAll {
		for _, l := range g.layers {
			l.Clear()
		}
	} else {
		g.Layer(d).Clear()
	}
	g.c.RequestRender()
}

// Resize sets the pixel size of the grid, recomputes the dimensions, resizes
// every layer, and schedules a paint.
func (g *Grid) Resize(pixelWidth, pixelHeight int) {
	g.c.Resize(pixelWidth, pixelHeight)
	g.c.RequestRender()
}

// UpdateTilesCount resizes the grid to columns x rows cells.
func (g *Grid) UpdateTilesCount(columns, rows int) {
	g.Resize(columns*g.cellSize.X, rows*g.cellSize.Y)
}

// SetCellSize changes the cell size, keeping the pixel size, and schedules a
// paint.
func (g *Grid) SetCellSize(size image.Point) {
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	g.cellSize = size
	for _, l := range g.layers {
		l.SetCellSize(size)
	}
	g.recompute(g.c.size.X, g.c.size.Y)
	g.c.RequestRender()
}

// SetGridLineWidth changes the ruling width and schedules a paint.
func (g *Grid) SetGridLineWidth(w float32) {
	g.ruling.SetLineWidth(w)
	g.c.RequestRender()
}

// SetGridHidden toggles the ruling overlay.
func (g *Grid) SetGridHidden(hidden bool) {
	if g.hideGrid == hidden {
		return
	}
	g.hideGrid = hidden
	g.changed = true
	g.c.RequestRender()
}

// GridHidden reports whether the ruling overlay is suppressed.
func (g *Grid) GridHidden() bool {
	return g.hideGrid
}

// recompute derives the dimensions from the pixel size and resizes every
// layer and the ruling together.
func (g *Grid) recompute(w, h int) {
	g.size = image.Pt(w/g.cellSize.X, h/g.cellSize.Y)
	for _, l := range g.layers {
		l.Resize(w, h)
	}
	g.ruling.Resize(w, h, g.size.X, g.size.Y)
}

// dirty reports whether the next paint has anything to draw.
func (g *Grid) dirty(clean bool) bool {
	if g.changed {
		return true
	}
	if !clean && !g.hideGrid && g.ruling.IsDirty() {
		return true
	}
	for _, d := range g.visible {
		if g.layers[d.index()].IsDirty() {
			return true
		}
	}
	return false
}

// composite is the paint step of a tileable canvas. Frames with nothing dirty
// leave the surface untouched.
func (g *Grid) composite(clean, force bool) (bool, int) {
	if !force && !g.dirty(clean) {
		return false, 0
	}
	s := g.c.surface
	s.Clear()
	for _, d := range g.visible {
		s.FillObject(g.layers[d.index()].RenderedObject())
	}
	g.c.emitRender()
	if !clean && !g.hideGrid {
		s.FillObject(g.ruling.RenderedObject())
	}
	g.changed = false
	return true, len(g.visible)
}

// AddInteractiveObject registers obj at cell (x, y). The covered cells are
// the ones its bounding rect spans, clipped to the grid.
func (g *Grid) AddInteractiveObject(x, y int, obj *GameObject) *InteractiveObject {
	r := obj.SourceBounds()
	cols := max(1, ceilDiv(r.Dx(), g.cellSize.X))
	rows := max(1, ceilDiv(r.Dy(), g.cellSize.Y))
	rec := &InteractiveObject{Object: obj, Position: Cell{x, y}}
	for dy := range rows {
		for dx := range cols {
			if c := (Cell{x + dx, y + dy}); c.In(g.size) {
				rec.Cells = append(rec.Cells, c)
			}
		}
	}
	g.objects = append(g.objects, rec)
	g.onObjects.emit(g.InteractiveObjects())
	return rec
}

// RemoveInteractiveObjectsAt drops every registration anchored at (x, y).
func (g *Grid) RemoveInteractiveObjectsAt(x, y int) {
	n := len(g.objects)
	g.objects = slices.DeleteFunc(g.objects, func(rec *InteractiveObject) bool {
		return rec.Position == Cell{x, y}
	})
	if len(g.objects) != n {
		g.onObjects.emit(g.InteractiveObjects())
	}
}

// InteractiveObjects returns the registry in insertion order.
func (g *Grid) InteractiveObjects() []*InteractiveObject {
	return slices.Clone(g.objects)
}

// OnInteractiveObjects registers fn to receive the registry after every change.
func (g *Grid) OnInteractiveObjects(fn func([]*InteractiveObject)) CallbackHandle {
	return g.onObjects.add(fn)
}

func (g *Grid) dropObjects() {
	if len(g.objects) == 0 {
		return
	}
	g.objects = nil
	g.onObjects.emit(nil)
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
