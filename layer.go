package tilegrid

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"slices"
)

// Depth identifies one of the four fixed layer slots. Slots draw in ascending
// order.
type Depth int8

const (
	DepthBackground Depth = -1 // drawn first
	DepthZero       Depth = 0  // ground; interactive objects live here
	DepthForeground Depth = 1  // drawn over the ground
	DepthSystemUI   Depth = 2  // editor chrome such as the hover mask; always visible
)

// Depths lists every slot in draw order.
var Depths = [...]Depth{DepthBackground, DepthZero, DepthForeground, DepthSystemUI}

// String returns the persisted form of the slot ("-1", "0", "1", "2").
func (d Depth) String() string {
	return fmt.Sprintf("%d", int8(d))
}

// Valid reports whether d is one of the four slots.
func (d Depth) Valid() bool {
	return d >= DepthBackground && d <= DepthSystemUI
}

// ParseDepth is the inverse of Depth.String.
func ParseDepth(s string) (Depth, error) {
	for _, d := range Depths {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("tilegrid: unknown depth slot %q", s)
}

func (d Depth) index() int {
	return int(d - DepthBackground)
}

// layerCacheID is the identifier carried by every layer's rendered object.
const layerCacheID = "LAYER_CACHE_ID"

// Layer is a sparse cell -> RenderedObject store with a private cache surface.
// The layer owns its cache but only borrows the objects it stores. Any
// structural change marks the cache dirty; the cache is rebuilt lazily by
// RenderedObject.
type Layer struct {
	cells    map[Cell]RenderedObject
	cache    *Surface
	cellSize image.Point
	dirty    bool

	// onClear runs after Clear; the grid uses it to drop interactive objects
	// registered off the Zero layer.
	onClear func()
}

// NewLayer creates an empty layer with a zero-sized cache.
func NewLayer(cellSize image.Point) *Layer {
	return &Layer{
		cells:    make(map[Cell]RenderedObject),
		cache:    NewSurface(0, 0),
		cellSize: cellSize,
		dirty:    true,
	}
}

// IsDirty reports whether the cache must be rebuilt before the next read.
func (l *Layer) IsDirty() bool {
	return l.dirty
}

// Len returns the number of occupied cells.
func (l *Layer) Len() int {
	return len(l.cells)
}

// CellSize returns the pixel size used to place entries.
func (l *Layer) CellSize() image.Point {
	return l.cellSize
}

// Exists reports whether (x, y) holds an object.
func (l *Layer) Exists(x, y int) bool {
	_, ok := l.cells[Cell{x, y}]
	return ok
}

// Take returns the object at (x, y), or nil when the cell is empty.
func (l *Layer) Take(x, y int) RenderedObject {
	return l.cells[Cell{x, y}]
}

// Add stores obj at (x, y). Storing the object a cell already holds is a
// no-op and leaves the cache clean. A nil obj removes the cell.
func (l *Layer) Add(x, y int, obj RenderedObject) {
	if obj == nil {
		l.Remove(x, y)
		return
	}
	c := Cell{x, y}
	if cur, ok := l.cells[c]; ok && sameObject(cur, obj) {
		return
	}
	l.cells[c] = obj
	l.dirty = true
}

// Remove empties (x, y), reporting false if it was already empty.
func (l *Layer) Remove(x, y int) bool {
	c := Cell{x, y}
	if _, ok := l.cells[c]; !ok {
		return false
	}
	delete(l.cells, c)
	l.dirty = true
	return true
}

// Clear empties every cell.
func (l *Layer) Clear() {
	clear(l.cells)
	l.dirty = true
	if l.onClear != nil {
		l.onClear()
	}
}

// Each calls fn for every occupied cell in row-major order until fn returns
// false.
func (l *Layer) Each(fn func(Cell, RenderedObject) bool) {
	for _, c := range l.sortedCells() {
		if !fn(c, l.cells[c]) {
			return
		}
	}
}

// InvalidateCache marks the cache dirty without touching contents.
func (l *Layer) InvalidateCache() {
	l.dirty = true
}

// ValidateCache marks the cache clean without rebuilding it. Callers that
// batch mutations and draw the cache themselves use it.
func (l *Layer) ValidateCache() {
	l.dirty = false
}

// Resize resizes the cache surface to the full pixel extent of the grid and
// forces a rebuild.
func (l *Layer) Resize(pixelWidth, pixelHeight int) {
	l.cache.Resize(pixelWidth, pixelHeight)
	l.dirty = true
}

// SetCellSize changes the spacing used to place entries and forces a rebuild.
func (l *Layer) SetCellSize(size image.Point) {
	l.cellSize = size
	l.dirty = true
}

// RenderedObject returns the layer's cache as a RenderedObject, rebuilding it
// first when dirty. The result can itself be stored in another layer.
func (l *Layer) RenderedObject() RenderedObject {
	if l.dirty {
		l.render(nil)
		l.dirty = false
	}
	return l.view()
}

// RenderWithCondition rebuilds the cache from the entries accepted by keep,
// leaving the layer validated regardless of prior state.
func (l *Layer) RenderWithCondition(keep func(RenderedObject) bool) RenderedObject {
	l.render(keep)
	l.dirty = false
	return l.view()
}

func (l *Layer) view() RenderedObject {
	return objectView{id: layerCacheID, src: l.cache.Image(), rect: l.cache.Bounds()}
}

// render clears the cache and blits every live entry at cell * cellSize,
// sized to the entry's own bounding rect. Entries larger than a cell overflow
// into neighbouring cells.
func (l *Layer) render(keep func(RenderedObject) bool) {
	l.cache.Clear()
	for _, c := range l.sortedCells() {
		obj := l.cells[c]
		if isVirtual(obj) {
			continue
		}
		if keep != nil && !keep(obj) {
			continue
		}
		sr := obj.SourceBounds()
		at := image.Pt(c.X*l.cellSize.X, c.Y*l.cellSize.Y)
		l.cache.DrawImage(obj.Source(), sr, image.Rectangle{Min: at, Max: at.Add(sr.Size())})
	}
}

// sortedCells returns occupied cells in row-major order so overlapping
// entries always stack the same way.
func (l *Layer) sortedCells() []Cell {
	cells := make([]Cell, 0, len(l.cells))
	for c := range l.cells {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b Cell) int {
		if a.Y != b.Y {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
	return cells
}

// Grid ruling defaults.
var (
	defaultGridLineWidth float32 = 0.4
	gridLineColor                = color.NRGBA{A: 153} // black at 60%
	gridDash                     = dashPattern{4, 2}
)

// GridLayer caches the grid ruling. Its content derives purely from the
// column/row counts and the cache extent.
type GridLayer struct {
	cache     *Surface
	columns   int
	rows      int
	lineWidth float32
	dirty     bool
}

// NewGridLayer creates an empty grid layer.
func NewGridLayer() *GridLayer {
	return &GridLayer{cache: NewSurface(0, 0), lineWidth: defaultGridLineWidth, dirty: true}
}

// IsDirty reports whether the cache must be rebuilt before the next read.
func (g *GridLayer) IsDirty() bool {
	return g.dirty
}

// LineWidth returns the ruling line width in pixels.
func (g *GridLayer) LineWidth() float32 {
	return g.lineWidth
}

// SetLineWidth changes the ruling line width and forces a rebuild.
func (g *GridLayer) SetLineWidth(w float32) {
	g.lineWidth = w
	g.dirty = true
}

// InvalidateCache marks the cache dirty.
func (g *GridLayer) InvalidateCache() {
	g.dirty = true
}

// ValidateCache marks the cache clean without rebuilding it.
func (g *GridLayer) ValidateCache() {
	g.dirty = false
}

// Resize stores the counts, resizes the cache and forces a rebuild.
func (g *GridLayer) Resize(pixelWidth, pixelHeight, columns, rows int) {
	g.cache.Resize(pixelWidth, pixelHeight)
	g.columns = columns
	g.rows = rows
	g.dirty = true
}

// RenderedObject returns the ruling as a RenderedObject, rebuilding it first
// when dirty.
func (g *GridLayer) RenderedObject() RenderedObject {
	if g.dirty {
		g.render()
		g.dirty = false
	}
	return objectView{id: layerCacheID, src: g.cache.Image(), rect: g.cache.Bounds()}
}

// render draws columns+1 vertical and rows+1 horizontal dashed lines spaced
// evenly across the cache extent.
func (g *GridLayer) render() {
	g.cache.Clear()
	if g.columns <= 0 || g.rows <= 0 {
		return
	}
	w, h := float32(g.cache.Width()), float32(g.cache.Height())
	cw, ch := w/float32(g.columns), h/float32(g.rows)
	xs := make([]float32, 0, g.columns+1)
	for i := 0; i <= g.columns; i++ {
		xs = append(xs, float32(i)*cw)
	}
	ys := make([]float32, 0, g.rows+1)
	for i := 0; i <= g.rows; i++ {
		ys = append(ys, float32(i)*ch)
	}
	g.cache.StrokeGrid(xs, ys, g.lineWidth, gridDash, gridLineColor)
}
