package tilegrid

import (
	"image"
	"testing"
)

func TestInjectDragQueuesFrames(t *testing.T) {
	c := newBaseCanvas(t, 64, 64)
	c.InjectDrag(0, 0, 40, 0, 5, MouseButtonLeft, 0)
	if got := c.Injected(); got != 5 {
		t.Fatalf("Injected = %d, want 5", got)
	}

	var xs []float64
	c.OnPointer(func(ev PointerEvent) { xs = append(xs, ev.X) })
	for i := 5; i > 0; i-- {
		c.Frame()
		if got := c.Injected(); got != i-1 {
			t.Fatalf("Injected after frame = %d, want %d", got, i-1)
		}
	}
	want := []float64{0, 10, 20, 30, 40}
	for i, x := range want {
		if xs[i] != x {
			t.Errorf("event %d X = %v, want %v", i, xs[i], x)
		}
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	c := newBaseCanvas(t, 8, 8)
	c.InjectDrag(0, 0, 4, 4, 0, MouseButtonLeft, 0)
	if got := c.Injected(); got != 2 {
		t.Errorf("Injected = %d, want 2", got)
	}
}

func TestSelectionDrag(t *testing.T) {
	c := newTestCanvas(t, NewBuilder().Selectable().Tileable(), 64, 64, nil)
	var sels []Selection
	c.Selector().OnSelect(func(s Selection) { sels = append(sels, s) })

	c.InjectDrag(40, 40, 10, 12, 3, MouseButtonLeft, ModShift)
	runFrames(c, 3)
	if len(sels) != 1 {
		t.Fatalf("selections = %d, want 1", len(sels))
	}
	s := sels[0]
	if s.From != (Vec2{10, 12}) || s.To != (Vec2{40, 40}) {
		t.Errorf("selection = %+v, want From (10,12) To (40,40)", s)
	}
	from, to := s.Cells(c.Grid())
	if from != (Cell{0, 0}) || to != (Cell{2, 2}) {
		t.Errorf("Cells = %v..%v, want (0,0)..(2,2)", from, to)
	}

	c.InjectDrag(0, 0, 30, 30, 2, MouseButtonLeft, 0)
	runFrames(c, 2)
	if len(sels) != 1 {
		t.Errorf("drag without modifier selected: %d selections", len(sels))
	}
}

func TestSelectionCustomModKey(t *testing.T) {
	c := newTestCanvas(t, NewBuilder().Selectable(), 64, 64, func(o *Options) { o.ModKey = ModAlt })
	n := 0
	c.Selector().OnSelect(func(Selection) { n++ })
	c.InjectDrag(0, 0, 10, 10, 2, MouseButtonLeft, ModShift)
	c.InjectDrag(0, 0, 10, 10, 2, MouseButtonLeft, ModAlt)
	runFrames(c, 4)
	if n != 1 {
		t.Errorf("selections = %d, want 1", n)
	}
}

func TestHoverFollowsPointer(t *testing.T) {
	c := newTestCanvas(t, NewBuilder().Tileable().Hoverable(), 64, 64, nil)
	h := c.Hover()
	g := c.Grid()
	c.Frame()

	c.InjectMove(20, 5, 0)
	c.Frame()
	at, ok := h.Cell()
	if !ok || at != (Cell{1, 0}) {
		t.Fatalf("hover cell = %v, %v; want (1,0)", at, ok)
	}
	if g.Tile(1, 0, DepthSystemUI) != h.Mask() {
		t.Error("mask not on the system UI layer")
	}
	if c.LastFrame().Skipped {
		t.Error("hover move did not repaint")
	}

	c.InjectMove(40, 40, 0)
	c.Frame()
	if g.Tile(1, 0, DepthSystemUI) != nil {
		t.Error("old hover cell not cleared")
	}
	if g.Layer(DepthSystemUI).Len() != 1 {
		t.Errorf("system UI entries = %d, want 1", g.Layer(DepthSystemUI).Len())
	}

	c.InjectLeave()
	c.Frame()
	if _, ok := h.Cell(); ok {
		t.Error("hover cell set after leave")
	}
	if g.Layer(DepthSystemUI).Len() != 0 {
		t.Error("mask left behind after leave")
	}
}

func TestHoverSameCellNoRender(t *testing.T) {
	c := newTestCanvas(t, NewBuilder().Tileable().Hoverable(), 64, 64, nil)
	c.Hover().Place(Cell{1, 1})
	c.Frame()
	c.Hover().Place(Cell{1, 1})
	if c.Pending() {
		t.Error("hovering the same cell requested a render")
	}
}

func TestHoverMaskTracksCellSize(t *testing.T) {
	c := newTestCanvas(t, NewBuilder().Tileable().Hoverable(), 64, 64, nil)
	h := c.Hover()
	if got := h.Mask().SourceBounds().Size(); got != image.Pt(16, 16) {
		t.Fatalf("mask size = %v, want (16,16)", got)
	}
	c.Grid().SetCellSize(image.Pt(32, 32))
	h.Place(Cell{0, 0})
	if got := h.Mask().SourceBounds().Size(); got != image.Pt(32, 32) {
		t.Errorf("mask size = %v, want (32,32)", got)
	}
}

func newDrawCanvas(t *testing.T) *Canvas {
	t.Helper()
	return newTestCanvas(t, NewBuilder().Selectable().Tileable().Drawable(), 64, 64, nil)
}

func TestBrushStroke(t *testing.T) {
	c := newDrawCanvas(t)
	g := c.Grid()
	tile := solidTile("a", 16, 16, red)
	c.Brush().SetTiles(map[Cell]RenderedObject{{0, 0}: tile})

	c.InjectPress(5, 5, MouseButtonLeft, 0)
	c.InjectMove(21, 5, 0)
	c.InjectRelease(21, 5, MouseButtonLeft, 0)
	c.Frame()
	if !c.Brush().Drawing() {
		t.Error("Drawing = false during stroke")
	}
	runFrames(c, 2)
	if c.Brush().Drawing() {
		t.Error("Drawing = true after release")
	}
	for _, at := range []Cell{{0, 0}, {1, 0}} {
		if g.Tile(at.X, at.Y, DepthZero) != tile {
			t.Errorf("cell %v not painted", at)
		}
	}

	c.InjectMove(40, 40, 0)
	c.Frame()
	if g.Tile(2, 2, DepthZero) != nil {
		t.Error("move without a pressed button painted")
	}

	c.InjectClick(5, 5, MouseButtonRight, 0)
	runFrames(c, 2)
	if g.Tile(0, 0, DepthZero) != nil {
		t.Error("right click did not erase")
	}
}

func TestBrushIgnoresModifiers(t *testing.T) {
	c := newDrawCanvas(t)
	c.Brush().SetTiles(map[Cell]RenderedObject{{0, 0}: solidTile("a", 16, 16, red)})
	for _, mod := range []KeyModifiers{ModShift, ModCtrl, ModMeta} {
		c.InjectClick(40, 40, MouseButtonLeft, mod)
	}
	runFrames(c, 6)
	if c.Grid().Layer(DepthZero).Len() != 0 {
		t.Error("modified click painted")
	}
}

func TestBrushPatternClipsToGrid(t *testing.T) {
	c := newDrawCanvas(t)
	g := c.Grid()
	b := c.Brush()
	left, right := solidTile("l", 16, 16, red), solidTile("r", 16, 16, blue)
	b.SetTiles(map[Cell]RenderedObject{{0, 0}: left, {1, 0}: right})

	b.Paint(Cell{3, 0})
	if g.Tile(3, 0, DepthZero) != left {
		t.Error("in-grid part of pattern not painted")
	}
	if g.Tile(4, 0, DepthZero) != nil {
		t.Error("out-of-grid part of pattern painted")
	}

	b.SetTiles(map[Cell]RenderedObject{{0, 0}: left})
	b.Paint(Cell{10, 10})
	if g.Tile(10, 10, DepthZero) != left {
		t.Error("single tile outside the grid not stored")
	}
}

func TestBrushDepth(t *testing.T) {
	c := newDrawCanvas(t)
	b := c.Brush()
	if err := b.SetDepth(DepthForeground); err != nil {
		t.Fatal(err)
	}
	if err := b.SetDepth(DepthAll); err == nil {
		t.Error("SetDepth(DepthAll) succeeded")
	}
	tile := solidTile("a", 16, 16, red)
	b.SetTiles(map[Cell]RenderedObject{{0, 0}: tile})
	b.Paint(Cell{1, 1})
	if c.Grid().Tile(1, 1, DepthForeground) != tile {
		t.Error("brush did not paint its depth")
	}
	if c.Grid().Tile(1, 1, DepthZero) != nil {
		t.Error("brush painted the zero layer")
	}
}

func TestBrushRegistersGameObjects(t *testing.T) {
	c := newDrawCanvas(t)
	g := c.Grid()
	b := c.Brush()
	npc := NewGameObject("npc", solidImage(16, 16, green), "npc.png", image.Rect(0, 0, 16, 16), nil)

	b.SetTiles(map[Cell]RenderedObject{{0, 0}: npc})
	b.Paint(Cell{1, 1})
	b.Paint(Cell{1, 1})
	if got := len(g.InteractiveObjects()); got != 1 {
		t.Fatalf("objects = %d, want 1", got)
	}

	b.SetTiles(map[Cell]RenderedObject{{0, 0}: solidTile("a", 16, 16, red)})
	b.Paint(Cell{1, 1})
	if got := len(g.InteractiveObjects()); got != 0 {
		t.Errorf("objects after overpaint = %d, want 0", got)
	}
}

func TestBrushEmptyPatternNoOp(t *testing.T) {
	c := newDrawCanvas(t)
	c.Frame()
	c.Brush().Paint(Cell{0, 0})
	if c.Pending() {
		t.Error("Paint with no pattern requested a render")
	}
}

func TestBrushRepaintsNonComparableObject(t *testing.T) {
	c := newDrawCanvas(t)
	s := newSprite(blue)
	c.Brush().SetTiles(map[Cell]RenderedObject{{}: s})
	c.Brush().Paint(Cell{1, 1})
	c.Frame()
	c.Brush().Paint(Cell{1, 1})
	if c.Grid().Tile(1, 1, DepthZero) == nil {
		t.Fatal("sprite not painted")
	}
	if !c.Pending() {
		t.Error("repaint did not request a render")
	}
}

func TestBrushTilesIsCopy(t *testing.T) {
	c := newDrawCanvas(t)
	src := map[Cell]RenderedObject{{0, 0}: solidTile("a", 16, 16, red)}
	c.Brush().SetTiles(src)
	delete(src, Cell{0, 0})
	if len(c.Brush().Tiles()) != 1 {
		t.Error("brush pattern aliases the caller's map")
	}
}

func TestZoomClicks(t *testing.T) {
	c := newTestCanvas(t, NewBuilder().Resizable().Tileable(), 32, 32, nil)
	var scales []float64
	c.Zoom().OnZoom(func(s float64) { scales = append(scales, s) })

	c.InjectClick(0, 0, MouseButtonLeft, ModCtrl)
	runFrames(c, 2)
	if got := c.Zoom().Scale(); got != 2 {
		t.Fatalf("Scale = %v, want 2", got)
	}
	if got := c.Surface().Bounds().Size(); got != image.Pt(64, 64) {
		t.Errorf("surface size = %v, want (64,64)", got)
	}
	if got := c.Grid().SizeInTiles(); got != image.Pt(2, 2) {
		t.Errorf("zoom changed SizeInTiles to %v", got)
	}

	c.InjectClick(0, 0, MouseButtonRight, ModCtrl)
	runFrames(c, 2)
	if got := c.Zoom().Scale(); got != 1 {
		t.Errorf("Scale = %v, want 1", got)
	}
	if len(scales) != 2 || scales[0] != 2 || scales[1] != 1 {
		t.Errorf("OnZoom saw %v, want [2 1]", scales)
	}

	c.InjectClick(0, 0, MouseButtonLeft, 0)
	runFrames(c, 2)
	if got := c.Zoom().Scale(); got != 1 {
		t.Errorf("plain click zoomed to %v", got)
	}
}

func TestZoomedHover(t *testing.T) {
	c := newTestCanvas(t, NewBuilder().Resizable().Tileable().Hoverable(), 64, 64, nil)
	c.Zoom().SetScale(2)
	c.InjectMove(40, 40, 0)
	c.Frame()
	at, ok := c.Hover().Cell()
	if !ok || at != (Cell{1, 1}) {
		t.Errorf("hover cell = %v, %v; want (1,1)", at, ok)
	}
}

func TestZoomedPaintScalesLayers(t *testing.T) {
	c := newTestCanvas(t, NewBuilder().Resizable().Tileable(), 32, 32, func(o *Options) {
		o.Scale = 2
		o.HideGrid = true
	})
	c.Grid().SetTile(1, 1, DepthZero, solidTile("a", 16, 16, red))
	c.RequestRender()
	c.Frame()
	img := c.Surface().Image()
	if got := rgbaAt(img, 40, 40); got != red {
		t.Errorf("pixel (40,40) = %v, want %v", got, red)
	}
	if a := alphaAt(img, 20, 20); a != 0 {
		t.Errorf("pixel (20,20) alpha = %d, want 0", a)
	}
}
