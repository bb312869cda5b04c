package tilegrid

import (
	"context"
	"fmt"
	"image"
)

// TileSetClass is the class of tile-set viewers: selection, zoom, grid and
// hover highlighting.
var TileSetClass = NewBuilder().Selectable().Resizable().Tileable().Hoverable().MustBuild()

// TileSetOptions configures a TileSet.
type TileSetOptions struct {
	Options
	// ImageURL locates the tile-set image. Required.
	ImageURL string
	// Images loads ImageURL. Defaults to a FileProvider rooted at ".".
	Images ImageProvider
}

// TileSet shows one image sliced into cell-sized tiles on the Zero slot.
// Dragging a selection picks a block of tiles as a brush pattern.
type TileSet struct {
	*Canvas
	imageURL string
	images   ImageProvider
	image    image.Image
	onPick   handlerList[map[Cell]RenderedObject]
}

// NewTileSet builds, configures and initializes a tile set. A failure to
// load the image is logged and leaves the tile set empty but usable.
func NewTileSet(ctx context.Context, opts TileSetOptions) (*TileSet, error) {
	if opts.ImageURL == "" {
		return nil, fmt.Errorf("%w: ImageURL", ErrMissingOption)
	}
	ts := &TileSet{Canvas: TileSetClass.New(), imageURL: opts.ImageURL, images: opts.Images}
	if ts.images == nil {
		ts.images = FileProvider{Root: "."}
	}
	if err := ts.ApplyOptions(opts.Options); err != nil {
		return nil, err
	}
	if err := ts.Init(ctx); err != nil {
		return nil, err
	}
	ts.Selector().OnSelect(ts.pick)
	if err := ts.load(ctx); err != nil {
		ts.Logger().Error("tile set load failed", "component", "tileset", "url", ts.imageURL, "err", err)
	}
	return ts, nil
}

// ImageURL returns the URL of the current image.
func (ts *TileSet) ImageURL() string {
	return ts.imageURL
}

// Image returns the current image, or nil if it failed to load.
func (ts *TileSet) Image() image.Image {
	return ts.image
}

// OnPick registers fn to receive picked tile blocks, keyed by offset from
// the block's top-left cell.
func (ts *TileSet) OnPick(fn func(map[Cell]RenderedObject)) CallbackHandle {
	return ts.onPick.add(fn)
}

// UpdateImageURL clears the tile set and loads a new image.
func (ts *TileSet) UpdateImageURL(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	ts.imageURL = url
	ts.Grid().ClearLayer(DepthAll)
	return ts.load(ctx)
}

func (ts *TileSet) load(ctx context.Context) error {
	img, err := ts.images.LoadImage(ctx, ts.imageURL)
	if err != nil {
		ts.image = nil
		return err
	}
	ts.image = img
	b := img.Bounds()
	g := ts.Grid()
	g.Resize(b.Dx(), b.Dy())
	ts.slice()
	ts.Logger().Info("tile set loaded", "component", "tileset", "url", ts.imageURL, "size", g.SizeInTiles())
	return nil
}

// slice cuts the image into cell-sized tiles on the Zero slot.
func (ts *TileSet) slice() {
	g := ts.Grid()
	cs := g.CellSize()
	size := g.SizeInTiles()
	origin := ts.image.Bounds().Min
	for row := range size.Y {
		for col := range size.X {
			at := origin.Add(image.Pt(col*cs.X, row*cs.Y))
			id := fmt.Sprintf("%s#%d:%d", ts.imageURL, col, row)
			g.SetTile(col, row, DepthZero, NewTile(id, ts.image, ts.imageURL, image.Rectangle{Min: at, Max: at.Add(cs)}))
		}
	}
	ts.RequestRender()
}

// pick emits the tiles covered by a selection.
func (ts *TileSet) pick(sel Selection) {
	g := ts.Grid()
	from, to := sel.Cells(g)
	tiles := make(map[Cell]RenderedObject)
	for y := from.Y; y <= to.Y; y++ {
		for x := from.X; x <= to.X; x++ {
			if obj := g.Tile(x, y, DepthZero); obj != nil {
				tiles[Cell{x - from.X, y - from.Y}] = obj
			}
		}
	}
	if len(tiles) == 0 {
		return
	}
	ts.onPick.emit(tiles)
}
