package tilegrid

import (
	"context"
	"fmt"
)

// TileMapClass is the class of tile-map editors: every capability.
var TileMapClass = NewBuilder().
	Selectable().
	Resizable().
	Tileable().
	Hoverable().
	Drawable().
	Savable().
	MustBuild()

// TileMapOptions configures a TileMap.
type TileMapOptions struct {
	Options
	// MetadataURL locates a saved document to open. Optional.
	MetadataURL string
	// Metadata loads MetadataURL. Defaults to a FileProvider rooted at ".".
	Metadata MetadataProvider
	// Images loads the rasters a document references. Defaults to a
	// FileProvider rooted at ".".
	Images ImageProvider
}

// TileMap is the tile-map editor. Selections pick tiles of the brush slot
// into the brush.
type TileMap struct {
	*Canvas
	metadataURL string
	metadata    MetadataProvider
	images      ImageProvider
	onPick      handlerList[map[Cell]RenderedObject]
}

// NewTileMap builds, configures and initializes a tile map. A document that
// fails to load is logged and the editor starts empty.
func NewTileMap(ctx context.Context, opts TileMapOptions) (*TileMap, error) {
	tm := &TileMap{
		Canvas:      TileMapClass.New(),
		metadataURL: opts.MetadataURL,
		metadata:    opts.Metadata,
		images:      opts.Images,
	}
	if tm.metadata == nil {
		tm.metadata = FileProvider{Root: "."}
	}
	if tm.images == nil {
		tm.images = FileProvider{Root: "."}
	}
	if err := tm.ApplyOptions(opts.Options); err != nil {
		return nil, err
	}
	if err := tm.Init(ctx); err != nil {
		return nil, err
	}
	tm.Selector().OnSelect(tm.pick)
	if tm.metadataURL != "" {
		if err := tm.loadURL(ctx); err != nil {
			tm.Logger().Error("tile map load failed", "component", "tilemap", "url", tm.metadataURL, "err", err)
		}
	}
	return tm, nil
}

// MetadataURL returns the URL of the open document, if any.
func (tm *TileMap) MetadataURL() string {
	return tm.metadataURL
}

// OnPick registers fn to receive the tiles picked into the brush.
func (tm *TileMap) OnPick(fn func(map[Cell]RenderedObject)) CallbackHandle {
	return tm.onPick.add(fn)
}

// UpdateMetadataURL clears the map and opens the document at url. An empty
// url just clears.
func (tm *TileMap) UpdateMetadataURL(ctx context.Context, url string) error {
	tm.metadataURL = url
	tm.Grid().ClearLayer(DepthAll)
	if url == "" {
		return nil
	}
	return tm.loadURL(ctx)
}

// UpdateMetadata clears the map and opens data, a JSON document.
func (tm *TileMap) UpdateMetadata(ctx context.Context, data []byte) error {
	tm.metadataURL = ""
	tm.Grid().ClearLayer(DepthAll)
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}
	return tm.open(ctx, doc)
}

// Save returns the current contents as a document.
func (tm *TileMap) Save() *Document {
	return tm.Store().Save()
}

func (tm *TileMap) loadURL(ctx context.Context) error {
	data, err := tm.metadata.LoadMetadata(ctx, tm.metadataURL)
	if err != nil {
		return err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return fmt.Errorf("%s: %w", tm.metadataURL, err)
	}
	return tm.open(ctx, doc)
}

func (tm *TileMap) open(ctx context.Context, doc *Document) error {
	if doc.Version != DocumentVersion {
		return fmt.Errorf("%w: got %q, want %q", ErrVersionMismatch, doc.Version, DocumentVersion)
	}
	images, err := LoadImages(ctx, tm.images, doc.SourceURLs())
	if err != nil {
		return err
	}
	return tm.Store().Load(ctx, doc, images)
}

// pick moves the non-empty tiles of the brush slot inside a selection into
// the brush.
func (tm *TileMap) pick(sel Selection) {
	g := tm.Grid()
	brush := tm.Brush()
	from, to := sel.Cells(g)
	tiles := make(map[Cell]RenderedObject)
	for y := from.Y; y <= to.Y; y++ {
		for x := from.X; x <= to.X; x++ {
			if obj := g.Tile(x, y, brush.Depth()); obj != nil {
				tiles[Cell{x - from.X, y - from.Y}] = obj
			}
		}
	}
	if len(tiles) == 0 {
		return
	}
	brush.SetTiles(tiles)
	tm.onPick.emit(tiles)
}
