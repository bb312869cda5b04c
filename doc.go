// Package tilegrid is a layered tile-grid editor and renderer.
//
// A [Canvas] owns a visible [Surface] and coalesces render requests: any
// number of [Canvas.RequestRender] calls made between two display frames
// collapse into a single paint on the next [Canvas.Frame]. Hosts call Frame
// once per displayed frame; the [ebitenhost] subpackage does this for an
// Ebitengine window.
//
// # Composition
//
// Canvas behavior is assembled from capabilities. [Base] draws nothing but
// the surface; extensions add selection, zoom, the grid engine, hover
// highlighting, drawing and persistence. A [Builder] applies them in a
// fixed order whatever order they were requested in, and each extension
// checks its prerequisites:
//
//	class := tilegrid.NewBuilder().Tileable().Hoverable().Drawable().MustBuild()
//	c, err := class.Create(ctx, tilegrid.Options{
//		Surface:  tilegrid.NewSurface(320, 240),
//		CellSize: image.Pt(16, 16),
//	})
//
// [TileSetClass] and [TileMapClass] are the two editor classes; [TileSet]
// and [TileMap] wrap them with image and document loading.
//
// # Layers
//
// The grid engine keeps one [Layer] per depth slot (background, zero,
// foreground and the system UI slot) plus a [GridLayer] for the ruling.
// Every layer caches its rendering and only rebuilds it after a mutation.
// A paint in which no visible layer changed skips drawing entirely.
//
// # Documents
//
// A map is saved as a [Document], JSON holding the de-duplicated objects
// and a cell table keyed "<depth>:<y>|<x>". [Store.Load] resolves every
// referenced image in an [ImageTable] (see [LoadImages]) before touching the
// grid.
//
// [ebitenhost]: https://pkg.go.dev/github.com/phanxgames/tilegrid/ebitenhost
package tilegrid
