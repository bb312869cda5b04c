package tilegrid

import (
	"crypto/rand"
	"encoding/hex"
	"image"
	"reflect"
)

// RenderedObject is the minimal blittable contract: a stable identifier, a
// source raster, and the region of that raster to copy from. Tiles, sprites
// and whole composited layers all satisfy it, so layers compose like tiles.
//
// SourceBounds must lie within Source's bounds. The engine never checks this.
// Implementations need not be comparable; a non-comparable value is treated
// as a new object every time it is stored.
type RenderedObject interface {
	ID() string
	Source() image.Image
	SourceBounds() image.Rectangle
}

// sameObject reports whether a and b are the same stored object. Values whose
// dynamic type is not comparable are never the same, so storing one always
// counts as a change.
func sameObject(a, b RenderedObject) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// isVirtual reports whether obj is a placeholder that cache rebuilds skip.
func isVirtual(obj RenderedObject) bool {
	v, ok := obj.(interface{ Virtual() bool })
	return ok && v.Virtual()
}

// Tile is a rectangular region of a source image.
type Tile struct {
	id        string
	source    image.Image
	sourceURL string
	rect      image.Rectangle
	virtual   bool
}

// NewTile creates a tile over rect of source. An empty id is replaced by a
// random one.
func NewTile(id string, source image.Image, sourceURL string, rect image.Rectangle) *Tile {
	if id == "" {
		id = newID()
	}
	return &Tile{id: id, source: source, sourceURL: sourceURL, rect: rect}
}

// NewVirtualTile creates a placeholder entry that occupies a cell without
// being drawn.
func NewVirtualTile(id string) *Tile {
	t := NewTile(id, nil, "", image.Rectangle{})
	t.virtual = true
	return t
}

func (t *Tile) ID() string                    { return t.id }
func (t *Tile) Source() image.Image           { return t.source }
func (t *Tile) SourceBounds() image.Rectangle { return t.rect }
func (t *Tile) SourceURL() string             { return t.sourceURL }
func (t *Tile) Virtual() bool                 { return t.virtual }

// Meta returns the persisted description of the tile.
func (t *Tile) Meta() ObjectMeta {
	return ObjectMeta{
		ID:        t.id,
		SourceURL: t.sourceURL,
		Rect:      rectMetaOf(t.rect),
	}
}

// GameObject is a tile that carries hit boxes. Placing one on the Zero layer
// registers an InteractiveObject with the owning grid.
type GameObject struct {
	Tile
	hitBoxes []image.Rectangle
}

// NewGameObject creates a game object over rect of source with the given hit
// boxes, expressed relative to the object's top-left corner.
func NewGameObject(id string, source image.Image, sourceURL string, rect image.Rectangle, hitBoxes []image.Rectangle) *GameObject {
	return &GameObject{Tile: *NewTile(id, source, sourceURL, rect), hitBoxes: hitBoxes}
}

// HitBoxes returns the object's hit boxes. The returned slice MUST NOT be mutated.
func (g *GameObject) HitBoxes() []image.Rectangle {
	return g.hitBoxes
}

// Meta returns the persisted description, including hit boxes.
func (g *GameObject) Meta() ObjectMeta {
	m := g.Tile.Meta()
	m.HitBoxes = make([]RectMeta, 0, len(g.hitBoxes))
	for _, hb := range g.hitBoxes {
		m.HitBoxes = append(m.HitBoxes, rectMetaOf(hb))
	}
	return m
}

// objectFromMeta rebuilds a Tile or GameObject from its persisted form.
func objectFromMeta(m ObjectMeta, source image.Image) RenderedObject {
	if m.HitBoxes != nil {
		boxes := make([]image.Rectangle, 0, len(m.HitBoxes))
		for _, hb := range m.HitBoxes {
			boxes = append(boxes, hb.Rect())
		}
		return NewGameObject(m.ID, source, m.SourceURL, m.Rect.Rect(), boxes)
	}
	return NewTile(m.ID, source, m.SourceURL, m.Rect.Rect())
}

// metaOf returns the persisted description of obj, or a bare id/rect record for
// objects that are not tiles.
func metaOf(obj RenderedObject) ObjectMeta {
	switch o := obj.(type) {
	case interface{ Meta() ObjectMeta }:
		return o.Meta()
	default:
		return ObjectMeta{ID: obj.ID(), Rect: rectMetaOf(obj.SourceBounds())}
	}
}

// objectView is a RenderedObject over a surface, returned by layer caches.
type objectView struct {
	id   string
	src  image.Image
	rect image.Rectangle
}

func (v objectView) ID() string                    { return v.id }
func (v objectView) Source() image.Image           { return v.src }
func (v objectView) SourceBounds() image.Rectangle { return v.rect }

func newID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
