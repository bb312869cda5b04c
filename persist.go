package tilegrid

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"slices"
	"strings"
)

// DocumentVersion is the only persisted format version Load accepts.
const DocumentVersion = "0.6.0"

// persistedDepths are the slots saved by Store. The System-UI slot holds
// editor chrome only.
var persistedDepths = [...]Depth{DepthBackground, DepthZero, DepthForeground}

// RectMeta is the persisted form of a rectangle.
type RectMeta struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts r back to an image.Rectangle.
func (r RectMeta) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func rectMetaOf(r image.Rectangle) RectMeta {
	return RectMeta{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// ObjectMeta is the persisted description of a rendered object. Objects with
// a hit box list are restored as GameObjects.
type ObjectMeta struct {
	ID        string     `json:"id"`
	SourceURL string     `json:"sourceURL"`
	Rect      RectMeta   `json:"sourceBoundingRect"`
	HitBoxes  []RectMeta `json:"hitBoxes,omitempty"`
}

// SizeMeta is the persisted logical pixel size of a map.
type SizeMeta struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Document is the persisted form of a tile map: every distinct object once,
// keyed by id, and a cell table mapping "<depth>:<y>|<x>" to object ids.
type Document struct {
	Objects map[string]ObjectMeta `json:"uniqGameObjects"`
	Cells   map[string]string     `json:"tileHash"`
	Size    SizeMeta              `json:"tileMapSize"`
	Version string                `json:"version"`
}

// ImageTable resolves source URLs to decoded rasters.
type ImageTable map[string]image.Image

// ParseDocument decodes a document. It does not check the version.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tilegrid: parse document: %w", err)
	}
	return &doc, nil
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("tilegrid: encode document: %w", err)
	}
	return nil
}

// SourceURLs returns every distinct source URL referenced by the document.
func (d *Document) SourceURLs() []string {
	seen := make(map[string]bool, len(d.Objects))
	var urls []string
	for _, m := range d.Objects {
		if m.SourceURL == "" || seen[m.SourceURL] {
			continue
		}
		seen[m.SourceURL] = true
		urls = append(urls, m.SourceURL)
	}
	return urls
}

// CellKey returns the document key for cell c on slot d.
func CellKey(d Depth, c Cell) string {
	return d.String() + ":" + c.Key()
}

// ParseKey is the inverse of CellKey.
func ParseKey(key string) (Depth, Cell, error) {
	ds, cs, ok := strings.Cut(key, ":")
	if !ok {
		return 0, Cell{}, fmt.Errorf("tilegrid: malformed document key %q", key)
	}
	d, err := ParseDepth(ds)
	if err != nil {
		return 0, Cell{}, err
	}
	c, err := ParseCellKey(cs)
	if err != nil {
		return 0, Cell{}, err
	}
	return d, c, nil
}

// Store saves and restores the contents of a grid.
type Store struct {
	c *Canvas
}

var persistDef = capabilityDef{
	tag:      CapPersist,
	requires: CapGrid,
	attach: func(c *Canvas) {
		c.store = &Store{c: c}
	},
}

// Save captures the Background, Zero and Foreground slots.
func (s *Store) Save() *Document {
	doc := &Document{
		Objects: make(map[string]ObjectMeta),
		Cells:   make(map[string]string),
		Size:    SizeMeta{Width: s.c.size.X, Height: s.c.size.Y},
		Version: DocumentVersion,
	}
	g := s.c.grid
	for _, d := range persistedDepths {
		g.Layer(d).Each(func(c Cell, obj RenderedObject) bool {
			if isVirtual(obj) {
				return true
			}
			if _, ok := doc.Objects[obj.ID()]; !ok {
				doc.Objects[obj.ID()] = metaOf(obj)
			}
			doc.Cells[CellKey(d, c)] = obj.ID()
			return true
		})
	}
	return doc
}

type placement struct {
	depth Depth
	cell  Cell
	obj   RenderedObject
}

// Load replaces the persisted slots with the document's contents, resolving
// rasters through images. The document is fully validated before the grid
// is touched, so a failed Load leaves the grid as it was.
func (s *Store) Load(ctx context.Context, doc *Document, images ImageTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.Version != DocumentVersion {
		return fmt.Errorf("%w: got %q, want %q", ErrVersionMismatch, doc.Version, DocumentVersion)
	}
	objects := make(map[string]RenderedObject, len(doc.Objects))
	for id, m := range doc.Objects {
		src, ok := images[m.SourceURL]
		if !ok {
			return fmt.Errorf("%w: %s: no image for %q", ErrUnknownObject, id, m.SourceURL)
		}
		if m.ID == "" {
			m.ID = id
		}
		objects[id] = objectFromMeta(m, src)
	}
	places := make([]placement, 0, len(doc.Cells))
	for key, id := range doc.Cells {
		d, c, err := ParseKey(key)
		if err != nil {
			return err
		}
		if d == DepthSystemUI {
			return fmt.Errorf("tilegrid: document key %q addresses the system UI slot", key)
		}
		obj, ok := objects[id]
		if !ok {
			return fmt.Errorf("%w: %s at %s", ErrUnknownObject, id, key)
		}
		places = append(places, placement{depth: d, cell: c, obj: obj})
	}
	slices.SortFunc(places, func(a, b placement) int {
		return cmp.Or(cmp.Compare(a.depth, b.depth), cmp.Compare(a.cell.Y, b.cell.Y), cmp.Compare(a.cell.X, b.cell.X))
	})

	g := s.c.grid
	for _, d := range persistedDepths {
		g.Layer(d).Clear()
	}
	if doc.Size.Width > 0 && doc.Size.Height > 0 {
		s.c.Resize(doc.Size.Width, doc.Size.Height)
	}
	for _, p := range places {
		g.SetTile(p.cell.X, p.cell.Y, p.depth, p.obj)
		if gobj, ok := p.obj.(*GameObject); ok && p.depth == DepthZero {
			g.AddInteractiveObject(p.cell.X, p.cell.Y, gobj)
		}
	}
	s.c.RequestRender()
	s.c.Logger().Debug("document loaded",
		"component", "store",
		"objects", len(objects),
		"cells", len(places))
	return nil
}
