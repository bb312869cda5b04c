package tilegrid

import (
	"context"
	"image"
	"math"
	"slices"

	"github.com/tanema/gween/ease"
)

const (
	displayFrameRate = 60
	sceneLayers      = 3
)

// Actor is an interactive object brought to life in a Scene. X and Y are the
// logical pixel position of its top-left corner.
type Actor struct {
	Object *GameObject
	X, Y   float64
	tween  *TweenGroup
}

// MoveTo glides the actor to (x, y) over duration seconds. A zero duration
// moves it at once.
func (a *Actor) MoveTo(x, y float64, duration float32, fn ease.TweenFunc) {
	if duration <= 0 {
		a.X, a.Y, a.tween = x, y, nil
		return
	}
	a.tween = TweenPosition(&a.X, &a.Y, x, y, duration, fn)
}

// Moving reports whether a MoveTo is in progress.
func (a *Actor) Moving() bool {
	return a.tween != nil && !a.tween.Done
}

func (a *Actor) update(dt float32) {
	if a.tween == nil {
		return
	}
	a.tween.Update(dt)
	if a.tween.Done {
		a.tween = nil
	}
}

// Scene renders a tile map as a game: the Background and Zero slots, then
// the actors, then the Foreground slot. It is built on the base canvas alone.
type Scene struct {
	*Canvas
	layers    [sceneLayers]RenderedObject
	actors    []*Actor
	running   bool
	frameRate int
	tick      int
}

// NewScene builds, configures and initializes a scene.
func NewScene(ctx context.Context, opts Options) (*Scene, error) {
	s := &Scene{Canvas: Base.New(), frameRate: displayFrameRate}
	if err := s.ApplyOptions(opts); err != nil {
		return nil, err
	}
	s.Canvas.composite = s.paintScene
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateTileMap takes the static layers and interactive objects of an editor
// grid and resizes the scene to match. GameObjects on the Zero slot
// become actors rather than part of the static layer.
func (s *Scene) UpdateTileMap(g *Grid) {
	zero := g.Layer(DepthZero)
	s.layers[0] = snapshotObject(g.Layer(DepthBackground).RenderedObject())
	s.layers[1] = snapshotObject(zero.RenderWithCondition(func(obj RenderedObject) bool {
		_, ok := obj.(*GameObject)
		return !ok
	}))
	s.layers[2] = snapshotObject(g.Layer(DepthForeground).RenderedObject())
	// The filtered rebuild left the editor's Zero cache without its objects.
	g.InvalidateCache(DepthZero)

	cs := g.CellSize()
	s.actors = s.actors[:0]
	for _, rec := range g.InteractiveObjects() {
		s.actors = append(s.actors, &Actor{
			Object: rec.Object,
			X:      float64(rec.Position.X * cs.X),
			Y:      float64(rec.Position.Y * cs.Y),
		})
	}
	s.Resize(g.c.size.X, g.c.size.Y)
	s.RequestRender()
}

// snapshotObject copies a cache view so later rebuilds of the cache do not
// change it.
func snapshotObject(obj RenderedObject) RenderedObject {
	src := obj.Source()
	r := obj.SourceBounds()
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect == r {
		copy(img.Pix, rgba.Pix)
	} else {
		s := &Surface{img: img}
		s.DrawImage(src, r, img.Rect)
	}
	return objectView{id: obj.ID(), src: img, rect: img.Rect}
}

// Actors returns the scene's actors.
func (s *Scene) Actors() []*Actor {
	return slices.Clone(s.actors)
}

// AddActor places obj at the logical pixel position (x, y).
func (s *Scene) AddActor(obj *GameObject, x, y float64) *Actor {
	a := &Actor{Object: obj, X: x, Y: y}
	s.actors = append(s.actors, a)
	s.RequestRender()
	return a
}

// Play starts the frame loop.
func (s *Scene) Play() {
	s.running = true
	s.tick = 0
	s.RequestRender()
}

// Pause stops the frame loop. The last frame stays on the surface.
func (s *Scene) Pause() {
	s.running = false
}

// Running reports whether the scene is playing.
func (s *Scene) Running() bool {
	return s.running
}

// FrameRate returns the number of paints requested per second of display.
func (s *Scene) FrameRate() int {
	return s.frameRate
}

// SetFrameRate sets how many of the display's 60 frames per second repaint
// the scene. Values are clamped to [1, 60].
func (s *Scene) SetFrameRate(fps int) {
	s.frameRate = min(max(fps, 1), displayFrameRate)
}

// Update advances actor motion by dt seconds and, every
// 60/FrameRate calls, requests a paint. Hosts call it once per display frame.
func (s *Scene) Update(dt float32) {
	if !s.running {
		return
	}
	for _, a := range s.actors {
		a.update(dt)
	}
	s.tick++
	if s.tick >= displayFrameRate/s.frameRate {
		s.tick = 0
		s.RequestRender()
	}
}

// paintScene always redraws; the scene requests paints at its frame rate.
func (s *Scene) paintScene(_, _ bool) (bool, int) {
	surf := s.surface
	surf.Clear()
	drawn := 0
	for i, layer := range s.layers {
		if layer != nil {
			surf.FillObject(layer)
			drawn++
		}
		if i == 1 {
			s.drawActors()
		}
	}
	s.emitRender()
	return true, drawn
}

func (s *Scene) drawActors() {
	for _, a := range s.actors {
		r := a.Object.SourceBounds()
		at := image.Pt(int(math.Round(a.X*s.scale)), int(math.Round(a.Y*s.scale)))
		size := image.Pt(int(math.Round(float64(r.Dx())*s.scale)), int(math.Round(float64(r.Dy())*s.scale)))
		s.surface.DrawObject(a.Object, image.Rectangle{Min: at, Max: at.Add(size)})
	}
}
