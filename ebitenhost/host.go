// Package ebitenhost displays tilegrid canvases in an [Ebitengine] window.
//
// Each canvas is laid out as a pane. Once per display frame the host calls
// the pane canvas's Frame, uploads the surface when it was repainted, and
// blits it at the pane position. Mouse input is translated into pointer
// events and routed to the pane under the cursor; a pane that received a
// press keeps receiving events until every button is released.
//
// [Ebitengine]: https://ebitengine.org
package ebitenhost

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/tilegrid"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Resizable  bool
	ShowFPS    bool
	ClearColor color.Color
}

// Pane places a canvas in the window.
type Pane struct {
	Canvas *tilegrid.Canvas
	X, Y   int
	Hidden bool

	// Update, if set, runs once per tick with the tick duration in seconds.
	Update func(dt float32)

	image *ebiten.Image
	dirty bool
}

// Bounds returns the window rectangle the pane occupies.
func (p *Pane) Bounds() image.Rectangle {
	s := p.Canvas.Surface()
	return image.Rect(p.X, p.Y, p.X+s.Width(), p.Y+s.Height())
}

// Host implements ebiten.Game over a set of panes.
type Host struct {
	cfg    RunConfig
	panes  []*Pane
	keys   []keyBinding
	update func() error
	ptr    pointerState
}

type keyBinding struct {
	key ebiten.Key
	fn  func()
}

// New creates a host with no panes.
func New(cfg RunConfig) *Host {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.ClearColor == nil {
		cfg.ClearColor = color.RGBA{0x23, 0x1e, 0x2d, 0xff}
	}
	return &Host{cfg: cfg}
}

// AddPane lays c out with its top-left corner at (x, y). Later panes draw on
// top of earlier ones and win pointer hit tests.
func (h *Host) AddPane(c *tilegrid.Canvas, x, y int) *Pane {
	p := &Pane{Canvas: c, X: x, Y: y, dirty: true}
	h.panes = append(h.panes, p)
	return p
}

// RemovePane drops p from the layout.
func (h *Host) RemovePane(p *Pane) {
	for i, q := range h.panes {
		if q == p {
			h.panes = append(h.panes[:i], h.panes[i+1:]...)
			break
		}
	}
	if h.ptr.hovered == p {
		h.ptr.hovered = nil
	}
	if h.ptr.captured == p {
		h.ptr.captured = nil
	}
	if p.image != nil {
		p.image.Deallocate()
		p.image = nil
	}
}

// Panes returns the panes in draw order.
func (h *Host) Panes() []*Pane {
	return h.panes
}

// OnKey registers fn to run when key is first pressed.
func (h *Host) OnKey(key ebiten.Key, fn func()) {
	h.keys = append(h.keys, keyBinding{key: key, fn: fn})
}

// SetUpdateFunc sets a callback run at the end of every tick. A non-nil
// error stops the game loop.
func (h *Host) SetUpdateFunc(fn func() error) {
	h.update = fn
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	x, y := ebiten.CursorPosition()
	h.processPointer(x, y, [3]bool{
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
	}, readModifiers())
	for _, kb := range h.keys {
		if inpututil.IsKeyJustPressed(kb.key) {
			kb.fn()
		}
	}
	dt := float32(1) / float32(ebiten.TPS())
	for _, p := range h.panes {
		if p.Update != nil && !p.Hidden {
			p.Update(dt)
		}
	}
	if h.update != nil {
		return h.update()
	}
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(h.cfg.ClearColor)
	for _, p := range h.panes {
		if p.Hidden {
			continue
		}
		if p.Canvas.Frame() {
			p.dirty = true
		}
		h.upload(p)
		if p.image == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(p.X), float64(p.Y))
		screen.DrawImage(p.image, op)
	}
	if h.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// upload copies the pane's surface to its GPU image after a repaint.
func (h *Host) upload(p *Pane) {
	src := p.Canvas.Surface().Image()
	w, ht := src.Rect.Dx(), src.Rect.Dy()
	if w == 0 || ht == 0 {
		return
	}
	if p.image == nil || p.image.Bounds().Dx() != w || p.image.Bounds().Dy() != ht {
		if p.image != nil {
			p.image.Deallocate()
		}
		p.image = ebiten.NewImage(w, ht)
		p.dirty = true
	}
	if !p.dirty {
		return
	}
	p.image.WritePixels(src.Pix)
	p.dirty = false
}

// Layout implements ebiten.Game.
func (h *Host) Layout(_, _ int) (int, int) {
	return h.cfg.Width, h.cfg.Height
}

// Run opens the window and runs the game loop until it exits.
func Run(h *Host) error {
	ebiten.SetWindowTitle(h.cfg.Title)
	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	if h.cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if err := ebiten.RunGame(h); err != nil {
		return fmt.Errorf("ebitenhost: %w", err)
	}
	return nil
}
