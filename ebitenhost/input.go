package ebitenhost

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tilegrid"
)

// pointerState tracks the mouse between ticks.
type pointerState struct {
	x, y     int
	seen     bool
	buttons  [3]bool
	hovered  *Pane
	captured *Pane
}

var buttonOrder = [3]tilegrid.MouseButton{
	tilegrid.MouseButtonLeft,
	tilegrid.MouseButtonRight,
	tilegrid.MouseButtonMiddle,
}

// readModifiers returns the currently held modifier keys as a bitmask.
func readModifiers() tilegrid.KeyModifiers {
	var mods tilegrid.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= tilegrid.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= tilegrid.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= tilegrid.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= tilegrid.ModMeta
	}
	return mods
}

// paneAt returns the topmost visible pane containing the window point.
func (h *Host) paneAt(x, y int) *Pane {
	pt := image.Pt(x, y)
	for i := len(h.panes) - 1; i >= 0; i-- {
		p := h.panes[i]
		if !p.Hidden && pt.In(p.Bounds()) {
			return p
		}
	}
	return nil
}

func send(p *Pane, typ tilegrid.EventType, x, y int, button tilegrid.MouseButton, mods tilegrid.KeyModifiers) {
	p.Canvas.HandlePointer(tilegrid.PointerEvent{
		Type:      typ,
		X:         float64(x - p.X),
		Y:         float64(y - p.Y),
		Button:    button,
		Modifiers: mods,
	})
}

// processPointer turns one tick of mouse state into pointer events. Window
// coordinates are converted to pane-relative offsets.
func (h *Host) processPointer(x, y int, pressed [3]bool, mods tilegrid.KeyModifiers) {
	st := &h.ptr
	moved := !st.seen || x != st.x || y != st.y
	st.seen = true
	st.x, st.y = x, y

	under := h.paneAt(x, y)
	if under != st.hovered {
		if st.hovered != nil {
			send(st.hovered, tilegrid.EventPointerLeave, x, y, tilegrid.MouseButtonLeft, mods)
		}
		if under != nil {
			send(under, tilegrid.EventPointerEnter, x, y, tilegrid.MouseButtonLeft, mods)
		}
		st.hovered = under
	}

	target := st.captured
	if target == nil {
		target = under
	}
	if moved && target != nil {
		send(target, tilegrid.EventPointerMove, x, y, tilegrid.MouseButtonLeft, mods)
	}

	for i, down := range pressed {
		was := st.buttons[i]
		st.buttons[i] = down
		switch {
		case down && !was:
			if under == nil {
				continue
			}
			if st.captured == nil {
				st.captured = under
			}
			send(st.captured, tilegrid.EventPointerDown, x, y, buttonOrder[i], mods)
		case !down && was:
			if t := st.captured; t != nil {
				send(t, tilegrid.EventPointerUp, x, y, buttonOrder[i], mods)
			} else if under != nil {
				send(under, tilegrid.EventPointerUp, x, y, buttonOrder[i], mods)
			}
		}
	}
	if st.buttons == [3]bool{} {
		st.captured = nil
	}
}
