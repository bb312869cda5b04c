package tilegrid

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Cell is an integer grid coordinate, distinct from pixel coordinates.
// Negative and out-of-grid cells are legal keys; they are simply never drawn.
type Cell struct {
	X, Y int
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{c.X + dx, c.Y + dy}
}

// In reports whether the cell lies inside a grid of the given size.
func (c Cell) In(size image.Point) bool {
	return c.X >= 0 && c.X < size.X && c.Y >= 0 && c.Y < size.Y
}

// Key returns the persisted form of the cell: "<y>|<x>".
func (c Cell) Key() string {
	return strconv.Itoa(c.Y) + "|" + strconv.Itoa(c.X)
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// ParseCellKey is the inverse of Cell.Key.
func ParseCellKey(key string) (Cell, error) {
	ys, xs, ok := strings.Cut(key, "|")
	if !ok {
		return Cell{}, fmt.Errorf("tilegrid: malformed cell key %q", key)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Cell{}, fmt.Errorf("tilegrid: malformed cell key %q: %w", key, err)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Cell{}, fmt.Errorf("tilegrid: malformed cell key %q: %w", key, err)
	}
	return Cell{x, y}, nil
}

// Filter selects the image-filtering mode used when a blit is scaled.
type Filter uint8

const (
	FilterNearest Filter = iota // pixelated scaling (image smoothing off)
	FilterLinear                // bilinear scaling (image smoothing on)
)

// EventType identifies a kind of pointer event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // a pointer button was pressed
	EventPointerUp                     // a pointer button was released
	EventPointerMove                   // the pointer moved, with or without a button held
	EventPointerEnter                  // the pointer entered the canvas
	EventPointerLeave                  // the pointer left the canvas
)

func (t EventType) String() string {
	switch t {
	case EventPointerDown:
		return "down"
	case EventPointerUp:
		return "up"
	case EventPointerMove:
		return "move"
	case EventPointerEnter:
		return "enter"
	case EventPointerLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// PointerEvent is the only input the engine consumes. X and Y are pixel
// offsets relative to the canvas's visible surface.
type PointerEvent struct {
	Type      EventType
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// Has reports whether all modifiers in m are held.
func (e PointerEvent) Has(m KeyModifiers) bool {
	return e.Modifiers&m == m
}
