package tilegrid

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type track struct {
	tween *gween.Tween
	field *float64
}

// TweenGroup drives a set of float64 fields toward their targets. Done is set
// once every field has arrived. Scene.Update advances actor groups; any other
// group is advanced by whoever created it.
type TweenGroup struct {
	tracks []track
	Done   bool
}

// Update advances the group by dt seconds.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	done := true
	for _, t := range g.tracks {
		v, finished := t.tween.Update(dt)
		*t.field = float64(v)
		done = done && finished
	}
	g.Done = done
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tracks = append(g.tracks, track{
		tween: gween.New(float32(*field), float32(to), duration, fn),
		field: field,
	})
}

// TweenPosition moves (*x, *y) to (toX, toY) over duration seconds. A nil
// easing means linear.
func TweenPosition(x, y *float64, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{tracks: make([]track, 0, 2)}
	g.add(x, toX, duration, fn)
	g.add(y, toY, duration, fn)
	return g
}
