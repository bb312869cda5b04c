package tilegrid

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	x, y := 10.0, 20.0
	g := TweenPosition(&x, &y, 100, 200, 1.0, ease.Linear)

	// Exact halves avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(x-100) > 0.5 {
		t.Errorf("x = %f, want ~100", x)
	}
	if math.Abs(y-200) > 0.5 {
		t.Errorf("y = %f, want ~200", y)
	}
}

func TestTweenPositionMidway(t *testing.T) {
	x, y := 0.0, 0.0
	g := TweenPosition(&x, &y, 100, -50, 1.0, nil)
	g.Update(0.5)
	if g.Done {
		t.Fatal("Done at half duration")
	}
	if math.Abs(x-50) > 0.5 {
		t.Errorf("x = %f, want ~50", x)
	}
	if math.Abs(y+25) > 0.5 {
		t.Errorf("y = %f, want ~-25", y)
	}
}

func TestTweenGroupStopsAfterDone(t *testing.T) {
	x, y := 0.0, 0.0
	g := TweenPosition(&x, &y, 10, 10, 0.5, ease.OutQuad)
	g.Update(1)
	if !g.Done {
		t.Fatal("expected Done")
	}
	x = 99
	g.Update(1)
	if x != 99 {
		t.Errorf("finished tween wrote x = %f", x)
	}
}
