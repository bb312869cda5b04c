package tilegrid

import (
	"os"
	"strings"
	"testing"
)

func TestLoadPointerScriptValid(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "click", "x": 10, "y": 20},
			{"action": "drag", "fromX": 0, "fromY": 0, "toX": 30, "toY": 30, "frames": 4, "mods": ["shift"]},
			{"action": "wait", "frames": 3},
			{"action": "snapshot", "label": "after", "clean": true}
		]
	}`)
	s, err := LoadPointerScript(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.steps) != 4 {
		t.Errorf("steps = %d, want 4", len(s.steps))
	}
	if s.snapshotDir != "snapshots" {
		t.Errorf("snapshotDir = %q, want snapshots", s.snapshotDir)
	}
	if s.Done() {
		t.Error("new script reports Done")
	}
}

func TestLoadPointerScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"bad json", `{`, "parse pointer script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`, "unknown action"},
		{"unknown button", `{"steps": [{"action": "click", "button": "fourth"}]}`, "unknown button"},
		{"unknown modifier", `{"steps": [{"action": "click", "mods": ["hyper"]}]}`, "unknown modifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPointerScript([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseMods(t *testing.T) {
	m, err := parseMods([]string{"Shift", "cmd", "control"})
	if err != nil {
		t.Fatal(err)
	}
	if want := ModShift | ModMeta | ModCtrl; m != want {
		t.Errorf("mods = %b, want %b", m, want)
	}
}

func TestPointerScriptRun(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{
		"snapshotDir": "` + dir + `",
		"steps": [
			{"action": "click", "x": 5, "y": 5},
			{"action": "move", "x": 40, "y": 40},
			{"action": "wait", "frames": 2},
			{"action": "snapshot", "label": "painted"}
		]
	}`)
	s, err := LoadPointerScript(data)
	if err != nil {
		t.Fatal(err)
	}

	c := newTestCanvas(t, NewBuilder().Tileable().Hoverable().Drawable(), 64, 64, nil)
	tile := solidTile("a", 16, 16, red)
	c.Brush().SetTiles(map[Cell]RenderedObject{{0, 0}: tile})
	c.SetScript(s)

	for i := 0; i < 20 && !s.Done(); i++ {
		c.Frame()
	}
	if !s.Done() {
		t.Fatal("script did not finish in 20 frames")
	}
	if c.Grid().Tile(0, 0, DepthZero) != tile {
		t.Error("scripted click did not paint")
	}
	if at, ok := c.Hover().Cell(); !ok || at != (Cell{2, 2}) {
		t.Errorf("hover cell = %v, %v; want (2,2)", at, ok)
	}
	snaps := s.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snaps))
	}
	if !strings.HasSuffix(snaps[0], "_painted.png") {
		t.Errorf("snapshot path = %q", snaps[0])
	}
	if _, err := os.Stat(snaps[0]); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}
