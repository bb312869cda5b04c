package tilegrid

import (
	"encoding/json"
	"fmt"
	"strings"
)

// scriptStep is a single action in a pointer script.
type scriptStep struct {
	Action string   `json:"action"`
	Label  string   `json:"label,omitempty"`
	X      float64  `json:"x,omitempty"`
	Y      float64  `json:"y,omitempty"`
	FromX  float64  `json:"fromX,omitempty"`
	FromY  float64  `json:"fromY,omitempty"`
	ToX    float64  `json:"toX,omitempty"`
	ToY    float64  `json:"toY,omitempty"`
	Frames int      `json:"frames,omitempty"`
	Button string   `json:"button,omitempty"`
	Mods   []string `json:"mods,omitempty"`
	Clean  bool     `json:"clean,omitempty"`
}

type pointerScriptFile struct {
	SnapshotDir string       `json:"snapshotDir,omitempty"`
	Steps       []scriptStep `json:"steps"`
}

// PointerScript sequences injected pointer events and snapshots across
// frames. Attach it to a canvas with SetScript; each Frame advances it.
type PointerScript struct {
	steps       []scriptStep
	snapshotDir string
	cursor      int
	waitCount   int
	done        bool
	snapshots   []string
}

// LoadPointerScript parses a JSON pointer script.
func LoadPointerScript(data []byte) (*PointerScript, error) {
	var f pointerScriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("tilegrid: parse pointer script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("tilegrid: parse pointer script: no steps")
	}
	for i, st := range f.Steps {
		if _, err := parseButton(st.Button); err != nil {
			return nil, fmt.Errorf("tilegrid: parse pointer script: step %d: %w", i, err)
		}
		if _, err := parseMods(st.Mods); err != nil {
			return nil, fmt.Errorf("tilegrid: parse pointer script: step %d: %w", i, err)
		}
		switch st.Action {
		case "click", "press", "release", "move", "drag", "leave", "wait", "snapshot":
		default:
			return nil, fmt.Errorf("tilegrid: parse pointer script: step %d: unknown action %q", i, st.Action)
		}
	}
	dir := f.SnapshotDir
	if dir == "" {
		dir = "snapshots"
	}
	return &PointerScript{steps: f.Steps, snapshotDir: dir}, nil
}

// SetScript attaches a pointer script to the canvas. A nil script detaches.
func (c *Canvas) SetScript(s *PointerScript) {
	c.script = s
}

// Done reports whether every step has run.
func (s *PointerScript) Done() bool {
	return s.done
}

// Snapshots returns the paths of snapshots written so far.
func (s *PointerScript) Snapshots() []string {
	return s.snapshots
}

// step advances the script by one frame. Called from Canvas.Frame.
func (s *PointerScript) step(c *Canvas) {
	if s.done {
		return
	}
	// Let pending injections drain before advancing.
	if len(c.injectQueue) > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	button, _ := parseButton(st.Button)
	mods, _ := parseMods(st.Mods)
	switch st.Action {
	case "click":
		c.InjectClick(st.X, st.Y, button, mods)
	case "press":
		c.InjectPress(st.X, st.Y, button, mods)
	case "release":
		c.InjectRelease(st.X, st.Y, button, mods)
	case "move":
		c.InjectMove(st.X, st.Y, mods)
	case "leave":
		c.InjectLeave()
	case "drag":
		c.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2), button, mods)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "snapshot":
		path, err := c.SaveSnapshot(s.snapshotDir, st.Label, st.Clean)
		if err != nil {
			c.Logger().Error("script snapshot failed", "component", "script", "label", st.Label, "err", err)
		} else {
			s.snapshots = append(s.snapshots, path)
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(c.injectQueue) == 0 {
		s.done = true
	}
}

func parseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return MouseButtonLeft, nil
	case "right":
		return MouseButtonRight, nil
	case "middle":
		return MouseButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

func parseMods(names []string) (KeyModifiers, error) {
	var m KeyModifiers
	for _, n := range names {
		switch strings.ToLower(n) {
		case "shift":
			m |= ModShift
		case "ctrl", "control":
			m |= ModCtrl
		case "alt", "option":
			m |= ModAlt
		case "meta", "cmd", "super":
			m |= ModMeta
		default:
			return 0, fmt.Errorf("unknown modifier %q", n)
		}
	}
	return m, nil
}
