package tilegrid

// debugLog reports paint timing and draw counts. Only called when the canvas
// is in debug mode.
func (c *Canvas) debugLog(stats FrameStats) {
	log := c.Logger()
	if stats.Skipped {
		log.Debug("paint skipped", "component", "canvas", "frame", stats.Frame)
		return
	}
	log.Debug("paint",
		"component", "canvas",
		"frame", stats.Frame,
		"layers", stats.Layers,
		"clears", stats.Surface.Clears,
		"blits", stats.Surface.Blits,
		"strokes", stats.Surface.Strokes,
		"duration", stats.Duration)
}

// debugMaxLayerEntries is the per-layer entry count above which CheckLayers
// warns.
const debugMaxLayerEntries = 1 << 16

// CheckLayers logs a warning for every layer whose entry count exceeds the
// threshold, and for entries anchored outside the grid. It returns the number
// of warnings.
func (g *Grid) CheckLayers() int {
	log := g.c.Logger()
	warnings := 0
	for i, l := range g.layers {
		d := Depths[i]
		if l.Len() > debugMaxLayerEntries {
			log.Warn("layer has many entries", "component", "grid", "depth", d, "entries", l.Len(), "threshold", debugMaxLayerEntries)
			warnings++
		}
		l.Each(func(c Cell, _ RenderedObject) bool {
			if !c.In(g.size) {
				log.Warn("entry outside grid", "component", "grid", "depth", d, "cell", c, "size", g.size)
				warnings++
			}
			return true
		})
	}
	return warnings
}
