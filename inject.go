package tilegrid

// InjectPress queues a button press at the given visible-surface offset. The
// event is delivered by the next Frame call.
func (c *Canvas) InjectPress(x, y float64, button MouseButton, mods KeyModifiers) {
	c.injectQueue = append(c.injectQueue, PointerEvent{
		Type: EventPointerDown, X: x, Y: y, Button: button, Modifiers: mods,
	})
}

// InjectMove queues a pointer move. Between InjectPress and InjectRelease it
// continues a drag.
func (c *Canvas) InjectMove(x, y float64, mods KeyModifiers) {
	c.injectQueue = append(c.injectQueue, PointerEvent{
		Type: EventPointerMove, X: x, Y: y, Modifiers: mods,
	})
}

// InjectRelease queues a button release.
func (c *Canvas) InjectRelease(x, y float64, button MouseButton, mods KeyModifiers) {
	c.injectQueue = append(c.injectQueue, PointerEvent{
		Type: EventPointerUp, X: x, Y: y, Button: button, Modifiers: mods,
	})
}

// InjectLeave queues the pointer leaving the canvas.
func (c *Canvas) InjectLeave() {
	c.injectQueue = append(c.injectQueue, PointerEvent{Type: EventPointerLeave})
}

// InjectClick queues a press followed by a release at the same offset.
// Consumes two frames.
func (c *Canvas) InjectClick(x, y float64, button MouseButton, mods KeyModifiers) {
	c.InjectPress(x, y, button, mods)
	c.InjectRelease(x, y, button, mods)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves, and a release at (toX, toY). The sequence consumes
// frames frames; the minimum is 2.
func (c *Canvas) InjectDrag(fromX, fromY, toX, toY float64, frames int, button MouseButton, mods KeyModifiers) {
	if frames < 2 {
		frames = 2
	}
	c.InjectPress(fromX, fromY, button, mods)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		c.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t, mods)
	}
	c.InjectRelease(toX, toY, button, mods)
}

// Injected returns the number of queued synthetic events.
func (c *Canvas) Injected() int {
	return len(c.injectQueue)
}

// processInjected delivers one queued event and reports whether one was
// consumed.
func (c *Canvas) processInjected() bool {
	if len(c.injectQueue) == 0 {
		return false
	}
	ev := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]
	c.HandlePointer(ev)
	return true
}
