package render

import "github.com/aurorarender/protocol/render/rerr"

// Run drives the frame loop until the window closes or frameCount frames
// have presented, whichever comes first; frameCount of 0 runs until the
// window closes. Panics inside a frame are recovered and logged so one bad
// frame doesn't crash the whole process.
func (c *Context) Run(frameCount int) {
	frames := 0
	for !c.win.ShouldClose() {
		if frameCount > 0 && frames >= frameCount {
			return
		}
		c.frame()
		frames++
	}
}

// Frame runs a single poll + present pass across every open canvas,
// without blocking on ShouldClose. Exposed for callers that drive their
// own loop (e.g. an embedding application with its own event loop).
func (c *Context) Frame() {
	c.frame()
}

func (c *Context) frame() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Printf("render: frame goroutine recovered from panic: %v", r)
		}
	}()

	c.win.PollEvents()

	c.mu.Lock()
	presenters := make([]*presenterEntry, 0, len(c.presenters))
	for id, p := range c.presenters {
		presenters = append(presenters, &presenterEntry{id: id, presenter: p})
	}
	onError := c.onError
	c.mu.Unlock()

	for _, entry := range presenters {
		if err := entry.presenter.RenderFrame(); err != nil {
			c.logger.Printf("render: canvas %d frame error: %v", entry.id, err)
			if onError != nil {
				if re, ok := err.(*rerr.Error); ok {
					onError(re)
				}
			}
		}
	}

	if c.profilingEnabled {
		c.profiler.Tick()
	}
}
