package verdant

// frameCallback is one pending request on a FrameClock.
type frameCallback struct {
	id uint64
	fn func(dt float64)
}

// FrameClock is an explicit per-frame scheduler. A request fires exactly once,
// on the next Tick; callbacks that want to keep running re-request themselves
// from inside the callback. Requests made during a Tick fire on the following
// Tick, never the current one.
//
// The Stage owns one clock and ticks it once per ebiten update. Tests tick it
// by hand.
type FrameClock struct {
	pending []frameCallback
	running []frameCallback
	nextID  uint64
	frame   uint64
}

// NewFrameClock creates an empty clock.
func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// FrameHandle cancels one outstanding request on a FrameClock.
type FrameHandle struct {
	id    uint64
	clock *FrameClock
}

// Request schedules fn for the next Tick.
func (c *FrameClock) Request(fn func(dt float64)) FrameHandle {
	c.nextID++
	c.pending = append(c.pending, frameCallback{id: c.nextID, fn: fn})
	return FrameHandle{id: c.nextID, clock: c}
}

// Tick runs every callback requested before this call, in request order.
func (c *FrameClock) Tick(dt float64) {
	c.frame++
	c.running, c.pending = c.pending, c.running[:0]
	for i := range c.running {
		// Cancel may nil out entries further down the list mid-tick.
		fn := c.running[i].fn
		if fn == nil {
			continue
		}
		c.running[i].fn = nil
		fn(dt)
	}
	clear(c.running)
	c.running = c.running[:0]
}

// Frame returns the number of ticks run so far.
func (c *FrameClock) Frame() uint64 {
	return c.frame
}

// Pending returns the number of callbacks waiting for the next Tick.
func (c *FrameClock) Pending() int {
	n := 0
	for i := range c.pending {
		if c.pending[i].fn != nil {
			n++
		}
	}
	return n
}

// Cancel removes the request if it has not fired yet. Canceling a fired,
// canceled or zero handle is a no-op.
func (h FrameHandle) Cancel() {
	if h.clock == nil || h.id == 0 {
		return
	}
	c := h.clock
	for i := range c.pending {
		if c.pending[i].id == h.id {
			copy(c.pending[i:], c.pending[i+1:])
			c.pending[len(c.pending)-1] = frameCallback{}
			c.pending = c.pending[:len(c.pending)-1]
			return
		}
	}
	for i := range c.running {
		if c.running[i].id == h.id {
			c.running[i].fn = nil
			return
		}
	}
}

// Active reports whether the request is still waiting to fire.
func (h FrameHandle) Active() bool {
	if h.clock == nil || h.id == 0 {
		return false
	}
	for i := range h.clock.pending {
		if h.clock.pending[i].id == h.id {
			return true
		}
	}
	for i := range h.clock.running {
		if h.clock.running[i].id == h.id && h.clock.running[i].fn != nil {
			return true
		}
	}
	return false
}

// frameLoop is a self-rescheduling callback chain. The loop is the only owner
// of its continuation handle; stop cancels it synchronously.
type frameLoop struct {
	clock   *FrameClock
	handle  FrameHandle
	body    func(dt float64)
	running bool
}

func (l *frameLoop) start(clock *FrameClock, body func(dt float64)) {
	l.stop()
	l.clock = clock
	l.body = body
	l.running = true
	l.handle = clock.Request(l.frame)
}

func (l *frameLoop) frame(dt float64) {
	if !l.running {
		return
	}
	l.body(dt)
	// body may have stopped the loop.
	if l.running {
		l.handle = l.clock.Request(l.frame)
	}
}

func (l *frameLoop) stop() {
	if !l.running {
		return
	}
	l.running = false
	l.handle.Cancel()
	l.handle = FrameHandle{}
}
