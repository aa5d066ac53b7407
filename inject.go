package verdant

// syntheticKind identifies an injected input event.
type syntheticKind uint8

const (
	syntheticMove syntheticKind = iota
	syntheticPress
	syntheticRelease
	syntheticScroll   // x unused, y is the scroll delta
	syntheticScrollTo // x unused, y is the target offset
)

// syntheticEvent is a single injected input event. Pointer coordinates are
// screen coordinates, identical to real mouse input.
type syntheticEvent struct {
	kind syntheticKind
	x, y float64
}

// InjectMove queues a pointer move (hover, or drag while pressed). Events
// are consumed one per frame, replacing real input for that frame.
func (s *Stage) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticMove, x: x, y: y})
}

// InjectPress queues a pointer press at the given screen coordinates.
func (s *Stage) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticPress, x: x, y: y})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Stage) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticRelease, x: x, y: y})
}

// InjectDrag queues press, frames-2 interpolated moves and release. A
// vertical drag scrolls the page the way a touch drag does. Minimum frames
// is 2.
func (s *Stage) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	s.InjectRelease(toX, toY)
}

// InjectScroll queues a scroll by delta pixels, as from the mouse wheel.
func (s *Stage) InjectScroll(delta float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticScroll, y: delta})
}

// InjectScrollTo queues a jump to an absolute scroll offset.
func (s *Stage) InjectScrollTo(offset float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticScrollTo, y: offset})
}

// processInjectedInput pops one event and applies it. It returns true if an
// event was consumed, in which case real input is skipped this frame.
func (s *Stage) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	switch evt.kind {
	case syntheticMove:
		s.pointer.Move(evt.x, evt.y)
	case syntheticPress:
		s.pointer.Press(evt.x, evt.y)
	case syntheticRelease:
		s.pointer.Release(evt.x, evt.y)
	case syntheticScroll:
		s.scroller.ScrollBy(evt.y)
	case syntheticScrollTo:
		s.scroller.Jump(evt.y)
	}
	if d := s.pointer.TakeDragDelta(); d != 0 {
		s.scroller.ScrollBy(-d)
	}
	return true
}
