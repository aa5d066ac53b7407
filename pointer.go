package verdant

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultDragDeadZone = 4.0 // pixels

// PointerTracker keeps the last known pointer position (mouse or first touch)
// and the vertical drag distance used for touch scrolling.
//
// The position is unknown until the pointer first moves or presses; consumers
// such as ParticleField fall back to their own default until then.
type PointerTracker struct {
	pos   Vec2
	known bool

	down     bool
	startX   float64
	startY   float64
	lastY    float64
	dragging bool
	dragDY   float64
	deadZone float64

	// mouse polling state
	mouseInit bool
	mouseLast Vec2

	// touch polling state
	touchIDs    []ebiten.TouchID
	touch       ebiten.TouchID
	touchActive bool
}

// NewPointerTracker creates a tracker with the default drag dead zone.
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{deadZone: defaultDragDeadZone}
}

// Pointer returns the last known position and whether one has been seen.
func (t *PointerTracker) Pointer() (Vec2, bool) {
	return t.pos, t.known
}

// Down reports whether a button or touch is held.
func (t *PointerTracker) Down() bool {
	return t.down
}

// Dragging reports whether the held pointer has moved past the dead zone.
func (t *PointerTracker) Dragging() bool {
	return t.dragging
}

// TakeDragDelta returns the vertical drag distance accumulated since the last
// call and resets it.
func (t *PointerTracker) TakeDragDelta() float64 {
	d := t.dragDY
	t.dragDY = 0
	return d
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (t *PointerTracker) SetDragDeadZone(pixels float64) {
	t.deadZone = pixels
}

// Move records a hover or drag position.
func (t *PointerTracker) Move(x, y float64) {
	t.pos = Vec2{x, y}
	t.known = true
	if !t.down {
		return
	}
	if !t.dragging {
		dx := x - t.startX
		dy := y - t.startY
		if math.Sqrt(dx*dx+dy*dy) > t.deadZone {
			t.dragging = true
		}
	}
	if t.dragging {
		t.dragDY += y - t.lastY
	}
	t.lastY = y
}

// Press starts a pointer interaction at (x, y).
func (t *PointerTracker) Press(x, y float64) {
	t.pos = Vec2{x, y}
	t.known = true
	if t.down {
		t.Move(x, y)
		return
	}
	t.down = true
	t.dragging = false
	t.startX, t.startY = x, y
	t.lastY = y
}

// Release ends the interaction at (x, y).
func (t *PointerTracker) Release(x, y float64) {
	if t.down {
		t.Move(x, y)
	}
	t.down = false
	t.dragging = false
}

// poll reads ebiten's mouse and touch state. Touch wins over the mouse while a
// finger is down.
func (t *PointerTracker) poll() {
	t.touchIDs = ebiten.AppendTouchIDs(t.touchIDs[:0])
	if t.pollTouch() {
		return
	}

	mx, my := ebiten.CursorPosition()
	m := Vec2{float64(mx), float64(my)}
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	moved := t.mouseInit && m != t.mouseLast
	t.mouseInit = true
	t.mouseLast = m

	switch {
	case pressed:
		t.Press(m.X, m.Y)
	case t.down:
		t.Release(m.X, m.Y)
	case moved:
		t.Move(m.X, m.Y)
	}
}

// pollTouch tracks the first active touch. It reports whether touch input
// was handled this frame.
func (t *PointerTracker) pollTouch() bool {
	if t.touchActive {
		for _, id := range t.touchIDs {
			if id == t.touch {
				x, y := ebiten.TouchPosition(id)
				t.Press(float64(x), float64(y))
				return true
			}
		}
		// Finger lifted.
		t.touchActive = false
		t.Release(t.pos.X, t.pos.Y)
		return true
	}
	if len(t.touchIDs) == 0 {
		return false
	}
	t.touch = t.touchIDs[0]
	t.touchActive = true
	x, y := ebiten.TouchPosition(t.touch)
	t.Press(float64(x), float64(y))
	return true
}
