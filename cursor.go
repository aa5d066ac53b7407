package verdant

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

const (
	cursorFollowTime = 0.1
	cursorHoverTime  = 0.3
	cursorRing       = 40.0 // ring diameter at rest
	cursorRingHover  = 60.0 // ring diameter over an interactive element
	cursorDot        = 3.0
)

// Cursor draws a ring that trails the pointer and widens over interactive
// elements. It hides itself on narrow viewports and until the pointer is
// first seen.
type Cursor struct {
	// Pos is the ring centre; it lags the pointer.
	Pos Vec2
	// Diameter is the current ring diameter.
	Diameter float64
	Color    Color
	Hidden   bool

	target   Vec2
	dot      Vec2
	hovering bool
	follow   *Tween
	grow     *Tween
}

// NewCursor creates a hidden cursor.
func NewCursor() *Cursor {
	return &Cursor{
		Diameter: cursorRing,
		Color:    forestGreen,
		Hidden:   true,
	}
}

// Hovering reports whether the pointer is over an interactive element.
func (c *Cursor) Hovering() bool {
	return c.hovering
}

// update follows ptr and tracks hover state.
func (c *Cursor) update(dt float32, ptr Vec2, known, hover, narrow bool) {
	if narrow || !known {
		c.Hidden = true
		return
	}
	if c.Hidden {
		// First sighting: appear under the pointer.
		c.Hidden = false
		c.Pos, c.target = ptr, ptr
		c.follow = nil
	}
	c.dot = ptr
	if ptr != c.target {
		c.target = ptr
		c.follow = TweenPosition(&c.Pos, ptr, cursorFollowTime, ease.Linear)
	}
	if c.follow != nil {
		c.follow.Update(dt)
		if c.follow.Done {
			c.follow = nil
		}
	}

	if hover != c.hovering {
		c.hovering = hover
		to := cursorRing
		if hover {
			to = cursorRingHover
		}
		c.grow = TweenValue(&c.Diameter, to, cursorHoverTime, ease.OutQuad)
	}
	if c.grow != nil {
		c.grow.Update(dt)
		if c.grow.Done {
			c.grow = nil
		}
	}
}

func (c *Cursor) draw(screen *ebiten.Image) {
	if c.Hidden {
		return
	}
	col := c.Color.toRGBA()
	vector.StrokeCircle(screen, float32(c.Pos.X), float32(c.Pos.Y), float32(c.Diameter/2), 1.5, col, true)
	vector.FillCircle(screen, float32(c.dot.X), float32(c.dot.Y), cursorDot, col, true)
}
