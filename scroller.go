package verdant

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	defaultWheelStep = 100.0 // pixels per wheel notch
	defaultKeyStep   = 12.0  // pixels per tick while an arrow key is held
)

// Scroller owns the page's vertical scroll offset, clamped to [0, Max]. It
// reads wheel, keyboard and touch-drag input and reports every change to its
// listener, which is normally Choreographer.OnScroll.
type Scroller struct {
	// WheelStep is the distance scrolled per wheel notch.
	WheelStep float64
	// KeyStep is the distance scrolled per tick while an arrow key is held.
	KeyStep float64

	offset   float64
	max      float64
	viewport float64

	tween    *gween.Tween
	listener func(offset float64)
}

// NewScroller creates a scroller that calls listener with each new offset.
func NewScroller(listener func(offset float64)) *Scroller {
	return &Scroller{
		WheelStep: defaultWheelStep,
		KeyStep:   defaultKeyStep,
		listener:  listener,
	}
}

// Offset returns the current scroll offset.
func (s *Scroller) Offset() float64 {
	return s.offset
}

// Max returns the largest reachable offset.
func (s *Scroller) Max() float64 {
	return s.max
}

// SetExtent sets the document and viewport heights. The maximum offset is
// their difference; the current offset is clamped to it.
func (s *Scroller) SetExtent(documentHeight, viewportHeight float64) {
	s.viewport = viewportHeight
	s.max = math.Max(documentHeight-viewportHeight, 0)
	if s.offset > s.max {
		s.set(s.max)
	}
}

// Jump moves to offset immediately, cancelling any scroll animation.
func (s *Scroller) Jump(offset float64) {
	s.tween = nil
	s.set(offset)
}

// ScrollBy moves by delta immediately, cancelling any scroll animation.
func (s *Scroller) ScrollBy(delta float64) {
	s.Jump(s.offset + delta)
}

// ScrollTo animates to offset over duration seconds.
func (s *Scroller) ScrollTo(offset float64, duration float32, easeFn ease.TweenFunc) {
	offset = clamp(offset, 0, s.max)
	if duration <= 0 {
		s.Jump(offset)
		return
	}
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	s.tween = gween.New(float32(s.offset), float32(offset), duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is in flight.
func (s *Scroller) Scrolling() bool {
	return s.tween != nil
}

// update advances the scroll animation. Called from Stage.Update.
func (s *Scroller) update(dt float32) {
	if s.tween == nil {
		return
	}
	val, done := s.tween.Update(dt)
	if done {
		s.tween = nil
	}
	s.set(float64(val))
}

// pollInput applies wheel, keyboard and touch-drag input. dragDY is the
// vertical drag distance since the last frame; dragging down scrolls up.
func (s *Scroller) pollInput(dragDY float64) {
	delta := -dragDY

	_, wy := ebiten.Wheel()
	delta -= wy * s.WheelStep

	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		delta += s.KeyStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		delta -= s.KeyStep
	}
	page := math.Max(s.viewport*0.9, s.WheelStep)
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.ScrollTo(s.offset+page, 0.4, ease.OutQuad)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		s.ScrollTo(s.offset-page, 0.4, ease.OutQuad)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		s.ScrollTo(0, 0.6, ease.InOutQuad)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		s.ScrollTo(s.max, 0.6, ease.InOutQuad)
	}

	if delta != 0 {
		s.ScrollBy(delta)
	}
}

func (s *Scroller) set(offset float64) {
	offset = clamp(offset, 0, s.max)
	if offset == s.offset {
		return
	}
	s.offset = offset
	if s.listener != nil {
		s.listener(offset)
	}
}
