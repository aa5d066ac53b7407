package verdant

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PinState is where the scroll offset sits relative to a section's trigger
// bounds.
type PinState uint8

const (
	PinBefore PinState = iota // offset above the start bound
	PinActive                 // start <= offset <= end; vertical scroll drives p
	PinAfter                  // offset below the end bound
)

// String returns "before", "active" or "after".
func (s PinState) String() string {
	switch s {
	case PinBefore:
		return "before"
	case PinActive:
		return "active"
	case PinAfter:
		return "after"
	default:
		return "unknown"
	}
}

// section is the shared scroll state of one horizontally travelling element.
// Every registration anchored to it reads the same p.
type section struct {
	el *Element

	start  float64
	end    float64
	travel float64 // end - start; content width minus viewport width
	width  float64 // content width, used by parallax

	active bool // geometry available
	pinned bool // a pin-and-pan registration owns this section
	pins   int  // live pin-and-pan registrations
	refs   int
	// dropped sections wait for the end of the current pass to be removed.
	dropped bool

	state  PinState
	target float64 // p at the current offset
	p      float64 // p as applied; lags target while scrubbing

	scrub      float32
	scrubTween *gween.Tween
}

// measure recomputes trigger bounds from the current layout.
func (s *section) measure(viewport Vec2) {
	s.active = s.el.HasGeometry()
	if !s.active {
		return
	}
	s.width = s.el.ContentWidth()
	s.start = s.el.DocumentRect().Y
	s.travel = math.Max(s.width-viewport.X, 0)
	s.end = s.start + s.travel
}

// progressAt maps a scroll offset to p in [0, 1]. A section whose content fits
// the viewport has nothing to travel and is always fully revealed.
func (s *section) progressAt(offset float64) float64 {
	if s.travel <= 0 {
		return 1
	}
	return clamp01((offset - s.start) / s.travel)
}

// stateAt classifies offset against the trigger bounds. Bounds are inclusive.
func (s *section) stateAt(offset float64) PinState {
	switch {
	case offset < s.start:
		return PinBefore
	case offset > s.end:
		return PinAfter
	default:
		return PinActive
	}
}

// seek sets the target p for offset. Without scrub p follows immediately;
// with scrub a tween carries p to the target over the scrub duration.
func (s *section) seek(offset float64) {
	s.target = s.progressAt(offset)
	if s.scrub <= 0 {
		s.p = s.target
		s.scrubTween = nil
		return
	}
	if s.p == s.target {
		s.scrubTween = nil
		return
	}
	s.scrubTween = gween.New(float32(s.p), float32(s.target), s.scrub, ease.OutQuad)
}

// snap drops any scrub in flight and jumps p to the target.
func (s *section) snap() {
	s.scrubTween = nil
	s.p = s.target
}

// step advances the scrub tween. It reports whether p changed.
func (s *section) step(dt float32) bool {
	if s.scrubTween == nil {
		return false
	}
	val, done := s.scrubTween.Update(dt)
	prev := s.p
	s.p = float64(val)
	if done {
		s.p = s.target
		s.scrubTween = nil
	}
	return s.p != prev
}

// pinOffset is the vertical translation that holds the section at the top of
// the viewport while it is pinned.
func (s *section) pinOffset(offset float64) float64 {
	switch s.stateAt(offset) {
	case PinActive:
		return offset - s.start
	case PinAfter:
		return s.travel
	default:
		return 0
	}
}
