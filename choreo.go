package verdant

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Kind selects how a registration turns section progress into a transform.
type Kind uint8

const (
	KindPinPan     Kind = iota // pin the section and pan it horizontally
	KindParallax               // pan a layer by a fraction of its anchor's width
	KindProgress               // fill an indicator to p
	KindFadeReveal             // one-shot fade in when the element nears the viewport
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPinPan:
		return "pin"
	case KindParallax:
		return "parallax"
	case KindProgress:
		return "progress"
	case KindFadeReveal:
		return "fade-reveal"
	default:
		return "unknown"
	}
}

const (
	defaultNarrowBreakpoint = 768.0
	defaultRevealThreshold  = 0.8
	defaultRevealDuration   = 0.8
)

// RegisterOptions carries the kind-specific parameters of Register.
type RegisterOptions struct {
	// Anchor is the pinned section a parallax layer or progress indicator
	// follows. Parallax falls back to the nearest pinned ancestor.
	Anchor *Element
	// Depth is the parallax depth factor, clamped to [0, 1].
	Depth float64
	// Target is the element whose position triggers a fade-reveal. Defaults
	// to the registered element.
	Target *Element
	// Duration is the length of the progress fill or fade animation in
	// seconds. Zero applies progress immediately and fades over 0.8 s.
	Duration float32
	// Scrub smooths a pinned section's progress over this many seconds.
	Scrub float32
	// OnReveal runs once when a fade-reveal triggers.
	OnReveal func()
}

// Registration binds one element to the scroll position. It lives until
// Unregister is called or its element is disposed.
type Registration struct {
	id    uint32
	kind  Kind
	el    *Element
	owner *Choreographer

	anchor  *Element // parallax/progress: requested anchor (nil = search ancestors)
	sec     *section
	trigger *Element // fade-reveal trigger

	depth    float64
	duration float32
	onReveal func()

	active   bool
	revealed bool
	tween    *Tween

	hooks [2]struct {
		el *Element
		id uint32
	}
	done bool
}

// Kind returns the registration kind.
func (r *Registration) Kind() Kind {
	return r.kind
}

// Element returns the registered element.
func (r *Registration) Element() *Element {
	return r.el
}

// Active reports whether the registration has the geometry it needs and is
// applying transforms.
func (r *Registration) Active() bool {
	return r.active && !r.done
}

// Progress returns the p the registration last applied. Fade-reveal reports 1
// once revealed and 0 before.
func (r *Registration) Progress() float64 {
	if r.kind == KindFadeReveal {
		if r.revealed {
			return 1
		}
		return 0
	}
	if r.sec == nil {
		return 0
	}
	return r.sec.p
}

// Revealed reports whether a fade-reveal registration has triggered.
func (r *Registration) Revealed() bool {
	return r.revealed
}

// Unregister detaches the registration and cancels any animation in flight.
// Calling it more than once is a no-op.
func (r *Registration) Unregister() {
	if r.owner != nil {
		r.owner.Unregister(r)
	}
}

// ChoreoOption configures a Choreographer.
type ChoreoOption func(*Choreographer)

// WithNarrowBreakpoint sets the viewport width at or below which pinning and
// parallax are disabled.
func WithNarrowBreakpoint(px float64) ChoreoOption {
	return func(c *Choreographer) { c.breakpoint = px }
}

// WithRevealThreshold sets the fraction of the viewport height an element's
// top must cross to be revealed.
func WithRevealThreshold(f float64) ChoreoOption {
	return func(c *Choreographer) { c.threshold = clamp01(f) }
}

// WithEventSink forwards pin and reveal events to sink.
func WithEventSink(sink EventSink) ChoreoOption {
	return func(c *Choreographer) { c.sink = sink }
}

// Choreographer maps the page scroll offset onto element transforms.
//
// Each pinned section computes its progress p once per scroll event; every
// registration anchored to it then applies that same value, so pin, parallax
// and progress never disagree.
type Choreographer struct {
	viewport   Vec2
	breakpoint float64
	threshold  float64
	narrow     bool
	offset     float64

	sections []*section
	regs     []*Registration
	nextID   uint32
	sink     EventSink

	// passes counts loops over regs or sections in progress. Callbacks run
	// inside those loops may unregister; removal waits until passes is 0.
	passes int
	stale  bool
}

// NewChoreographer creates an engine for the given viewport size.
func NewChoreographer(viewport Vec2, opts ...ChoreoOption) *Choreographer {
	c := &Choreographer{
		viewport:   viewport,
		breakpoint: defaultNarrowBreakpoint,
		threshold:  defaultRevealThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.narrow = c.viewport.X <= c.breakpoint
	return c
}

// SetEventSink replaces the event sink. nil disables events.
func (c *Choreographer) SetEventSink(sink EventSink) {
	c.sink = sink
}

// Viewport returns the current viewport size.
func (c *Choreographer) Viewport() Vec2 {
	return c.viewport
}

// Offset returns the last scroll offset passed to OnScroll.
func (c *Choreographer) Offset() float64 {
	return c.offset
}

// Narrow reports whether pinning and parallax are currently disabled.
func (c *Choreographer) Narrow() bool {
	return c.narrow
}

// Len returns the number of live registrations.
func (c *Choreographer) Len() int {
	n := 0
	for _, r := range c.regs {
		if !r.done {
			n++
		}
	}
	return n
}

// Register binds el to the scroll position. Trigger bounds are computed from
// the current layout; an element without geometry stays inactive until a
// later Resize or Reflow finds some.
func (c *Choreographer) Register(el *Element, kind Kind, opts RegisterOptions) *Registration {
	c.nextID++
	r := &Registration{
		id:       c.nextID,
		kind:     kind,
		el:       el,
		owner:    c,
		anchor:   opts.Anchor,
		depth:    clamp01(opts.Depth),
		duration: opts.Duration,
		onReveal: opts.OnReveal,
	}
	if el == nil || el.IsDisposed() {
		debugWarnf("register %s on a nil or disposed element", kind)
		r.done = true
		return r
	}

	switch kind {
	case KindPinPan:
		s := c.sectionFor(el)
		s.pins++
		s.pinned = true
		s.scrub = opts.Scrub
		r.sec = s
	case KindFadeReveal:
		r.trigger = opts.Target
		if r.trigger == nil {
			r.trigger = el
		}
		if r.duration <= 0 {
			r.duration = defaultRevealDuration
		}
		el.Alpha = 0
	}

	r.hook(0, el)
	if r.anchor != nil && r.anchor != el {
		r.hook(1, r.anchor)
	} else if r.trigger != nil && r.trigger != el {
		r.hook(1, r.trigger)
	}

	c.regs = append(c.regs, r)
	c.measure(r)
	if s := r.sec; s != nil && s.active {
		s.seek(c.offset)
		s.snap()
		c.transition(s, s.stateAt(c.offset))
	}
	c.apply(r)
	return r
}

// hook unregisters r when el is disposed.
func (r *Registration) hook(slot int, el *Element) {
	r.hooks[slot].el = el
	r.hooks[slot].id = el.onDispose(r.Unregister)
}

// sectionFor returns the section state for el, creating it if needed.
func (c *Choreographer) sectionFor(el *Element) *section {
	for _, s := range c.sections {
		if s.el == el && !s.dropped {
			s.refs++
			return s
		}
	}
	s := &section{el: el, refs: 1}
	s.measure(c.viewport)
	c.sections = append(c.sections, s)
	return s
}

// pinnedAncestor finds the nearest ancestor of el registered as a pin section.
func (c *Choreographer) pinnedAncestor(el *Element) *Element {
	for n := el.Parent; n != nil; n = n.Parent {
		for _, s := range c.sections {
			if s.el == n && s.pinned && !s.dropped {
				return n
			}
		}
	}
	return nil
}

// measure resolves anchors and decides whether r has the geometry it needs.
func (c *Choreographer) measure(r *Registration) {
	switch r.kind {
	case KindPinPan:
		r.active = r.sec.active
	case KindParallax, KindProgress:
		if r.sec == nil {
			anchor := r.anchor
			if anchor == nil {
				anchor = c.pinnedAncestor(r.el)
			}
			if anchor == nil {
				if r.kind == KindParallax {
					debugWarnf("parallax layer %q has no pinned ancestor", r.el.Name)
				}
				r.active = false
				return
			}
			if anchor != r.anchor {
				r.anchor = anchor
				r.hook(1, anchor)
			}
			r.sec = c.sectionFor(anchor)
		}
		r.active = r.sec.active
	case KindFadeReveal:
		r.active = r.trigger.HasGeometry()
	}
}

// OnScroll moves the page to offset and applies every registration
// synchronously. Section progress is computed first, once per section.
func (c *Choreographer) OnScroll(offset float64) {
	c.begin()
	defer c.end()

	c.offset = offset
	for _, s := range c.sections {
		if !s.active || s.dropped {
			continue
		}
		s.seek(offset)
		c.transition(s, s.stateAt(offset))
	}
	for _, r := range c.regs {
		c.apply(r)
	}
}

// Update advances scrub smoothing and in-flight animations by dt seconds.
func (c *Choreographer) Update(dt float32) {
	c.begin()
	defer c.end()

	for _, s := range c.sections {
		if s.dropped || !s.step(dt) {
			continue
		}
		for _, r := range c.regs {
			if r.sec == s && r.kind != KindFadeReveal {
				c.apply(r)
			}
		}
	}
	for _, r := range c.regs {
		tw := r.tween
		if tw == nil || r.done {
			continue
		}
		tw.Update(dt)
		// OnComplete may have unregistered r or started a new tween.
		if tw.Done && r.tween == tw {
			r.tween = nil
		}
	}
}

// Resize records a new viewport size and recomputes every trigger bound.
func (c *Choreographer) Resize(viewport Vec2) {
	c.viewport = viewport
	wasNarrow := c.narrow
	c.narrow = viewport.X <= c.breakpoint
	if c.narrow && !wasNarrow {
		for _, r := range c.regs {
			if !r.done && (r.kind == KindPinPan || r.kind == KindParallax) {
				r.el.TranslateX, r.el.TranslateY = 0, 0
			}
		}
	}
	c.Reflow()
}

// Reflow recomputes geometry after the document layout changed and re-applies
// the current offset.
func (c *Choreographer) Reflow() {
	c.begin()
	defer c.end()

	for _, s := range c.sections {
		s.measure(c.viewport)
	}
	for _, r := range c.regs {
		if !r.done {
			c.measure(r)
		}
	}
	for _, s := range c.sections {
		if s.active && !s.dropped {
			s.seek(c.offset)
			s.snap()
			c.transition(s, s.stateAt(c.offset))
		}
	}
	for _, r := range c.regs {
		c.apply(r)
	}
}

// transition runs the pin state machine and emits enter/leave events.
func (c *Choreographer) transition(s *section, next PinState) {
	prev := s.state
	if prev == next {
		return
	}
	s.state = next
	if !s.pinned || c.narrow {
		return
	}
	switch {
	case next == PinActive:
		c.emit(EventPinEnter, s.el, next, s.target)
	case prev == PinActive:
		c.emit(EventPinLeave, s.el, next, s.target)
	}
}

// apply writes r's transform for the current section p and offset.
func (c *Choreographer) apply(r *Registration) {
	if r.done {
		return
	}
	if !r.active {
		return
	}
	switch r.kind {
	case KindPinPan:
		if c.narrow {
			r.el.TranslateX, r.el.TranslateY = 0, 0
			return
		}
		r.el.TranslateX = -r.sec.p * r.sec.travel
		r.el.TranslateY = r.sec.pinOffset(c.offset)
	case KindParallax:
		if c.narrow {
			r.el.TranslateX = 0
			return
		}
		r.el.TranslateX = -r.sec.p * r.sec.width * r.depth
	case KindProgress:
		c.applyProgress(r)
	case KindFadeReveal:
		c.applyReveal(r)
	}
}

func (c *Choreographer) applyProgress(r *Registration) {
	p := r.sec.p
	if r.duration <= 0 {
		r.el.Fill = p
		return
	}
	if r.tween != nil {
		r.tween.Cancel()
		r.tween = nil
	}
	if r.el.Fill != p {
		r.tween = TweenFill(r.el, p, r.duration, ease.OutQuad)
	}
}

func (c *Choreographer) applyReveal(r *Registration) {
	if r.revealed {
		return
	}
	top := r.trigger.DocumentRect().Y - c.offset
	if top > c.threshold*c.viewport.Y {
		return
	}
	r.revealed = true
	r.tween = TweenAlpha(r.el, 1, r.duration, ease.OutQuad)
	c.emit(EventReveal, r.el, PinBefore, 1)
	if r.onReveal != nil {
		r.onReveal()
	}
}

func (c *Choreographer) emit(t EventType, el *Element, state PinState, p float64) {
	if c.sink == nil {
		return
	}
	c.sink.EmitEvent(ChoreoEvent{
		Type:      t,
		ElementID: el.ID,
		Element:   el.Name,
		State:     state,
		Progress:  p,
		Offset:    c.offset,
	})
}

// Unregister detaches r, cancels its animation and drops its section once
// nothing references it. Calling it twice is a no-op.
func (c *Choreographer) Unregister(r *Registration) {
	if r == nil || r.done {
		return
	}
	r.done = true
	r.active = false
	if r.tween != nil {
		r.tween.Cancel()
		r.tween = nil
	}
	for i := range r.hooks {
		if h := r.hooks[i]; h.el != nil {
			h.el.removeDisposeHook(h.id)
			r.hooks[i].el = nil
		}
	}
	if s := r.sec; s != nil {
		if r.kind == KindPinPan {
			s.pins--
			if s.pins <= 0 {
				s.pinned = false
				s.scrubTween = nil
			}
		}
		s.refs--
		if s.refs <= 0 {
			s.dropped = true
		}
	}
	c.stale = true
	if c.passes == 0 {
		c.compact()
	}
}

func (c *Choreographer) begin() {
	c.passes++
}

func (c *Choreographer) end() {
	c.passes--
	if c.passes == 0 && c.stale {
		c.compact()
	}
}

// compact removes unregistered registrations and dropped sections.
func (c *Choreographer) compact() {
	c.stale = false
	regs := c.regs[:0]
	for _, r := range c.regs {
		if !r.done {
			regs = append(regs, r)
		}
	}
	clear(c.regs[len(regs):])
	c.regs = regs

	sections := c.sections[:0]
	for _, s := range c.sections {
		if !s.dropped {
			sections = append(sections, s)
		}
	}
	clear(c.sections[len(sections):])
	c.sections = sections
}

// section looks up the state of a registered section element.
func (c *Choreographer) section(el *Element) *section {
	for _, s := range c.sections {
		if s.el == el && !s.dropped {
			return s
		}
	}
	return nil
}

// Progress returns the shared p of a section, or 0 if el is not a section.
func (c *Choreographer) Progress(el *Element) float64 {
	if s := c.section(el); s != nil {
		return s.p
	}
	return 0
}

// State returns the pin state of a section.
func (c *Choreographer) State(el *Element) PinState {
	if s := c.section(el); s != nil {
		return s.state
	}
	return PinBefore
}

// PinSpacing returns the extra document height a pinned section consumes
// while it converts vertical scroll into horizontal travel. It is zero for
// unknown sections and on narrow viewports.
func (c *Choreographer) PinSpacing(el *Element) float64 {
	if c.narrow {
		return 0
	}
	s := c.section(el)
	if s == nil || !s.pinned || !el.HasGeometry() {
		return 0
	}
	// Read from the element rather than s.travel so layout can ask before
	// the next Reflow.
	return math.Max(el.ContentWidth()-c.viewport.X, 0)
}
