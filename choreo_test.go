package verdant

import "testing"

// recordingSink collects choreography events.
type recordingSink struct {
	events []ChoreoEvent
}

func (s *recordingSink) EmitEvent(e ChoreoEvent) {
	s.events = append(s.events, e)
}

func (s *recordingSink) types() []EventType {
	out := make([]EventType, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}

// journeySection is a 1000-wide, 800-high section at document y=1000 with
// 3000 px of content, so it travels 2000 px.
func journeySection() *Element {
	sec := NewBox("journey", 0, 1000, 1000, 800)
	sec.ScrollWidth = 3000
	return sec
}

func wideChoreographer(opts ...ChoreoOption) *Choreographer {
	return NewChoreographer(Vec2{1000, 800}, opts...)
}

func TestPinPanProgress(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	r := c.Register(sec, KindPinPan, RegisterOptions{})
	if !r.Active() {
		t.Fatal("registration with geometry should be active")
	}

	c.OnScroll(1500)

	assertNear(t, "Progress", c.Progress(sec), 0.25)
	assertNear(t, "TranslateX", sec.TranslateX, -500)
	assertNear(t, "TranslateY", sec.TranslateY, 500)
	if got := c.State(sec); got != PinActive {
		t.Errorf("State = %v, want active", got)
	}
}

func TestPinPanBounds(t *testing.T) {
	tests := []struct {
		offset float64
		state  PinState
		p      float64
		tx, ty float64
	}{
		{0, PinBefore, 0, 0, 0},
		{999, PinBefore, 0, 0, 0},
		{1000, PinActive, 0, 0, 0},
		{2000, PinActive, 0.5, -1000, 1000},
		{3000, PinActive, 1, -2000, 2000},
		{3001, PinAfter, 1, -2000, 2000},
		{9000, PinAfter, 1, -2000, 2000},
	}
	for _, tt := range tests {
		c := wideChoreographer()
		sec := journeySection()
		c.Register(sec, KindPinPan, RegisterOptions{})
		c.OnScroll(tt.offset)
		if got := c.State(sec); got != tt.state {
			t.Errorf("offset %v: State = %v, want %v", tt.offset, got, tt.state)
		}
		assertNear(t, "Progress", c.Progress(sec), tt.p)
		assertNear(t, "TranslateX", sec.TranslateX, tt.tx)
		assertNear(t, "TranslateY", sec.TranslateY, tt.ty)
	}
}

func TestProgressMonotonic(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	c.Register(sec, KindPinPan, RegisterOptions{})
	prev := -1.0
	for off := 0.0; off <= 4000; off += 37 {
		c.OnScroll(off)
		p := c.Progress(sec)
		if p < 0 || p > 1 {
			t.Fatalf("offset %v: p = %v, outside [0, 1]", off, p)
		}
		if p < prev {
			t.Fatalf("offset %v: p = %v decreased from %v", off, p, prev)
		}
		prev = p
	}
}

func TestSharedProgress(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	layer := NewBox("far", 0, 600, 4000, 200)
	sec.AddChild(layer)
	bar := NewBox("progress", 0, 0, 1000, 4)

	c.Register(sec, KindPinPan, RegisterOptions{})
	pr := c.Register(layer, KindParallax, RegisterOptions{Depth: 0.5})
	br := c.Register(bar, KindProgress, RegisterOptions{Anchor: sec})
	if !pr.Active() || !br.Active() {
		t.Fatal("parallax and progress should resolve the pinned section")
	}

	c.OnScroll(2000)

	assertNear(t, "pin TranslateX", sec.TranslateX, -1000)
	assertNear(t, "parallax TranslateX", layer.TranslateX, -0.5*3000*0.5)
	assertNear(t, "progress Fill", bar.Fill, 0.5)
	for _, r := range []*Registration{pr, br} {
		assertNear(t, r.Kind().String()+" Progress", r.Progress(), c.Progress(sec))
	}
}

func TestParallaxWithoutPinnedAncestor(t *testing.T) {
	c := wideChoreographer()
	layer := NewBox("lonely", 0, 0, 2000, 100)
	r := c.Register(layer, KindParallax, RegisterOptions{Depth: 0.5})
	c.OnScroll(500)
	if r.Active() {
		t.Error("parallax without a section should stay inactive")
	}
	if layer.TranslateX != 0 {
		t.Errorf("TranslateX = %v, want 0", layer.TranslateX)
	}
}

func TestParallaxDepthClamped(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	layer := NewBox("near", 0, 0, 3000, 100)
	sec.AddChild(layer)
	c.Register(sec, KindPinPan, RegisterOptions{})
	c.Register(layer, KindParallax, RegisterOptions{Depth: 3})

	c.OnScroll(3000)

	assertNear(t, "TranslateX", layer.TranslateX, -3000)
}

func TestProgressDuration(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	bar := NewBox("progress", 0, 0, 1000, 4)
	c.Register(sec, KindPinPan, RegisterOptions{})
	c.Register(bar, KindProgress, RegisterOptions{Anchor: sec, Duration: 0.3})

	c.OnScroll(2000)
	if bar.Fill != 0 {
		t.Errorf("Fill = %v immediately, want 0 while animating", bar.Fill)
	}
	c.Update(0.15)
	if bar.Fill <= 0 || bar.Fill >= 0.5 {
		t.Errorf("Fill = %v halfway, want in (0, 0.5)", bar.Fill)
	}
	c.Update(0.15)
	assertClose(t, "Fill", bar.Fill, 0.5, 1e-6)
}

func TestScrubSmoothsProgress(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	c.Register(sec, KindPinPan, RegisterOptions{Scrub: 0.25})

	c.OnScroll(2000)
	assertNear(t, "Progress before Update", c.Progress(sec), 0)

	c.Update(0.1)
	p := c.Progress(sec)
	if p <= 0 || p >= 0.5 {
		t.Errorf("Progress mid-scrub = %v, want in (0, 0.5)", p)
	}
	assertNear(t, "TranslateX mid-scrub", sec.TranslateX, -p*2000)

	c.Update(0.2)
	assertNear(t, "Progress after scrub", c.Progress(sec), 0.5)
}

func TestFadeRevealOnce(t *testing.T) {
	c := wideChoreographer()
	el := NewBox("card", 0, 2000, 100, 100)
	reveals := 0
	r := c.Register(el, KindFadeReveal, RegisterOptions{OnReveal: func() { reveals++ }})
	if el.Alpha != 0 {
		t.Fatalf("Alpha = %v after Register, want 0", el.Alpha)
	}

	// Top at 1000 px into an 800 px viewport: not yet.
	c.OnScroll(1000)
	if r.Revealed() {
		t.Fatal("revealed before crossing 80% of the viewport")
	}

	// Top at 600 px, above the 640 px line.
	c.OnScroll(1400)
	if !r.Revealed() || reveals != 1 {
		t.Fatalf("Revealed = %v, reveals = %d; want true, 1", r.Revealed(), reveals)
	}
	c.Update(0.8)
	assertClose(t, "Alpha", el.Alpha, 1, 1e-6)

	c.OnScroll(0)
	c.OnScroll(1400)
	if reveals != 1 {
		t.Errorf("reveals = %d after scrolling back, want 1", reveals)
	}
	assertClose(t, "Alpha after scrolling back", el.Alpha, 1, 1e-6)
}

func TestFadeRevealTarget(t *testing.T) {
	c := wideChoreographer()
	panel := NewBox("panel", 0, 3000, 1000, 800)
	card := NewBox("card", 0, 0, 100, 100)
	r := c.Register(card, KindFadeReveal, RegisterOptions{Target: panel})

	c.OnScroll(100) // card's own top is on screen; the panel's is not
	if r.Revealed() {
		t.Error("revealed by the element instead of its target")
	}
	c.OnScroll(2400)
	if !r.Revealed() {
		t.Error("not revealed once the target crossed the threshold")
	}
}

func TestPinEvents(t *testing.T) {
	sink := &recordingSink{}
	c := wideChoreographer(WithEventSink(sink))
	sec := journeySection()
	c.Register(sec, KindPinPan, RegisterOptions{})

	c.OnScroll(500)  // before
	c.OnScroll(1500) // enter
	c.OnScroll(2500) // still active
	c.OnScroll(4000) // leave past the end
	c.OnScroll(2000) // enter again
	c.OnScroll(0)    // leave above the start

	want := []EventType{EventPinEnter, EventPinLeave, EventPinEnter, EventPinLeave}
	got := sink.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
	if e := sink.events[1]; e.State != PinAfter || e.Element != "journey" || e.Offset != 4000 {
		t.Errorf("leave event = %+v", e)
	}
	if e := sink.events[3]; e.State != PinBefore {
		t.Errorf("second leave state = %v, want before", e.State)
	}
}

func TestRevealEvent(t *testing.T) {
	sink := &recordingSink{}
	c := wideChoreographer(WithEventSink(sink))
	el := NewBox("chart", 0, 500, 100, 100)
	c.Register(el, KindFadeReveal, RegisterOptions{})
	if len(sink.events) != 1 || sink.events[0].Type != EventReveal {
		t.Fatalf("events = %v, want one reveal", sink.types())
	}
	if sink.events[0].ElementID != el.ID {
		t.Errorf("ElementID = %d, want %d", sink.events[0].ElementID, el.ID)
	}
}

func TestNarrowViewport(t *testing.T) {
	sink := &recordingSink{}
	c := NewChoreographer(Vec2{700, 800}, WithEventSink(sink))
	if !c.Narrow() {
		t.Fatal("700 px viewport should be narrow")
	}
	sec := NewBox("journey", 0, 1000, 700, 800)
	sec.ScrollWidth = 2100
	layer := NewBox("far", 0, 0, 2100, 100)
	sec.AddChild(layer)
	bar := NewBox("progress", 0, 0, 700, 4)
	card := NewBox("card", 0, 1500, 100, 100)

	c.Register(sec, KindPinPan, RegisterOptions{})
	c.Register(layer, KindParallax, RegisterOptions{Depth: 0.5})
	c.Register(bar, KindProgress, RegisterOptions{Anchor: sec})
	fade := c.Register(card, KindFadeReveal, RegisterOptions{})

	c.OnScroll(1700)

	if sec.TranslateX != 0 || sec.TranslateY != 0 {
		t.Errorf("pin translate = (%v, %v), want (0, 0) on narrow", sec.TranslateX, sec.TranslateY)
	}
	if layer.TranslateX != 0 {
		t.Errorf("parallax TranslateX = %v, want 0 on narrow", layer.TranslateX)
	}
	assertNear(t, "progress Fill", bar.Fill, 0.5)
	if !fade.Revealed() {
		t.Error("fade-reveal should still run on narrow viewports")
	}
	for _, e := range sink.events {
		if e.Type == EventPinEnter || e.Type == EventPinLeave {
			t.Errorf("pin event %v on narrow viewport", e.Type)
		}
	}
	if got := c.PinSpacing(sec); got != 0 {
		t.Errorf("PinSpacing = %v, want 0 on narrow", got)
	}
}

func TestResizeToNarrowResetsTransforms(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	c.Register(sec, KindPinPan, RegisterOptions{})
	c.OnScroll(2000)
	if sec.TranslateX == 0 {
		t.Fatal("expected a translated section before resizing")
	}

	c.Resize(Vec2{600, 800})

	if sec.TranslateX != 0 || sec.TranslateY != 0 {
		t.Errorf("translate = (%v, %v) after going narrow, want (0, 0)", sec.TranslateX, sec.TranslateY)
	}

	c.Resize(Vec2{1000, 800})
	assertNear(t, "TranslateX after widening", sec.TranslateX, -1000)
}

func TestResizeRecomputesTravel(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	c.Register(sec, KindPinPan, RegisterOptions{})

	c.Resize(Vec2{2000, 800}) // travel shrinks to 1000
	c.OnScroll(1500)

	assertNear(t, "Progress", c.Progress(sec), 0.5)
	assertNear(t, "TranslateX", sec.TranslateX, -500)
}

func TestZeroTravel(t *testing.T) {
	c := wideChoreographer()
	sec := NewBox("short", 0, 1000, 1000, 800)
	bar := NewBox("progress", 0, 0, 100, 4)
	c.Register(sec, KindPinPan, RegisterOptions{})
	c.Register(bar, KindProgress, RegisterOptions{Anchor: sec})

	for _, off := range []float64{0, 1000, 5000} {
		c.OnScroll(off)
		assertNear(t, "Progress", c.Progress(sec), 1)
		assertNear(t, "Fill", bar.Fill, 1)
		assertNear(t, "TranslateX", sec.TranslateX, 0)
	}
	if got := c.PinSpacing(sec); got != 0 {
		t.Errorf("PinSpacing = %v, want 0", got)
	}
}

func TestGeometryUnavailable(t *testing.T) {
	c := wideChoreographer()
	sec := NewElement("late")
	r := c.Register(sec, KindPinPan, RegisterOptions{})
	if r.Active() {
		t.Fatal("registration without geometry should be inactive")
	}
	c.OnScroll(1500)
	if sec.TranslateX != 0 {
		t.Errorf("TranslateX = %v, want untouched 0", sec.TranslateX)
	}

	sec.Top, sec.Width, sec.Height, sec.ScrollWidth = 1000, 1000, 800, 3000
	c.Reflow()

	if !r.Active() {
		t.Fatal("registration should activate once geometry is known")
	}
	assertNear(t, "TranslateX", sec.TranslateX, -500)
}

func TestRegisterNilOrDisposed(t *testing.T) {
	c := wideChoreographer()
	if r := c.Register(nil, KindPinPan, RegisterOptions{}); r.Active() {
		t.Error("nil registration should be inactive")
	}
	el := NewBox("gone", 0, 0, 10, 10)
	el.Dispose()
	r := c.Register(el, KindFadeReveal, RegisterOptions{})
	if r.Active() {
		t.Error("registration on a disposed element should be inactive")
	}
	r.Unregister() // no-op
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	card := NewBox("card", 0, 0, 10, 10)
	r := c.Register(sec, KindPinPan, RegisterOptions{})
	c.Register(card, KindFadeReveal, RegisterOptions{})

	r.Unregister()
	r.Unregister()
	c.Unregister(r)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if r.Active() {
		t.Error("unregistered registration reports active")
	}
	c.OnScroll(2000)
	if sec.TranslateX != 0 {
		t.Errorf("TranslateX = %v after Unregister, want 0", sec.TranslateX)
	}
	if c.Progress(sec) != 0 {
		t.Error("section state should be dropped with its last registration")
	}
}

func TestUnregisterCancelsAnimation(t *testing.T) {
	c := wideChoreographer()
	el := NewBox("card", 0, 100, 10, 10)
	r := c.Register(el, KindFadeReveal, RegisterOptions{})
	c.Update(0.1)
	mid := el.Alpha

	r.Unregister()
	c.Update(1)

	if el.Alpha != mid {
		t.Errorf("Alpha = %v, want frozen at %v after Unregister", el.Alpha, mid)
	}
}

func TestDisposeUnregisters(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	layer := NewBox("far", 0, 0, 3000, 100)
	sec.AddChild(layer)
	bar := NewBox("progress", 0, 0, 1000, 4)

	c.Register(sec, KindPinPan, RegisterOptions{})
	c.Register(layer, KindParallax, RegisterOptions{Depth: 0.2})
	br := c.Register(bar, KindProgress, RegisterOptions{Anchor: sec})

	sec.Dispose()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after disposing the section, want 0", c.Len())
	}
	if br.Active() {
		t.Error("progress anchored to a disposed section should be unregistered")
	}
	c.OnScroll(2000) // must not touch disposed elements
	if bar.Fill != 0 {
		t.Errorf("Fill = %v, want 0", bar.Fill)
	}
}

func TestPinSpacing(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	if got := c.PinSpacing(sec); got != 0 {
		t.Errorf("unregistered PinSpacing = %v, want 0", got)
	}
	c.Register(sec, KindPinPan, RegisterOptions{})
	assertNear(t, "PinSpacing", c.PinSpacing(sec), 2000)
}

func TestWithRevealThreshold(t *testing.T) {
	c := wideChoreographer(WithRevealThreshold(0.5))
	el := NewBox("card", 0, 1000, 10, 10)
	r := c.Register(el, KindFadeReveal, RegisterOptions{})
	c.OnScroll(550) // top at 450, still below the 400 px line
	if r.Revealed() {
		t.Error("revealed below a 50% threshold")
	}
	c.OnScroll(600)
	if !r.Revealed() {
		t.Error("not revealed at exactly the threshold")
	}
}

func TestKindAndStateStrings(t *testing.T) {
	if KindPinPan.String() != "pin" || KindFadeReveal.String() != "fade-reveal" {
		t.Error("unexpected Kind names")
	}
	if PinActive.String() != "active" || PinState(9).String() != "unknown" {
		t.Error("unexpected PinState names")
	}
	if EventPinLeave.String() != "pin-leave" {
		t.Error("unexpected EventType name")
	}
}

func TestRevealCallbackUnregistersLaterRegistration(t *testing.T) {
	c := NewChoreographer(Vec2{1200, 800})
	a := NewBox("a", 0, 1000, 100, 100)
	b := NewBox("b", 0, 1000, 100, 100)
	d := NewBox("d", 0, 5000, 100, 100)

	var rb *Registration
	c.Register(a, KindFadeReveal, RegisterOptions{OnReveal: func() { rb.Unregister() }})
	rb = c.Register(b, KindFadeReveal, RegisterOptions{})
	rd := c.Register(d, KindFadeReveal, RegisterOptions{})

	c.OnScroll(500) // a and b both cross the 640 px line

	if rb.Revealed() {
		t.Error("registration removed earlier in the pass was still applied")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	c.OnScroll(4500)
	if !rd.Revealed() {
		t.Error("registration after the removed one stopped receiving scrolls")
	}
}

func TestRevealCallbackDisposesElement(t *testing.T) {
	c := NewChoreographer(Vec2{1200, 800})
	panel := NewBox("panel", 0, 1000, 100, 100)
	loader := NewBox("loader", 0, 1000, 100, 100)
	c.Register(panel, KindFadeReveal, RegisterOptions{OnReveal: loader.Dispose})
	rl := c.Register(loader, KindFadeReveal, RegisterOptions{})

	c.OnScroll(500)

	if rl.Revealed() || rl.Active() {
		t.Error("disposed element's registration still ran")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestTweenCompleteUnregisters(t *testing.T) {
	c := wideChoreographer()
	el := NewBox("card", 0, 100, 100, 100)
	other := NewBox("other", 0, 5000, 100, 100)
	r := c.Register(el, KindFadeReveal, RegisterOptions{})
	ro := c.Register(other, KindFadeReveal, RegisterOptions{})
	if !r.Revealed() || r.tween == nil {
		t.Fatal("card should be revealing")
	}
	r.tween.OnComplete = func() {
		r.Unregister()
		ro.Unregister()
	}

	c.Update(1)

	assertNear(t, "Alpha", el.Alpha, 1)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestSectionDroppedDuringPass(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	trigger := NewBox("trigger", 0, 2000, 10, 10)
	rp := c.Register(sec, KindPinPan, RegisterOptions{})
	c.Register(trigger, KindFadeReveal, RegisterOptions{OnReveal: rp.Unregister})

	c.OnScroll(1500)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if c.State(sec) != PinBefore || c.Progress(sec) != 0 {
		t.Error("section should be gone once its only registration was removed")
	}
	c.OnScroll(2000) // must not touch the dropped section
	c.Update(0.1)
}

func TestDuplicatePinKeepsSection(t *testing.T) {
	c := wideChoreographer()
	sec := journeySection()
	layer := NewBox("far", 0, 0, 3000, 100)
	sec.AddChild(layer)
	first := c.Register(sec, KindPinPan, RegisterOptions{})
	c.Register(sec, KindPinPan, RegisterOptions{})

	first.Unregister()

	assertNear(t, "PinSpacing", c.PinSpacing(sec), 2000)
	r := c.Register(layer, KindParallax, RegisterOptions{Depth: 1})
	if !r.Active() {
		t.Error("parallax should still find the pinned section")
	}
}
