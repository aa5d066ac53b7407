package verdant

import (
	"errors"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Animator is anything the stage advances once per tick until it reports
// itself finished: tweens, counters, charts.
type Animator interface {
	Update(dt float32)
	Finished() bool
}

// stageField is a particle field plus the offscreen image it renders into.
// A nil anchor pins the field to the screen; otherwise it is drawn over the
// anchor's box and scrolls with it.
type stageField struct {
	field  *ParticleField
	img    *ebiten.Image
	anchor *Element
	hook   uint32
}

// Stage is the top-level object. It implements ebiten.Game: each tick it
// reads input, moves the scroll offset, drives the choreographer and
// animations, and ticks the frame clock that advances particle fields.
type Stage struct {
	// ClearColor fills the screen before anything is drawn.
	ClearColor Color
	// ScreenshotDir is the directory Screenshot writes PNGs into.
	ScreenshotDir string

	width, height int

	clock    *FrameClock
	choreo   *Choreographer
	pointer  *PointerTracker
	scroller *Scroller
	cursor   *Cursor
	root     *Element
	rng      RandSource

	fields     []*stageField
	animators  []Animator
	updateFunc func() error
	fps        *fpsWidget
	flow       bool
	closed     bool

	debug      bool
	frameTimes frameTimes
	lastUpdate time.Duration

	injectQueue     []syntheticEvent
	testRunner      *TestRunner
	screenshotQueue []string
}

// NewStage creates a stage with a width×height viewport and an empty root.
func NewStage(width, height int, opts ...ChoreoOption) *Stage {
	s := &Stage{
		ClearColor:    Color{A: 1},
		ScreenshotDir: "screenshots",
		width:         width,
		height:        height,
		clock:         NewFrameClock(),
		pointer:       NewPointerTracker(),
		cursor:        NewCursor(),
		root:          NewElement("root"),
		rng:           defaultRand(),
	}
	s.root.Color = Color{}
	s.choreo = NewChoreographer(s.Viewport(), opts...)
	s.scroller = NewScroller(s.choreo.OnScroll)
	s.scroller.SetExtent(0, float64(height))
	return s
}

// NewStageFromConfig creates a stage sized, colored and tuned by cfg.
func NewStageFromConfig(cfg *Config) (*Stage, error) {
	s := NewStage(cfg.Viewport.Width, cfg.Viewport.Height, cfg.Choreo()...)
	if cfg.Viewport.Background != "" {
		bg, err := ParseColor(cfg.Viewport.Background)
		if err != nil {
			return nil, err
		}
		s.ClearColor = bg
	}
	s.scroller.WheelStep = cfg.Scroll.WheelStep
	s.scroller.KeyStep = cfg.Scroll.KeyStep
	s.SetDebugMode(cfg.Debug)
	return s, nil
}

// Root returns the root element. Its children are positioned in document
// space.
func (s *Stage) Root() *Element { return s.root }

// Clock returns the frame clock ticked once per Update.
func (s *Stage) Clock() *FrameClock { return s.clock }

// Choreographer returns the scroll choreography engine.
func (s *Stage) Choreographer() *Choreographer { return s.choreo }

// Pointer returns the pointer tracker.
func (s *Stage) Pointer() *PointerTracker { return s.pointer }

// Scroller returns the page scroller.
func (s *Stage) Scroller() *Scroller { return s.scroller }

// Cursor returns the custom cursor.
func (s *Stage) Cursor() *Cursor { return s.cursor }

// Viewport returns the current viewport size.
func (s *Stage) Viewport() Vec2 {
	return Vec2{float64(s.width), float64(s.height)}
}

// Offset returns the current scroll offset.
func (s *Stage) Offset() float64 {
	return s.scroller.Offset()
}

// SetRand replaces the random source used by fields added afterwards.
func (s *Stage) SetRand(rng RandSource) {
	s.rng = rng
}

// SetFlow turns flow layout on or off. With flow on, Relayout stacks the
// root's children top to bottom.
func (s *Stage) SetFlow(on bool) {
	s.flow = on
}

// SetUpdateFunc sets a callback run at the end of every Update. A non-nil
// error stops the game loop.
func (s *Stage) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetDebugMode enables per-frame timing logs and misuse warnings on stderr.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// Register binds el to the scroll position and re-lays out the page, since a
// new pinned section changes the document height.
func (s *Stage) Register(el *Element, kind Kind, opts RegisterOptions) *Registration {
	r := s.choreo.Register(el, kind, opts)
	if kind == KindPinPan {
		s.Relayout()
	}
	return r
}

// Relayout recomputes trigger bounds and the scroll extent after the element
// tree changed. With flow layout on, the root's non-fixed children are first
// stacked, each taking its height plus any pin spacing.
func (s *Stage) Relayout() {
	bottom := 0.0
	if s.flow {
		y := 0.0
		for _, c := range s.root.children {
			if c.Fixed {
				continue
			}
			c.Top = y
			y += c.Height + s.choreo.PinSpacing(c)
		}
		bottom = y
	} else {
		for _, c := range s.root.children {
			if !c.Fixed {
				bottom = math.Max(bottom, c.Top+c.Height+s.choreo.PinSpacing(c))
			}
		}
	}
	s.choreo.Reflow()
	s.scroller.SetExtent(bottom, float64(s.height))
}

// Resize changes the viewport. Screen-fixed particle fields get new surfaces;
// trigger bounds and layout are recomputed.
func (s *Stage) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.choreo.Resize(s.Viewport())
	for _, sf := range s.fields {
		if sf.anchor == nil {
			s.resizeField(sf, float64(width), float64(height))
		}
	}
	s.Relayout()
}

// AddField creates a particle field and starts its frame loop. With a nil
// anchor the field covers the viewport and stays fixed while the page
// scrolls; otherwise it covers the anchor's box and is removed when the
// anchor is disposed. It returns ErrNoSurface when the area is empty.
func (s *Stage) AddField(cfg FieldConfig, anchor *Element) (*ParticleField, error) {
	if s.closed {
		return nil, ErrNoSurface
	}
	w, h := float64(s.width), float64(s.height)
	var ptr PointerSource = s.pointer
	if anchor != nil {
		w, h = anchor.Width, anchor.Height
		ptr = &anchoredPointer{stage: s, el: anchor}
	}
	img, surf, err := newFieldSurface(w, h)
	if err != nil {
		return nil, err
	}
	f := NewParticleField(w, h, cfg, s.rng)
	f.Bind(surf)
	if err := f.Start(s.clock, ptr); err != nil {
		img.Deallocate()
		return nil, err
	}
	sf := &stageField{field: f, img: img, anchor: anchor}
	if anchor != nil {
		sf.hook = anchor.onDispose(func() { s.RemoveField(f) })
	}
	s.fields = append(s.fields, sf)
	return f, nil
}

// RemoveField tears the field down and releases its image.
func (s *Stage) RemoveField(f *ParticleField) {
	for i, sf := range s.fields {
		if sf.field != f {
			continue
		}
		f.Teardown()
		sf.img.Deallocate()
		if sf.anchor != nil {
			sf.anchor.removeDisposeHook(sf.hook)
		}
		copy(s.fields[i:], s.fields[i+1:])
		s.fields[len(s.fields)-1] = nil
		s.fields = s.fields[:len(s.fields)-1]
		return
	}
}

// Fields returns the live particle fields in draw order.
func (s *Stage) Fields() []*ParticleField {
	out := make([]*ParticleField, len(s.fields))
	for i, sf := range s.fields {
		out[i] = sf.field
	}
	return out
}

// Animate advances a each tick until it reports itself finished.
func (s *Stage) Animate(a Animator) {
	s.animators = append(s.animators, a)
}

// Close tears down every field and disposes the element tree, which
// unregisters all choreography. The next Update ends the game loop. Calling
// Close again is a no-op.
func (s *Stage) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for len(s.fields) > 0 {
		s.RemoveField(s.fields[len(s.fields)-1].field)
	}
	s.root.Dispose()
	s.animators = nil
	s.injectQueue = nil
}

// Closed reports whether Close has run.
func (s *Stage) Closed() bool {
	return s.closed
}

// Update implements ebiten.Game.
func (s *Stage) Update() error {
	if s.closed {
		return ebiten.Termination
	}
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	if !s.processInjectedInput() {
		s.pointer.poll()
		s.scroller.pollInput(s.pointer.TakeDragDelta())
	}
	err := s.advance(float32(1.0 / float64(ebiten.TPS())))

	if s.debug {
		s.lastUpdate = time.Since(t0)
	}
	return err
}

// advance runs one tick after input has been applied.
func (s *Stage) advance(dt float32) error {
	s.scroller.update(dt)
	s.choreo.Update(dt)

	live := s.animators[:0]
	for _, a := range s.animators {
		a.Update(dt)
		if !a.Finished() {
			live = append(live, a)
		}
	}
	clear(s.animators[len(live):])
	s.animators = live

	ptr, known := s.pointer.Pointer()
	s.cursor.update(dt, ptr, known, known && s.hoverAt(ptr), s.choreo.Narrow())

	s.clock.Tick(float64(dt))
	if s.fps != nil {
		s.fps.update(dt)
	}
	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

// Draw implements ebiten.Game.
func (s *Stage) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	screen.Fill(s.ClearColor.toRGBA())
	for _, sf := range s.fields {
		if sf.anchor == nil {
			drawFieldImage(screen, sf.img, 0, 0, 1)
		}
	}
	s.drawElement(screen, s.root)
	s.cursor.draw(screen)
	if s.fps != nil {
		s.fps.draw(screen)
	}

	if s.debug {
		stats := debugStats{
			updateTime: s.lastUpdate,
			drawTime:   time.Since(t0),
			fieldCount: len(s.fields),
			regCount:   s.choreo.Len(),
			offset:     s.Offset(),
		}
		for _, sf := range s.fields {
			stats.particleCount += sf.field.Len()
		}
		s.debugLog(stats)
	}
	s.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The viewport follows the window size.
func (s *Stage) Layout(outsideWidth, outsideHeight int) (int, int) {
	s.Resize(outsideWidth, outsideHeight)
	return s.width, s.height
}

func (s *Stage) drawElement(screen *ebiten.Image, e *Element) {
	if !e.Visible {
		return
	}
	alpha := e.WorldAlpha()
	if alpha <= 0 {
		return
	}
	r := e.ScreenRect(s.Offset())
	if r.Intersects(Rect{Width: float64(s.width), Height: float64(s.height)}) {
		s.drawBox(screen, e, r, alpha)
		for _, sf := range s.fields {
			if sf.anchor == e {
				drawFieldImage(screen, sf.img, r.X, r.Y, alpha)
			}
		}
		if e.Text != "" && alpha >= 0.5 {
			ebitenutil.DebugPrintAt(screen, e.Text, int(r.X)+4, int(r.Y)+4)
		}
	}
	for _, c := range e.children {
		s.drawElement(screen, c)
	}
}

func (s *Stage) drawBox(screen *ebiten.Image, e *Element, r Rect, alpha float64) {
	if e.Color.A <= 0 || r.Width <= 0 || r.Height <= 0 {
		return
	}
	a := e.Color.A * alpha
	if !e.Bar {
		vector.FillRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height),
			e.Color.WithAlpha(a).toRGBA(), false)
		return
	}
	vector.FillRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height),
		e.Color.WithAlpha(a*0.2).toRGBA(), false)
	if fill := clamp01(e.Fill); fill > 0 {
		vector.FillRect(screen, float32(r.X), float32(r.Y), float32(r.Width*fill), float32(r.Height),
			e.Color.WithAlpha(a).toRGBA(), false)
	}
}

// hoverAt reports whether p is over a visible interactive element.
func (s *Stage) hoverAt(p Vec2) bool {
	return s.hitInteractive(s.root, p)
}

func (s *Stage) hitInteractive(e *Element, p Vec2) bool {
	if !e.Visible {
		return false
	}
	if e.Interactive && e.WorldAlpha() > 0 && e.ScreenRect(s.Offset()).Contains(p.X, p.Y) {
		return true
	}
	for _, c := range e.children {
		if s.hitInteractive(c, p) {
			return true
		}
	}
	return false
}

func (s *Stage) resizeField(sf *stageField, w, h float64) {
	img, surf, err := newFieldSurface(w, h)
	sf.field.Resize(w, h)
	if err != nil {
		// Nothing to draw into; keep simulating against the new bounds.
		debugWarnf("field surface unavailable at %vx%v", w, h)
		sf.field.Bind(nil)
		return
	}
	sf.img.Deallocate()
	sf.img = img
	sf.field.Bind(surf)
}

func newFieldSurface(w, h float64) (*ebiten.Image, Surface, error) {
	iw, ih := int(math.Ceil(w)), int(math.Ceil(h))
	if iw <= 0 || ih <= 0 {
		return nil, nil, ErrNoSurface
	}
	img := ebiten.NewImage(iw, ih)
	surf, err := NewImageSurface(img)
	if err != nil {
		img.Deallocate()
		return nil, nil, err
	}
	return img, surf, nil
}

func drawFieldImage(screen, img *ebiten.Image, x, y, alpha float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(img, op)
}

// anchoredPointer reports the pointer relative to an element's box, and only
// while the pointer is inside it.
type anchoredPointer struct {
	stage *Stage
	el    *Element
}

func (a *anchoredPointer) Pointer() (Vec2, bool) {
	p, ok := a.stage.pointer.Pointer()
	if !ok {
		return Vec2{}, false
	}
	r := a.el.ScreenRect(a.stage.Offset())
	if !r.Contains(p.X, p.Y) {
		return Vec2{}, false
	}
	return Vec2{p.X - r.X, p.Y - r.Y}, true
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	ShowFPS   bool
	Resizable bool
	// HideSystemCursor hides the OS cursor so only the stage's Cursor shows.
	HideSystemCursor bool
}

// Run opens a window and runs the stage until the window closes, Close is
// called or the update callback returns an error. The stage is closed on
// return.
func Run(s *Stage, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.HideSystemCursor {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
	s.SetShowFPS(cfg.ShowFPS)

	err := ebiten.RunGame(s)
	s.Close()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
