package verdant

import "math"

// Particle is one ambient point. Particles are plain records stored
// contiguously in a ParticleField; the field advances and draws them in
// whole-pool passes.
type Particle struct {
	X, Y    float64 // surface-space position
	VX, VY  float64 // velocity in surface units per frame
	Size    float64 // radius
	R, G, B float64 // base color plus this particle's tint, each in [0, 1]
	Opacity float64
	Life    int // frames remaining before respawn
}

// EdgeMode selects what happens when a particle leaves the surface.
type EdgeMode uint8

const (
	EdgeRespawn EdgeMode = iota // respawn with fresh attributes (ambient field)
	EdgeWrap                    // re-enter from the opposite edge (living network)
)

// Attraction pulls nearby particles toward the pointer.
type Attraction struct {
	Enabled bool
	// Radius is the distance within which the pointer has any effect.
	Radius float64
	// Strength scales the pointer offset added to velocity each frame.
	Strength float64
}

// LinkConfig controls the proximity lines drawn between particle pairs.
type LinkConfig struct {
	Enabled  bool
	Distance float64
	Color    Color
	Width    float64
}

// FieldConfig is the per-session configuration of a ParticleField. Changing
// it requires Reinitialize.
type FieldConfig struct {
	// Count is the fixed pool size. Negative values are treated as zero.
	Count int
	// Color is the base color every particle is tinted from.
	Color Color
	// Tint is the maximum random amount added to each of R, G and B.
	Tint [3]float64
	// Size is the range of particle radii.
	Size Range
	// Speed is the range each velocity component is drawn from, per frame.
	Speed Range
	// Opacity is the range of particle opacities.
	Opacity Range
	// Lifetime is the range of lifetimes in frames. Zero means the default.
	Lifetime IntRange
	// Edge selects respawn or wrap-around at the surface bounds.
	Edge EdgeMode
	// Attraction configures the pointer pull.
	Attraction Attraction
	// Links configures proximity lines between particles.
	Links LinkConfig
}

const (
	defaultAttractionRadius   = 150.0
	defaultAttractionStrength = 0.001
	defaultLinkDistance       = 100.0
	defaultLinkWidth          = 0.5
)

var (
	// forest green, #4CAF50
	forestGreen     = Color{R: 76.0 / 255, G: 175.0 / 255, B: 80.0 / 255, A: 1}
	defaultLifetime = IntRange{50, 250}
)

// AmbientConfig returns the defaults of the plain background field.
func AmbientConfig() FieldConfig {
	return FieldConfig{
		Count:    50,
		Color:    forestGreen,
		Tint:     [3]float64{50.0 / 255, 30.0 / 255, 30.0 / 255},
		Size:     Range{1, 5},
		Speed:    Range{-1.5, 1.5},
		Opacity:  Range{0.1, 0.5},
		Lifetime: defaultLifetime,
		Edge:     EdgeRespawn,
	}
}

// NetworkConfig returns the defaults of the denser "living network" field:
// wrap-around edges, pointer attraction and proximity links.
func NetworkConfig() FieldConfig {
	return FieldConfig{
		Count:    150,
		Color:    forestGreen,
		Size:     Range{1, 6},
		Speed:    Range{-0.25, 0.25},
		Opacity:  Range{0.2, 0.7},
		Lifetime: IntRange{50, 150},
		Edge:     EdgeWrap,
		Attraction: Attraction{
			Enabled:  true,
			Radius:   defaultAttractionRadius,
			Strength: defaultAttractionStrength,
		},
		Links: LinkConfig{
			Enabled:  true,
			Distance: defaultLinkDistance,
			Color:    forestGreen.WithAlpha(0.1),
			Width:    defaultLinkWidth,
		},
	}
}

// normalized clamps invalid values instead of rejecting them.
func (c FieldConfig) normalized() FieldConfig {
	if c.Count < 0 {
		c.Count = 0
	}
	c.Size = c.Size.normalized()
	c.Size.Min = math.Max(c.Size.Min, 0)
	c.Size.Max = math.Max(c.Size.Max, 0)
	c.Speed = c.Speed.normalized()
	c.Opacity = c.Opacity.normalized().clamp(0, 1)
	for i := range c.Tint {
		c.Tint[i] = math.Max(c.Tint[i], 0)
	}
	if c.Lifetime.Max <= 0 {
		c.Lifetime = defaultLifetime
	}
	if c.Lifetime.Min > c.Lifetime.Max {
		c.Lifetime.Min, c.Lifetime.Max = c.Lifetime.Max, c.Lifetime.Min
	}
	if c.Lifetime.Min < 1 {
		c.Lifetime.Min = 1
	}
	if c.Attraction.Enabled {
		if c.Attraction.Radius <= 0 {
			c.Attraction.Radius = defaultAttractionRadius
		}
		if c.Attraction.Strength <= 0 {
			c.Attraction.Strength = defaultAttractionStrength
		}
	}
	if c.Links.Enabled {
		if c.Links.Distance <= 0 {
			c.Links.Distance = defaultLinkDistance
		}
		if c.Links.Width <= 0 {
			c.Links.Width = defaultLinkWidth
		}
		if c.Links.Color == (Color{}) {
			c.Links.Color = c.Color.WithAlpha(0.1)
		}
	}
	return c
}

// PointerSource reports the last known pointer position.
type PointerSource interface {
	Pointer() (Vec2, bool)
}

// ParticleField owns a fixed-size pool of particles on one drawing surface.
type ParticleField struct {
	config    FieldConfig
	particles []Particle
	width     float64
	height    float64
	rng       RandSource

	surface Surface
	pointer PointerSource
	loop    frameLoop
	frames  uint64
	closed  bool
}

// NewParticleField allocates cfg.Count particles inside a w×h surface, each
// attribute sampled independently from its configured range. A nil rng uses a
// time-seeded source.
func NewParticleField(w, h float64, cfg FieldConfig, rng RandSource) *ParticleField {
	if rng == nil {
		rng = defaultRand()
	}
	f := &ParticleField{
		width:  math.Max(w, 0),
		height: math.Max(h, 0),
		rng:    rng,
	}
	f.Reinitialize(cfg)
	return f
}

// Reinitialize discards the pool and samples a new one from cfg.
func (f *ParticleField) Reinitialize(cfg FieldConfig) {
	f.config = cfg.normalized()
	f.particles = make([]Particle, f.config.Count)
	for i := range f.particles {
		f.spawn(&f.particles[i])
	}
}

// Config returns the normalized configuration in use.
func (f *ParticleField) Config() FieldConfig {
	return f.config
}

// Len returns the pool size.
func (f *ParticleField) Len() int {
	return len(f.particles)
}

// Particles returns the pool. The returned slice MUST NOT be mutated.
func (f *ParticleField) Particles() []Particle {
	return f.particles
}

// Bounds returns the surface size used for bound checks.
func (f *ParticleField) Bounds() Vec2 {
	return Vec2{f.width, f.height}
}

// Frame returns the number of frames advanced.
func (f *ParticleField) Frame() uint64 {
	return f.frames
}

// Resize changes the bounds used by future wrap and respawn checks. Existing
// particles are not moved.
func (f *ParticleField) Resize(w, h float64) {
	f.width = math.Max(w, 0)
	f.height = math.Max(h, 0)
}

// Bind attaches the surface the frame loop renders into.
func (f *ParticleField) Bind(s Surface) {
	f.surface = s
}

// Start begins a self-rescheduling loop on clock that advances then renders
// once per tick. ptr may be nil, in which case the pointer is treated as
// absent. It returns ErrNoSurface if no surface is bound.
func (f *ParticleField) Start(clock *FrameClock, ptr PointerSource) error {
	if f.closed || f.surface == nil {
		return ErrNoSurface
	}
	f.pointer = ptr
	f.loop.start(clock, f.frame)
	return nil
}

// Running reports whether the frame loop is scheduled.
func (f *ParticleField) Running() bool {
	return f.loop.running
}

func (f *ParticleField) frame(float64) {
	var p *Vec2
	if f.pointer != nil {
		if pos, ok := f.pointer.Pointer(); ok {
			p = &pos
		}
	}
	f.AdvanceFrame(p)
	f.Render(f.surface)
}

// Teardown cancels the frame loop and releases the pool. Calling it again is a
// no-op.
func (f *ParticleField) Teardown() {
	if f.closed {
		return
	}
	f.closed = true
	f.loop.stop()
	f.particles = nil
	f.surface = nil
	f.pointer = nil
}

// Closed reports whether Teardown has run.
func (f *ParticleField) Closed() bool {
	return f.closed
}

// AdvanceFrame moves every particle one frame. A nil pointer falls back to the
// surface centre.
func (f *ParticleField) AdvanceFrame(pointer *Vec2) {
	if f.closed {
		return
	}
	target := Vec2{f.width / 2, f.height / 2}
	if pointer != nil {
		target = *pointer
	}
	advanceParticles(f.particles, stepEnv{
		width:      f.width,
		height:     f.height,
		pointer:    target,
		attraction: f.config.Attraction,
		edge:       f.config.Edge,
	}, f.spawn)
	f.frames++
}

// Render clears s and draws links and particles. A nil surface is a no-op.
func (f *ParticleField) Render(s Surface) {
	if s == nil || f.closed {
		return
	}
	s.Clear()
	if f.config.Links.Enabled {
		drawLinks(s, f.particles, f.config.Links)
	}
	drawParticles(s, f.particles)
}

// spawn samples fresh attributes into p, in place.
func (f *ParticleField) spawn(p *Particle) {
	cfg := &f.config
	rng := f.rng
	p.X = rng.Float64() * f.width
	p.Y = rng.Float64() * f.height
	p.Size = cfg.Size.Sample(rng)
	p.VX = cfg.Speed.Sample(rng)
	p.VY = cfg.Speed.Sample(rng)
	p.R = clamp01(cfg.Color.R + rng.Float64()*cfg.Tint[0])
	p.G = clamp01(cfg.Color.G + rng.Float64()*cfg.Tint[1])
	p.B = clamp01(cfg.Color.B + rng.Float64()*cfg.Tint[2])
	p.Life = cfg.Lifetime.Sample(rng)
	p.Opacity = cfg.Opacity.Sample(rng)
}

// stepEnv carries the per-frame inputs of advanceParticles.
type stepEnv struct {
	width, height float64
	pointer       Vec2
	attraction    Attraction
	edge          EdgeMode
}

// advanceParticles integrates, attracts, ages and recycles every particle.
func advanceParticles(ps []Particle, env stepEnv, respawn func(*Particle)) {
	r2 := env.attraction.Radius * env.attraction.Radius
	for i := range ps {
		p := &ps[i]
		p.X += p.VX
		p.Y += p.VY

		if env.attraction.Enabled {
			dx := env.pointer.X - p.X
			dy := env.pointer.Y - p.Y
			if dx*dx+dy*dy < r2 {
				p.VX += dx * env.attraction.Strength
				p.VY += dy * env.attraction.Strength
			}
		}

		p.Life--

		out := p.X < 0 || p.X > env.width || p.Y < 0 || p.Y > env.height
		if out && env.edge == EdgeWrap {
			wrap(p, env.width, env.height)
			out = false
		}
		if p.Life <= 0 || out {
			respawn(p)
		}
	}
}

// wrap moves a particle that left the surface to the opposite edge.
func wrap(p *Particle, w, h float64) {
	if p.X < 0 {
		p.X = w
	} else if p.X > w {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = h
	} else if p.Y > h {
		p.Y = 0
	}
}

// drawLinks strokes a line between every pair closer than cfg.Distance.
// This is O(n²) per frame; fine for the few hundred particles a page uses.
func drawLinks(s Surface, ps []Particle, cfg LinkConfig) {
	d2 := cfg.Distance * cfg.Distance
	for i := range ps {
		a := &ps[i]
		for j := i + 1; j < len(ps); j++ {
			b := &ps[j]
			dx := a.X - b.X
			dy := a.Y - b.Y
			if dx*dx+dy*dy < d2 {
				s.StrokeLine(a.X, a.Y, b.X, b.Y, cfg.Width, cfg.Color)
			}
		}
	}
}

// drawParticles fills one circle per particle at its own opacity.
func drawParticles(s Surface, ps []Particle) {
	for i := range ps {
		p := &ps[i]
		s.FillCircle(p.X, p.Y, p.Size, Color{p.R, p.G, p.B, p.Opacity})
	}
}
