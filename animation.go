package verdant

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates up to 4 float64 fields simultaneously. Create one via the
// convenience constructors (TweenAlpha, TweenFill, TweenTranslate, ...) and
// call Update(dt) each frame. If the target element is disposed, the tween
// stops immediately.
//
// There is no global animation manager; owners call Update themselves, or hand
// the tween to Stage.Animate.
type Tween struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Element
	delay  float32
	Done   bool

	// OnComplete runs once, after the final values have been written.
	OnComplete func()
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. A pending delay is consumed first.
func (g *Tween) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}
	if g.delay > 0 {
		if dt <= g.delay {
			g.delay -= dt
			return
		}
		dt -= g.delay
		g.delay = 0
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	if g.Done && g.OnComplete != nil {
		g.OnComplete()
	}
}

// Cancel stops the tween where it is. The fields keep their current values.
func (g *Tween) Cancel() {
	g.Done = true
}

// Finished reports whether the tween has completed or been cancelled.
func (g *Tween) Finished() bool {
	return g.Done
}

// WithDelay postpones the start of the tween by d seconds.
func (g *Tween) WithDelay(d float32) *Tween {
	g.delay = d
	return g
}

func (g *Tween) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	if duration <= 0 {
		*field = to
		return
	}
	if fn == nil {
		fn = ease.Linear
	}
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenValue animates an arbitrary float64 to the target value.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *Tween {
	g := &Tween{}
	g.add(field, to, duration, fn)
	return g
}

// TweenAlpha animates el.Alpha to the target value.
func TweenAlpha(el *Element, to float64, duration float32, fn ease.TweenFunc) *Tween {
	g := &Tween{target: el}
	g.add(&el.Alpha, to, duration, fn)
	return g
}

// TweenFill animates el.Fill, the filled fraction of a progress indicator.
func TweenFill(el *Element, to float64, duration float32, fn ease.TweenFunc) *Tween {
	g := &Tween{target: el}
	g.add(&el.Fill, to, duration, fn)
	return g
}

// TweenTranslate animates el.TranslateX and el.TranslateY.
func TweenTranslate(el *Element, toX, toY float64, duration float32, fn ease.TweenFunc) *Tween {
	g := &Tween{target: el}
	g.add(&el.TranslateX, toX, duration, fn)
	g.add(&el.TranslateY, toY, duration, fn)
	return g
}

// TweenGrow animates el.Height to height while keeping its bottom edge fixed,
// so the box grows upward.
func TweenGrow(el *Element, height float64, duration float32, fn ease.TweenFunc) *Tween {
	bottom := el.Top + el.Height
	g := &Tween{target: el}
	g.add(&el.Height, height, duration, fn)
	g.add(&el.Top, bottom-height, duration, fn)
	return g
}

// TweenPosition animates a Vec2 to the target point.
func TweenPosition(v *Vec2, to Vec2, duration float32, fn ease.TweenFunc) *Tween {
	g := &Tween{}
	g.add(&v.X, to.X, duration, fn)
	g.add(&v.Y, to.Y, duration, fn)
	return g
}
