package verdant

import (
	"math"
	"strconv"

	"github.com/tanema/gween/ease"
)

// counterStep is how often a Counter adds Rate×counterStep.
const counterStep = 0.1

// Counter is a running tally that grows by Rate per second, in 0.1 s steps,
// and prints itself into an element's Text. The trees-lost ticker is one.
type Counter struct {
	Value float64
	Rate  float64

	el      *Element
	format  func(float64) string
	acc     float64
	stopped bool
}

// NewCounter creates a counter that writes into el. A nil format prints the
// value floored with thousands separators.
func NewCounter(el *Element, rate float64, format func(float64) string) *Counter {
	if format == nil {
		format = FormatCount
	}
	c := &Counter{Rate: rate, el: el, format: format}
	c.render()
	return c
}

// Update accumulates dt and adds whole steps.
func (c *Counter) Update(dt float32) {
	if c.stopped {
		return
	}
	c.acc += float64(dt)
	n := math.Floor(c.acc/counterStep + 1e-9)
	if n < 1 {
		return
	}
	c.acc = math.Max(c.acc-n*counterStep, 0)
	c.Value += c.Rate * counterStep * n
	c.render()
}

// Stop freezes the counter. The stage drops it on the next tick.
func (c *Counter) Stop() {
	c.stopped = true
}

// Finished reports whether Stop was called or the element was disposed.
func (c *Counter) Finished() bool {
	return c.stopped || (c.el != nil && c.el.IsDisposed())
}

func (c *Counter) render() {
	if c.el != nil {
		c.el.Text = c.format(c.Value)
	}
}

// CountUp animates a number from one value to another and prints each frame
// into an element's Text.
type CountUp struct {
	value  float64
	tween  *Tween
	el     *Element
	format func(float64) string
}

// NewCountUp starts counting from `from` to `to` over duration seconds with
// an ease-out curve. A nil format uses FormatCount.
func NewCountUp(el *Element, from, to float64, duration float32, format func(float64) string) *CountUp {
	if format == nil {
		format = FormatCount
	}
	c := &CountUp{value: from, el: el, format: format}
	c.tween = TweenValue(&c.value, to, duration, ease.OutQuad)
	c.tween.target = el
	c.render()
	return c
}

// Value returns the current animated value.
func (c *CountUp) Value() float64 {
	return c.value
}

// Update advances the animation.
func (c *CountUp) Update(dt float32) {
	if c.tween.Done {
		return
	}
	c.tween.Update(dt)
	c.render()
}

// Finished reports whether the final value has been reached.
func (c *CountUp) Finished() bool {
	return c.tween.Done
}

func (c *CountUp) render() {
	if c.el != nil && !c.el.IsDisposed() {
		c.el.Text = c.format(c.value)
	}
}

// FormatCount floors v and groups thousands with commas: 12345.6 → "12,345".
func FormatCount(v float64) string {
	n := int64(math.Floor(v))
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return string(out)
}
