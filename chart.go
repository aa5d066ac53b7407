package verdant

import (
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/floats"
)

const (
	chartStagger     = 0.2 // seconds between bars
	chartGrowTime    = 1.5
	chartLabelHeight = 20.0
	chartBarFraction = 0.4 // bar width as a fraction of its slot
)

// BarChart is a row of bars, one per Stat, scaled so the largest value fills
// the plot height. Bars start flat and grow, staggered, once the chart is
// revealed.
type BarChart struct {
	Container *Element

	bars    []*Element
	targets []float64
	tweens  []*Tween
	grown   bool
}

// NewBarChart lays out bars for stats inside a width×height container.
func NewBarChart(name string, stats []Stat, width, height float64) *BarChart {
	c := &BarChart{Container: NewBox(name, 0, 0, width, height)}
	c.Container.Color = Color{}
	if len(stats) == 0 {
		return c
	}

	values := make([]float64, len(stats))
	for i, s := range stats {
		values[i] = s.HectaresLost
	}
	peak := floats.Max(values)

	plotH := height - chartLabelHeight
	slot := width / float64(len(stats))
	barW := slot * chartBarFraction
	for i, s := range stats {
		target := 0.0
		if peak > 0 {
			target = values[i] / peak * plotH
		}
		x := slot * float64(i)

		bar := NewBox(s.Region, x+(slot-barW)/2, plotH, barW, 0)
		bar.Interactive = true
		bar.Color = forestGreen
		if col, err := ParseColor(s.Color); err == nil {
			bar.Color = col
		}
		c.Container.AddChild(bar)

		label := NewBox(s.Region+" label", x, plotH+4, slot, chartLabelHeight-4)
		label.Color = Color{}
		label.Text = s.Region
		c.Container.AddChild(label)

		c.bars = append(c.bars, bar)
		c.targets = append(c.targets, target)
	}
	return c
}

// Bars returns the bar elements in dataset order.
func (c *BarChart) Bars() []*Element {
	return c.bars
}

// Target returns the full height of bar i.
func (c *BarChart) Target(i int) float64 {
	return c.targets[i]
}

// Attach registers the chart container for fade-reveal; the bars grow when it
// triggers.
func (c *BarChart) Attach(ch *Choreographer) *Registration {
	return ch.Register(c.Container, KindFadeReveal, RegisterOptions{OnReveal: c.Grow})
}

// Grow starts the bar animations. Bar i waits i×0.2 s, then grows for 1.5 s.
// Calling Grow again does nothing.
func (c *BarChart) Grow() {
	if c.grown {
		return
	}
	c.grown = true
	for i, bar := range c.bars {
		tw := TweenGrow(bar, c.targets[i], chartGrowTime, ease.OutCubic).WithDelay(float32(i) * chartStagger)
		c.tweens = append(c.tweens, tw)
	}
}

// Grown reports whether Grow has been called.
func (c *BarChart) Grown() bool {
	return c.grown
}

// Update advances the bar animations.
func (c *BarChart) Update(dt float32) {
	for _, tw := range c.tweens {
		tw.Update(dt)
	}
}

// Finished reports whether every bar has reached its full height, or the
// chart was disposed.
func (c *BarChart) Finished() bool {
	if c.Container.IsDisposed() {
		return true
	}
	if !c.grown {
		return false
	}
	for _, tw := range c.tweens {
		if !tw.Done {
			return false
		}
	}
	return true
}
