package verdant

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// assertClose is assertNear with a caller-chosen tolerance, for values that
// pass through gween's float32 arithmetic.
func assertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}

// recordingSurface counts draw calls instead of drawing.
type recordingSurface struct {
	w, h    int
	clears  int
	circles []Color
	lines   int
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }
func (s *recordingSurface) Clear() {
	s.clears++
	s.circles = s.circles[:0]
	s.lines = 0
}
func (s *recordingSurface) FillCircle(cx, cy, r float64, c Color) {
	s.circles = append(s.circles, c)
}
func (s *recordingSurface) StrokeLine(x0, y0, x1, y1, width float64, c Color) {
	s.lines++
}

// fixedPointer is a PointerSource that always reports the same position.
type fixedPointer struct {
	pos   Vec2
	known bool
}

func (p fixedPointer) Pointer() (Vec2, bool) { return p.pos, p.known }

// --- Rect ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint above", Rect{10, -100, 50, 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expect {
				t.Errorf("Intersects(%v) = %v, want %v", tt.other, got, tt.expect)
			}
		})
	}
}

// --- Range ---

func TestRangeSample(t *testing.T) {
	rng := NewRand(1)
	r := Range{-1.5, 1.5}
	for i := 0; i < 1000; i++ {
		v := r.Sample(rng)
		if v < r.Min || v >= r.Max {
			t.Fatalf("Sample() = %v, outside [%v, %v)", v, r.Min, r.Max)
		}
	}
	if got := (Range{3, 3}).Sample(rng); got != 3 {
		t.Errorf("degenerate Sample() = %v, want 3", got)
	}
}

func TestRangeNormalized(t *testing.T) {
	r := Range{5, 1}.normalized()
	if r.Min != 1 || r.Max != 5 {
		t.Errorf("normalized = %v, want {1 5}", r)
	}
}

func TestIntRangeSample(t *testing.T) {
	rng := NewRand(2)
	r := IntRange{50, 250}
	for i := 0; i < 1000; i++ {
		v := r.Sample(rng)
		if v < r.Min || v >= r.Max {
			t.Fatalf("Sample() = %d, outside [%d, %d)", v, r.Min, r.Max)
		}
	}
	if got := (IntRange{7, 7}).Sample(rng); got != 7 {
		t.Errorf("degenerate Sample() = %d, want 7", got)
	}
}

func TestNewRandDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 10; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d: %v != %v", i, x, y)
		}
	}
}

// --- Color ---

func TestColorToRGBA(t *testing.T) {
	c := Color{1, 0.5, 0, 0.5}.toRGBA()
	if c.A != 128 {
		t.Errorf("A = %d, want 128", c.A)
	}
	if c.R != 128 {
		t.Errorf("R = %d, want 128 (premultiplied)", c.R)
	}
	if c.B != 0 {
		t.Errorf("B = %d, want 0", c.B)
	}

	over := Color{2, -1, 0, 1}.toRGBA()
	if over.R != 255 || over.G != 0 {
		t.Errorf("out-of-range components not clamped: %+v", over)
	}
}

func TestColorWithAlpha(t *testing.T) {
	c := ColorWhite.WithAlpha(0.25)
	if c.A != 0.25 || c.R != 1 {
		t.Errorf("WithAlpha = %+v", c)
	}
	if ColorWhite.A != 1 {
		t.Error("WithAlpha mutated the receiver")
	}
}
