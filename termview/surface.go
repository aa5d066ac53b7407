// Package termview renders verdant particle fields in a terminal with tcell.
//
// A terminal cell stands in for a block of virtual pixels, so a field
// configured for a pixel canvas keeps its proportions: with the default
// scale one cell is 8×16 virtual pixels.
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/verdant"
)

const (
	defaultScaleX = 8.0
	defaultScaleY = 16.0
)

// Surface implements verdant.Surface on a tcell screen.
type Surface struct {
	screen         tcell.Screen
	scaleX, scaleY float64
	background     tcell.Style
}

// NewSurface wraps screen. scaleX and scaleY are virtual pixels per cell;
// zero or negative values use 8 and 16. A nil screen returns
// verdant.ErrNoSurface.
func NewSurface(screen tcell.Screen, scaleX, scaleY float64) (*Surface, error) {
	if screen == nil {
		return nil, verdant.ErrNoSurface
	}
	if scaleX <= 0 {
		scaleX = defaultScaleX
	}
	if scaleY <= 0 {
		scaleY = defaultScaleY
	}
	return &Surface{
		screen:     screen,
		scaleX:     scaleX,
		scaleY:     scaleY,
		background: tcell.StyleDefault.Background(tcell.ColorBlack),
	}, nil
}

// Size returns the screen size in virtual pixels.
func (s *Surface) Size() (int, int) {
	cols, rows := s.screen.Size()
	return int(float64(cols) * s.scaleX), int(float64(rows) * s.scaleY)
}

// Cell maps a virtual-pixel position to a cell.
func (s *Surface) Cell(x, y float64) (int, int) {
	return int(math.Floor(x / s.scaleX)), int(math.Floor(y / s.scaleY))
}

// Clear blanks every cell.
func (s *Surface) Clear() {
	s.screen.Fill(' ', s.background)
}

// FillCircle marks the cell under the centre with a glyph sized by radius.
// Alpha is applied by darkening the color toward black.
func (s *Surface) FillCircle(cx, cy, r float64, c verdant.Color) {
	if r <= 0 || c.A <= 0 {
		return
	}
	x, y := s.Cell(cx, cy)
	if !s.inside(x, y) {
		return
	}
	s.screen.SetContent(x, y, particleGlyph(r), nil, s.background.Foreground(termColor(c)))
}

// StrokeLine draws a dotted line between the two cells, leaving particle
// glyphs already in its path untouched.
func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c verdant.Color) {
	if width <= 0 || c.A <= 0 {
		return
	}
	ax, ay := s.Cell(x0, y0)
	bx, by := s.Cell(x1, y1)
	style := s.background.Foreground(termColor(c))
	dx, dy := abs(bx-ax), -abs(by-ay)
	sx, sy := sign(bx-ax), sign(by-ay)
	e := dx + dy
	for {
		if s.inside(ax, ay) {
			if r, _, _, _ := s.screen.GetContent(ax, ay); r == ' ' || r == 0 {
				s.screen.SetContent(ax, ay, '·', nil, style)
			}
		}
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ax += sx
		}
		if e2 <= dx {
			e += dx
			ay += sy
		}
	}
}

// Show flushes the frame to the terminal.
func (s *Surface) Show() {
	s.screen.Show()
}

func (s *Surface) inside(x, y int) bool {
	cols, rows := s.screen.Size()
	return x >= 0 && y >= 0 && x < cols && y < rows
}

// particleGlyph picks a heavier glyph for larger particles.
func particleGlyph(r float64) rune {
	switch {
	case r < 2:
		return '·'
	case r < 4:
		return '•'
	default:
		return '●'
	}
}

func termColor(c verdant.Color) tcell.Color {
	a := math.Min(math.Max(c.A, 0), 1)
	ch := func(v float64) int32 {
		return int32(math.Round(math.Min(math.Max(v, 0), 1) * a * 255))
	}
	return tcell.NewRGBColor(ch(c.R), ch(c.G), ch(c.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
