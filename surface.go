package verdant

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ErrNoSurface is returned when a particle field has no drawing surface to
// render into. The field is decorative; callers skip it.
var ErrNoSurface = errors.New("verdant: drawing surface unavailable")

// Surface is a fixed-size 2D drawing target. A Surface is owned by exactly
// one ParticleField; nothing else draws into it.
type Surface interface {
	Size() (w, h int)
	Clear()
	FillCircle(cx, cy, r float64, c Color)
	StrokeLine(x0, y0, x1, y1, width float64, c Color)
}

// imageSurface draws into an ebiten image with the vector package.
type imageSurface struct {
	img *ebiten.Image
}

// NewImageSurface wraps img as a Surface. It returns ErrNoSurface when img is
// nil or has zero area.
func NewImageSurface(img *ebiten.Image) (Surface, error) {
	if img == nil {
		return nil, ErrNoSurface
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrNoSurface
	}
	return &imageSurface{img: img}, nil
}

func (s *imageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *imageSurface) Clear() {
	s.img.Clear()
}

func (s *imageSurface) FillCircle(cx, cy, r float64, c Color) {
	if r <= 0 || c.A <= 0 {
		return
	}
	vector.FillCircle(s.img, float32(cx), float32(cy), float32(r), c.toRGBA(), true)
}

func (s *imageSurface) StrokeLine(x0, y0, x1, y1, width float64, c Color) {
	if width <= 0 || c.A <= 0 {
		return
	}
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c.toRGBA(), true)
}

// Image returns the underlying ebiten image of a surface created by
// NewImageSurface, or nil for other implementations.
func Image(s Surface) *ebiten.Image {
	if is, ok := s.(*imageSurface); ok {
		return is.img
	}
	return nil
}
