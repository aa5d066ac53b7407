package verdant

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsWidget shows FPS, TPS and the scroll offset in the top-left corner,
// refreshed about every half second.
type fpsWidget struct {
	img   *ebiten.Image
	stage *Stage
	since float32
	dirty bool
}

// SetShowFPS toggles the FPS overlay.
func (s *Stage) SetShowFPS(show bool) {
	if !show {
		if s.fps != nil && s.fps.img != nil {
			s.fps.img.Deallocate()
		}
		s.fps = nil
		return
	}
	if s.fps == nil {
		s.fps = &fpsWidget{stage: s, dirty: true}
	}
}

func (w *fpsWidget) update(dt float32) {
	w.since += dt
	if w.since >= 0.5 {
		w.since = 0
		w.dirty = true
	}
}

func (w *fpsWidget) draw(screen *ebiten.Image) {
	if w.img == nil {
		// 120x48 fits three DebugPrint lines.
		w.img = ebiten.NewImage(120, 48)
	}
	if w.dirty {
		w.dirty = false
		w.img.Clear()
		w.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nY: %.0f",
			ebiten.ActualFPS(), ebiten.ActualTPS(), w.stage.Offset()))
	}
	screen.DrawImage(w.img, nil)
}
