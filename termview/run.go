package termview

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/verdant"
)

const defaultFPS = 30

// Options configures Run. Zero values use 30 FPS and the default cell scale.
type Options struct {
	FPS    int
	ScaleX float64
	ScaleY float64
}

// Run animates one particle field on screen until ctx is done or the user
// presses Esc, q or Ctrl-C. Mouse motion feeds pointer attraction and
// terminal resizes resize the field. screen must already be initialised;
// Run leaves it open, and its event reader exits when the caller calls Fini.
func Run(ctx context.Context, screen tcell.Screen, cfg verdant.FieldConfig, rng verdant.RandSource, opts Options) error {
	surf, err := NewSurface(screen, opts.ScaleX, opts.ScaleY)
	if err != nil {
		return err
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = defaultFPS
	}

	w, h := surf.Size()
	field := verdant.NewParticleField(float64(w), float64(h), cfg, rng)
	field.Bind(surf)
	clock := verdant.NewFrameClock()
	ptr := &cellPointer{surf: surf}
	if err := field.Start(clock, ptr); err != nil {
		return err
	}
	defer field.Teardown()

	screen.EnableMouse()
	defer screen.DisableMouse()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	dt := 1 / float64(fps)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuitKey(ev) {
					return nil
				}
			case *tcell.EventMouse:
				x, y := ev.Position()
				ptr.set(x, y)
			case *tcell.EventResize:
				screen.Sync()
				w, h := surf.Size()
				field.Resize(float64(w), float64(h))
			}
		case <-ticker.C:
			clock.Tick(dt)
			surf.Show()
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// cellPointer reports the centre of the last cell the mouse was seen in, in
// virtual pixels.
type cellPointer struct {
	surf  *Surface
	pos   verdant.Vec2
	known bool
}

func (p *cellPointer) set(col, row int) {
	p.pos = verdant.Vec2{
		X: (float64(col) + 0.5) * p.surf.scaleX,
		Y: (float64(row) + 0.5) * p.surf.scaleY,
	}
	p.known = true
}

func (p *cellPointer) Pointer() (verdant.Vec2, bool) {
	return p.pos, p.known
}
