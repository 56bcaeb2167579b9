package tessera

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// AttachFPSCounter adds a small component to f that shows the current FPS
// and TPS, refreshed every half second by a timer registered on f. The
// counter only updates while f has focus.
func AttachFPSCounter(f *Form, pos Vector2D[int]) (*Component, error) {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	img := ebiten.NewImage(100, 32)
	c := NewComponent("fps_counter", pos, img)
	if err := f.AddChild(c); err != nil {
		img.Deallocate()
		return nil, err
	}
	redrawFPS(img)

	t := NewTimer(500)
	t.CycleCompleteHandlers().Add(func(*Timer) {
		redrawFPS(img)
		c.Update()
	})
	f.AddTimer(t)
	return c, nil
}

func redrawFPS(img *ebiten.Image) {
	img.Clear()
	// Semi-transparent background for readability
	img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
