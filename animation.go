package tessera

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup moves a widget along eased X and Y tweens. Create one with
// TweenPosition and call Update(dt) each frame, for example from a Timer or
// a draw-begin handler. Each Update repositions the widget, which marks it
// dirty. If the widget is detached from its form, the group stops.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	x, y   *gween.Tween
	target Widget
	Done   bool
}

// TweenPosition creates a TweenGroup that moves w from its current position
// to (toX, toY) over duration seconds using the easing function.
func TweenPosition(w Widget, toX, toY int, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := w.AsComponent()
	return &TweenGroup{
		x:      gween.New(float32(c.Left()), float32(toX), duration, fn),
		y:      gween.New(float32(c.Top()), float32(toY), duration, fn),
		target: w,
	}
}

// Update advances the tweens by dt seconds and moves the target.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	c := g.target.AsComponent()
	if c.Parent() == nil {
		g.Done = true
		return
	}
	x, xDone := g.x.Update(dt)
	y, yDone := g.y.Update(dt)
	pos := Vec(int(math.Round(float64(x))), int(math.Round(float64(y))))
	if pos != c.Position() {
		c.SetPosition(pos)
	}
	g.Done = xDone && yDone
}

// Cancel stops the group where it is.
func (g *TweenGroup) Cancel() { g.Done = true }
