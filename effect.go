package tessera

import "github.com/hajimehoshi/ebiten/v2"

// Effect alters how a component's image is drawn. One Effect value may be
// shared by many components; anything that varies per component lives in the
// state returned by NewState, which the component keeps and hands back via
// EffectState.
type Effect interface {
	// NewState returns fresh per-component state.
	NewState() any
	// Image returns the image to draw for target this frame and the pixel
	// offset to draw it at, relative to target's position. If the image is
	// not target's own, the component releases it after drawing.
	Image(target Widget, r Renderer) (img *ebiten.Image, dx, dy int, err error)
}

// LoomEffect makes a component swell and shrink around its center. The scale
// grows by Rate each frame until it reaches MaxScale, then shrinks back to 1,
// and repeats.
type LoomEffect struct {
	Rate     float64
	MaxScale float64
}

// LoomState is the per-component state of a LoomEffect.
type LoomState struct {
	Increasing bool
	Scale      float64
}

var _ Effect = (*LoomEffect)(nil)

// NewLoomEffect creates a LoomEffect.
func NewLoomEffect(rate, maxScale float64) *LoomEffect {
	return &LoomEffect{Rate: rate, MaxScale: maxScale}
}

// NewState implements Effect.
func (e *LoomEffect) NewState() any {
	return &LoomState{Increasing: true, Scale: 1}
}

// Image implements Effect. The target is marked dirty again so the animation
// keeps running while the effect is set.
func (e *LoomEffect) Image(target Widget, r Renderer) (*ebiten.Image, int, int, error) {
	c := target.AsComponent()
	st, ok := c.EffectState().(*LoomState)
	if !ok {
		st = e.NewState().(*LoomState)
		c.effectState = st
	}

	if st.Increasing {
		st.Scale += e.Rate
		if st.Scale >= e.MaxScale {
			st.Scale = e.MaxScale
			st.Increasing = false
		}
	} else {
		st.Scale -= e.Rate
		if st.Scale <= 1 {
			st.Scale = 1
			st.Increasing = true
		}
	}

	scaled, err := r.Scale(c.Image(), st.Scale)
	if err != nil {
		return nil, 0, 0, err
	}
	orig, grown := imageSize(c.Image()), imageSize(scaled)
	target.Update()
	return scaled, -(grown.Width - orig.Width) / 2, -(grown.Height - orig.Height) / 2, nil
}
