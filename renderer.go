package tessera

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer is the drawing backend the component tree draws through. It is
// passed explicitly down every Draw call; components never reach for a global
// screen. Every primitive may fail with ErrBackend.
type Renderer interface {
	// Blit draws the srcRect region of src onto dst with its top-left corner
	// at `at`, using source-over blending. An empty srcRect means all of src.
	Blit(dst, src *ebiten.Image, srcRect image.Rectangle, at image.Point) error
	// Restore is Blit with an opaque copy. The clear pipeline uses it to put
	// a parent's background back over a component's previous rectangle.
	Restore(dst, background *ebiten.Image, srcRect image.Rectangle, at image.Point) error
	// NewSurface allocates a blank, transparent w x h image.
	NewSurface(w, h int) (*ebiten.Image, error)
	// Scale returns a new image holding src resized by factor.
	Scale(src *ebiten.Image, factor float64) (*ebiten.Image, error)
	// Overlay fills dst with c blended over its current contents.
	Overlay(dst *ebiten.Image, c Color) error
	// Release frees an image previously returned by NewSurface or Scale.
	Release(img *ebiten.Image)
}

// EbitenRenderer implements Renderer directly on ebiten images.
type EbitenRenderer struct{}

var _ Renderer = EbitenRenderer{}

// whitePixel is a 1x1 white image stretched to fill solid rectangles.
var whitePixel *ebiten.Image

func solidPixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}

// Blit implements Renderer.
func (EbitenRenderer) Blit(dst, src *ebiten.Image, srcRect image.Rectangle, at image.Point) error {
	return drawRegion(dst, src, srcRect, at, BlendNormal)
}

// Restore implements Renderer.
func (EbitenRenderer) Restore(dst, background *ebiten.Image, srcRect image.Rectangle, at image.Point) error {
	return drawRegion(dst, background, srcRect, at, BlendNone)
}

func drawRegion(dst, src *ebiten.Image, srcRect image.Rectangle, at image.Point, blend BlendMode) error {
	if dst == nil || src == nil {
		return fmt.Errorf("tessera: blit: %w", ErrNullSurface)
	}
	img := src
	if !srcRect.Empty() {
		clipped := srcRect.Intersect(src.Bounds())
		if clipped.Empty() {
			return nil
		}
		// Keep the destination aligned with the requested rectangle when the
		// source region was clipped at its top or left edge.
		at = at.Add(clipped.Min.Sub(srcRect.Min))
		img = src.SubImage(clipped).(*ebiten.Image)
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(at.X), float64(at.Y))
	op.Blend = blend.EbitenBlend()
	dst.DrawImage(img, &op)
	return nil
}

// NewSurface implements Renderer.
func (EbitenRenderer) NewSurface(w, h int) (*ebiten.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("tessera: new surface %dx%d: %w", w, h, ErrBackend)
	}
	return ebiten.NewImage(w, h), nil
}

// Scale implements Renderer.
func (EbitenRenderer) Scale(src *ebiten.Image, factor float64) (*ebiten.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("tessera: scale: %w", ErrNullSurface)
	}
	size := imageSize(src)
	w, h := int(float64(size.Width)*factor), int(float64(size.Height)*factor)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("tessera: scale by %v gives %dx%d: %w", factor, w, h, ErrBackend)
	}
	out := ebiten.NewImage(w, h)
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(w)/float64(size.Width), float64(h)/float64(size.Height))
	op.Filter = ebiten.FilterLinear
	out.DrawImage(src, &op)
	return out, nil
}

// Overlay implements Renderer.
func (EbitenRenderer) Overlay(dst *ebiten.Image, c Color) error {
	if dst == nil {
		return fmt.Errorf("tessera: overlay: %w", ErrNullSurface)
	}
	b := dst.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	dst.DrawImage(solidPixel(), &op)
	return nil
}

// Release implements Renderer.
func (EbitenRenderer) Release(img *ebiten.Image) {
	if img != nil {
		img.Deallocate()
	}
}
