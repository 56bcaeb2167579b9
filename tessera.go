package tessera

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/exp/constraints"
)

// Number is any integer or floating point type usable as a coordinate.
type Number interface {
	constraints.Integer | constraints.Float
}

// Vector2D is an (X, Y) position or offset. Value semantics.
type Vector2D[N Number] struct {
	X, Y N
}

// Vec returns a Vector2D with the given components.
func Vec[N Number](x, y N) Vector2D[N] {
	return Vector2D[N]{X: x, Y: y}
}

// Add returns v + o.
func (v Vector2D[N]) Add(o Vector2D[N]) Vector2D[N] {
	return Vector2D[N]{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2D[N]) Sub(o Vector2D[N]) Vector2D[N] {
	return Vector2D[N]{v.X - o.X, v.Y - o.Y}
}

// Scale multiplies each axis by the matching size component. Used to turn a
// block position into a pixel offset.
func (v Vector2D[N]) Scale(b Bounds2D[N]) Vector2D[N] {
	return Vector2D[N]{v.X * b.Width, v.Y * b.Height}
}

// Bounds2D is a (Width, Height) size. Value semantics; compare with ==.
type Bounds2D[N Number] struct {
	Width, Height N
}

// Size returns a Bounds2D with the given width and height.
func Size[N Number](w, h N) Bounds2D[N] {
	return Bounds2D[N]{Width: w, Height: h}
}

// Add returns b + o.
func (b Bounds2D[N]) Add(o Bounds2D[N]) Bounds2D[N] {
	return Bounds2D[N]{b.Width + o.Width, b.Height + o.Height}
}

// Sub returns b - o.
func (b Bounds2D[N]) Sub(o Bounds2D[N]) Bounds2D[N] {
	return Bounds2D[N]{b.Width - o.Width, b.Height - o.Height}
}

// Div divides both components by d.
func (b Bounds2D[N]) Div(d N) Bounds2D[N] {
	return Bounds2D[N]{b.Width / d, b.Height / d}
}

// Dimensions2D is a rectangle: a position plus a size.
type Dimensions2D[N Number] struct {
	Position Vector2D[N]
	Size     Bounds2D[N]
}

// Dims returns a Dimensions2D for the rectangle (x, y, w, h).
func Dims[N Number](x, y, w, h N) Dimensions2D[N] {
	return Dimensions2D[N]{Position: Vector2D[N]{x, y}, Size: Bounds2D[N]{w, h}}
}

// Rect converts d to an image.Rectangle, truncating to int.
func (d Dimensions2D[N]) Rect() image.Rectangle {
	x, y := int(d.Position.X), int(d.Position.Y)
	return image.Rect(x, y, x+int(d.Size.Width), y+int(d.Size.Height))
}

// BoundingRectangle returns the smallest rectangle containing every rectangle
// in rects. It returns the zero rectangle for an empty slice.
func BoundingRectangle[N Number](rects []Dimensions2D[N]) Dimensions2D[N] {
	if len(rects) == 0 {
		return Dimensions2D[N]{}
	}
	minX, minY := rects[0].Position.X, rects[0].Position.Y
	maxX, maxY := minX, minY
	for _, r := range rects {
		minX = min(minX, r.Position.X)
		minY = min(minY, r.Position.Y)
		maxX = max(maxX, r.Position.X+r.Size.Width)
		maxY = max(maxY, r.Position.Y+r.Size.Height)
	}
	return Dims(minX, minY, maxX-minX, maxY-minY)
}

// imageSize returns the pixel size of img, or zero for nil.
func imageSize(img *ebiten.Image) Bounds2D[int] {
	if img == nil {
		return Bounds2D[int]{}
	}
	b := img.Bounds()
	return Bounds2D[int]{b.Dx(), b.Dy()}
}

// SurfacePoint selects which corner (or the center) of the anchor block is
// the pixel anchor of a SurfaceGrid.
type SurfacePoint uint8

const (
	UpperLeft SurfacePoint = iota
	UpperRight
	LowerLeft
	LowerRight
	Center
)

// ClearingMethod selects how a SurfaceGridComponent erases its previous frame.
type ClearingMethod uint8

const (
	// ClearPrecise erases only the cells that were occupied last frame.
	ClearPrecise ClearingMethod = iota
	// ClearBoundingBox erases the whole grid rectangle in one blit.
	ClearBoundingBox
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// RGBA builds a Color from 8-bit channel values.
func RGBA(r, g, b, a uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendNone                    // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	if b == BlendNone {
		return ebiten.BlendCopy
	}
	return ebiten.BlendSourceOver
}

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift    KeyModifiers = 1 << iota // Shift key
	ModCtrl                              // Control key
	ModAlt                               // Alt / Option key
	ModMeta                              // Meta / Command / Windows key
	ModCapsLock                          // Caps lock toggled on
)

// Has reports whether every bit of m2 is set in m.
func (m KeyModifiers) Has(m2 KeyModifiers) bool {
	return m&m2 == m2
}
