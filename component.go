package tessera

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Widget is the capability every drawable in a component tree provides.
// Concrete widgets embed Component, which supplies the draw cycle and the
// default geometry; specializations override Width, Height, Update, Draw or
// the unexported blit and clear steps.
type Widget interface {
	// AsComponent returns the embedded base component.
	AsComponent() *Component
	Width() int
	Height() int
	// Screen resolves the surface this widget draws on.
	Screen() (*ebiten.Image, error)
	// Update marks the widget as needing a redraw.
	Update()
	// Draw runs one draw cycle if the widget is dirty.
	Draw(r Renderer) error

	blit(r Renderer) error
	clear(r Renderer) error
	drawnRect() image.Rectangle
}

// Component is the base of every widget. It owns a position relative to its
// parent Form, an optional borrowed image, and the dirty flags that drive the
// draw/clear cycle. A Component is dirty when created.
type Component struct {
	// Name is a human-readable label used in errors and debug output.
	Name string

	this     Widget
	position Vector2D[int]
	image    *ebiten.Image
	parent   *Form

	effect      Effect
	effectState any

	dirty         bool
	requiresClear bool

	// Rectangle of the parent image covered by the last blit, in parent
	// coordinates, and where that rectangle sits on screen.
	prevDims   Dimensions2D[int]
	prevOffset Vector2D[int]

	drawBegin  Handlers[*Component]
	drawFinish Handlers[*Component]
}

var _ Widget = (*Component)(nil)

// NewComponent creates a parentless component showing img at pos.
// img may be nil, in which case the component draws nothing.
func NewComponent(name string, pos Vector2D[int], img *ebiten.Image) *Component {
	c := &Component{}
	c.InitComponent(c, name, pos, img)
	return c
}

// InitComponent prepares an embedded Component. self must be the widget that
// embeds c so that the draw cycle reaches its overrides.
func (c *Component) InitComponent(self Widget, name string, pos Vector2D[int], img *ebiten.Image) {
	if self == nil {
		panic("tessera: InitComponent with nil self")
	}
	c.this = self
	c.Name = name
	c.position = pos
	c.image = img
	c.dirty = true
}

// AsComponent implements Widget.
func (c *Component) AsComponent() *Component { return c }

// Width returns the width of the component's image, or 0 without one.
func (c *Component) Width() int { return imageSize(c.image).Width }

// Height returns the height of the component's image, or 0 without one.
func (c *Component) Height() int { return imageSize(c.image).Height }

// Image returns the component's image.
func (c *Component) Image() *ebiten.Image { return c.image }

// SetImage replaces the component's image and marks it dirty.
func (c *Component) SetImage(img *ebiten.Image) {
	c.image = img
	c.this.Update()
}

// Parent returns the Form this component is attached to, or nil.
func (c *Component) Parent() *Form { return c.parent }

// Left returns the x position relative to the parent.
func (c *Component) Left() int { return c.position.X }

// Top returns the y position relative to the parent.
func (c *Component) Top() int { return c.position.Y }

// Position returns the position relative to the parent.
func (c *Component) Position() Vector2D[int] { return c.position }

// LeftFromOrigin returns the absolute x position on screen.
func (c *Component) LeftFromOrigin() int { return c.Origin().X }

// TopFromOrigin returns the absolute y position on screen.
func (c *Component) TopFromOrigin() int { return c.Origin().Y }

// Origin returns the absolute screen position, summing positions up the
// parent chain.
func (c *Component) Origin() Vector2D[int] {
	p := c.position
	for f := c.parent; f != nil; f = f.parent {
		p = p.Add(f.position)
	}
	return p
}

// SetLeft moves the component horizontally and marks it dirty.
func (c *Component) SetLeft(x int) {
	c.position.X = x
	c.this.Update()
}

// SetTop moves the component vertically and marks it dirty.
func (c *Component) SetTop(y int) {
	c.position.Y = y
	c.this.Update()
}

// SetPosition moves the component and marks it dirty.
func (c *Component) SetPosition(pos Vector2D[int]) {
	c.position = pos
	c.this.Update()
}

// AddToLeft moves the component by dx pixels and marks it dirty.
func (c *Component) AddToLeft(dx int) {
	c.position.X += dx
	c.this.Update()
}

// AddToTop moves the component by dy pixels and marks it dirty.
func (c *Component) AddToTop(dy int) {
	c.position.Y += dy
	c.this.Update()
}

// Update marks the component as needing a redraw on the next Draw.
func (c *Component) Update() { c.dirty = true }

// IsDirty reports whether the next Draw will redraw the component.
func (c *Component) IsDirty() bool { return c.dirty }

// Effect returns the active effect, or nil.
func (c *Component) Effect() Effect { return c.effect }

// EffectState returns the per-component state of the active effect.
func (c *Component) EffectState() any { return c.effectState }

// SetEffect replaces the active effect. The previous effect's state is
// dropped and fresh state is taken from e. A nil e removes the effect.
func (c *Component) SetEffect(e Effect) {
	c.effectState = nil
	c.effect = e
	if e != nil {
		c.effectState = e.NewState()
	}
	c.this.Update()
}

// DrawBeginHandlers returns the handlers raised at the start of every Draw.
func (c *Component) DrawBeginHandlers() *Handlers[*Component] { return &c.drawBegin }

// DrawFinishHandlers returns the handlers raised at the end of every Draw.
func (c *Component) DrawFinishHandlers() *Handlers[*Component] { return &c.drawFinish }

// Screen returns the surface of the Form this component is attached to.
func (c *Component) Screen() (*ebiten.Image, error) {
	if c.parent == nil {
		return nil, fmt.Errorf("tessera: component %q has no parent: %w", c.Name, ErrInvalidHierarchy)
	}
	return c.parent.Screen()
}

// SetParent attaches the component to f, detaching it from any previous
// parent first. The component's rectangle must lie inside f. A nil f only
// detaches.
func (c *Component) SetParent(f *Form) error {
	if c.parent != nil && c.parent != f {
		c.parent.RemoveChild(c.this)
	}
	if f == nil {
		return nil
	}
	for p := f; p != nil; p = p.parent {
		if &p.Component == c {
			panic("tessera: cannot parent a form to itself or its own descendant")
		}
	}
	if err := c.confirmPositionIn(f); err != nil {
		return err
	}
	c.parent = f
	f.attach(c.this)
	if globalDebug {
		debugCheckTreeDepth(c)
	}
	c.this.Update()
	return nil
}

// drawnRect implements Widget: the parent-relative rectangle the widget
// covers when drawn.
func (c *Component) drawnRect() image.Rectangle {
	return image.Rect(c.position.X, c.position.Y, c.position.X+c.this.Width(), c.position.Y+c.this.Height())
}

func (c *Component) confirmPositionIn(f *Form) error {
	r := c.this.drawnRect()
	if !r.In(image.Rect(0, 0, f.Width(), f.Height())) {
		return fmt.Errorf("tessera: component %q at %v does not fit in form %q (%dx%d): %w",
			c.Name, r, f.Name, f.Width(), f.Height(), ErrInvalidHierarchy)
	}
	return nil
}

// Dispose detaches the component from its parent and drops its effect state.
func (c *Component) Dispose() {
	if c.parent != nil {
		c.parent.RemoveChild(c.this)
	}
	c.effect = nil
	c.effectState = nil
}

// Draw runs the draw cycle: begin handlers, then (only when dirty) a clear of
// the previous frame followed by a blit of the current one, then finish
// handlers. A failed step leaves the component dirty.
func (c *Component) Draw(r Renderer) error {
	c.drawBegin.RaiseEvents(c)
	if c.dirty {
		c.dirty = false
		if err := c.redraw(r); err != nil {
			c.dirty = true
			return err
		}
		countDraw()
	}
	c.drawFinish.RaiseEvents(c)
	return nil
}

func (c *Component) redraw(r Renderer) error {
	if c.requiresClear {
		if err := c.this.clear(r); err != nil {
			return err
		}
	}
	if err := c.this.blit(r); err != nil {
		return err
	}
	c.requiresClear = true
	return nil
}

// clear restores the parent's background over the rectangle drawn last time.
// A root component has nothing to restore from and skips the clear.
func (c *Component) clear(r Renderer) error {
	p := c.parent
	if p == nil {
		return nil
	}
	if p.image == nil {
		return fmt.Errorf("tessera: clear %q: parent %q has no image: %w", c.Name, p.Name, ErrInvalidHierarchy)
	}
	if err := c.confirmPositionIn(p); err != nil {
		return err
	}
	screen, err := p.Screen()
	if err != nil {
		return err
	}
	if c.prevDims.Size.Width <= 0 || c.prevDims.Size.Height <= 0 {
		return nil
	}
	at := image.Pt(c.prevOffset.X, c.prevOffset.Y)
	if err := r.Restore(screen, p.image, c.prevDims.Rect(), at); err != nil {
		return fmt.Errorf("tessera: clear %q: %w", c.Name, err)
	}
	return nil
}

// blit draws the image, or the active effect's image, at the component's
// absolute position and records the covered rectangle for the next clear.
func (c *Component) blit(r Renderer) error {
	if c.image == nil {
		c.prevDims = Dimensions2D[int]{}
		return nil
	}
	screen, err := c.this.Screen()
	if err != nil {
		return err
	}

	img := c.image
	var dx, dy int
	if c.effect != nil {
		img, dx, dy, err = c.effect.Image(c.this, r)
		if err != nil {
			return fmt.Errorf("tessera: effect on %q: %w", c.Name, err)
		}
		if img != c.image {
			defer r.Release(img)
		}
	}

	origin := c.Origin()
	at := origin.Add(Vec(dx, dy))
	if err := r.Blit(screen, img, image.Rectangle{}, image.Pt(at.X, at.Y)); err != nil {
		return fmt.Errorf("tessera: blit %q: %w", c.Name, err)
	}

	size := imageSize(img)
	rel := c.position.Add(Vec(dx, dy))
	drawn := image.Rect(rel.X, rel.Y, rel.X+size.Width, rel.Y+size.Height)
	if c.parent != nil {
		drawn = drawn.Intersect(image.Rect(0, 0, c.parent.Width(), c.parent.Height()))
	}
	c.prevDims = Dims(drawn.Min.X, drawn.Min.Y, drawn.Dx(), drawn.Dy())
	c.prevOffset = origin.Sub(c.position).Add(Vec(drawn.Min.X, drawn.Min.Y))
	return nil
}
