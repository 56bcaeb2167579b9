package tessera

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Form is a component that contains other components. Its image is the
// background its children are drawn over and restored from. A Form also
// owns the timers that run while it has focus, and routes key events either
// to a focus sink or to its own key handlers.
type Form struct {
	Component

	children []Widget
	timers   []*Timer
	focus    KeyEventSink
	screen   *ebiten.Image

	keyDown Handlers[KeyEvent]
	keyUp   Handlers[KeyEvent]
}

var (
	_ Widget       = (*Form)(nil)
	_ KeyEventSink = (*Form)(nil)
)

// NewForm creates a parentless form at pos with background as its image.
func NewForm(name string, pos Vector2D[int], background *ebiten.Image) *Form {
	f := &Form{}
	f.InitComponent(f, name, pos, background)
	return f
}

// Children returns the children in draw order. The returned slice must not
// be mutated.
func (f *Form) Children() []Widget { return f.children }

func (f *Form) indexOf(w Widget) int {
	for i, c := range f.children {
		if c == w {
			return i
		}
	}
	return -1
}

// AddChild attaches w to the form. Adding a present child does nothing.
// It fails if w does not fit inside the form.
func (f *Form) AddChild(w Widget) error {
	if w == nil {
		panic("tessera: cannot add nil child")
	}
	if f.indexOf(w) >= 0 {
		return nil
	}
	return w.AsComponent().SetParent(f)
}

// attach appends w to the child list if it is not already present.
func (f *Form) attach(w Widget) {
	if f.indexOf(w) >= 0 {
		return
	}
	f.children = append(f.children, w)
	if globalDebug {
		debugCheckChildCount(f)
	}
}

// RemoveChild detaches w and marks the form dirty so its background is
// redrawn where the child used to be. Removing an absent child does nothing.
func (f *Form) RemoveChild(w Widget) {
	i := f.indexOf(w)
	if i < 0 {
		return
	}
	copy(f.children[i:], f.children[i+1:])
	f.children[len(f.children)-1] = nil
	f.children = f.children[:len(f.children)-1]

	c := w.AsComponent()
	c.parent = nil
	c.requiresClear = false
	f.this.Update()
}

// Update marks every child and then the form itself dirty. A redrawn
// background covers the children, so they must redraw too.
func (f *Form) Update() {
	for _, c := range f.children {
		c.Update()
	}
	f.Component.Update()
}

// Draw draws the form's background and then each child in insertion order,
// so later children paint over earlier ones.
func (f *Form) Draw(r Renderer) error {
	if err := f.Component.Draw(r); err != nil {
		return err
	}
	for _, c := range f.children {
		if err := c.Draw(r); err != nil {
			return err
		}
	}
	return nil
}

// Screen returns the surface the form draws on: the one given to it when it
// received focus, or its parent's for a nested form.
func (f *Form) Screen() (*ebiten.Image, error) {
	if f.screen != nil {
		return f.screen, nil
	}
	if f.parent != nil {
		return f.parent.Screen()
	}
	return nil, fmt.Errorf("tessera: form %q has never received focus: %w", f.Name, ErrInvalidHierarchy)
}

// setScreen is called by Instance when focus moves to or away from the form.
func (f *Form) setScreen(screen *ebiten.Image) {
	f.screen = screen
	f.requiresClear = false
}

// AddTimer registers t to be ticked while the form has focus. Adding a
// registered timer does nothing.
func (f *Form) AddTimer(t *Timer) {
	for _, existing := range f.timers {
		if existing == t {
			return
		}
	}
	f.timers = append(f.timers, t)
}

// RemoveTimer unregisters t.
func (f *Form) RemoveTimer(t *Timer) {
	for i, existing := range f.timers {
		if existing == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return
		}
	}
}

// Timers returns the registered timers. The returned slice must not be mutated.
func (f *Form) Timers() []*Timer { return f.timers }

// UpdateTimers ticks every registered timer at frameRate frames per second.
func (f *Form) UpdateTimers(frameRate int) {
	for _, t := range f.timers {
		t.Tick(frameRate)
	}
}

// SetFocus routes future key events to sink instead of the form's own
// handlers. A nil sink restores the form's handlers.
func (f *Form) SetFocus(sink KeyEventSink) { f.focus = sink }

// Focus returns the current focus sink, or nil.
func (f *Form) Focus() KeyEventSink { return f.focus }

// KeyDownHandlers returns the handlers raised on key press when no focus
// sink is set.
func (f *Form) KeyDownHandlers() *Handlers[KeyEvent] { return &f.keyDown }

// KeyUpHandlers returns the handlers raised on key release when no focus
// sink is set.
func (f *Form) KeyUpHandlers() *Handlers[KeyEvent] { return &f.keyUp }

// KeyDown implements KeyEventSink.
func (f *Form) KeyDown(e KeyEvent) {
	if f.focus != nil {
		f.focus.KeyDown(e)
		return
	}
	f.keyDown.RaiseEvents(e)
}

// KeyUp implements KeyEventSink.
func (f *Form) KeyUp(e KeyEvent) {
	if f.focus != nil {
		f.focus.KeyUp(e)
		return
	}
	f.keyUp.RaiseEvents(e)
}

// Dispose detaches every child and then the form itself.
func (f *Form) Dispose() {
	for _, c := range f.children {
		cc := c.AsComponent()
		cc.parent = nil
		cc.requiresClear = false
	}
	clear(f.children)
	f.children = f.children[:0]
	f.focus = nil
	f.Component.Dispose()
}
