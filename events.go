package tessera

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// Handler receives events of type T. Native callbacks use HandlerFunc; a
// scripting binding implements Handler with its own trampoline so scripted
// and native handlers share one collection.
type Handler[T any] interface {
	RaiseEvent(T)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc[T any] func(T)

// RaiseEvent calls f(v).
func (f HandlerFunc[T]) RaiseEvent(v T) { f(v) }

type handlerEntry[T any] struct {
	id uint32
	h  Handler[T]
}

// Handlers is an ordered collection of event handlers. The zero value is
// ready to use.
type Handlers[T any] struct {
	entries []handlerEntry[T]
	nextID  uint32
	scratch []handlerEntry[T]
	depth   int // nested RaiseEvents calls in progress
}

// CallbackHandle allows removing a registered handler.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the handler so it no longer fires. Removing twice is
// harmless.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

// Add registers fn and returns a handle for removing it.
func (hs *Handlers[T]) Add(fn func(T)) CallbackHandle {
	return hs.AddHandler(HandlerFunc[T](fn))
}

// AddHandler registers h and returns a handle for removing it.
func (hs *Handlers[T]) AddHandler(h Handler[T]) CallbackHandle {
	hs.nextID++
	id := hs.nextID
	hs.entries = append(hs.entries, handlerEntry[T]{id: id, h: h})
	return CallbackHandle{remove: func() { hs.remove(id) }}
}

func (hs *Handlers[T]) remove(id uint32) {
	for i := range hs.entries {
		if hs.entries[i].id == id {
			copy(hs.entries[i:], hs.entries[i+1:])
			hs.entries[len(hs.entries)-1] = handlerEntry[T]{}
			hs.entries = hs.entries[:len(hs.entries)-1]
			return
		}
	}
}

// RaiseEvents calls every handler with v in registration order. Handlers
// added or removed while raising take effect on the next call. A handler may
// raise the same collection again.
func (hs *Handlers[T]) RaiseEvents(v T) {
	if len(hs.entries) == 0 {
		return
	}
	// The shared scratch buffer is only safe for the outermost call.
	var snap []handlerEntry[T]
	if hs.depth == 0 {
		hs.scratch = append(hs.scratch[:0], hs.entries...)
		snap = hs.scratch
	} else {
		snap = slices.Clone(hs.entries)
	}
	hs.depth++
	defer func() {
		hs.depth--
		if hs.depth == 0 {
			clear(hs.scratch)
		}
	}()
	for _, e := range snap {
		e.h.RaiseEvent(v)
	}
}

// Len returns the number of registered handlers.
func (hs *Handlers[T]) Len() int { return len(hs.entries) }

// Clear removes every handler.
func (hs *Handlers[T]) Clear() {
	clear(hs.entries)
	hs.entries = hs.entries[:0]
}

// KeyEvent describes a key transition delivered to a KeyEventSink.
type KeyEvent struct {
	Key       ebiten.Key
	Modifiers KeyModifiers
}

// KeyEventSink receives key presses and releases. Forms and text boxes
// implement it; a Form forwards to its focus sink when one is set.
type KeyEventSink interface {
	KeyDown(KeyEvent)
	KeyUp(KeyEvent)
}
