// Package ecs bridges tessera events into a [Donburi] world.
//
// [NewDonburiSink] returns a key event sink that publishes every key press
// and release as a [KeyEvent]. Install it as a form's focus sink, or call it
// from a form's key handlers, and subscribe to [KeyEventType] in your
// systems. [ForwardTimer] does the same for timer cycles.
//
// Usage:
//
//	form.SetFocus(ecs.NewDonburiSink(world))
//	ecs.ForwardTimer(world, gravity)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
