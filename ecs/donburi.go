package ecs

import (
	"github.com/phanxgames/tessera"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// KeyEvent is a key transition published into a Donburi world.
type KeyEvent struct {
	tessera.KeyEvent
	Pressed bool
}

// TimerEvent is a completed timer cycle published into a Donburi world.
type TimerEvent struct {
	Timer *tessera.Timer
}

// KeyEventType is the Donburi event type for tessera key events.
var KeyEventType = events.NewEventType[KeyEvent]()

// TimerEventType is the Donburi event type for tessera timer cycles.
var TimerEventType = events.NewEventType[TimerEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a KeyEventSink that publishes to KeyEventType.
// Events are queued and delivered by events.ProcessAllEvents or
// KeyEventType.ProcessEvents.
func NewDonburiSink(world donburi.World) tessera.KeyEventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) KeyDown(e tessera.KeyEvent) {
	KeyEventType.Publish(s.world, KeyEvent{KeyEvent: e, Pressed: true})
}

func (s *donburiSink) KeyUp(e tessera.KeyEvent) {
	KeyEventType.Publish(s.world, KeyEvent{KeyEvent: e, Pressed: false})
}

// ForwardTimer publishes every cycle of t to TimerEventType. Remove the
// returned handle to stop forwarding.
func ForwardTimer(world donburi.World, t *tessera.Timer) tessera.CallbackHandle {
	return t.CycleCompleteHandlers().Add(func(t *tessera.Timer) {
		TimerEventType.Publish(world, TimerEvent{Timer: t})
	})
}
