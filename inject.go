package tessera

import "github.com/hajimehoshi/ebiten/v2"

// syntheticKeyEvent represents a single injected key transition.
type syntheticKeyEvent struct {
	key     ebiten.Key
	mods    KeyModifiers
	pressed bool
}

// InjectKeyDown queues a key press with the given modifiers. The event is
// delivered on the next frame in place of real keyboard input.
func (i *Instance) InjectKeyDown(k ebiten.Key, mods KeyModifiers) {
	i.injectQueue = append(i.injectQueue, syntheticKeyEvent{key: k, mods: mods, pressed: true})
}

// InjectKeyUp queues a key release with the given modifiers.
func (i *Instance) InjectKeyUp(k ebiten.Key, mods KeyModifiers) {
	i.injectQueue = append(i.injectQueue, syntheticKeyEvent{key: k, mods: mods, pressed: false})
}

// InjectKey is a convenience that queues a press followed by a release.
// Consumes two frames.
func (i *Instance) InjectKey(k ebiten.Key, mods KeyModifiers) {
	i.InjectKeyDown(k, mods)
	i.InjectKeyUp(k, mods)
}

// InjectText queues the key presses and releases that type s on a US layout.
// Characters with no key are skipped. Consumes two frames per character.
func (i *Instance) InjectText(s string) {
	for _, r := range s {
		k, mods, ok := runeToKey(r)
		if !ok {
			continue
		}
		i.InjectKey(k, mods)
	}
}

// runeToKey is the inverse of KeyToRune for unmodified caps lock.
func runeToKey(r rune) (ebiten.Key, KeyModifiers, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return letterKeys[r-'a'], 0, true
	case r >= 'A' && r <= 'Z':
		return letterKeys[r-'A'], ModShift, true
	}
	for k, s := range symbolKeys {
		if s.plain == r {
			return k, 0, true
		}
	}
	for k, s := range symbolKeys {
		if s.shifted == r {
			return k, ModShift, true
		}
	}
	return 0, 0, false
}

// processInjectedKeys pops one event from the inject queue and dispatches it.
// Returns true if an event was consumed (real keyboard input is skipped).
func (i *Instance) processInjectedKeys() bool {
	if len(i.injectQueue) == 0 {
		return false
	}
	evt := i.injectQueue[0]
	copy(i.injectQueue, i.injectQueue[1:])
	i.injectQueue = i.injectQueue[:len(i.injectQueue)-1]

	mods := evt.mods &^ ModCapsLock
	if i.capsLock {
		mods |= ModCapsLock
	}
	i.dispatchKey(evt.key, evt.pressed, mods)
	return true
}
