package tessera

import "github.com/hajimehoshi/ebiten/v2"

var letterKeys = [26]ebiten.Key{
	ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
	ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL,
	ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
	ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX,
	ebiten.KeyY, ebiten.KeyZ,
}

// symbolKey pairs the unshifted and shifted characters of a US layout key.
type symbolKey struct {
	plain, shifted rune
}

var symbolKeys = map[ebiten.Key]symbolKey{
	ebiten.KeyDigit0:       {'0', ')'},
	ebiten.KeyDigit1:       {'1', '!'},
	ebiten.KeyDigit2:       {'2', '@'},
	ebiten.KeyDigit3:       {'3', '#'},
	ebiten.KeyDigit4:       {'4', '$'},
	ebiten.KeyDigit5:       {'5', '%'},
	ebiten.KeyDigit6:       {'6', '^'},
	ebiten.KeyDigit7:       {'7', '&'},
	ebiten.KeyDigit8:       {'8', '*'},
	ebiten.KeyDigit9:       {'9', '('},
	ebiten.KeySpace:        {' ', ' '},
	ebiten.KeyMinus:        {'-', '_'},
	ebiten.KeyEqual:        {'=', '+'},
	ebiten.KeyBracketLeft:  {'[', '{'},
	ebiten.KeyBracketRight: {']', '}'},
	ebiten.KeyBackslash:    {'\\', '|'},
	ebiten.KeySemicolon:    {';', ':'},
	ebiten.KeyQuote:        {'\'', '"'},
	ebiten.KeyComma:        {',', '<'},
	ebiten.KeyPeriod:       {'.', '>'},
	ebiten.KeySlash:        {'/', '?'},
	ebiten.KeyBackquote:    {'`', '~'},
}

// numpadKeys produce the same character regardless of modifiers.
var numpadKeys = map[ebiten.Key]rune{
	ebiten.KeyNumpad0:        '0',
	ebiten.KeyNumpad1:        '1',
	ebiten.KeyNumpad2:        '2',
	ebiten.KeyNumpad3:        '3',
	ebiten.KeyNumpad4:        '4',
	ebiten.KeyNumpad5:        '5',
	ebiten.KeyNumpad6:        '6',
	ebiten.KeyNumpad7:        '7',
	ebiten.KeyNumpad8:        '8',
	ebiten.KeyNumpad9:        '9',
	ebiten.KeyNumpadAdd:      '+',
	ebiten.KeyNumpadSubtract: '-',
	ebiten.KeyNumpadMultiply: '*',
	ebiten.KeyNumpadDivide:   '/',
	ebiten.KeyNumpadDecimal:  '.',
}

// KeyToRune maps a key and modifier state to the character it types on a US
// layout. Letters are upper case when exactly one of shift and caps lock is
// active; other keys use their shifted character while shift is held. It
// reports false for keys that type nothing.
func KeyToRune(k ebiten.Key, mods KeyModifiers) (rune, bool) {
	for i, lk := range letterKeys {
		if lk == k {
			if mods.Has(ModShift) != mods.Has(ModCapsLock) {
				return 'A' + rune(i), true
			}
			return 'a' + rune(i), true
		}
	}
	if s, ok := symbolKeys[k]; ok {
		if mods.Has(ModShift) {
			return s.shifted, true
		}
		return s.plain, true
	}
	if r, ok := numpadKeys[k]; ok {
		return r, true
	}
	return 0, false
}

// keyByName finds a key by the name ebiten.Key.String reports for it, such
// as "A", "Digit1" or "ArrowLeft".
func keyByName(name string) (ebiten.Key, bool) {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
