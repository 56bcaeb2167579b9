package tessera

import (
	"bytes"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// Font wraps an Ebitengine text/v2 face.
type Font struct {
	face text.Face
	lh   float64 // cached line height
}

// DefaultFont returns a font backed by the 7x13 basic bitmap face. It needs
// no font files.
func DefaultFont() *Font {
	return newFont(text.NewGoXFace(basicfont.Face7x13))
}

// LoadFont loads a TrueType or OpenType font from raw data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("tessera: failed to parse font data: %w", err)
	}
	return newFont(&text.GoTextFace{Source: source, Size: size}), nil
}

func newFont(face text.Face) *Font {
	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}
}

// Face returns the underlying face for direct text/v2 rendering.
func (f *Font) Face() text.Face { return f.face }

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 { return f.lh }

// MeasureString returns the width and height of the rendered text.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// Render draws s in color c onto a new image sized to fit it. It returns nil
// for an empty string.
func (f *Font) Render(s string, c Color) *ebiten.Image {
	if s == "" {
		return nil
	}
	w, h := f.MeasureString(s)
	iw, ih := int(math.Ceil(w)), int(math.Ceil(h))
	if iw <= 0 || ih <= 0 {
		return nil
	}
	img := ebiten.NewImage(iw, ih)
	op := &text.DrawOptions{}
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	op.LineSpacing = f.lh
	text.Draw(img, s, f.face, op)
	return img
}

// Label is a component showing a line of text. Its image is re-rendered
// whenever the text or color changes; an empty label has no image.
type Label struct {
	Component

	text  string
	font  *Font
	color Color
}

var _ Widget = (*Label)(nil)

// NewLabel creates a label at pos showing s. A nil font uses DefaultFont.
func NewLabel(name string, pos Vector2D[int], s string, font *Font, c Color) *Label {
	l := &Label{}
	l.initLabel(l, name, pos, s, font, c)
	return l
}

func (l *Label) initLabel(self Widget, name string, pos Vector2D[int], s string, font *Font, c Color) {
	if font == nil {
		font = DefaultFont()
	}
	l.font = font
	l.color = c
	l.text = s
	l.InitComponent(self, name, pos, font.Render(s, c))
}

// Text returns the label's text.
func (l *Label) Text() string { return l.text }

// SetText changes the label's text and marks it dirty.
func (l *Label) SetText(s string) {
	if s == l.text {
		return
	}
	l.text = s
	l.rerender()
}

// Color returns the text color.
func (l *Label) Color() Color { return l.color }

// SetColor changes the text color and marks the label dirty.
func (l *Label) SetColor(c Color) {
	l.color = c
	l.rerender()
}

// Font returns the label's font.
func (l *Label) Font() *Font { return l.font }

func (l *Label) rerender() {
	old := l.image
	l.SetImage(l.font.Render(l.text, l.color))
	if old != nil {
		old.Deallocate()
	}
}

// TextBox is an editable label. It types the characters of key presses
// (see KeyToRune) up to MaxLength, deletes with Backspace, and raises its
// input handlers with the current text on Enter. Give it focus with
// Form.SetFocus.
type TextBox struct {
	Label

	// MaxLength caps the number of characters. Zero or less means no cap.
	MaxLength int

	input Handlers[string]
}

var (
	_ Widget       = (*TextBox)(nil)
	_ KeyEventSink = (*TextBox)(nil)
)

// NewTextBox creates an empty text box at pos.
func NewTextBox(name string, pos Vector2D[int], font *Font, c Color, maxLength int) *TextBox {
	tb := &TextBox{MaxLength: maxLength}
	tb.initLabel(tb, name, pos, "", font, c)
	return tb
}

// InputHandlers returns the handlers raised with the text when Enter is pressed.
func (tb *TextBox) InputHandlers() *Handlers[string] { return &tb.input }

// SetText replaces the text, cropped to MaxLength.
func (tb *TextBox) SetText(s string) {
	tb.Label.SetText(cropToLength(s, tb.MaxLength))
}

func (tb *TextBox) full() bool {
	return tb.MaxLength > 0 && utf8.RuneCountInString(tb.text) >= tb.MaxLength
}

// KeyDown implements KeyEventSink.
func (tb *TextBox) KeyDown(e KeyEvent) {
	switch e.Key {
	case ebiten.KeyBackspace:
		if tb.text == "" {
			return
		}
		_, size := utf8.DecodeLastRuneInString(tb.text)
		tb.SetText(tb.text[:len(tb.text)-size])
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		tb.input.RaiseEvents(tb.text)
	default:
		// Shortcuts are not text.
		if e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0 {
			return
		}
		r, ok := KeyToRune(e.Key, e.Modifiers)
		if !ok || tb.full() {
			return
		}
		tb.SetText(tb.text + string(r))
	}
}

// KeyUp implements KeyEventSink.
func (tb *TextBox) KeyUp(KeyEvent) {}

// cropToLength returns s cut to at most n runes. n <= 0 leaves s unchanged.
func cropToLength(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
