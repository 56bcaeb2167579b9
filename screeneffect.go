package tessera

import (
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// FadeDirection selects whether a fade reveals or hides the screen.
type FadeDirection uint8

const (
	FadeIn  FadeDirection = iota // from black to the screen contents
	FadeOut                      // from the screen contents to black
)

// ScreenEffect is a short full-screen (or partial) transition. When played by
// an Instance it snapshots the bounding rectangle of its portions, builds one
// frame per alpha step by tinting copies of the snapshot, and shows those
// frames over successive ticks. Key events are ignored while it plays.
type ScreenEffect struct {
	// Ease shapes the alpha ramp of flash and fade effects. Defaults to
	// ease.Linear.
	Ease ease.TweenFunc

	portions     []Dimensions2D[int]
	tint         Color
	steps        int
	ramp         [2]float64 // start and end alpha of the ramp
	final        float64    // alpha of the frame appended after the ramp
	iterations   int
	frameDelay   time.Duration
	requiresDraw bool

	frames    []*ebiten.Image
	area      image.Rectangle
	cursor    int
	iteration int
	elapsed   time.Duration
}

// NewFlashEffect creates a white flash over portions. Each iteration ramps
// the white overlay from clear to opaque over frames steps. A frameDelay
// below one tick shows one frame per tick.
func NewFlashEffect(portions []Dimensions2D[int], frames, iterations int, frameDelay time.Duration) *ScreenEffect {
	return &ScreenEffect{
		Ease:       ease.Linear,
		portions:   portions,
		tint:       ColorWhite,
		steps:      max(frames, 0),
		ramp:       [2]float64{0, 1},
		final:      1,
		iterations: max(iterations, 1),
		frameDelay: frameDelay,
	}
}

// NewFadeEffect creates a fade to or from black over portions lasting
// length, split into frames steps. Fading in needs the destination screen
// drawn first, so the Instance draws before snapshotting.
func NewFadeEffect(portions []Dimensions2D[int], frames int, length time.Duration, dir FadeDirection) *ScreenEffect {
	frames = max(frames, 1)
	e := &ScreenEffect{
		Ease:       ease.Linear,
		portions:   portions,
		tint:       ColorBlack,
		steps:      frames,
		iterations: 1,
		frameDelay: length / time.Duration(frames),
	}
	if dir == FadeIn {
		e.ramp = [2]float64{1, 0}
		e.final = 0
		e.requiresDraw = true
	} else {
		e.ramp = [2]float64{0, 1}
		e.final = 1
	}
	return e
}

// NewOverlayEffect tints portions with c for a single frame held for
// duration.
func NewOverlayEffect(portions []Dimensions2D[int], c Color, duration time.Duration) *ScreenEffect {
	return &ScreenEffect{
		Ease:       ease.Linear,
		portions:   portions,
		tint:       Color{c.R, c.G, c.B, 1},
		final:      c.A,
		iterations: 1,
		frameDelay: duration,
	}
}

// RequiresDraw reports whether the screen must be drawn before the effect
// takes its snapshot.
func (e *ScreenEffect) RequiresDraw() bool { return e.requiresDraw }

// Iterations returns how many times the frame sequence plays.
func (e *ScreenEffect) Iterations() int { return e.iterations }

// FrameDelay returns how long each frame is shown. Zero means one tick.
func (e *ScreenEffect) FrameDelay() time.Duration { return e.frameDelay }

// Alphas returns the overlay alpha of every frame in one iteration.
func (e *ScreenEffect) Alphas() []float64 {
	fn := e.Ease
	if fn == nil {
		fn = ease.Linear
	}
	alphas := make([]float64, 0, e.steps+1)
	for i := 0; i < e.steps; i++ {
		a := fn(float32(i), float32(e.ramp[0]), float32(e.ramp[1]-e.ramp[0]), float32(e.steps))
		alphas = append(alphas, clamp01(float64(a)))
	}
	return append(alphas, e.final)
}

// Playing reports whether the effect has generated frames and not finished.
func (e *ScreenEffect) Playing() bool { return e.frames != nil }

// start snapshots the effect area from screen and builds the frames.
func (e *ScreenEffect) start(r Renderer, screen *ebiten.Image) error {
	e.area = BoundingRectangle(e.portions).Rect().Intersect(screen.Bounds())
	if len(e.portions) == 0 {
		e.area = screen.Bounds()
	}
	if e.area.Empty() {
		return fmt.Errorf("tessera: screen effect area %v is off screen: %w", e.area, ErrOutOfBounds)
	}

	snapshot, err := r.NewSurface(e.area.Dx(), e.area.Dy())
	if err != nil {
		return err
	}
	defer r.Release(snapshot)
	if err := r.Restore(snapshot, screen, e.area, image.Point{}); err != nil {
		return err
	}

	alphas := e.Alphas()
	frames := make([]*ebiten.Image, 0, len(alphas))
	for _, a := range alphas {
		frame, err := r.NewSurface(e.area.Dx(), e.area.Dy())
		if err == nil {
			err = r.Restore(frame, snapshot, image.Rectangle{}, image.Point{})
		}
		if err == nil && a > 0 {
			err = r.Overlay(frame, Color{e.tint.R, e.tint.G, e.tint.B, a})
		}
		if err != nil {
			for _, f := range frames {
				r.Release(f)
			}
			r.Release(frame)
			return fmt.Errorf("tessera: screen effect frame %d: %w", len(frames), err)
		}
		frames = append(frames, frame)
	}
	e.frames = frames
	e.cursor, e.iteration, e.elapsed = 0, 0, 0
	return nil
}

// step advances playback by dt and draws any frames that became due. It
// reports true once every iteration has been shown.
func (e *ScreenEffect) step(r Renderer, screen *ebiten.Image, dt time.Duration) (bool, error) {
	if e.frames == nil {
		return true, nil
	}
	e.elapsed += dt
	for {
		if e.frameDelay > 0 {
			if e.elapsed < e.frameDelay {
				return false, nil
			}
			e.elapsed -= e.frameDelay
		}
		if err := r.Restore(screen, e.frames[e.cursor], image.Rectangle{}, e.area.Min); err != nil {
			return false, err
		}
		e.cursor++
		if e.cursor == len(e.frames) {
			e.cursor = 0
			e.iteration++
			if e.iteration >= e.iterations {
				return true, nil
			}
		}
		if e.frameDelay <= 0 {
			return false, nil
		}
	}
}

// finish releases the generated frames.
func (e *ScreenEffect) finish(r Renderer) {
	for _, f := range e.frames {
		r.Release(f)
	}
	e.frames = nil
}
