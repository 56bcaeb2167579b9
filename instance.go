package tessera

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// activeInstance is the Instance currently inside Run. Only one may run.
var activeInstance *Instance

// Instance is the application: it owns the persistent canvas every form
// draws on, the focused form, the running screen effect and the optional
// audio device. It implements ebiten.Game; pass it to ebiten.RunGame or call
// Run.
//
// Drawing happens in Update. Only dirty components are redrawn onto the
// canvas, which keeps its pixels between frames; Draw copies it to the screen.
type Instance struct {
	config   RunConfig
	renderer Renderer
	canvas   *ebiten.Image
	focus    *Form
	effect   *ScreenEffect
	audio    *Audio

	debug    bool
	quit     bool
	capsLock bool
	keyBuf   []ebiten.Key

	runStart Handlers[*Instance]

	// ScreenshotDir is the directory where screenshot PNGs are written.
	ScreenshotDir string

	screenshotQueue []string
	injectQueue     []syntheticKeyEvent
	testRunner      *TestRunner
}

var _ ebiten.Game = (*Instance)(nil)

// NewInstance validates cfg and allocates the canvas through r. A nil r
// uses EbitenRenderer.
func NewInstance(cfg RunConfig, r Renderer) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = EbitenRenderer{}
	}
	canvas, err := r.NewSurface(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("tessera: allocate canvas: %w", err)
	}
	i := &Instance{
		config:        cfg,
		renderer:      r,
		canvas:        canvas,
		ScreenshotDir: cfg.ScreenshotDir,
	}
	i.SetDebugMode(cfg.Debug)
	return i, nil
}

// Config returns the configuration the instance was created with.
func (i *Instance) Config() RunConfig { return i.config }

// Renderer returns the renderer components are drawn with.
func (i *Instance) Renderer() Renderer { return i.renderer }

// Screen returns the canvas.
func (i *Instance) Screen() *ebiten.Image { return i.canvas }

// FrameRate returns the configured ticks per second. Timers are advanced
// with this rate.
func (i *Instance) FrameRate() int { return i.config.FrameRate }

// SetDebugMode enables or disables debug mode. When enabled, per-frame draw
// statistics and tree shape warnings are logged through Logger.
func (i *Instance) SetDebugMode(enabled bool) {
	i.debug = enabled
	globalDebug = enabled
}

// RunStartHandlers returns the handlers raised when Run starts the loop.
func (i *Instance) RunStartHandlers() *Handlers[*Instance] { return &i.runStart }

// Focus returns the focused form, or nil.
func (i *Instance) Focus() *Form { return i.focus }

// SetFocus makes f the form that is drawn, receives key events and ticks its
// timers. f is given the canvas as its screen and redrawn in full; the
// previously focused form loses its screen.
func (i *Instance) SetFocus(f *Form) {
	if i.focus == f {
		return
	}
	if i.focus != nil {
		i.focus.setScreen(nil)
	}
	i.focus = f
	if f != nil {
		f.setScreen(i.canvas)
		f.Update()
		Logger().Info("tessera: focus", "form", f.Name)
	}
}

// DrawFocus runs the focused form's draw cycle onto the canvas.
func (i *Instance) DrawFocus() error {
	if i.focus == nil {
		return nil
	}
	var t0 time.Time
	if i.debug {
		t0 = time.Now()
		resetDrawCount()
	}
	if err := i.focus.Draw(i.renderer); err != nil {
		return err
	}
	if i.debug {
		i.debugLog(debugStats{drawTime: time.Since(t0), drawCount: frameDraws})
	}
	return nil
}

// PerformScreenEffect starts e. If e needs the current screen, the focused
// form is drawn first. Timers, key events and drawing pause until e ends.
func (i *Instance) PerformScreenEffect(e *ScreenEffect) error {
	if i.effect != nil {
		i.effect.finish(i.renderer)
		i.effect = nil
	}
	if e.RequiresDraw() {
		if err := i.DrawFocus(); err != nil {
			return err
		}
	}
	if err := e.start(i.renderer, i.canvas); err != nil {
		return err
	}
	i.effect = e
	Logger().Info("tessera: screen effect started", "frames", len(e.frames), "iterations", e.iterations)
	return nil
}

// ScreenEffectPlaying reports whether a screen effect is running.
func (i *Instance) ScreenEffectPlaying() bool { return i.effect != nil }

// InitializeAudio opens the speaker using the audio section of the config.
func (i *Instance) InitializeAudio() error {
	if i.audio != nil {
		return nil
	}
	a, err := NewAudio(i.config.Audio)
	if err != nil {
		return err
	}
	i.audio = a
	return nil
}

// Audio returns the audio device opened by InitializeAudio.
func (i *Instance) Audio() (*Audio, error) {
	if i.audio == nil {
		return nil, fmt.Errorf("tessera: audio: %w", ErrNotInitialized)
	}
	return i.audio, nil
}

// Quit ends the loop after the current frame.
func (i *Instance) Quit() { i.quit = true }

// KeyIsPressed reports whether k is held down.
func (i *Instance) KeyIsPressed(k ebiten.Key) bool { return ebiten.IsKeyPressed(k) }

// SetCaption sets the window title.
func (i *Instance) SetCaption(title string) {
	i.config.Title = title
	ebiten.SetWindowTitle(title)
}

// SetCursorVisible shows or hides the mouse cursor over the window.
func (i *Instance) SetCursorVisible(visible bool) {
	i.config.ShowCursor = visible
	if visible {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
}

func (i *Instance) tickDuration() time.Duration {
	return time.Second / time.Duration(i.config.FrameRate)
}

// Update advances one frame: scripted test steps, audio events, the running
// screen effect or else timers, key events and drawing.
func (i *Instance) Update() error {
	if i.quit {
		return ebiten.Termination
	}
	if i.testRunner != nil {
		i.testRunner.step(i)
	}
	if i.audio != nil {
		i.audio.poll()
	}

	if i.effect != nil {
		done, err := i.effect.step(i.renderer, i.canvas, i.tickDuration())
		if err != nil || done {
			i.effect.finish(i.renderer)
			i.effect = nil
		}
		if err != nil {
			return fmt.Errorf("tessera: screen effect: %w", err)
		}
		// Drop key events that arrived during playback.
		i.readKeys(readModifiers(i.capsLock))
		return nil
	}

	if i.focus != nil {
		i.focus.UpdateTimers(i.config.FrameRate)
	}
	i.processKeys()
	return i.DrawFocus()
}

// Draw copies the canvas to the screen and writes queued screenshots.
func (i *Instance) Draw(screen *ebiten.Image) {
	screen.DrawImage(i.canvas, nil)
	i.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The logical screen is always the
// configured size; Ebitengine scales it to the window.
func (i *Instance) Layout(_, _ int) (int, int) {
	return i.config.Width, i.config.Height
}

// Run configures the window from the config and runs the game loop until
// Quit, Alt+F4 or a draw error. Only one Instance may run at a time.
func (i *Instance) Run() error {
	if activeInstance != nil {
		return errors.New("tessera: another instance is already running")
	}
	activeInstance = i
	defer func() { activeInstance = nil }()

	cfg := i.config
	scale := max(cfg.WindowScale, 1)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width*scale, cfg.Height*scale)
	ebiten.SetTPS(cfg.FrameRate)
	ebiten.SetFullscreen(cfg.FullScreen)
	i.SetCursorVisible(cfg.ShowCursor)

	if cfg.Audio.Enabled {
		if err := i.InitializeAudio(); err != nil {
			return err
		}
	}

	i.runStart.RaiseEvents(i)
	err := ebiten.RunGame(i)
	if i.audio != nil {
		i.audio.Close()
	}
	return err
}

// readModifiers returns the modifier keys currently held, plus the tracked
// caps lock state.
func readModifiers(capsLock bool) KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	if capsLock {
		mods |= ModCapsLock
	}
	return mods
}

// processKeys dispatches this frame's key transitions. An injected event, if
// any, replaces real keyboard input for the frame.
func (i *Instance) processKeys() {
	mods := readModifiers(i.capsLock)
	if i.processInjectedKeys() {
		return
	}
	i.readKeys(mods)
}

// readKeys dispatches real key presses then releases. While a screen effect
// plays the keys are read and discarded.
func (i *Instance) readKeys(mods KeyModifiers) {
	playing := i.effect != nil
	i.keyBuf = inpututil.AppendJustPressedKeys(i.keyBuf[:0])
	for _, k := range i.keyBuf {
		if !playing {
			mods = i.dispatchKey(k, true, mods)
		}
	}
	i.keyBuf = inpututil.AppendJustReleasedKeys(i.keyBuf[:0])
	for _, k := range i.keyBuf {
		if !playing {
			mods = i.dispatchKey(k, false, mods)
		}
	}
}

// dispatchKey handles the keys the instance owns and forwards the rest to the
// focused form. It returns mods updated for a caps lock toggle.
func (i *Instance) dispatchKey(k ebiten.Key, down bool, mods KeyModifiers) KeyModifiers {
	if down && k == ebiten.KeyCapsLock {
		i.capsLock = !i.capsLock
		mods ^= ModCapsLock
	}
	if down && k == ebiten.KeyF4 && mods.Has(ModAlt) {
		i.Quit()
		return mods
	}
	if i.focus == nil {
		return mods
	}
	e := KeyEvent{Key: k, Modifiers: mods}
	if down {
		i.focus.KeyDown(e)
	} else {
		i.focus.KeyUp(e)
	}
	return mods
}
