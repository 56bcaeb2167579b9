package tessera

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

func alphasEqual(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			return false
		}
	}
	return true
}

func TestFlashEffectAlphas(t *testing.T) {
	e := NewFlashEffect(nil, 4, 2, 0)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if got := e.Alphas(); !alphasEqual(got, want) {
		t.Errorf("Alphas = %v, want %v", got, want)
	}
	if e.Iterations() != 2 || e.FrameDelay() != 0 || e.RequiresDraw() {
		t.Errorf("iterations %d delay %v requiresDraw %v", e.Iterations(), e.FrameDelay(), e.RequiresDraw())
	}
}

func TestFadeEffectAlphas(t *testing.T) {
	in := NewFadeEffect(nil, 4, 400*time.Millisecond, FadeIn)
	if got, want := in.Alphas(), []float64{1, 0.75, 0.5, 0.25, 0}; !alphasEqual(got, want) {
		t.Errorf("fade in Alphas = %v, want %v", got, want)
	}
	if !in.RequiresDraw() {
		t.Error("fade in does not require a draw")
	}
	if in.FrameDelay() != 100*time.Millisecond {
		t.Errorf("FrameDelay = %v, want 100ms", in.FrameDelay())
	}

	out := NewFadeEffect(nil, 2, time.Second, FadeOut)
	if got, want := out.Alphas(), []float64{0, 0.5, 1}; !alphasEqual(got, want) {
		t.Errorf("fade out Alphas = %v, want %v", got, want)
	}
	if out.RequiresDraw() {
		t.Error("fade out requires a draw")
	}
}

func TestFadeEffectEase(t *testing.T) {
	e := NewFadeEffect(nil, 4, time.Second, FadeOut)
	e.Ease = ease.InQuad
	got := e.Alphas()
	if got[0] != 0 || got[len(got)-1] != 1 {
		t.Errorf("eased Alphas endpoints = %v", got)
	}
	if got[1] >= 0.25 {
		t.Errorf("InQuad step 1 = %v, want below linear 0.25", got[1])
	}
}

func TestOverlayEffectAlphas(t *testing.T) {
	e := NewOverlayEffect(nil, Color{1, 0, 0, 0.4}, time.Second)
	if got := e.Alphas(); !alphasEqual(got, []float64{0.4}) {
		t.Errorf("Alphas = %v, want [0.4]", got)
	}
}

func TestScreenEffectStartBuildsFrames(t *testing.T) {
	screen := ebiten.NewImage(100, 100)
	e := NewFlashEffect([]Dimensions2D[int]{Dims(10, 10, 20, 20), Dims(40, 40, 10, 10)}, 2, 1, 0)
	r := &fakeRenderer{}
	if err := e.start(r, screen); err != nil {
		t.Fatal(err)
	}
	if !e.Playing() {
		t.Fatal("Playing = false after start")
	}
	if e.area != image.Rect(10, 10, 50, 50) {
		t.Errorf("area = %v, want bounding rectangle", e.area)
	}
	if len(e.frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(e.frames))
	}
	// The first alpha is zero, so only two frames are tinted.
	overlays := r.only("overlay")
	if len(overlays) != 2 || overlays[1].color != (Color{1, 1, 1, 1}) {
		t.Errorf("overlays = %+v", overlays)
	}
	// The snapshot is released once the frames exist.
	if len(r.only("release")) != 1 {
		t.Errorf("releases = %d, want 1", len(r.only("release")))
	}
}

func TestScreenEffectWholeScreen(t *testing.T) {
	screen := ebiten.NewImage(64, 48)
	e := NewOverlayEffect(nil, ColorBlack, 0)
	if err := e.start(&fakeRenderer{}, screen); err != nil {
		t.Fatal(err)
	}
	if e.area != screen.Bounds() {
		t.Errorf("area = %v, want the whole screen", e.area)
	}
}

func TestScreenEffectOffScreen(t *testing.T) {
	e := NewFlashEffect([]Dimensions2D[int]{Dims(500, 500, 10, 10)}, 2, 1, 0)
	if err := e.start(&fakeRenderer{}, ebiten.NewImage(100, 100)); err == nil {
		t.Error("start accepted an off-screen area")
	}
}

func TestScreenEffectStepPerTick(t *testing.T) {
	screen := ebiten.NewImage(50, 50)
	e := NewFlashEffect(nil, 2, 2, 0) // 3 frames, 2 iterations
	r := &fakeRenderer{}
	if err := e.start(r, screen); err != nil {
		t.Fatal(err)
	}
	r.reset()
	var steps int
	for {
		done, err := e.step(r, screen, time.Millisecond)
		if err != nil {
			t.Fatal(err)
		}
		steps++
		if done {
			break
		}
		if steps > 100 {
			t.Fatal("effect never finished")
		}
	}
	if steps != 6 {
		t.Errorf("steps = %d, want 6", steps)
	}
	restores := r.only("restore")
	if len(restores) != 6 || restores[0].src != e.frames[0] || restores[3].src != e.frames[0] {
		t.Errorf("restores = %d, want frames played twice in order", len(restores))
	}

	e.finish(r)
	if e.Playing() {
		t.Error("Playing after finish")
	}
	if len(r.only("release")) != 3 {
		t.Errorf("released %d frames, want 3", len(r.only("release")))
	}
}

func TestScreenEffectStepWithDelay(t *testing.T) {
	screen := ebiten.NewImage(50, 50)
	e := NewFadeEffect(nil, 2, 100*time.Millisecond, FadeOut) // 50ms per frame, 3 frames
	r := &fakeRenderer{}
	_ = e.start(r, screen)
	r.reset()

	tick := 20 * time.Millisecond
	var ticks int
	for done := false; !done; ticks++ {
		var err error
		done, err = e.step(r, screen, tick)
		if err != nil {
			t.Fatal(err)
		}
		if ticks > 100 {
			t.Fatal("effect never finished")
		}
	}
	// 150ms of frames at 20ms per tick completes on the eighth tick.
	if ticks != 8 {
		t.Errorf("ticks = %d, want 8", ticks)
	}
	if len(r.only("restore")) != 3 {
		t.Errorf("frames shown = %d, want 3", len(r.only("restore")))
	}
}

func TestScreenEffectStepLongTick(t *testing.T) {
	screen := ebiten.NewImage(50, 50)
	e := NewFlashEffect(nil, 3, 1, 10*time.Millisecond)
	r := &fakeRenderer{}
	_ = e.start(r, screen)
	r.reset()
	done, err := e.step(r, screen, time.Second)
	if err != nil || !done {
		t.Errorf("step(1s) = %v, %v, want done", done, err)
	}
	if len(r.only("restore")) != 4 {
		t.Errorf("frames shown = %d, want 4", len(r.only("restore")))
	}
}

func TestScreenEffectStepNotStarted(t *testing.T) {
	e := NewFlashEffect(nil, 2, 1, 0)
	done, err := e.step(&fakeRenderer{}, ebiten.NewImage(10, 10), time.Millisecond)
	if !done || err != nil {
		t.Errorf("step before start = %v, %v, want done", done, err)
	}
}
