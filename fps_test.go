package tessera

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestAttachFPSCounter(t *testing.T) {
	f := NewForm("f", Vec(0, 0), ebiten.NewImage(200, 100))
	f.setScreen(ebiten.NewImage(200, 100))
	c, err := AttachFPSCounter(f, Vec(4, 4))
	if err != nil {
		t.Fatalf("AttachFPSCounter: %v", err)
	}
	if len(f.Children()) != 1 || f.Children()[0] != Widget(c) {
		t.Errorf("Children = %v, want the counter", f.Children())
	}
	if len(f.Timers()) != 1 || f.Timers()[0].Interval() != 500 {
		t.Fatalf("Timers = %v, want one 500ms timer", f.Timers())
	}
	if err := f.Draw(&fakeRenderer{}); err != nil {
		t.Fatal(err)
	}
	f.UpdateTimers(2) // one 500ms tick
	if !c.IsDirty() {
		t.Error("counter not marked dirty by its timer")
	}
}

func TestAttachFPSCounterOutOfBounds(t *testing.T) {
	f := NewForm("f", Vec(0, 0), ebiten.NewImage(50, 20))
	if _, err := AttachFPSCounter(f, Vec(0, 0)); err == nil {
		t.Error("counter larger than the form was attached")
	}
}
