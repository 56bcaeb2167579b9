package tessera

import (
	"errors"
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// blockGrid builds a grid of size cells with 10x10 sprites at the given
// cells, anchored at the upper-left of block (0, 0).
func blockGrid(name string, size Bounds2D[int], cells ...Vector2D[int]) *SurfaceGrid {
	sg := NewSurfaceGrid(name, size, Size(10, 10), Vec(0, 0), UpperLeft)
	for _, c := range cells {
		if err := sg.Replace(ebiten.NewImage(10, 10), c); err != nil {
			panic(err)
		}
	}
	return sg
}

func newSGC(t *testing.T, pos Vector2D[int], clearing ClearingMethod, grids ...*SurfaceGrid) *SurfaceGridComponent {
	t.Helper()
	s, err := NewSurfaceGridComponent("sgc", pos, grids, clearing)
	if err != nil {
		t.Fatalf("NewSurfaceGridComponent: %v", err)
	}
	return s
}

func TestSurfaceGridComponentErrors(t *testing.T) {
	if _, err := NewSurfaceGridComponent("s", Vec(0, 0), nil, ClearPrecise); !errors.Is(err, ErrNullSurface) {
		t.Errorf("no grids err = %v, want ErrNullSurface", err)
	}
	g := blockGrid("g", Size(1, 1))
	if _, err := NewSurfaceGridComponent("s", Vec(0, 0), []*SurfaceGrid{g, nil}, ClearPrecise); !errors.Is(err, ErrNullSurface) {
		t.Errorf("nil grid err = %v, want ErrNullSurface", err)
	}
}

func TestSurfaceGridComponentFramesAreCopies(t *testing.T) {
	g := blockGrid("up", Size(2, 2), Vec(0, 0))
	s := newSGC(t, Vec(0, 0), ClearPrecise, g)
	_ = g.Replace(ebiten.NewImage(10, 10), Vec(1, 1))
	if s.CurrentSurfaceGrid().occupied(1, 1) {
		t.Error("frame shares cells with the source grid")
	}
	if s.CurrentSurfaceGrid().Name() != "up" {
		t.Errorf("frame name = %q, want up", s.CurrentSurfaceGrid().Name())
	}
}

func TestSurfaceGridComponentNextScenario(t *testing.T) {
	s := newSGC(t, Vec(0, 0), ClearPrecise, blockGrid("a", Size(1, 1)), blockGrid("b", Size(1, 1)))
	if s.FrameIndex() != 0 || s.FrameCount() != 2 {
		t.Fatalf("index %d count %d", s.FrameIndex(), s.FrameCount())
	}
	s.Next()
	if s.FrameIndex() != 1 {
		t.Errorf("after Next index = %d, want 1", s.FrameIndex())
	}
	s.Next()
	if s.FrameIndex() != 0 {
		t.Errorf("after second Next index = %d, want 0", s.FrameIndex())
	}
}

func TestSurfaceGridComponentFrameNavigation(t *testing.T) {
	s := newSGC(t, Vec(0, 0), ClearPrecise,
		blockGrid("a", Size(1, 1)), blockGrid("b", Size(1, 1)), blockGrid("c", Size(1, 1)))

	s.dirty = false
	s.Previous()
	if s.FrameIndex() != 2 || !s.IsDirty() {
		t.Errorf("Previous from 0: index %d dirty %v", s.FrameIndex(), s.IsDirty())
	}
	s.First()
	if s.FrameIndex() != 0 {
		t.Errorf("First index = %d", s.FrameIndex())
	}
	if err := s.SetFrame("b"); err != nil || s.FrameIndex() != 1 {
		t.Errorf("SetFrame(b) = %v, index %d", err, s.FrameIndex())
	}
	if err := s.SetFrame("zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetFrame(zzz) err = %v, want ErrNotFound", err)
	}
	if s.FrameIndex() != 1 {
		t.Error("failed SetFrame changed the frame")
	}
}

func TestSurfaceGridComponentSize(t *testing.T) {
	s := newSGC(t, Vec(0, 0), ClearPrecise, blockGrid("wide", Size(4, 1)), blockGrid("tall", Size(1, 3)))
	if s.Width() != 40 || s.Height() != 10 {
		t.Errorf("frame 0 size = %dx%d, want 40x10", s.Width(), s.Height())
	}
	s.Next()
	if s.Width() != 10 || s.Height() != 30 {
		t.Errorf("frame 1 size = %dx%d, want 10x30", s.Width(), s.Height())
	}
}

func TestSurfaceGridComponentCurrentSurfaceOps(t *testing.T) {
	s := newSGC(t, Vec(0, 0), ClearPrecise, blockGrid("g", Size(2, 2), Vec(0, 0), Vec(1, 1)))

	s.dirty = false
	if err := s.ClearCurrentSurfaces(nil); err != nil {
		t.Fatal(err)
	}
	if !s.IsDirty() || s.CurrentSurfaceGrid().occupied(0, 0) {
		t.Error("ClearCurrentSurfaces did not clear and mark dirty")
	}

	s.dirty = false
	piece := blockGrid("p", Size(1, 1), Vec(0, 0))
	if err := s.ReplaceCurrentSurfaces(piece, Vec(1, 0), false, nil); err != nil {
		t.Fatal(err)
	}
	if !s.IsDirty() || !s.CurrentSurfaceGrid().occupied(1, 0) {
		t.Error("ReplaceCurrentSurfaces did not paste and mark dirty")
	}

	s.dirty = false
	c, err := s.CopyCurrentSurfaces(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.IsDirty() {
		t.Error("CopyCurrentSurfaces marked dirty")
	}
	if !c.occupied(1, 0) {
		t.Error("copy missed a cell")
	}

	s.dirty = false
	if err := s.ReplaceCurrentSurfaces(piece, Vec(5, 5), false, nil); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("paste outside err = %v, want ErrOutOfBounds", err)
	}
	if s.IsDirty() {
		t.Error("failed paste marked dirty")
	}
}

func TestSurfaceGridComponentAddChildUsesAnchor(t *testing.T) {
	f, _ := focusedForm("f", Vec(0, 0), 40, 40)
	g := NewSurfaceGrid("g", Size(2, 2), Size(10, 10), Vec(1, 1), UpperLeft)

	// Anchor (10, 10) at position (10, 10): the grid covers (0,0)-(20,20).
	s := newSGC(t, Vec(10, 10), ClearPrecise, g)
	if err := f.AddChild(s); err != nil {
		t.Errorf("anchored grid inside form rejected: %v", err)
	}
	// At (5, 5) the grid would start at (-5, -5).
	s2 := newSGC(t, Vec(5, 5), ClearPrecise, g)
	if err := f.AddChild(s2); !errors.Is(err, ErrInvalidHierarchy) {
		t.Errorf("anchored grid outside form err = %v, want ErrInvalidHierarchy", err)
	}
}

func TestSurfaceGridComponentDrawAndPreciseClear(t *testing.T) {
	f, screen := focusedForm("f", Vec(0, 0), 100, 100)
	s := newSGC(t, Vec(20, 20), ClearPrecise, blockGrid("g", Size(2, 2), Vec(0, 0), Vec(1, 1)))
	_ = f.AddChild(s)

	r := &fakeRenderer{}
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	blits := r.only("blit")
	if len(blits) != 2 || blits[0].at != image.Pt(20, 20) || blits[1].at != image.Pt(30, 30) {
		t.Fatalf("blits = %+v", blits)
	}

	s.SetPosition(Vec(50, 50))
	r.reset()
	if err := s.Draw(r); err != nil {
		t.Fatal(err)
	}
	restores := r.only("restore")
	if len(restores) != 2 {
		t.Fatalf("restores = %d, want one per occupied cell", len(restores))
	}
	if restores[0].dst != screen || restores[0].src != f.Image() {
		t.Error("restore did not use the form background")
	}
	if restores[0].rect != image.Rect(20, 20, 30, 30) || restores[0].at != image.Pt(20, 20) {
		t.Errorf("restore 0 rect %v at %v", restores[0].rect, restores[0].at)
	}
	if restores[1].rect != image.Rect(30, 30, 40, 40) || restores[1].at != image.Pt(30, 30) {
		t.Errorf("restore 1 rect %v at %v", restores[1].rect, restores[1].at)
	}
}

func TestSurfaceGridComponentPreciseClearUsesPreviousCells(t *testing.T) {
	f, _ := focusedForm("f", Vec(0, 0), 100, 100)
	s := newSGC(t, Vec(0, 0), ClearPrecise, blockGrid("g", Size(2, 1), Vec(0, 0)))
	_ = f.AddChild(s)
	r := &fakeRenderer{}
	_ = s.Draw(r)

	// Filling a new cell must not clear it: only the previously drawn
	// cell is restored.
	_ = s.ReplaceCurrentSurfaces(blockGrid("p", Size(1, 1), Vec(0, 0)), Vec(1, 0), false, nil)
	r.reset()
	_ = s.Draw(r)
	restores := r.only("restore")
	if len(restores) != 1 || restores[0].rect != image.Rect(0, 0, 10, 10) {
		t.Errorf("restores = %+v, want only cell (0, 0)", restores)
	}
	if len(r.only("blit")) != 2 {
		t.Errorf("blits = %d, want 2", len(r.only("blit")))
	}
}

func TestSurfaceGridComponentBoundingBoxClear(t *testing.T) {
	f, _ := focusedForm("f", Vec(0, 0), 100, 100)
	s := newSGC(t, Vec(10, 10), ClearBoundingBox, blockGrid("g", Size(3, 2), Vec(0, 0), Vec(2, 1)))
	_ = f.AddChild(s)
	r := &fakeRenderer{}
	_ = s.Draw(r)
	s.AddToLeft(10)
	r.reset()
	_ = s.Draw(r)
	restores := r.only("restore")
	if len(restores) != 1 {
		t.Fatalf("restores = %d, want 1", len(restores))
	}
	if restores[0].rect != image.Rect(10, 10, 40, 30) || restores[0].at != image.Pt(10, 10) {
		t.Errorf("restore rect %v at %v", restores[0].rect, restores[0].at)
	}
}

func TestSurfacesCollide(t *testing.T) {
	board := newSGC(t, Vec(0, 0), ClearPrecise, blockGrid("board", Size(4, 4), Vec(2, 3)))
	tests := []struct {
		name    string
		pos     Vector2D[int]
		cells   []Vector2D[int]
		outside bool
		want    bool
	}{
		{"overlap", Vec(20, 20), []Vector2D[int]{{0, 1}}, false, true},
		{"adjacent", Vec(20, 20), []Vector2D[int]{{1, 1}}, false, false},
		{"misaligned", Vec(25, 20), []Vector2D[int]{{0, 1}}, false, false},
		{"outside ignored", Vec(40, 0), []Vector2D[int]{{0, 0}}, false, false},
		{"outside counts", Vec(40, 0), []Vector2D[int]{{0, 0}}, true, true},
		{"empty cell outside ignored", Vec(30, 30), []Vector2D[int]{{0, 0}}, true, false},
	}
	for _, tt := range tests {
		piece := newSGC(t, tt.pos, ClearPrecise, blockGrid("piece", Size(2, 2), tt.cells...))
		if got := board.SurfacesCollide(piece, tt.outside); got != tt.want {
			t.Errorf("%s: SurfacesCollide = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSurfacesCollideSymmetric(t *testing.T) {
	a := newSGC(t, Vec(0, 0), ClearPrecise, blockGrid("a", Size(3, 3), Vec(1, 1)))
	b := newSGC(t, Vec(10, 10), ClearPrecise, blockGrid("b", Size(3, 3), Vec(0, 0)))
	if !a.SurfacesCollide(b, false) || !b.SurfacesCollide(a, false) {
		t.Error("overlapping grids do not collide both ways")
	}
	b.SetPosition(Vec(20, 10))
	if a.SurfacesCollide(b, false) || b.SurfacesCollide(a, false) {
		t.Error("separated grids collide")
	}
}

func TestSurfacesCollideSizeMismatch(t *testing.T) {
	a := newSGC(t, Vec(0, 0), ClearPrecise, blockGrid("a", Size(2, 2), Vec(0, 0)))
	small := NewSurfaceGrid("small", Size(2, 2), Size(5, 5), Vec(0, 0), UpperLeft)
	_ = small.Replace(ebiten.NewImage(5, 5), Vec(0, 0))
	b := newSGC(t, Vec(0, 0), ClearPrecise, small)
	if a.SurfacesCollide(b, true) {
		t.Error("grids with different surface sizes collide")
	}
}

func TestSurfacesCollideAnchors(t *testing.T) {
	board := newSGC(t, Vec(0, 0), ClearPrecise, blockGrid("board", Size(4, 4), Vec(2, 2)))
	g := NewSurfaceGrid("piece", Size(3, 3), Size(10, 10), Vec(1, 1), Center)
	_ = g.Replace(ebiten.NewImage(10, 10), Vec(1, 1))
	// Anchor (15, 15) at (25, 25): block (1, 1) covers board cell (2, 2).
	piece := newSGC(t, Vec(25, 25), ClearPrecise, g)
	if !board.SurfacesCollide(piece, false) {
		t.Error("anchored piece does not collide")
	}
}
