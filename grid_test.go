package tessera

import (
	"errors"
	"testing"
)

func TestGridScenario(t *testing.T) {
	g := NewGrid[int](3, 3)
	if _, err := g.Get(1, 1); !errors.Is(err, ErrEmptyCell) {
		t.Fatalf("Get before Set err = %v, want ErrEmptyCell", err)
	}
	if err := g.Set(1, 1, 42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := g.Get(1, 1); err != nil || v != 42 {
		t.Errorf("Get(1, 1) = %d, %v, want 42", v, err)
	}
	if _, err := g.Get(5, 5); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Get(5, 5) err = %v, want ErrOutOfBounds", err)
	}
}

func TestGridBounds(t *testing.T) {
	g := NewGrid[string](4, 2)
	if g.Width() != 4 || g.Height() != 2 {
		t.Fatalf("size = %dx%d, want 4x2", g.Width(), g.Height())
	}
	for _, p := range []Vector2D[int]{{-1, 0}, {0, -1}, {4, 0}, {0, 2}} {
		if g.InBounds(p.X, p.Y) {
			t.Errorf("InBounds(%v) = true", p)
		}
		if err := g.Set(p.X, p.Y, "x"); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%v) err = %v, want ErrOutOfBounds", p, err)
		}
		if err := g.Clear(p.X, p.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Clear(%v) err = %v, want ErrOutOfBounds", p, err)
		}
	}
	if !g.InBounds(3, 1) {
		t.Error("InBounds(3, 1) = false")
	}
}

func TestGridNegativeSize(t *testing.T) {
	g := NewGrid[int](-2, 5)
	if g.Width() != 0 || g.Height() != 5 {
		t.Errorf("size = %dx%d, want 0x5", g.Width(), g.Height())
	}
	if _, err := g.Get(0, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Get err = %v, want ErrOutOfBounds", err)
	}
}

func TestGridSetOverwritesAndClear(t *testing.T) {
	g := NewGrid[int](2, 2)
	_ = g.Set(0, 1, 1)
	_ = g.Set(0, 1, 2)
	if v, _ := g.Get(0, 1); v != 2 {
		t.Errorf("Get = %d, want 2", v)
	}
	if err := g.Clear(0, 1); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := g.Get(0, 1); !errors.Is(err, ErrEmptyCell) {
		t.Errorf("Get after Clear err = %v, want ErrEmptyCell", err)
	}
}

func TestGridZeroValueIsPresent(t *testing.T) {
	g := NewGrid[int](1, 1)
	_ = g.Set(0, 0, 0)
	if v, err := g.Get(0, 0); err != nil || v != 0 {
		t.Errorf("Get = %d, %v, want stored zero", v, err)
	}
}

func TestGridRowMajorIndependence(t *testing.T) {
	g := NewGrid[int](3, 2)
	for x := 0; x < 3; x++ {
		for y := 0; y < 2; y++ {
			_ = g.Set(x, y, x*10+y)
		}
	}
	for x := 0; x < 3; x++ {
		for y := 0; y < 2; y++ {
			if v, _ := g.Get(x, y); v != x*10+y {
				t.Errorf("Get(%d, %d) = %d, want %d", x, y, v, x*10+y)
			}
		}
	}
}

func TestGridClone(t *testing.T) {
	g := NewGrid[int](2, 2)
	_ = g.Set(1, 0, 7)
	c := g.Clone()
	_ = c.Set(1, 0, 8)
	_ = c.Set(0, 0, 9)

	if v, _ := g.Get(1, 0); v != 7 {
		t.Errorf("original (1, 0) = %d, want 7", v)
	}
	if _, err := g.Get(0, 0); !errors.Is(err, ErrEmptyCell) {
		t.Errorf("original (0, 0) err = %v, want ErrEmptyCell", err)
	}
	if _, err := c.Get(0, 1); !errors.Is(err, ErrEmptyCell) {
		t.Errorf("clone (0, 1) err = %v, want ErrEmptyCell", err)
	}
}
