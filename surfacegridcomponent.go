package tessera

import (
	"fmt"
	"image"
)

// SurfaceGridComponent is a component drawn from a SurfaceGrid instead of a
// single image. It holds a list of grids used as animation frames and can
// test its occupied cells against another SurfaceGridComponent.
//
// The component's position is where the current grid's anchor is drawn.
type SurfaceGridComponent struct {
	Component

	frames   []*SurfaceGrid
	current  int
	clearing ClearingMethod
	previous *SurfaceGrid // snapshot of the last blitted grid, precise clearing only
}

var _ Widget = (*SurfaceGridComponent)(nil)

// NewSurfaceGridComponent creates a component whose frames are copies of
// grids. The first grid is the current frame.
func NewSurfaceGridComponent(name string, pos Vector2D[int], grids []*SurfaceGrid, clearing ClearingMethod) (*SurfaceGridComponent, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("tessera: surface grid component %q: no surface grids: %w", name, ErrNullSurface)
	}
	sgc := &SurfaceGridComponent{clearing: clearing}
	sgc.frames = make([]*SurfaceGrid, len(grids))
	for i, g := range grids {
		if g == nil {
			return nil, fmt.Errorf("tessera: surface grid component %q: grid %d: %w", name, i, ErrNullSurface)
		}
		c, _ := g.Copy(nil)
		c.name = g.name
		sgc.frames[i] = c
	}
	sgc.InitComponent(sgc, name, pos, nil)
	return sgc, nil
}

// CurrentSurfaceGrid returns the grid of the current frame. Changes made
// through it are not seen until the component is marked dirty.
func (s *SurfaceGridComponent) CurrentSurfaceGrid() *SurfaceGrid { return s.frames[s.current] }

// FrameIndex returns the index of the current frame.
func (s *SurfaceGridComponent) FrameIndex() int { return s.current }

// FrameCount returns the number of frames.
func (s *SurfaceGridComponent) FrameCount() int { return len(s.frames) }

// ClearingMethod returns how the previous frame is erased.
func (s *SurfaceGridComponent) ClearingMethod() ClearingMethod { return s.clearing }

// First makes the first frame current.
func (s *SurfaceGridComponent) First() {
	s.current = 0
	s.this.Update()
}

// Next advances to the next frame, wrapping to the first after the last.
func (s *SurfaceGridComponent) Next() {
	s.current = (s.current + 1) % len(s.frames)
	s.this.Update()
}

// Previous steps back one frame, wrapping to the last before the first.
func (s *SurfaceGridComponent) Previous() {
	s.current = (s.current - 1 + len(s.frames)) % len(s.frames)
	s.this.Update()
}

// SetFrame makes the first frame whose grid has the given name current.
func (s *SurfaceGridComponent) SetFrame(name string) error {
	for i, g := range s.frames {
		if g.name == name {
			s.current = i
			s.this.Update()
			return nil
		}
	}
	return fmt.Errorf("tessera: surface grid component %q: frame %q: %w", s.Name, name, ErrNotFound)
}

// ClearCurrentSurfaces empties portion of the current grid and marks the
// component dirty.
func (s *SurfaceGridComponent) ClearCurrentSurfaces(portion *Dimensions2D[int]) error {
	if err := s.CurrentSurfaceGrid().ClearSurfaceGrid(portion); err != nil {
		return err
	}
	s.this.Update()
	return nil
}

// ReplaceCurrentSurfaces pastes other into the current grid (see
// SurfaceGrid.ReplaceGrid) and marks the component dirty.
func (s *SurfaceGridComponent) ReplaceCurrentSurfaces(other *SurfaceGrid, positionToCopyTo Vector2D[int], nullOverwrite bool, portion *Dimensions2D[int]) error {
	if err := s.CurrentSurfaceGrid().ReplaceGrid(other, positionToCopyTo, nullOverwrite, portion); err != nil {
		return err
	}
	s.this.Update()
	return nil
}

// CopyCurrentSurfaces returns a copy of portion of the current grid.
func (s *SurfaceGridComponent) CopyCurrentSurfaces(portion *Dimensions2D[int]) (*SurfaceGrid, error) {
	return s.CurrentSurfaceGrid().Copy(portion)
}

// Width returns the pixel width of the current grid.
func (s *SurfaceGridComponent) Width() int {
	g := s.CurrentSurfaceGrid()
	return g.GridSize().Width * g.surfaceSize.Width
}

// Height returns the pixel height of the current grid.
func (s *SurfaceGridComponent) Height() int {
	g := s.CurrentSurfaceGrid()
	return g.GridSize().Height * g.surfaceSize.Height
}

// drawnRect accounts for the anchor: the grid's top-left corner sits at the
// position minus the anchor offset.
func (s *SurfaceGridComponent) drawnRect() image.Rectangle {
	tl := s.position.Sub(s.CurrentSurfaceGrid().anchor)
	return image.Rect(tl.X, tl.Y, tl.X+s.Width(), tl.Y+s.Height())
}

// Dispose releases the previous-frame snapshot and detaches the component.
func (s *SurfaceGridComponent) Dispose() {
	s.previous = nil
	s.Component.Dispose()
}

func (s *SurfaceGridComponent) blit(r Renderer) error {
	screen, err := s.Screen()
	if err != nil {
		return err
	}
	g := s.CurrentSurfaceGrid()
	origin := s.Origin()

	s.prevDims = Dimensions2D[int]{Position: s.position.Sub(g.anchor), Size: Size(s.Width(), s.Height())}
	s.prevOffset = origin.Sub(g.anchor)
	if s.clearing == ClearPrecise {
		s.previous, _ = g.Copy(nil)
	}
	return g.Blit(origin, screen, r)
}

func (s *SurfaceGridComponent) clear(r Renderer) error {
	if s.clearing == ClearBoundingBox {
		return s.Component.clear(r)
	}
	p := s.parent
	if p == nil || s.previous == nil {
		return nil
	}
	if p.image == nil {
		return fmt.Errorf("tessera: clear %q: parent %q has no image: %w", s.Name, p.Name, ErrInvalidHierarchy)
	}
	screen, err := p.Screen()
	if err != nil {
		return err
	}
	prev := s.previous
	size := prev.surfaceSize
	for x := 0; x < prev.cells.Width(); x++ {
		for y := 0; y < prev.cells.Height(); y++ {
			if !prev.occupied(x, y) {
				continue
			}
			cell := prev.cellOrigin(x, y)
			src := s.prevDims.Position.Add(cell)
			at := s.prevOffset.Add(cell)
			rect := image.Rect(src.X, src.Y, src.X+size.Width, src.Y+size.Height)
			if err := r.Restore(screen, p.image, rect, image.Pt(at.X, at.Y)); err != nil {
				return fmt.Errorf("tessera: clear %q cell (%d, %d): %w", s.Name, x, y, err)
			}
		}
	}
	return nil
}

// SurfacesCollide reports whether any occupied cell of target overlaps an
// occupied cell of s. The grids must share a surface size and be aligned to
// whole cells; otherwise no collision can be determined and the result is
// false. When treatOutsideBoundsAsCollision is set, an occupied target cell
// that falls outside s's grid also counts as a collision.
//
// Cells are scanned column by column (x outer, y inner) and the scan stops at
// the first hit.
func (s *SurfaceGridComponent) SurfacesCollide(target *SurfaceGridComponent, treatOutsideBoundsAsCollision bool) bool {
	mine, theirs := s.CurrentSurfaceGrid(), target.CurrentSurfaceGrid()
	size := mine.surfaceSize
	if size != theirs.surfaceSize || size.Width == 0 || size.Height == 0 {
		return false
	}

	dist := target.Origin().Sub(theirs.anchor).Sub(s.Origin().Sub(mine.anchor))
	if dist.X%size.Width != 0 || dist.Y%size.Height != 0 {
		return false
	}
	dist = Vec(dist.X/size.Width, dist.Y/size.Height)

	for x := 0; x < theirs.cells.Width(); x++ {
		for y := 0; y < theirs.cells.Height(); y++ {
			if !theirs.occupied(x, y) {
				continue
			}
			mx, my := x+dist.X, y+dist.Y
			if !mine.cells.InBounds(mx, my) {
				if treatOutsideBoundsAsCollision {
					return true
				}
				continue
			}
			if mine.occupied(mx, my) {
				return true
			}
		}
	}
	return false
}
