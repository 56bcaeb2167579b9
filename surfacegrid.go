package tessera

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// SurfaceGrid is a rectangular grid of equally sized sprites positioned
// relative to an anchor. Sprites are borrowed: the grid never releases them.
// Every cell holds a value; a nil sprite marks an empty cell.
type SurfaceGrid struct {
	name        string
	cells       *Grid[*ebiten.Image]
	surfaceSize Bounds2D[int]
	anchorBlock Vector2D[int]
	anchorPoint SurfacePoint
	anchor      Vector2D[int]
}

// NewSurfaceGrid creates an empty grid of gridSize cells, each surfaceSize
// pixels, anchored at the given point of the given block.
func NewSurfaceGrid(name string, gridSize, surfaceSize Bounds2D[int], anchorBlock Vector2D[int], point SurfacePoint) *SurfaceGrid {
	sg := &SurfaceGrid{
		name:        name,
		cells:       emptySurfaceCells(gridSize),
		surfaceSize: surfaceSize,
	}
	sg.SetAnchor(anchorBlock, point)
	return sg
}

func emptySurfaceCells(size Bounds2D[int]) *Grid[*ebiten.Image] {
	cells := NewGrid[*ebiten.Image](size.Width, size.Height)
	for i := range cells.present {
		cells.present[i] = true
	}
	return cells
}

// NewSurfaceGridFromMap creates a grid the size of placement, where a cell
// value of 0 is empty and N places sprites[N-1]. The surface size is taken
// from sprites[0]; every sprite must be non-nil and share that size.
func NewSurfaceGridFromMap(name string, placement *Grid[int], sprites []*ebiten.Image, anchorBlock Vector2D[int], point SurfacePoint) (*SurfaceGrid, error) {
	if len(sprites) == 0 {
		return nil, fmt.Errorf("tessera: surface grid %q: empty sprite list: %w", name, ErrNullSurface)
	}
	for i, s := range sprites {
		if s == nil {
			return nil, fmt.Errorf("tessera: surface grid %q: sprite %d: %w", name, i, ErrNullSurface)
		}
		if imageSize(s) != imageSize(sprites[0]) {
			return nil, fmt.Errorf("tessera: surface grid %q: sprite %d is %v, want %v: %w",
				name, i, imageSize(s), imageSize(sprites[0]), ErrSizeMismatch)
		}
	}

	sg := NewSurfaceGrid(name, Size(placement.Width(), placement.Height()), imageSize(sprites[0]), anchorBlock, point)
	for x := 0; x < placement.Width(); x++ {
		for y := 0; y < placement.Height(); y++ {
			idx, err := placement.Get(x, y)
			if err != nil {
				return nil, fmt.Errorf("tessera: surface grid %q: placement map: %w", name, err)
			}
			if idx == 0 {
				continue
			}
			if idx < 0 || idx > len(sprites) {
				return nil, fmt.Errorf("tessera: surface grid %q: placement (%d, %d) names sprite %d of %d: %w",
					name, x, y, idx, len(sprites), ErrOutOfBounds)
			}
			_ = sg.cells.Set(x, y, sprites[idx-1])
		}
	}
	return sg, nil
}

// Name returns the grid's diagnostic name.
func (sg *SurfaceGrid) Name() string { return sg.name }

// GridSize returns the number of columns and rows.
func (sg *SurfaceGrid) GridSize() Bounds2D[int] {
	return Size(sg.cells.Width(), sg.cells.Height())
}

// SurfaceSize returns the pixel size shared by every sprite in the grid.
func (sg *SurfaceGrid) SurfaceSize() Bounds2D[int] { return sg.surfaceSize }

// Anchor returns the anchor as a pixel offset from the grid's top-left corner.
func (sg *SurfaceGrid) Anchor() Vector2D[int] { return sg.anchor }

// AnchorBlockPosition returns the cell holding the anchor.
func (sg *SurfaceGrid) AnchorBlockPosition() Vector2D[int] { return sg.anchorBlock }

// AnchorPoint returns which point of the anchor block is the anchor.
func (sg *SurfaceGrid) AnchorPoint() SurfacePoint { return sg.anchorPoint }

// SetAnchor moves the anchor and recomputes its pixel offset.
func (sg *SurfaceGrid) SetAnchor(block Vector2D[int], point SurfacePoint) {
	sg.anchorBlock = block
	sg.anchorPoint = point

	a := block.Scale(sg.surfaceSize)
	w, h := sg.surfaceSize.Width, sg.surfaceSize.Height
	switch point {
	case UpperRight:
		a.X += w
	case LowerLeft:
		a.Y += h
	case LowerRight:
		a.X += w
		a.Y += h
	case Center:
		a.X += w / 2
		a.Y += h / 2
	}
	sg.anchor = a
}

// Surface returns the sprite at pos, or nil for an empty cell.
func (sg *SurfaceGrid) Surface(pos Vector2D[int]) (*ebiten.Image, error) {
	s, err := sg.cells.Get(pos.X, pos.Y)
	if err != nil {
		return nil, fmt.Errorf("tessera: surface grid %q: %w", sg.name, err)
	}
	return s, nil
}

// occupied reports whether (x, y) is in bounds and holds a sprite.
func (sg *SurfaceGrid) occupied(x, y int) bool {
	s, err := sg.cells.Get(x, y)
	return err == nil && s != nil
}

// Replace stores sprite at blockPosition. A nil sprite empties the cell.
func (sg *SurfaceGrid) Replace(sprite *ebiten.Image, blockPosition Vector2D[int]) error {
	if sprite != nil && imageSize(sprite) != sg.surfaceSize {
		return fmt.Errorf("tessera: surface grid %q: sprite is %v, want %v: %w",
			sg.name, imageSize(sprite), sg.surfaceSize, ErrSizeMismatch)
	}
	if err := sg.cells.Set(blockPosition.X, blockPosition.Y, sprite); err != nil {
		return fmt.Errorf("tessera: surface grid %q: %w", sg.name, err)
	}
	return nil
}

// portionOrAll resolves an optional sub-rectangle of sg, checking it lies
// inside the grid.
func (sg *SurfaceGrid) portionOrAll(portion *Dimensions2D[int]) (Dimensions2D[int], error) {
	if portion == nil {
		return Dimensions2D[int]{Size: sg.GridSize()}, nil
	}
	p := *portion
	if p.Size.Width < 0 || p.Size.Height < 0 {
		return p, fmt.Errorf("tessera: surface grid %q: portion %v: %w", sg.name, p, ErrOutOfBounds)
	}
	if p.Size.Width == 0 || p.Size.Height == 0 {
		return p, nil
	}
	last := p.Position.Add(Vec(p.Size.Width-1, p.Size.Height-1))
	if !sg.cells.InBounds(p.Position.X, p.Position.Y) || !sg.cells.InBounds(last.X, last.Y) {
		return p, fmt.Errorf("tessera: surface grid %q: portion %v: %w", sg.name, p, ErrOutOfBounds)
	}
	return p, nil
}

// ReplaceGrid pastes cells of other into sg. The destination is
// positionToCopyTo shifted back by other's anchor block, plus each cell's
// offset within other. With nullOverwrite false, empty source cells leave
// the destination untouched. Every sprite written must match sg's surface
// size; empty cells carry no size. Nothing changes if any write would fail.
func (sg *SurfaceGrid) ReplaceGrid(other *SurfaceGrid, positionToCopyTo Vector2D[int], nullOverwrite bool, portion *Dimensions2D[int]) error {
	p, err := other.portionOrAll(portion)
	if err != nil {
		return err
	}
	dest := positionToCopyTo.Sub(other.anchorBlock)

	type write struct {
		x, y   int
		sprite *ebiten.Image
	}
	writes := make([]write, 0, p.Size.Width*p.Size.Height)
	for x := 0; x < p.Size.Width; x++ {
		for y := 0; y < p.Size.Height; y++ {
			src := p.Position.Add(Vec(x, y))
			sprite, _ := other.cells.Get(src.X, src.Y)
			if sprite == nil && !nullOverwrite {
				continue
			}
			to := dest.Add(src)
			if !sg.cells.InBounds(to.X, to.Y) {
				return fmt.Errorf("tessera: surface grid %q: paste cell (%d, %d) from %q: %w",
					sg.name, to.X, to.Y, other.name, ErrOutOfBounds)
			}
			if sprite != nil && imageSize(sprite) != sg.surfaceSize {
				return fmt.Errorf("tessera: surface grid %q: paste cell (%d, %d) from %q is %v, want %v: %w",
					sg.name, to.X, to.Y, other.name, imageSize(sprite), sg.surfaceSize, ErrSizeMismatch)
			}
			writes = append(writes, write{to.X, to.Y, sprite})
		}
	}
	for _, w := range writes {
		_ = sg.cells.Set(w.x, w.y, w.sprite)
	}
	return nil
}

// Copy returns an independent grid holding portion of sg (all of sg when
// portion is nil). The copy shares sprites but not cells, and keeps the
// surface size and anchor settings.
func (sg *SurfaceGrid) Copy(portion *Dimensions2D[int]) (*SurfaceGrid, error) {
	p, err := sg.portionOrAll(portion)
	if err != nil {
		return nil, err
	}
	if portion == nil {
		c := *sg
		c.name = sg.name + "Copy"
		c.cells = sg.cells.Clone()
		return &c, nil
	}
	c := NewSurfaceGrid(sg.name+"Copy", p.Size, sg.surfaceSize, sg.anchorBlock, sg.anchorPoint)
	for x := 0; x < p.Size.Width; x++ {
		for y := 0; y < p.Size.Height; y++ {
			sprite, _ := sg.cells.Get(p.Position.X+x, p.Position.Y+y)
			_ = c.cells.Set(x, y, sprite)
		}
	}
	return c, nil
}

// ClearSurfaceGrid empties every cell in portion (the whole grid when nil).
func (sg *SurfaceGrid) ClearSurfaceGrid(portion *Dimensions2D[int]) error {
	p, err := sg.portionOrAll(portion)
	if err != nil {
		return err
	}
	for x := 0; x < p.Size.Width; x++ {
		for y := 0; y < p.Size.Height; y++ {
			_ = sg.cells.Set(p.Position.X+x, p.Position.Y+y, nil)
		}
	}
	return nil
}

// cellOrigin returns the pixel offset of cell (x, y) from the grid's top-left.
func (sg *SurfaceGrid) cellOrigin(x, y int) Vector2D[int] {
	return Vec(x, y).Scale(sg.surfaceSize)
}

// Blit draws every occupied cell onto target so that the anchor lands on
// position. A nil target draws nothing.
func (sg *SurfaceGrid) Blit(position Vector2D[int], target *ebiten.Image, r Renderer) error {
	if target == nil {
		return nil
	}
	base := position.Sub(sg.anchor)
	for x := 0; x < sg.cells.Width(); x++ {
		for y := 0; y < sg.cells.Height(); y++ {
			sprite, _ := sg.cells.Get(x, y)
			if sprite == nil {
				continue
			}
			at := base.Add(sg.cellOrigin(x, y))
			if err := r.Blit(target, sprite, image.Rectangle{}, image.Pt(at.X, at.Y)); err != nil {
				return fmt.Errorf("tessera: surface grid %q: blit cell (%d, %d): %w", sg.name, x, y, err)
			}
		}
	}
	return nil
}
