package tessera

import "errors"

// Error kinds returned by tessera. Every returned error wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrOutOfBounds reports a grid index outside the valid range.
	ErrOutOfBounds = errors.New("index out of bounds")
	// ErrEmptyCell reports a read of an unpopulated grid cell.
	ErrEmptyCell = errors.New("empty cell")
	// ErrSizeMismatch reports a sprite whose size differs from the grid's surface size.
	ErrSizeMismatch = errors.New("surface size mismatch")
	// ErrNullSurface reports a nil sprite where one is required.
	ErrNullSurface = errors.New("null surface")
	// ErrInvalidHierarchy reports a component outside its parent, or a draw
	// without a resolvable parent or screen.
	ErrInvalidHierarchy = errors.New("invalid component hierarchy")
	// ErrBackend reports a failure inside the rendering or audio backend.
	ErrBackend = errors.New("backend failure")
	// ErrNotFound reports a missing named resource.
	ErrNotFound = errors.New("resource not found")
	// ErrNotInitialized reports use of a subsystem before its setup ran.
	ErrNotInitialized = errors.New("not initialized")
)
