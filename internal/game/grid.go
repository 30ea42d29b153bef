package game

import "fmt"

// GridCoord identifies a cell in the reactor grid. Coordinates are
// non-negative; equality is by value so GridCoord works as a map key.
type GridCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Less orders coordinates lexicographically by (z, y, x). This is the
// canonical iteration/serialization order for deterministic output.
func (c GridCoord) Less(other GridCoord) bool {
	if c.Z != other.Z {
		return c.Z < other.Z
	}
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

// Neighbors returns the up-to-4 axis-aligned in-layer neighbors of c.
// Coordinates that would go negative are omitted; callers still need a
// bounds check against the grid on the positive side.
func (c GridCoord) Neighbors() []GridCoord {
	out := make([]GridCoord, 0, 4)
	if c.X > 0 {
		out = append(out, GridCoord{c.X - 1, c.Y, c.Z})
	}
	out = append(out, GridCoord{c.X + 1, c.Y, c.Z})
	if c.Y > 0 {
		out = append(out, GridCoord{c.X, c.Y - 1, c.Z})
	}
	out = append(out, GridCoord{c.X, c.Y + 1, c.Z})
	return out
}

// OutOfBoundsError reports an operation on a coordinate outside the grid.
// It is always recoverable and never causes a panic inside the engine.
type OutOfBoundsError struct {
	Coord GridCoord
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("grid coordinate out of bounds: (%d,%d,%d)", e.Coord.X, e.Coord.Y, e.Coord.Z)
}

// GridCell is the occupancy record for a single cell. The grid is purely
// a spatial index: behavioral state lives on the PlacedComponent with the
// matching ComponentID.
type GridCell struct {
	Kind        ComponentKind
	ComponentID uint64
	PlacedTick  uint64
}

// ReactorGrid is a fixed-size dense 3D occupancy index.
type ReactorGrid struct {
	width  int
	height int
	layers int
	cells  []*GridCell
}

// NewReactorGrid builds a grid with each dimension clamped to at least 1.
func NewReactorGrid(width, height, layers int) *ReactorGrid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if layers < 1 {
		layers = 1
	}
	return &ReactorGrid{
		width:  width,
		height: height,
		layers: layers,
		cells:  make([]*GridCell, width*height*layers),
	}
}

func (g *ReactorGrid) Width() int  { return g.width }
func (g *ReactorGrid) Height() int { return g.height }
func (g *ReactorGrid) Layers() int { return g.layers }

// InBounds reports whether the coordinate is valid: strict less-than on
// all three axes, and no negative components.
func (g *ReactorGrid) InBounds(c GridCoord) bool {
	return c.X >= 0 && c.Y >= 0 && c.Z >= 0 &&
		c.X < g.width && c.Y < g.height && c.Z < g.layers
}

func (g *ReactorGrid) index(c GridCoord) (int, bool) {
	if !g.InBounds(c) {
		return 0, false
	}
	return (c.Z*g.height+c.Y)*g.width + c.X, true
}

// Place writes a cell record, unconditionally overwriting any occupant.
// List-side bookkeeping (the component list) is the caller's job.
func (g *ReactorGrid) Place(c GridCoord, cell GridCell) error {
	i, ok := g.index(c)
	if !ok {
		return &OutOfBoundsError{Coord: c}
	}
	stored := cell
	g.cells[i] = &stored
	return nil
}

// Clear empties a cell. Clearing an already-empty in-bounds cell is a
// no-op success; only out-of-range coordinates fail.
func (g *ReactorGrid) Clear(c GridCoord) error {
	i, ok := g.index(c)
	if !ok {
		return &OutOfBoundsError{Coord: c}
	}
	g.cells[i] = nil
	return nil
}

// Get returns the kind occupying a cell. Empty and out-of-range cells
// both read as absent.
func (g *ReactorGrid) Get(c GridCoord) (ComponentKind, bool) {
	cell := g.GetCell(c)
	if cell == nil {
		return ComponentKind{}, false
	}
	return cell.Kind, true
}

// GetCell returns the full occupancy record, or nil for empty and
// out-of-range cells.
func (g *ReactorGrid) GetCell(c GridCoord) *GridCell {
	i, ok := g.index(c)
	if !ok {
		return nil
	}
	return g.cells[i]
}

// Clone returns a deep copy of the grid.
func (g *ReactorGrid) Clone() *ReactorGrid {
	out := &ReactorGrid{
		width:  g.width,
		height: g.height,
		layers: g.layers,
		cells:  make([]*GridCell, len(g.cells)),
	}
	for i, cell := range g.cells {
		if cell != nil {
			copied := *cell
			out.cells[i] = &copied
		}
	}
	return out
}
