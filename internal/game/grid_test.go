package game

import "testing"

// TestGridBounds verifies in-bounds checks on all axes
func TestGridBounds(t *testing.T) {
	g := NewReactorGrid(3, 2, 1)

	tests := []struct {
		coord GridCoord
		want  bool
	}{
		{GridCoord{0, 0, 0}, true},
		{GridCoord{2, 1, 0}, true},
		{GridCoord{3, 0, 0}, false},
		{GridCoord{0, 2, 0}, false},
		{GridCoord{0, 0, 1}, false},
		{GridCoord{-1, 0, 0}, false},
	}

	for _, tt := range tests {
		if got := g.InBounds(tt.coord); got != tt.want {
			t.Errorf("InBounds(%v) = %v, want %v", tt.coord, got, tt.want)
		}
	}
}

// TestGridClampsDimensions verifies degenerate dimensions clamp to 1
func TestGridClampsDimensions(t *testing.T) {
	g := NewReactorGrid(0, -2, 0)
	if g.Width() != 1 || g.Height() != 1 || g.Layers() != 1 {
		t.Errorf("got %dx%dx%d, want 1x1x1", g.Width(), g.Height(), g.Layers())
	}
}

// TestGridPlaceAndClear verifies occupancy transitions
func TestGridPlaceAndClear(t *testing.T) {
	g := NewReactorGrid(3, 3, 1)
	coord := GridCoord{1, 1, 0}

	if err := g.Place(coord, GridCell{Kind: Vent(1), ComponentID: 1}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	cell := g.GetCell(coord)
	if cell == nil || cell.ComponentID != 1 {
		t.Fatalf("GetCell after Place = %+v", cell)
	}

	// Placing again replaces the occupant
	if err := g.Place(coord, GridCell{Kind: Coolant(2), ComponentID: 2}); err != nil {
		t.Fatalf("replacement Place failed: %v", err)
	}
	cell = g.GetCell(coord)
	if cell.ComponentID != 2 || cell.Kind != Coolant(2) {
		t.Errorf("replacement cell = %+v", cell)
	}

	if err := g.Clear(coord); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if g.GetCell(coord) != nil {
		t.Error("cell still occupied after Clear")
	}

	// Clearing an empty cell is a no-op success
	if err := g.Clear(coord); err != nil {
		t.Errorf("Clear of empty cell returned %v", err)
	}

	// Out-of-bounds operations fail
	oob := GridCoord{5, 5, 5}
	if err := g.Place(oob, GridCell{Kind: Vent(1)}); err == nil {
		t.Error("Place out of bounds should fail")
	}
	if err := g.Clear(oob); err == nil {
		t.Error("Clear out of bounds should fail")
	}
}

// TestGridGetKind verifies the kind accessor: occupied cells report
// their kind, empty and out-of-range cells both read as absent
func TestGridGetKind(t *testing.T) {
	g := NewReactorGrid(3, 3, 1)
	coord := GridCoord{2, 0, 0}
	if err := g.Place(coord, GridCell{Kind: Vent(1), ComponentID: 3}); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	kind, ok := g.Get(coord)
	if !ok || kind != Vent(1) {
		t.Errorf("Get = %v, %v; want Vent1, true", kind, ok)
	}
	if _, ok := g.Get(GridCoord{0, 0, 0}); ok {
		t.Error("empty cell reported occupied")
	}
	if _, ok := g.Get(GridCoord{9, 9, 9}); ok {
		t.Error("out-of-range cell reported occupied")
	}
}

// TestNeighbors verifies the 4-neighborhood stays in-layer and
// non-negative
func TestNeighbors(t *testing.T) {
	center := GridCoord{1, 1, 0}
	neighbors := center.Neighbors()
	if len(neighbors) != 4 {
		t.Fatalf("center neighbors = %d, want 4", len(neighbors))
	}
	for _, n := range neighbors {
		if n.Z != 0 {
			t.Errorf("neighbor %v left the layer", n)
		}
	}

	corner := GridCoord{0, 0, 0}
	neighbors = corner.Neighbors()
	if len(neighbors) != 2 {
		t.Fatalf("corner neighbors = %d, want 2", len(neighbors))
	}
	for _, n := range neighbors {
		if n.X < 0 || n.Y < 0 {
			t.Errorf("negative neighbor %v", n)
		}
	}
}

// TestCoordLess verifies (z, y, x) lexicographic ordering
func TestCoordLess(t *testing.T) {
	a := GridCoord{2, 0, 0}
	b := GridCoord{0, 0, 1}
	if !a.Less(b) {
		t.Error("lower layer should order first")
	}
	if b.Less(a) {
		t.Error("ordering is not antisymmetric")
	}
	if a.Less(a) {
		t.Error("Less must be irreflexive")
	}
}

// TestGridClone verifies deep copy independence
func TestGridClone(t *testing.T) {
	g := NewReactorGrid(2, 2, 1)
	coord := GridCoord{0, 0, 0}
	g.Place(coord, GridCell{Kind: Vent(1), ComponentID: 7})

	clone := g.Clone()
	g.Clear(coord)

	if clone.GetCell(coord) == nil {
		t.Error("clone lost cell after original was cleared")
	}
}
