package world

import "testing"

func TestTerrainGrid_InitializeFullyPopulated(t *testing.T) {
	g := NewTerrainGrid(4, 6, TerrainGrass, DefaultTerrainRegistry())
	if g.Rows() != 4 || g.Cols() != 6 {
		t.Fatalf("unexpected shape %dx%d", g.Rows(), g.Cols())
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 6; c++ {
			if g.Get(c, r) != TerrainGrass {
				t.Fatalf("cell (%d,%d) not initialized", c, r)
			}
		}
	}
}

func TestTerrainGrid_GetOutOfBoundsSentinel(t *testing.T) {
	g := NewTerrainGrid(2, 2, TerrainGrass, DefaultTerrainRegistry())
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if got := g.Get(p[0], p[1]); got != TerrainVoid {
			t.Fatalf("expected sentinel at (%d,%d), got %q", p[0], p[1], got)
		}
	}
}

func TestTerrainGrid_SetOutOfBoundsIgnored(t *testing.T) {
	g := NewTerrainGrid(2, 2, TerrainGrass, DefaultTerrainRegistry())
	g.Set(5, 5, TerrainWater)
	g.Set(-1, 0, TerrainWater)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if g.Get(c, r) != TerrainGrass {
				t.Fatalf("out-of-bounds set mutated cell (%d,%d)", c, r)
			}
		}
	}
}

func TestTerrainGrid_WalkableFailsClosed(t *testing.T) {
	g := NewTerrainGrid(2, 2, TerrainGrass, DefaultTerrainRegistry())
	if !g.Walkable(0, 0) {
		t.Fatalf("grass should be walkable")
	}
	if g.Walkable(-1, 0) || g.Walkable(0, 5) {
		t.Fatalf("out-of-bounds must not be walkable")
	}
	g.Set(1, 1, TerrainWater)
	if g.Walkable(1, 1) {
		t.Fatalf("water must not be walkable")
	}
	g.Set(0, 1, TerrainKind("lava"))
	if g.Walkable(0, 1) {
		t.Fatalf("kinds missing from the registry must not be walkable")
	}
}

func TestTerrainGrid_ResizeReinitializes(t *testing.T) {
	g := NewTerrainGrid(3, 3, TerrainGrass, DefaultTerrainRegistry())
	g.Set(1, 1, TerrainWater)
	g.Resize(10, 10, TerrainWoodFloor)
	if g.Rows() != 10 || g.Cols() != 10 {
		t.Fatalf("unexpected shape after resize: %dx%d", g.Rows(), g.Cols())
	}
	if g.Get(1, 1) != TerrainWoodFloor {
		t.Fatalf("resize must discard previous contents")
	}
}

func TestTerrainGrid_CellsDeepCopy(t *testing.T) {
	g := NewTerrainGrid(2, 2, TerrainGrass, DefaultTerrainRegistry())
	cells := g.Cells()
	cells[0][0] = TerrainWater
	if g.Get(0, 0) != TerrainGrass {
		t.Fatalf("Cells must not alias the live grid")
	}
}

func TestTerrainGrid_InstallCellsResyncsShape(t *testing.T) {
	g := NewTerrainGrid(3, 3, TerrainGrass, DefaultTerrainRegistry())
	incoming := [][]TerrainKind{
		{TerrainWoodFloor, TerrainWoodFloor},
		{TerrainWoodFloor, TerrainWater},
	}
	g.InstallCells(incoming)
	if g.Rows() != 2 || g.Cols() != 2 {
		t.Fatalf("shape not resynchronized: %dx%d", g.Rows(), g.Cols())
	}
	incoming[0][0] = TerrainSand
	if g.Get(0, 0) != TerrainWoodFloor {
		t.Fatalf("InstallCells must copy the incoming matrix")
	}
}
