package world

// TileSize is the edge length of one terrain cell in world pixels. Entity
// positions are expressed in pixels, terrain lookups in cell coordinates.
const TileSize = 32.0

type TerrainKind string

const (
	TerrainGrass     TerrainKind = "grass"
	TerrainWater     TerrainKind = "water"
	TerrainSand      TerrainKind = "sand"
	TerrainWoodFloor TerrainKind = "woodFloor"

	// TerrainVoid is the out-of-bounds sentinel. It never appears inside a
	// grid and has no registry entry, so it is never walkable.
	TerrainVoid TerrainKind = ""
)

type TerrainConfig struct {
	Asset    string
	Walkable bool
}

// TerrainRegistry maps terrain kinds to their static config. Built once at
// startup and never mutated afterwards.
type TerrainRegistry map[TerrainKind]TerrainConfig

func DefaultTerrainRegistry() TerrainRegistry {
	return TerrainRegistry{
		TerrainGrass:     {Asset: "assets/terrain/grass.png", Walkable: true},
		TerrainWater:     {Asset: "assets/terrain/water.png", Walkable: false},
		TerrainSand:      {Asset: "assets/terrain/sand.png", Walkable: true},
		TerrainWoodFloor: {Asset: "assets/terrain/wood_floor.png", Walkable: true},
	}
}

// TerrainGrid is a fully populated rows×cols matrix of terrain kinds. Shape
// changes only through Resize or InstallCells; every cell always holds a
// valid kind.
type TerrainGrid struct {
	registry TerrainRegistry
	rows     int
	cols     int
	cells    [][]TerrainKind
}

func NewTerrainGrid(rows, cols int, def TerrainKind, reg TerrainRegistry) *TerrainGrid {
	g := &TerrainGrid{registry: reg}
	g.Resize(rows, cols, def)
	return g
}

// TerrainGridFromCells builds a grid from an existing cell matrix, deriving
// its shape from the matrix. Used when decoding a persisted scene, which may
// have a different shape than the live grid (e.g. interiors).
func TerrainGridFromCells(cells [][]TerrainKind, reg TerrainRegistry) *TerrainGrid {
	g := &TerrainGrid{registry: reg}
	g.InstallCells(cells)
	return g
}

func (g *TerrainGrid) Rows() int { return g.rows }
func (g *TerrainGrid) Cols() int { return g.cols }

// Resize discards all contents and reinitializes every cell to def.
func (g *TerrainGrid) Resize(rows, cols int, def TerrainKind) {
	cells := make([][]TerrainKind, rows)
	for r := range cells {
		row := make([]TerrainKind, cols)
		for c := range row {
			row[c] = def
		}
		cells[r] = row
	}
	g.rows, g.cols, g.cells = rows, cols, cells
}

func (g *TerrainGrid) Fill(kind TerrainKind) {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = kind
		}
	}
}

// Get returns TerrainVoid for out-of-bounds coordinates.
func (g *TerrainGrid) Get(col, row int) TerrainKind {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return TerrainVoid
	}
	return g.cells[row][col]
}

// Set ignores out-of-bounds coordinates. Player-driven placement may target
// boundary-adjacent screen positions that map outside the grid.
func (g *TerrainGrid) Set(col, row int, kind TerrainKind) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.cells[row][col] = kind
}

// Walkable fails closed: out-of-bounds cells and kinds missing from the
// registry are never walkable.
func (g *TerrainGrid) Walkable(col, row int) bool {
	kind := g.Get(col, row)
	if kind == TerrainVoid {
		return false
	}
	cfg, ok := g.registry[kind]
	if !ok {
		return false
	}
	return cfg.Walkable
}

// Cells returns a deep copy so the live grid never aliases a snapshot.
func (g *TerrainGrid) Cells() [][]TerrainKind {
	out := make([][]TerrainKind, g.rows)
	for r := range g.cells {
		row := make([]TerrainKind, g.cols)
		copy(row, g.cells[r])
		out[r] = row
	}
	return out
}

// InstallCells replaces the grid contents wholesale and resynchronizes the
// row/col counts from the incoming matrix shape.
func (g *TerrainGrid) InstallCells(cells [][]TerrainKind) {
	rows := len(cells)
	cols := 0
	if rows > 0 {
		cols = len(cells[0])
	}
	copied := make([][]TerrainKind, rows)
	for r := range cells {
		row := make([]TerrainKind, len(cells[r]))
		copy(row, cells[r])
		copied[r] = row
	}
	g.rows, g.cols, g.cells = rows, cols, copied
}

// PixelWidth and PixelHeight are the scene's dimensions in world pixels.
func (g *TerrainGrid) PixelWidth() float64  { return float64(g.cols) * TileSize }
func (g *TerrainGrid) PixelHeight() float64 { return float64(g.rows) * TileSize }
