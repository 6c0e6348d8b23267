package world

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SceneID addresses one bounded world unit. Two grammars exist:
//
//	world_<x>_<y>      outdoor grid cell (canonical)
//	interior-<id>      interior paired with the structure carrying <id>
//
// A legacy outdoor grammar world-<x>-<y> is accepted on parse but never
// produced; saves written by old builds remain loadable.
type SceneID string

const (
	outdoorPrefix  = "world_"
	interiorPrefix = "interior-"
)

var legacyOutdoorPattern = regexp.MustCompile(`^world-(-?\d+)-(-?\d+)$`)

func OutdoorSceneID(x, y int) SceneID {
	return SceneID(fmt.Sprintf("world_%d_%d", x, y))
}

// InteriorSceneID derives the interior scene paired with a structure. The
// derivation is deterministic: one structure id always maps to the same
// scene id.
func InteriorSceneID(structureID string) SceneID {
	return SceneID(interiorPrefix + structureID)
}

func (id SceneID) IsInterior() bool {
	return strings.HasPrefix(string(id), interiorPrefix)
}

func (id SceneID) IsOutdoor() bool {
	_, _, ok := id.GridCoords()
	return ok
}

// StructureID returns the owning structure id of an interior scene.
func (id SceneID) StructureID() (string, bool) {
	if !id.IsInterior() {
		return "", false
	}
	return strings.TrimPrefix(string(id), interiorPrefix), true
}

// GridCoords parses the outdoor grid coordinates out of the identifier,
// accepting both the canonical underscore grammar and the legacy hyphen
// grammar.
func (id SceneID) GridCoords() (x, y int, ok bool) {
	s := string(id)
	if strings.HasPrefix(s, outdoorPrefix) {
		parts := strings.Split(strings.TrimPrefix(s, outdoorPrefix), "_")
		if len(parts) != 2 {
			return 0, 0, false
		}
		px, errX := strconv.Atoi(parts[0])
		py, errY := strconv.Atoi(parts[1])
		if errX != nil || errY != nil {
			return 0, 0, false
		}
		return px, py, true
	}
	if m := legacyOutdoorPattern.FindStringSubmatch(s); m != nil {
		px, _ := strconv.Atoi(m[1])
		py, _ := strconv.Atoi(m[2])
		return px, py, true
	}
	return 0, 0, false
}

// Neighbor synthesizes the canonical id of the adjacent outdoor scene in the
// given direction, regardless of which grammar id uses.
func (id SceneID) Neighbor(d Direction) (SceneID, bool) {
	x, y, ok := id.GridCoords()
	if !ok {
		return "", false
	}
	dx, dy := d.Offset()
	return OutdoorSceneID(x+dx, y+dy), true
}

type Direction string

const (
	North Direction = "north"
	East  Direction = "east"
	South Direction = "south"
	West  Direction = "west"
)

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Offset is the grid-coordinate delta of one step in d. Y grows southward,
// matching screen coordinates.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	default:
		return -1, 0
	}
}

// Adjacency holds the four outdoor neighbor links. Empty means "not yet
// crossed". Links are always established in pairs: if A links north to B
// then B links south to A.
type Adjacency struct {
	North SceneID
	East  SceneID
	South SceneID
	West  SceneID
}

func (a Adjacency) In(d Direction) SceneID {
	switch d {
	case North:
		return a.North
	case East:
		return a.East
	case South:
		return a.South
	default:
		return a.West
	}
}

func (a *Adjacency) Link(d Direction, id SceneID) {
	switch d {
	case North:
		a.North = id
	case East:
		a.East = id
	case South:
		a.South = id
	default:
		a.West = id
	}
}

// Scene owns exactly one terrain grid and one entity store. Outdoor scenes
// carry grid adjacency; interiors route back through their exit marker
// instead.
type Scene struct {
	ID       SceneID
	Terrain  *TerrainGrid
	Entities *EntityStore
	Links    Adjacency
}
