package worldgen

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gridstead/internal/app/ports"
	"gridstead/internal/domain/world"
)

const (
	clumpDecay    = 0.7
	clumpMaxDepth = 3

	treePlacementAttempts = 100
	itemPlacementAttempts = 50

	edgePadding           = 64.0
	centerExclusionRadius = 96.0

	interiorRows = 10
	interiorCols = 10
)

// Generator populates terrain and entities for freshly created scenes. It
// holds no persisted state; regenerating a scene is only possible by
// discarding its snapshot first.
type Generator struct {
	Assets  ports.AssetLibrary
	Terrain world.TerrainRegistry
	Items   world.ItemRegistry
	Rand    *rand.Rand
}

// Outdoor fills a rows×cols grid and entity store per the profile. Asset
// loading happens before any entity is constructed, since tree dimensions
// come from the loaded image.
func (g Generator) Outdoor(ctx context.Context, profile Profile, rows, cols int) (*world.TerrainGrid, *world.EntityStore, error) {
	grid := world.NewTerrainGrid(rows, cols, profile.Base, g.Terrain)
	store := world.NewEntityStore(g.Items)

	if profile.Secondary != world.TerrainVoid && profile.SecondaryChance > 0 {
		g.scatterSecondary(grid, profile)
	}

	treeAsset, _ := world.AssetForEntity(world.EntityTree)
	if err := g.Assets.LoadImages(ctx, []string{treeAsset}); err != nil {
		return nil, nil, fmt.Errorf("load generation assets: %w", err)
	}
	tree, ok := g.Assets.Image(treeAsset)
	if !ok {
		return nil, nil, fmt.Errorf("tree image %q: %w", treeAsset, ports.ErrAssetUnavailable)
	}

	g.placeTrees(grid, store, profile.TreeCount, tree.Width, tree.Height)
	g.placeResources(grid, store, profile.Resources)
	return grid, store, nil
}

// Interior builds the fixed small room behind a structure: a single walkable
// floor type and exactly one exit marker at bottom-center. The marker target
// comes from the transition that created the scene; a nil target leaves the
// door unwired and inert.
func (g Generator) Interior(ctx context.Context, exit *world.ExitTarget) (*world.TerrainGrid, *world.EntityStore, error) {
	grid := world.NewTerrainGrid(interiorRows, interiorCols, world.TerrainWoodFloor, g.Terrain)
	store := world.NewEntityStore(g.Items)

	doorAsset, _ := world.AssetForEntity(world.EntityDoorExit)
	if err := g.Assets.LoadImages(ctx, []string{doorAsset}); err != nil {
		return nil, nil, fmt.Errorf("load interior assets: %w", err)
	}
	door, ok := g.Assets.Image(doorAsset)
	if !ok {
		return nil, nil, fmt.Errorf("door image %q: %w", doorAsset, ports.ErrAssetUnavailable)
	}

	x := grid.PixelWidth() / 2
	y := grid.PixelHeight() - world.TileSize/2
	store.Add(world.NewDoorExit(x, y, door.Width, door.Height, exit))
	return grid, store, nil
}

func (g Generator) scatterSecondary(grid *world.TerrainGrid, profile Profile) {
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			if g.Rand.Float64() < profile.SecondaryChance {
				grid.Set(col, row, profile.Secondary)
				g.clump(grid, col, row, profile.Secondary, profile.Clumping, 0)
			}
		}
	}
}

// clump grows a seed cell into its 4-neighborhood with decaying probability,
// producing blob-shaped clusters instead of salt-and-pepper noise.
func (g Generator) clump(grid *world.TerrainGrid, col, row int, kind world.TerrainKind, chance float64, depth int) {
	if depth >= clumpMaxDepth {
		return
	}
	for _, n := range [4][2]int{{col, row - 1}, {col + 1, row}, {col, row + 1}, {col - 1, row}} {
		if grid.Get(n[0], n[1]) == world.TerrainVoid || grid.Get(n[0], n[1]) == kind {
			continue
		}
		if g.Rand.Float64() < chance {
			grid.Set(n[0], n[1], kind)
			g.clump(grid, n[0], n[1], kind, chance*clumpDecay, depth+1)
		}
	}
}

// placeTrees rejects candidates inside the center exclusion radius or
// overlapping an already-placed tree, with a bounded attempt budget per
// tree. Termination wins over density: an exhausted budget skips the tree.
func (g Generator) placeTrees(grid *world.TerrainGrid, store *world.EntityStore, count int, w, h float64) {
	sceneW, sceneH := grid.PixelWidth(), grid.PixelHeight()
	type placed struct{ x, y float64 }
	var trees []placed

	for i := 0; i < count; i++ {
		for attempt := 0; attempt < treePlacementAttempts; attempt++ {
			x := edgePadding + g.Rand.Float64()*(sceneW-2*edgePadding)
			y := edgePadding + g.Rand.Float64()*(sceneH-2*edgePadding)
			if math.Hypot(x-sceneW/2, y-sceneH/2) < centerExclusionRadius {
				continue
			}
			collides := false
			for _, t := range trees {
				if world.Overlaps(x, y, w, h, t.x, t.y, w, h) {
					collides = true
					break
				}
			}
			if collides {
				continue
			}
			store.Add(world.NewTree(x, y, w, h))
			trees = append(trees, placed{x, y})
			break
		}
	}
}

func (g Generator) placeResources(grid *world.TerrainGrid, store *world.EntityStore, resources map[world.ItemID]int) {
	sceneW, sceneH := grid.PixelWidth(), grid.PixelHeight()
	ids := make([]world.ItemID, 0, len(resources))
	for id := range resources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		count := resources[id]
		for i := 0; i < count; i++ {
			for attempt := 0; attempt < itemPlacementAttempts; attempt++ {
				x := edgePadding + g.Rand.Float64()*(sceneW-2*edgePadding)
				y := edgePadding + g.Rand.Float64()*(sceneH-2*edgePadding)
				col := int(x / world.TileSize)
				row := int(y / world.TileSize)
				if !grid.Walkable(col, row) {
					continue
				}
				if _, _, hit := store.At(x, y); hit {
					continue
				}
				store.SpawnItem(id, x, y, 1)
				break
			}
		}
	}
}
