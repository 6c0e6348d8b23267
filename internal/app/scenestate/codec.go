package scenestate

import (
	"context"
	"fmt"
	"log"

	"gridstead/internal/app/ports"
	"gridstead/internal/domain/world"
)

// Codec converts between a live scene's terrain/entities and the persisted
// snapshot form. Decode loads every referenced image before constructing a
// single entity: construction needs concrete dimensions.
type Codec struct {
	Assets  ports.AssetLibrary
	Terrain world.TerrainRegistry
	Items   world.ItemRegistry
}

func (c Codec) Encode(s *world.Scene) world.SceneSnapshot {
	snap := world.SceneSnapshot{
		ID:           s.ID,
		Objects:      []world.ObjectRecord{},
		DroppedItems: []world.ItemRecord{},
		NorthSceneID: string(s.Links.North),
		EastSceneID:  string(s.Links.East),
		SouthSceneID: string(s.Links.South),
		WestSceneID:  string(s.Links.West),
	}

	s.Entities.Each(func(_ world.Handle, e *world.Entity) bool {
		rec := world.ObjectRecord{Type: string(e.Kind), X: e.X, Y: e.Y}
		switch e.Kind {
		case world.EntityTree:
			// a felled tree still falling is already consumed as far as
			// persistence is concerned
			if e.Health <= 0 {
				return true
			}
			// absence of currentHealth means full health on decode
			if e.Health < e.MaxHealth {
				health := e.Health
				rec.CurrentHealth = &health
			}
		case world.EntityHouse:
			rec.ID = e.StructureID
		case world.EntityDoorExit:
			if e.Exit != nil {
				rec.TargetSceneID = string(e.Exit.SceneID)
				pos := e.Exit.Position
				rec.TargetPosition = &pos
			}
		}
		snap.Objects = append(snap.Objects, rec)
		return true
	})

	s.Entities.EachItem(func(_ world.Handle, it *world.GroundItem) bool {
		snap.DroppedItems = append(snap.DroppedItems, world.ItemRecord{
			ItemID: string(it.ItemID), X: it.X, Y: it.Y, Quantity: it.Quantity,
		})
		return true
	})

	cells := s.Terrain.Cells()
	grid := make([][]string, len(cells))
	for r, row := range cells {
		out := make([]string, len(row))
		for col, kind := range row {
			out[col] = string(kind)
		}
		grid[r] = out
	}
	snap.TerrainGrid = grid
	return snap
}

// Decode rebuilds terrain, entities and adjacency from a snapshot. A
// malformed shape fails as ErrCorruptSnapshot so the caller regenerates
// instead of partially applying broken state. Individually unknown records
// are skipped, not fatal.
func (c Codec) Decode(ctx context.Context, snap world.SceneSnapshot) (*world.TerrainGrid, *world.EntityStore, world.Adjacency, error) {
	if snap.Objects == nil || snap.DroppedItems == nil || snap.TerrainGrid == nil {
		return nil, nil, world.Adjacency{}, fmt.Errorf("scene %s: %w", snap.ID, ports.ErrCorruptSnapshot)
	}

	if err := c.loadReferencedAssets(ctx, snap); err != nil {
		return nil, nil, world.Adjacency{}, err
	}

	store := world.NewEntityStore(c.Items)
	for _, rec := range snap.Objects {
		kind := world.EntityKind(rec.Type)
		asset, known := world.AssetForEntity(kind)
		if !known {
			log.Printf("scene %s: skipping object with unknown type %q", snap.ID, rec.Type)
			continue
		}
		img, ok := c.Assets.Image(asset)
		if !ok {
			return nil, nil, world.Adjacency{}, fmt.Errorf("image %q: %w", asset, ports.ErrAssetUnavailable)
		}
		switch kind {
		case world.EntityTree:
			tree := world.NewTree(rec.X, rec.Y, img.Width, img.Height)
			if rec.CurrentHealth != nil {
				if *rec.CurrentHealth <= 0 {
					// chopped trees are consumed, not resurrected
					continue
				}
				tree.Health = *rec.CurrentHealth
			}
			store.Add(tree)
		case world.EntityHouse:
			store.Add(world.NewHouse(rec.ID, rec.X, rec.Y, img.Width, img.Height))
		case world.EntityDoorExit:
			var target *world.ExitTarget
			if rec.TargetSceneID != "" && rec.TargetPosition != nil {
				target = &world.ExitTarget{
					SceneID:  world.SceneID(rec.TargetSceneID),
					Position: *rec.TargetPosition,
				}
			}
			store.Add(world.NewDoorExit(rec.X, rec.Y, img.Width, img.Height, target))
		}
	}

	for _, rec := range snap.DroppedItems {
		if _, ok := store.SpawnItem(world.ItemID(rec.ItemID), rec.X, rec.Y, rec.Quantity); !ok {
			log.Printf("scene %s: skipping dropped item with unknown id %q", snap.ID, rec.ItemID)
		}
	}

	cells := make([][]world.TerrainKind, len(snap.TerrainGrid))
	for r, row := range snap.TerrainGrid {
		out := make([]world.TerrainKind, len(row))
		for col, kind := range row {
			out[col] = world.TerrainKind(kind)
		}
		cells[r] = out
	}
	grid := world.TerrainGridFromCells(cells, c.Terrain)

	links := world.Adjacency{
		North: world.SceneID(snap.NorthSceneID),
		East:  world.SceneID(snap.EastSceneID),
		South: world.SceneID(snap.SouthSceneID),
		West:  world.SceneID(snap.WestSceneID),
	}
	return grid, store, links, nil
}

// loadReferencedAssets computes the asset set required by every known typed
// record and requests it in one batch up front.
func (c Codec) loadReferencedAssets(ctx context.Context, snap world.SceneSnapshot) error {
	seen := map[string]bool{}
	var paths []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, rec := range snap.Objects {
		if asset, ok := world.AssetForEntity(world.EntityKind(rec.Type)); ok {
			add(asset)
		}
	}
	for _, rec := range snap.DroppedItems {
		if cfg, ok := c.Items[world.ItemID(rec.ItemID)]; ok {
			add(cfg.Asset)
		}
	}
	if len(paths) == 0 {
		return nil
	}
	if err := c.Assets.LoadImages(ctx, paths); err != nil {
		return fmt.Errorf("scene %s: load assets: %w", snap.ID, err)
	}
	return nil
}
