package scenes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"gridstead/internal/app/ports"
	"gridstead/internal/app/scenestate"
	"gridstead/internal/app/worldgen"
	"gridstead/internal/domain/world"
)

// Manager resolves scene identifiers to live scenes and owns the save/load
// boundary around scene switches. Exactly one scene instance exists per
// identifier within a session, and at most one transition is in flight at a
// time. The mutex makes that explicit rather than relying on cooperative
// scheduling.
type Manager struct {
	Store   ports.SceneStore
	Tx      ports.TxManager
	Metrics ports.WorldMetrics
	Codec   scenestate.Codec
	Gen     worldgen.Generator
	Profile worldgen.Profile

	OutdoorRows int
	OutdoorCols int

	mu     sync.Mutex
	active *world.Scene
	cache  map[world.SceneID]*world.Scene
}

func (m *Manager) Active() *world.Scene {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// GetOrCreate resolves a scene: live cache first, then snapshot decode, then
// default generation. A corrupt snapshot falls back to generation; a failed
// asset load does not (entities cannot be built without dimensions).
func (m *Manager) GetOrCreate(ctx context.Context, id world.SceneID, tctx TransitionContext) (*world.Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(ctx, id, tctx)
}

func (m *Manager) getOrCreateLocked(ctx context.Context, id world.SceneID, tctx TransitionContext) (*world.Scene, error) {
	if s, ok := m.cache[id]; ok {
		return s, nil
	}

	snap, found, err := m.Store.Get(ctx, id)
	switch {
	case err != nil:
		// a load fault never surfaces to the player
		log.Printf("scenes: load %s failed, regenerating: %v", id, err)
		m.recordLoadFallback()
	case found:
		grid, store, links, derr := m.Codec.Decode(ctx, snap)
		if derr == nil {
			scene := &world.Scene{ID: id, Terrain: grid, Entities: store, Links: links}
			m.cacheScene(scene)
			return scene, nil
		}
		if !errors.Is(derr, ports.ErrCorruptSnapshot) {
			return nil, derr
		}
		log.Printf("scenes: snapshot for %s is corrupt, regenerating: %v", id, derr)
		m.recordLoadFallback()
	}

	scene, err := m.generate(ctx, id, tctx)
	if err != nil {
		return nil, err
	}
	// persist at birth: a fresh interior's exit wiring exists only in the
	// transition context, so a generated-but-unsaved scene would come back
	// unwired after a restart
	if err := m.persistLocked(ctx, scene); err != nil {
		log.Printf("scenes: save new scene %s failed: %v", id, err)
		if m.Metrics != nil {
			m.Metrics.RecordSaveFailure()
		}
	}
	m.cacheScene(scene)
	if m.Metrics != nil {
		m.Metrics.RecordSceneCreated()
	}
	return scene, nil
}

func (m *Manager) generate(ctx context.Context, id world.SceneID, tctx TransitionContext) (*world.Scene, error) {
	switch {
	case id.IsInterior():
		var exit *world.ExitTarget
		if tctx.Kind == ContextStructureEntry && tctx.OriginSceneID != "" {
			exit = &world.ExitTarget{SceneID: tctx.OriginSceneID, Position: tctx.ExitTargetPosition}
		}
		grid, store, err := m.Gen.Interior(ctx, exit)
		if err != nil {
			return nil, err
		}
		return &world.Scene{ID: id, Terrain: grid, Entities: store}, nil
	case id.IsOutdoor():
		grid, store, err := m.Gen.Outdoor(ctx, m.Profile, m.OutdoorRows, m.OutdoorCols)
		if err != nil {
			return nil, err
		}
		return &world.Scene{ID: id, Terrain: grid, Entities: store}, nil
	default:
		return nil, fmt.Errorf("unrecognized scene id %q", id)
	}
}

func (m *Manager) cacheScene(s *world.Scene) {
	if m.cache == nil {
		m.cache = make(map[world.SceneID]*world.Scene)
	}
	m.cache[s.ID] = s
}

// ChangeScene persists the outgoing scene, resolves the target, applies any
// reciprocal link and installs the target as active. Returns the resolved
// spawn point. A save failure is logged and does not block the switch;
// losing a save beats freezing the player mid-transition.
func (m *Manager) ChangeScene(ctx context.Context, target world.SceneID, tctx TransitionContext) (*world.Scene, world.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	outgoing := m.active
	if outgoing != nil {
		if err := m.persistLocked(ctx, outgoing); err != nil {
			log.Printf("scenes: save %s failed, continuing transition: %v", outgoing.ID, err)
			if m.Metrics != nil {
				m.Metrics.RecordSaveFailure()
			}
		}
	}
	m.active = nil

	scene, err := m.getOrCreateLocked(ctx, target, tctx)
	if err != nil {
		m.active = outgoing
		return nil, world.Point{}, err
	}

	if tctx.Kind == ContextEdgeCrossing && tctx.ReciprocalSceneID != "" {
		if scene.Links.In(tctx.ReciprocalDirection) == "" {
			scene.Links.Link(tctx.ReciprocalDirection, tctx.ReciprocalSceneID)
			// persist immediately so the back-link survives even if the
			// player never returns
			if err := m.persistLocked(ctx, scene); err != nil {
				log.Printf("scenes: save reciprocal link on %s failed: %v", scene.ID, err)
				if m.Metrics != nil {
					m.Metrics.RecordSaveFailure()
				}
			}
		}
	}

	m.active = scene
	return scene, m.spawnPoint(scene, tctx), nil
}

func (m *Manager) spawnPoint(s *world.Scene, tctx TransitionContext) world.Point {
	if tctx.TargetPosition != nil {
		return *tctx.TargetPosition
	}
	return world.Point{X: s.Terrain.PixelWidth() / 2, Y: s.Terrain.PixelHeight() / 2}
}

// SaveActive snapshots the active scene. Used on shutdown and after
// world-mutating actions.
func (m *Manager) SaveActive(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	return m.persistLocked(ctx, m.active)
}

func (m *Manager) persistLocked(ctx context.Context, s *world.Scene) error {
	if err := m.Store.Put(ctx, s.ID, m.Codec.Encode(s)); err != nil {
		return err
	}
	if m.Metrics != nil {
		m.Metrics.RecordSnapshotSaved()
	}
	return nil
}

func (m *Manager) recordLoadFallback() {
	if m.Metrics != nil {
		m.Metrics.RecordLoadFallback()
	}
}

// DeleteInterior removes the snapshot paired with a structure. Called when
// the structure itself is removed, so interiors never outlive their house.
func (m *Manager) DeleteInterior(ctx context.Context, structureID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := world.InteriorSceneID(structureID)
	delete(m.cache, id)
	return m.Store.Delete(ctx, id)
}

// DeleteAllScenesExcept prunes every persisted scene outside the keep set:
// the keep scene plus any interior derived from a structure it contains.
// Object and item lists are cleared before each delete so a partially
// completed prune never leaves a structure list pointing at a deleted
// interior. Returns the deleted identifiers.
func (m *Manager) DeleteAllScenesExcept(ctx context.Context, keep world.SceneID) ([]world.SceneID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		if err := m.persistLocked(ctx, m.active); err != nil {
			return nil, fmt.Errorf("save active scene before prune: %w", err)
		}
	}

	keepSet := map[world.SceneID]bool{keep: true}
	if snap, found, err := m.Store.Get(ctx, keep); err == nil && found {
		for _, rec := range snap.Objects {
			if rec.Type == string(world.EntityHouse) && rec.ID != "" {
				keepSet[world.InteriorSceneID(rec.ID)] = true
			}
		}
	}

	ids, err := m.Store.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	deleted := make([]world.SceneID, 0, len(ids))
	err = m.Tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			if keepSet[id] {
				continue
			}
			if snap, found, gerr := m.Store.Get(ctx, id); gerr == nil && found {
				snap.Objects = []world.ObjectRecord{}
				snap.DroppedItems = []world.ItemRecord{}
				if perr := m.Store.Put(ctx, id, snap); perr != nil {
					return perr
				}
			}
			if derr := m.Store.Delete(ctx, id); derr != nil {
				return derr
			}
			deleted = append(deleted, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for id := range m.cache {
		if !keepSet[id] {
			delete(m.cache, id)
		}
	}
	return deleted, nil
}
