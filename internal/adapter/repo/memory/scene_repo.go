package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"gridstead/internal/app/ports"
	"gridstead/internal/domain/world"
)

type SceneRepo struct {
	store *Store
}

func NewSceneRepo(store *Store) SceneRepo {
	return SceneRepo{store: store}
}

func (r SceneRepo) Put(_ context.Context, id world.SceneID, snap world.SceneSnapshot) error {
	snap.ID = id
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.scenes[id] = b
	return nil
}

func (r SceneRepo) Get(_ context.Context, id world.SceneID) (world.SceneSnapshot, bool, error) {
	r.store.mu.RLock()
	raw, ok := r.store.scenes[id]
	r.store.mu.RUnlock()
	if !ok {
		return world.SceneSnapshot{}, false, nil
	}
	var snap world.SceneSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return world.SceneSnapshot{}, false, fmt.Errorf("scene %s: %w", id, ports.ErrCorruptSnapshot)
	}
	return snap, true, nil
}

func (r SceneRepo) Delete(_ context.Context, id world.SceneID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.scenes, id)
	return nil
}

func (r SceneRepo) ListIDs(_ context.Context) ([]world.SceneID, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]world.SceneID, 0, len(r.store.scenes))
	for id := range r.store.scenes {
		out = append(out, id)
	}
	return out, nil
}
