package memory

import (
	"context"

	"gridstead/internal/app/ports"
)

type PlayerStateRepo struct {
	store *Store
}

func NewPlayerStateRepo(store *Store) PlayerStateRepo {
	return PlayerStateRepo{store: store}
}

func (r PlayerStateRepo) GetByPlayerID(_ context.Context, playerID string) (ports.PlayerState, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	state, ok := r.store.state[playerID]
	if !ok {
		return ports.PlayerState{}, ports.ErrNotFound
	}
	return state, nil
}

func (r PlayerStateRepo) SaveWithVersion(_ context.Context, state ports.PlayerState, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.state[state.PlayerID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.state[state.PlayerID] = state
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.state[state.PlayerID] = state
	return nil
}
