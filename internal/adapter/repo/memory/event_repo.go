package memory

import (
	"context"

	"gridstead/internal/app/ports"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, playerID string, events []ports.WorldEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[playerID] = append(r.store.events[playerID], events...)
	return nil
}

// ListByPlayerID returns the most recent events, newest last.
func (r EventRepo) ListByPlayerID(_ context.Context, playerID string, limit int) ([]ports.WorldEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := r.store.events[playerID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]ports.WorldEvent, limit)
	copy(out, all[len(all)-limit:])
	return out, nil
}
