package memory

import (
	"sync"

	"gridstead/internal/app/ports"
	"gridstead/internal/domain/world"
)

// Store backs the memory adapters. Scenes are held in their serialized form
// so the adapter exercises the same marshal path as the gorm one, and so
// tests can seed deliberately malformed records.
type Store struct {
	mu     sync.RWMutex
	scenes map[world.SceneID][]byte
	state  map[string]ports.PlayerState
	events map[string][]ports.WorldEvent
}

func NewStore() *Store {
	return &Store{
		scenes: make(map[world.SceneID][]byte),
		state:  make(map[string]ports.PlayerState),
		events: make(map[string][]ports.WorldEvent),
	}
}

// SeedRawScene installs an arbitrary blob under a scene id, bypassing the
// codec. Test hook for corrupt-snapshot scenarios.
func (s *Store) SeedRawScene(id world.SceneID, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenes[id] = raw
}
