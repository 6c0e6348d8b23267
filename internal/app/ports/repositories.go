package ports

import (
	"context"
	"time"

	"gridstead/internal/domain/world"
)

// SceneStore is the durable key-value boundary for scene snapshots, keyed by
// scene identifier. Put atomically overwrites any previous snapshot for the
// same id. Get reports a malformed record as ErrCorruptSnapshot; callers
// treat both absence and corruption as "no saved state".
type SceneStore interface {
	Put(ctx context.Context, id world.SceneID, snap world.SceneSnapshot) error
	Get(ctx context.Context, id world.SceneID) (world.SceneSnapshot, bool, error)
	Delete(ctx context.Context, id world.SceneID) error
	ListIDs(ctx context.Context) ([]world.SceneID, error)
}

type PlayerState struct {
	PlayerID string
	SceneID  world.SceneID
	Position world.Point
	Version  int64
}

type PlayerStateRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (PlayerState, error)
	SaveWithVersion(ctx context.Context, state PlayerState, expectedVersion int64) error
}

type WorldEvent struct {
	Type     string
	SceneID  world.SceneID
	Position world.Point
	Detail   string
	At       time.Time
}

type EventRepository interface {
	Append(ctx context.Context, playerID string, events []WorldEvent) error
	ListByPlayerID(ctx context.Context, playerID string, limit int) ([]WorldEvent, error)
}
