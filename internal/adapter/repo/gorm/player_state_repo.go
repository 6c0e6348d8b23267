package gormrepo

import (
	"context"
	"errors"
	"time"

	"gridstead/internal/adapter/repo/gorm/model"
	"gridstead/internal/app/ports"
	"gridstead/internal/domain/world"

	"gorm.io/gorm"
)

type PlayerStateRepo struct {
	db *gorm.DB
}

func NewPlayerStateRepo(db *gorm.DB) PlayerStateRepo {
	return PlayerStateRepo{db: db}
}

func (r PlayerStateRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.PlayerState, error) {
	var m model.PlayerState
	if err := getDBFromCtx(ctx, r.db).Where("player_id = ?", playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PlayerState{}, ports.ErrNotFound
		}
		return ports.PlayerState{}, err
	}
	return ports.PlayerState{
		PlayerID: m.PlayerID,
		SceneID:  world.SceneID(m.SceneID),
		Position: world.Point{X: m.X, Y: m.Y},
		Version:  m.Version,
	}, nil
}

// SaveWithVersion uses optimistic concurrency: expectedVersion 0 means a
// fresh insert, anything else must match the stored row or the save is
// rejected with ErrConflict.
func (r PlayerStateRepo) SaveWithVersion(ctx context.Context, state ports.PlayerState, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		m := model.PlayerState{
			PlayerID:  state.PlayerID,
			SceneID:   string(state.SceneID),
			X:         state.Position.X,
			Y:         state.Position.Y,
			Version:   state.Version,
			UpdatedAt: time.Now(),
		}
		return db.Create(&m).Error
	}

	updates := map[string]any{
		"scene_id":   string(state.SceneID),
		"x":          state.Position.X,
		"y":          state.Position.Y,
		"version":    state.Version,
		"updated_at": time.Now(),
	}
	res := db.Model(&model.PlayerState{}).
		Where("player_id = ? AND version = ?", state.PlayerID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
