package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gridstead/internal/adapter/repo/gorm/model"
	"gridstead/internal/app/ports"
	"gridstead/internal/domain/world"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SceneRepo stores scene snapshots as JSON blobs keyed by scene id. The blob
// keeps the schema stable while the snapshot format evolves; nothing queries
// inside a scene.
type SceneRepo struct {
	db *gorm.DB
}

func NewSceneRepo(db *gorm.DB) SceneRepo {
	return SceneRepo{db: db}
}

func (r SceneRepo) Put(ctx context.Context, id world.SceneID, snap world.SceneSnapshot) error {
	snap.ID = id
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m := model.Scene{
		SceneID:   string(id),
		Snapshot:  b,
		UpdatedAt: time.Now(),
	}
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scene_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"snapshot", "updated_at"}),
		}).
		Create(&m).Error
}

func (r SceneRepo) Get(ctx context.Context, id world.SceneID) (world.SceneSnapshot, bool, error) {
	var m model.Scene
	err := getDBFromCtx(ctx, r.db).Where("scene_id = ?", string(id)).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return world.SceneSnapshot{}, false, nil
		}
		return world.SceneSnapshot{}, false, err
	}
	var snap world.SceneSnapshot
	if err := json.Unmarshal(m.Snapshot, &snap); err != nil {
		return world.SceneSnapshot{}, false, fmt.Errorf("scene %s: %w", id, ports.ErrCorruptSnapshot)
	}
	return snap, true, nil
}

func (r SceneRepo) Delete(ctx context.Context, id world.SceneID) error {
	return getDBFromCtx(ctx, r.db).
		Where("scene_id = ?", string(id)).
		Delete(&model.Scene{}).Error
}

func (r SceneRepo) ListIDs(ctx context.Context) ([]world.SceneID, error) {
	var raw []string
	err := getDBFromCtx(ctx, r.db).
		Model(&model.Scene{}).
		Pluck("scene_id", &raw).Error
	if err != nil {
		return nil, err
	}
	out := make([]world.SceneID, 0, len(raw))
	for _, id := range raw {
		out = append(out, world.SceneID(id))
	}
	return out, nil
}
