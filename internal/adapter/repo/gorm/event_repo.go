package gormrepo

import (
	"context"

	"gridstead/internal/adapter/repo/gorm/model"
	"gridstead/internal/app/ports"
	"gridstead/internal/domain/world"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, playerID string, events []ports.WorldEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.WorldEvent, 0, len(events))
	for _, e := range events {
		rows = append(rows, model.WorldEvent{
			PlayerID:   playerID,
			Type:       e.Type,
			SceneID:    string(e.SceneID),
			X:          e.Position.X,
			Y:          e.Position.Y,
			Detail:     e.Detail,
			OccurredAt: e.At,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

// ListByPlayerID returns the last `limit` events in chronological order,
// newest last, matching what the replay view renders.
func (r EventRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]ports.WorldEvent, error) {
	rows := []model.WorldEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.WorldEvent{PlayerID: playerID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "occurred_at"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.WorldEvent, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = ports.WorldEvent{
			Type:     row.Type,
			SceneID:  world.SceneID(row.SceneID),
			Position: world.Point{X: row.X, Y: row.Y},
			Detail:   row.Detail,
			At:       row.OccurredAt,
		}
	}
	return out, nil
}
