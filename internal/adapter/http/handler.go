package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"gridstead/internal/app/play"
	"gridstead/internal/app/ports"
	"gridstead/internal/app/scenes"
	"gridstead/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const playerIDHeader = "X-Player-ID"

const defaultOriginScene = world.SceneID("world_0_0")

type Handler struct {
	PlayUC play.UseCase
	Scenes *scenes.Manager
	Cues   cueDrainer
	KPI    kpiSnapshotProvider
}

// cueDrainer hands out the sound cues queued since the last state poll.
type cueDrainer interface {
	Drain() []string
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	player := s.Group("/api/player")
	player.POST("/state", h.state)
	player.POST("/action", h.action)
	player.GET("/replay", h.replay)

	s.POST("/ops/world/reset", h.worldReset)
	s.GET("/ops/kpi", h.kpi)
}

type actionRequest struct {
	Type     string  `json:"type"`
	DX       float64 `json:"dx,omitempty"`
	DY       float64 `json:"dy,omitempty"`
	TargetX  float64 `json:"target_x,omitempty"`
	TargetY  float64 `json:"target_y,omitempty"`
	ItemID   string  `json:"item_id,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
}

type stateResponse struct {
	Scene play.SceneView `json:"scene"`
	Cues  []string       `json:"cues"`
}

type replayResponse struct {
	Events []eventView `json:"events"`
}

type eventView struct {
	Type       string      `json:"type"`
	SceneID    string      `json:"scene_id"`
	Position   world.Point `json:"position"`
	Detail     string      `json:"detail,omitempty"`
	OccurredAt int64       `json:"occurred_at"`
}

type worldResetRequest struct {
	Keep string `json:"keep,omitempty"`
}

type worldResetResponse struct {
	Kept    string   `json:"kept"`
	Deleted []string `json:"deleted"`
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	view, err := h.PlayUC.State(c, playerID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	cues := []string{}
	if h.Cues != nil {
		if drained := h.Cues.Drain(); drained != nil {
			cues = drained
		}
	}
	ctx.JSON(consts.StatusOK, stateResponse{Scene: view, Cues: cues})
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.PlayUC.Execute(c, play.ActionRequest{
		PlayerID: playerID,
		Type:     play.ActionType(body.Type),
		DX:       body.DX,
		DY:       body.DY,
		TargetX:  body.TargetX,
		TargetY:  body.TargetY,
		ItemID:   body.ItemID,
		Quantity: body.Quantity,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	playerID, err := requirePlayer(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))

	events, err := h.PlayUC.Replay(c, playerID, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}

	out := replayResponse{Events: make([]eventView, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, eventView{
			Type:       e.Type,
			SceneID:    string(e.SceneID),
			Position:   e.Position,
			Detail:     e.Detail,
			OccurredAt: e.At.Unix(),
		})
	}
	ctx.JSON(consts.StatusOK, out)
}

// worldReset drops every persisted scene except the kept one and the
// interiors of its houses. Maintenance only; the kept scene defaults to the
// active scene so a live player is never cut out from under.
func (h Handler) worldReset(c context.Context, ctx *app.RequestContext) {
	var body worldResetRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	keep := world.SceneID(body.Keep)
	if keep == "" {
		if active := h.Scenes.Active(); active != nil {
			keep = active.ID
		} else {
			keep = defaultOriginScene
		}
	}

	deleted, err := h.Scenes.DeleteAllScenesExcept(c, keep)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp := worldResetResponse{Kept: string(keep), Deleted: make([]string, 0, len(deleted))}
	for _, id := range deleted {
		resp.Deleted = append(resp.Deleted, string(id))
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingPlayerIDHeader = errors.New("missing x-player-id header")

func requirePlayer(ctx *app.RequestContext) (string, error) {
	playerID := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	if playerID == "" {
		return "", ErrMissingPlayerIDHeader
	}
	return playerID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingPlayerIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error())
	case errors.Is(err, play.ErrInvalidAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_action", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ports.ErrAssetUnavailable):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "asset_unavailable", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
