package play

import "gridstead/internal/domain/world"

type ActionRequest struct {
	PlayerID string
	Type     ActionType

	// move
	DX, DY float64

	// chop / place_house / remove_house / drop / pickup
	TargetX, TargetY float64

	// drop
	ItemID   string
	Quantity int
}

type ActionType string

const (
	ActionMove        ActionType = "move"
	ActionChop        ActionType = "chop"
	ActionPlaceHouse  ActionType = "place_house"
	ActionRemoveHouse ActionType = "remove_house"
	ActionDrop        ActionType = "drop"
	ActionPickup      ActionType = "pickup"
)

type ResultCode string

const (
	ResultOK           ResultCode = "ok"
	ResultBlocked      ResultCode = "blocked"
	ResultNoTarget     ResultCode = "no_target"
	ResultTransitioned ResultCode = "transitioned"
)

type ActionResponse struct {
	Result   ResultCode  `json:"result"`
	SceneID  string      `json:"scene_id"`
	Position world.Point `json:"position"`
}

// SceneView is what the browser renders: the full terrain matrix plus typed
// object and item lists for the active scene.
type SceneView struct {
	SceneID      string              `json:"scene_id"`
	Rows         int                 `json:"rows"`
	Cols         int                 `json:"cols"`
	TerrainGrid  [][]string          `json:"terrainGrid"`
	Objects      []ObjectView        `json:"objects"`
	DroppedItems []world.ItemRecord  `json:"droppedItems"`
	Links        map[string]string   `json:"links"`
	Player       PlayerView          `json:"player"`
}

type ObjectView struct {
	Type    string      `json:"type"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Health  int         `json:"health,omitempty"`
	ID      string      `json:"id,omitempty"`
	Falling bool        `json:"falling,omitempty"`
}

type PlayerView struct {
	ID       string      `json:"id"`
	Position world.Point `json:"position"`
}
