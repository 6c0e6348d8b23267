package world

// SceneSnapshot is the durable representation of one scene. It is
// overwritten in full on every save; there is no version history.
type SceneSnapshot struct {
	ID           SceneID        `json:"id"`
	Objects      []ObjectRecord `json:"objects"`
	DroppedItems []ItemRecord   `json:"droppedItems"`
	TerrainGrid  [][]string     `json:"terrainGrid"`
	NorthSceneID string         `json:"northSceneId,omitempty"`
	EastSceneID  string         `json:"eastSceneId,omitempty"`
	SouthSceneID string         `json:"southSceneId,omitempty"`
	WestSceneID  string         `json:"westSceneId,omitempty"`
}

// ObjectRecord is the tagged persisted form of one static entity. Absent
// optional fields carry meaning: a tree without currentHealth is at full
// health, a doorExit without a target is unwired.
type ObjectRecord struct {
	Type           string `json:"type"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	ID             string  `json:"id,omitempty"`
	CurrentHealth  *int    `json:"currentHealth,omitempty"`
	TargetSceneID  string  `json:"targetSceneId,omitempty"`
	TargetPosition *Point  `json:"targetPosition,omitempty"`
}

type ItemRecord struct {
	ItemID   string  `json:"itemId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Quantity int     `json:"quantity"`
}
