package world

import (
	"log"
	"math"
	"time"
)

type EntityKind string

const (
	EntityTree     EntityKind = "tree"
	EntityHouse    EntityKind = "house"
	EntityDoorExit EntityKind = "doorExit"
)

const TreeMaxHealth = 3

// entityAssets maps entity kinds to the image whose natural dimensions size
// the entity. Entities are never constructed before their image is loaded.
var entityAssets = map[EntityKind]string{
	EntityTree:     "assets/objects/tree.png",
	EntityHouse:    "assets/objects/house.png",
	EntityDoorExit: "assets/objects/door_exit.png",
}

func AssetForEntity(kind EntityKind) (string, bool) {
	path, ok := entityAssets[kind]
	return path, ok
}

// ExitTarget routes an interior's exit marker back to its origin scene. A
// nil target models a door that was never wired to an origin; it is inert.
type ExitTarget struct {
	SceneID  SceneID
	Position Point
}

// Entity is a tagged union over the static world object variants. Kind is
// the discriminant; only the matching variant fields are meaningful.
type Entity struct {
	Kind   EntityKind
	X, Y   float64 // center-anchored world position
	Width  float64
	Height float64

	// tree; Falling is terminal and FellAt marks when the fall started
	MaxHealth int
	Health    int
	Falling   bool
	FellAt    time.Time

	// house
	StructureID string

	// doorExit
	Exit *ExitTarget
}

func NewTree(x, y, w, h float64) Entity {
	return Entity{Kind: EntityTree, X: x, Y: y, Width: w, Height: h,
		MaxHealth: TreeMaxHealth, Health: TreeMaxHealth}
}

func NewHouse(structureID string, x, y, w, h float64) Entity {
	return Entity{Kind: EntityHouse, X: x, Y: y, Width: w, Height: h, StructureID: structureID}
}

func NewDoorExit(x, y, w, h float64, target *ExitTarget) Entity {
	return Entity{Kind: EntityDoorExit, X: x, Y: y, Width: w, Height: h, Exit: target}
}

// InteriorID derives the scene paired with a house.
func (e Entity) InteriorID() (SceneID, bool) {
	if e.Kind != EntityHouse || e.StructureID == "" {
		return "", false
	}
	return InteriorSceneID(e.StructureID), true
}

func (e Entity) Contains(x, y float64) bool {
	return math.Abs(x-e.X)*2 <= e.Width && math.Abs(y-e.Y)*2 <= e.Height
}

// Overlaps reports whether two center-anchored boxes overlap on both axes.
// Exactly-touching edges do not collide.
func Overlaps(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	return math.Abs(ax-bx)*2 < aw+bw && math.Abs(ay-by)*2 < ah+bh
}

type ItemID string

const (
	ItemLog   ItemID = "log"
	ItemStone ItemID = "stone"
	ItemStick ItemID = "stick"
)

type ItemConfig struct {
	Asset string
	Sound string
}

type ItemRegistry map[ItemID]ItemConfig

func DefaultItemRegistry() ItemRegistry {
	return ItemRegistry{
		ItemLog:   {Asset: "assets/items/log.png", Sound: "drop_wood"},
		ItemStone: {Asset: "assets/items/stone.png", Sound: "drop_stone"},
		ItemStick: {Asset: "assets/items/stick.png", Sound: "drop_wood"},
	}
}

// GroundItem is an ephemeral drop. It is addressed by handle while in a
// store and by value in snapshots, never by durable identifier.
type GroundItem struct {
	ItemID   ItemID
	X, Y     float64
	Quantity int
}

// Handle is a stable reference into an EntityStore. Removal by handle avoids
// the ambiguity of removing by equality when two entities compare equal.
type Handle int

// EntityStore owns one scene's static objects and ground items in arena
// storage. Iteration follows insertion order; point queries return the first
// match, which matters for selection tools over overlapping objects.
type EntityStore struct {
	items ItemRegistry

	next        Handle
	order       []Handle
	entities    map[Handle]*Entity
	itemOrder   []Handle
	groundItems map[Handle]*GroundItem
}

func NewEntityStore(items ItemRegistry) *EntityStore {
	return &EntityStore{
		items:       items,
		entities:    make(map[Handle]*Entity),
		groundItems: make(map[Handle]*GroundItem),
	}
}

func (s *EntityStore) Add(e Entity) Handle {
	s.next++
	h := s.next
	s.entities[h] = &e
	s.order = append(s.order, h)
	return h
}

func (s *EntityStore) Get(h Handle) (*Entity, bool) {
	e, ok := s.entities[h]
	return e, ok
}

func (s *EntityStore) Remove(h Handle) {
	if _, ok := s.entities[h]; !ok {
		return
	}
	delete(s.entities, h)
	s.order = removeHandle(s.order, h)
}

func (s *EntityStore) Len() int { return len(s.order) }

// Each visits entities in insertion order until fn returns false.
func (s *EntityStore) Each(fn func(Handle, *Entity) bool) {
	for _, h := range s.order {
		if !fn(h, s.entities[h]) {
			return
		}
	}
}

// At returns the first entity whose box contains the point.
func (s *EntityStore) At(x, y float64) (Handle, *Entity, bool) {
	for _, h := range s.order {
		if s.entities[h].Contains(x, y) {
			return h, s.entities[h], true
		}
	}
	return 0, nil, false
}

// SpawnItem resolves the item registry before spawning. Unknown ids are
// logged and dropped without mutating the store.
func (s *EntityStore) SpawnItem(id ItemID, x, y float64, quantity int) (Handle, bool) {
	if _, ok := s.items[id]; !ok {
		log.Printf("entity store: unknown item %q, not spawning", id)
		return 0, false
	}
	s.next++
	h := s.next
	s.groundItems[h] = &GroundItem{ItemID: id, X: x, Y: y, Quantity: quantity}
	s.itemOrder = append(s.itemOrder, h)
	return h, true
}

func (s *EntityStore) RemoveItem(h Handle) {
	if _, ok := s.groundItems[h]; !ok {
		return
	}
	delete(s.groundItems, h)
	s.itemOrder = removeHandle(s.itemOrder, h)
}

func (s *EntityStore) ItemCount() int { return len(s.itemOrder) }

func (s *EntityStore) EachItem(fn func(Handle, *GroundItem) bool) {
	for _, h := range s.itemOrder {
		if !fn(h, s.groundItems[h]) {
			return
		}
	}
}

// ItemAt returns the first ground item whose position is within radius of
// the point.
func (s *EntityStore) ItemAt(x, y, radius float64) (Handle, *GroundItem, bool) {
	for _, h := range s.itemOrder {
		it := s.groundItems[h]
		if math.Hypot(it.X-x, it.Y-y) <= radius {
			return h, it, true
		}
	}
	return 0, nil, false
}

// Clear empties both static entities and ground items before a repopulate.
func (s *EntityStore) Clear() {
	s.order = nil
	s.itemOrder = nil
	s.entities = make(map[Handle]*Entity)
	s.groundItems = make(map[Handle]*GroundItem)
}

func removeHandle(order []Handle, h Handle) []Handle {
	for i, v := range order {
		if v == h {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
