package play

import (
	"context"
	"math/rand"
	"testing"
	"time"

	staticassets "gridstead/internal/adapter/assets/static"
	"gridstead/internal/adapter/audio"
	"gridstead/internal/adapter/repo/memory"
	"gridstead/internal/app/scenes"
	"gridstead/internal/app/scenestate"
	"gridstead/internal/app/transition"
	"gridstead/internal/app/worldgen"
	"gridstead/internal/domain/world"
)

type testKit struct {
	uc    UseCase
	store *memory.Store
	cues  *audio.Recorder
	now   *time.Time
}

func newTestKit(t *testing.T) testKit {
	t.Helper()
	store := memory.NewStore()
	assets := staticassets.NewLibrary()
	terrain := world.DefaultTerrainRegistry()
	items := world.DefaultItemRegistry()
	m := &scenes.Manager{
		Store: memory.NewSceneRepo(store),
		Tx:    memory.NewTxManager(),
		Codec: scenestate.Codec{Assets: assets, Terrain: terrain, Items: items},
		Gen: worldgen.Generator{
			Assets:  assets,
			Terrain: terrain,
			Items:   items,
			Rand:    rand.New(rand.NewSource(21)),
		},
		Profile:     worldgen.ForestProfile(),
		OutdoorRows: 15,
		OutdoorCols: 20,
	}
	cues := audio.NewRecorder()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	uc := UseCase{
		Manager:     m,
		Transitions: transition.Controller{Manager: m},
		PlayerRepo:  memory.NewPlayerStateRepo(store),
		Events:      memory.NewEventRepo(store),
		Audio:       cues,
		Assets:      assets,
		Items:       items,
		Tx:          memory.NewTxManager(),
		Now:         func() time.Time { return now },
	}
	if err := uc.EnsurePlayer(context.Background(), "p1", "world_0_0"); err != nil {
		t.Fatalf("ensure player: %v", err)
	}
	return testKit{uc: uc, store: store, cues: cues, now: &now}
}

func (k testKit) advance(d time.Duration) {
	*k.now = k.now.Add(d)
}

// clearField flattens the active scene so movement tests do not depend on
// what the seeded generator placed.
func (k testKit) clearField(t *testing.T) *world.Scene {
	t.Helper()
	state, err := k.uc.PlayerRepo.GetByPlayerID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	scene, err := k.uc.Manager.GetOrCreate(context.Background(), state.SceneID, scenes.TransitionContext{Kind: scenes.ContextPlain})
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	scene.Terrain.Fill(world.TerrainGrass)
	scene.Entities.Clear()
	return scene
}

func TestEnsurePlayer_Idempotent(t *testing.T) {
	kit := newTestKit(t)
	if err := kit.uc.EnsurePlayer(context.Background(), "p1", "world_0_0"); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	state, err := kit.uc.PlayerRepo.GetByPlayerID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state.SceneID != "world_0_0" {
		t.Fatalf("unexpected scene %q", state.SceneID)
	}
}

func TestExecute_MovePersistsState(t *testing.T) {
	kit := newTestKit(t)
	kit.clearField(t)
	resp, err := kit.uc.Execute(context.Background(), ActionRequest{PlayerID: "p1", Type: ActionMove, DX: 10})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if resp.Result != ResultOK {
		t.Fatalf("unexpected result %q", resp.Result)
	}
	state, _ := kit.uc.PlayerRepo.GetByPlayerID(context.Background(), "p1")
	if state.Position != resp.Position {
		t.Fatalf("persisted position %+v != response %+v", state.Position, resp.Position)
	}
	if state.Version != 2 {
		t.Fatalf("version not bumped: %d", state.Version)
	}
}

func TestExecute_MoveAcrossWestEdgeTransitions(t *testing.T) {
	kit := newTestKit(t)
	kit.clearField(t)
	ctx := context.Background()
	// drag the player to the west boundary in one large step
	resp, err := kit.uc.Execute(ctx, ActionRequest{PlayerID: "p1", Type: ActionMove, DX: -315})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if resp.Result != ResultTransitioned {
		t.Fatalf("expected transition, got %q", resp.Result)
	}
	if resp.SceneID != "world_-1_0" {
		t.Fatalf("unexpected scene %q", resp.SceneID)
	}
	events, err := kit.uc.Replay(ctx, "p1", 10)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(events) == 0 || events[len(events)-1].Type != "scene_transition" {
		t.Fatalf("transition event missing: %+v", events)
	}
}

func TestExecute_MoveBlockedByHouse(t *testing.T) {
	kit := newTestKit(t)
	ctx := context.Background()
	scene := kit.clearField(t)
	state, _ := kit.uc.PlayerRepo.GetByPlayerID(ctx, "p1")
	scene.Entities.Add(world.NewHouse("hx", state.Position.X+40, state.Position.Y, 128, 96))

	resp, err := kit.uc.Execute(ctx, ActionRequest{PlayerID: "p1", Type: ActionMove, DX: 10})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if resp.Result != ResultBlocked {
		t.Fatalf("expected blocked, got %q", resp.Result)
	}
	if resp.Position != state.Position {
		t.Fatalf("blocked move changed position")
	}
}

func TestExecute_ChopFellsTreeAndDropsLog(t *testing.T) {
	kit := newTestKit(t)
	ctx := context.Background()
	state, _ := kit.uc.PlayerRepo.GetByPlayerID(ctx, "p1")
	scene, _ := kit.uc.Manager.GetOrCreate(ctx, state.SceneID, scenes.TransitionContext{Kind: scenes.ContextPlain})

	var tx, ty float64
	scene.Entities.Each(func(_ world.Handle, e *world.Entity) bool {
		if e.Kind == world.EntityTree {
			tx, ty = e.X, e.Y
			return false
		}
		return true
	})

	for i := 0; i < world.TreeMaxHealth; i++ {
		if _, err := kit.uc.Execute(ctx, ActionRequest{PlayerID: "p1", Type: ActionChop, TargetX: tx, TargetY: ty}); err != nil {
			t.Fatalf("chop %d: %v", i, err)
		}
	}

	_, felled, ok := scene.Entities.At(tx, ty)
	if !ok || !felled.Falling {
		t.Fatalf("expected a falling tree after %d chops", world.TreeMaxHealth)
	}
	if _, _, ok := scene.Entities.ItemAt(tx, ty, 1); !ok {
		t.Fatalf("no log dropped at felling site")
	}
	cues := kit.cues.Drain()
	var sawFall bool
	for _, cue := range cues {
		if cue == "tree_fall" {
			sawFall = true
		}
	}
	if !sawFall {
		t.Fatalf("tree_fall cue missing from %v", cues)
	}
	// felling persists immediately
	snap, found, _ := memory.NewSceneRepo(kit.store).Get(ctx, state.SceneID)
	if !found {
		t.Fatalf("scene not persisted after felling")
	}
	for _, rec := range snap.Objects {
		if rec.Type == "tree" && rec.X == tx && rec.Y == ty {
			t.Fatalf("felled tree present in snapshot")
		}
	}

	// the fallen prop clears on the first poll after the fall plays out
	kit.advance(2 * treeFallDelay)
	if _, err := kit.uc.State(ctx, "p1"); err != nil {
		t.Fatalf("state: %v", err)
	}
	if _, e, ok := scene.Entities.At(tx, ty); ok && e.Kind == world.EntityTree {
		t.Fatalf("fallen tree not cleared after the delay: %+v", e)
	}
}

func TestExecute_FallingTreeLingersNonBlocking(t *testing.T) {
	kit := newTestKit(t)
	ctx := context.Background()
	scene := kit.clearField(t)
	state, _ := kit.uc.PlayerRepo.GetByPlayerID(ctx, "p1")
	tx, ty := state.Position.X+40, state.Position.Y
	tree := world.NewTree(tx, ty, 48, 64)
	tree.Health = 1
	scene.Entities.Add(tree)

	resp, err := kit.uc.Execute(ctx, ActionRequest{PlayerID: "p1", Type: ActionChop, TargetX: tx, TargetY: ty})
	if err != nil {
		t.Fatalf("chop: %v", err)
	}
	if resp.Result != ResultOK {
		t.Fatalf("chop result %q", resp.Result)
	}

	view, err := kit.uc.State(ctx, "p1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	var sawFalling bool
	for _, ov := range view.Objects {
		if ov.Type == "tree" && ov.Falling {
			sawFalling = true
		}
	}
	if !sawFalling {
		t.Fatalf("falling tree missing from the state view: %+v", view.Objects)
	}

	// while falling the tree neither blocks movement nor takes further chops
	move, err := kit.uc.Execute(ctx, ActionRequest{PlayerID: "p1", Type: ActionMove, DX: 10})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if move.Result != ResultOK {
		t.Fatalf("falling tree blocked movement: %q", move.Result)
	}
	again, err := kit.uc.Execute(ctx, ActionRequest{PlayerID: "p1", Type: ActionChop, TargetX: tx, TargetY: ty})
	if err != nil {
		t.Fatalf("second chop: %v", err)
	}
	if again.Result != ResultNoTarget {
		t.Fatalf("falling tree took another chop: %q", again.Result)
	}

	kit.advance(treeFallDelay)
	view, err = kit.uc.State(ctx, "p1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	for _, ov := range view.Objects {
		if ov.Type == "tree" {
			t.Fatalf("fallen tree still in view after the delay: %+v", ov)
		}
	}
	if len(view.DroppedItems) == 0 {
		t.Fatalf("log drop lost when the fallen tree cleared")
	}
}

func TestExecute_RemoveHouseCascadesInterior(t *testing.T) {
	kit := newTestKit(t)
	kit.clearField(t)
	ctx := context.Background()

	place, err := kit.uc.Execute(ctx, ActionRequest{PlayerID: "p1", Type: ActionPlaceHouse, TargetX: 500, TargetY: 120})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if place.Result != ResultOK {
		t.Fatalf("place result %q", place.Result)
	}
	scene := kit.uc.Manager.Active()
	_, house, ok := scene.Entities.At(500, 120)
	if !ok || house.Kind != world.EntityHouse {
		t.Fatalf("house not placed")
	}
	interiorID, _ := house.InteriorID()
	if _, err := kit.uc.Manager.GetOrCreate(ctx, interiorID, scenes.TransitionContext{
		Kind: scenes.ContextStructureEntry, OriginSceneID: scene.ID,
	}); err != nil {
		t.Fatalf("interior: %v", err)
	}
	repo := memory.NewSceneRepo(kit.store)
	if err := repo.Put(ctx, interiorID, world.SceneSnapshot{
		Objects: []world.ObjectRecord{}, DroppedItems: []world.ItemRecord{}, TerrainGrid: [][]string{{"woodFloor"}},
	}); err != nil {
		t.Fatalf("persist interior: %v", err)
	}

	remove, err := kit.uc.Execute(ctx, ActionRequest{PlayerID: "p1", Type: ActionRemoveHouse, TargetX: 500, TargetY: 120})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if remove.Result != ResultOK {
		t.Fatalf("remove result %q", remove.Result)
	}
	if _, _, ok := scene.Entities.At(500, 120); ok {
		t.Fatalf("house still present")
	}
	if _, found, _ := repo.Get(ctx, interiorID); found {
		t.Fatalf("interior snapshot survived house removal")
	}
}

func TestExecute_DropUnknownItem(t *testing.T) {
	kit := newTestKit(t)
	resp, err := kit.uc.Execute(context.Background(), ActionRequest{
		PlayerID: "p1", Type: ActionDrop, ItemID: "unobtainium", TargetX: 100, TargetY: 100,
	})
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if resp.Result != ResultNoTarget {
		t.Fatalf("expected no_target, got %q", resp.Result)
	}
}

func TestState_ReflectsScene(t *testing.T) {
	kit := newTestKit(t)
	view, err := kit.uc.State(context.Background(), "p1")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if view.SceneID != "world_0_0" {
		t.Fatalf("unexpected scene %q", view.SceneID)
	}
	if view.Rows != 15 || view.Cols != 20 || len(view.TerrainGrid) != 15 {
		t.Fatalf("terrain shape mismatch: %dx%d", view.Rows, view.Cols)
	}
	if len(view.Objects) == 0 {
		t.Fatalf("expected generated objects in view")
	}
}
