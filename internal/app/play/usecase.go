package play

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gridstead/internal/app/ports"
	"gridstead/internal/app/scenes"
	"gridstead/internal/app/transition"
	"gridstead/internal/domain/world"
)

const (
	playerWidth  = 32.0
	playerHeight = 48.0

	pickupRadius = 24.0
	chopDamage   = 1

	// how long a felled tree lingers as a falling prop before it is removed
	treeFallDelay = time.Second
)

var ErrInvalidAction = errors.New("invalid action")

// UseCase drives one player through the world: movement with walkability and
// collision checks, transition evaluation after every move, and the
// world-mutating actions that make scenes worth persisting.
type UseCase struct {
	Manager     *scenes.Manager
	Transitions transition.Controller
	PlayerRepo  ports.PlayerStateRepository
	Events      ports.EventRepository
	Audio       ports.AudioPlayer
	Assets      ports.AssetLibrary
	Items       world.ItemRegistry
	Tx          ports.TxManager
	Now         func() time.Time
}

// EnsurePlayer seeds a new player at the center of the origin scene. Called
// at startup for the local player and a no-op if state already exists.
func (u UseCase) EnsurePlayer(ctx context.Context, playerID string, origin world.SceneID) error {
	if _, err := u.PlayerRepo.GetByPlayerID(ctx, playerID); err == nil {
		return nil
	} else if !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	scene, err := u.Manager.GetOrCreate(ctx, origin, scenes.TransitionContext{Kind: scenes.ContextPlain})
	if err != nil {
		return err
	}
	state := ports.PlayerState{
		PlayerID: playerID,
		SceneID:  origin,
		Position: world.Point{X: scene.Terrain.PixelWidth() / 2, Y: scene.Terrain.PixelHeight() / 2},
		Version:  1,
	}
	return u.PlayerRepo.SaveWithVersion(ctx, state, 0)
}

func (u UseCase) Execute(ctx context.Context, req ActionRequest) (ActionResponse, error) {
	if req.PlayerID == "" || req.Type == "" {
		return ActionResponse{}, ErrInvalidAction
	}
	state, err := u.PlayerRepo.GetByPlayerID(ctx, req.PlayerID)
	if err != nil {
		return ActionResponse{}, err
	}
	scene, err := u.activateFor(ctx, state)
	if err != nil {
		return ActionResponse{}, err
	}
	u.reapFallen(ctx, scene)

	p := &transition.Player{
		ID:       req.PlayerID,
		SceneID:  state.SceneID,
		Position: state.Position,
		Width:    playerWidth,
		Height:   playerHeight,
	}

	var result ResultCode
	switch req.Type {
	case ActionMove:
		result, err = u.move(ctx, scene, p, req)
	case ActionChop:
		result, err = u.chop(ctx, scene, p, req)
	case ActionPlaceHouse:
		result, err = u.placeHouse(ctx, scene, p, req)
	case ActionRemoveHouse:
		result, err = u.removeHouse(ctx, scene, p, req)
	case ActionDrop:
		result, err = u.drop(ctx, scene, p, req)
	case ActionPickup:
		result, err = u.pickup(ctx, scene, p, req)
	default:
		return ActionResponse{}, fmt.Errorf("%w: unknown type %q", ErrInvalidAction, req.Type)
	}
	if err != nil {
		return ActionResponse{}, err
	}

	next := state
	next.SceneID = p.SceneID
	next.Position = p.Position
	next.Version = state.Version + 1
	if err := u.PlayerRepo.SaveWithVersion(ctx, next, state.Version); err != nil {
		return ActionResponse{}, err
	}
	return ActionResponse{Result: result, SceneID: string(p.SceneID), Position: p.Position}, nil
}

// activateFor aligns the manager's active scene with the player's stored
// scene, e.g. on the first action after a restart.
func (u UseCase) activateFor(ctx context.Context, state ports.PlayerState) (*world.Scene, error) {
	if active := u.Manager.Active(); active != nil && active.ID == state.SceneID {
		return active, nil
	}
	scene, _, err := u.Manager.ChangeScene(ctx, state.SceneID, scenes.PlainContext(state.Position))
	return scene, err
}

func (u UseCase) move(ctx context.Context, scene *world.Scene, p *transition.Player, req ActionRequest) (ResultCode, error) {
	nx := p.Position.X + req.DX
	ny := p.Position.Y + req.DY

	col := int(nx / world.TileSize)
	row := int(ny / world.TileSize)
	inBounds := nx >= 0 && ny >= 0 && nx <= scene.Terrain.PixelWidth() && ny <= scene.Terrain.PixelHeight()
	if inBounds && !scene.Terrain.Walkable(col, row) {
		return ResultBlocked, nil
	}
	if blocked := u.collides(scene, nx, ny); blocked {
		return ResultBlocked, nil
	}
	p.Position = world.Point{X: nx, Y: ny}

	fired, err := u.Transitions.Evaluate(ctx, p)
	if err != nil {
		return "", err
	}
	if fired {
		u.emit(ctx, p.ID, ports.WorldEvent{Type: "scene_transition", SceneID: p.SceneID, Position: p.Position})
		return ResultTransitioned, nil
	}
	return ResultOK, nil
}

// collides tests the player box against standing trees and houses. Fallen
// trees and exit markers do not block.
func (u UseCase) collides(scene *world.Scene, x, y float64) bool {
	blocked := false
	scene.Entities.Each(func(_ world.Handle, e *world.Entity) bool {
		switch e.Kind {
		case world.EntityTree:
			if e.Falling {
				return true
			}
		case world.EntityHouse:
		default:
			return true
		}
		if world.Overlaps(x, y, playerWidth, playerHeight, e.X, e.Y, e.Width, e.Height) {
			blocked = true
			return false
		}
		return true
	})
	return blocked
}

func (u UseCase) chop(ctx context.Context, scene *world.Scene, p *transition.Player, req ActionRequest) (ResultCode, error) {
	_, e, ok := scene.Entities.At(req.TargetX, req.TargetY)
	if !ok || e.Kind != world.EntityTree || e.Falling {
		return ResultNoTarget, nil
	}
	e.Health -= chopDamage
	if e.Health > 0 {
		u.play("chop")
		return ResultOK, nil
	}
	// felled: the tree stops blocking and lingers as a falling prop until
	// reapFallen clears it after treeFallDelay. The drop spawns now so a
	// save taken mid-fall already carries it.
	e.Falling = true
	e.FellAt = u.Now()
	scene.Entities.SpawnItem(world.ItemLog, e.X, e.Y, 1)
	u.play("tree_fall")
	u.emit(ctx, p.ID, ports.WorldEvent{Type: "tree_felled", SceneID: scene.ID, Position: world.Point{X: e.X, Y: e.Y}})
	if err := u.Manager.SaveActive(ctx); err != nil {
		log.Printf("play: save after felling failed: %v", err)
	}
	return ResultOK, nil
}

// reapFallen removes falling trees whose fall has played out. Runs before
// every action and state build so fallen props do not accumulate.
func (u UseCase) reapFallen(ctx context.Context, scene *world.Scene) {
	now := u.Now()
	var done []world.Handle
	scene.Entities.Each(func(h world.Handle, e *world.Entity) bool {
		if e.Kind == world.EntityTree && e.Falling && now.Sub(e.FellAt) >= treeFallDelay {
			done = append(done, h)
		}
		return true
	})
	if len(done) == 0 {
		return
	}
	for _, h := range done {
		scene.Entities.Remove(h)
	}
	if err := u.Manager.SaveActive(ctx); err != nil {
		log.Printf("play: save after clearing fallen trees failed: %v", err)
	}
}

func (u UseCase) placeHouse(ctx context.Context, scene *world.Scene, p *transition.Player, req ActionRequest) (ResultCode, error) {
	if scene.ID.IsInterior() {
		return ResultBlocked, nil
	}
	asset, _ := world.AssetForEntity(world.EntityHouse)
	if err := u.Assets.LoadImages(ctx, []string{asset}); err != nil {
		return "", err
	}
	img, ok := u.Assets.Image(asset)
	if !ok {
		return "", fmt.Errorf("house image %q: %w", asset, ports.ErrAssetUnavailable)
	}

	blocked := false
	scene.Entities.Each(func(_ world.Handle, e *world.Entity) bool {
		if world.Overlaps(req.TargetX, req.TargetY, img.Width, img.Height, e.X, e.Y, e.Width, e.Height) {
			blocked = true
			return false
		}
		return true
	})
	if blocked || !scene.Terrain.Walkable(int(req.TargetX/world.TileSize), int(req.TargetY/world.TileSize)) {
		return ResultBlocked, nil
	}

	id := fmt.Sprintf("h%x", u.Now().UnixNano())
	scene.Entities.Add(world.NewHouse(id, req.TargetX, req.TargetY, img.Width, img.Height))
	u.play("build")
	u.emit(ctx, p.ID, ports.WorldEvent{Type: "house_placed", SceneID: scene.ID, Position: world.Point{X: req.TargetX, Y: req.TargetY}, Detail: id})
	if err := u.Manager.SaveActive(ctx); err != nil {
		log.Printf("play: save after build failed: %v", err)
	}
	return ResultOK, nil
}

// removeHouse deletes the structure and its paired interior snapshot in one
// transaction, so an interior never outlives its house.
func (u UseCase) removeHouse(ctx context.Context, scene *world.Scene, p *transition.Player, req ActionRequest) (ResultCode, error) {
	h, e, ok := scene.Entities.At(req.TargetX, req.TargetY)
	if !ok || e.Kind != world.EntityHouse {
		return ResultNoTarget, nil
	}
	structureID := e.StructureID
	err := u.Tx.RunInTx(ctx, func(ctx context.Context) error {
		scene.Entities.Remove(h)
		if err := u.Manager.DeleteInterior(ctx, structureID); err != nil {
			return err
		}
		return u.Manager.SaveActive(ctx)
	})
	if err != nil {
		return "", err
	}
	u.emit(ctx, p.ID, ports.WorldEvent{Type: "house_removed", SceneID: scene.ID, Position: world.Point{X: e.X, Y: e.Y}, Detail: structureID})
	return ResultOK, nil
}

func (u UseCase) drop(ctx context.Context, scene *world.Scene, p *transition.Player, req ActionRequest) (ResultCode, error) {
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}
	id := world.ItemID(req.ItemID)
	if _, ok := scene.Entities.SpawnItem(id, req.TargetX, req.TargetY, qty); !ok {
		return ResultNoTarget, nil
	}
	u.playItemSound(id)
	u.emit(ctx, p.ID, ports.WorldEvent{Type: "item_dropped", SceneID: scene.ID, Position: world.Point{X: req.TargetX, Y: req.TargetY}, Detail: req.ItemID})
	if err := u.Manager.SaveActive(ctx); err != nil {
		log.Printf("play: save after drop failed: %v", err)
	}
	return ResultOK, nil
}

func (u UseCase) pickup(ctx context.Context, scene *world.Scene, p *transition.Player, req ActionRequest) (ResultCode, error) {
	h, it, ok := scene.Entities.ItemAt(req.TargetX, req.TargetY, pickupRadius)
	if !ok {
		return ResultNoTarget, nil
	}
	scene.Entities.RemoveItem(h)
	u.play("pickup")
	u.emit(ctx, p.ID, ports.WorldEvent{Type: "item_picked_up", SceneID: scene.ID, Position: world.Point{X: it.X, Y: it.Y}, Detail: string(it.ItemID)})
	return ResultOK, nil
}

// State builds the render view of the player's current scene.
func (u UseCase) State(ctx context.Context, playerID string) (SceneView, error) {
	state, err := u.PlayerRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return SceneView{}, err
	}
	scene, err := u.activateFor(ctx, state)
	if err != nil {
		return SceneView{}, err
	}
	u.reapFallen(ctx, scene)

	cells := scene.Terrain.Cells()
	grid := make([][]string, len(cells))
	for r, row := range cells {
		out := make([]string, len(row))
		for c, kind := range row {
			out[c] = string(kind)
		}
		grid[r] = out
	}

	view := SceneView{
		SceneID:      string(scene.ID),
		Rows:         scene.Terrain.Rows(),
		Cols:         scene.Terrain.Cols(),
		TerrainGrid:  grid,
		Objects:      []ObjectView{},
		DroppedItems: []world.ItemRecord{},
		Links: map[string]string{
			"north": string(scene.Links.North),
			"east":  string(scene.Links.East),
			"south": string(scene.Links.South),
			"west":  string(scene.Links.West),
		},
		Player: PlayerView{ID: playerID, Position: state.Position},
	}
	scene.Entities.Each(func(_ world.Handle, e *world.Entity) bool {
		ov := ObjectView{Type: string(e.Kind), X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
		switch e.Kind {
		case world.EntityTree:
			ov.Health = e.Health
			ov.Falling = e.Falling
		case world.EntityHouse:
			ov.ID = e.StructureID
		}
		view.Objects = append(view.Objects, ov)
		return true
	})
	scene.Entities.EachItem(func(_ world.Handle, it *world.GroundItem) bool {
		view.DroppedItems = append(view.DroppedItems, world.ItemRecord{
			ItemID: string(it.ItemID), X: it.X, Y: it.Y, Quantity: it.Quantity,
		})
		return true
	})
	return view, nil
}

// Replay returns the most recent world events for a player.
func (u UseCase) Replay(ctx context.Context, playerID string, limit int) ([]ports.WorldEvent, error) {
	if u.Events == nil {
		return []ports.WorldEvent{}, nil
	}
	return u.Events.ListByPlayerID(ctx, playerID, limit)
}

func (u UseCase) emit(ctx context.Context, playerID string, ev ports.WorldEvent) {
	if u.Events == nil {
		return
	}
	ev.At = u.Now()
	if err := u.Events.Append(ctx, playerID, []ports.WorldEvent{ev}); err != nil {
		log.Printf("play: append event %q failed: %v", ev.Type, err)
	}
}

func (u UseCase) play(soundID string) {
	if u.Audio != nil {
		u.Audio.Play(soundID)
	}
}

func (u UseCase) playItemSound(id world.ItemID) {
	if u.Audio == nil {
		return
	}
	if cfg, ok := u.Items[id]; ok && cfg.Sound != "" {
		u.Audio.Play(cfg.Sound)
	}
}
