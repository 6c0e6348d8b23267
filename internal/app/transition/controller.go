package transition

import (
	"context"
	"log"
	"math"

	"gridstead/internal/app/scenes"
	"gridstead/internal/domain/world"
)

const (
	// edgeThreshold is how close (in pixels) to a boundary line the player
	// must be to cross it.
	edgeThreshold = 10.0

	// door trigger: a band narrower than the house footprint, hugging its
	// southern edge
	doorWidthRatio = 0.4
	doorHeight     = 16.0

	// exitMargin keeps the computed return point clear of the door trigger,
	// so re-entering requires deliberate movement
	exitMargin = 8.0
)

// Player is the transition controller's view of the player: a center
// position and a bounding box inside the active scene.
type Player struct {
	ID       string
	SceneID  world.SceneID
	Position world.Point
	Width    float64
	Height   float64
}

// Controller evaluates transition triggers once per tick. The checks are
// mutually exclusive by scene kind and the first match wins; at most one
// transition fires per evaluation.
type Controller struct {
	Manager *scenes.Manager
}

// Evaluate inspects the player against the active scene's boundaries and
// triggers. On a match it drives the manager through the scene switch and
// updates the player in place. Reports whether a transition fired.
func (c Controller) Evaluate(ctx context.Context, p *Player) (bool, error) {
	scene := c.Manager.Active()
	if scene == nil {
		return false, nil
	}
	if scene.ID.IsInterior() {
		return c.checkExitTrigger(ctx, scene, p)
	}
	if moved, err := c.checkEdgeCrossing(ctx, scene, p); moved || err != nil {
		return moved, err
	}
	return c.checkStructureEntry(ctx, scene, p)
}

func (c Controller) checkEdgeCrossing(ctx context.Context, scene *world.Scene, p *Player) (bool, error) {
	w := scene.Terrain.PixelWidth()
	h := scene.Terrain.PixelHeight()

	var dir world.Direction
	switch {
	case p.Position.X <= edgeThreshold:
		dir = world.West
	case p.Position.X >= w-edgeThreshold:
		dir = world.East
	case p.Position.Y <= edgeThreshold:
		dir = world.North
	case p.Position.Y >= h-edgeThreshold:
		dir = world.South
	default:
		return false, nil
	}

	target := scene.Links.In(dir)
	if target == "" {
		synthesized, ok := scene.ID.Neighbor(dir)
		if !ok {
			log.Printf("transition: scene %s has no grid coordinates, cannot cross %s", scene.ID, dir)
			return false, nil
		}
		target = synthesized
	}
	// link this side now; ChangeScene persists the outgoing scene, making
	// the pair durable in one crossing
	scene.Links.Link(dir, target)

	entry := p.Position
	switch dir {
	case world.West:
		entry.X = w - p.Width/2
	case world.East:
		entry.X = p.Width / 2
	case world.North:
		entry.Y = h - p.Height/2
	case world.South:
		entry.Y = p.Height / 2
	}

	_, spawn, err := c.Manager.ChangeScene(ctx, target, scenes.TransitionContext{
		Kind:                scenes.ContextEdgeCrossing,
		TargetPosition:      &entry,
		ReciprocalDirection: dir.Opposite(),
		ReciprocalSceneID:   scene.ID,
	})
	if err != nil {
		return false, err
	}
	p.SceneID = target
	p.Position = spawn
	return true, nil
}

func (c Controller) checkStructureEntry(ctx context.Context, scene *world.Scene, p *Player) (bool, error) {
	var house *world.Entity
	scene.Entities.Each(func(_ world.Handle, e *world.Entity) bool {
		if e.Kind == world.EntityHouse && inDoorTrigger(e, p.Position) {
			house = e
			return false
		}
		return true
	})
	if house == nil {
		return false, nil
	}

	target, ok := house.InteriorID()
	if !ok {
		log.Printf("transition: house at (%.0f,%.0f) has no structure id", house.X, house.Y)
		return false, nil
	}
	returnPoint := world.Point{
		X: house.X,
		Y: house.Y + house.Height/2 + p.Height/2 + exitMargin,
	}
	_, spawn, err := c.Manager.ChangeScene(ctx, target, scenes.TransitionContext{
		Kind:               scenes.ContextStructureEntry,
		OriginSceneID:      scene.ID,
		ExitTargetPosition: returnPoint,
	})
	if err != nil {
		return false, err
	}
	p.SceneID = target
	p.Position = spawn
	return true, nil
}

func (c Controller) checkExitTrigger(ctx context.Context, scene *world.Scene, p *Player) (bool, error) {
	var marker *world.Entity
	scene.Entities.Each(func(_ world.Handle, e *world.Entity) bool {
		if e.Kind != world.EntityDoorExit {
			return true
		}
		if !world.Overlaps(p.Position.X, p.Position.Y, 0, 0, e.X, e.Y, e.Width, e.Height) {
			return true
		}
		if e.Exit == nil {
			// a door that was never wired to an origin; not fatal
			log.Printf("transition: exit marker in %s has no target, ignoring", scene.ID)
			return true
		}
		marker = e
		return false
	})
	if marker == nil {
		return false, nil
	}

	pos := marker.Exit.Position
	_, spawn, err := c.Manager.ChangeScene(ctx, marker.Exit.SceneID, scenes.TransitionContext{
		Kind:           scenes.ContextInteriorExit,
		TargetPosition: &pos,
	})
	if err != nil {
		return false, err
	}
	p.SceneID = marker.Exit.SceneID
	p.Position = spawn
	return true, nil
}

// inDoorTrigger tests the player center against the door band at the
// house's southern edge.
func inDoorTrigger(house *world.Entity, pos world.Point) bool {
	bottom := house.Y + house.Height/2
	if pos.Y < bottom-doorHeight || pos.Y > bottom {
		return false
	}
	return math.Abs(pos.X-house.X)*2 <= house.Width*doorWidthRatio
}
