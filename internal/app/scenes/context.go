package scenes

import "gridstead/internal/domain/world"

// ContextKind discriminates what a transition carries. Consumers match on it
// instead of probing optional fields.
type ContextKind string

const (
	// ContextPlain carries at most a spawn position.
	ContextPlain ContextKind = "plain"
	// ContextEdgeCrossing carries the reciprocal link the target scene must
	// hold back to its creator.
	ContextEdgeCrossing ContextKind = "edgeCrossing"
	// ContextStructureEntry carries the way back out of a freshly created
	// interior.
	ContextStructureEntry ContextKind = "structureEntry"
	// ContextInteriorExit routes through an exit marker's stored target.
	ContextInteriorExit ContextKind = "interiorExit"
)

// TransitionContext is the payload handed to ChangeScene. Which fields are
// meaningful depends on Kind.
type TransitionContext struct {
	Kind ContextKind

	// TargetPosition is where the player lands in the target scene. Nil
	// means "use the scene's default spawn".
	TargetPosition *world.Point

	// edgeCrossing: the target must link ReciprocalDirection back to
	// ReciprocalSceneID, durably, even if the player never returns.
	ReciprocalDirection world.Direction
	ReciprocalSceneID   world.SceneID

	// structureEntry: consumed once when the interior is first generated to
	// wire its exit marker.
	OriginSceneID      world.SceneID
	ExitTargetPosition world.Point
}

func PlainContext(target world.Point) TransitionContext {
	return TransitionContext{Kind: ContextPlain, TargetPosition: &target}
}
