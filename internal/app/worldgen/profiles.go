package worldgen

import "gridstead/internal/domain/world"

// Profile describes how to populate a fresh outdoor scene. Profiles shape
// generation deterministically; placement stays randomized.
type Profile struct {
	Name            string
	Base            world.TerrainKind
	TreeCount       int
	Resources       map[world.ItemID]int
	Secondary       world.TerrainKind
	SecondaryChance float64
	Clumping        float64
}

// ForestProfile is the fixed profile used for every outdoor scene. Density
// numbers are tuning inputs, not engine behavior.
func ForestProfile() Profile {
	return Profile{
		Name:      "forest",
		Base:      world.TerrainGrass,
		TreeCount: 12,
		Resources: map[world.ItemID]int{
			world.ItemStone: 6,
			world.ItemStick: 8,
		},
		Secondary:       world.TerrainWater,
		SecondaryChance: 0.004,
		Clumping:        0.55,
	}
}
