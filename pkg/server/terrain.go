package server

import (
	"github.com/StoreStation/VibeShitCraft/internal/blockstate"
	"github.com/StoreStation/VibeShitCraft/internal/density"
	"github.com/StoreStation/VibeShitCraft/internal/noise"
	"github.com/StoreStation/VibeShitCraft/internal/rng"
	"github.com/StoreStation/VibeShitCraft/internal/worldgen"
)

// fallbackBlockNames is used when a real block-mapping asset isn't present
// on disk; index 0 must stay air since worldgen.Generator's BlockIDs.Air
// and the ChunkLightData non_air_count pass both depend on air being a
// fixed sentinel id rather than whatever happens to sort first.
var fallbackBlockNames = []string{"air", "stone"}

var fallbackBiomeNames = []string{"plains"}

// loadTables opens the block/biome mapping assets under assetsDir, falling
// back to a minimal in-memory table (air/stone, plains) when the real
// vanilla mapping files aren't present; asset packaging is out of scope, so
// the fallback keeps chunk generation exercisable without them.
func loadTables(assetsDir string) *blockstate.Tables {
	blocks, err := blockstate.LoadTable(assetsDir + "/block-mapping-1.21.6.json")
	if err != nil {
		blocks = blockstate.NewTable(fallbackBlockNames)
	}
	biomes, err := blockstate.LoadTable(assetsDir + "/biome-mapping-1.21.6.json")
	if err != nil {
		biomes = blockstate.NewTable(fallbackBiomeNames)
	}
	return &blockstate.Tables{Block: blocks, Biome: biomes}
}

// buildDefaultDensityRoot constructs a single continental-noise-plus-height-
// gradient density tree directly in code rather than by loading the real
// vanilla "overworld/final_density" JSON asset pack (not present on disk;
// asset packaging is out of scope). It is grounded on the same
// Noise/YClampedGradient/Add primitives real dimension trees use, just
// composed by hand instead of deserialized.
func buildDefaultDensityRoot(seed int64) density.Function {
	root := rng.NewXoroshiro(seed).BranchPositional()
	branch := root.HashToRand("minecraft:default/continentalness")

	continental := noise.NewVanillaNoiseModern(branch, noise.Arguments{
		FirstOctave: -7,
		Amplitudes:  []float64{1, 1, 1, 1},
	})

	n := &density.Noise{N: continental, XZScale: 0.25, YScale: 0.25, Name: "default/continentalness"}
	heightBias := &density.YClampedGradient{FromY: -64, ToY: 320, FromValue: 1.5, ToValue: -1.5}
	return density.Add(n, heightBias)
}

// buildGenerator assembles the default overworld-shaped chunk generator:
// min_y -64, height 384 (-64..320), the density root above, and the
// air/stone fallback rule documented on worldgen.BlockIDs.
func buildGenerator(seed int64, tables *blockstate.Tables) *worldgen.Generator {
	airID, _ := tables.Block.ID("air")
	stoneID, ok := tables.Block.ID("stone")
	if !ok {
		stoneID = airID
	}
	return &worldgen.Generator{
		Root:      buildDefaultDensityRoot(seed),
		MinY:      -64,
		Height:    384,
		Settings:  worldgen.DefaultSampleSettings(),
		Threshold: 0,
		Blocks:    worldgen.BlockIDs{Air: airID, Stone: stoneID},
	}
}

// buildBiomeGenerator returns the single-valued biome assignment C3/C6 use
// in place of vanilla's climate-parameter biome lookup (Non-goal: biome
// placement parity).
func buildBiomeGenerator(tables *blockstate.Tables) *worldgen.BiomeGenerator {
	plainsID, _ := tables.Biome.ID("minecraft:plains")
	if _, ok := tables.Biome.ID("minecraft:plains"); !ok {
		plainsID, _ = tables.Biome.ID("plains")
	}
	return &worldgen.BiomeGenerator{BiomeID: plainsID}
}
