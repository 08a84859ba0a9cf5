package worldgen

// BiomeSection mirrors Section but for the 4x4x4-resolution biome grid
// carried alongside each block section in the wire format.
type BiomeSection struct {
	Palette []uint32
	Data    []int64
}

// BiomeGenerator assigns a single biome id to every section, per spec's
// Open Question: biome placement parity is a named Non-goal, so
// ChunkBiomes are generated single-valued rather than running vanilla's
// climate-parameter biome lookup.
type BiomeGenerator struct {
	BiomeID uint32
}

// Generate returns one single-valued biome section per block section,
// sharing the block generator's section count.
func (b *BiomeGenerator) Generate(sectionCount int) []BiomeSection {
	out := make([]BiomeSection, sectionCount)
	for i := range out {
		out[i] = BiomeSection{Palette: []uint32{b.BiomeID}}
	}
	return out
}
