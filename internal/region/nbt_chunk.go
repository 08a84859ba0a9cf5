package region

// nbtBlockState mirrors one entry of a region-file section's block_states
// palette, as stored by vanilla: a namespaced block name plus optional
// properties.
type nbtBlockState struct {
	Name       string            `nbt:"Name"`
	Properties map[string]string `nbt:"Properties"`
}

type nbtBlockStates struct {
	Palette []nbtBlockState `nbt:"palette"`
	Data    []int64         `nbt:"data"`
}

type nbtBiomes struct {
	Palette []string `nbt:"palette"`
	Data    []int64  `nbt:"data"`
}

type nbtSection struct {
	Y           int8           `nbt:"Y"`
	BlockStates nbtBlockStates `nbt:"block_states"`
	Biomes      nbtBiomes      `nbt:"biomes"`
}

type nbtHeightmaps struct {
	WorldSurface   []int64 `nbt:"WORLD_SURFACE"`
	OceanFloor     []int64 `nbt:"OCEAN_FLOOR"`
	MotionBlocking []int64 `nbt:"MOTION_BLOCKING"`
	MotionBlockingNoLeaves []int64 `nbt:"MOTION_BLOCKING_NO_LEAVES"`
}

// nbtChunk is the subset of a vanilla chunk NBT document this server reads
// back out of an Anvil region file, grounded on
// chunk_system.rs Chunk::from_data's field access pattern
// (heightmaps.world_surface presence used as the "is this chunk fully
// generated" signal) and spec §4.4.
type nbtChunk struct {
	XPos        int32         `nbt:"xPos"`
	ZPos        int32         `nbt:"zPos"`
	YPos        int32         `nbt:"yPos"`
	Status      string        `nbt:"Status"`
	Sections    []nbtSection  `nbt:"sections"`
	Heightmaps  nbtHeightmaps `nbt:"Heightmaps"`
}
