package protocol

import (
	"bytes"

	"github.com/StoreStation/VibeShitCraft/internal/blockbits"
	"github.com/StoreStation/VibeShitCraft/internal/region"
	"github.com/StoreStation/VibeShitCraft/internal/worldgen"
)

// PacketIDChunkLightData is the Play-state clientbound id for the combined
// chunk data + light packet.
const PacketIDChunkLightData = 0x27

// PacketIDUnloadChunk is the Play-state clientbound id for unloading a
// chunk column.
const PacketIDUnloadChunk = 0x21

// PacketIDSetCenterChunk tells the client which chunk the view distance is
// centered on, so it knows which columns to keep versus discard.
const PacketIDSetCenterChunk = 0x57

// PacketIDSynchronizePlayerPos teleports the client to an authoritative
// position, acknowledged by a Teleport Confirm in response.
const PacketIDSynchronizePlayerPos = 0x41

// PacketIDLogin is the Play-state join-game packet.
const PacketIDLogin = 0x2B

// PacketIDBundleDelimiter brackets a group of packets the client must apply
// atomically in one render frame (e.g. several chunk sends).
const PacketIDBundleDelimiter = 0x00

// heightmapTypeWorldSurface..heightmapTypeMotionBlockingNoLeaves are the
// vanilla heightmap type ids used in the ChunkLightData payload.
const (
	heightmapTypeWorldSurface           = 1
	heightmapTypeOceanFloor             = 3
	heightmapTypeMotionBlocking         = 4
	heightmapTypeMotionBlockingNoLeaves = 5
)

// countNonAir returns how many of a section's 4096 block entries are not
// air, decoding the packed palette indices directly the way the client
// does, grounded on chunk_light_data.rs's non_air_blocks pass.
func countNonAir(sec worldgen.Section, airID uint32) int16 {
	if len(sec.Palette) == 0 {
		return 0
	}
	if len(sec.Data) == 0 {
		if sec.Palette[0] != airID {
			return 4096
		}
		return 0
	}
	bpe := blockbits.BitsForPaletteLen(len(sec.Palette))
	perLong := 64 / bpe
	mask := uint64(1)<<uint(bpe) - 1
	var count int16
	for i := 0; i < 4096; i++ {
		longIdx := i / perLong
		offset := uint((i % perLong) * bpe)
		idx := (uint64(sec.Data[longIdx]) >> offset) & mask
		if int(idx) < len(sec.Palette) && sec.Palette[idx] != airID {
			count++
		}
	}
	return count
}

// writeSectionPalette appends one section's block-state palette block
// (non_air_count · bits_per_entry · [palette_len · palette entries] ·
// [packed longs]) to buf, per §3 and chunk_light_data.rs.
func writeSectionPalette(buf *bytes.Buffer, sec worldgen.Section, airID uint32) {
	nonAir := countNonAir(sec, airID)
	var tmp [2]byte
	tmp[0] = byte(uint16(nonAir) >> 8)
	tmp[1] = byte(uint16(nonAir))
	buf.Write(tmp[:])

	if len(sec.Data) == 0 {
		buf.WriteByte(0x00)
		WriteVarInt(buf, int32(sec.Palette[0]))
		return
	}
	bpe := blockbits.BitsForPaletteLen(len(sec.Palette))
	buf.WriteByte(byte(bpe))
	WriteVarInt(buf, int32(len(sec.Palette)))
	for _, id := range sec.Palette {
		WriteVarInt(buf, int32(id))
	}
	for _, long := range sec.Data {
		WriteInt64(buf, long)
	}
}

// writeBiomePalette appends one section's biome palette block to buf.
func writeBiomePalette(buf *bytes.Buffer, bs worldgen.BiomeSection) {
	if len(bs.Data) == 0 {
		buf.WriteByte(0x00)
		WriteVarInt(buf, int32(bs.Palette[0]))
		return
	}
	bpe := blockbits.BitsForBiomeLen(len(bs.Palette))
	buf.WriteByte(byte(bpe))
	WriteVarInt(buf, int32(len(bs.Palette)))
	for _, id := range bs.Palette {
		WriteVarInt(buf, int32(id))
	}
	for _, long := range bs.Data {
		WriteInt64(buf, long)
	}
}

// ChunkPacketEncoder builds wire-ready ChunkLightData / UnloadChunk /
// SetCenterChunk payloads, satisfying internal/stream's ChunkEncoder
// interface. It holds the dimension's air block-state id so non_air_count
// can be computed without re-deriving it per call.
type ChunkPacketEncoder struct {
	AirBlockID uint32
}

func rawPacket(id int32, payload []byte) []byte {
	var buf bytes.Buffer
	WriteVarInt(&buf, id)
	buf.Write(payload)
	return buf.Bytes()
}

// EncodeChunkData builds a ChunkLightData packet for a freshly generated
// chunk: WORLD_SURFACE and MOTION_BLOCKING heightmaps computed from the
// generated sections (identical to each other, since the generator's block
// set has no fluids or leaves to distinguish them), and no light data
// (lighting propagation is out of scope), matching the empty-mask behavior
// chunk_light_data.rs falls back to when a section carries no light arrays.
func (e *ChunkPacketEncoder) EncodeChunkData(chunk *worldgen.Chunk, biomes []worldgen.BiomeSection) []byte {
	var body bytes.Buffer
	WriteInt32(&body, chunk.CX)
	WriteInt32(&body, chunk.CZ)

	heights := blockbits.PackHeightmap(chunk.SurfaceHeightmap(e.AirBlockID))
	WriteVarInt(&body, 2) // heightmap_count: WORLD_SURFACE, MOTION_BLOCKING
	for _, kind := range []int32{heightmapTypeWorldSurface, heightmapTypeMotionBlocking} {
		WriteVarInt(&body, kind)
		WriteVarInt(&body, int32(len(heights)))
		for _, v := range heights {
			WriteInt64(&body, v)
		}
	}

	var sections bytes.Buffer
	for i, sec := range chunk.Sections {
		writeSectionPalette(&sections, sec, e.AirBlockID)
		if i < len(biomes) {
			writeBiomePalette(&sections, biomes[i])
		} else {
			sections.WriteByte(0x00)
			WriteVarInt(&sections, 0)
		}
	}
	WriteVarInt(&body, int32(sections.Len()))
	body.Write(sections.Bytes())

	WriteVarInt(&body, 0) // block entities

	writeEmptyLightMasks(&body, len(chunk.Sections))

	return rawPacket(PacketIDChunkLightData, body.Bytes())
}

// EncodeLoadedChunkData builds a ChunkLightData packet for a chunk read
// back from a region file, including whatever heightmaps the NBT carried.
func (e *ChunkPacketEncoder) EncodeLoadedChunkData(lc *region.LoadedChunk) []byte {
	var body bytes.Buffer
	WriteInt32(&body, lc.CX)
	WriteInt32(&body, lc.CZ)

	type hm struct {
		kind int32
		vals []int64
	}
	var maps []hm
	if v, ok := lc.Heightmaps["WORLD_SURFACE"]; ok {
		maps = append(maps, hm{heightmapTypeWorldSurface, v})
	}
	if v, ok := lc.Heightmaps["OCEAN_FLOOR"]; ok {
		maps = append(maps, hm{heightmapTypeOceanFloor, v})
	}
	if v, ok := lc.Heightmaps["MOTION_BLOCKING"]; ok {
		maps = append(maps, hm{heightmapTypeMotionBlocking, v})
	}
	if v, ok := lc.Heightmaps["MOTION_BLOCKING_NO_LEAVES"]; ok {
		maps = append(maps, hm{heightmapTypeMotionBlockingNoLeaves, v})
	}
	WriteVarInt(&body, int32(len(maps)))
	for _, m := range maps {
		WriteVarInt(&body, m.kind)
		WriteVarInt(&body, int32(len(m.vals)))
		for _, v := range m.vals {
			WriteInt64(&body, v)
		}
	}

	var sections bytes.Buffer
	for i, sec := range lc.Sections {
		writeSectionPalette(&sections, sec, e.AirBlockID)
		if i < len(lc.Biomes) {
			writeBiomePalette(&sections, lc.Biomes[i])
		} else {
			sections.WriteByte(0x00)
			WriteVarInt(&sections, 0)
		}
	}
	WriteVarInt(&body, int32(sections.Len()))
	body.Write(sections.Bytes())

	WriteVarInt(&body, 0) // block entities

	writeEmptyLightMasks(&body, len(lc.Sections))

	return rawPacket(PacketIDChunkLightData, body.Bytes())
}

// writeEmptyLightMasks writes the sky and block light masks as zero and the
// empty-sky/empty-block masks with one bit set per section (no light data
// for any section), followed by zero-length sky/block arrays, since
// lighting propagation is out of scope.
func writeEmptyLightMasks(body *bytes.Buffer, sectionCount int) {
	body.WriteByte(0x01)
	WriteInt64(body, 0)
	body.WriteByte(0x01)
	WriteInt64(body, 0)

	emptyMask := emptySectionsMask(sectionCount)
	body.WriteByte(0x01)
	WriteInt64(body, emptyMask)
	body.WriteByte(0x01)
	WriteInt64(body, emptyMask)

	WriteVarInt(body, 0) // sky light array count
	WriteVarInt(body, 0) // block light array count
}

// emptySectionsMask sets one bit per section (bit index = section's
// position in the column, 0-based) up to 64 sections, matching how vanilla
// marks every section as having no light data at all.
func emptySectionsMask(sectionCount int) int64 {
	if sectionCount <= 0 {
		return 0
	}
	if sectionCount >= 64 {
		return -1
	}
	return int64(uint64(1)<<uint(sectionCount) - 1)
}

// EncodeUnload builds an UnloadChunk packet. Field order is cz,cx: the
// reverse of SetCenterChunk's cx,cz, matching vanilla's wire quirk.
func (e *ChunkPacketEncoder) EncodeUnload(cx, cz int32) []byte {
	var body bytes.Buffer
	WriteInt32(&body, cz)
	WriteInt32(&body, cx)
	return rawPacket(PacketIDUnloadChunk, body.Bytes())
}

// EncodeSetCenter builds a SetCenterChunk packet.
func (e *ChunkPacketEncoder) EncodeSetCenter(cx, cz int32) []byte {
	var body bytes.Buffer
	WriteVarInt(&body, cx)
	WriteVarInt(&body, cz)
	return rawPacket(PacketIDSetCenterChunk, body.Bytes())
}

// EncodeBundleDelimiter builds an empty Bundle Delimiter packet.
func (e *ChunkPacketEncoder) EncodeBundleDelimiter() []byte {
	return rawPacket(PacketIDBundleDelimiter, nil)
}
