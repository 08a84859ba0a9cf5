package protocol

import (
	"bytes"
	"testing"

	"github.com/StoreStation/VibeShitCraft/internal/blockbits"
	"github.com/StoreStation/VibeShitCraft/internal/region"
	"github.com/StoreStation/VibeShitCraft/internal/worldgen"
)

const testAirID = 0

func TestCountNonAirSingleValued(t *testing.T) {
	sec := worldgen.Section{Palette: []uint32{testAirID}}
	if got := countNonAir(sec, testAirID); got != 0 {
		t.Errorf("all-air single-valued section: got %d, want 0", got)
	}
	sec2 := worldgen.Section{Palette: []uint32{5}}
	if got := countNonAir(sec2, testAirID); got != 4096 {
		t.Errorf("all-stone single-valued section: got %d, want 4096", got)
	}
}

func TestCountNonAirPackedSection(t *testing.T) {
	values := make([]uint32, 4096)
	for i := range values {
		if i%2 == 0 {
			values[i] = 1 // stone
		} else {
			values[i] = testAirID
		}
	}
	bits := blockbits.BitsForPaletteLen(2)
	longs := blockbits.PackNonCrossing(values, bits)
	sec := worldgen.Section{Palette: []uint32{testAirID, 1}, Data: longs, BitsPerEntry: bits}
	if got := countNonAir(sec, testAirID); got != 2048 {
		t.Errorf("got %d non-air, want 2048", got)
	}
}

func TestEncodeChunkDataProducesParsableFrame(t *testing.T) {
	enc := &ChunkPacketEncoder{AirBlockID: testAirID}
	chunk := &worldgen.Chunk{
		CX: 3,
		CZ: -2,
		Sections: []worldgen.Section{
			{Y: -4, Palette: []uint32{testAirID}},
			{Y: -3, Palette: []uint32{1}},
		},
	}
	biomes := []worldgen.BiomeSection{
		{Palette: []uint32{1}},
		{Palette: []uint32{1}},
	}

	raw := enc.EncodeChunkData(chunk, biomes)
	r := bytes.NewReader(raw)
	id, _, err := ReadVarInt(r)
	if err != nil {
		t.Fatalf("ReadVarInt(id) error: %v", err)
	}
	if id != PacketIDChunkLightData {
		t.Fatalf("got packet id %d, want %d", id, PacketIDChunkLightData)
	}

	cx, err := ReadInt32(r)
	if err != nil || cx != chunk.CX {
		t.Fatalf("cx = %d, err %v; want %d", cx, err, chunk.CX)
	}
	cz, err := ReadInt32(r)
	if err != nil || cz != chunk.CZ {
		t.Fatalf("cz = %d, err %v; want %d", cz, err, chunk.CZ)
	}
	heightmapCount, _, err := ReadVarInt(r)
	if err != nil || heightmapCount != 2 {
		t.Fatalf("heightmap_count = %d, err %v; want 2", heightmapCount, err)
	}
}

func TestEncodeUnloadReversesFieldOrder(t *testing.T) {
	enc := &ChunkPacketEncoder{}
	raw := enc.EncodeUnload(7, -9)
	r := bytes.NewReader(raw)
	id, _, _ := ReadVarInt(r)
	if id != PacketIDUnloadChunk {
		t.Fatalf("got id %d, want %d", id, PacketIDUnloadChunk)
	}
	first, err := ReadInt32(r)
	if err != nil {
		t.Fatalf("ReadInt32 error: %v", err)
	}
	second, err := ReadInt32(r)
	if err != nil {
		t.Fatalf("ReadInt32 error: %v", err)
	}
	if first != -9 || second != 7 {
		t.Errorf("got (%d,%d), want (cz=-9, cx=7)", first, second)
	}
}

func TestEncodeSetCenterFieldOrder(t *testing.T) {
	enc := &ChunkPacketEncoder{}
	raw := enc.EncodeSetCenter(7, -9)
	r := bytes.NewReader(raw)
	id, _, _ := ReadVarInt(r)
	if id != PacketIDSetCenterChunk {
		t.Fatalf("got id %d, want %d", id, PacketIDSetCenterChunk)
	}
	cx, _, _ := ReadVarInt(r)
	cz, _, _ := ReadVarInt(r)
	if cx != 7 || cz != -9 {
		t.Errorf("got (%d,%d), want (7,-9)", cx, cz)
	}
}

func TestEncodeBundleDelimiterIsEmptyPayload(t *testing.T) {
	enc := &ChunkPacketEncoder{}
	raw := enc.EncodeBundleDelimiter()
	if len(raw) != 1 || raw[0] != PacketIDBundleDelimiter {
		t.Errorf("got %v, want single-byte packet id 0x00", raw)
	}
}

func TestEncodeLoadedChunkDataIncludesHeightmaps(t *testing.T) {
	enc := &ChunkPacketEncoder{AirBlockID: testAirID}
	lc := &region.LoadedChunk{
		CX: 1,
		CZ: 1,
		Sections: []worldgen.Section{
			{Y: 0, Palette: []uint32{testAirID}},
		},
		Biomes: []worldgen.BiomeSection{
			{Palette: []uint32{1}},
		},
		Heightmaps: map[string][]int64{
			"WORLD_SURFACE": make([]int64, 37),
		},
	}
	raw := enc.EncodeLoadedChunkData(lc)
	r := bytes.NewReader(raw)
	ReadVarInt(r) // id
	ReadInt32(r)  // cx
	ReadInt32(r)  // cz
	count, _, err := ReadVarInt(r)
	if err != nil || count != 1 {
		t.Fatalf("heightmap_count = %d, err %v; want 1", count, err)
	}
	kind, _, _ := ReadVarInt(r)
	if kind != heightmapTypeWorldSurface {
		t.Errorf("got heightmap type %d, want %d", kind, heightmapTypeWorldSurface)
	}
}
