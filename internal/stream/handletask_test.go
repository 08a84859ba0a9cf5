package stream

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/StoreStation/VibeShitCraft/internal/coord"
	"github.com/StoreStation/VibeShitCraft/internal/region"
	"github.com/StoreStation/VibeShitCraft/internal/worldgen"
)

type fakeRegionSourceAllMissing struct{}

func (fakeRegionSourceAllMissing) GetRegionChunks(dim int32, regionCoord uint64, relIdx []int) ([]*region.LoadedChunk, []int) {
	return nil, relIdx
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(cx, cz int32, cache *worldgen.SampleCache) *worldgen.Chunk {
	return &worldgen.Chunk{CX: cx, CZ: cz, Sections: make([]worldgen.Section, 1)}
}

type fakeEncoder struct{}

func (fakeEncoder) EncodeChunkData(chunk *worldgen.Chunk, biomes []worldgen.BiomeSection) []byte {
	return []byte(fmt.Sprintf("chunk:%d,%d", chunk.CX, chunk.CZ))
}
func (fakeEncoder) EncodeLoadedChunkData(lc *region.LoadedChunk) []byte { return nil }
func (fakeEncoder) EncodeUnload(cx, cz int32) []byte {
	return []byte(fmt.Sprintf("unload:%d,%d", cx, cz))
}
func (fakeEncoder) EncodeSetCenter(cx, cz int32) []byte { return nil }
func (fakeEncoder) EncodeBundleDelimiter() []byte       { return []byte("bundle") }

type fakeConn struct {
	mu  sync.Mutex
	out [][]byte
}

func (c *fakeConn) SendLow(packet []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = append(c.out, packet)
}

func TestHandleTaskSendsGeneratedChunksInRequestOrder(t *testing.T) {
	conn := &fakeConn{}
	var connIface Connection = conn
	handle := NewPlayerHandle(uuid.New(), 0, 7, &connIface)

	shard := newShard(0, fakeRegionSourceAllMissing{}, fakeGenerator{}, fakeEncoder{}, &worldgen.BiomeGenerator{BiomeID: 1})

	task := ChunkLoadTask{
		Player: handle,
		Loads: []uint64{
			coord.PackChunk(0, 0),
			coord.PackChunk(1, 0),
			coord.PackChunk(2, 0),
			coord.PackChunk(3, 0),
		},
	}
	shard.handleTask(context.Background(), task)

	wantOrder := []string{
		"bundle",
		"chunk:0,0", "chunk:1,0", "chunk:2,0", "chunk:3,0",
		"bundle",
	}
	if len(conn.out) != len(wantOrder) {
		t.Fatalf("got %d packets, want %d: %q", len(conn.out), len(wantOrder), conn.out)
	}
	for i, want := range wantOrder {
		if string(conn.out[i]) != want {
			t.Errorf("packet[%d] = %q, want %q", i, conn.out[i], want)
		}
	}
}

// countingGenerator records how many times each coordinate was generated
// and holds briefly so concurrent requesters overlap in time.
type countingGenerator struct {
	mu    sync.Mutex
	calls map[[2]int32]int
}

func (g *countingGenerator) Generate(cx, cz int32, cache *worldgen.SampleCache) *worldgen.Chunk {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[[2]int32]int)
	}
	g.calls[[2]int32{cx, cz}]++
	g.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	return &worldgen.Chunk{CX: cx, CZ: cz, Sections: make([]worldgen.Section, 1)}
}

func (g *countingGenerator) callCount(cx, cz int32) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[[2]int32{cx, cz}]
}

// TestHandleTaskCoalescesConcurrentRequestsForSameChunk verifies that two
// overlapping requests for the same missing chunk coordinate, handled by
// the same shard at the same time, only generate that chunk once: the
// second requester awaits the first's in-flight chunkLoad instead of
// triggering a duplicate generation.
func TestHandleTaskCoalescesConcurrentRequestsForSameChunk(t *testing.T) {
	gen := &countingGenerator{}
	shard := newShard(0, fakeRegionSourceAllMissing{}, gen, fakeEncoder{}, &worldgen.BiomeGenerator{BiomeID: 1})

	var connA, connB fakeConn
	var ifaceA, ifaceB Connection = &connA, &connB
	handleA := NewPlayerHandle(uuid.New(), 0, 7, &ifaceA)
	handleB := NewPlayerHandle(uuid.New(), 0, 7, &ifaceB)

	taskA := ChunkLoadTask{Player: handleA, Loads: []uint64{coord.PackChunk(5, 5)}}
	taskB := ChunkLoadTask{Player: handleB, Loads: []uint64{coord.PackChunk(5, 5)}}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); shard.handleTask(context.Background(), taskA) }()
	go func() { defer wg.Done(); shard.handleTask(context.Background(), taskB) }()
	wg.Wait()

	if got := gen.callCount(5, 5); got != 1 {
		t.Fatalf("Generate called %d times for (5,5), want 1", got)
	}
	for _, conn := range []*fakeConn{&connA, &connB} {
		if len(conn.out) != 3 || string(conn.out[1]) != "chunk:5,5" {
			t.Fatalf("got packets %q, want [bundle chunk:5,5 bundle]", conn.out)
		}
	}
}
